package services

import (
	"context"
	"errors"
	"testing"
	"time"

	internal_utils "github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/utils"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-models"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func firstRoom(t *testing.T, f *fixture, p *models.Property) *models.Room {
	t.Helper()
	rooms, err := f.rooms.ListByBuildingID(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotEmpty(t, rooms)
	return rooms[0]
}

func TestRoomService_UpdateRoom_PartialChecklist(t *testing.T) {
	f := newFixture()
	rm := firstRoom(t, f, seedProperty(t, f, "101"))

	updated, err := f.rsvc.UpdateRoom(context.Background(), UpdateRoomInput{
		RoomID:    rm.ID,
		Checklist: utils.Ptr(`["Bed Setup","WiFi Card"]`),
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusAttentionRequired, updated.Status)
	assert.Equal(t, []string{"Coffee Machine", "Utensils"}, updated.MissingItems)
	assert.Equal(t, []string{"Bed Setup", "WiFi Card"}, updated.Checklist)
}

func TestRoomService_UpdateRoom_CompleteChecklistIsReady(t *testing.T) {
	f := newFixture()
	rm := firstRoom(t, f, seedProperty(t, f, "101"))

	updated, err := f.rsvc.UpdateRoom(context.Background(), UpdateRoomInput{
		RoomID:    rm.ID,
		Checklist: utils.Ptr(`["WiFi Card","Utensils","Coffee Machine","Bed Setup"]`),
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusReady, updated.Status)
	assert.Equal(t, []string{}, updated.MissingItems)
}

func TestRoomService_UpdateRoom_ChecklistOverwritesNotMerges(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	rm := firstRoom(t, f, seedProperty(t, f, "101"))

	_, err := f.rsvc.UpdateRoom(ctx, UpdateRoomInput{RoomID: rm.ID, Checklist: utils.Ptr(`["Bed Setup"]`)})
	require.NoError(t, err)

	// No checklist supplied: treated as empty.
	updated, err := f.rsvc.UpdateRoom(ctx, UpdateRoomInput{RoomID: rm.ID, Notes: utils.Ptr("restock soap")})
	require.NoError(t, err)
	assert.Equal(t, []string{}, updated.Checklist)
	assert.Equal(t, models.RoomStatusNotReady, updated.Status)
	assert.Equal(t, testCatalog, updated.MissingItems)
	assert.Equal(t, "restock soap", updated.Notes)
}

func TestRoomService_UpdateRoom_ChecklistMatchesExactly(t *testing.T) {
	tests := []struct {
		name      string
		checklist string
		want      []string
		missing   []string
	}{
		{
			name:      "padded items",
			checklist: `[" Bed Setup","Coffee Machine","Utensils","WiFi Card "]`,
			want:      []string{" Bed Setup", "Coffee Machine", "Utensils", "WiFi Card "},
			missing:   []string{"Bed Setup", "WiFi Card"},
		},
		{
			name:      "single blank item",
			checklist: `[""]`,
			want:      []string{""},
			missing:   testCatalog,
		},
		{
			name:      "different case",
			checklist: `["bed setup","Coffee Machine","Utensils","WiFi Card"]`,
			want:      []string{"bed setup", "Coffee Machine", "Utensils", "WiFi Card"},
			missing:   []string{"Bed Setup"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			rm := firstRoom(t, f, seedProperty(t, f, "101"))

			updated, err := f.rsvc.UpdateRoom(context.Background(), UpdateRoomInput{
				RoomID:    rm.ID,
				Checklist: utils.Ptr(tc.checklist),
			})
			require.NoError(t, err)
			assert.Equal(t, models.RoomStatusAttentionRequired, updated.Status)
			assert.Equal(t, tc.missing, updated.MissingItems)
			assert.Equal(t, tc.want, updated.Checklist)
		})
	}
}

func TestRoomService_UpdateRoom_UndecodableInputsBecomeEmpty(t *testing.T) {
	f := newFixture()
	rm := firstRoom(t, f, seedProperty(t, f, "101"))
	require.NotEmpty(t, rm.Staff)

	updated, err := f.rsvc.UpdateRoom(context.Background(), UpdateRoomInput{
		RoomID:    rm.ID,
		Checklist: utils.Ptr("Bed Setup"),
		Staff:     utils.Ptr("{not json"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusNotReady, updated.Status)
	assert.Equal(t, []string{}, updated.Checklist)
	assert.Equal(t, []models.StaffMember{}, updated.Staff)
}

func TestRoomService_UpdateRoom_StaffAbsentLeavesStaff(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	rm := firstRoom(t, f, seedProperty(t, f, "101"))

	updated, err := f.rsvc.UpdateRoom(ctx, UpdateRoomInput{RoomID: rm.ID, RoomName: utils.Ptr("Sea View")})
	require.NoError(t, err)
	assert.Equal(t, rm.Staff, updated.Staff)
	assert.Equal(t, "Sea View", updated.RoomName)

	updated, err = f.rsvc.UpdateRoom(ctx, UpdateRoomInput{
		RoomID: rm.ID,
		Staff:  utils.Ptr(`[{"name":"Ravi","profileImg":"https://x/r.png"}]`),
		Active: utils.Ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, []models.StaffMember{{Name: "Ravi", ProfileImg: "https://x/r.png"}}, updated.Staff)
	require.NotNil(t, updated.Active)
	assert.False(t, *updated.Active)
}

func TestRoomService_UpdateRoom_CatalogOverride(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	rm := firstRoom(t, f, seedProperty(t, f, "101"))

	updated, err := f.rsvc.UpdateRoom(ctx, UpdateRoomInput{
		RoomID:          rm.ID,
		Checklist:       utils.Ptr(`["Towels"]`),
		CatalogOverride: utils.Ptr(`["Towels","Soap"]`),
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusAttentionRequired, updated.Status)
	assert.Equal(t, []string{"Soap"}, updated.MissingItems)

	// Undecodable override falls back to the default catalog.
	updated, err = f.rsvc.UpdateRoom(ctx, UpdateRoomInput{
		RoomID:          rm.ID,
		Checklist:       utils.Ptr(`["Towels"]`),
		CatalogOverride: utils.Ptr(`Towels,Soap`),
	})
	require.NoError(t, err)
	assert.Equal(t, testCatalog, updated.MissingItems)
}

func TestRoomService_UpdateRoom_VoiceNote(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	rm := firstRoom(t, f, seedProperty(t, f, "101"))

	first := newUpload(t, "note1.m4a", "a")
	updated, err := f.rsvc.UpdateRoom(ctx, UpdateRoomInput{RoomID: rm.ID, VoiceNote: first})
	require.NoError(t, err)
	good := f.store.BaseURL + "/property_images/note1"
	assert.Equal(t, good, updated.VoiceNote)
	assertRemoved(t, first.LocalPath)

	f.store.Err = errors.New("cloud down")
	second := newUpload(t, "note2.m4a", "b")
	updated, err = f.rsvc.UpdateRoom(ctx, UpdateRoomInput{RoomID: rm.ID, VoiceNote: second})
	require.NoError(t, err)
	assert.Equal(t, good, updated.VoiceNote)
	assertRemoved(t, second.LocalPath)
}

func TestRoomService_UpdateRoom_SetsUpdatedAt(t *testing.T) {
	f := newFixture()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f.rsvc.now = func() time.Time { return fixed }
	rm := firstRoom(t, f, seedProperty(t, f, "101"))

	updated, err := f.rsvc.UpdateRoom(context.Background(), UpdateRoomInput{RoomID: rm.ID})
	require.NoError(t, err)
	assert.Equal(t, fixed, updated.UpdatedAt)
}

func TestRoomService_UpdateRoom_NotFound(t *testing.T) {
	f := newFixture()
	voice := newUpload(t, "orphan.m4a", "x")

	_, err := f.rsvc.UpdateRoom(context.Background(), UpdateRoomInput{RoomID: primitive.NewObjectID(), VoiceNote: voice})
	require.ErrorIs(t, err, internal_utils.ErrRoomNotFound)
	assert.Empty(t, f.store.Uploads())
	assertRemoved(t, voice.LocalPath)
}

func TestRoomService_DeleteRoom_PullsUnit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := seedProperty(t, f, "101", "102")
	rm := firstRoom(t, f, p)
	require.Equal(t, "101", rm.RoomNum)

	res, err := f.rsvc.DeleteRoom(ctx, rm.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, rm.ID, res.Room.ID)

	gone, _ := f.rooms.GetByID(ctx, rm.ID)
	assert.Nil(t, gone)

	saved, _ := f.props.GetByID(ctx, p.ID)
	require.Len(t, saved.Units, 1)
	assert.Equal(t, "102", saved.Units[0].HouseNumber)
	assert.Equal(t, saved.Units, res.Property.Units)
}

func TestRoomService_DeleteRoom_NotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := seedProperty(t, f, "101")

	_, err := f.rsvc.DeleteRoom(ctx, primitive.NewObjectID(), p.ID)
	require.ErrorIs(t, err, internal_utils.ErrRoomNotFound)

	rm := firstRoom(t, f, p)
	res, err := f.rsvc.DeleteRoom(ctx, rm.ID, primitive.NewObjectID())
	require.ErrorIs(t, err, internal_utils.ErrPropertyNotFound)
	require.NotNil(t, res)
	assert.Equal(t, rm.ID, res.Room.ID)

	// The room deletion is not undone.
	gone, _ := f.rooms.GetByID(ctx, rm.ID)
	assert.Nil(t, gone)
}

func TestRoomService_Reads(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := seedProperty(t, f, "101", "102")

	rooms, err := f.rsvc.ListRoomsByBuilding(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, rooms, 2)

	got, err := f.rsvc.GetRoom(ctx, rooms[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "102", got.RoomNum)

	_, err = f.rsvc.GetRoom(ctx, primitive.NewObjectID())
	require.ErrorIs(t, err, internal_utils.ErrRoomNotFound)

	_, err = f.rsvc.ListRoomsByBuilding(ctx, primitive.NewObjectID())
	require.ErrorIs(t, err, internal_utils.ErrRoomNotFound)
}
