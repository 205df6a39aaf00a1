package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	internal_utils "github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/utils"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-models"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-repositories"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-utils"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UpdateRoomInput is a partial room update. Nil fields were not supplied.
// Checklist, Staff and CatalogOverride hold the raw JSON arrays sent by the
// client.
type UpdateRoomInput struct {
	RoomID          primitive.ObjectID
	Active          *bool
	RoomNum         *string
	RoomName        *string
	RoomImage       *string
	Checklist       *string
	Staff           *string
	StaffWhoUpdated *string
	Notes           *string
	CatalogOverride *string
	VoiceNote       *internal_utils.UploadedFile
}

// DeleteRoomResult holds what DeleteRoom removed and the Property after the
// unit was pulled. Property is nil if that step did not complete.
type DeleteRoomResult struct {
	Room     *models.Room
	Property *models.Property
}

type RoomService struct {
	roomRepo repositories.RoomRepository
	propRepo repositories.PropertyRepository
	media    *MediaService
	catalog  []string
	now      func() time.Time
}

func NewRoomService(
	roomRepo repositories.RoomRepository,
	propRepo repositories.PropertyRepository,
	media *MediaService,
	defaultCatalog []string,
) *RoomService {
	return &RoomService{
		roomRepo: roomRepo,
		propRepo: propRepo,
		media:    media,
		catalog:  append([]string{}, defaultCatalog...),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// UpdateRoom applies in to one room and recomputes its readiness from the
// submitted checklist. The checklist always overwrites; an absent one
// counts as empty.
func (s *RoomService) UpdateRoom(ctx context.Context, in UpdateRoomInput) (*models.Room, error) {
	defer in.VoiceNote.Remove()

	existing, err := s.roomRepo.GetByID(ctx, in.RoomID)
	if err != nil {
		return nil, fmt.Errorf("load room: %w", err)
	}
	if existing == nil {
		return nil, internal_utils.ErrRoomNotFound
	}

	logger := utils.Logger.WithFields(logrus.Fields{
		"room_id":    in.RoomID.Hex(),
		"request_id": utils.RequestIDFromContext(ctx),
	})

	checklist := decodeStrings(in.Checklist, logger, "checklist")
	catalog := s.catalog
	if in.CatalogOverride != nil {
		if override := decodeStrings(in.CatalogOverride, logger, "catalog"); len(override) > 0 {
			catalog = override
		}
	}
	resolved := ResolveChecklist(checklist, catalog)

	now := s.now()
	patch := models.RoomPatch{
		Active:          in.Active,
		RoomNum:         in.RoomNum,
		RoomName:        in.RoomName,
		RoomImage:       in.RoomImage,
		Checklist:       &checklist,
		Status:          &resolved.Status,
		MissingItems:    &resolved.MissingItems,
		StaffWhoUpdated: in.StaffWhoUpdated,
		Notes:           in.Notes,
		UpdatedAt:       &now,
	}
	if in.Staff != nil {
		staff := decodeStaff(*in.Staff, logger)
		patch.Staff = &staff
	}
	if in.VoiceNote != nil {
		if url := s.media.Resolve(ctx, MediaSlot{File: in.VoiceNote}); url != "" {
			patch.VoiceNote = &url
		} else {
			logger.Warn("Voice note upload failed; keeping previous voice note")
		}
	}

	updated, err := s.roomRepo.UpdateFields(ctx, in.RoomID, patch)
	if err != nil {
		return nil, fmt.Errorf("update room: %w", err)
	}
	if updated == nil {
		return nil, internal_utils.ErrRoomNotFound
	}
	logger.WithField("status", updated.Status).Info("Room updated")
	return updated, nil
}

// DeleteRoom removes a room, then pulls the unit with the same house number
// from its property. The room stays deleted if the second step fails.
func (s *RoomService) DeleteRoom(ctx context.Context, roomID, propertyID primitive.ObjectID) (*DeleteRoomResult, error) {
	room, err := s.roomRepo.Delete(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("delete room: %w", err)
	}
	if room == nil {
		return nil, internal_utils.ErrRoomNotFound
	}
	res := &DeleteRoomResult{Room: room}

	logger := utils.Logger.WithFields(logrus.Fields{
		"room_id":     roomID.Hex(),
		"property_id": propertyID.Hex(),
		"house_num":   room.RoomNum,
	})

	p, err := s.propRepo.PullUnit(ctx, propertyID, room.RoomNum)
	if err != nil {
		logger.WithError(err).Error("Room deleted but unit removal failed")
		return res, fmt.Errorf("remove unit from property: %w", err)
	}
	if p == nil {
		logger.Warn("Room deleted but property not found")
		return res, internal_utils.ErrPropertyNotFound
	}
	res.Property = p
	logger.Info("Room deleted and unit removed from property")
	return res, nil
}

/* ───────────── reads ───────────── */

func (s *RoomService) GetRoom(ctx context.Context, id primitive.ObjectID) (*models.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load room: %w", err)
	}
	if room == nil {
		return nil, internal_utils.ErrRoomNotFound
	}
	return room, nil
}

// ListRoomsByBuilding returns the rooms of a property in creation order;
// ErrRoomNotFound when it has none.
func (s *RoomService) ListRoomsByBuilding(ctx context.Context, buildingID primitive.ObjectID) ([]*models.Room, error) {
	rooms, err := s.roomRepo.ListByBuildingID(ctx, buildingID)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	if len(rooms) == 0 {
		return nil, internal_utils.ErrRoomNotFound
	}
	return rooms, nil
}

/* ───────────── decoding ───────────── */

// decodeStrings returns the JSON string array in raw exactly as sent.
func decodeStrings(raw *string, logger *logrus.Entry, field string) []string {
	out := []string{}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return out
	}
	var list []string
	if err := json.Unmarshal([]byte(*raw), &list); err != nil {
		logger.WithError(err).Warnf("Undecodable %s; treating as empty", field)
		return out
	}
	if list == nil {
		return out
	}
	return list
}

func decodeStaff(raw string, logger *logrus.Entry) []models.StaffMember {
	out := []models.StaffMember{}
	if strings.TrimSpace(raw) == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		logger.WithError(err).Warn("Undecodable staff; treating as empty")
		return []models.StaffMember{}
	}
	if out == nil {
		out = []models.StaffMember{}
	}
	return out
}
