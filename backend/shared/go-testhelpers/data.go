// backend/shared/go-testhelpers/data.go

package testhelpers

import (
	"context"
	"fmt"
	"time"

	"github.com/KiwiStays/KiwiOps/backend/shared/go-models"
	"github.com/stretchr/testify/require"
)

// UniquePlaceName generates a place name that no other run will reuse.
func UniquePlaceName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// TestUnits returns n units numbered 101, 102, ...
func TestUnits(n int) []models.Unit {
	out := make([]models.Unit, n)
	for i := range out {
		out[i] = models.Unit{
			HouseNumber: fmt.Sprintf("%d", 101+i),
			HouseName:   fmt.Sprintf("Unit %d", 101+i),
		}
	}
	return out
}

// CreateTestProperty persists a property with n units and one room per
// unit directly through the repositories.
func (h *TestHelper) CreateTestProperty(ctx context.Context, n int) (*models.Property, []*models.Room) {
	p := &models.Property{
		PlaceName:    UniquePlaceName("it-place"),
		BuildingName: "Integration Block",
		UnitCount:    n,
		Units:        TestUnits(n),
		Staff:        []models.StaffMember{{Name: "Asha"}},
	}
	require.NoError(h.T, h.PropertyRepo.Create(ctx, p))

	rooms := make([]*models.Room, 0, n)
	for _, u := range p.Units {
		rooms = append(rooms, models.NewRoomForUnit(p.ID, u, p.Staff))
	}
	require.NoError(h.T, h.RoomRepo.CreateMany(ctx, rooms))
	h.T.Logf("Created test property %s with %d rooms", p.ID.Hex(), n)
	return p, rooms
}
