package services

import (
	"context"
	"fmt"

	"github.com/KiwiStays/KiwiOps/backend/shared/go-models"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-repositories"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-utils"
)

type RoomResetService struct {
	roomRepo repositories.RoomRepository
}

func NewRoomResetService(roomRepo repositories.RoomRepository) *RoomResetService {
	return &RoomResetService{roomRepo: roomRepo}
}

// RunNightlyReset is triggered once per day by cron. It clears the readiness
// state of every room in one bulk write. A failure is returned for logging
// only; the next tick is the retry.
func (s *RoomResetService) RunNightlyReset(ctx context.Context) (int64, error) {
	utils.Logger.Info("Running nightly room reset...")

	n, err := s.roomRepo.UpdateAll(ctx, models.NightlyResetPatch())
	if err != nil {
		return 0, fmt.Errorf("nightly room reset: %w", err)
	}
	utils.Logger.Infof("Nightly room reset modified %d rooms", n)
	return n, nil
}
