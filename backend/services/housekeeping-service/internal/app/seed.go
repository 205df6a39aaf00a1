package app

import (
	"context"
	"fmt"

	"github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/services"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-utils"
)

const (
	seedPlaceName    = "Demo Place"
	seedBuildingName = "Demo Tower"
)

/*
SeedTestData creates one demo Property with three units (and so three
Rooms) unless a Property with the same place and building name exists.
*/
func SeedTestData(ctx context.Context, propSvc *services.PropertyService) error {
	existing, err := propSvc.ListProperties(ctx, seedPlaceName)
	if err != nil {
		return fmt.Errorf("check existing seed property: %w", err)
	}
	for _, p := range existing {
		if p.BuildingName == seedBuildingName {
			utils.Logger.Info("housekeeping-service: seed data already present; skipping seeding")
			return nil
		}
	}

	res, err := propSvc.Create(ctx, services.PropertyInput{
		PlaceName:    seedPlaceName,
		BuildingName: seedBuildingName,
		Units: []services.UnitInput{
			{HouseNumber: "101", HouseName: "Garden Suite"},
			{HouseNumber: "102", HouseName: "Sea View"},
			{HouseNumber: "201", HouseName: "Penthouse"},
		},
		Staff: []services.StaffInput{
			{Name: "Asha"},
			{Name: "Ravi"},
		},
	})
	if err != nil {
		return fmt.Errorf("seed property: %w", err)
	}
	if len(res.Warnings) > 0 {
		return fmt.Errorf("seed property saved with %d sync warnings", len(res.Warnings))
	}
	utils.Logger.Infof("housekeeping-service: seeded property %s with %d rooms", res.Property.GetID(), len(res.Rooms))
	return nil
}
