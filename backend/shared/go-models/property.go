package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Property is a building-level aggregate: a named building, its declared
// units and the roster of staff that can be assigned to any of its rooms.
type Property struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	PlaceName    string             `bson:"placeName"     json:"placeName"`
	BuildingName string             `bson:"buildingName"  json:"buildingName"`
	BuildingPic  string             `bson:"buildingPic"   json:"buildingPic"`
	UnitCount    int                `bson:"unitCount"     json:"unitCount"`
	Units        []Unit             `bson:"units"         json:"units"`
	Staff        []StaffMember      `bson:"staff"         json:"staff"`
	CreatedAt    time.Time          `bson:"createdAt"     json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"     json:"updatedAt"`
}

func (p *Property) GetID() string { return p.ID.Hex() }
