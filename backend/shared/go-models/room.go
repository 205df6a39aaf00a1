package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoomStatus is derived from a room's checklist; it is never set directly.
type RoomStatus string

const (
	RoomStatusReady             RoomStatus = "Ready"
	RoomStatusNotReady          RoomStatus = "Not Ready"
	RoomStatusAttentionRequired RoomStatus = "Attention Required"
)

func (s RoomStatus) String() string { return string(s) }

// Room tracks the readiness of one physical unit. RoomNum, RoomName and
// RoomImage are seeded from the owning Property's unit entry and are
// independently editable afterwards.
type Room struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"    json:"_id"`
	BuildingID      primitive.ObjectID `bson:"buildingId"       json:"buildingId"`
	Active          *bool              `bson:"active,omitempty" json:"active,omitempty"`
	RoomNum         string             `bson:"roomNum"          json:"roomNum"`
	RoomName        string             `bson:"roomName"         json:"roomName"`
	RoomImage       string             `bson:"roomImage"        json:"roomImage"`
	Checklist       []string           `bson:"checklist"        json:"checklist"`
	Status          RoomStatus         `bson:"status"           json:"status"`
	MissingItems    []string           `bson:"missingItems"     json:"missingItems"`
	VoiceNote       string             `bson:"voiceNote"        json:"voiceNote"`
	Staff           []StaffMember      `bson:"staff"            json:"staff"`
	StaffWhoUpdated string             `bson:"staffWhoUpdated"  json:"staffWhoUpdated"`
	Notes           string             `bson:"notes"            json:"notes"`
	CreatedAt       time.Time          `bson:"createdAt"        json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"        json:"updatedAt"`
}

func (r *Room) GetID() string { return r.ID.Hex() }

// NewRoomForUnit builds the unprepared Room for a Property unit.
func NewRoomForUnit(buildingID primitive.ObjectID, u Unit, staff []StaffMember) *Room {
	return &Room{
		BuildingID:      buildingID,
		RoomNum:         u.HouseNumber,
		RoomName:        u.HouseName,
		RoomImage:       u.Image,
		Checklist:       []string{},
		Status:          RoomStatusNotReady,
		MissingItems:    []string{},
		VoiceNote:       "",
		Staff:           CloneStaff(staff),
		StaffWhoUpdated: "",
	}
}
