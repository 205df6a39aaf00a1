package dtos

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/KiwiStays/KiwiOps/backend/shared/go-models"
)

// FlexString accepts a JSON string or number, e.g. houseNumber 101 or "101".
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return strings.TrimSpace(string(f)) }

// UnitDTO is one entry of the "units" form field. Image and ImageURL are
// both accepted as the current image reference.
type UnitDTO struct {
	HouseNumber FlexString `json:"houseNumber" validate:"max=64"`
	HouseName   FlexString `json:"houseName" validate:"max=200"`
	Image       string     `json:"image,omitempty"`
	ImageURL    string     `json:"imageUrl,omitempty"`
}

func (u UnitDTO) CurrentImage() string {
	if u.ImageURL != "" {
		return u.ImageURL
	}
	return u.Image
}

// StaffDTO is one entry of the "staff" form field.
type StaffDTO struct {
	Name          string `json:"name" validate:"max=200"`
	ProfileImg    string `json:"profileImg,omitempty"`
	ProfileImgURL string `json:"profileImgUrl,omitempty"`
}

func (s StaffDTO) CurrentImage() string {
	if s.ProfileImgURL != "" {
		return s.ProfileImgURL
	}
	return s.ProfileImg
}

type CreatePropertyRequest struct {
	PlaceName      string     `validate:"required,max=200"`
	BuildingName   string     `validate:"required,max=200"`
	UnitCount      int        `validate:"gte=0"`
	Units          []UnitDTO  `validate:"dive"`
	Staff          []StaffDTO `validate:"dive"`
	BuildingPicURL string
}

type UpdatePropertyRequest struct {
	PlaceName      string     `validate:"max=200"`
	BuildingName   string     `validate:"max=200"`
	UnitCount      int        `validate:"gte=0"`
	Units          []UnitDTO  `validate:"dive"`
	Staff          []StaffDTO `validate:"dive"`
	BuildingPicURL string
}

// SyncWarning mirrors a partially applied Property/Room write.
type SyncWarning struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

type PropertyResponse struct {
	Message  string           `json:"message"`
	Property *models.Property `json:"property"`
	Rooms    []*models.Room   `json:"rooms"`
	Warnings []SyncWarning    `json:"warnings,omitempty"`
}

type PropertiesResponse struct {
	Message    string             `json:"message"`
	Properties []*models.Property `json:"properties"`
}

type SinglePropertyResponse struct {
	Message  string           `json:"message"`
	Property *models.Property `json:"property"`
}
