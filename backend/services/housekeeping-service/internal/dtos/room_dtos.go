package dtos

import "github.com/KiwiStays/KiwiOps/backend/shared/go-models"

// UpdateRoomRequest holds the text fields of a room update. Nil means the
// field was not sent. Checklist, Staff and ChecklistItems are raw JSON arrays.
type UpdateRoomRequest struct {
	Active          *bool
	RoomNum         *string `validate:"omitempty,max=64"`
	RoomName        *string `validate:"omitempty,max=200"`
	RoomImage       *string
	Checklist       *string
	Staff           *string
	StaffWhoUpdated *string `validate:"omitempty,max=500"`
	Notes           *string `validate:"omitempty,max=5000"`
	ChecklistItems  *string
}

type RoomResponse struct {
	Message string       `json:"message"`
	Room    *models.Room `json:"room"`
}

type UpdateRoomResponse struct {
	Message      string       `json:"message"`
	Room         *models.Room `json:"room"`
	VoiceNoteURL string       `json:"voiceNoteUrl"`
}

type RoomsResponse struct {
	Message string         `json:"message"`
	Rooms   []*models.Room `json:"rooms"`
}

type DeleteRoomResponse struct {
	Message  string           `json:"message"`
	Room     *models.Room     `json:"room"`
	Property *models.Property `json:"property,omitempty"`
}

type HealthCheckResponse struct {
	Status string `json:"status"`
}
