package constants

import "time"

// DefaultChecklistCatalog is the item set a room must have checked off to be
// Ready, used when neither CHECKLIST_ITEMS nor a per-request override is given.
var DefaultChecklistCatalog = []string{
	"Bed Setup",
	"Coffee Machine",
	"Utensils",
	"WiFi Card",
}

// Media
const (
	UnknownFileNamePrefix = "unknown_file_"
	UploadTempPattern     = "kiwiops-upload-*"
	CloudinaryUploadTimeout = 60 * time.Second
)

// Sync steps reported in SyncWarning.Step
const (
	SyncStepInsertRooms    = "insert_rooms"
	SyncStepReconcileRooms = "reconcile_rooms"
	SyncStepPropagateStaff = "propagate_staff"
)

// Multipart form field names
const (
	FormPlaceName      = "placeName"
	FormPropertyName   = "propertyName"
	FormBuildingName   = "buildingName"
	FormUnits          = "units"
	FormProperties     = "properties"
	FormStaff          = "staff"
	FormUnitCount      = "unitCount"
	FormPropertyCount  = "propertyCount"
	FormBuildingPicURL = "buildingPicUrl"

	FileBuildingPic    = "buildingPic"
	FilePropertyImages = "propertyImages"
	FileStaffImages    = "staffImages"
	FileVoiceNote      = "voiceNote"

	FormActive          = "active"
	FormRoomNum         = "roomNum"
	FormRoomName        = "roomName"
	FormRoomImage       = "roomImage"
	FormChecklist       = "checklist"
	FormCatalog         = "checklistItems"
	FormStaffWhoUpdated = "staffWhoUpdated"
	FormNotes           = "notes"
)

// App
const (
	DBConnectMaxRetries     = 5
	DBConnectTimeout        = 5 * time.Second
	DBConnectInitialBackoff = 500 * time.Millisecond
	ShutdownTimeout         = 10 * time.Second
)
