package controllers

import (
	"errors"
	"net/http"

	"github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/constants"
	"github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/dtos"
	"github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/services"
	internal_utils "github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/utils"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-utils"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

var roomValidate = validator.New()

type RoomController struct {
	svc  *services.RoomService
	opts FormOptions
}

func NewRoomController(svc *services.RoomService, opts FormOptions) *RoomController {
	return &RoomController{svc: svc, opts: opts}
}

// ----------------------------------------------------------------
// POST /api/property/rooms/update/{roomId}
// ----------------------------------------------------------------
func (c *RoomController) UpdateRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID, err := utils.ParseObjectID(mux.Vars(r)["roomId"])
	if err != nil {
		respondServiceError(w, err, "", nil)
		return
	}

	form, err := parseRequestForm(w, r, c.opts)
	if err != nil {
		respondServiceError(w, err, "Failed to read request", nil)
		return
	}
	defer form.cleanup()

	req := dtos.UpdateRoomRequest{
		RoomNum:         form.optStr(constants.FormRoomNum),
		RoomName:        form.optStr(constants.FormRoomName),
		RoomImage:       form.optStr(constants.FormRoomImage),
		Checklist:       form.optStr(constants.FormChecklist),
		Staff:           form.optStr(constants.FormStaff),
		StaffWhoUpdated: form.optStr(constants.FormStaffWhoUpdated),
		Notes:           form.optStr(constants.FormNotes),
		ChecklistItems:  form.optStr(constants.FormCatalog),
	}
	if req.Active, err = form.optBool(constants.FormActive); err != nil {
		respondServiceError(w, err, "", nil)
		return
	}
	if err := roomValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", err.Error(), err)
		return
	}

	room, err := c.svc.UpdateRoom(r.Context(), services.UpdateRoomInput{
		RoomID:          roomID,
		Active:          req.Active,
		RoomNum:         req.RoomNum,
		RoomName:        req.RoomName,
		RoomImage:       req.RoomImage,
		Checklist:       req.Checklist,
		Staff:           req.Staff,
		StaffWhoUpdated: req.StaffWhoUpdated,
		Notes:           req.Notes,
		CatalogOverride: req.ChecklistItems,
		VoiceNote:       form.uploads.First(constants.FileVoiceNote),
	})
	if err != nil {
		respondServiceError(w, err, "Failed to update room", nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.UpdateRoomResponse{
		Message:      "Room updated successfully",
		Room:         room,
		VoiceNoteURL: room.VoiceNote,
	})
}

// ----------------------------------------------------------------
// DELETE /api/property/room/delete/{id}/{propid}
// ----------------------------------------------------------------
func (c *RoomController) DeleteRoomHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	roomID, err := utils.ParseObjectID(vars["id"])
	if err != nil {
		respondServiceError(w, err, "", nil)
		return
	}
	propID, err := utils.ParseObjectID(vars["propid"])
	if err != nil {
		respondServiceError(w, err, "", nil)
		return
	}

	res, err := c.svc.DeleteRoom(r.Context(), roomID, propID)
	if err != nil {
		// The room may already be gone; report what was removed.
		var details any
		if res != nil && res.Room != nil {
			details = dtos.DeleteRoomResponse{Message: "Room deleted; property not updated", Room: res.Room}
		}
		if errors.Is(err, internal_utils.ErrRoomNotFound) {
			details = nil
		}
		respondServiceError(w, err, "Failed to delete room", details)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.DeleteRoomResponse{
		Message:  "Room deleted successfully",
		Room:     res.Room,
		Property: res.Property,
	})
}

// ----------------------------------------------------------------
// GET /api/property/roominfo/{id}
// ----------------------------------------------------------------
func (c *RoomController) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseObjectID(mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err, "", nil)
		return
	}
	room, err := c.svc.GetRoom(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "Failed to load room", nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.RoomResponse{Message: "Room fetched successfully", Room: room})
}

// ----------------------------------------------------------------
// GET /api/property/building/{buildingId}
// ----------------------------------------------------------------
func (c *RoomController) ListBuildingRoomsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseObjectID(mux.Vars(r)["buildingId"])
	if err != nil {
		respondServiceError(w, err, "", nil)
		return
	}
	rooms, err := c.svc.ListRoomsByBuilding(r.Context(), id)
	if err != nil {
		if errors.Is(err, internal_utils.ErrRoomNotFound) {
			utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "No rooms found for this building", nil, err)
			return
		}
		respondServiceError(w, err, "Failed to list rooms", nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.RoomsResponse{Message: "Rooms fetched successfully", Rooms: rooms})
}
