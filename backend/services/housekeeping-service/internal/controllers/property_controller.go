package controllers

import (
	"fmt"
	"net/http"

	"github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/constants"
	"github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/dtos"
	"github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/services"
	internal_utils "github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/utils"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-utils"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// Per-field file limits on create.
const (
	maxBuildingPics = 1
	maxImagesPerSet = 10
)

var propertyValidate = validator.New()

type PropertyController struct {
	svc  *services.PropertyService
	opts FormOptions
}

func NewPropertyController(svc *services.PropertyService, opts FormOptions) *PropertyController {
	return &PropertyController{svc: svc, opts: opts}
}

// ----------------------------------------------------------------
// POST /api/property/create
// ----------------------------------------------------------------
func (c *PropertyController) CreatePropertyHandler(w http.ResponseWriter, r *http.Request) {
	form, err := parseRequestForm(w, r, c.opts)
	if err != nil {
		respondServiceError(w, err, "Failed to read request", nil)
		return
	}
	defer form.cleanup()

	req := dtos.CreatePropertyRequest{
		PlaceName:      form.str(constants.FormPlaceName, constants.FormPropertyName),
		BuildingName:   form.str(constants.FormBuildingName),
		BuildingPicURL: form.str(constants.FormBuildingPicURL),
	}
	if err := form.jsonList(&req.Units, constants.FormUnits, constants.FormProperties); err != nil {
		respondServiceError(w, err, "", nil)
		return
	}
	if err := form.jsonList(&req.Staff, constants.FormStaff); err != nil {
		respondServiceError(w, err, "", nil)
		return
	}
	if req.UnitCount, err = form.intOr(len(req.Units), constants.FormUnitCount, constants.FormPropertyCount); err != nil {
		respondServiceError(w, err, "", nil)
		return
	}
	if err := propertyValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", err.Error(), err)
		return
	}
	if err := checkFileLimits(form.uploads); err != nil {
		respondServiceError(w, err, "", nil)
		return
	}

	in := propertyInput(req.PlaceName, req.BuildingName, req.UnitCount, req.BuildingPicURL, req.Units, req.Staff, form.uploads)
	res, err := c.svc.Create(r.Context(), in)
	if err != nil {
		respondServiceError(w, err, "Failed to create property", nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, propertyResponse("Property and rooms added successfully", res))
}

// ----------------------------------------------------------------
// PUT /api/property/update/{id}
// ----------------------------------------------------------------
func (c *PropertyController) UpdatePropertyHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseObjectID(mux.Vars(r)["id"])
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

	req := dtos.UpdatePropertyRequest{
		PlaceName:      form.str(constants.FormPlaceName, constants.FormPropertyName),
		BuildingName:   form.str(constants.FormBuildingName),
		BuildingPicURL: form.str(constants.FormBuildingPicURL),
	}
	if err := form.jsonList(&req.Units, constants.FormUnits, constants.FormProperties); err != nil {
		respondServiceError(w, err, "", nil)
		return
	}
	if err := form.jsonList(&req.Staff, constants.FormStaff); err != nil {
		respondServiceError(w, err, "", nil)
		return
	}
	if req.UnitCount, err = form.intOr(len(req.Units), constants.FormUnitCount, constants.FormPropertyCount); err != nil {
		respondServiceError(w, err, "", nil)
		return
	}
	if err := propertyValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", err.Error(), err)
		return
	}

	in := propertyInput(req.PlaceName, req.BuildingName, req.UnitCount, req.BuildingPicURL, req.Units, req.Staff, form.uploads)
	res, err := c.svc.Update(r.Context(), id, in)
	if err != nil {
		respondServiceError(w, err, "Failed to update property", nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, propertyResponse("Property updated successfully.", res))
}

// ----------------------------------------------------------------
// GET /api/property/getproperty?placeName=
// ----------------------------------------------------------------
func (c *PropertyController) ListPropertiesHandler(w http.ResponseWriter, r *http.Request) {
	props, err := c.svc.ListProperties(r.Context(), r.URL.Query().Get(constants.FormPlaceName))
	if err != nil {
		respondServiceError(w, err, "Failed to list properties", nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.PropertiesResponse{
		Message:    "Properties fetched successfully",
		Properties: props,
	})
}

// ----------------------------------------------------------------
// GET /api/property/getproperty/{id}
// ----------------------------------------------------------------
func (c *PropertyController) GetPropertyHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseObjectID(mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err, "", nil)
		return
	}
	p, err := c.svc.GetProperty(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "Failed to load property", nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.SinglePropertyResponse{
		Message:  "Property fetched successfully",
		Property: p,
	})
}

func checkFileLimits(u *internal_utils.FormUploads) error {
	if n := len(u.Positional[constants.FileBuildingPic]); n > maxBuildingPics {
		return fmt.Errorf("%w: at most %d %s file", internal_utils.ErrInvalidPayload, maxBuildingPics, constants.FileBuildingPic)
	}
	for _, field := range []string{constants.FilePropertyImages, constants.FileStaffImages} {
		if n := len(u.Positional[field]) + len(u.Keyed[field]); n > maxImagesPerSet {
			return fmt.Errorf("%w: at most %d %s files", internal_utils.ErrInvalidPayload, maxImagesPerSet, field)
		}
	}
	return nil
}

func propertyInput(
	placeName, buildingName string,
	unitCount int,
	buildingPicURL string,
	units []dtos.UnitDTO,
	staff []dtos.StaffDTO,
	uploads *internal_utils.FormUploads,
) services.PropertyInput {
	in := services.PropertyInput{
		PlaceName:          placeName,
		BuildingName:       buildingName,
		UnitCount:          unitCount,
		BuildingPicURL:     buildingPicURL,
		BuildingPic:        uploads.First(constants.FileBuildingPic),
		UnitImages:         uploads.Positional[constants.FilePropertyImages],
		StaffImages:        uploads.Positional[constants.FileStaffImages],
		UnitImagesByIndex:  uploads.Keyed[constants.FilePropertyImages],
		StaffImagesByIndex: uploads.Keyed[constants.FileStaffImages],
	}
	// Nil stays nil so an update without the field keeps the stored list.
	if units != nil {
		in.Units = make([]services.UnitInput, 0, len(units))
	}
	if staff != nil {
		in.Staff = make([]services.StaffInput, 0, len(staff))
	}
	for _, u := range units {
		in.Units = append(in.Units, services.UnitInput{
			HouseNumber: u.HouseNumber.String(),
			HouseName:   u.HouseName.String(),
			ImageURL:    u.CurrentImage(),
		})
	}
	for _, s := range staff {
		in.Staff = append(in.Staff, services.StaffInput{Name: s.Name, ProfileImgURL: s.CurrentImage()})
	}
	return in
}

func propertyResponse(msg string, res *services.PropertyResult) dtos.PropertyResponse {
	out := dtos.PropertyResponse{
		Message:  msg,
		Property: res.Property,
		Rooms:    res.Rooms,
	}
	for _, wn := range res.Warnings {
		out.Warnings = append(out.Warnings, dtos.SyncWarning{Step: wn.Step, Message: wn.Message})
	}
	return out
}
