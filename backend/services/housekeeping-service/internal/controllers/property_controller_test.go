package controllers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KiwiStays/KiwiOps/backend/shared/go-models"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-testhelpers"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-utils"
)

type propertyResp struct {
	Message  string           `json:"message"`
	Property *models.Property `json:"property"`
	Rooms    []*models.Room   `json:"rooms"`
	Warnings []struct {
		Step string `json:"step"`
	} `json:"warnings"`
}

func TestCreateProperty_MultipartWithImages(t *testing.T) {
	s := newServer(t, FormOptions{})

	rec := s.multipart(http.MethodPost, "/api/property/create", map[string]string{
		"propertyName": "Goa",
		"buildingName": "Sea Breeze",
		"properties":   `[{"houseNumber":101,"houseName":"Garden"},{"houseNumber":"102","houseName":"Sea View"}]`,
		"staff":        `[{"name":"Asha"},{"name":"Ravi"}]`,
	},
		testhelpers.FormFile{Field: "buildingPic", Filename: "front.jpg", Content: []byte("pic")},
		testhelpers.FormFile{Field: "propertyImages", Filename: "garden.png", Content: []byte("u0")},
		testhelpers.FormFile{Field: "staffImages[1]", Filename: "ravi.jpg", Content: []byte("s1")},
	)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp propertyResp
	decode(t, rec.Body, &resp)
	assert.Equal(t, "Property and rooms added successfully", resp.Message)
	p := resp.Property
	assert.Equal(t, "Goa", p.PlaceName)
	assert.Equal(t, 2, p.UnitCount)
	assert.True(t, strings.HasSuffix(p.BuildingPic, "/front"))
	assert.True(t, strings.HasSuffix(p.Units[0].Image, "/garden"))
	assert.Empty(t, p.Units[1].Image)
	assert.Equal(t, "101", p.Units[0].HouseNumber)
	assert.Empty(t, p.Staff[0].ProfileImg)
	assert.True(t, strings.HasSuffix(p.Staff[1].ProfileImg, "/ravi"))

	require.Len(t, resp.Rooms, 2)
	assert.Equal(t, "101", resp.Rooms[0].RoomNum)
	assert.Equal(t, "102", resp.Rooms[1].RoomNum)
	assert.Equal(t, models.RoomStatusNotReady, resp.Rooms[0].Status)
	assert.Len(t, s.store.Uploads(), 3)
}

func TestCreateProperty_JSONBody(t *testing.T) {
	s := newServer(t, FormOptions{})

	rec := s.json(http.MethodPost, "/api/property/create", map[string]any{
		"placeName":    "Goa",
		"buildingName": "Sea Breeze",
		"units":        []map[string]any{{"houseNumber": 1, "houseName": "One"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp propertyResp
	decode(t, rec.Body, &resp)
	require.Len(t, resp.Rooms, 1)
	assert.Equal(t, "1", resp.Rooms[0].RoomNum)
}

func TestCreateProperty_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		files  []testhelpers.FormFile
		code   string
	}{
		{
			name:   "missing building name",
			fields: map[string]string{"placeName": "Goa"},
			code:   utils.ErrCodeValidation,
		},
		{
			name:   "blank place name",
			fields: map[string]string{"placeName": "  ", "buildingName": "B"},
			code:   utils.ErrCodeValidation,
		},
		{
			name:   "units not an array",
			fields: map[string]string{"placeName": "Goa", "buildingName": "B", "units": "{nope"},
			code:   utils.ErrCodeInvalidPayload,
		},
		{
			name:   "unit count not a number",
			fields: map[string]string{"placeName": "Goa", "buildingName": "B", "unitCount": "many"},
			code:   utils.ErrCodeInvalidPayload,
		},
		{
			name:   "two building pics",
			fields: map[string]string{"placeName": "Goa", "buildingName": "B"},
			files: []testhelpers.FormFile{
				{Field: "buildingPic", Filename: "a.jpg", Content: []byte("a")},
				{Field: "buildingPic", Filename: "b.jpg", Content: []byte("b")},
			},
			code: utils.ErrCodeInvalidPayload,
		},
		{
			name:   "image index out of range",
			fields: map[string]string{"placeName": "Goa", "buildingName": "B"},
			files: []testhelpers.FormFile{
				{Field: "propertyImages[99999999999999999999]", Filename: "a.jpg", Content: []byte("a")},
			},
			code: utils.ErrCodeInvalidPayload,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newServer(t, FormOptions{})
			rec := s.multipart(http.MethodPost, "/api/property/create", tc.fields, tc.files...)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, tc.code, decodeError(t, rec).Code)
			assert.Empty(t, s.rooms.All())
			assert.Empty(t, s.store.Uploads())
		})
	}
}

func TestCreateProperty_PayloadTooLarge(t *testing.T) {
	s := newServer(t, FormOptions{MaxBytes: 1024})

	rec := s.multipart(http.MethodPost, "/api/property/create",
		map[string]string{"placeName": "Goa", "buildingName": "B"},
		testhelpers.FormFile{Field: "buildingPic", Filename: "huge.jpg", Content: make([]byte, 64*1024)},
	)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "payload_too_large", decodeError(t, rec).Code)
}

func TestUpdateProperty_AppendsRoomsAndKeepsStoredImages(t *testing.T) {
	s := newServer(t, FormOptions{})
	p := s.createProperty("101")

	stored := s.store.BaseURL + "/property_images/kept"
	rec := s.multipart(http.MethodPut, "/api/property/update/"+p.ID.Hex(), map[string]string{
		"placeName":    "Goa",
		"buildingName": "Sea Breeze II",
		"units": testhelpers.MustJSON([]map[string]string{
			{"houseNumber": "101", "houseName": "Unit 101", "imageUrl": stored},
			{"houseNumber": "102", "houseName": "Unit 102"},
		}),
		"staff":         `[{"name":"Asha"},{"name":"Meera"}]`,
		"propertyCount": "5",
	}, testhelpers.FormFile{Field: "propertyImages", Filename: "new.jpg", Content: []byte("n")})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp propertyResp
	decode(t, rec.Body, &resp)
	assert.Equal(t, "Property updated successfully.", resp.Message)
	assert.Equal(t, "Sea Breeze II", resp.Property.BuildingName)
	assert.Equal(t, 5, resp.Property.UnitCount)
	assert.Equal(t, stored, resp.Property.Units[0].Image)
	assert.True(t, strings.HasSuffix(resp.Property.Units[1].Image, "/new"))
	require.Len(t, resp.Rooms, 1)
	assert.Equal(t, "102", resp.Rooms[0].RoomNum)

	all := s.rooms.All()
	require.Len(t, all, 2)
	for _, r := range all {
		require.Len(t, r.Staff, 2)
		assert.Equal(t, "Meera", r.Staff[1].Name)
	}
	require.Len(t, s.store.Uploads(), 1)
}

func TestUpdateProperty_RenameOnlyKeepsUnitsAndStaff(t *testing.T) {
	s := newServer(t, FormOptions{})
	p := s.createProperty("101", "102")

	rec := s.json(http.MethodPut, "/api/property/update/"+p.ID.Hex(), map[string]string{
		"placeName":    "Goa",
		"buildingName": "Sea Breeze Renamed",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp propertyResp
	decode(t, rec.Body, &resp)
	assert.Equal(t, "Sea Breeze Renamed", resp.Property.BuildingName)
	require.Len(t, resp.Property.Units, 2)
	assert.Equal(t, "102", resp.Property.Units[1].HouseNumber)
	require.Len(t, resp.Property.Staff, 1)
	assert.Equal(t, 2, resp.Property.UnitCount)
	assert.Empty(t, resp.Rooms)

	for _, r := range s.rooms.All() {
		require.Len(t, r.Staff, 1)
		assert.Equal(t, "Asha", r.Staff[0].Name)
	}
}

func TestUpdateProperty_Errors(t *testing.T) {
	s := newServer(t, FormOptions{})

	rec := s.multipart(http.MethodPut, "/api/property/update/not-an-id", map[string]string{"placeName": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, utils.ErrCodeInvalidPayload, decodeError(t, rec).Code)

	rec = s.multipart(http.MethodPut, "/api/property/update/64b000000000000000000000", map[string]string{"placeName": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, utils.ErrCodeNotFound, decodeError(t, rec).Code)
}

func TestPropertyReads(t *testing.T) {
	s := newServer(t, FormOptions{})
	p := s.createProperty("101", "102")

	rec := s.get("/api/property/getproperty?placeName=Goa")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Properties []*models.Property `json:"properties"`
	}
	decode(t, rec.Body, &list)
	require.Len(t, list.Properties, 1)
	assert.Equal(t, p.ID, list.Properties[0].ID)

	rec = s.get("/api/property/getproperty?placeName=Elsewhere")
	require.Equal(t, http.StatusOK, rec.Code)
	list.Properties = nil
	decode(t, rec.Body, &list)
	assert.Empty(t, list.Properties)

	rec = s.get("/api/property/getproperty/" + p.ID.Hex())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.get("/api/property/getproperty/64b000000000000000000000")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
