package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/routes"
	"github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/services"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-middleware"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-models"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-testhelpers"
)

var testCatalog = []string{"Bed Setup", "Coffee Machine", "Utensils", "WiFi Card"}

type server struct {
	t      *testing.T
	props  *testhelpers.MemPropertyRepo
	rooms  *testhelpers.MemRoomRepo
	store  *testhelpers.RecordingObjectStore
	router *mux.Router
}

func newServer(t *testing.T, opts FormOptions) *server {
	t.Helper()
	if opts.TmpDir == "" {
		opts.TmpDir = t.TempDir()
	}
	s := &server{
		t:     t,
		props: testhelpers.NewMemPropertyRepo(),
		rooms: testhelpers.NewMemRoomRepo(),
		store: testhelpers.NewRecordingObjectStore(),
	}
	media := services.NewMediaService(s.store, 2)
	pc := NewPropertyController(services.NewPropertyService(s.props, s.rooms, media), opts)
	rc := NewRoomController(services.NewRoomService(s.rooms, s.props, media, testCatalog), opts)

	r := mux.NewRouter()
	r.Use(middleware.RequestIDMiddleware, middleware.RecoveryMiddleware)
	r.HandleFunc(routes.PropertyCreate, pc.CreatePropertyHandler).Methods(http.MethodPost)
	r.HandleFunc(routes.PropertyList, pc.ListPropertiesHandler).Methods(http.MethodGet)
	r.HandleFunc(routes.PropertyGet, pc.GetPropertyHandler).Methods(http.MethodGet)
	r.HandleFunc(routes.PropertyUpdate, pc.UpdatePropertyHandler).Methods(http.MethodPut)
	r.HandleFunc(routes.BuildingRooms, rc.ListBuildingRoomsHandler).Methods(http.MethodGet)
	r.HandleFunc(routes.RoomInfo, rc.GetRoomHandler).Methods(http.MethodGet)
	r.HandleFunc(routes.RoomUpdate, rc.UpdateRoomHandler).Methods(http.MethodPost)
	r.HandleFunc(routes.RoomDelete, rc.DeleteRoomHandler).Methods(http.MethodDelete)
	s.router = r
	return s
}

func (s *server) multipart(method, path string, fields map[string]string, files ...testhelpers.FormFile) *httptest.ResponseRecorder {
	s.t.Helper()
	body, contentType, err := testhelpers.BuildMultipartBody(fields, files)
	require.NoError(s.t, err)
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	return s.serve(req)
}

func (s *server) json(method, path string, payload any) *httptest.ResponseRecorder {
	s.t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(s.t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return s.serve(req)
}

func (s *server) get(path string) *httptest.ResponseRecorder {
	return s.serve(httptest.NewRequest(http.MethodGet, path, nil))
}

func (s *server) delete(path string) *httptest.ResponseRecorder {
	return s.serve(httptest.NewRequest(http.MethodDelete, path, nil))
}

func (s *server) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// createProperty posts a property with the given house numbers and no files.
func (s *server) createProperty(numbers ...string) *models.Property {
	s.t.Helper()
	units := make([]map[string]string, 0, len(numbers))
	for _, n := range numbers {
		units = append(units, map[string]string{"houseNumber": n, "houseName": "Unit " + n})
	}
	rec := s.multipart(http.MethodPost, "/api/property/create", map[string]string{
		"placeName":    "Goa",
		"buildingName": "Sea Breeze",
		"units":        testhelpers.MustJSON(units),
		"staff":        testhelpers.MustJSON([]map[string]string{{"name": "Asha"}}),
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		Property *models.Property `json:"property"`
	}
	decode(s.t, rec.Body, &resp)
	return resp.Property
}

func decode(t *testing.T, r io.Reader, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r).Decode(v))
}

type errorBody struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var e errorBody
	decode(t, rec.Body, &e)
	return e
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }
