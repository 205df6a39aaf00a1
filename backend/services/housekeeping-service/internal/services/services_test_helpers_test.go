package services

import (
	"context"
	"testing"

	internal_utils "github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/utils"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-testhelpers"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockObjectStore struct {
	mock.Mock
}

func (m *mockObjectStore) Upload(ctx context.Context, localPath, displayName string) (string, error) {
	args := m.Called(ctx, localPath, displayName)
	return args.String(0), args.Error(1)
}

func (m *mockObjectStore) Owns(url string) bool {
	return m.Called(url).Bool(0)
}

func newUpload(t *testing.T, originalName, content string) *internal_utils.UploadedFile {
	t.Helper()
	path, err := testhelpers.TempFile(t.TempDir(), content)
	require.NoError(t, err)
	return &internal_utils.UploadedFile{LocalPath: path, OriginalName: originalName}
}

type fixture struct {
	props *testhelpers.MemPropertyRepo
	rooms *testhelpers.MemRoomRepo
	store *testhelpers.RecordingObjectStore
	media *MediaService
	psvc  *PropertyService
	rsvc  *RoomService
}

func newFixture() *fixture {
	f := &fixture{
		props: testhelpers.NewMemPropertyRepo(),
		rooms: testhelpers.NewMemRoomRepo(),
		store: testhelpers.NewRecordingObjectStore(),
	}
	f.media = NewMediaService(f.store, 3)
	f.psvc = NewPropertyService(f.props, f.rooms, f.media)
	f.rsvc = NewRoomService(f.rooms, f.props, f.media, testCatalog)
	return f
}
