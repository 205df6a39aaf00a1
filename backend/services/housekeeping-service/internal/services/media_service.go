package services

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/constants"
	internal_utils "github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/utils"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-utils"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ObjectStore persists a local file and returns a public URL for it.
type ObjectStore interface {
	Upload(ctx context.Context, localPath, displayName string) (string, error)
	// Owns reports whether url was issued by this store.
	Owns(url string) bool
}

// MediaSlot is one image or audio field: an already stored URL, a freshly
// uploaded file, both, or neither.
type MediaSlot struct {
	ExistingURL string
	File        *internal_utils.UploadedFile
}

type MediaService struct {
	store       ObjectStore
	concurrency int
}

func NewMediaService(store ObjectStore, concurrency int) *MediaService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &MediaService{store: store, concurrency: concurrency}
}

// Resolve returns the URL a slot should be stored with. A new file is
// uploaded and its URL returned; an upload failure is logged and yields "".
// Without a file the existing URL is returned as is and the store is not
// called. The transient file is removed in every case.
func (s *MediaService) Resolve(ctx context.Context, slot MediaSlot) string {
	if slot.File == nil {
		return slot.ExistingURL
	}
	defer slot.File.Remove()

	name := DisplayName(slot.File.OriginalName)
	url, err := s.store.Upload(ctx, slot.File.LocalPath, name)
	if err != nil {
		utils.Logger.WithError(err).
			WithField("display_name", name).
			WithField("request_id", utils.RequestIDFromContext(ctx)).
			Error("Media upload failed; storing empty URL")
		return ""
	}
	return url
}

// ResolveAll resolves slots with at most s.concurrency uploads in flight.
// out[i] is the URL for slots[i].
func (s *MediaService) ResolveAll(ctx context.Context, slots []MediaSlot) []string {
	out := make([]string, len(slots))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, slot := range slots {
		if slot.File == nil {
			out[i] = slot.ExistingURL
			continue
		}
		i, slot := i, slot
		g.Go(func() error {
			out[i] = s.Resolve(ctx, slot)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// IsStored reports whether url already lives in the object store.
func (s *MediaService) IsStored(url string) bool {
	return url != "" && s.store.Owns(url)
}

// DisplayName is the original filename up to its first dot, or a generated
// unknown_file_<uuid> when that is empty.
func DisplayName(originalName string) string {
	base := filepath.Base(strings.ReplaceAll(originalName, "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	base = strings.TrimSpace(base)
	if base == "" {
		return constants.UnknownFileNamePrefix + uuid.NewString()
	}
	return base
}
