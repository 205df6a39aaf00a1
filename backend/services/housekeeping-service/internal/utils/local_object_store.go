package utils

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalObjectStore keeps uploads on disk under Dir/Folder and serves them
// under BaseURL. For development without Cloudinary credentials. Stored
// names carry a short random suffix so equal display names never share a file.
type LocalObjectStore struct {
	Dir     string
	Folder  string
	BaseURL string
}

func NewLocalObjectStore(dir, folder, baseURL string) (*LocalObjectStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, folder), 0o755); err != nil {
		return nil, fmt.Errorf("create local store dir: %w", err)
	}
	return &LocalObjectStore{Dir: dir, Folder: folder, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalObjectStore) Upload(ctx context.Context, localPath, displayName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMediaUpload, err)
	}
	name := filepath.Base(displayName)
	if name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("%w: bad display name %q", ErrMediaUpload, displayName)
	}

	src, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMediaUpload, err)
	}
	defer src.Close()

	name += "_" + uuid.NewString()[:8]
	dst, err := os.OpenFile(filepath.Join(s.Dir, s.Folder, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMediaUpload, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("%w: %v", ErrMediaUpload, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMediaUpload, err)
	}

	return s.BaseURL + "/" + s.Folder + "/" + url.PathEscape(name), nil
}

func (s *LocalObjectStore) Owns(rawURL string) bool {
	return rawURL != "" && strings.HasPrefix(rawURL, s.BaseURL+"/")
}
