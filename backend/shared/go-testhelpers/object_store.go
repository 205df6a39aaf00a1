package testhelpers

import (
	"context"
	"os"
	"strings"
	"sync"
)

// Upload is one call observed by RecordingObjectStore.
type Upload struct {
	LocalPath   string
	DisplayName string
	Content     []byte
}

// RecordingObjectStore records every upload and serves URLs under BaseURL.
// Set Err to make uploads fail.
type RecordingObjectStore struct {
	BaseURL string
	Err     error

	mu      sync.Mutex
	uploads []Upload
}

func NewRecordingObjectStore() *RecordingObjectStore {
	return &RecordingObjectStore{BaseURL: "https://res.cloudinary.com/test/image/upload"}
}

func (s *RecordingObjectStore) Upload(_ context.Context, localPath, displayName string) (string, error) {
	content, _ := os.ReadFile(localPath)
	s.mu.Lock()
	s.uploads = append(s.uploads, Upload{LocalPath: localPath, DisplayName: displayName, Content: content})
	s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	return s.BaseURL + "/property_images/" + displayName, nil
}

func (s *RecordingObjectStore) Owns(url string) bool {
	return url != "" && strings.HasPrefix(url, s.BaseURL)
}

// Uploads returns a copy of the recorded uploads in call order.
func (s *RecordingObjectStore) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

// TempFile writes content to a fresh temp file and returns its path.
func TempFile(dir, content string) (string, error) {
	f, err := os.CreateTemp(dir, "upload-*")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return "", err
	}
	return f.Name(), nil
}
