package utils

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"regexp"
	"sort"
	"strconv"

	"github.com/KiwiStays/KiwiOps/backend/shared/go-utils"
)

// UploadedFile is a request file spooled to local disk. The file at
// LocalPath is transient and removed once it has been uploaded or dropped.
type UploadedFile struct {
	LocalPath    string
	OriginalName string
}

// Remove deletes the transient file. A file that is already gone is not an error.
func (f *UploadedFile) Remove() {
	if f == nil || f.LocalPath == "" {
		return
	}
	if err := os.Remove(f.LocalPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		utils.Logger.WithError(err).WithField("path", f.LocalPath).Warn("Failed to remove temp upload")
	}
}

// RemoveAll deletes every transient file in files.
func RemoveAll(files []*UploadedFile) {
	for _, f := range files {
		f.Remove()
	}
}

// SpoolFormFile copies one multipart file to a temp file in dir.
func SpoolFormFile(fh *multipart.FileHeader, dir, pattern string) (*UploadedFile, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return nil, err
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return nil, err
	}
	return &UploadedFile{LocalPath: dst.Name(), OriginalName: fh.Filename}, nil
}

var keyedFieldRe = regexp.MustCompile(`^(.+)\[(\d+)\]$`)

// FormUploads spools every file of a parsed multipart form. Files sent
// under a bare field name are returned in request order; files sent as
// field[i] are returned keyed by i. All returns every spooled file for cleanup.
type FormUploads struct {
	Positional map[string][]*UploadedFile
	Keyed      map[string]map[int]*UploadedFile
	All        []*UploadedFile
}

// First returns the first positional file of field, or nil.
func (u *FormUploads) First(field string) *UploadedFile {
	if list := u.Positional[field]; len(list) > 0 {
		return list[0]
	}
	return nil
}

func SpoolForm(form *multipart.Form, dir, pattern string) (*FormUploads, error) {
	out := &FormUploads{
		Positional: map[string][]*UploadedFile{},
		Keyed:      map[string]map[int]*UploadedFile{},
	}
	if form == nil {
		return out, nil
	}

	// Stable order over field names; within a field, request order.
	names := make([]string, 0, len(form.File))
	for name := range form.File {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		key, idx, keyed := name, 0, false
		if m := keyedFieldRe.FindStringSubmatch(name); m != nil {
			n, err := strconv.Atoi(m[2])
			if err != nil {
				RemoveAll(out.All)
				return nil, fmt.Errorf("%w: bad file index in %s", ErrInvalidPayload, name)
			}
			key, idx, keyed = m[1], n, true
		}

		for _, fh := range form.File[name] {
			f, err := SpoolFormFile(fh, dir, pattern)
			if err != nil {
				RemoveAll(out.All)
				return nil, fmt.Errorf("spool %s: %w", name, err)
			}
			out.All = append(out.All, f)

			if keyed {
				if out.Keyed[key] == nil {
					out.Keyed[key] = map[int]*UploadedFile{}
				}
				out.Keyed[key][idx] = f
				continue
			}
			out.Positional[name] = append(out.Positional[name], f)
		}
	}
	return out, nil
}
