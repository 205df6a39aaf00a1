package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/constants"
	internal_utils "github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/utils"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-utils"
)

// multipart parts above this size go to disk inside ParseMultipartForm.
const multipartMemory = 8 << 20

// FormOptions controls request body parsing.
type FormOptions struct {
	MaxBytes int64
	TmpDir   string
}

// requestForm is a decoded request body: text fields plus spooled files.
// JSON and urlencoded bodies carry no files.
type requestForm struct {
	values  map[string]string
	uploads *internal_utils.FormUploads
}

// parseRequestForm reads a multipart, JSON or urlencoded body. The caller
// must call cleanup once the files are no longer needed.
func parseRequestForm(w http.ResponseWriter, r *http.Request, opts FormOptions) (*requestForm, error) {
	form := &requestForm{
		values:  map[string]string{},
		uploads: &internal_utils.FormUploads{Positional: map[string][]*internal_utils.UploadedFile{}, Keyed: map[string]map[int]*internal_utils.UploadedFile{}},
	}
	if opts.MaxBytes > 0 && r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, opts.MaxBytes)
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return nil, classifyBodyError(err)
		}
		defer r.MultipartForm.RemoveAll()
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				form.values[k] = v[0]
			}
		}
		uploads, err := internal_utils.SpoolForm(r.MultipartForm, opts.TmpDir, constants.UploadTempPattern)
		if err != nil {
			return nil, err
		}
		form.uploads = uploads

	case "application/json":
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, classifyBodyError(err)
		}
		for k, v := range raw {
			var s string
			if err := json.Unmarshal(v, &s); err == nil {
				form.values[k] = s
				continue
			}
			// Arrays and numbers keep their JSON text, the same shape a
			// multipart client sends.
			if string(v) != "null" {
				form.values[k] = string(v)
			}
		}

	default:
		if err := r.ParseForm(); err != nil {
			return nil, classifyBodyError(err)
		}
		for k, v := range r.PostForm {
			if len(v) > 0 {
				form.values[k] = v[0]
			}
		}
	}
	return form, nil
}

func classifyBodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &utils.AppError{
			StatusCode: http.StatusRequestEntityTooLarge,
			Code:       internal_utils.ErrCodePayloadTooLarge,
			Message:    fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit),
			Err:        err,
		}
	}
	return fmt.Errorf("%w: %v", internal_utils.ErrInvalidPayload, err)
}

func (f *requestForm) cleanup() {
	if f != nil && f.uploads != nil {
		internal_utils.RemoveAll(f.uploads.All)
	}
}

// get returns the first of names that was sent.
func (f *requestForm) get(names ...string) (string, bool) {
	for _, n := range names {
		if v, ok := f.values[n]; ok {
			return v, true
		}
	}
	return "", false
}

func (f *requestForm) str(names ...string) string {
	v, _ := f.get(names...)
	return strings.TrimSpace(v)
}

func (f *requestForm) optStr(name string) *string {
	if v, ok := f.get(name); ok {
		return &v
	}
	return nil
}

func (f *requestForm) optBool(name string) (*bool, error) {
	v, ok := f.get(name)
	if !ok || strings.TrimSpace(v) == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a boolean", internal_utils.ErrInvalidPayload, name)
	}
	return &b, nil
}

// intOr parses an integer field; absent or blank yields def.
func (f *requestForm) intOr(def int, names ...string) (int, error) {
	v := f.str(names...)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", internal_utils.ErrInvalidPayload, names[0])
	}
	return n, nil
}

// jsonList decodes a JSON array field into out; absent or blank leaves it nil.
func (f *requestForm) jsonList(out any, names ...string) error {
	v := f.str(names...)
	if v == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(v), out); err != nil {
		return fmt.Errorf("%w: %s must be a JSON array", internal_utils.ErrInvalidPayload, names[0])
	}
	return nil
}

// respondServiceError maps domain errors onto HTTP responses. An AppError
// carries its own status and code.
func respondServiceError(w http.ResponseWriter, err error, fallbackMsg string, details any) {
	var appErr *utils.AppError
	switch {
	case errors.As(err, &appErr):
		utils.HandleAppError(w, err)
	case errors.Is(err, internal_utils.ErrValidation):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, err.Error(), details, err)
	case errors.Is(err, internal_utils.ErrInvalidPayload), errors.Is(err, utils.ErrInvalidObjectID):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, err.Error(), details, err)
	case errors.Is(err, internal_utils.ErrPropertyNotFound):
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Property not found", details, err)
	case errors.Is(err, internal_utils.ErrRoomNotFound):
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Room not found", details, err)
	default:
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, fallbackMsg, details, err)
	}
}
