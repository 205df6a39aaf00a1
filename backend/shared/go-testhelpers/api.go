package testhelpers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/stretchr/testify/require"
)

// FormFile is one file part of a multipart request.
type FormFile struct {
	Field    string
	Filename string
	Content  []byte
}

// BuildMultipartBody encodes fields and files as multipart/form-data and
// returns the body with its Content-Type.
func BuildMultipartBody(fields map[string]string, files []FormFile) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return body, mw.FormDataContentType(), nil
}

// MustJSON marshals v or panics. For building form fields in tests.
func MustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// BuildMultipartRequest builds a multipart request against the service under test.
func (h *TestHelper) BuildMultipartRequest(method, path string, fields map[string]string, files []FormFile) *http.Request {
	body, contentType, err := BuildMultipartBody(fields, files)
	require.NoError(h.T, err)
	req, err := http.NewRequest(method, h.BaseURL+path, body)
	require.NoError(h.T, err)
	req.Header.Set("Content-Type", contentType)
	return req
}

// BuildRequest builds a request without a body.
func (h *TestHelper) BuildRequest(method, path string) *http.Request {
	req, err := http.NewRequest(method, h.BaseURL+path, nil)
	require.NoError(h.T, err)
	return req
}

// DoRequest performs an HTTP request and asserts that no network-level error occurred.
func (h *TestHelper) DoRequest(req *http.Request) *http.Response {
	resp, err := http.DefaultClient.Do(req)
	require.NoError(h.T, err, "HTTP request failed")
	return resp
}

// DecodeJSON decodes the response body into v and closes it.
func (h *TestHelper) DecodeJSON(resp *http.Response, v any) {
	defer resp.Body.Close()
	require.NoError(h.T, json.NewDecoder(resp.Body).Decode(v))
}

// ReadBody reads the response body and returns it as a string for logging or inspection.
func (h *TestHelper) ReadBody(resp *http.Response) string {
	if resp == nil || resp.Body == nil {
		return "<nil response or body>"
	}
	bodyBytes, err := io.ReadAll(resp.Body)
	// After reading, we need to restore the body so it can be read again if needed.
	resp.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	require.NoError(h.T, err, "Failed to read response body")
	return string(bodyBytes)
}
