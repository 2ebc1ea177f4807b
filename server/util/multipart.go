package util

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/indieinfra/safari-admin/server/resp"
)

// multipartOverhead is the allowance on top of the file size for boundaries,
// part headers and the small text fields that travel with an upload.
const multipartOverhead = 64 << 10

type MultipartFile struct {
	Field  string
	File   multipart.File
	Header *multipart.FileHeader
}

type ParsedMultipart struct {
	Values map[string]string
	Files  []MultipartFile
	form   *multipart.Form
}

// Close closes every opened part and removes any temp files the form spilled to disk.
func (pm *ParsedMultipart) Close() {
	for _, mf := range pm.Files {
		if mf.File != nil {
			mf.File.Close()
		}
	}

	if pm.form != nil {
		pm.form.RemoveAll()
	}
}

func (pm *ParsedMultipart) Value(key string) string {
	return pm.Values[key]
}

// ParseMultipart caps the request body at maxBody and parses it, keeping up to
// maxMemory bytes in memory. Only the first value of each text field is kept.
func ParseMultipart(w http.ResponseWriter, r *http.Request, maxBody, maxMemory int64) (*ParsedMultipart, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return nil, err
	}

	pm := &ParsedMultipart{Values: map[string]string{}, form: r.MultipartForm}

	for key, arr := range r.MultipartForm.Value {
		if len(arr) > 0 {
			pm.Values[key] = arr[0]
		}
	}

	for key, fhs := range r.MultipartForm.File {
		for _, fh := range fhs {
			f, err := fh.Open()
			if err != nil {
				pm.Close()
				return nil, fmt.Errorf("open part %q: %w", fh.Filename, err)
			}
			pm.Files = append(pm.Files, MultipartFile{Field: strings.TrimSuffix(key, "[]"), File: f, Header: fh})
		}
	}

	return pm, nil
}

// ParseSingleFile parses a multipart body that must carry exactly one
// non-empty file under field, no larger than maxFileSize. On failure it writes
// a 400 response and returns false; on success the caller owns pm and must
// Close it.
func ParseSingleFile(w http.ResponseWriter, r *http.Request, maxMemory, maxFileSize int64, field string) (*ParsedMultipart, *MultipartFile, bool) {
	pm, err := ParseMultipart(w, r, maxFileSize+multipartOverhead, maxMemory)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			resp.WriteBadRequest(w, fmt.Sprintf("File too large: maximum size is %d bytes", maxFileSize))
		} else {
			resp.WriteBadRequest(w, fmt.Sprintf("Invalid multipart body: %v", err))
		}
		return nil, nil, false
	}

	var matches []int
	for i, mf := range pm.Files {
		if mf.Field == field {
			matches = append(matches, i)
		}
	}

	var msg string
	switch {
	case len(matches) == 0:
		msg = fmt.Sprintf("No file provided in field %q", field)
	case len(matches) > 1:
		msg = fmt.Sprintf("Exactly one file is allowed in field %q", field)
	default:
		mf := &pm.Files[matches[0]]
		switch {
		case mf.Header.Size == 0:
			msg = "Uploaded file is empty"
		case mf.Header.Size > maxFileSize:
			msg = fmt.Sprintf("File too large: maximum size is %d bytes", maxFileSize)
		default:
			return pm, mf, true
		}
	}

	pm.Close()
	resp.WriteBadRequest(w, msg)
	return nil, nil, false
}
