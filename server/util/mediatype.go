package util

import (
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"slices"
	"strings"

	"github.com/indieinfra/safari-admin/server/resp"
)

func RequireJSONContentType(w http.ResponseWriter, r *http.Request) (string, bool) {
	return requireValidContentType(w, r, []string{"application/json"})
}

func ExtractMediaType(w http.ResponseWriter, r *http.Request) (string, bool) {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		resp.WriteBadRequest(w, "Content-Type must be specified")
		return "", false
	}

	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		resp.WriteBadRequest(w, fmt.Sprintf("Invalid Content-Type: %v", err))
		return "", false
	}

	return mediaType, true
}

// ImageContentType returns the declared media type of an uploaded part when it
// is an image/* type.
func ImageContentType(header *multipart.FileHeader) (string, bool) {
	if header == nil {
		return "", false
	}

	mediaType, _, err := mime.ParseMediaType(header.Header.Get("Content-Type"))
	if err != nil {
		return "", false
	}

	if !strings.HasPrefix(mediaType, "image/") || mediaType == "image/" {
		return mediaType, false
	}

	return mediaType, true
}

func requireValidContentType(w http.ResponseWriter, r *http.Request, valid []string) (string, bool) {
	mediaType, ok := ExtractMediaType(w, r)
	if !ok {
		return "", false
	}

	if !slices.Contains(valid, mediaType) {
		resp.WriteBadRequest(w, fmt.Sprintf("Invalid Content-Type: only %v allowed", valid))
		return mediaType, false
	}

	return mediaType, true
}
