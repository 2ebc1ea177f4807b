package body

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/indieinfra/safari-admin/config"
	"github.com/indieinfra/safari-admin/server/resp"
	"github.com/indieinfra/safari-admin/server/util"
)

// ReadJSON decodes a JSON request body into dst, capped at the configured
// payload size. Unknown fields are ignored. It writes an error response and
// returns false on failure.
func ReadJSON(cfg *config.Config, w http.ResponseWriter, r *http.Request, dst any) bool {
	if _, ok := util.RequireJSONContentType(w, r); !ok {
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, int64(cfg.Server.Limits.MaxPayloadSize))

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			resp.WriteBadRequest(w, "Request body too large")
		case errors.Is(err, io.EOF):
			resp.WriteBadRequest(w, "Request body is empty")
		default:
			resp.WriteBadRequest(w, fmt.Sprintf("Invalid JSON body: %v", err))
		}
		return false
	}

	if dec.More() {
		resp.WriteBadRequest(w, "Invalid JSON body: trailing data")
		return false
	}

	return true
}
