package resp

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorResponse struct {
	Error         string          `json:"error"`
	Description   string          `json:"description"`
	SearchedPaths []string        `json:"searchedPaths,omitempty"`
	Credentials   map[string]bool `json:"credentials,omitempty"`
	Kind          string          `json:"kind,omitempty"`
}

func WriteOK(w http.ResponseWriter, object any) {
	writeResp(w, http.StatusOK, object)
}

func WriteStatus(w http.ResponseWriter, status int, object any) {
	writeResp(w, status, object)
}

func WriteBadRequest(w http.ResponseWriter, description string) {
	writeError(w, http.StatusBadRequest, "bad_request", description)
}

func WriteUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("WWW-Authenticate", `Basic realm="safari-admin", charset="UTF-8"`)
	writeError(w, http.StatusUnauthorized, "unauthorized", description)
}

func WriteNotFound(w http.ResponseWriter, description string, searched []string) {
	writeResp(w, http.StatusNotFound, ErrorResponse{
		Error:         "not_found",
		Description:   description,
		SearchedPaths: searched,
	})
}

func WriteMethodNotAllowed(w http.ResponseWriter, description string) {
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", description)
}

// WriteMisconfigured reports which backend credentials resolved, by env var name.
func WriteMisconfigured(w http.ResponseWriter, description string, credentials map[string]bool) {
	writeResp(w, http.StatusInternalServerError, ErrorResponse{
		Error:       "backend_misconfigured",
		Description: description,
		Credentials: credentials,
	})
}

func WriteAuthError(w http.ResponseWriter, description string, kind string) {
	writeResp(w, http.StatusBadGateway, ErrorResponse{
		Error:       "auth_error",
		Description: description,
		Kind:        kind,
	})
}

func WriteUploadFailed(w http.ResponseWriter, description string) {
	writeError(w, http.StatusInternalServerError, "upload_failed", description)
}

func WriteDeleteFailed(w http.ResponseWriter, description string) {
	writeError(w, http.StatusInternalServerError, "delete_failed", description)
}

func WriteInternalServerError(w http.ResponseWriter, description string) {
	writeError(w, http.StatusInternalServerError, "internal_server_error", description)
}

func writeError(w http.ResponseWriter, status int, err string, description string) {
	writeResp(w, status, ErrorResponse{
		Error:       err,
		Description: description,
	})
}

func writeResp(w http.ResponseWriter, status int, object any) {
	haveObject := object != nil

	if haveObject {
		w.Header().Set("Content-Type", "application/json")
	}

	w.WriteHeader(status)

	if haveObject {
		err := json.NewEncoder(w).Encode(object)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to write standard HTTP response: %v", err), http.StatusInternalServerError)
		}
	}
}
