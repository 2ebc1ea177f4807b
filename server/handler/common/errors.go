package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/indieinfra/safari-admin/server/resp"
	"github.com/indieinfra/safari-admin/server/util"
	"github.com/indieinfra/safari-admin/slots"
	"github.com/indieinfra/safari-admin/storage/media"
)

// LogAndWriteError logs an error with request context and maps known conditions to client responses.
func LogAndWriteError(w http.ResponseWriter, r *http.Request, op string, err error) {
	rl := util.LoggerFor(r, log.Logger)

	var (
		notFound *media.NotFoundError
		misconf  *media.MisconfiguredError
		authErr  *media.AuthError
	)

	switch {
	case errors.As(err, &notFound):
		rl.Infof("%s: %v", op, err)
		resp.WriteNotFound(w, fmt.Sprintf("File not found: %s", notFound.Ref), notFound.Searched)
	case errors.Is(err, media.ErrNotFound):
		rl.Infof("%s: %v", op, err)
		resp.WriteNotFound(w, "File not found", nil)
	case errors.Is(err, media.ErrInvalidReference), errors.Is(err, slots.ErrInvalidCategory):
		rl.Infof("%s: %v", op, err)
		resp.WriteBadRequest(w, err.Error())
	case errors.As(err, &misconf):
		rl.Errorf("%s failed: %v", op, err)
		resp.WriteMisconfigured(w, "Storage backend is not configured: check the remote storage credentials", misconf.Credentials)
	case errors.As(err, &authErr):
		rl.Errorf("%s failed: %v", op, err)
		resp.WriteAuthError(w, authDescription(authErr.Kind), string(authErr.Kind))
	case errors.Is(err, media.ErrUploadFailed):
		rl.Errorf("%s failed: %v", op, err)
		resp.WriteUploadFailed(w, fmt.Sprintf("%s failed", op))
	case errors.Is(err, media.ErrDeleteFailed):
		rl.Errorf("%s failed: %v", op, err)
		resp.WriteDeleteFailed(w, fmt.Sprintf("%s failed", op))
	default:
		rl.Errorf("%s failed: %v", op, err)
		resp.WriteInternalServerError(w, fmt.Sprintf("%s failed", op))
	}
}

func authDescription(kind media.AuthErrorKind) string {
	switch kind {
	case media.AuthSignature:
		return "Storage backend rejected the request signature: check the secret key"
	case media.AuthAuthorization:
		return "Storage backend rejected the credentials: check the account and access key"
	default:
		return "Storage backend rejected the credentials"
	}
}
