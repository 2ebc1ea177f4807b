package remove

import (
	"net/http"
	"strings"

	"github.com/indieinfra/safari-admin/server/body"
	"github.com/indieinfra/safari-admin/server/handler/common"
	"github.com/indieinfra/safari-admin/server/resp"
	"github.com/indieinfra/safari-admin/server/state"
	"github.com/indieinfra/safari-admin/server/util"
)

// Request names the asset to delete. Filename is a path relative to the
// public directory; CloudinaryID is a remote object identifier. The first
// non-empty one wins.
type Request struct {
	Filename     string `json:"filename"`
	CloudinaryID string `json:"cloudinaryId"`
}

func (req Request) Ref() string {
	if id := strings.TrimSpace(req.CloudinaryID); id != "" {
		return id
	}

	return strings.TrimSpace(req.Filename)
}

type Response struct {
	Message string `json:"message"`
	Deleted string `json:"deleted"`
	Storage string `json:"storage"`
}

func HandleDelete(st *state.AdminState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if !body.ReadJSON(st.Cfg, w, r, &req) {
			return
		}

		ref := req.Ref()
		if ref == "" {
			resp.WriteBadRequest(w, "Filename or cloudinaryId is required")
			return
		}

		if err := st.Store.Delete(r.Context(), ref); err != nil {
			common.LogAndWriteError(w, r, "delete", err)
			return
		}

		util.LoggerFor(r, st.Log).Infof("deleted %q from %s", ref, st.Store.Name())

		resp.WriteOK(w, Response{
			Message: "File deleted successfully",
			Deleted: ref,
			Storage: st.Store.Name(),
		})
	}
}
