package admin

import (
	_ "embed"
	"html/template"
	"net/http"

	"github.com/indieinfra/safari-admin/server/handler/diag"
	"github.com/indieinfra/safari-admin/server/state"
	"github.com/indieinfra/safari-admin/server/util"
)

//go:embed admin.html
var pageSource string

var page = template.Must(template.New("admin").Parse(pageSource))

type pageData struct {
	Backend     string
	PublicURL   string
	MaxFileSize uint
	Categories  []diag.CategoryInfo
}

// HandlePage renders the upload page. Uploaded entries live only in the
// browser's memory; nothing is listed from the store.
func HandlePage(st *state.AdminState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := pageData{
			Backend:     st.Store.Name(),
			PublicURL:   st.Cfg.Server.PublicUrl,
			MaxFileSize: st.Cfg.Server.Limits.MaxFileSize,
			Categories:  diag.Categories(st),
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if err := page.Execute(w, data); err != nil {
			util.LoggerFor(r, st.Log).Errorf("render admin page: %v", err)
		}
	}
}
