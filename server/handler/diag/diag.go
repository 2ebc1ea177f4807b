package diag

import (
	"net/http"
	"time"

	"github.com/indieinfra/safari-admin/server/resp"
	"github.com/indieinfra/safari-admin/server/state"
	"github.com/indieinfra/safari-admin/server/util"
)

var now = time.Now

type HealthResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Backend   string    `json:"backend"`
}

type EnvResponse struct {
	Backend       string          `json:"backend"`
	Configured    bool            `json:"configured"`
	Credentials   map[string]bool `json:"credentials"`
	AccessKeyHint string          `json:"accessKeyHint,omitempty"`
	PublicURL     string          `json:"publicUrl"`
}

type ProbeResponse struct {
	Success   bool   `json:"success"`
	Backend   string `json:"backend"`
	Detail    string `json:"detail"`
	LatencyMs int64  `json:"latencyMs"`
}

type SlotInfo struct {
	Index    int    `json:"index"`
	Filename string `json:"filename"`
}

type CategoryInfo struct {
	Category    string     `json:"category"`
	DisplayName string     `json:"displayName"`
	Prefix      string     `json:"prefix"`
	Slots       []SlotInfo `json:"slots"`
}

func HandleHealth(st *state.AdminState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.WriteOK(w, HealthResponse{
			Success:   true,
			Message:   "API is working",
			Timestamp: now().UTC(),
			Backend:   st.Store.Name(),
		})
	}
}

// HandleEnv reports which remote credentials resolved without revealing them.
func HandleEnv(st *state.AdminState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		remote := st.Cfg.Storage.Remote
		out := EnvResponse{
			Backend:     st.Store.Name(),
			Configured:  remote != nil && remote.Configured(),
			Credentials: remote.CredentialPresence(),
			PublicURL:   st.Cfg.Server.PublicUrl,
		}
		if remote != nil {
			out.AccessKeyHint = MaskSecret(remote.AccessKey)
		}

		resp.WriteOK(w, out)
	}
}

// HandleProbe runs one connectivity check against the active store.
func HandleProbe(st *state.AdminState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := now()
		result, err := st.Store.Probe(r.Context())
		latency := now().Sub(start).Milliseconds()

		if err != nil {
			util.LoggerFor(r, st.Log).Warnf("storage probe failed: %v", err)
			resp.WriteStatus(w, http.StatusServiceUnavailable, ProbeResponse{
				Success:   false,
				Backend:   st.Store.Name(),
				Detail:    err.Error(),
				LatencyMs: latency,
			})
			return
		}

		resp.WriteOK(w, ProbeResponse{
			Success:   true,
			Backend:   result.Backend,
			Detail:    result.Detail,
			LatencyMs: latency,
		})
	}
}

func HandleCategories(st *state.AdminState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.WriteOK(w, Categories(st))
	}
}

// Categories flattens the slot table into the shape the admin page renders.
func Categories(st *state.AdminState) []CategoryInfo {
	mappings := st.Slots.Mappings()
	out := make([]CategoryInfo, 0, len(mappings))
	for _, m := range mappings {
		info := CategoryInfo{Category: m.Category, DisplayName: m.DisplayName, Prefix: m.Prefix}
		for _, slot := range m.Slots {
			info.Slots = append(info.Slots, SlotInfo{Index: slot, Filename: m.Filename(slot)})
		}
		out = append(out, info)
	}

	return out
}

// MaskSecret keeps only the last four characters of a credential.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "***"
	}

	return "***" + secret[len(secret)-4:]
}
