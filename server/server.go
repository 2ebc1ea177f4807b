package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/indieinfra/safari-admin/config"
	"github.com/indieinfra/safari-admin/server/handler/admin"
	"github.com/indieinfra/safari-admin/server/handler/diag"
	"github.com/indieinfra/safari-admin/server/handler/remove"
	"github.com/indieinfra/safari-admin/server/handler/upload"
	"github.com/indieinfra/safari-admin/server/middleware"
	"github.com/indieinfra/safari-admin/server/resp"
	"github.com/indieinfra/safari-admin/server/state"
	"github.com/indieinfra/safari-admin/slots"
	"github.com/indieinfra/safari-admin/storage/media"
	mediafactory "github.com/indieinfra/safari-admin/storage/media/factory"
)

const shutdownTimeout = 30 * time.Second

// staticDirs is implemented by stores whose assets can be served straight from disk.
type staticDirs interface {
	PublicDir() string
	ServedDirs() []string
}

func initializeMediaStore(cfg *config.Storage, log zerolog.Logger) (media.Store, error) {
	store, err := mediafactory.Create(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s storage backend: %w", cfg.Backend, err)
	}

	return store, nil
}

// NewState wires the storage backend selected by cfg with the built-in slot table.
func NewState(cfg *config.Config, log zerolog.Logger) (*state.AdminState, error) {
	store, err := initializeMediaStore(&cfg.Storage, log)
	if err != nil {
		return nil, err
	}

	return &state.AdminState{
		Cfg:   cfg,
		Slots: slots.Default(),
		Store: store,
		Log:   log,
	}, nil
}

func NewRouter(st *state.AdminState) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.Logger(st.Log))
	r.Use(chiMiddleware.Recoverer)

	if origins := st.Cfg.Server.CorsOrigins; len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		resp.WriteNotFound(w, "No route for "+r.URL.Path, nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		resp.WriteMethodNotAllowed(w, r.Method+" is not allowed on "+r.URL.Path)
	})

	r.Get("/api/health", diag.HandleHealth(st))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(st.Cfg, st.Log))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/admin", http.StatusFound)
		})
		r.Get("/admin", admin.HandlePage(st))
		r.Post("/api/upload", upload.HandleUpload(st))
		r.Delete("/api/delete", remove.HandleDelete(st))
		r.Get("/api/categories", diag.HandleCategories(st))
		r.Get("/api/diagnostics/env", diag.HandleEnv(st))
		r.Get("/api/diagnostics/probe", diag.HandleProbe(st))
	})

	if fs, ok := st.Store.(staticDirs); ok {
		for _, dir := range fs.ServedDirs() {
			prefix := "/" + strings.Trim(path.Clean("/"+dir), "/") + "/"
			r.Handle(prefix+"*", http.StripPrefix(prefix, noListing(http.FileServer(http.Dir(filepath.Join(fs.PublicDir(), dir))))))
		}
	}

	return r
}

// noListing hides directory indexes from the static file server.
func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			resp.WriteNotFound(w, "Not found", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func newHTTPServer(st *state.AdminState) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort(st.Cfg.Server.Address, fmt.Sprint(st.Cfg.Server.Port)),
		Handler:           NewRouter(st),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down gracefully.
func Serve(ctx context.Context, st *state.AdminState) error {
	srv := newHTTPServer(st)

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	st.Log.Info().
		Str("address", ln.Addr().String()).
		Str("backend", st.Store.Name()).
		Msg("serving http requests")

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	st.Log.Info().Msg("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	st.Log.Info().Msg("server stopped")
	return nil
}

// StartServer builds the state from cfg and serves until SIGINT or SIGTERM.
func StartServer(cfg *config.Config, log zerolog.Logger) error {
	st, err := NewState(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return Serve(ctx, st)
}
