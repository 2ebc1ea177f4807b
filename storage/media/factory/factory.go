package factory

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/indieinfra/safari-admin/config"
	"github.com/indieinfra/safari-admin/storage/media"
	"github.com/indieinfra/safari-admin/storage/media/filesystem"
	"github.com/indieinfra/safari-admin/storage/media/s3"
)

// Factory builds a media store for the provided storage config.
type Factory func(*config.Storage, zerolog.Logger) (media.Store, error)

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

// Register adds or replaces a media store factory for the given backend name.
func Register(backend string, factory Factory) {
	mu.Lock()
	registry[backend] = factory
	mu.Unlock()
}

// Get retrieves a factory for the given backend.
func Get(backend string) (Factory, bool) {
	mu.RLock()
	f, ok := registry[backend]
	mu.RUnlock()
	return f, ok
}

// Create builds a media store using the registered factory for the configured backend.
func Create(cfg *config.Storage, log zerolog.Logger) (media.Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage config is nil")
	}

	if f, ok := Get(cfg.Backend); ok {
		return f(cfg, log)
	}

	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}

func init() {
	Register("noop", func(cfg *config.Storage, log zerolog.Logger) (media.Store, error) {
		return &media.NoopMediaStore{Log: log}, nil
	})
	Register("remote", func(cfg *config.Storage, log zerolog.Logger) (media.Store, error) {
		store, err := s3.NewS3MediaStore(cfg.Remote)
		if err != nil {
			return nil, err
		}

		if !cfg.Remote.Configured() {
			log.Warn().
				Interface("credentials", cfg.Remote.CredentialPresence()).
				Msg("remote storage credentials incomplete; uploads and deletes will be refused")
		}

		return store, nil
	})
	Register("local", func(cfg *config.Storage, log zerolog.Logger) (media.Store, error) {
		return filesystem.NewFilesystemMediaStore(cfg.Local)
	})
}
