package state

import (
	"github.com/rs/zerolog"

	"github.com/indieinfra/safari-admin/config"
	"github.com/indieinfra/safari-admin/slots"
	"github.com/indieinfra/safari-admin/storage/media"
)

// AdminState is built once at startup and shared read-only by every handler.
type AdminState struct {
	Cfg   *config.Config
	Slots *slots.Table
	Store media.Store
	Log   zerolog.Logger
}
