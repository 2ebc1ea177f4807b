package media

import (
	"context"
	"io"
)

// Object is an upload payload already renamed to its slot filename.
type Object struct {
	Filename    string
	Category    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Asset describes a stored object. URL is relative for the local backend and
// absolute for the remote one; RemoteID is only set by the remote backend.
type Asset struct {
	Filename string
	URL      string
	RemoteID string
	Size     int64
}

type ProbeResult struct {
	Backend string `json:"backend"`
	Detail  string `json:"detail"`
}

type Store interface {
	// Name is the backend tag reported to clients ("local", "remote", "noop").
	Name() string
	Upload(ctx context.Context, obj Object) (*Asset, error)
	// Delete removes the asset identified by ref: a filename for the local
	// backend, an object identifier for the remote one.
	Delete(ctx context.Context, ref string) error
	Probe(ctx context.Context) (*ProbeResult, error)
}
