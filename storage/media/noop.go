package media

import (
	"context"
	"io"

	"github.com/rs/zerolog"
)

// NoopMediaStore accepts uploads, discards the bytes and logs what it received.
type NoopMediaStore struct {
	Log zerolog.Logger
}

func (ms *NoopMediaStore) Name() string { return "noop" }

func (ms *NoopMediaStore) Upload(ctx context.Context, obj Object) (*Asset, error) {
	n, err := io.Copy(io.Discard, obj.Body)
	if err != nil {
		return nil, err
	}

	ms.Log.Info().
		Str("filename", obj.Filename).
		Str("content_type", obj.ContentType).
		Int64("size", n).
		Msg("received no-op media upload")

	return &Asset{
		Filename: obj.Filename,
		URL:      "https://noop.example.org/" + obj.Filename,
		Size:     n,
	}, nil
}

func (ms *NoopMediaStore) Delete(ctx context.Context, ref string) error {
	ms.Log.Info().Str("ref", ref).Msg("received no-op media delete")
	return nil
}

func (ms *NoopMediaStore) Probe(ctx context.Context) (*ProbeResult, error) {
	return &ProbeResult{Backend: ms.Name(), Detail: "no-op backend is always reachable"}, nil
}
