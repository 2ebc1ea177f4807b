package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/indieinfra/safari-admin/config"
	"github.com/indieinfra/safari-admin/storage/media"
)

// StoreImpl writes slot images under <public>/<assets> and serves them from
// "/<assets>/<filename>".
type StoreImpl struct {
	publicDir string
	assetsDir string
	legacyDir string
}

// NewFilesystemMediaStore creates a store rooted at cfg.PublicDir. Directories
// are created lazily on first upload.
func NewFilesystemMediaStore(cfg *config.LocalStorageBackend) (*StoreImpl, error) {
	if cfg == nil {
		return nil, fmt.Errorf("filesystem media config is nil")
	}

	publicDir, err := filepath.Abs(cfg.PublicDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve public directory: %w", err)
	}

	return &StoreImpl{
		publicDir: publicDir,
		assetsDir: filepath.Clean(cfg.AssetsDir),
		legacyDir: filepath.Clean(cfg.LegacyDir),
	}, nil
}

func (fs *StoreImpl) Name() string { return "local" }

// PublicDir is the directory the returned relative URLs resolve against.
func (fs *StoreImpl) PublicDir() string { return fs.publicDir }

// ServedDirs lists the URL prefixes, relative to PublicDir, that hold assets.
func (fs *StoreImpl) ServedDirs() []string {
	return []string{filepath.ToSlash(fs.assetsDir), filepath.ToSlash(fs.legacyDir)}
}

// Upload writes the object to the assets directory, replacing any existing
// file of the same name.
func (fs *StoreImpl) Upload(ctx context.Context, obj media.Object) (*media.Asset, error) {
	if obj.Body == nil {
		return nil, fmt.Errorf("%w: empty body", media.ErrUploadFailed)
	}

	name := filepath.Base(obj.Filename)
	if name != obj.Filename || !filepath.IsLocal(name) {
		return nil, fmt.Errorf("%w: %q", media.ErrInvalidReference, obj.Filename)
	}

	dir := filepath.Join(fs.publicDir, fs.assetsDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create directory: %w", media.ErrUploadFailed, err)
	}

	// Write next to the target and rename so readers never see a partial file.
	tmp, err := os.CreateTemp(dir, ".upload-*.part")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create file: %w", media.ErrUploadFailed, err)
	}
	tmpPath := tmp.Name()

	written, err := io.Copy(tmp, obj.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("%w: failed to write file: %w", media.ErrUploadFailed, err)
	}

	if err := os.Chmod(tmpPath, 0644); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("%w: failed to set permissions: %w", media.ErrUploadFailed, err)
	}

	target := filepath.Join(dir, name)
	if err := os.Rename(tmpPath, target); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("%w: failed to move file into place: %w", media.ErrUploadFailed, err)
	}

	return &media.Asset{
		Filename: name,
		URL:      "/" + path.Join(filepath.ToSlash(fs.assetsDir), name),
		Size:     written,
	}, nil
}

// Candidates returns, in search order, the paths Delete checks for ref.
func (fs *StoreImpl) Candidates(ref string) ([]string, error) {
	rel := strings.TrimLeft(filepath.FromSlash(strings.TrimSpace(ref)), string(filepath.Separator))
	if rel == "" || !filepath.IsLocal(rel) {
		return nil, fmt.Errorf("%w: %q", media.ErrInvalidReference, ref)
	}

	return []string{
		filepath.Join(fs.publicDir, fs.assetsDir, rel),
		filepath.Join(fs.publicDir, fs.legacyDir, rel),
		filepath.Join(fs.publicDir, rel),
	}, nil
}

// Delete removes the first existing candidate for ref.
func (fs *StoreImpl) Delete(ctx context.Context, ref string) error {
	candidates, err := fs.Candidates(ref)
	if err != nil {
		return err
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("%w: failed to stat %s: %w", media.ErrDeleteFailed, candidate, err)
		}

		if info.IsDir() {
			continue
		}

		if err := os.Remove(candidate); err != nil {
			return fmt.Errorf("%w: failed to remove %s: %w", media.ErrDeleteFailed, candidate, err)
		}

		return nil
	}

	return &media.NotFoundError{Ref: ref, Searched: candidates}
}

// Probe checks that the assets directory exists and accepts writes.
func (fs *StoreImpl) Probe(ctx context.Context) (*media.ProbeResult, error) {
	dir := filepath.Join(fs.publicDir, fs.assetsDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("assets directory unavailable: %w", err)
	}

	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return nil, fmt.Errorf("assets directory not writable: %w", err)
	}
	f.Close()
	_ = os.Remove(f.Name())

	return &media.ProbeResult{Backend: fs.Name(), Detail: fmt.Sprintf("assets directory %s is writable", dir)}, nil
}
