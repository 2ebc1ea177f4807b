package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/indieinfra/safari-admin/config"
	"github.com/indieinfra/safari-admin/storage/media"
)

type stubS3Client struct {
	bucketExists  bool
	bucketErr     error
	putCalled     bool
	putBody       string
	putOpts       minio.PutObjectOptions
	lastPutKey    string
	putErr        error
	statErr       error
	removeCalled  bool
	lastRemoveKey string
	removeErr     error
}

func (c *stubS3Client) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return c.bucketExists, c.bucketErr
}

func (c *stubS3Client) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	c.putCalled = true
	c.lastPutKey = objectName
	c.putOpts = opts
	if c.putErr != nil {
		return minio.UploadInfo{}, c.putErr
	}
	data, _ := io.ReadAll(reader)
	c.putBody = string(data)
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: int64(len(data))}, nil
}

func (c *stubS3Client) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	if c.statErr != nil {
		return minio.ObjectInfo{}, c.statErr
	}
	return minio.ObjectInfo{Key: objectName}, nil
}

func (c *stubS3Client) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	c.removeCalled = true
	c.lastRemoveKey = objectName
	return c.removeErr
}

func withStubClient(t *testing.T, stub *stubS3Client) {
	t.Helper()

	prev := newMinioClient
	newMinioClient = func(endpoint string, opts *minio.Options) (s3Client, error) {
		return stub, nil
	}
	t.Cleanup(func() { newMinioClient = prev })
}

func baseRemoteConfig() *config.RemoteStorageBackend {
	return &config.RemoteStorageBackend{
		Account:    "safari",
		AccessKey:  "key",
		SecretKey:  "secret",
		Endpoint:   "https://s3.example.com",
		PublicUrl:  "https://cdn.example.com/",
		KeyPattern: "safari-admin/{filename}",
	}
}

func newStore(t *testing.T, stub *stubS3Client) *StoreImpl {
	t.Helper()
	withStubClient(t, stub)

	store, err := NewS3MediaStore(baseRemoteConfig())
	if err != nil {
		t.Fatalf("NewS3MediaStore: %v", err)
	}
	return store
}

func TestNewS3MediaStore_NilConfig(t *testing.T) {
	if _, err := NewS3MediaStore(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestNewS3MediaStore_ClientError(t *testing.T) {
	prev := newMinioClient
	newMinioClient = func(endpoint string, opts *minio.Options) (s3Client, error) {
		return nil, errors.New("boom")
	}
	t.Cleanup(func() { newMinioClient = prev })

	if _, err := NewS3MediaStore(baseRemoteConfig()); err == nil {
		t.Fatalf("expected error when client creation fails")
	}
}

func TestNewS3MediaStore_EndpointDefaults(t *testing.T) {
	var gotEndpoint string
	var gotOpts *minio.Options
	prev := newMinioClient
	newMinioClient = func(endpoint string, opts *minio.Options) (s3Client, error) {
		gotEndpoint, gotOpts = endpoint, opts
		return &stubS3Client{}, nil
	}
	t.Cleanup(func() { newMinioClient = prev })

	cfg := baseRemoteConfig()
	cfg.Endpoint = ""
	cfg.Region = "eu-west-1"
	cfg.PublicUrl = ""

	store, err := NewS3MediaStore(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotEndpoint != "s3.eu-west-1.amazonaws.com" || !gotOpts.Secure || gotOpts.Region != "eu-west-1" {
		t.Fatalf("unexpected client settings endpoint=%q opts=%+v", gotEndpoint, gotOpts)
	}
	if got := store.objectURL("k"); got != "https://s3.eu-west-1.amazonaws.com/safari/k" {
		t.Fatalf("unexpected path-style url: %s", got)
	}
}

func TestNewS3MediaStore_HttpEndpointDisablesTLS(t *testing.T) {
	withStubClient(t, &stubS3Client{})

	cfg := baseRemoteConfig()
	cfg.Endpoint = "http://localhost:9000"
	cfg.PublicUrl = ""

	store, err := NewS3MediaStore(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.secure || store.endpointHost != "localhost:9000" {
		t.Fatalf("unexpected endpoint settings: %+v", store)
	}
	if got := store.objectURL("safari-admin/b3.jpg"); got != "http://localhost:9000/safari/safari-admin/b3.jpg" {
		t.Fatalf("unexpected url %s", got)
	}
}

func TestS3MediaStore_MissingCredentials(t *testing.T) {
	called := false
	prev := newMinioClient
	newMinioClient = func(endpoint string, opts *minio.Options) (s3Client, error) {
		called = true
		return &stubS3Client{}, nil
	}
	t.Cleanup(func() { newMinioClient = prev })

	cfg := baseRemoteConfig()
	cfg.AccessKey = ""
	cfg.SecretKey = ""

	store, err := NewS3MediaStore(cfg)
	if err != nil {
		t.Fatalf("missing credentials should not fail construction: %v", err)
	}
	if called {
		t.Fatalf("client must not be created without credentials")
	}

	ctx := context.Background()
	_, uploadErr := store.Upload(ctx, media.Object{Filename: "b3.jpg", Body: strings.NewReader("x"), Size: 1})
	checks := map[string]error{
		"upload": uploadErr,
		"delete": store.Delete(ctx, "safari-admin/b3.jpg"),
	}
	_, checks["probe"] = store.Probe(ctx)

	for op, err := range checks {
		var mis *media.MisconfiguredError
		if !errors.As(err, &mis) {
			t.Fatalf("%s: expected MisconfiguredError, got %v", op, err)
		}
		if !mis.Credentials[config.EnvRemoteAccount] || mis.Credentials[config.EnvRemoteAccessKey] || mis.Credentials[config.EnvRemoteSecretKey] {
			t.Fatalf("%s: unexpected credential flags %v", op, mis.Credentials)
		}
	}
}

func TestS3MediaStore_Upload(t *testing.T) {
	stub := &stubS3Client{}
	store := newStore(t, stub)

	asset, err := store.Upload(context.Background(), media.Object{
		Filename:    "b3.jpg",
		Category:    "balloon",
		ContentType: "image/jpeg",
		Size:        4,
		Body:        strings.NewReader("data"),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if stub.lastPutKey != "safari-admin/b3.jpg" || stub.putBody != "data" {
		t.Fatalf("unexpected put key=%q body=%q", stub.lastPutKey, stub.putBody)
	}
	if stub.putOpts.ContentType != "image/jpeg" {
		t.Fatalf("content type not forwarded: %q", stub.putOpts.ContentType)
	}
	if asset.RemoteID != "safari-admin/b3.jpg" || asset.URL != "https://cdn.example.com/safari-admin/b3.jpg" || asset.Size != 4 {
		t.Fatalf("unexpected asset %+v", asset)
	}
}

func TestS3MediaStore_UploadUsesPatternFields(t *testing.T) {
	stub := &stubS3Client{}
	withStubClient(t, stub)

	prevNow := now
	now = func() time.Time { return time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = prevNow })

	cfg := baseRemoteConfig()
	cfg.KeyPattern = "{category}/{year}/{filename}"
	store, err := NewS3MediaStore(cfg)
	if err != nil {
		t.Fatalf("NewS3MediaStore: %v", err)
	}

	if _, err := store.Upload(context.Background(), media.Object{Filename: "w1.jpg", Category: "wildlife", Body: strings.NewReader("x"), Size: 1}); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if stub.lastPutKey != "wildlife/2026/w1.jpg" {
		t.Fatalf("unexpected key %q", stub.lastPutKey)
	}
}

func TestS3MediaStore_UploadErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantKind media.AuthErrorKind
		wantBase error
	}{
		{
			name:     "signature code",
			err:      minio.ErrorResponse{Code: "SignatureDoesNotMatch", Message: "The request signature we calculated does not match"},
			wantKind: media.AuthSignature,
		},
		{
			name:     "unknown access key",
			err:      minio.ErrorResponse{Code: "InvalidAccessKeyId", Message: "The Access Key Id you provided does not exist"},
			wantKind: media.AuthAuthorization,
		},
		{
			name:     "signature in message only",
			err:      errors.New("Invalid Signature"),
			wantKind: media.AuthSignature,
		},
		{
			name:     "authorization in message only",
			err:      errors.New("403 Unauthorized"),
			wantKind: media.AuthAuthorization,
		},
		{
			name:     "generic failure",
			err:      errors.New("connection refused"),
			wantBase: media.ErrUploadFailed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newStore(t, &stubS3Client{putErr: tc.err})

			_, err := store.Upload(context.Background(), media.Object{Filename: "b3.jpg", Body: strings.NewReader("x"), Size: 1})

			if tc.wantBase != nil {
				if !errors.Is(err, tc.wantBase) || errors.Is(err, media.ErrAuth) {
					t.Fatalf("expected %v, got %v", tc.wantBase, err)
				}
				return
			}

			var authErr *media.AuthError
			if !errors.As(err, &authErr) {
				t.Fatalf("expected AuthError, got %v", err)
			}
			if authErr.Kind != tc.wantKind {
				t.Fatalf("kind = %q, want %q", authErr.Kind, tc.wantKind)
			}
		})
	}
}

func TestS3MediaStore_Delete(t *testing.T) {
	t.Run("removes object", func(t *testing.T) {
		stub := &stubS3Client{}
		store := newStore(t, stub)

		if err := store.Delete(context.Background(), "/safari-admin/b3.jpg"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if !stub.removeCalled || stub.lastRemoveKey != "safari-admin/b3.jpg" {
			t.Fatalf("unexpected remove key %q", stub.lastRemoveKey)
		}
	})

	t.Run("missing object is not found", func(t *testing.T) {
		stub := &stubS3Client{statErr: minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."}}
		store := newStore(t, stub)

		err := store.Delete(context.Background(), "safari-admin/zz.jpg")
		var nf *media.NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
		if len(nf.Searched) != 1 || nf.Searched[0] != "safari/safari-admin/zz.jpg" {
			t.Fatalf("unexpected searched list %v", nf.Searched)
		}
		if stub.removeCalled {
			t.Fatalf("remove must not be called for a missing object")
		}
	})

	t.Run("backend errors are delete failures", func(t *testing.T) {
		stub := &stubS3Client{removeErr: minio.ErrorResponse{Code: "AccessDenied", Message: "Access Denied"}}
		store := newStore(t, stub)

		err := store.Delete(context.Background(), "safari-admin/b3.jpg")
		if !errors.Is(err, media.ErrDeleteFailed) {
			t.Fatalf("expected ErrDeleteFailed, got %v", err)
		}
	})

	t.Run("rejects traversal and empty ids", func(t *testing.T) {
		stub := &stubS3Client{}
		store := newStore(t, stub)

		for _, id := range []string{"", "  ", "safari-admin/../secret"} {
			if err := store.Delete(context.Background(), id); !errors.Is(err, media.ErrInvalidReference) {
				t.Fatalf("Delete(%q): expected ErrInvalidReference, got %v", id, err)
			}
		}
		if stub.removeCalled {
			t.Fatalf("remove must not be called for invalid ids")
		}
	})
}

func TestS3MediaStore_Probe(t *testing.T) {
	t.Run("reachable bucket", func(t *testing.T) {
		store := newStore(t, &stubS3Client{bucketExists: true})

		res, err := store.Probe(context.Background())
		if err != nil {
			t.Fatalf("Probe: %v", err)
		}
		if res.Backend != "remote" || !strings.Contains(res.Detail, "safari") {
			t.Fatalf("unexpected probe result %+v", res)
		}
	})

	t.Run("missing bucket", func(t *testing.T) {
		store := newStore(t, &stubS3Client{bucketExists: false})

		if _, err := store.Probe(context.Background()); err == nil {
			t.Fatalf("expected error when bucket does not exist")
		}
	})

	t.Run("rejected credentials", func(t *testing.T) {
		store := newStore(t, &stubS3Client{bucketErr: minio.ErrorResponse{Code: "SignatureDoesNotMatch"}})

		_, err := store.Probe(context.Background())
		if !errors.Is(err, media.ErrAuth) {
			t.Fatalf("expected ErrAuth, got %v", err)
		}
	})
}
