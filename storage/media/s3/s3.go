package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/indieinfra/safari-admin/config"
	"github.com/indieinfra/safari-admin/storage/media"
	storageutil "github.com/indieinfra/safari-admin/storage/util"
)

const probeTimeout = 10 * time.Second

type s3Client interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

var newMinioClient = func(endpoint string, opts *minio.Options) (s3Client, error) {
	return minio.New(endpoint, opts)
}

var now = time.Now

// StoreImpl uploads slot images to S3 or any compatible service (R2, MinIO).
// The account name is the bucket. Without all three credentials the store has
// no client and every operation fails with a MisconfiguredError.
type StoreImpl struct {
	client       s3Client
	presence     map[string]bool
	bucket       string
	pattern      *storageutil.PathPattern
	publicBase   string
	endpointHost string
	secure       bool
}

func NewS3MediaStore(cfg *config.RemoteStorageBackend) (*StoreImpl, error) {
	if cfg == nil {
		return nil, fmt.Errorf("s3 media config is nil")
	}

	region := strings.TrimSpace(cfg.Region)
	if strings.EqualFold(region, "auto") {
		region = ""
	}

	secure := !cfg.DisableSSL
	endpointHost := strings.TrimSpace(cfg.Endpoint)
	if endpointHost == "" {
		if region == "" {
			endpointHost = "s3.amazonaws.com"
		} else {
			endpointHost = fmt.Sprintf("s3.%s.amazonaws.com", region)
		}
	} else if parsed, err := url.Parse(endpointHost); err == nil && parsed.Host != "" {
		endpointHost = parsed.Host
		if parsed.Scheme == "http" {
			secure = false
		}
	}

	pattern := storageutil.DefaultKeyPattern()
	if cfg.KeyPattern != "" {
		pattern = storageutil.NewPathPattern(cfg.KeyPattern)
	}

	store := &StoreImpl{
		presence:     cfg.CredentialPresence(),
		bucket:       cfg.Account,
		pattern:      pattern,
		publicBase:   strings.TrimRight(strings.TrimSpace(cfg.PublicUrl), "/"),
		endpointHost: endpointHost,
		secure:       secure,
	}

	if !cfg.Configured() {
		return store, nil
	}

	client, err := newMinioClient(endpointHost, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       secure,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}
	store.client = client

	return store, nil
}

func (s *StoreImpl) Name() string { return "remote" }

func (s *StoreImpl) ready() error {
	if s.client == nil {
		presence := make(map[string]bool, len(s.presence))
		for k, v := range s.presence {
			presence[k] = v
		}
		return &media.MisconfiguredError{Credentials: presence}
	}

	return nil
}

func (s *StoreImpl) Upload(ctx context.Context, obj media.Object) (*media.Asset, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	key, err := s.pattern.Generate(storageutil.KeyFields{Filename: obj.Filename, Category: obj.Category, Time: now()})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", media.ErrInvalidReference, err)
	}

	opts := minio.PutObjectOptions{ContentType: obj.ContentType}
	info, err := s.client.PutObject(ctx, s.bucket, key, obj.Body, obj.Size, opts)
	if err != nil {
		return nil, classify(err, media.ErrUploadFailed)
	}

	size := info.Size
	if size == 0 {
		size = obj.Size
	}

	return &media.Asset{
		Filename: obj.Filename,
		URL:      s.objectURL(key),
		RemoteID: key,
		Size:     size,
	}, nil
}

// Delete removes the object whose key is id. A missing object is reported as
// not found rather than silently succeeding.
func (s *StoreImpl) Delete(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}

	key, err := cleanKey(id)
	if err != nil {
		return err
	}

	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return &media.NotFoundError{Ref: id, Searched: []string{s.bucket + "/" + key}}
		}
		return fmt.Errorf("%w: stat %q: %w", media.ErrDeleteFailed, key, err)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: remove %q: %w", media.ErrDeleteFailed, key, err)
	}

	return nil
}

// Probe confirms credentials are present and the bucket answers a round trip.
func (s *StoreImpl) Probe(ctx context.Context) (*media.ProbeResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return nil, classify(err, fmt.Errorf("failed to reach bucket %q", s.bucket))
	}

	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist or is not accessible", s.bucket)
	}

	return &media.ProbeResult{
		Backend: s.Name(),
		Detail:  fmt.Sprintf("bucket %q reachable at %s", s.bucket, s.endpointHost),
	}, nil
}

func (s *StoreImpl) objectURL(key string) string {
	if s.publicBase != "" {
		return s.publicBase + "/" + key
	}

	scheme := "https"
	if !s.secure {
		scheme = "http"
	}

	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpointHost, s.bucket, key)
}

func cleanKey(id string) (string, error) {
	key := strings.TrimLeft(strings.TrimSpace(id), "/")
	if key == "" {
		return "", fmt.Errorf("%w: empty identifier", media.ErrInvalidReference)
	}

	for _, segment := range strings.Split(key, "/") {
		if segment == ".." {
			return "", fmt.Errorf("%w: %q", media.ErrInvalidReference, id)
		}
	}

	return key, nil
}

var (
	signatureCodes     = []string{"SignatureDoesNotMatch"}
	authorizationCodes = []string{"InvalidAccessKeyId", "AccessDenied", "InvalidToken", "ExpiredToken", "AllAccessDisabled"}
)

// classify turns a credential rejection into an AuthError and wraps anything
// else with fallback. S3 error codes are checked first; the message text is a
// fallback for gateways that do not return structured errors.
func classify(err error, fallback error) error {
	code := minio.ToErrorResponse(err).Code
	for _, c := range signatureCodes {
		if code == c {
			return &media.AuthError{Kind: media.AuthSignature, Err: err}
		}
	}
	for _, c := range authorizationCodes {
		if code == c {
			return &media.AuthError{Kind: media.AuthAuthorization, Err: err}
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "signature"):
		return &media.AuthError{Kind: media.AuthSignature, Err: err}
	case strings.Contains(msg, "access key"),
		strings.Contains(msg, "access denied"),
		strings.Contains(msg, "unauthorized"),
		strings.Contains(msg, "not authorized"):
		return &media.AuthError{Kind: media.AuthAuthorization, Err: err}
	}

	return fmt.Errorf("%w: %w", fallback, err)
}
