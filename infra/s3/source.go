// Package s3 serves load profile files from an S3-compatible object store.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/kilianp07/evload/core/model"
)

// Config locates the bucket holding the profile files.
type Config struct {
	Endpoint  string `json:"endpoint"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	Bucket    string `json:"bucket"`
	Prefix    string `json:"prefix"`
	Region    string `json:"region"`
	UseSSL    bool   `json:"use_ssl"`
}

// Validate checks the mandatory fields.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("%w: s3 endpoint is required", model.ErrConfiguration)
	}
	if c.Bucket == "" {
		return fmt.Errorf("%w: s3 bucket is required", model.ErrConfiguration)
	}
	return nil
}

// Source implements profile.Source on top of a bucket.
type Source struct {
	Client *minio.Client
	Bucket string
	Prefix string
}

// NewSource creates a minio client for cfg.
func NewSource(cfg Config) (*Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}
	return &Source{Client: client, Bucket: cfg.Bucket, Prefix: cfg.Prefix}, nil
}

// Key returns the object key of the profile file name.
func (s *Source) Key(name string) string {
	if s.Prefix == "" {
		return name
	}
	return path.Join(s.Prefix, name)
}

// Open fetches the object named name. A missing object or bucket yields
// model.ErrResourceNotFound.
func (s *Source) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := s.Key(name)
	obj, err := s.Client.GetObject(ctx, s.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapError(s.Bucket, key, err)
	}
	// GetObject is lazy; Stat forces the request so a missing key surfaces here.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, mapError(s.Bucket, key, err)
	}
	return obj, nil
}

func mapError(bucket, key string, err error) error {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		switch resp.Code {
		case "NoSuchKey", "NoSuchBucket":
			return fmt.Errorf("%w: s3://%s/%s", model.ErrResourceNotFound, bucket, key)
		}
	}
	return fmt.Errorf("s3 get object %s: %w", key, err)
}
