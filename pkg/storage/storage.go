// Package storage archives generated files (bill PDFs, stock reports) on local
// disk or in an S3 bucket.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Store saves an object and returns where it ended up
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// Config selects and configures the backend
type Config struct {
	Driver    string // "local", "s3" or "none"
	LocalPath string
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
}

// New builds the configured store. "none" and "" return a nil Store, which callers treat as archiving disabled.
func New(cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", "none":
		return nil, nil
	case "local":
		if cfg.LocalPath == "" {
			return nil, fmt.Errorf("storage: local path is required")
		}
		return NewLocalStore(cfg.LocalPath), nil
	case "s3":
		s3Store, err := NewS3Store(cfg)
		if err != nil {
			return nil, err
		}
		return s3Store, nil
	}
	return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
}

// LocalStore writes objects under a base directory
type LocalStore struct {
	base string
}

func NewLocalStore(base string) *LocalStore {
	return &LocalStore{base: base}
}

func (s *LocalStore) Put(ctx context.Context, key, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	full := filepath.Join(s.base, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("storage: mkdir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write %s: %w", clean, err)
	}
	return full, nil
}

// S3Store uploads through the s3manager uploader
type S3Store struct {
	uploader *s3manager.Uploader
	bucket   string
	prefix   string
}

func NewS3Store(cfg Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage: S3 bucket is required")
	}
	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("storage: aws session: %w", err)
	}
	return &S3Store{
		uploader: s3manager.NewUploader(sess),
		bucket:   cfg.Bucket,
		prefix:   strings.Trim(cfg.Prefix, "/"),
	}, nil
}

func (s *S3Store) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if s.prefix != "" {
		clean = s.prefix + "/" + clean
	}
	input := &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(clean),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	out, err := s.uploader.UploadWithContext(ctx, input)
	if err != nil {
		return "", fmt.Errorf("storage: upload %s: %w", clean, err)
	}
	return out.Location, nil
}

// cleanKey rejects keys that would escape the store root
func cleanKey(key string) (string, error) {
	clean := path.Clean("/" + strings.ReplaceAll(key, "\\", "/"))
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" || clean == "." {
		return "", fmt.Errorf("storage: empty key")
	}
	return clean, nil
}
