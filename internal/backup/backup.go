// Package backup uploads ledger exports to a remote destination: a Google
// Cloud Storage bucket or a local directory.
package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
)

// Sink stores one backup file.
type Sink interface {
	// Name describes the destination for logs and API responses.
	Name() string
	// Put writes the content under name and returns its location.
	Put(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	Close() error
}

// uploadTimeout bounds a single upload.
const uploadTimeout = 2 * time.Minute

// GCSSink writes backups as objects of a bucket. It relies on Application
// Default Credentials.
type GCSSink struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSSink creates a storage client for bucket. Objects are written under
// prefix, which may be empty.
func NewGCSSink(ctx context.Context, bucket, prefix string) (*GCSSink, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSSink{client: client, bucket: bucket, prefix: prefix}, nil
}

// Name implements Sink.
func (s *GCSSink) Name() string { return "gs://" + s.bucket }

// Put implements Sink.
func (s *GCSSink) Put(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	objectName := s.prefix + name
	w := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("copy backup to GCS writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}
	return fmt.Sprintf("gs://%s/%s", s.bucket, objectName), nil
}

// Close releases the storage client.
func (s *GCSSink) Close() error { return s.client.Close() }

// DirSink writes backups as files of a local directory.
type DirSink struct {
	dir string
}

// NewDirSink creates dir when missing.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create backup dir %q: %w", dir, err)
	}
	return &DirSink{dir: dir}, nil
}

// Name implements Sink.
func (s *DirSink) Name() string { return s.dir }

// Put implements Sink. The file is written under a temporary name and
// renamed, so a reader never sees a partial backup.
func (s *DirSink) Put(ctx context.Context, name, _ string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(s.dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("create temp backup: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close backup: %w", err)
	}

	dest := filepath.Join(s.dir, name)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("move backup into place: %w", err)
	}
	return dest, nil
}

// Close implements Sink.
func (s *DirSink) Close() error { return nil }

// NewSink picks the configured destination: the bucket when set, otherwise
// the directory. It returns nil when neither is set.
func NewSink(ctx context.Context, bucket, dir string) (Sink, error) {
	switch {
	case bucket != "":
		s, err := NewGCSSink(ctx, bucket, "patrimony/")
		if err != nil {
			return nil, err
		}
		return s, nil
	case dir != "":
		s, err := NewDirSink(dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, nil
	}
}
