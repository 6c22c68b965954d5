package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Bucket stores named binary objects and exposes each one at a public URL.
// Implementations must treat Upload of an existing name as an overwrite and
// Remove of a missing name as success.
type Bucket interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
	Remove(ctx context.Context, name string) error
}

// DiskBucket keeps objects under root/<bucket>/ and serves them at
// <baseURL>/<bucket>/<name>. It stands in for a hosted object store.
type DiskBucket struct {
	bucket  string
	dir     string
	baseURL string
}

// NewDiskBucket creates the backing directory if needed. baseURL is the
// externally reachable prefix the upload route is mounted at, e.g.
// "http://localhost:5050/uploads".
func NewDiskBucket(root, baseURL, bucket string) (*DiskBucket, error) {
	dir := filepath.Join(root, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating bucket dir %s: %w", dir, err)
	}
	return &DiskBucket{
		bucket:  bucket,
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (b *DiskBucket) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validateName(name); err != nil {
		return "", err
	}

	path := filepath.Join(b.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating object %s: %w", name, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("writing object %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing object %s: %w", name, err)
	}

	return b.baseURL + "/" + b.bucket + "/" + name, nil
}

func (b *DiskBucket) Remove(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateName(name); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(b.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// validateName rejects anything that could escape the bucket directory.
func validateName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("invalid object name %q", name)
	}
	return nil
}
