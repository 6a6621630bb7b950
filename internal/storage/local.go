package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalPathPrefix is where the router serves local uploads.
const LocalPathPrefix = "/uploads/"

type localBucket struct {
	dir     string
	name    string
	baseURL string
}

// NewLocalBucket stores objects under root/name. Objects are served by the
// application itself below LocalPathPrefix.
func NewLocalBucket(root, name, baseURL string) (Bucket, error) {
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &localBucket{dir: dir, name: name, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (b *localBucket) path(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(b.dir, filepath.FromSlash(clean)), nil
}

func (b *localBucket) Upload(ctx context.Context, key string, r io.Reader, _ string) error {
	dst, err := b.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create object dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write object %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

func (b *localBucket) Delete(_ context.Context, key string) error {
	p, err := b.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("delete object %q: %w", key, err)
	}
	return nil
}

func (b *localBucket) PublicURL(key string) string {
	return b.baseURL + LocalPathPrefix + b.name + "/" + strings.TrimLeft(key, "/")
}
