package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

func newGCSClient(ctx context.Context, emulatorHost string) (*storage.Client, error) {
	if emulatorHost != "" {
		_ = os.Setenv("STORAGE_EMULATOR_HOST", strings.TrimRight(emulatorHost, "/"))
		return storage.NewClient(ctx, option.WithoutAuthentication())
	}
	return storage.NewClient(ctx, option.WithScopes(storage.ScopeReadWrite))
}

type gcsBucket struct {
	client       *storage.Client
	name         string
	cdnDomain    string
	emulatorHost string
}

func NewGCSBucket(client *storage.Client, name, cdnDomain, emulatorHost string) Bucket {
	return &gcsBucket{
		client:       client,
		name:         name,
		cdnDomain:    strings.TrimSpace(cdnDomain),
		emulatorHost: strings.TrimRight(strings.TrimSpace(emulatorHost), "/"),
	}
}

func (b *gcsBucket) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := b.client.Bucket(b.name).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if w.ContentType == "" {
		w.ContentType = contentTypeForKey(key)
	}
	w.CacheControl = "public, max-age=3600"
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("write object %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close writer for %q: %w", key, err)
	}
	return nil
}

func (b *gcsBucket) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	err := b.client.Bucket(b.name).Object(key).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return ErrObjectNotFound
	}
	if err != nil {
		return fmt.Errorf("delete object %q in bucket %q: %w", key, b.name, err)
	}
	return nil
}

func (b *gcsBucket) PublicURL(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if b.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", b.cdnDomain, key)
	}
	if b.emulatorHost != "" {
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", b.emulatorHost, b.name, url.PathEscape(key))
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", b.name, key)
}
