// Package storage keeps user uploads (avatars and monthly photos) in a
// bucket and hands out their public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kompas/internal/config"
)

var ErrObjectNotFound = errors.New("object not found")

// Bucket is one named container of objects.
type Bucket interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// Buckets are the two containers the application writes to.
type Buckets struct {
	Avatars       Bucket
	MonthlyPhotos Bucket
	close         func() error
}

func (b Buckets) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open builds the buckets for the configured driver.
func Open(ctx context.Context, cfg config.Config, log *zap.Logger) (Buckets, error) {
	switch cfg.StorageDriver {
	case "gcs":
		client, err := newGCSClient(ctx, cfg.StorageEmulatorHost)
		if err != nil {
			return Buckets{}, fmt.Errorf("create storage client: %w", err)
		}
		log.Info("object storage initialized",
			zap.String("driver", "gcs"),
			zap.String("emulator_host", cfg.StorageEmulatorHost),
			zap.String("avatars_bucket", cfg.AvatarsBucket),
			zap.String("photos_bucket", cfg.MonthlyPhotosBucket),
		)
		return Buckets{
			Avatars:       NewGCSBucket(client, cfg.AvatarsBucket, cfg.GCSCDNDomain, cfg.StorageEmulatorHost),
			MonthlyPhotos: NewGCSBucket(client, cfg.MonthlyPhotosBucket, cfg.GCSCDNDomain, cfg.StorageEmulatorHost),
			close:         client.Close,
		}, nil
	case "local":
		avatars, err := NewLocalBucket(cfg.UploadDir, cfg.AvatarsBucket, cfg.PublicBaseURL)
		if err != nil {
			return Buckets{}, err
		}
		photos, err := NewLocalBucket(cfg.UploadDir, cfg.MonthlyPhotosBucket, cfg.PublicBaseURL)
		if err != nil {
			return Buckets{}, err
		}
		log.Info("object storage initialized", zap.String("driver", "local"), zap.String("dir", cfg.UploadDir))
		return Buckets{Avatars: avatars, MonthlyPhotos: photos}, nil
	default:
		return Buckets{}, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// AvatarKey is the object key of a user's avatar.
func AvatarKey(userID uuid.UUID, ext string) string {
	return userID.String() + ext
}

// PhotoKey is the object key of the photo of one month.
func PhotoKey(userID uuid.UUID, year, month int, ext string) string {
	return fmt.Sprintf("%s/%d/%02d%s", userID, year, month, ext)
}

// ExtensionFor maps an image content type to a file extension.
func ExtensionFor(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch ct {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	case "image/heic":
		return ".heic"
	default:
		return ".img"
	}
}

func contentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	case strings.HasSuffix(s, ".gif"):
		return "image/gif"
	case strings.HasSuffix(s, ".heic"):
		return "image/heic"
	default:
		return "application/octet-stream"
	}
}
