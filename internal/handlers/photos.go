package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kompas/internal/models"
	"kompas/internal/storage"
	"kompas/internal/validate"
)

type PhotoStore interface {
	MonthlyPhotos(ctx context.Context, userID uuid.UUID) ([]models.MonthlyPhoto, error)
	UpsertMonthlyPhoto(ctx context.Context, userID uuid.UUID, p models.MonthlyPhoto) (models.MonthlyPhoto, string, error)
	DeleteMonthlyPhoto(ctx context.Context, userID, id uuid.UUID) (models.MonthlyPhoto, error)
}

type PhotoHandler struct {
	Shared
	photos PhotoStore
	bucket storage.Bucket
}

func NewPhotoHandler(sh Shared, photos PhotoStore, bucket storage.Bucket) *PhotoHandler {
	return &PhotoHandler{Shared: sh, photos: photos, bucket: bucket}
}

func (h *PhotoHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.photos.MonthlyPhotos(r.Context(), userID(r))
	if err != nil {
		h.fail(w, r, err, "Не вдалося завантажити фото")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func formInt(r *http.Request, field string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(r.FormValue(field)))
	if err != nil || n < lo || n > hi {
		return 0, &validate.Error{Field: field, Message: "Значення має бути від " + strconv.Itoa(lo) + " до " + strconv.Itoa(hi)}
	}
	return n, nil
}

// Upload godoc
// @Summary Upload the photo of a month
// @Description Multipart form with file, month, year and an optional caption. Replaces the photo of the same month.
// @Tags photos
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.MonthlyPhoto
// @Failure 400 {object} errorBody
// @Router /monthly-photos [post]
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	img, err := readImage(w, r)
	if err != nil {
		h.fail(w, r, err, "Не вдалося завантажити фото")
		return
	}
	month, err := formInt(r, "month", 1, 12)
	if err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	year, err := formInt(r, "year", 2000, 2100)
	if err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	var caption *string
	if c := r.FormValue("caption"); c != "" {
		caption = cleanOptional(&c)
	}
	if caption != nil && len([]rune(*caption)) > 500 {
		h.fail(w, r, &validate.Error{Field: "caption", Message: "Значення має бути не більше 500"}, msgSaveFailed)
		return
	}

	uid := userID(r)
	key := storage.PhotoKey(uid, year, month, storage.ExtensionFor(img.contentType))
	if err := h.bucket.Upload(r.Context(), key, img.body, img.contentType); err != nil {
		h.fail(w, r, err, "Не вдалося завантажити фото")
		return
	}
	url := h.bucket.PublicURL(key) + "?v=" + strconv.FormatInt(h.now().Unix(), 10)

	saved, previous, err := h.photos.UpsertMonthlyPhoto(r.Context(), uid, models.MonthlyPhoto{
		Month:      month,
		Year:       year,
		PhotoURL:   url,
		StorageKey: key,
		Caption:    caption,
	})
	if err != nil {
		h.fail(w, r, err, "Не вдалося зберегти фото")
		return
	}
	if previous != "" {
		h.removeObject(r.Context(), previous)
	}
	h.invalidate(r.Context(), uid)
	writeJSON(w, http.StatusCreated, saved)
}

func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, r, err, msgDelFailed)
		return
	}
	uid := userID(r)
	p, err := h.photos.DeleteMonthlyPhoto(r.Context(), uid, id)
	if err != nil {
		h.fail(w, r, err, msgDelFailed)
		return
	}
	h.removeObject(r.Context(), p.StorageKey)
	h.invalidate(r.Context(), uid)
	w.WriteHeader(http.StatusNoContent)
}

// removeObject deletes a stored image the database no longer points to.
// Failures leave an orphan behind and are only logged.
func (h *PhotoHandler) removeObject(ctx context.Context, key string) {
	err := h.bucket.Delete(ctx, key)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrObjectNotFound):
		h.Log.Debug("photo object already gone", zap.String("key", key))
	default:
		h.Log.Warn("photo object not deleted", zap.String("key", key), zap.Error(err))
	}
}
