package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kompas/internal/models"
	"kompas/internal/progress"
	"kompas/internal/storage"
	"kompas/internal/validate"
)

type ProfileStore interface {
	Profile(ctx context.Context, userID uuid.UUID) (models.Profile, error)
	UpdateProfileName(ctx context.Context, userID uuid.UUID, fullName *string) (models.Profile, error)
	SetAvatarURL(ctx context.Context, userID uuid.UUID, url string) error
}

type ProfileHandler struct {
	Shared
	profiles ProfileStore
	avatars  storage.Bucket
}

func NewProfileHandler(sh Shared, profiles ProfileStore, avatars storage.Bucket) *ProfileHandler {
	return &ProfileHandler{Shared: sh, profiles: profiles, avatars: avatars}
}

type profileResponse struct {
	models.Profile
	Level         int `json:"level"`
	LevelProgress int `json:"level_progress"`
}

func newProfileResponse(p models.Profile) profileResponse {
	return profileResponse{Profile: p, Level: progress.Level(p.Points), LevelProgress: progress.LevelProgress(p.Points)}
}

// Get godoc
// @Summary Current user's profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} profileResponse
// @Router /profile [get]
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.Profile(r.Context(), userID(r))
	if err != nil {
		h.fail(w, r, err, "Не вдалося завантажити профіль")
		return
	}
	writeJSON(w, http.StatusOK, newProfileResponse(p))
}

type profileUpdate struct {
	FullName *string `json:"full_name" validate:"omitempty,max=200"`
}

// Update changes the display name. Aggregates are never client-writable.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var body profileUpdate
	if err := decodeJSON(w, r, &body); err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	if err := validate.Struct(body); err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	uid := userID(r)
	p, err := h.profiles.UpdateProfileName(r.Context(), uid, cleanOptional(body.FullName))
	if err != nil {
		h.fail(w, r, err, "Не вдалося оновити профіль")
		return
	}
	h.invalidate(r.Context(), uid)
	writeJSON(w, http.StatusOK, newProfileResponse(p))
}

// UploadAvatar stores the image under the user's avatar key, replacing the
// previous one.
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	img, err := readImage(w, r)
	if err != nil {
		h.fail(w, r, err, "Не вдалося завантажити аватар")
		return
	}
	uid := userID(r)
	key := storage.AvatarKey(uid, storage.ExtensionFor(img.contentType))
	if err := h.avatars.Upload(r.Context(), key, img.body, img.contentType); err != nil {
		h.fail(w, r, err, "Не вдалося завантажити аватар")
		return
	}

	// The key is stable per user and extension; the version busts caches.
	url := h.avatars.PublicURL(key) + "?v=" + strconv.FormatInt(h.now().Unix(), 10)
	if err := h.profiles.SetAvatarURL(r.Context(), uid, url); err != nil {
		h.Log.Warn("avatar uploaded but profile not updated", zap.String("key", key), zap.Error(err))
		h.fail(w, r, err, "Не вдалося оновити профіль")
		return
	}
	h.invalidate(r.Context(), uid)
	writeJSON(w, http.StatusOK, map[string]string{"avatar_url": url})
}
