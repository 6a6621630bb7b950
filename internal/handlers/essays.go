package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"kompas/internal/models"
	"kompas/internal/validate"
)

type EssayStore interface {
	EssayTopics(ctx context.Context) ([]models.EssayTopic, error)
	Essays(ctx context.Context, userID uuid.UUID) ([]models.Essay, error)
	UpsertEssay(ctx context.Context, userID, topicID uuid.UUID, content string, charCount int) (models.Essay, error)
	DeleteEssay(ctx context.Context, userID, topicID uuid.UUID) error
}

type EssayHandler struct {
	Shared
	essays EssayStore
}

func NewEssayHandler(sh Shared, essays EssayStore) *EssayHandler {
	return &EssayHandler{Shared: sh, essays: essays}
}

func (h *EssayHandler) Topics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.essays.EssayTopics(r.Context())
	if err != nil {
		h.fail(w, r, err, "Не вдалося завантажити теми есе")
		return
	}
	writeJSON(w, http.StatusOK, topics)
}

func (h *EssayHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.essays.Essays(r.Context(), userID(r))
	if err != nil {
		h.fail(w, r, err, "Не вдалося завантажити есе")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type essayPayload struct {
	Content string `json:"content"`
}

// Put godoc
// @Summary Save the essay for a topic
// @Description Content must hold 500 to 4000 characters after trimming.
// @Tags essays
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param topicID path string true "topic id"
// @Success 200 {object} models.Essay
// @Failure 400 {object} errorBody
// @Failure 404 {object} errorBody
// @Router /essays/{topicID} [put]
func (h *EssayHandler) Put(w http.ResponseWriter, r *http.Request) {
	topicID, err := pathUUID(r, "topicID")
	if err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	var body essayPayload
	if err := decodeJSON(w, r, &body); err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	content := cleanText(body.Content)
	n, err := validate.EssayContent(content)
	if err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}

	uid := userID(r)
	essay, err := h.essays.UpsertEssay(r.Context(), uid, topicID, content, n)
	if err != nil {
		h.fail(w, r, err, "Не вдалося зберегти есе")
		return
	}
	h.invalidate(r.Context(), uid)
	writeJSON(w, http.StatusOK, essay)
}

func (h *EssayHandler) Delete(w http.ResponseWriter, r *http.Request) {
	topicID, err := pathUUID(r, "topicID")
	if err != nil {
		h.fail(w, r, err, msgDelFailed)
		return
	}
	uid := userID(r)
	if err := h.essays.DeleteEssay(r.Context(), uid, topicID); err != nil {
		h.fail(w, r, err, msgDelFailed)
		return
	}
	h.invalidate(r.Context(), uid)
	w.WriteHeader(http.StatusNoContent)
}
