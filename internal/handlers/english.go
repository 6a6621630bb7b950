package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"kompas/internal/models"
	"kompas/internal/validate"
)

type EnglishStore interface {
	EnglishTests(ctx context.Context, userID uuid.UUID) ([]models.EnglishTest, error)
	UpsertEnglishTest(ctx context.Context, userID uuid.UUID, t models.EnglishTest) (models.EnglishTest, error)
	DeleteEnglishTest(ctx context.Context, userID uuid.UUID, testNumber int) error
}

type EnglishHandler struct {
	Shared
	tests EnglishStore
}

func NewEnglishHandler(sh Shared, tests EnglishStore) *EnglishHandler {
	return &EnglishHandler{Shared: sh, tests: tests}
}

type englishPayload struct {
	Date       models.Date `json:"date"`
	Grammar    int         `json:"grammar" validate:"gte=0,lte=100"`
	Vocabulary int         `json:"vocabulary" validate:"gte=0,lte=100"`
	Reading    int         `json:"reading" validate:"gte=0,lte=100"`
	Listening  int         `json:"listening" validate:"gte=0,lte=100"`
}

func (h *EnglishHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.tests.EnglishTests(r.Context(), userID(r))
	if err != nil {
		h.fail(w, r, err, "Не вдалося завантажити тести")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *EnglishHandler) Put(w http.ResponseWriter, r *http.Request) {
	n, err := testNumber(r, englishTests)
	if err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	var body englishPayload
	if err := decodeJSON(w, r, &body); err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	if err := validate.Struct(body); err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	today, err := h.today(r)
	if err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	if err := validate.NotFuture("date", body.Date, today); err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}

	uid := userID(r)
	saved, err := h.tests.UpsertEnglishTest(r.Context(), uid, models.EnglishTest{
		TestNumber: n,
		Date:       body.Date,
		Grammar:    body.Grammar,
		Vocabulary: body.Vocabulary,
		Reading:    body.Reading,
		Listening:  body.Listening,
	})
	if err != nil {
		h.fail(w, r, err, "Не вдалося зберегти тест")
		return
	}
	h.invalidate(r.Context(), uid)
	writeJSON(w, http.StatusOK, saved)
}

func (h *EnglishHandler) Delete(w http.ResponseWriter, r *http.Request) {
	n, err := testNumber(r, englishTests)
	if err != nil {
		h.fail(w, r, err, msgDelFailed)
		return
	}
	uid := userID(r)
	if err := h.tests.DeleteEnglishTest(r.Context(), uid, n); err != nil {
		h.fail(w, r, err, msgDelFailed)
		return
	}
	h.invalidate(r.Context(), uid)
	w.WriteHeader(http.StatusNoContent)
}
