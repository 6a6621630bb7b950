package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"kompas/internal/models"
	"kompas/internal/validate"
)

type FirstTimeStore interface {
	FirstTimes(ctx context.Context, userID uuid.UUID) ([]models.FirstTime, error)
	CreateFirstTime(ctx context.Context, userID uuid.UUID, ft models.FirstTime) (models.FirstTime, error)
	UpdateFirstTime(ctx context.Context, userID, id uuid.UUID, ft models.FirstTime) (models.FirstTime, error)
	DeleteFirstTime(ctx context.Context, userID, id uuid.UUID) error
}

type FirstTimeHandler struct {
	Shared
	firsts FirstTimeStore
}

func NewFirstTimeHandler(sh Shared, firsts FirstTimeStore) *FirstTimeHandler {
	return &FirstTimeHandler{Shared: sh, firsts: firsts}
}

type firstTimePayload struct {
	Title            string      `json:"title" validate:"required,max=200"`
	Date             models.Date `json:"date"`
	WhyRecorded      *string     `json:"why_recorded" validate:"omitempty,max=2000"`
	WhatChanged      *string     `json:"what_changed" validate:"omitempty,max=2000"`
	HowUseExperience *string     `json:"how_use_experience" validate:"omitempty,max=2000"`
	WhatProudImprove *string     `json:"what_proud_improve" validate:"omitempty,max=2000"`
	Emotions         *string     `json:"emotions" validate:"omitempty,max=500"`
}

// read decodes and checks the payload against today.
func (h *FirstTimeHandler) read(w http.ResponseWriter, r *http.Request) (models.FirstTime, error) {
	var body firstTimePayload
	if err := decodeJSON(w, r, &body); err != nil {
		return models.FirstTime{}, err
	}
	body.Title = cleanText(body.Title)
	if err := validate.Struct(body); err != nil {
		return models.FirstTime{}, err
	}
	today, err := h.today(r)
	if err != nil {
		return models.FirstTime{}, err
	}
	if err := validate.NotFuture("date", body.Date, today); err != nil {
		return models.FirstTime{}, err
	}
	return models.FirstTime{
		Title:            body.Title,
		Date:             body.Date,
		WhyRecorded:      cleanOptional(body.WhyRecorded),
		WhatChanged:      cleanOptional(body.WhatChanged),
		HowUseExperience: cleanOptional(body.HowUseExperience),
		WhatProudImprove: cleanOptional(body.WhatProudImprove),
		Emotions:         cleanOptional(body.Emotions),
	}, nil
}

func (h *FirstTimeHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.firsts.FirstTimes(r.Context(), userID(r))
	if err != nil {
		h.fail(w, r, err, "Не вдалося завантажити записи «Вперше»")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *FirstTimeHandler) Create(w http.ResponseWriter, r *http.Request) {
	ft, err := h.read(w, r)
	if err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	uid := userID(r)
	out, err := h.firsts.CreateFirstTime(r.Context(), uid, ft)
	if err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	h.invalidate(r.Context(), uid)
	writeJSON(w, http.StatusCreated, out)
}

func (h *FirstTimeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	ft, err := h.read(w, r)
	if err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	uid := userID(r)
	out, err := h.firsts.UpdateFirstTime(r.Context(), uid, id, ft)
	if err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	h.invalidate(r.Context(), uid)
	writeJSON(w, http.StatusOK, out)
}

func (h *FirstTimeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, r, err, msgDelFailed)
		return
	}
	uid := userID(r)
	if err := h.firsts.DeleteFirstTime(r.Context(), uid, id); err != nil {
		h.fail(w, r, err, msgDelFailed)
		return
	}
	h.invalidate(r.Context(), uid)
	w.WriteHeader(http.StatusNoContent)
}
