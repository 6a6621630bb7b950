package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"kompas/internal/models"
	"kompas/internal/validate"
)

type ActionStore interface {
	Actions(ctx context.Context, userID uuid.UUID, activityType string) ([]models.Action, error)
	CreateAction(ctx context.Context, userID uuid.UUID, a models.Action) (models.Action, error)
	UpdateAction(ctx context.Context, userID, id uuid.UUID, a models.Action) (models.Action, error)
	DeleteAction(ctx context.Context, userID, id uuid.UUID) error
	ActionTotals(ctx context.Context, userID uuid.UUID) ([]models.ActionTotal, error)
}

type ActionHandler struct {
	Shared
	actions ActionStore
}

func NewActionHandler(sh Shared, actions ActionStore) *ActionHandler {
	return &ActionHandler{Shared: sh, actions: actions}
}

type actionPayload struct {
	Title        string      `json:"title" validate:"required,max=200"`
	ActivityType string      `json:"activity_type"`
	Date         models.Date `json:"date"`
	TimeSpent    int         `json:"time_spent" validate:"gte=0,lte=1440"`
	WorkDone     string      `json:"work_done" validate:"required,max=4000"`
	Emotions     *string     `json:"emotions" validate:"omitempty,max=2000"`
	Insights     *string     `json:"insights" validate:"omitempty,max=2000"`
}

func (h *ActionHandler) read(w http.ResponseWriter, r *http.Request) (models.Action, error) {
	var body actionPayload
	if err := decodeJSON(w, r, &body); err != nil {
		return models.Action{}, err
	}
	body.Title = cleanText(body.Title)
	body.WorkDone = cleanText(body.WorkDone)
	if err := validate.Struct(body); err != nil {
		return models.Action{}, err
	}
	if err := validate.ActionType(body.ActivityType); err != nil {
		return models.Action{}, err
	}
	today, err := h.today(r)
	if err != nil {
		return models.Action{}, err
	}
	if err := validate.NotFuture("date", body.Date, today); err != nil {
		return models.Action{}, err
	}
	return models.Action{
		Title:        body.Title,
		ActivityType: body.ActivityType,
		Date:         body.Date,
		TimeSpent:    body.TimeSpent,
		WorkDone:     body.WorkDone,
		Emotions:     cleanOptional(body.Emotions),
		Insights:     cleanOptional(body.Insights),
	}, nil
}

// List godoc
// @Summary List development actions
// @Tags actions
// @Produce json
// @Security BearerAuth
// @Param type query string false "activity type"
// @Success 200 {array} models.Action
// @Router /actions [get]
func (h *ActionHandler) List(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("type")
	if kind != "" {
		if err := validate.ActionType(kind); err != nil {
			h.fail(w, r, err, msgLoadFailed)
			return
		}
	}
	list, err := h.actions.Actions(r.Context(), userID(r), kind)
	if err != nil {
		h.fail(w, r, err, "Не вдалося завантажити дії")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Summary reports count and minutes per activity type, zero rows included.
func (h *ActionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	totals, err := h.actions.ActionTotals(r.Context(), userID(r))
	if err != nil {
		h.fail(w, r, err, "Не вдалося завантажити дії")
		return
	}
	byType := make(map[string]models.ActionTotal, len(totals))
	for _, t := range totals {
		byType[t.ActivityType] = t
	}
	out := make([]models.ActionTotal, 0, len(models.ActionTypes))
	for _, kind := range models.ActionTypes {
		t, ok := byType[kind]
		if !ok {
			t = models.ActionTotal{ActivityType: kind}
		}
		out = append(out, t)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ActionHandler) Create(w http.ResponseWriter, r *http.Request) {
	a, err := h.read(w, r)
	if err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	uid := userID(r)
	saved, err := h.actions.CreateAction(r.Context(), uid, a)
	if err != nil {
		h.fail(w, r, err, "Не вдалося зберегти дію")
		return
	}
	h.invalidate(r.Context(), uid)
	writeJSON(w, http.StatusCreated, saved)
}

func (h *ActionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	a, err := h.read(w, r)
	if err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	uid := userID(r)
	saved, err := h.actions.UpdateAction(r.Context(), uid, id, a)
	if err != nil {
		h.fail(w, r, err, "Не вдалося зберегти дію")
		return
	}
	h.invalidate(r.Context(), uid)
	writeJSON(w, http.StatusOK, saved)
}

func (h *ActionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, r, err, msgDelFailed)
		return
	}
	uid := userID(r)
	if err := h.actions.DeleteAction(r.Context(), uid, id); err != nil {
		h.fail(w, r, err, msgDelFailed)
		return
	}
	h.invalidate(r.Context(), uid)
	w.WriteHeader(http.StatusNoContent)
}
