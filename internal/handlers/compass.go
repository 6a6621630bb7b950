package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"kompas/internal/models"
	"kompas/internal/store"
	"kompas/internal/validate"
)

const maxCompassPage = 366

type CompassStore interface {
	UpsertCompassEntry(ctx context.Context, userID uuid.UUID, e models.CompassEntry, today models.Date) (models.CompassEntry, bool, error)
	CompassEntry(ctx context.Context, userID uuid.UUID, date models.Date) (models.CompassEntry, error)
	CompassEntries(ctx context.Context, userID uuid.UUID, f store.EntryFilter) ([]models.CompassEntry, error)
	DeleteCompassEntry(ctx context.Context, userID uuid.UUID, date, today models.Date) error
}

type CompassHandler struct {
	Shared
	entries CompassStore
}

func NewCompassHandler(sh Shared, entries CompassStore) *CompassHandler {
	return &CompassHandler{Shared: sh, entries: entries}
}

// compassPayload is the body of PUT /compass/{date}. Every field may be
// omitted, null or blank, all of which store NULL.
type compassPayload struct {
	PhysicalActivity        *string `json:"physical_activity"`
	PhysicalDescription     *string `json:"physical_description" validate:"omitempty,max=2000"`
	Emotion                 *string `json:"emotion"`
	IntellectualActivity    *string `json:"intellectual_activity"`
	IntellectualDescription *string `json:"intellectual_description" validate:"omitempty,max=2000"`
	ThoughtOfDay            *string `json:"thought_of_day" validate:"omitempty,max=2000"`
	EventOfDay              *string `json:"event_of_day" validate:"omitempty,max=2000"`
	PersonOfDay             *string `json:"person_of_day" validate:"omitempty,max=500"`
	GratitudeOfDay          *string `json:"gratitude_of_day" validate:"omitempty,max=2000"`
	ValueOfDay              *string `json:"value_of_day"`
	PointsEarned            *int    `json:"points_earned" validate:"omitempty,gte=0,lte=100"`
}

func (p compassPayload) entry(date models.Date) models.CompassEntry {
	e := models.CompassEntry{
		Date:                    date,
		PhysicalActivity:        cleanOptional(p.PhysicalActivity),
		PhysicalDescription:     cleanOptional(p.PhysicalDescription),
		Emotion:                 cleanOptional(p.Emotion),
		IntellectualActivity:    cleanOptional(p.IntellectualActivity),
		IntellectualDescription: cleanOptional(p.IntellectualDescription),
		ThoughtOfDay:            cleanOptional(p.ThoughtOfDay),
		EventOfDay:              cleanOptional(p.EventOfDay),
		PersonOfDay:             cleanOptional(p.PersonOfDay),
		GratitudeOfDay:          cleanOptional(p.GratitudeOfDay),
		ValueOfDay:              cleanOptional(p.ValueOfDay),
		PointsEarned:            p.PointsEarned,
	}
	if e.Emotion != nil {
		if emoji, ok := models.EmotionEmoji(*e.Emotion); ok {
			e.EmotionEmoji = &emoji
		}
	}
	return e
}

// List godoc
// @Summary List compass entries, newest first
// @Tags compass
// @Produce json
// @Security BearerAuth
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Param limit query int false "max entries"
// @Success 200 {array} models.CompassEntry
// @Router /compass [get]
func (h *CompassHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := entryFilter(r)
	if err != nil {
		h.fail(w, r, err, msgLoadFailed)
		return
	}
	list, err := h.entries.CompassEntries(r.Context(), userID(r), f)
	if err != nil {
		h.fail(w, r, err, "Не вдалося завантажити записи компасу")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func entryFilter(r *http.Request) (store.EntryFilter, error) {
	q := r.URL.Query()
	var f store.EntryFilter
	var err error
	if v := q.Get("from"); v != "" {
		if f.From, err = models.ParseDate(v); err != nil {
			return f, &validate.Error{Field: "from", Message: "Дата має бути у форматі РРРР-ММ-ДД"}
		}
	}
	if v := q.Get("to"); v != "" {
		if f.To, err = models.ParseDate(v); err != nil {
			return f, &validate.Error{Field: "to", Message: "Дата має бути у форматі РРРР-ММ-ДД"}
		}
	}
	f.Limit = maxCompassPage
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxCompassPage {
			return f, &validate.Error{Field: "limit", Message: "Ліміт має бути від 1 до 366"}
		}
		f.Limit = n
	}
	return f, nil
}

func (h *CompassHandler) Get(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r, "date")
	if err != nil {
		h.fail(w, r, err, msgLoadFailed)
		return
	}
	e, err := h.entries.CompassEntry(r.Context(), userID(r), date)
	if err != nil {
		h.fail(w, r, err, "Не вдалося завантажити запис компасу")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Put godoc
// @Summary Create or replace the entry of one day
// @Description Answers 201 when the day had no entry yet, 200 when it was replaced.
// @Tags compass
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param date path string true "YYYY-MM-DD"
// @Success 200 {object} models.CompassEntry
// @Success 201 {object} models.CompassEntry
// @Failure 400 {object} errorBody
// @Router /compass/{date} [put]
func (h *CompassHandler) Put(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r, "date")
	if err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	today, err := h.today(r)
	if err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	if err := validate.NotFuture("date", date, today); err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}

	var body compassPayload
	if err := decodeJSON(w, r, &body); err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	if err := validate.Struct(body); err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	entry := body.entry(date)
	if err := validate.CompassChoices(entry); err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}

	uid := userID(r)
	saved, created, err := h.entries.UpsertCompassEntry(r.Context(), uid, entry, today)
	if err != nil {
		h.fail(w, r, err, "Не вдалося зберегти запис компасу")
		return
	}
	h.invalidate(r.Context(), uid)

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, saved)
}

func (h *CompassHandler) Delete(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r, "date")
	if err != nil {
		h.fail(w, r, err, msgDelFailed)
		return
	}
	today, err := h.today(r)
	if err != nil {
		h.fail(w, r, err, msgDelFailed)
		return
	}
	uid := userID(r)
	if err := h.entries.DeleteCompassEntry(r.Context(), uid, date, today); err != nil {
		h.fail(w, r, err, msgDelFailed)
		return
	}
	h.invalidate(r.Context(), uid)
	w.WriteHeader(http.StatusNoContent)
}
