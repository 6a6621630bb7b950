package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"kompas/internal/cache"
	"kompas/internal/middleware"
	"kompas/internal/models"
	"kompas/internal/store"
	"kompas/internal/validate"
)

const maxBodyBytes = 1 << 20

const (
	msgLoadFailed = "Не вдалося завантажити дані"
	msgSaveFailed = "Не вдалося зберегти дані"
	msgDelFailed  = "Не вдалося видалити запис"
)

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &validate.Error{Message: "Некоректне тіло запиту"}
	}
	return nil
}

// Shared carries what every handler needs besides its store.
type Shared struct {
	Log      *zap.Logger
	Cache    cache.Cache
	CacheTTL time.Duration
	Location *time.Location
	Now      func() time.Time
}

func (s Shared) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// today is the calendar day of the request in the service time zone. A
// client may pass its own local_date, which must lie within a day of it.
func (s Shared) today(r *http.Request) (models.Date, error) {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	server := models.NewDate(s.now().In(loc))
	raw := r.URL.Query().Get("local_date")
	if raw == "" {
		return server, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, &validate.Error{Field: "local_date", Message: "Дата має бути у форматі РРРР-ММ-ДД"}
	}
	if diff := d.DaysSince(server); diff > 1 || diff < -1 {
		return models.Date{}, &validate.Error{Field: "local_date", Message: "Некоректна поточна дата"}
	}
	return d, nil
}

// invalidate drops the cached statistics of a user after a write.
func (s Shared) invalidate(ctx context.Context, userID uuid.UUID) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.DeletePrefix(ctx, cache.StatsPrefix(userID)); err != nil {
		s.Log.Warn("cache invalidation failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

// fail maps err onto a status. Unexpected errors are logged and answered
// with msg.
func (s Shared) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	var verr *validate.Error
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Запис не знайдено")
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "Такий запис вже існує")
	case errors.Is(err, store.ErrLimitReached):
		writeError(w, http.StatusConflict, "Досягнуто ліміту записів")
	default:
		fields := []zap.Field{zap.Error(err), zap.String("path", r.URL.Path)}
		if sess, ok := middleware.SessionFrom(r.Context()); ok {
			fields = append(fields, zap.String("user_id", sess.UserID.String()))
		}
		s.Log.Error(msg, fields...)
		writeError(w, http.StatusInternalServerError, msg)
	}
}

// userID reads the session RequireAuth put in place.
func userID(r *http.Request) uuid.UUID {
	sess, _ := middleware.SessionFrom(r.Context())
	return sess.UserID
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, &validate.Error{Field: name, Message: "Некоректний ідентифікатор"}
	}
	return id, nil
}

func pathDate(r *http.Request, name string) (models.Date, error) {
	d, err := models.ParseDate(chi.URLParam(r, name))
	if err != nil {
		return models.Date{}, &validate.Error{Field: name, Message: "Дата має бути у форматі РРРР-ММ-ДД"}
	}
	return d, nil
}

func pathInt(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, &validate.Error{Field: name, Message: "Некоректний номер"}
	}
	return n, nil
}
