package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kompas/internal/cache"
	"kompas/internal/models"
	"kompas/internal/progress"
	"kompas/internal/store"
	"kompas/internal/validate"
)

const (
	defaultStatsWindow = 30
	maxStatsWindow     = 365
)

type StatsStore interface {
	Profile(ctx context.Context, userID uuid.UUID) (models.Profile, error)
	CompassEntries(ctx context.Context, userID uuid.UUID, f store.EntryFilter) ([]models.CompassEntry, error)
	Counts(ctx context.Context, userID uuid.UUID) (store.Counts, error)
}

type StatsHandler struct {
	Shared
	stats StatsStore
}

func NewStatsHandler(sh Shared, stats StatsStore) *StatsHandler {
	return &StatsHandler{Shared: sh, stats: stats}
}

// cached serves key from the cache or builds, stores and returns it.
func (h *StatsHandler) cached(ctx context.Context, key string, dst any, build func() (any, error)) (any, error) {
	if h.Cache != nil {
		err := cache.GetJSON(ctx, h.Cache, key, dst)
		if err == nil {
			return dst, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			h.Log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
	}
	v, err := build()
	if err != nil {
		return nil, err
	}
	if h.Cache != nil {
		if err := cache.SetJSON(ctx, h.Cache, key, v, h.CacheTTL); err != nil {
			h.Log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return v, nil
}

type profileTotals struct {
	Points        int `json:"points"`
	CurrentStreak int `json:"current_streak"`
	TotalDays     int `json:"total_days"`
}

type statisticsResponse struct {
	LocalDate models.Date      `json:"local_date"`
	Window    int              `json:"window"`
	Profile   profileTotals    `json:"profile"`
	Summary   progress.Summary `json:"summary"`
}

// Statistics godoc
// @Summary Aggregates over the most recent entries
// @Description window is the number of most recent entries summarized (default 30).
// @Description Streaks and weekly activity always cover the full history.
// @Description The profile block holds the all-time stored aggregates.
// @Tags statistics
// @Produce json
// @Security BearerAuth
// @Param window query int false "1..365"
// @Param local_date query string false "client's today, YYYY-MM-DD"
// @Success 200 {object} statisticsResponse
// @Router /statistics [get]
func (h *StatsHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	today, err := h.today(r)
	if err != nil {
		h.fail(w, r, err, msgLoadFailed)
		return
	}
	window := defaultStatsWindow
	if v := r.URL.Query().Get("window"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxStatsWindow {
			h.fail(w, r, &validate.Error{Field: "window", Message: "Вікно має бути від 1 до 365 записів"}, msgLoadFailed)
			return
		}
		window = n
	}

	uid := userID(r)
	key := cache.StatsPrefix(uid) + "statistics:" + strconv.Itoa(window) + ":" + today.String()
	v, err := h.cached(r.Context(), key, &statisticsResponse{}, func() (any, error) {
		p, err := h.stats.Profile(r.Context(), uid)
		if err != nil {
			return nil, err
		}
		entries, err := h.stats.CompassEntries(r.Context(), uid, store.EntryFilter{To: today})
		if err != nil {
			return nil, err
		}
		return &statisticsResponse{
			LocalDate: today,
			Window:    window,
			Profile:   profileTotals{Points: p.Points, CurrentStreak: p.CurrentStreak, TotalDays: p.TotalDays},
			Summary:   progress.SummarizeRecent(entries, window, today),
		}, nil
	})
	if err != nil {
		h.fail(w, r, err, "Не вдалося завантажити статистику")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type goalRatio struct {
	Current int `json:"current"`
	Goal    int `json:"goal"`
	Percent int `json:"percent"`
}

type dashboardResponse struct {
	LocalDate     models.Date           `json:"local_date"`
	Profile       profileResponse       `json:"profile"`
	HasTodayEntry bool                  `json:"has_today_entry"`
	StreakGoal    goalRatio             `json:"streak_goal"`
	EntriesGoal   goalRatio             `json:"entries_goal"`
	Counts        store.Counts          `json:"counts"`
	Recent        []models.CompassEntry `json:"recent_entries"`
}

// Dashboard godoc
// @Summary Overview of the user's progress across every section
// @Tags statistics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dashboardResponse
// @Router /dashboard [get]
func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	today, err := h.today(r)
	if err != nil {
		h.fail(w, r, err, msgLoadFailed)
		return
	}
	uid := userID(r)
	key := cache.StatsPrefix(uid) + "dashboard:" + today.String()
	v, err := h.cached(r.Context(), key, &dashboardResponse{}, func() (any, error) {
		p, err := h.stats.Profile(r.Context(), uid)
		if err != nil {
			return nil, err
		}
		counts, err := h.stats.Counts(r.Context(), uid)
		if err != nil {
			return nil, err
		}
		recent, err := h.stats.CompassEntries(r.Context(), uid, store.EntryFilter{To: today, Limit: 5})
		if err != nil {
			return nil, err
		}
		hasToday := len(recent) > 0 && recent[0].Date.Equal(today)
		return &dashboardResponse{
			LocalDate:     today,
			Profile:       newProfileResponse(p),
			HasTodayEntry: hasToday,
			StreakGoal:    goalRatio{Current: p.CurrentStreak, Goal: progress.StreakGoal, Percent: progress.Ratio(p.CurrentStreak, progress.StreakGoal)},
			EntriesGoal:   goalRatio{Current: counts.CompassEntries, Goal: progress.EntriesGoal, Percent: progress.Ratio(counts.CompassEntries, progress.EntriesGoal)},
			Counts:        counts,
			Recent:        recent,
		}, nil
	})
	if err != nil {
		h.fail(w, r, err, "Не вдалося завантажити огляд")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Achievements lists every badge with the user's progress towards it.
func (h *StatsHandler) Achievements(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	today, err := h.today(r)
	if err != nil {
		h.fail(w, r, err, msgLoadFailed)
		return
	}
	key := cache.StatsPrefix(uid) + "achievements:" + today.String()
	var list []progress.Achievement
	v, err := h.cached(r.Context(), key, &list, func() (any, error) {
		entries, err := h.stats.CompassEntries(r.Context(), uid, store.EntryFilter{To: today})
		if err != nil {
			return nil, err
		}
		return progress.Achievements(entries), nil
	})
	if err != nil {
		h.fail(w, r, err, "Не вдалося завантажити досягнення")
		return
	}
	writeJSON(w, http.StatusOK, v)
}
