// Package jobs runs background maintenance next to the HTTP server.
package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kompas/internal/cache"
	"kompas/internal/models"
)

type StreakStore interface {
	StaleStreaks(ctx context.Context, since models.Date) ([]uuid.UUID, error)
	RecalculateProfile(ctx context.Context, userID uuid.UUID, today models.Date) error
}

// StreakRefresher resets streaks that broke without a write. A streak is
// stored when an entry changes, so a user who stops writing keeps the old
// number until this job recomputes it.
type StreakRefresher struct {
	Store    StreakStore
	Cache    cache.Cache
	Location *time.Location
	Interval time.Duration
	Log      *zap.Logger
	Now      func() time.Time
}

func (s *StreakRefresher) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick does one pass and returns how many profiles were refreshed.
func (s *StreakRefresher) Tick(ctx context.Context) int {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	today := models.NewDate(now().In(loc))

	ids, err := s.Store.StaleStreaks(ctx, today.AddDays(-1))
	if err != nil {
		s.Log.Error("streak refresh: list stale profiles", zap.Error(err))
		return 0
	}

	refreshed := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		if err := s.Store.RecalculateProfile(ctx, id, today); err != nil {
			s.Log.Warn("streak refresh failed", zap.String("user_id", id.String()), zap.Error(err))
			continue
		}
		if s.Cache != nil {
			if err := s.Cache.DeletePrefix(ctx, cache.StatsPrefix(id)); err != nil {
				s.Log.Warn("streak refresh: cache invalidation failed", zap.String("user_id", id.String()), zap.Error(err))
			}
		}
		refreshed++
	}
	if len(ids) > 0 {
		s.Log.Info("streaks refreshed", zap.Int("stale", len(ids)), zap.Int("refreshed", refreshed))
	}
	return refreshed
}
