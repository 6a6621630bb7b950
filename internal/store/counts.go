package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Counts is the number of rows a user has in each collection.
type Counts struct {
	CompassEntries int `json:"compass_entries"`
	Essays         int `json:"essays"`
	FirstTimes     int `json:"first_times"`
	Wishes         int `json:"wishes"`
	MonthlyPhotos  int `json:"monthly_photos"`
	FitnessTests   int `json:"fitness_tests"`
	EnglishTests   int `json:"english_tests"`
	Actions        int `json:"actions"`
}

// Counts runs one COUNT per collection in parallel.
func (s *Store) Counts(ctx context.Context, userID uuid.UUID) (Counts, error) {
	var c Counts
	targets := []struct {
		table string
		dst   *int
	}{
		{"compass_entries", &c.CompassEntries},
		{"essays", &c.Essays},
		{"first_times", &c.FirstTimes},
		{"wishes", &c.Wishes},
		{"monthly_photos", &c.MonthlyPhotos},
		{"fitness_tests", &c.FitnessTests},
		{"english_tests", &c.EnglishTests},
		{"actions", &c.Actions},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range targets {
		g.Go(func() error {
			if err := s.db.GetContext(gctx, t.dst, `SELECT COUNT(*) FROM `+t.table+` WHERE user_id = $1`, userID); err != nil {
				return fmt.Errorf("count %s: %w", t.table, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Counts{}, err
	}
	return c, nil
}
