package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"kompas/internal/models"
	"kompas/internal/progress"
)

const profileSelect = `
	SELECT p.user_id, u.email, p.full_name, p.avatar_url, p.points, p.current_streak,
	       p.total_days, p.last_entry_date, p.created_at, p.updated_at
	FROM profiles p
	JOIN users u ON u.id = p.user_id
	WHERE p.user_id = $1`

func (s *Store) Profile(ctx context.Context, userID uuid.UUID) (models.Profile, error) {
	var p models.Profile
	if err := s.db.GetContext(ctx, &p, profileSelect, userID); err != nil {
		return models.Profile{}, translate(err)
	}
	if err := s.enc.DecryptProfile(&p); err != nil {
		return models.Profile{}, fmt.Errorf("decrypt profile: %w", err)
	}
	return p, nil
}

func (s *Store) UpdateProfileName(ctx context.Context, userID uuid.UUID, fullName *string) (models.Profile, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE profiles SET full_name = $2, updated_at = NOW() WHERE user_id = $1`, userID, fullName)
	if err != nil {
		return models.Profile{}, translate(err)
	}
	if err := affectedOne(res); err != nil {
		return models.Profile{}, err
	}
	return s.Profile(ctx, userID)
}

func (s *Store) SetAvatarURL(ctx context.Context, userID uuid.UUID, url string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE profiles SET avatar_url = $2, updated_at = NOW() WHERE user_id = $1`, userID, url)
	if err != nil {
		return translate(err)
	}
	return affectedOne(res)
}

// entryStat is the slice of an entry the profile aggregates need.
type entryStat struct {
	Date         models.Date `db:"date"`
	PointsEarned *int        `db:"points_earned"`
}

// recalculateProfile recomputes points, streak and day count from all
// entries of the user. The caller holds the profile lock.
func recalculateProfile(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, today models.Date) error {
	var rows []entryStat
	if err := tx.SelectContext(ctx, &rows, `SELECT date, points_earned FROM compass_entries WHERE user_id = $1 ORDER BY date DESC`, userID); err != nil {
		return fmt.Errorf("load entry stats: %w", err)
	}
	entries := make([]models.CompassEntry, len(rows))
	for i, r := range rows {
		entries[i] = models.CompassEntry{Date: r.Date, PointsEarned: r.PointsEarned}
	}

	_, err := tx.ExecContext(ctx, `
		UPDATE profiles
		SET points = $2, current_streak = $3, total_days = $4, last_entry_date = $5, updated_at = NOW()
		WHERE user_id = $1`,
		userID,
		progress.TotalPoints(entries),
		progress.StreakOf(entries, today),
		progress.TotalDays(entries),
		progress.LastEntryDate(entries),
	)
	if err != nil {
		return fmt.Errorf("update profile aggregates: %w", err)
	}
	return nil
}

// RecalculateProfile refreshes the stored aggregates of one user as of today.
func (s *Store) RecalculateProfile(ctx context.Context, userID uuid.UUID, today models.Date) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := lockProfile(ctx, tx, userID); err != nil {
			return err
		}
		return recalculateProfile(ctx, tx, userID, today)
	})
}

// StaleStreaks lists users whose stored streak claims activity although
// their last entry is older than since.
func (s *Store) StaleStreaks(ctx context.Context, since models.Date) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.SelectContext(ctx, &ids, `
		SELECT user_id FROM profiles
		WHERE current_streak > 0 AND (last_entry_date IS NULL OR last_entry_date < $1)
		ORDER BY user_id`, since)
	if err != nil {
		return nil, fmt.Errorf("select stale streaks: %w", err)
	}
	return ids, nil
}
