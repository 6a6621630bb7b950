package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"kompas/internal/models"
	"kompas/internal/progress"
)

const compassColumns = `id, user_id, date, physical_activity, physical_description, emotion, emotion_emoji,
	intellectual_activity, intellectual_description, thought_of_day, event_of_day, person_of_day,
	gratitude_of_day, value_of_day, points_earned, created_at, updated_at`

// EntryFilter narrows a compass listing. Zero values mean no bound.
type EntryFilter struct {
	From  models.Date
	To    models.Date
	Limit int
}

// UpsertCompassEntry writes the entry for e.Date, replacing an existing one
// for the same day, and recomputes the profile aggregates in the same
// transaction. created reports whether a new row was inserted.
func (s *Store) UpsertCompassEntry(ctx context.Context, userID uuid.UUID, e models.CompassEntry, today models.Date) (saved models.CompassEntry, created bool, err error) {
	sealed := e
	if sealed.PointsEarned == nil {
		pts := progress.DefaultPoints
		sealed.PointsEarned = &pts
	}
	if err := s.enc.EncryptCompassEntry(&sealed); err != nil {
		return models.CompassEntry{}, false, fmt.Errorf("encrypt entry: %w", err)
	}

	var row struct {
		models.CompassEntry
		Inserted bool `db:"inserted"`
	}
	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := lockProfile(ctx, tx, userID); err != nil {
			return err
		}
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO compass_entries (
				user_id, date, physical_activity, physical_description, emotion, emotion_emoji,
				intellectual_activity, intellectual_description, thought_of_day, event_of_day,
				person_of_day, gratitude_of_day, value_of_day, points_earned
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (user_id, date)
			DO UPDATE SET
				physical_activity = EXCLUDED.physical_activity,
				physical_description = EXCLUDED.physical_description,
				emotion = EXCLUDED.emotion,
				emotion_emoji = EXCLUDED.emotion_emoji,
				intellectual_activity = EXCLUDED.intellectual_activity,
				intellectual_description = EXCLUDED.intellectual_description,
				thought_of_day = EXCLUDED.thought_of_day,
				event_of_day = EXCLUDED.event_of_day,
				person_of_day = EXCLUDED.person_of_day,
				gratitude_of_day = EXCLUDED.gratitude_of_day,
				value_of_day = EXCLUDED.value_of_day,
				points_earned = EXCLUDED.points_earned,
				updated_at = NOW()
			RETURNING `+compassColumns+`, (xmax = 0) AS inserted`,
			userID, sealed.Date, sealed.PhysicalActivity, sealed.PhysicalDescription, sealed.Emotion,
			sealed.EmotionEmoji, sealed.IntellectualActivity, sealed.IntellectualDescription,
			sealed.ThoughtOfDay, sealed.EventOfDay, sealed.PersonOfDay, sealed.GratitudeOfDay,
			sealed.ValueOfDay, sealed.PointsEarned,
		).StructScan(&row)
		if err != nil {
			return translate(err)
		}
		return recalculateProfile(ctx, tx, userID, today)
	})
	if err != nil {
		return models.CompassEntry{}, false, err
	}

	saved = row.CompassEntry
	if err := s.enc.DecryptCompassEntry(&saved); err != nil {
		return models.CompassEntry{}, false, fmt.Errorf("decrypt entry: %w", err)
	}
	return saved, row.Inserted, nil
}

func (s *Store) CompassEntry(ctx context.Context, userID uuid.UUID, date models.Date) (models.CompassEntry, error) {
	var e models.CompassEntry
	err := s.db.GetContext(ctx, &e, `SELECT `+compassColumns+` FROM compass_entries WHERE user_id = $1 AND date = $2`, userID, date)
	if err != nil {
		return models.CompassEntry{}, translate(err)
	}
	if err := s.enc.DecryptCompassEntry(&e); err != nil {
		return models.CompassEntry{}, fmt.Errorf("decrypt entry: %w", err)
	}
	return e, nil
}

// CompassEntries lists entries newest first.
func (s *Store) CompassEntries(ctx context.Context, userID uuid.UUID, f EntryFilter) ([]models.CompassEntry, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	if !f.From.IsZero() {
		args = append(args, f.From)
		where = append(where, "date >= $"+strconv.Itoa(len(args)))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		where = append(where, "date <= $"+strconv.Itoa(len(args)))
	}
	query := `SELECT ` + compassColumns + ` FROM compass_entries WHERE ` + strings.Join(where, " AND ") + ` ORDER BY date DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}

	entries := []models.CompassEntry{}
	if err := s.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("select entries: %w", err)
	}
	for i := range entries {
		if err := s.enc.DecryptCompassEntry(&entries[i]); err != nil {
			return nil, fmt.Errorf("decrypt entry: %w", err)
		}
	}
	return entries, nil
}

// DeleteCompassEntry removes the entry of one day and recomputes the
// profile aggregates.
func (s *Store) DeleteCompassEntry(ctx context.Context, userID uuid.UUID, date, today models.Date) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := lockProfile(ctx, tx, userID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM compass_entries WHERE user_id = $1 AND date = $2`, userID, date)
		if err != nil {
			return translate(err)
		}
		if err := affectedOne(res); err != nil {
			return err
		}
		return recalculateProfile(ctx, tx, userID, today)
	})
}
