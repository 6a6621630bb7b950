package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"kompas/internal/models"
)

const photoColumns = `id, user_id, month, year, photo_url, storage_key, caption, created_at, updated_at`

// MonthlyPhotos lists photos newest month first.
func (s *Store) MonthlyPhotos(ctx context.Context, userID uuid.UUID) ([]models.MonthlyPhoto, error) {
	list := []models.MonthlyPhoto{}
	err := s.db.SelectContext(ctx, &list, `SELECT `+photoColumns+` FROM monthly_photos WHERE user_id = $1 ORDER BY year DESC, month DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("select photos: %w", err)
	}
	return list, nil
}

// UpsertMonthlyPhoto records the photo of a month. previousKey is the
// storage key the row pointed to before, empty when the month was new, so
// the caller can remove a replaced object.
func (s *Store) UpsertMonthlyPhoto(ctx context.Context, userID uuid.UUID, p models.MonthlyPhoto) (saved models.MonthlyPhoto, previousKey string, err error) {
	var old string
	err = s.db.GetContext(ctx, &old, `SELECT storage_key FROM monthly_photos WHERE user_id = $1 AND year = $2 AND month = $3`, userID, p.Year, p.Month)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return models.MonthlyPhoto{}, "", fmt.Errorf("select photo: %w", err)
	}

	err = s.db.QueryRowxContext(ctx, `
		INSERT INTO monthly_photos (user_id, month, year, photo_url, storage_key, caption)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, year, month)
		DO UPDATE SET photo_url = EXCLUDED.photo_url, storage_key = EXCLUDED.storage_key,
		              caption = EXCLUDED.caption, updated_at = NOW()
		RETURNING `+photoColumns,
		userID, p.Month, p.Year, p.PhotoURL, p.StorageKey, p.Caption).StructScan(&saved)
	if err != nil {
		return models.MonthlyPhoto{}, "", translate(err)
	}
	if old == saved.StorageKey {
		old = ""
	}
	return saved, old, nil
}

// DeleteMonthlyPhoto removes the row and returns it so the stored object
// can be deleted too.
func (s *Store) DeleteMonthlyPhoto(ctx context.Context, userID, id uuid.UUID) (models.MonthlyPhoto, error) {
	var p models.MonthlyPhoto
	err := s.db.QueryRowxContext(ctx, `DELETE FROM monthly_photos WHERE id = $1 AND user_id = $2 RETURNING `+photoColumns, id, userID).StructScan(&p)
	if err != nil {
		return models.MonthlyPhoto{}, translate(err)
	}
	return p, nil
}
