package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"kompas/internal/models"
)

const firstTimeColumns = `id, user_id, title, date, why_recorded, what_changed, how_use_experience,
	what_proud_improve, emotions, created_at, updated_at`

func (s *Store) FirstTimes(ctx context.Context, userID uuid.UUID) ([]models.FirstTime, error) {
	list := []models.FirstTime{}
	err := s.db.SelectContext(ctx, &list, `SELECT `+firstTimeColumns+` FROM first_times WHERE user_id = $1 ORDER BY date DESC, created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("select first times: %w", err)
	}
	return list, nil
}

func (s *Store) CreateFirstTime(ctx context.Context, userID uuid.UUID, ft models.FirstTime) (models.FirstTime, error) {
	var out models.FirstTime
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO first_times (user_id, title, date, why_recorded, what_changed, how_use_experience, what_proud_improve, emotions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+firstTimeColumns,
		userID, ft.Title, ft.Date, ft.WhyRecorded, ft.WhatChanged, ft.HowUseExperience, ft.WhatProudImprove, ft.Emotions,
	).StructScan(&out)
	if err != nil {
		return models.FirstTime{}, translate(err)
	}
	return out, nil
}

func (s *Store) UpdateFirstTime(ctx context.Context, userID, id uuid.UUID, ft models.FirstTime) (models.FirstTime, error) {
	var out models.FirstTime
	err := s.db.QueryRowxContext(ctx, `
		UPDATE first_times
		SET title = $3, date = $4, why_recorded = $5, what_changed = $6, how_use_experience = $7,
		    what_proud_improve = $8, emotions = $9, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+firstTimeColumns,
		id, userID, ft.Title, ft.Date, ft.WhyRecorded, ft.WhatChanged, ft.HowUseExperience, ft.WhatProudImprove, ft.Emotions,
	).StructScan(&out)
	if err != nil {
		return models.FirstTime{}, translate(err)
	}
	return out, nil
}

func (s *Store) DeleteFirstTime(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM first_times WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return translate(err)
	}
	return affectedOne(res)
}
