package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"kompas/internal/models"
)

const actionColumns = `id, user_id, title, activity_type, date, time_spent, work_done, emotions, insights, created_at, updated_at`

// Actions lists the user's actions newest first. An empty activityType
// lists every type.
func (s *Store) Actions(ctx context.Context, userID uuid.UUID, activityType string) ([]models.Action, error) {
	list := []models.Action{}
	query := `SELECT ` + actionColumns + ` FROM actions WHERE user_id = $1`
	args := []any{userID}
	if activityType != "" {
		query += ` AND activity_type = $2`
		args = append(args, activityType)
	}
	query += ` ORDER BY date DESC, created_at DESC`
	if err := s.db.SelectContext(ctx, &list, query, args...); err != nil {
		return nil, fmt.Errorf("select actions: %w", err)
	}
	return list, nil
}

func (s *Store) CreateAction(ctx context.Context, userID uuid.UUID, a models.Action) (models.Action, error) {
	var out models.Action
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO actions (user_id, title, activity_type, date, time_spent, work_done, emotions, insights)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+actionColumns,
		userID, a.Title, a.ActivityType, a.Date, a.TimeSpent, a.WorkDone, a.Emotions, a.Insights,
	).StructScan(&out)
	if err != nil {
		return models.Action{}, translate(err)
	}
	return out, nil
}

func (s *Store) UpdateAction(ctx context.Context, userID, id uuid.UUID, a models.Action) (models.Action, error) {
	var out models.Action
	err := s.db.QueryRowxContext(ctx, `
		UPDATE actions
		SET title = $3, activity_type = $4, date = $5, time_spent = $6, work_done = $7,
		    emotions = $8, insights = $9, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+actionColumns,
		id, userID, a.Title, a.ActivityType, a.Date, a.TimeSpent, a.WorkDone, a.Emotions, a.Insights,
	).StructScan(&out)
	if err != nil {
		return models.Action{}, translate(err)
	}
	return out, nil
}

func (s *Store) DeleteAction(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM actions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return translate(err)
	}
	return affectedOne(res)
}

// ActionTotals sums the time spent per activity type.
func (s *Store) ActionTotals(ctx context.Context, userID uuid.UUID) ([]models.ActionTotal, error) {
	totals := []models.ActionTotal{}
	err := s.db.SelectContext(ctx, &totals, `
		SELECT activity_type, COUNT(*) AS count, COALESCE(SUM(time_spent), 0) AS minutes
		FROM actions
		WHERE user_id = $1
		GROUP BY activity_type
		ORDER BY minutes DESC, activity_type`, userID)
	if err != nil {
		return nil, fmt.Errorf("sum actions: %w", err)
	}
	return totals, nil
}
