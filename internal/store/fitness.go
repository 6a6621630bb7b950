package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"kompas/internal/models"
)

const fitnessColumns = `id, user_id, test_number, date, run_2400m_seconds, pushups, abs, long_jump_cm,
	run_40m_seconds::float8 AS run_40m_seconds, created_at, updated_at`

func (s *Store) FitnessTests(ctx context.Context, userID uuid.UUID) ([]models.FitnessTest, error) {
	list := []models.FitnessTest{}
	if err := s.db.SelectContext(ctx, &list, `SELECT `+fitnessColumns+` FROM fitness_tests WHERE user_id = $1 ORDER BY test_number`, userID); err != nil {
		return nil, fmt.Errorf("select fitness tests: %w", err)
	}
	return list, nil
}

// UpsertFitnessTest stores the results of one of the four checkpoints.
func (s *Store) UpsertFitnessTest(ctx context.Context, userID uuid.UUID, t models.FitnessTest) (models.FitnessTest, error) {
	var out models.FitnessTest
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO fitness_tests (user_id, test_number, date, run_2400m_seconds, pushups, abs, long_jump_cm, run_40m_seconds)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, test_number)
		DO UPDATE SET date = EXCLUDED.date, run_2400m_seconds = EXCLUDED.run_2400m_seconds,
		              pushups = EXCLUDED.pushups, abs = EXCLUDED.abs, long_jump_cm = EXCLUDED.long_jump_cm,
		              run_40m_seconds = EXCLUDED.run_40m_seconds, updated_at = NOW()
		RETURNING `+fitnessColumns,
		userID, t.TestNumber, t.Date, t.Run2400mSeconds, t.Pushups, t.Abs, t.LongJumpCm, t.Run40mSeconds,
	).StructScan(&out)
	if err != nil {
		return models.FitnessTest{}, translate(err)
	}
	return out, nil
}

func (s *Store) DeleteFitnessTest(ctx context.Context, userID uuid.UUID, testNumber int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM fitness_tests WHERE user_id = $1 AND test_number = $2`, userID, testNumber)
	if err != nil {
		return translate(err)
	}
	return affectedOne(res)
}
