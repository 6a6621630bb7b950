package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"kompas/internal/models"
	"kompas/internal/progress"
)

const englishColumns = `id, user_id, test_number, date, grammar, vocabulary, reading, listening, created_at, updated_at`

func (s *Store) EnglishTests(ctx context.Context, userID uuid.UUID) ([]models.EnglishTest, error) {
	list := []models.EnglishTest{}
	if err := s.db.SelectContext(ctx, &list, `SELECT `+englishColumns+` FROM english_tests WHERE user_id = $1 ORDER BY test_number`, userID); err != nil {
		return nil, fmt.Errorf("select english tests: %w", err)
	}
	for i := range list {
		list[i].Average = progress.EnglishAverage(list[i])
	}
	return list, nil
}

func (s *Store) UpsertEnglishTest(ctx context.Context, userID uuid.UUID, t models.EnglishTest) (models.EnglishTest, error) {
	var out models.EnglishTest
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO english_tests (user_id, test_number, date, grammar, vocabulary, reading, listening)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, test_number)
		DO UPDATE SET date = EXCLUDED.date, grammar = EXCLUDED.grammar, vocabulary = EXCLUDED.vocabulary,
		              reading = EXCLUDED.reading, listening = EXCLUDED.listening, updated_at = NOW()
		RETURNING `+englishColumns,
		userID, t.TestNumber, t.Date, t.Grammar, t.Vocabulary, t.Reading, t.Listening,
	).StructScan(&out)
	if err != nil {
		return models.EnglishTest{}, translate(err)
	}
	out.Average = progress.EnglishAverage(out)
	return out, nil
}

func (s *Store) DeleteEnglishTest(ctx context.Context, userID uuid.UUID, testNumber int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM english_tests WHERE user_id = $1 AND test_number = $2`, userID, testNumber)
	if err != nil {
		return translate(err)
	}
	return affectedOne(res)
}
