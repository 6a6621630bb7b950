package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"kompas/internal/models"
)

const essayColumns = `id, user_id, topic_id, content, character_count, created_at, updated_at`

// EssayTopics lists the shared topics, nearest deadline first.
func (s *Store) EssayTopics(ctx context.Context) ([]models.EssayTopic, error) {
	topics := []models.EssayTopic{}
	if err := s.db.SelectContext(ctx, &topics, `SELECT id, title, deadline, created_at FROM essay_topics ORDER BY deadline ASC, title ASC`); err != nil {
		return nil, fmt.Errorf("select topics: %w", err)
	}
	return topics, nil
}

func (s *Store) Essays(ctx context.Context, userID uuid.UUID) ([]models.Essay, error) {
	essays := []models.Essay{}
	if err := s.db.SelectContext(ctx, &essays, `SELECT `+essayColumns+` FROM essays WHERE user_id = $1 ORDER BY updated_at DESC`, userID); err != nil {
		return nil, fmt.Errorf("select essays: %w", err)
	}
	for i := range essays {
		if err := s.enc.DecryptEssay(&essays[i]); err != nil {
			return nil, fmt.Errorf("decrypt essay: %w", err)
		}
	}
	return essays, nil
}

// UpsertEssay stores the user's essay for a topic. charCount is the
// validated length of the plaintext. An unknown topic is ErrNotFound.
func (s *Store) UpsertEssay(ctx context.Context, userID, topicID uuid.UUID, content string, charCount int) (models.Essay, error) {
	e := models.Essay{Content: content}
	if err := s.enc.EncryptEssay(&e); err != nil {
		return models.Essay{}, fmt.Errorf("encrypt essay: %w", err)
	}
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO essays (user_id, topic_id, content, character_count)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, topic_id)
		DO UPDATE SET content = EXCLUDED.content, character_count = EXCLUDED.character_count, updated_at = NOW()
		RETURNING `+essayColumns,
		userID, topicID, e.Content, charCount).StructScan(&e)
	if err != nil {
		return models.Essay{}, translate(err)
	}
	e.Content = content
	return e, nil
}

func (s *Store) DeleteEssay(ctx context.Context, userID, topicID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM essays WHERE user_id = $1 AND topic_id = $2`, userID, topicID)
	if err != nil {
		return translate(err)
	}
	return affectedOne(res)
}
