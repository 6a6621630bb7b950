package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"kompas/internal/models"
)

// MaxWishes is the size of a user's wish list.
const MaxWishes = 100

const wishColumns = `id, user_id, order_number, wish, created_at, updated_at`

func (s *Store) Wishes(ctx context.Context, userID uuid.UUID) ([]models.Wish, error) {
	list := []models.Wish{}
	if err := s.db.SelectContext(ctx, &list, `SELECT `+wishColumns+` FROM wishes WHERE user_id = $1 ORDER BY order_number`, userID); err != nil {
		return nil, fmt.Errorf("select wishes: %w", err)
	}
	return list, nil
}

// NextWishNumber returns the smallest free order number, or ErrLimitReached
// when the list is full.
func (s *Store) NextWishNumber(ctx context.Context, userID uuid.UUID) (int, error) {
	return nextWishNumber(ctx, s.db, userID)
}

func nextWishNumber(ctx context.Context, q sqlx.QueryerContext, userID uuid.UUID) (int, error) {
	var next int
	err := sqlx.GetContext(ctx, q, &next, `
		SELECT COALESCE(MIN(n), 0)
		FROM generate_series(1, $2::int) AS n
		WHERE NOT EXISTS (SELECT 1 FROM wishes w WHERE w.user_id = $1 AND w.order_number = n)`,
		userID, MaxWishes)
	if err != nil {
		return 0, fmt.Errorf("next wish number: %w", err)
	}
	if next == 0 {
		return 0, ErrLimitReached
	}
	return next, nil
}

// CreateWish appends a wish. A nil orderNumber takes the next free number.
// The list holds at most MaxWishes entries; the check and the insert run
// under the profile lock so concurrent requests cannot overshoot it.
func (s *Store) CreateWish(ctx context.Context, userID uuid.UUID, orderNumber *int, text string) (models.Wish, error) {
	var out models.Wish
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := lockProfile(ctx, tx, userID); err != nil {
			return err
		}
		var count int
		if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM wishes WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("count wishes: %w", err)
		}
		if count >= MaxWishes {
			return ErrLimitReached
		}

		number := 0
		if orderNumber != nil {
			number = *orderNumber
		} else {
			n, err := nextWishNumber(ctx, tx, userID)
			if err != nil {
				return err
			}
			number = n
		}

		err := tx.QueryRowxContext(ctx, `
			INSERT INTO wishes (user_id, order_number, wish) VALUES ($1, $2, $3)
			RETURNING `+wishColumns, userID, number, text).StructScan(&out)
		return translate(err)
	})
	if err != nil {
		return models.Wish{}, err
	}
	return out, nil
}

func (s *Store) UpdateWish(ctx context.Context, userID, id uuid.UUID, orderNumber int, text string) (models.Wish, error) {
	var out models.Wish
	err := s.db.QueryRowxContext(ctx, `
		UPDATE wishes SET order_number = $3, wish = $4, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+wishColumns, id, userID, orderNumber, text).StructScan(&out)
	if err != nil {
		return models.Wish{}, translate(err)
	}
	return out, nil
}

func (s *Store) DeleteWish(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM wishes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return translate(err)
	}
	return affectedOne(res)
}
