package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"kompas/internal/models"
)

const userColumns = `id, email, email_blind_index, password_hash, google_subject, created_at`

// NewUser is what sign-up knows about a user before it exists.
type NewUser struct {
	Email         string
	PasswordHash  *string
	GoogleSubject *string
	FullName      *string
	AvatarURL     *string
}

// CreateUser inserts the user and an empty profile in one transaction.
// A second account for the same email fails with ErrConflict.
func (s *Store) CreateUser(ctx context.Context, nu NewUser) (models.User, error) {
	u := models.User{Email: nu.Email, PasswordHash: nu.PasswordHash, GoogleSubject: nu.GoogleSubject}
	if err := s.enc.EncryptUser(&u); err != nil {
		return models.User{}, fmt.Errorf("encrypt user: %w", err)
	}

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO users (email, email_blind_index, password_hash, google_subject)
			VALUES ($1, $2, $3, $4)
			RETURNING `+userColumns,
			u.Email, u.EmailBlindIndex, u.PasswordHash, u.GoogleSubject).StructScan(&u)
		if err != nil {
			return translate(err)
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO profiles (user_id, full_name, avatar_url) VALUES ($1, $2, $3)`,
			u.ID, nu.FullName, nu.AvatarURL)
		return translate(err)
	})
	if err != nil {
		return models.User{}, err
	}
	if err := s.enc.DecryptUser(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE email_blind_index = $1`, s.enc.EmailBlindIndex(email))
}

func (s *Store) UserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (s *Store) UserByGoogleSubject(ctx context.Context, sub string) (models.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE google_subject = $1`, sub)
}

// LinkGoogleSubject attaches a Google account to an existing user.
func (s *Store) LinkGoogleSubject(ctx context.Context, userID uuid.UUID, sub string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET google_subject = $2 WHERE id = $1`, userID, sub)
	if err != nil {
		return translate(err)
	}
	return affectedOne(res)
}

func (s *Store) getUser(ctx context.Context, query string, arg any) (models.User, error) {
	var u models.User
	if err := s.db.GetContext(ctx, &u, query, arg); err != nil {
		return models.User{}, translate(err)
	}
	if err := s.enc.DecryptUser(&u); err != nil {
		return models.User{}, fmt.Errorf("decrypt user: %w", err)
	}
	return u, nil
}
