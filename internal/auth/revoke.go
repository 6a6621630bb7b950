package auth

import (
	"context"
	"errors"
	"time"

	"kompas/internal/cache"
)

const revokedPrefix = "jwt:revoked:"

// Revoker remembers signed-out token ids until the tokens would expire
// anyway.
type Revoker struct {
	c cache.Cache
}

func NewRevoker(c cache.Cache) *Revoker {
	return &Revoker{c: c}
}

func (r *Revoker) Revoke(ctx context.Context, claims Claims) error {
	if claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return r.c.Set(ctx, revokedPrefix+claims.ID, []byte("1"), ttl)
}

func (r *Revoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	_, err := r.c.Get(ctx, revokedPrefix+tokenID)
	if errors.Is(err, cache.ErrMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
