package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kompas/internal/auth"
)

type ctxKey string

const (
	sessionKey ctxKey = "session"
	holderKey  ctxKey = "session_holder"
)

// sessionHolder lets the request logger, which wraps RequireAuth, see who
// made the request.
type sessionHolder struct {
	set    bool
	userID string
}

func withSessionHolder(ctx context.Context, h *sessionHolder) context.Context {
	return context.WithValue(ctx, holderKey, h)
}

// Session is the authenticated caller of a request.
type Session struct {
	UserID uuid.UUID
	Claims auth.Claims
}

func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey).(Session)
	return s, ok
}

// WithSession attaches a session to ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthMiddleware struct {
	tokens  TokenVerifier
	revoked RevocationChecker
	log     *zap.Logger
}

func NewAuthMiddleware(tokens TokenVerifier, revoked RevocationChecker, log *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, revoked: revoked, log: log}
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Потрібна авторизація")
			return
		}
		claims, err := m.tokens.Verify(strings.TrimPrefix(authz, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Сесія недійсна або завершилась")
			return
		}
		revoked, err := m.revoked.IsRevoked(r.Context(), claims.ID)
		if err != nil {
			// A cache outage does not lock signed-in users out.
			m.log.Warn("revocation check failed", zap.Error(err))
		}
		if revoked {
			writeError(w, http.StatusUnauthorized, "Сесія недійсна або завершилась")
			return
		}
		userID, _ := claims.UserID()
		if h, ok := r.Context().Value(holderKey).(*sessionHolder); ok {
			h.set, h.userID = true, userID.String()
		}
		ctx := WithSession(r.Context(), Session{UserID: userID, Claims: claims})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
