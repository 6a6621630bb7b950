package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"kompas/internal/auth"
)

type stubRevoked struct {
	ids map[string]bool
	err error
}

func (s stubRevoked) IsRevoked(_ context.Context, id string) (bool, error) {
	return s.ids[id], s.err
}

func TestRequireAuth(t *testing.T) {
	iss := auth.NewIssuer("secret", time.Hour)
	userID := uuid.New()
	token, claims, err := iss.Issue(userID)
	require.NoError(t, err)

	var seen Session
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = SessionFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	cases := []struct {
		name    string
		header  string
		revoked stubRevoked
		want    int
	}{
		{"missing header", "", stubRevoked{}, http.StatusUnauthorized},
		{"bad token", "Bearer nope", stubRevoked{}, http.StatusUnauthorized},
		{"revoked", "Bearer " + token, stubRevoked{ids: map[string]bool{claims.ID: true}}, http.StatusUnauthorized},
		{"cache down", "Bearer " + token, stubRevoked{err: errors.New("redis down")}, http.StatusNoContent},
		{"valid", "Bearer " + token, stubRevoked{}, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen = Session{}
			m := NewAuthMiddleware(iss, tc.revoked, zap.NewNop())
			req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			m.RequireAuth(ok).ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
			if tc.want == http.StatusNoContent {
				assert.Equal(t, userID, seen.UserID)
			} else {
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
				assert.Contains(t, rec.Body.String(), `"error"`)
			}
		})
	}
}

func TestRequestLoggerIncludesUser(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)
	iss := auth.NewIssuer("secret", time.Hour)
	userID := uuid.New()
	token, _, err := iss.Issue(userID)
	require.NoError(t, err)

	h := ZapRequestLogger(log)(NewAuthMiddleware(iss, stubRevoked{}, log).RequireAuth(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }),
	))
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, userID.String(), fields["user_id"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}

func TestRecover(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	h := Recover(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(4)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	// burst is 2
	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.2"))

	now = now.Add(15 * time.Second)
	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
}

func TestRateLimiterSweepsIdleClients(t *testing.T) {
	rl := NewRateLimiter(60)
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start
	rl.now = func() time.Time { return now }
	at := func(d time.Duration, ip string) {
		t.Helper()
		now = start.Add(d)
		require.True(t, rl.allow(ip))
	}

	at(0, "10.0.0.1")
	at(4*time.Minute, "10.0.0.2")
	assert.Len(t, rl.limiters, 2)

	at(5*time.Minute+time.Second, "10.0.0.3")
	assert.NotContains(t, rl.limiters, "10.0.0.1")
	assert.Len(t, rl.limiters, 2)

	// 10.0.0.2 is idle now, but the next sweep is not due yet.
	at(9*time.Minute+30*time.Second, "10.0.0.3")
	assert.Contains(t, rl.limiters, "10.0.0.2")

	at(10*time.Minute+2*time.Second, "10.0.0.3")
	assert.NotContains(t, rl.limiters, "10.0.0.2")
	assert.Len(t, rl.limiters, 1)
}
