package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kompas/internal/auth"
	"kompas/internal/middleware"
	"kompas/internal/models"
	"kompas/internal/store"
	"kompas/internal/validate"
)

type UserStore interface {
	CreateUser(ctx context.Context, nu store.NewUser) (models.User, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (models.User, error)
	UserByGoogleSubject(ctx context.Context, sub string) (models.User, error)
	LinkGoogleSubject(ctx context.Context, userID uuid.UUID, sub string) error
}

type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, auth.Claims, error)
}

type TokenRevoker interface {
	Revoke(ctx context.Context, claims auth.Claims) error
}

type GoogleSignIn interface {
	AuthCodeURL(ctx context.Context) (string, error)
	Exchange(ctx context.Context, state, code string) (auth.GoogleUser, error)
}

type AuthHandler struct {
	Shared
	users       UserStore
	tokens      TokenIssuer
	revoker     TokenRevoker
	google      GoogleSignIn
	frontendURL string
}

// NewAuthHandler builds the sign-in endpoints. google may be nil when Google
// sign-in is not configured.
func NewAuthHandler(sh Shared, users UserStore, tokens TokenIssuer, revoker TokenRevoker, google GoogleSignIn, frontendURL string) *AuthHandler {
	return &AuthHandler{Shared: sh, users: users, tokens: tokens, revoker: revoker, google: google, frontendURL: frontendURL}
}

type credentials struct {
	Email    string  `json:"email" validate:"required,email,max=254"`
	Password string  `json:"password" validate:"required,min=6,max=72"`
	FullName *string `json:"full_name" validate:"omitempty,max=200"`
}

type tokenResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      userSummary `json:"user"`
}

type userSummary struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

func (h *AuthHandler) issue(u models.User) (tokenResponse, error) {
	token, claims, err := h.tokens.Issue(u.ID)
	if err != nil {
		return tokenResponse{}, err
	}
	return tokenResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      userSummary{ID: u.ID, Email: u.Email},
	}, nil
}

// Signup godoc
// @Summary Register with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param body body credentials true "Credentials"
// @Success 201 {object} tokenResponse
// @Failure 400 {object} errorBody
// @Failure 409 {object} errorBody
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := decodeJSON(w, r, &c); err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	if err := validate.Struct(c); err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}

	hashed, err := auth.HashPassword(c.Password)
	if err != nil {
		h.fail(w, r, err, "Не вдалося створити обліковий запис")
		return
	}
	u, err := h.users.CreateUser(r.Context(), store.NewUser{
		Email:        c.Email,
		PasswordHash: &hashed,
		FullName:     cleanOptional(c.FullName),
	})
	if errors.Is(err, store.ErrConflict) {
		writeError(w, http.StatusConflict, "Користувач з таким email вже існує")
		return
	}
	if err != nil {
		h.fail(w, r, err, "Не вдалося створити обліковий запис")
		return
	}

	resp, err := h.issue(u)
	if err != nil {
		h.fail(w, r, err, "Не вдалося створити сесію")
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Login godoc
// @Summary Sign in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} tokenResponse
// @Failure 401 {object} errorBody
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := decodeJSON(w, r, &c); err != nil {
		h.fail(w, r, err, msgLoadFailed)
		return
	}
	if c.Email == "" || c.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Вкажіть email і пароль"})
		return
	}

	u, err := h.users.UserByEmail(r.Context(), c.Email)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "Невірний email або пароль")
		return
	}
	if err != nil {
		h.fail(w, r, err, "Не вдалося увійти")
		return
	}
	if auth.CheckPassword(u.PasswordHash, c.Password) != nil {
		writeError(w, http.StatusUnauthorized, "Невірний email або пароль")
		return
	}

	resp, err := h.issue(u)
	if err != nil {
		h.fail(w, r, err, "Не вдалося створити сесію")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GoogleStart redirects to the Google consent screen.
func (h *AuthHandler) GoogleStart(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeError(w, http.StatusNotFound, "Вхід через Google не налаштовано")
		return
	}
	target, err := h.google.AuthCodeURL(r.Context())
	if err != nil {
		h.fail(w, r, err, "Не вдалося розпочати вхід через Google")
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// GoogleCallback finishes the Google sign-in. An account with the same email
// gets the Google identity linked; otherwise a new one is created.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeError(w, http.StatusNotFound, "Вхід через Google не налаштовано")
		return
	}
	q := r.URL.Query()
	gu, err := h.google.Exchange(r.Context(), q.Get("state"), q.Get("code"))
	if errors.Is(err, auth.ErrInvalidState) {
		writeError(w, http.StatusBadRequest, "Недійсний або прострочений запит входу")
		return
	}
	if err != nil {
		h.fail(w, r, err, "Не вдалося увійти через Google")
		return
	}

	u, err := h.googleUser(r.Context(), gu)
	if err != nil {
		h.fail(w, r, err, "Не вдалося увійти через Google")
		return
	}
	resp, err := h.issue(u)
	if err != nil {
		h.fail(w, r, err, "Не вдалося створити сесію")
		return
	}
	h.Log.Info("google sign-in", zap.String("user_id", u.ID.String()))

	if h.frontendURL == "" {
		writeJSON(w, http.StatusOK, resp)
		return
	}
	frag := url.Values{}
	frag.Set("token", resp.Token)
	frag.Set("expires_at", strconv.FormatInt(resp.ExpiresAt.Unix(), 10))
	http.Redirect(w, r, h.frontendURL+"/auth/callback#"+frag.Encode(), http.StatusFound)
}

func (h *AuthHandler) googleUser(ctx context.Context, gu auth.GoogleUser) (models.User, error) {
	u, err := h.users.UserByGoogleSubject(ctx, gu.ID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.User{}, err
	}

	u, err = h.users.UserByEmail(ctx, gu.Email)
	switch {
	case err == nil:
		if err := h.users.LinkGoogleSubject(ctx, u.ID, gu.ID); err != nil {
			return models.User{}, err
		}
		return u, nil
	case !errors.Is(err, store.ErrNotFound):
		return models.User{}, err
	}

	nu := store.NewUser{Email: gu.Email, GoogleSubject: &gu.ID}
	if gu.Name != "" {
		nu.FullName = &gu.Name
	}
	if gu.Picture != "" {
		nu.AvatarURL = &gu.Picture
	}
	return h.users.CreateUser(ctx, nu)
}

type sessionResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Session returns the caller's session.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFrom(r.Context())
	u, err := h.users.UserByID(r.Context(), sess.UserID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "Сесія недійсна або завершилась")
		return
	}
	if err != nil {
		h.fail(w, r, err, msgLoadFailed)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{UserID: u.ID, Email: u.Email, ExpiresAt: sess.Claims.ExpiresAt.Time})
}

// Logout revokes the token of the request.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFrom(r.Context())
	if err := h.revoker.Revoke(r.Context(), sess.Claims); err != nil {
		h.fail(w, r, err, "Не вдалося завершити сесію")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
