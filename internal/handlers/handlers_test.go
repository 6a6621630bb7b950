package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kompas/internal/auth"
	"kompas/internal/cache"
	"kompas/internal/middleware"
	"kompas/internal/models"
	"kompas/internal/storage"
	"kompas/internal/store"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	t       *testing.T
	router  http.Handler
	store   *fakeStore
	cache   cache.Cache
	issuer  *auth.Issuer
	uploads string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := newFakeStore()
	c := cache.NewMemory()
	issuer := auth.NewIssuer("test-secret", time.Hour)
	revoker := auth.NewRevoker(c)
	log := zap.NewNop()

	dir := t.TempDir()
	avatars, err := storage.NewLocalBucket(dir, "avatars", "http://api.test")
	require.NoError(t, err)
	photos, err := storage.NewLocalBucket(dir, "monthly_photos", "http://api.test")
	require.NoError(t, err)

	sh := Shared{Log: log, Cache: c, CacheTTL: time.Minute, Location: time.UTC, Now: func() time.Time { return fixedNow }}
	router := NewRouter(API{
		Log:         log,
		Health:      st,
		CORSOrigins: []string{"*"},
		UploadDir:   dir,
		Auth:        middleware.NewAuthMiddleware(issuer, revoker, log),
		RateLimit:   middleware.NewRateLimiter(600),
		Users:       NewAuthHandler(sh, st, issuer, revoker, nil, ""),
		Profile:     NewProfileHandler(sh, st, avatars),
		Compass:     NewCompassHandler(sh, st),
		Stats:       NewStatsHandler(sh, st),
		Essays:      NewEssayHandler(sh, st),
		FirstTimes:  NewFirstTimeHandler(sh, st),
		Wishes:      NewWishHandler(sh, st),
		Photos:      NewPhotoHandler(sh, st, photos),
		Fitness:     NewFitnessHandler(sh, st),
		English:     NewEnglishHandler(sh, st),
		Actions:     NewActionHandler(sh, st),
	})
	return &testEnv{t: t, router: router, store: st, cache: c, issuer: issuer, uploads: dir}
}

// signUp creates a user through the store and returns its id and a token.
func (e *testEnv) signUp(email string) (uuid.UUID, string) {
	e.t.Helper()
	u, err := e.store.CreateUser(context.Background(), store.NewUser{Email: email})
	require.NoError(e.t, err)
	tok, _, err := e.issuer.Issue(u.ID)
	require.NoError(e.t, err)
	return u.ID, tok
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(e.t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthAndCatalogArePublic(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/api/catalog", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cat := decode[catalogResponse](t, rec)
	assert.Len(t, cat.ActionTypes, 4)
	assert.NotEmpty(t, cat.Emotions)
	assert.NotEmpty(t, cat.Values)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/api/profile", "/api/compass", "/api/statistics", "/api/wishes", "/api/auth/session"} {
		rec := env.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
	rec := env.do(http.MethodGet, "/api/profile", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignupLoginLogout(t *testing.T) {
	env := newTestEnv(t)
	creds := map[string]string{"email": "Scout@Example.com", "password": "secret1"}

	rec := env.do(http.MethodPost, "/api/auth/signup", "", creds)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	signed := decode[tokenResponse](t, rec)
	assert.NotEmpty(t, signed.Token)
	assert.Equal(t, "scout@example.com", signed.User.Email)

	rec = env.do(http.MethodPost, "/api/auth/signup", "", creds)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(http.MethodPost, "/api/auth/signup", "", map[string]string{"email": "x@example.com", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "password", decode[errorBody](t, rec).Field)

	rec = env.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "scout@example.com", "password": "wrong-one"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "scout@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode[tokenResponse](t, rec).Token

	rec = env.do(http.MethodGet, "/api/auth/session", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "scout@example.com", decode[sessionResponse](t, rec).Email)

	rec = env.do(http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(http.MethodGet, "/api/auth/session", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGoogleDisabled(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/api/auth/google", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompassPut(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signUp("a@example.com")

	body := `{"emotion":"Радість","thought_of_day":"   ","person_of_day":null,"gratitude_of_day":"<b>Мамі</b>"}`
	rec := env.do(http.MethodPut, "/api/compass/2025-03-10", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	e := decode[models.CompassEntry](t, rec)
	require.NotNil(t, e.EmotionEmoji)
	assert.Equal(t, "😊", *e.EmotionEmoji)
	assert.Nil(t, e.ThoughtOfDay)
	assert.Nil(t, e.PersonOfDay)
	require.NotNil(t, e.GratitudeOfDay)
	assert.Equal(t, "Мамі", *e.GratitudeOfDay)
	require.NotNil(t, e.PointsEarned)
	assert.Equal(t, 10, *e.PointsEarned)

	rec = env.do(http.MethodPut, "/api/compass/2025-03-10", token, `{}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/api/compass/2025-03-10", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[models.CompassEntry](t, rec).Emotion)

	cases := []struct {
		name, path, body, field string
	}{
		{"future date", "/api/compass/2025-03-11", `{}`, "date"},
		{"bad date", "/api/compass/10-03-2025", `{}`, "date"},
		{"unknown emotion", "/api/compass/2025-03-09", `{"emotion":"Нудьга"}`, "emotion"},
		{"unknown value", "/api/compass/2025-03-09", `{"value_of_day":"Будь багатим!"}`, "value_of_day"},
		{"negative points", "/api/compass/2025-03-09", `{"points_earned":-1}`, "points_earned"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(http.MethodPut, tc.path, token, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.field, decode[errorBody](t, rec).Field)
		})
	}

	rec = env.do(http.MethodDelete, "/api/compass/2025-03-10", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(http.MethodDelete, "/api/compass/2025-03-10", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFreeTextStoredWithoutMarkup(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signUp("a@example.com")

	body := map[string]string{
		"gratitude_of_day": "&lt;script&gt;alert(1)&lt;/script&gt;Мамі",
		"thought_of_day":   "2 <3 і пам'ять",
	}
	rec := env.do(http.MethodPut, "/api/compass/2025-03-10", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	e := decode[models.CompassEntry](t, rec)
	require.NotNil(t, e.GratitudeOfDay)
	assert.Equal(t, "Мамі", *e.GratitudeOfDay)
	require.NotNil(t, e.ThoughtOfDay)
	assert.Equal(t, "2 <3 і пам'ять", *e.ThoughtOfDay)
}

func TestLocalDateMustBeNearServerDay(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signUp("a@example.com")

	// A client east of the service zone may already be on the next day.
	rec := env.do(http.MethodPut, "/api/compass/2025-03-11?local_date=2025-03-11", token, `{}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(http.MethodGet, "/api/statistics?local_date=2025-03-14", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "local_date", decode[errorBody](t, rec).Field)
}

func TestStatisticsCachedUntilWrite(t *testing.T) {
	env := newTestEnv(t)
	uid, token := env.signUp("a@example.com")
	for _, d := range []string{"2025-03-08", "2025-03-09", "2025-03-10"} {
		rec := env.do(http.MethodPut, "/api/compass/"+d, token, `{"physical_activity":"Йога"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(http.MethodGet, "/api/statistics", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[statisticsResponse](t, rec)
	assert.Equal(t, 30, stats.Window)
	assert.Equal(t, 3, stats.Summary.CurrentStreak)
	assert.Equal(t, 100, stats.Summary.PhysicalPercentage)
	assert.Equal(t, 30, stats.Profile.Points)
	assert.Equal(t, 1, env.store.entryReads)

	rec = env.do(http.MethodGet, "/api/statistics", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, env.store.entryReads, "second read is served from cache")

	rec = env.do(http.MethodDelete, "/api/compass/2025-03-08", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	_, err := env.cache.Get(context.Background(), cache.StatsPrefix(uid)+"statistics:30:2025-03-10")
	assert.ErrorIs(t, err, cache.ErrMiss)

	rec = env.do(http.MethodGet, "/api/statistics?window=1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[statisticsResponse](t, rec).Summary.TotalEntries)

	rec = env.do(http.MethodGet, "/api/statistics?window=0", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatisticsStreakSpansBeyondWindow(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signUp("a@example.com")
	today := models.NewDate(fixedNow)
	for i := 0; i < 40; i++ {
		rec := env.do(http.MethodPut, "/api/compass/"+today.AddDays(-i).String(), token, `{}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := env.do(http.MethodGet, "/api/statistics?window=10", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[statisticsResponse](t, rec)
	assert.Equal(t, 10, stats.Summary.TotalEntries)
	assert.Equal(t, 40, stats.Summary.CurrentStreak)
	assert.Equal(t, 40, stats.Summary.LongestStreak)
	assert.Equal(t, stats.Profile.CurrentStreak, stats.Summary.CurrentStreak)
}

func TestStoredStreakFollowsWriterDay(t *testing.T) {
	env := newTestEnv(t)
	uid, token := env.signUp("a@example.com")
	streak := func() int {
		p, err := env.store.Profile(context.Background(), uid)
		require.NoError(t, err)
		return p.CurrentStreak
	}

	require.Equal(t, http.StatusCreated, env.do(http.MethodPut, "/api/compass/2025-03-09", token, `{}`).Code)
	assert.Equal(t, 1, streak())

	// A client already on the 11th records its today.
	rec := env.do(http.MethodPut, "/api/compass/2025-03-11?local_date=2025-03-11", token, `{}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 1, streak())

	// Written on the server day, the 11th is still ahead and the run ends on the 9th.
	require.Equal(t, http.StatusCreated, env.do(http.MethodPut, "/api/compass/2025-03-08", token, `{}`).Code)
	assert.Equal(t, 2, streak())

	require.Equal(t, http.StatusCreated, env.do(http.MethodPut, "/api/compass/2025-03-10?local_date=2025-03-11", token, `{}`).Code)
	assert.Equal(t, 4, streak())
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signUp("a@example.com")
	require.Equal(t, http.StatusCreated, env.do(http.MethodPut, "/api/compass/2025-03-10", token, `{}`).Code)

	rec := env.do(http.MethodGet, "/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	d := decode[dashboardResponse](t, rec)
	assert.True(t, d.HasTodayEntry)
	assert.Equal(t, 1, d.Counts.CompassEntries)
	assert.Equal(t, goalRatio{Current: 1, Goal: 30, Percent: 3}, d.StreakGoal)
	assert.Len(t, d.Recent, 1)
}

func TestEssayLength(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signUp("a@example.com")
	topic := env.store.topics[0].ID

	rec := env.do(http.MethodPut, "/api/essays/"+topic.String(), token, map[string]string{"content": strings.Repeat("я", 499)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "content", decode[errorBody](t, rec).Field)

	rec = env.do(http.MethodPut, "/api/essays/"+topic.String(), token, map[string]string{"content": "  " + strings.Repeat("я", 500) + "  "})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 500, decode[models.Essay](t, rec).CharacterCount)

	rec = env.do(http.MethodPut, "/api/essays/"+uuid.NewString(), token, map[string]string{"content": strings.Repeat("я", 500)})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodPut, "/api/essays/"+topic.String(), token, map[string]string{"content": strings.Repeat("я", 4001)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWishes(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signUp("a@example.com")

	rec := env.do(http.MethodPost, "/api/wishes", token, map[string]any{"wish": "Побачити море"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, decode[models.Wish](t, rec).OrderNumber)

	rec = env.do(http.MethodPost, "/api/wishes", token, map[string]any{"wish": "Ще раз", "order_number": 1})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(http.MethodPost, "/api/wishes", token, map[string]any{"wish": "Забагато", "order_number": 101})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "order_number", decode[errorBody](t, rec).Field)

	rec = env.do(http.MethodPost, "/api/wishes", token, map[string]any{"wish": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for n := 2; n <= 100; n++ {
		require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/wishes", token, map[string]any{"wish": "бажання"}).Code)
	}
	rec = env.do(http.MethodPost, "/api/wishes", token, map[string]any{"wish": "сто перше"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Список уже містить 100 бажань", decode[errorBody](t, rec).Error)

	rec = env.do(http.MethodGet, "/api/wishes/next-number", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func multipartPhoto(t *testing.T, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("file", "photo.bin")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (e *testEnv) upload(path, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestMonthlyPhotoReplacesObject(t *testing.T) {
	env := newTestEnv(t)
	uid, token := env.signUp("a@example.com")

	body, ct := multipartPhoto(t, pngHeader, map[string]string{"month": "3", "year": "2025", "caption": "Весна"})
	rec := env.upload("/api/monthly-photos", token, body, ct)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[models.MonthlyPhoto](t, rec)
	assert.True(t, strings.HasPrefix(first.PhotoURL, "http://api.test/uploads/monthly_photos/"+uid.String()+"/2025/03.png"))
	pngPath := filepath.Join(env.uploads, "monthly_photos", uid.String(), "2025", "03.png")
	_, err := os.Stat(pngPath)
	require.NoError(t, err)

	jpeg := []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")
	body, ct = multipartPhoto(t, jpeg, map[string]string{"month": "3", "year": "2025"})
	rec = env.upload("/api/monthly-photos", token, body, ct)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	_, err = os.Stat(pngPath)
	assert.True(t, os.IsNotExist(err), "replaced object is removed")

	body, ct = multipartPhoto(t, []byte("plain text, not an image"), map[string]string{"month": "4", "year": "2025"})
	rec = env.upload("/api/monthly-photos", token, body, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "file", decode[errorBody](t, rec).Field)

	body, ct = multipartPhoto(t, pngHeader, map[string]string{"month": "13", "year": "2025"})
	rec = env.upload("/api/monthly-photos", token, body, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "month", decode[errorBody](t, rec).Field)

	rec = env.do(http.MethodDelete, "/api/monthly-photos/"+first.ID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(http.MethodGet, "/api/monthly-photos", token, nil)
	assert.Empty(t, decode[[]models.MonthlyPhoto](t, rec))
}

func TestTestNumberRanges(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signUp("a@example.com")
	fitness := map[string]any{"date": "2025-03-01", "run_2400m_seconds": 720, "pushups": 30, "abs": 40, "long_jump_cm": 210, "run_40m_seconds": 6.2}
	english := map[string]any{"date": "2025-03-01", "grammar": 80, "vocabulary": 70, "reading": 75, "listening": 74}

	cases := []struct {
		path string
		body any
		want int
	}{
		{"/api/fitness-tests/4", fitness, http.StatusOK},
		{"/api/fitness-tests/5", fitness, http.StatusBadRequest},
		{"/api/fitness-tests/0", fitness, http.StatusBadRequest},
		{"/api/english-tests/3", english, http.StatusOK},
		{"/api/english-tests/4", english, http.StatusBadRequest},
		{"/api/english-tests/x", english, http.StatusBadRequest},
	}
	for _, tc := range cases {
		rec := env.do(http.MethodPut, tc.path, token, tc.body)
		assert.Equal(t, tc.want, rec.Code, tc.path+" "+rec.Body.String())
	}

	rec := env.do(http.MethodPut, "/api/english-tests/1", token, english)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 75, decode[models.EnglishTest](t, rec).Average)

	bad := map[string]any{"date": "2025-03-01", "grammar": 101}
	rec = env.do(http.MethodPut, "/api/english-tests/1", token, bad)
	assert.Equal(t, "grammar", decode[errorBody](t, rec).Field)
}

func TestActions(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signUp("a@example.com")

	body := map[string]any{"title": "Толока", "activity_type": "Соціальний розвиток", "date": "2025-03-09", "time_spent": 90, "work_done": "Прибрали парк"}
	rec := env.do(http.MethodPost, "/api/actions", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body["activity_type"] = "Волонтерство"
	rec = env.do(http.MethodPost, "/api/actions", token, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "activity_type", decode[errorBody](t, rec).Field)

	rec = env.do(http.MethodGet, "/api/actions/summary", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	totals := decode[[]models.ActionTotal](t, rec)
	require.Len(t, totals, 4)
	assert.Equal(t, models.ActionTotal{ActivityType: "Соціальний розвиток", Count: 2, Minutes: 90}, totals[3])
	assert.Zero(t, totals[0].Count)

	rec = env.do(http.MethodGet, "/api/actions?type=Інше", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfileUpdateAndAvatar(t *testing.T) {
	env := newTestEnv(t)
	uid, token := env.signUp("a@example.com")

	rec := env.do(http.MethodPut, "/api/profile", token, map[string]string{"full_name": " Олена "})
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[profileResponse](t, rec)
	require.NotNil(t, p.FullName)
	assert.Equal(t, "Олена", *p.FullName)
	assert.Equal(t, 0, p.Level)

	body, ct := multipartPhoto(t, pngHeader, nil)
	rec = env.upload("/api/profile/avatar", token, body, ct)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	url := decode[map[string]string](t, rec)["avatar_url"]
	assert.True(t, strings.HasPrefix(url, "http://api.test/uploads/avatars/"+uid.String()+".png?v="))

	rec = env.do(http.MethodGet, "/uploads/avatars/"+uid.String()+".png", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
