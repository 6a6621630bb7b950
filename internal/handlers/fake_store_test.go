package handlers

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"kompas/internal/models"
	"kompas/internal/progress"
	"kompas/internal/store"
)

// fakeStore keeps everything in maps and counts the reads the statistics
// tests care about.
type fakeStore struct {
	mu sync.Mutex

	users    map[uuid.UUID]models.User
	profiles map[uuid.UUID]models.Profile
	entries  map[uuid.UUID]map[string]models.CompassEntry
	topics   []models.EssayTopic
	essays   map[uuid.UUID]map[uuid.UUID]models.Essay
	wishes   map[uuid.UUID][]models.Wish
	photos   map[uuid.UUID][]models.MonthlyPhoto

	entryReads int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[uuid.UUID]models.User{},
		profiles: map[uuid.UUID]models.Profile{},
		entries:  map[uuid.UUID]map[string]models.CompassEntry{},
		topics:   []models.EssayTopic{{ID: uuid.New(), Title: "Моя мрія", Deadline: models.NewDate(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))}},
		essays:   map[uuid.UUID]map[uuid.UUID]models.Essay{},
		wishes:   map[uuid.UUID][]models.Wish{},
		photos:   map[uuid.UUID][]models.MonthlyPhoto{},
	}
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func (f *fakeStore) CreateUser(_ context.Context, nu store.NewUser) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email := strings.ToLower(strings.TrimSpace(nu.Email))
	for _, u := range f.users {
		if u.Email == email {
			return models.User{}, store.ErrConflict
		}
	}
	u := models.User{ID: uuid.New(), Email: email, PasswordHash: nu.PasswordHash, GoogleSubject: nu.GoogleSubject, CreatedAt: time.Now()}
	f.users[u.ID] = u
	f.profiles[u.ID] = models.Profile{UserID: u.ID, Email: email, FullName: nu.FullName, AvatarURL: nu.AvatarURL}
	return u, nil
}

func (f *fakeStore) UserByEmail(_ context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (f *fakeStore) UserByID(_ context.Context, id uuid.UUID) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) UserByGoogleSubject(context.Context, string) (models.User, error) {
	return models.User{}, store.ErrNotFound
}

func (f *fakeStore) LinkGoogleSubject(context.Context, uuid.UUID, string) error { return nil }

func (f *fakeStore) Profile(_ context.Context, userID uuid.UUID) (models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return models.Profile{}, store.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) UpdateProfileName(ctx context.Context, userID uuid.UUID, name *string) (models.Profile, error) {
	f.mu.Lock()
	p, ok := f.profiles[userID]
	if ok {
		p.FullName = name
		f.profiles[userID] = p
	}
	f.mu.Unlock()
	if !ok {
		return models.Profile{}, store.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) SetAvatarURL(_ context.Context, userID uuid.UUID, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.profiles[userID]
	p.AvatarURL = &url
	f.profiles[userID] = p
	return nil
}

func (f *fakeStore) UpsertCompassEntry(_ context.Context, userID uuid.UUID, e models.CompassEntry, today models.Date) (models.CompassEntry, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	byDate := f.entries[userID]
	if byDate == nil {
		byDate = map[string]models.CompassEntry{}
		f.entries[userID] = byDate
	}
	old, exists := byDate[e.Date.String()]
	e.UserID = userID
	e.ID = old.ID
	if !exists {
		e.ID = uuid.New()
	}
	if e.PointsEarned == nil {
		pts := progress.DefaultPoints
		e.PointsEarned = &pts
	}
	byDate[e.Date.String()] = e

	all := f.sortedEntries(userID)
	p := f.profiles[userID]
	p.Points = progress.TotalPoints(all)
	p.CurrentStreak = progress.StreakOf(all, today)
	p.TotalDays = progress.TotalDays(all)
	p.LastEntryDate = progress.LastEntryDate(all)
	f.profiles[userID] = p
	return e, !exists, nil
}

func (f *fakeStore) sortedEntries(userID uuid.UUID) []models.CompassEntry {
	list := make([]models.CompassEntry, 0, len(f.entries[userID]))
	for _, e := range f.entries[userID] {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return list
}

func (f *fakeStore) CompassEntry(_ context.Context, userID uuid.UUID, date models.Date) (models.CompassEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[userID][date.String()]
	if !ok {
		return models.CompassEntry{}, store.ErrNotFound
	}
	return e, nil
}

func (f *fakeStore) CompassEntries(_ context.Context, userID uuid.UUID, flt store.EntryFilter) ([]models.CompassEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entryReads++
	out := []models.CompassEntry{}
	for _, e := range f.sortedEntries(userID) {
		if !flt.To.IsZero() && e.Date.After(flt.To) {
			continue
		}
		if !flt.From.IsZero() && e.Date.Before(flt.From) {
			continue
		}
		out = append(out, e)
		if flt.Limit > 0 && len(out) == flt.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteCompassEntry(_ context.Context, userID uuid.UUID, date, _ models.Date) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[userID][date.String()]; !ok {
		return store.ErrNotFound
	}
	delete(f.entries[userID], date.String())
	return nil
}

func (f *fakeStore) Counts(_ context.Context, userID uuid.UUID) (store.Counts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return store.Counts{
		CompassEntries: len(f.entries[userID]),
		Essays:         len(f.essays[userID]),
		Wishes:         len(f.wishes[userID]),
		MonthlyPhotos:  len(f.photos[userID]),
	}, nil
}

func (f *fakeStore) EssayTopics(context.Context) ([]models.EssayTopic, error) {
	return f.topics, nil
}

func (f *fakeStore) Essays(_ context.Context, userID uuid.UUID) ([]models.Essay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Essay{}
	for _, e := range f.essays[userID] {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeStore) UpsertEssay(_ context.Context, userID, topicID uuid.UUID, content string, n int) (models.Essay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	known := false
	for _, t := range f.topics {
		known = known || t.ID == topicID
	}
	if !known {
		return models.Essay{}, store.ErrNotFound
	}
	if f.essays[userID] == nil {
		f.essays[userID] = map[uuid.UUID]models.Essay{}
	}
	e := models.Essay{ID: uuid.New(), UserID: userID, TopicID: topicID, Content: content, CharacterCount: n}
	f.essays[userID][topicID] = e
	return e, nil
}

func (f *fakeStore) DeleteEssay(_ context.Context, userID, topicID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.essays[userID][topicID]; !ok {
		return store.ErrNotFound
	}
	delete(f.essays[userID], topicID)
	return nil
}

func (f *fakeStore) FirstTimes(context.Context, uuid.UUID) ([]models.FirstTime, error) {
	return []models.FirstTime{}, nil
}

func (f *fakeStore) CreateFirstTime(_ context.Context, userID uuid.UUID, ft models.FirstTime) (models.FirstTime, error) {
	ft.ID, ft.UserID = uuid.New(), userID
	return ft, nil
}

func (f *fakeStore) UpdateFirstTime(context.Context, uuid.UUID, uuid.UUID, models.FirstTime) (models.FirstTime, error) {
	return models.FirstTime{}, store.ErrNotFound
}

func (f *fakeStore) DeleteFirstTime(context.Context, uuid.UUID, uuid.UUID) error {
	return store.ErrNotFound
}

func (f *fakeStore) Wishes(_ context.Context, userID uuid.UUID) ([]models.Wish, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Wish{}, f.wishes[userID]...), nil
}

func (f *fakeStore) nextWish(userID uuid.UUID) int {
	used := map[int]bool{}
	for _, w := range f.wishes[userID] {
		used[w.OrderNumber] = true
	}
	for n := 1; n <= store.MaxWishes; n++ {
		if !used[n] {
			return n
		}
	}
	return 0
}

func (f *fakeStore) NextWishNumber(_ context.Context, userID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n := f.nextWish(userID); n > 0 {
		return n, nil
	}
	return 0, store.ErrLimitReached
}

func (f *fakeStore) CreateWish(_ context.Context, userID uuid.UUID, orderNumber *int, text string) (models.Wish, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.wishes[userID]) >= store.MaxWishes {
		return models.Wish{}, store.ErrLimitReached
	}
	n := f.nextWish(userID)
	if orderNumber != nil {
		n = *orderNumber
		for _, w := range f.wishes[userID] {
			if w.OrderNumber == n {
				return models.Wish{}, store.ErrConflict
			}
		}
	}
	w := models.Wish{ID: uuid.New(), UserID: userID, OrderNumber: n, Wish: text}
	f.wishes[userID] = append(f.wishes[userID], w)
	return w, nil
}

func (f *fakeStore) UpdateWish(context.Context, uuid.UUID, uuid.UUID, int, string) (models.Wish, error) {
	return models.Wish{}, store.ErrNotFound
}

func (f *fakeStore) DeleteWish(context.Context, uuid.UUID, uuid.UUID) error {
	return store.ErrNotFound
}

func (f *fakeStore) MonthlyPhotos(_ context.Context, userID uuid.UUID) ([]models.MonthlyPhoto, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.MonthlyPhoto{}, f.photos[userID]...), nil
}

func (f *fakeStore) UpsertMonthlyPhoto(_ context.Context, userID uuid.UUID, p models.MonthlyPhoto) (models.MonthlyPhoto, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, old := range f.photos[userID] {
		if old.Year == p.Year && old.Month == p.Month {
			p.ID, p.UserID = old.ID, userID
			f.photos[userID][i] = p
			prev := old.StorageKey
			if prev == p.StorageKey {
				prev = ""
			}
			return p, prev, nil
		}
	}
	p.ID, p.UserID = uuid.New(), userID
	f.photos[userID] = append(f.photos[userID], p)
	return p, "", nil
}

func (f *fakeStore) DeleteMonthlyPhoto(_ context.Context, userID, id uuid.UUID) (models.MonthlyPhoto, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.photos[userID] {
		if p.ID == id {
			f.photos[userID] = append(f.photos[userID][:i], f.photos[userID][i+1:]...)
			return p, nil
		}
	}
	return models.MonthlyPhoto{}, store.ErrNotFound
}

func (f *fakeStore) FitnessTests(context.Context, uuid.UUID) ([]models.FitnessTest, error) {
	return []models.FitnessTest{}, nil
}

func (f *fakeStore) UpsertFitnessTest(_ context.Context, userID uuid.UUID, t models.FitnessTest) (models.FitnessTest, error) {
	t.ID, t.UserID = uuid.New(), userID
	return t, nil
}

func (f *fakeStore) DeleteFitnessTest(context.Context, uuid.UUID, int) error { return store.ErrNotFound }

func (f *fakeStore) EnglishTests(context.Context, uuid.UUID) ([]models.EnglishTest, error) {
	return []models.EnglishTest{}, nil
}

func (f *fakeStore) UpsertEnglishTest(_ context.Context, userID uuid.UUID, t models.EnglishTest) (models.EnglishTest, error) {
	t.ID, t.UserID = uuid.New(), userID
	t.Average = progress.EnglishAverage(t)
	return t, nil
}

func (f *fakeStore) DeleteEnglishTest(context.Context, uuid.UUID, int) error { return store.ErrNotFound }

func (f *fakeStore) Actions(context.Context, uuid.UUID, string) ([]models.Action, error) {
	return []models.Action{}, nil
}

func (f *fakeStore) CreateAction(_ context.Context, userID uuid.UUID, a models.Action) (models.Action, error) {
	a.ID, a.UserID = uuid.New(), userID
	return a, nil
}

func (f *fakeStore) UpdateAction(context.Context, uuid.UUID, uuid.UUID, models.Action) (models.Action, error) {
	return models.Action{}, store.ErrNotFound
}

func (f *fakeStore) DeleteAction(context.Context, uuid.UUID, uuid.UUID) error { return store.ErrNotFound }

func (f *fakeStore) ActionTotals(context.Context, uuid.UUID) ([]models.ActionTotal, error) {
	return []models.ActionTotal{{ActivityType: "Соціальний розвиток", Count: 2, Minutes: 90}}, nil
}
