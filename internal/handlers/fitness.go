package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"kompas/internal/models"
	"kompas/internal/progress"
	"kompas/internal/validate"
)

const (
	fitnessTests = 4
	englishTests = 3
)

type FitnessStore interface {
	FitnessTests(ctx context.Context, userID uuid.UUID) ([]models.FitnessTest, error)
	UpsertFitnessTest(ctx context.Context, userID uuid.UUID, t models.FitnessTest) (models.FitnessTest, error)
	DeleteFitnessTest(ctx context.Context, userID uuid.UUID, testNumber int) error
}

type FitnessHandler struct {
	Shared
	tests FitnessStore
}

func NewFitnessHandler(sh Shared, tests FitnessStore) *FitnessHandler {
	return &FitnessHandler{Shared: sh, tests: tests}
}

type fitnessPayload struct {
	Date            models.Date `json:"date"`
	Run2400mSeconds int         `json:"run_2400m_seconds" validate:"gte=1,lte=7200"`
	Pushups         int         `json:"pushups" validate:"gte=0,lte=1000"`
	Abs             int         `json:"abs" validate:"gte=0,lte=1000"`
	LongJumpCm      int         `json:"long_jump_cm" validate:"gte=1,lte=500"`
	Run40mSeconds   float64     `json:"run_40m_seconds" validate:"gte=0.1,lte=120"`
}

// testNumber reads the {n} path segment and checks it lies in 1..limit.
func testNumber(r *http.Request, limit int) (int, error) {
	n, err := pathInt(r, "n")
	if err != nil {
		return 0, err
	}
	if n < 1 || n > limit {
		return 0, &validate.Error{Field: "n", Message: "Номер тесту має бути від 1 до " + strconv.Itoa(limit)}
	}
	return n, nil
}

func (h *FitnessHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.tests.FitnessTests(r.Context(), userID(r))
	if err != nil {
		h.fail(w, r, err, "Не вдалося завантажити тести")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Progress compares the first and the last recorded test.
func (h *FitnessHandler) Progress(w http.ResponseWriter, r *http.Request) {
	list, err := h.tests.FitnessTests(r.Context(), userID(r))
	if err != nil {
		h.fail(w, r, err, "Не вдалося завантажити тести")
		return
	}
	writeJSON(w, http.StatusOK, progress.FitnessProgress(list))
}

func (h *FitnessHandler) Put(w http.ResponseWriter, r *http.Request) {
	n, err := testNumber(r, fitnessTests)
	if err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	var body fitnessPayload
	if err := decodeJSON(w, r, &body); err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	if err := validate.Struct(body); err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	today, err := h.today(r)
	if err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	if err := validate.NotFuture("date", body.Date, today); err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}

	uid := userID(r)
	saved, err := h.tests.UpsertFitnessTest(r.Context(), uid, models.FitnessTest{
		TestNumber:      n,
		Date:            body.Date,
		Run2400mSeconds: body.Run2400mSeconds,
		Pushups:         body.Pushups,
		Abs:             body.Abs,
		LongJumpCm:      body.LongJumpCm,
		Run40mSeconds:   body.Run40mSeconds,
	})
	if err != nil {
		h.fail(w, r, err, "Не вдалося зберегти тест")
		return
	}
	h.invalidate(r.Context(), uid)
	writeJSON(w, http.StatusOK, saved)
}

func (h *FitnessHandler) Delete(w http.ResponseWriter, r *http.Request) {
	n, err := testNumber(r, fitnessTests)
	if err != nil {
		h.fail(w, r, err, msgDelFailed)
		return
	}
	uid := userID(r)
	if err := h.tests.DeleteFitnessTest(r.Context(), uid, n); err != nil {
		h.fail(w, r, err, msgDelFailed)
		return
	}
	h.invalidate(r.Context(), uid)
	w.WriteHeader(http.StatusNoContent)
}
