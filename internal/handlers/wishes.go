package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"kompas/internal/models"
	"kompas/internal/store"
	"kompas/internal/validate"
)

type WishStore interface {
	Wishes(ctx context.Context, userID uuid.UUID) ([]models.Wish, error)
	NextWishNumber(ctx context.Context, userID uuid.UUID) (int, error)
	CreateWish(ctx context.Context, userID uuid.UUID, orderNumber *int, text string) (models.Wish, error)
	UpdateWish(ctx context.Context, userID, id uuid.UUID, orderNumber int, text string) (models.Wish, error)
	DeleteWish(ctx context.Context, userID, id uuid.UUID) error
}

type WishHandler struct {
	Shared
	wishes WishStore
}

func NewWishHandler(sh Shared, wishes WishStore) *WishHandler {
	return &WishHandler{Shared: sh, wishes: wishes}
}

type wishPayload struct {
	OrderNumber *int   `json:"order_number"`
	Wish        string `json:"wish" validate:"required,max=500"`
}

func (p *wishPayload) check() error {
	p.Wish = cleanText(p.Wish)
	if err := validate.Struct(p); err != nil {
		return err
	}
	if p.OrderNumber != nil {
		return validate.WishNumber(*p.OrderNumber)
	}
	return nil
}

// wishFail answers the wish specific conflicts before the generic mapping.
func (h *WishHandler) wishFail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, store.ErrLimitReached):
		writeError(w, http.StatusConflict, "Список уже містить 100 бажань")
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "Бажання з таким номером вже існує")
	default:
		h.fail(w, r, err, msg)
	}
}

func (h *WishHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.wishes.Wishes(r.Context(), userID(r))
	if err != nil {
		h.fail(w, r, err, "Не вдалося завантажити бажання")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// NextNumber returns the smallest unused order number.
func (h *WishHandler) NextNumber(w http.ResponseWriter, r *http.Request) {
	n, err := h.wishes.NextWishNumber(r.Context(), userID(r))
	if err != nil {
		h.wishFail(w, r, err, msgLoadFailed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"order_number": n})
}

// Create godoc
// @Summary Add a wish to the list of 100
// @Tags wishes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Wish
// @Failure 409 {object} errorBody "list full or number taken"
// @Router /wishes [post]
func (h *WishHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body wishPayload
	if err := decodeJSON(w, r, &body); err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	if err := body.check(); err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	uid := userID(r)
	wish, err := h.wishes.CreateWish(r.Context(), uid, body.OrderNumber, body.Wish)
	if err != nil {
		h.wishFail(w, r, err, "Не вдалося зберегти бажання")
		return
	}
	h.invalidate(r.Context(), uid)
	writeJSON(w, http.StatusCreated, wish)
}

func (h *WishHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	var body wishPayload
	if err := decodeJSON(w, r, &body); err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	if err := body.check(); err != nil {
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	if body.OrderNumber == nil {
		h.fail(w, r, &validate.Error{Field: "order_number", Message: "Обов'язкове поле"}, msgSaveFailed)
		return
	}
	uid := userID(r)
	wish, err := h.wishes.UpdateWish(r.Context(), uid, id, *body.OrderNumber, body.Wish)
	if err != nil {
		h.wishFail(w, r, err, "Не вдалося зберегти бажання")
		return
	}
	h.invalidate(r.Context(), uid)
	writeJSON(w, http.StatusOK, wish)
}

func (h *WishHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.fail(w, r, err, msgDelFailed)
		return
	}
	uid := userID(r)
	if err := h.wishes.DeleteWish(r.Context(), uid, id); err != nil {
		h.fail(w, r, err, msgDelFailed)
		return
	}
	h.invalidate(r.Context(), uid)
	w.WriteHeader(http.StatusNoContent)
}
