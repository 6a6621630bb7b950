// Package validate checks request payloads before they reach the store.
// Struct tags are evaluated by go-playground/validator; domain rules that a
// tag cannot express live in the helpers below. Every failure is an *Error
// carrying a message ready to show to the user.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"kompas/internal/models"
)

const (
	EssayMinChars = 500
	EssayMaxChars = 4000
	MaxWishes     = 100
	MaxImageBytes = 5 << 20
)

type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func fail(field, msg string) error { return &Error{Field: field, Message: msg} }

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return v
}

// Struct runs the tag rules of s and converts the first failure.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fail("", "Некоректні дані")
	}
	fe := verrs[0]
	return fail(fe.Field(), messageFor(fe))
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Обов'язкове поле"
	case "min", "gte":
		return fmt.Sprintf("Значення має бути не менше %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("Значення має бути не більше %s", fe.Param())
	case "email":
		return "Некоректна адреса email"
	case "datetime":
		return "Дата має бути у форматі РРРР-ММ-ДД"
	case "oneof":
		return "Недопустиме значення"
	default:
		return "Некоректне значення"
	}
}

// NotFuture rejects dates after today.
func NotFuture(field string, d, today models.Date) error {
	if d.IsZero() {
		return fail(field, "Обов'язкове поле")
	}
	if d.After(today) {
		return fail(field, "Дата не може бути в майбутньому")
	}
	return nil
}

// EssayContent checks the trimmed character count of an essay and returns it.
func EssayContent(content string) (int, error) {
	n := utf8.RuneCountInString(strings.TrimSpace(content))
	switch {
	case n < EssayMinChars:
		return n, fail("content", fmt.Sprintf("Есе має містити щонайменше %d символів", EssayMinChars))
	case n > EssayMaxChars:
		return n, fail("content", fmt.Sprintf("Есе не може перевищувати %d символів", EssayMaxChars))
	}
	return n, nil
}

func WishNumber(n int) error {
	if n < 1 || n > MaxWishes {
		return fail("order_number", fmt.Sprintf("Номер бажання має бути від 1 до %d", MaxWishes))
	}
	return nil
}

// CompassChoices checks that the catalog-backed fields of an entry hold
// catalog values.
func CompassChoices(e models.CompassEntry) error {
	if e.PhysicalActivity != nil && !models.IsPhysicalActivity(*e.PhysicalActivity) {
		return fail("physical_activity", "Невідома фізична активність")
	}
	if e.Emotion != nil {
		if _, ok := models.EmotionEmoji(*e.Emotion); !ok {
			return fail("emotion", "Невідома емоція")
		}
	}
	if e.IntellectualActivity != nil && !models.IsIntellectualActivity(*e.IntellectualActivity) {
		return fail("intellectual_activity", "Невідома інтелектуальна активність")
	}
	if e.ValueOfDay != nil && !models.IsValue(*e.ValueOfDay) {
		return fail("value_of_day", "Невідома цінність")
	}
	if e.PointsEarned != nil && *e.PointsEarned < 0 {
		return fail("points_earned", "Значення має бути не менше 0")
	}
	return nil
}

func ActionType(s string) error {
	if !models.IsActionType(s) {
		return fail("activity_type", "Оберіть тип активності")
	}
	return nil
}

// Image accepts only image/* uploads up to MaxImageBytes.
func Image(contentType string, size int64) error {
	if !strings.HasPrefix(contentType, "image/") {
		return fail("file", "Можна завантажувати лише зображення")
	}
	if size > MaxImageBytes {
		return fail("file", "Розмір файлу не може перевищувати 5 МБ")
	}
	return nil
}
