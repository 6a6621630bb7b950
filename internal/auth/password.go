package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

var ErrWrongPassword = errors.New("wrong password")

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares against a stored hash. A nil hash belongs to an
// account created through Google and never matches.
func CheckPassword(hash *string, password string) error {
	if hash == nil || *hash == "" {
		return ErrWrongPassword
	}
	if bcrypt.CompareHashAndPassword([]byte(*hash), []byte(password)) != nil {
		return ErrWrongPassword
	}
	return nil
}
