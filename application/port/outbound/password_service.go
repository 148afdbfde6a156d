package outbound

import "errors"

var ErrPasswordMismatch = errors.New("password does not match")

// PasswordService hashes secrets with a salted one-way function.
type PasswordService interface {
	HashPassword(password string) (string, error)
	// ComparePassword returns ErrPasswordMismatch when password does not hash to hashedPassword.
	ComparePassword(hashedPassword, password string) error
}
