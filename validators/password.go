package validators

import "errors"

var (
	ErrPasswordEmpty    = errors.New("no password provided")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong  = errors.New("password is too long")
)

// bcrypt rejects inputs over 72 bytes, so the cap is enforced here
// with a readable error instead
const maxPasswordSize = 72

func PasswordValidator(p string) error {
	if p == "" {
		return ErrPasswordEmpty
	}

	if len(p) < 8 {
		return ErrPasswordTooShort
	}

	if len(p) > maxPasswordSize {
		return ErrPasswordTooLong
	}

	return nil
}
