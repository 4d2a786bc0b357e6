// Package validators contains validators found throughout the application
// that have been abstracted away from the main code
package validators

import (
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrEmailEmpty   = errors.New("no email address provided")
	ErrEmailInvalid = errors.New("invalid email address provided")
)

// EmailValidator rejects anything net/mail can't parse as a bare
// address. Addresses with a display name part ("A <a@x.com>") are
// rejected too since only the address itself belongs in the database.
func EmailValidator(e string) error {
	if e == "" {
		return ErrEmailEmpty
	}

	addr, err := mail.ParseAddress(e)
	if err != nil || addr.Address != e {
		return ErrEmailInvalid
	}

	if strings.ContainsAny(e, " \t") {
		return ErrEmailInvalid
	}

	return nil
}
