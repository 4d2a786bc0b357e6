package validators

import (
	"errors"
	"strings"
)

var (
	ErrNameEmpty   = errors.New("no display name provided")
	ErrNameTooLong = errors.New("display name is too long")
)

const maxNameSize = 64

func NameValidator(n string) error {
	if strings.TrimSpace(n) == "" {
		return ErrNameEmpty
	}

	if len(n) > maxNameSize {
		return ErrNameTooLong
	}

	return nil
}
