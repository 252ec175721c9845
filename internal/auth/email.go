package auth

import (
	"errors"
	"net/mail"
	"strings"
)

// ErrInvalidEmail indicates an email address is not valid.
var ErrInvalidEmail = errors.New("invalid email address")

// Email is how we represent email addresses.
type Email string

// ParseEmail parses the given string and checks if it's shaped like an email address.
// It returns an error if the input is not a valid email address.
// Note that this doesn't guarantee the email address actually exists, it only checks the format.
func ParseEmail(raw string) (Email, error) {
	trimmed := strings.TrimSpace(raw)

	addr, err := mail.ParseAddress(trimmed)
	if err != nil {
		return Email(""), ErrInvalidEmail
	}

	// mail.ParseAddress accepts addresses with names and comments:
	// "Alice <alice@example.com>(comment)".
	//
	// We only want to accept inputs that consist of the address part.
	if addr.Address != trimmed {
		return Email(""), ErrInvalidEmail
	}

	return Email(addr.Address), nil
}

func (e *Email) UnmarshalText(text []byte) error {
	addr, err := ParseEmail(string(text))
	if err != nil {
		return err
	}

	*e = addr

	return nil
}
