// Package validator checks user-supplied fields before they reach a store.
package validator

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"
)

var (
	ErrEmailEmpty      = errors.New("email is required")
	ErrEmailInvalid    = errors.New("email address is invalid")
	ErrPasswordEmpty   = errors.New("password is required")
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
	ErrNameEmpty       = errors.New("name is required")
	ErrNameTooLong     = errors.New("name must be at most 100 characters")
	ErrJokeEmpty       = errors.New("joke text cannot be empty")
	ErrJokeTooLong     = errors.New("joke text must be at most 2000 characters")
	ErrJokeIDInvalid   = errors.New("joke id must be 1-64 letters, digits, '-' or '_'")
)

const (
	maxNameRunes        = 100
	maxJokeRunes        = 2000
	maxPasswordBytes    = 72
	maxRequestedIDRunes = 64
)

func Email(e string) error {
	e = strings.TrimSpace(e)
	if e == "" {
		return ErrEmailEmpty
	}

	addr, err := mail.ParseAddress(e)
	if err != nil || addr.Address != e {
		return ErrEmailInvalid
	}

	return nil
}

func Password(p string) error {
	if p == "" {
		return ErrPasswordEmpty
	}

	if len(p) > maxPasswordBytes {
		return ErrPasswordTooLong
	}

	return nil
}

func Name(n string) error {
	n = strings.TrimSpace(n)
	if n == "" {
		return ErrNameEmpty
	}

	if utf8.RuneCountInString(n) > maxNameRunes {
		return ErrNameTooLong
	}

	return nil
}

func JokeText(t string) error {
	t = strings.TrimSpace(t)
	if t == "" {
		return ErrJokeEmpty
	}

	if utf8.RuneCountInString(t) > maxJokeRunes {
		return ErrJokeTooLong
	}

	return nil
}

// JokeID validates a caller-chosen joke ID. An empty ID is allowed and means
// "generate one".
func JokeID(id string) error {
	if id == "" {
		return nil
	}

	if utf8.RuneCountInString(id) > maxRequestedIDRunes {
		return ErrJokeIDInvalid
	}

	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return ErrJokeIDInvalid
		}
	}

	return nil
}
