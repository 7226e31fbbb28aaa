// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	MaxUsernameLen = 20
	MaxMessageLen  = 500
)

var (
	ErrUsernameTooLong = errors.New("username too long")
	ErrUsernameEmpty   = errors.New("username empty")
	ErrMessageTooLong  = errors.New("message too long")
	ErrMessageEmpty    = errors.New("message empty")
)

// SessionID identifies one live connection. Assigned by the transport
// adapter at upgrade time, opaque everywhere else.
type SessionID string

// NormalizeUsername trims surrounding whitespace and validates length.
func NormalizeUsername(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrUsernameEmpty
	}
	// Limits are in characters, matching the client-side validation;
	// byte length would reject multibyte names well under the limit.
	if utf8.RuneCountInString(name) > MaxUsernameLen {
		return "", ErrUsernameTooLong
	}
	return name, nil
}

// NormalizeMessage trims surrounding whitespace and validates length.
func NormalizeMessage(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", ErrMessageEmpty
	}
	if utf8.RuneCountInString(text) > MaxMessageLen {
		return "", ErrMessageTooLong
	}
	return text, nil
}
