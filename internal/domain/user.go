// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	MaxUsernameLen = 36
	// AnonymousName is shown for connections that never named themselves.
	AnonymousName = "Anonymous"
)

var (
	ErrUsernameTooLong = errors.New("username too long")
	ErrUsernameEmpty   = errors.New("username empty")
)

// ConnID identifies one live client link for its whole lifetime.
type ConnID string

type User struct {
	ID       ConnID `json:"id"`
	Username string `json:"username"`
}

// NormalizeUsername trims the name. Names over MaxUsernameLen runes are rejected.
func NormalizeUsername(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrUsernameEmpty
	}
	if utf8.RuneCountInString(name) > MaxUsernameLen {
		return "", ErrUsernameTooLong
	}
	return name, nil
}

func (u *User) SetUsername(raw string) error {
	name, err := NormalizeUsername(raw)
	if err != nil {
		return err
	}
	u.Username = name
	return nil
}

// DisplayName falls back to AnonymousName for unnamed users.
func (u *User) DisplayName() string {
	if u == nil || u.Username == "" {
		return AnonymousName
	}
	return u.Username
}
