package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidMode = errors.New("invalid availability mode")

// Mode delivery modality of a slot
type Mode string

const (
	ModeUnavailable Mode = "unavailable"
	ModeOnsite      Mode = "onsite"
	ModeRemote      Mode = "remote"
)

// BookableModes modes a claimant can book
var BookableModes = []Mode{ModeOnsite, ModeRemote}

// ParseMode parses a mode name, case-insensitive
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
	return m, nil
}

func (m Mode) Valid() bool {
	switch m {
	case ModeUnavailable, ModeOnsite, ModeRemote:
		return true
	}
	return false
}

// IsBookable returns true for onsite and remote slots
func (m Mode) IsBookable() bool {
	return m == ModeOnsite || m == ModeRemote
}

// Next returns the mode a toggle moves to: unavailable -> onsite -> remote -> unavailable
func (m Mode) Next() Mode {
	switch m {
	case ModeOnsite:
		return ModeRemote
	case ModeRemote:
		return ModeUnavailable
	default:
		return ModeOnsite
	}
}
