package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidRole = errors.New("invalid role")

// Role of the caller as supplied by the identity provider
type Role string

const (
	RoleProvider Role = "provider" // tutor / GA
	RoleClaimant Role = "claimant" // student
)

// ParseRole accepts the engine roles and their user-facing aliases (tutor, student)
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "provider", "tutor":
		return RoleProvider, nil
	case "claimant", "student":
		return RoleClaimant, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// Identity authenticated caller
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

func (i Identity) IsProvider() bool {
	return i.Role == RoleProvider
}

func (i Identity) IsClaimant() bool {
	return i.Role == RoleClaimant
}

// IsProviderSelf returns true when the caller is the given provider
func (i Identity) IsProviderSelf(providerID uuid.UUID) bool {
	return i.IsProvider() && i.UserID == providerID
}
