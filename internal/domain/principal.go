package domain

import (
	"context"
	"errors"
)

// Role represents a principal's access level
type Role string

const (
	// RoleAdmin may open accounts for others and run ledger reconciliation
	RoleAdmin Role = "admin"

	// RoleUser may submit batches for the accounts it owns
	RoleUser Role = "user"
)

// Valid roles
var validRoles = map[Role]bool{
	RoleAdmin: true,
	RoleUser:  true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// Principal is an authenticated caller.
type Principal struct {
	ID   string
	Role Role
}

// Authentication errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

type principalKey struct{}

// ContextWithPrincipal stores the authenticated principal in ctx.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
