package domain

import (
	"strings"

	errorsmod "cosmossdk.io/errors"
)

// Pagination limits of the read-only projections
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 30
)

// ValidatePagination clamps a page limit into (0, MaxPageLimit].
func ValidatePagination(limit int) int {
	if limit <= 0 {
		return DefaultPageLimit
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}

// PairKey is a two-part cursor, such as (account, denom) or (account, vault).
type PairKey struct {
	First  string
	Second string
}

// String encodes the key as "first:second".
func (k PairKey) String() string {
	return k.First + ":" + k.Second
}

// Less orders keys lexicographically by First, then Second.
func (k PairKey) Less(other PairKey) bool {
	if k.First != other.First {
		return k.First < other.First
	}
	return k.Second < other.Second
}

// ParsePairKey decodes a cursor produced by PairKey.String. An empty cursor
// yields nil.
func ParsePairKey(cursor string) (*PairKey, error) {
	if cursor == "" {
		return nil, nil
	}
	first, second, ok := strings.Cut(cursor, ":")
	if !ok || first == "" || second == "" {
		return nil, errorsmod.Wrapf(ErrInvalidCursor, "%q", cursor)
	}
	return &PairKey{First: first, Second: second}, nil
}
