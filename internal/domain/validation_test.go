package domain

import (
	"errors"
	"testing"
)

func TestValidatePagination(t *testing.T) {
	t.Parallel()

	cases := map[int]int{
		-1:  DefaultPageLimit,
		0:   DefaultPageLimit,
		5:   5,
		30:  MaxPageLimit,
		500: MaxPageLimit,
	}
	for in, want := range cases {
		if got := ValidatePagination(in); got != want {
			t.Errorf("ValidatePagination(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestParsePairKey(t *testing.T) {
	t.Parallel()

	t.Run("empty cursor", func(t *testing.T) {
		key, err := ParsePairKey("")
		if err != nil || key != nil {
			t.Fatalf("expected nil key, got %v, %v", key, err)
		}
	})

	t.Run("denom with separators", func(t *testing.T) {
		key, err := ParsePairKey("7:gamm/pool/1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if key.First != "7" || key.Second != "gamm/pool/1" {
			t.Fatalf("unexpected key %+v", key)
		}
		if key.String() != "7:gamm/pool/1" {
			t.Fatalf("unexpected encoding %s", key)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ParsePairKey("no-separator")
		if !errors.Is(err, ErrInvalidCursor) {
			t.Fatalf("expected ErrInvalidCursor, got %v", err)
		}
	})
}
