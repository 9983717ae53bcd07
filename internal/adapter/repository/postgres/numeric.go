package postgres

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/iho/creditledger/internal/domain"
)

// Amounts are stored as numeric(78,0), which holds any uint256. They are read
// back as text so no precision is lost on the way through pgx.

func parseAmount(s string) (sdkmath.Int, error) {
	amount, ok := sdkmath.NewIntFromString(s)
	if !ok {
		return sdkmath.ZeroInt(), fmt.Errorf("invalid stored amount %q", s)
	}
	return amount, nil
}

func formatAmount(amount sdkmath.Int) string {
	return domain.AmountOrZero(amount).String()
}

// pairCursor expands an optional (first, second) cursor into query args. An
// absent cursor starts before every row.
func pairCursor(startAfter *domain.PairKey) (string, string) {
	if startAfter == nil {
		return "", ""
	}
	return startAfter.First, startAfter.Second
}
