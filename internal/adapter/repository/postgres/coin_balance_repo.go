package postgres

import (
	"context"
	"errors"

	sdkmath "cosmossdk.io/math"
	"github.com/jackc/pgx/v5"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

// CoinBalanceRepository implements usecase.CoinBalanceRepository.
type CoinBalanceRepository struct {
	pool querier
}

// NewCoinBalanceRepository creates a new CoinBalanceRepository.
func NewCoinBalanceRepository(pool querier) *CoinBalanceRepository {
	return &CoinBalanceRepository{pool: pool}
}

func (r *CoinBalanceRepository) Get(ctx context.Context, tx usecase.Transaction, accountID, denom string) (sdkmath.Int, error) {
	var amount string
	err := conn(r.pool, tx).QueryRow(ctx,
		`SELECT amount::text FROM coin_balances WHERE account_id = $1 AND denom = $2`,
		accountID, denom,
	).Scan(&amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return sdkmath.ZeroInt(), nil
	}
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	return parseAmount(amount)
}

func (r *CoinBalanceRepository) Set(ctx context.Context, tx usecase.Transaction, accountID, denom string, amount sdkmath.Int) error {
	q := conn(r.pool, tx)
	if domain.AmountOrZero(amount).IsZero() {
		_, err := q.Exec(ctx, `DELETE FROM coin_balances WHERE account_id = $1 AND denom = $2`, accountID, denom)
		return err
	}
	_, err := q.Exec(ctx, `
		INSERT INTO coin_balances (account_id, denom, amount)
		VALUES ($1, $2, $3::numeric)
		ON CONFLICT (account_id, denom) DO UPDATE SET amount = EXCLUDED.amount`,
		accountID, denom, formatAmount(amount),
	)
	return err
}

func (r *CoinBalanceRepository) ListByAccount(ctx context.Context, tx usecase.Transaction, accountID string) ([]domain.Coin, error) {
	rows, err := conn(r.pool, tx).Query(ctx,
		`SELECT denom, amount::text FROM coin_balances WHERE account_id = $1 ORDER BY denom`,
		accountID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	coins := make([]domain.Coin, 0)
	for rows.Next() {
		var denom, amount string
		if err := rows.Scan(&denom, &amount); err != nil {
			return nil, err
		}
		n, err := parseAmount(amount)
		if err != nil {
			return nil, err
		}
		coins = append(coins, domain.Coin{Denom: denom, Amount: n})
	}
	return coins, rows.Err()
}

func (r *CoinBalanceRepository) List(ctx context.Context, startAfter *domain.PairKey, limit int) ([]domain.CoinBalance, error) {
	first, second := pairCursor(startAfter)
	rows, err := r.pool.Query(ctx, `
		SELECT account_id, denom, amount::text FROM coin_balances
		WHERE (account_id, denom) > ($1, $2)
		ORDER BY account_id, denom
		LIMIT $3`,
		first, second, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.CoinBalance, 0)
	for rows.Next() {
		var b domain.CoinBalance
		var amount string
		if err := rows.Scan(&b.AccountID, &b.Denom, &amount); err != nil {
			return nil, err
		}
		if b.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

var _ usecase.CoinBalanceRepository = (*CoinBalanceRepository)(nil)
