package postgres

import (
	"context"
	"errors"

	sdkmath "cosmossdk.io/math"
	"github.com/jackc/pgx/v5"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

// DebtShareRepository implements usecase.DebtShareRepository.
type DebtShareRepository struct {
	pool querier
}

// NewDebtShareRepository creates a new DebtShareRepository.
func NewDebtShareRepository(pool querier) *DebtShareRepository {
	return &DebtShareRepository{pool: pool}
}

func (r *DebtShareRepository) GetShares(ctx context.Context, tx usecase.Transaction, accountID, denom string) (sdkmath.Int, error) {
	return r.scanOne(ctx, tx,
		`SELECT shares::text FROM debt_shares WHERE account_id = $1 AND denom = $2`,
		accountID, denom)
}

func (r *DebtShareRepository) SetShares(ctx context.Context, tx usecase.Transaction, accountID, denom string, shares sdkmath.Int) error {
	q := conn(r.pool, tx)
	if domain.AmountOrZero(shares).IsZero() {
		_, err := q.Exec(ctx, `DELETE FROM debt_shares WHERE account_id = $1 AND denom = $2`, accountID, denom)
		return err
	}
	_, err := q.Exec(ctx, `
		INSERT INTO debt_shares (account_id, denom, shares)
		VALUES ($1, $2, $3::numeric)
		ON CONFLICT (account_id, denom) DO UPDATE SET shares = EXCLUDED.shares`,
		accountID, denom, formatAmount(shares),
	)
	return err
}

func (r *DebtShareRepository) GetTotal(ctx context.Context, tx usecase.Transaction, denom string) (sdkmath.Int, error) {
	return r.scanOne(ctx, tx, `SELECT shares::text FROM total_debt_shares WHERE denom = $1`, denom)
}

func (r *DebtShareRepository) SetTotal(ctx context.Context, tx usecase.Transaction, denom string, shares sdkmath.Int) error {
	q := conn(r.pool, tx)
	if domain.AmountOrZero(shares).IsZero() {
		_, err := q.Exec(ctx, `DELETE FROM total_debt_shares WHERE denom = $1`, denom)
		return err
	}
	_, err := q.Exec(ctx, `
		INSERT INTO total_debt_shares (denom, shares)
		VALUES ($1, $2::numeric)
		ON CONFLICT (denom) DO UPDATE SET shares = EXCLUDED.shares`,
		denom, formatAmount(shares),
	)
	return err
}

func (r *DebtShareRepository) ListByAccount(ctx context.Context, tx usecase.Transaction, accountID string) ([]domain.DebtShares, error) {
	rows, err := conn(r.pool, tx).Query(ctx,
		`SELECT account_id, denom, shares::text FROM debt_shares WHERE account_id = $1 ORDER BY denom`,
		accountID,
	)
	if err != nil {
		return nil, err
	}
	return scanDebtShares(rows)
}

func (r *DebtShareRepository) List(ctx context.Context, startAfter *domain.PairKey, limit int) ([]domain.DebtShares, error) {
	first, second := pairCursor(startAfter)
	rows, err := r.pool.Query(ctx, `
		SELECT account_id, denom, shares::text FROM debt_shares
		WHERE (account_id, denom) > ($1, $2)
		ORDER BY account_id, denom
		LIMIT $3`,
		first, second, limit,
	)
	if err != nil {
		return nil, err
	}
	return scanDebtShares(rows)
}

func (r *DebtShareRepository) ListTotals(ctx context.Context, startAfter string, limit int) ([]domain.TotalDebtShares, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT denom, shares::text FROM total_debt_shares
		WHERE denom > $1
		ORDER BY denom
		LIMIT $2`,
		startAfter, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.TotalDebtShares, 0)
	for rows.Next() {
		var total domain.TotalDebtShares
		var shares string
		if err := rows.Scan(&total.Denom, &shares); err != nil {
			return nil, err
		}
		if total.Shares, err = parseAmount(shares); err != nil {
			return nil, err
		}
		out = append(out, total)
	}
	return out, rows.Err()
}

func (r *DebtShareRepository) SumByDenom(ctx context.Context) (map[string]sdkmath.Int, error) {
	rows, err := r.pool.Query(ctx, `SELECT denom, SUM(shares)::text FROM debt_shares GROUP BY denom`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sums := make(map[string]sdkmath.Int)
	for rows.Next() {
		var denom, sum string
		if err := rows.Scan(&denom, &sum); err != nil {
			return nil, err
		}
		n, err := parseAmount(sum)
		if err != nil {
			return nil, err
		}
		sums[denom] = n
	}
	return sums, rows.Err()
}

func (r *DebtShareRepository) scanOne(ctx context.Context, tx usecase.Transaction, sql string, args ...any) (sdkmath.Int, error) {
	var shares string
	err := conn(r.pool, tx).QueryRow(ctx, sql, args...).Scan(&shares)
	if errors.Is(err, pgx.ErrNoRows) {
		return sdkmath.ZeroInt(), nil
	}
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	return parseAmount(shares)
}

func scanDebtShares(rows pgx.Rows) ([]domain.DebtShares, error) {
	defer rows.Close()

	out := make([]domain.DebtShares, 0)
	for rows.Next() {
		var d domain.DebtShares
		var shares string
		if err := rows.Scan(&d.AccountID, &d.Denom, &shares); err != nil {
			return nil, err
		}
		n, err := parseAmount(shares)
		if err != nil {
			return nil, err
		}
		d.Shares = n
		out = append(out, d)
	}
	return out, rows.Err()
}

var _ usecase.DebtShareRepository = (*DebtShareRepository)(nil)
