package postgres

import (
	"context"
	"errors"

	errorsmod "cosmossdk.io/errors"
	"github.com/jackc/pgx/v5"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

// VaultPositionRepository implements usecase.VaultPositionRepository.
// Unlocking lots live in their own table and are returned in lot id order.
type VaultPositionRepository struct {
	pool querier
}

// NewVaultPositionRepository creates a new VaultPositionRepository.
func NewVaultPositionRepository(pool querier) *VaultPositionRepository {
	return &VaultPositionRepository{pool: pool}
}

const selectPosition = `SELECT account_id, vault, unlocked::text, locked::text, next_lot_id FROM vault_positions`

func (r *VaultPositionRepository) Get(ctx context.Context, tx usecase.Transaction, accountID, vault string) (*domain.VaultPosition, error) {
	q := conn(r.pool, tx)
	pos, err := scanPosition(q.QueryRow(ctx, selectPosition+` WHERE account_id = $1 AND vault = $2`, accountID, vault))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errorsmod.Wrapf(domain.ErrVaultPositionNotFound, "account %s, vault %s", accountID, vault)
	}
	if err != nil {
		return nil, err
	}
	if err := loadLots(ctx, q, pos); err != nil {
		return nil, err
	}
	return pos, nil
}

func (r *VaultPositionRepository) Save(ctx context.Context, tx usecase.Transaction, position *domain.VaultPosition) error {
	q := conn(r.pool, tx)

	// Lots are rewritten wholesale; the position row cascades on delete.
	if _, err := q.Exec(ctx,
		`DELETE FROM unlocking_lots WHERE account_id = $1 AND vault = $2`,
		position.AccountID, position.Vault,
	); err != nil {
		return err
	}

	if position.IsEmpty() {
		_, err := q.Exec(ctx,
			`DELETE FROM vault_positions WHERE account_id = $1 AND vault = $2`,
			position.AccountID, position.Vault,
		)
		return err
	}

	if _, err := q.Exec(ctx, `
		INSERT INTO vault_positions (account_id, vault, unlocked, locked, next_lot_id)
		VALUES ($1, $2, $3::numeric, $4::numeric, $5)
		ON CONFLICT (account_id, vault) DO UPDATE SET
			unlocked = EXCLUDED.unlocked,
			locked = EXCLUDED.locked,
			next_lot_id = EXCLUDED.next_lot_id`,
		position.AccountID, position.Vault,
		formatAmount(position.Unlocked), formatAmount(position.Locked),
		int64(position.NextLotID),
	); err != nil {
		return err
	}

	for _, lot := range position.Unlocking {
		if _, err := q.Exec(ctx, `
			INSERT INTO unlocking_lots (account_id, vault, lot_id, amount)
			VALUES ($1, $2, $3, $4::numeric)`,
			position.AccountID, position.Vault, int64(lot.ID), formatAmount(lot.Amount),
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *VaultPositionRepository) ListByAccount(ctx context.Context, tx usecase.Transaction, accountID string) ([]*domain.VaultPosition, error) {
	q := conn(r.pool, tx)
	rows, err := q.Query(ctx, selectPosition+` WHERE account_id = $1 ORDER BY vault`, accountID)
	if err != nil {
		return nil, err
	}
	return collectPositions(ctx, q, rows)
}

func (r *VaultPositionRepository) List(ctx context.Context, startAfter *domain.PairKey, limit int) ([]*domain.VaultPosition, error) {
	first, second := pairCursor(startAfter)
	rows, err := r.pool.Query(ctx, selectPosition+`
		WHERE (account_id, vault) > ($1, $2)
		ORDER BY account_id, vault
		LIMIT $3`,
		first, second, limit,
	)
	if err != nil {
		return nil, err
	}
	return collectPositions(ctx, r.pool, rows)
}

func (r *VaultPositionRepository) TotalsByVault(ctx context.Context, startAfter string, limit int) ([]domain.VaultBalance, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.vault,
		       (SUM(p.unlocked + p.locked) + COALESCE(
		           (SELECT SUM(l.amount) FROM unlocking_lots l WHERE l.vault = p.vault), 0))::text
		FROM vault_positions p
		WHERE p.vault > $1
		GROUP BY p.vault
		ORDER BY p.vault
		LIMIT $2`,
		startAfter, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.VaultBalance, 0)
	for rows.Next() {
		var b domain.VaultBalance
		var balance string
		if err := rows.Scan(&b.Vault, &balance); err != nil {
			return nil, err
		}
		if b.Balance, err = parseAmount(balance); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanPosition(row pgx.Row) (*domain.VaultPosition, error) {
	var (
		pos              domain.VaultPosition
		unlocked, locked string
		nextLotID        int64
	)
	if err := row.Scan(&pos.AccountID, &pos.Vault, &unlocked, &locked, &nextLotID); err != nil {
		return nil, err
	}
	var err error
	if pos.Unlocked, err = parseAmount(unlocked); err != nil {
		return nil, err
	}
	if pos.Locked, err = parseAmount(locked); err != nil {
		return nil, err
	}
	pos.NextLotID = uint64(nextLotID)
	return &pos, nil
}

// collectPositions drains rows before loading lots, since a pgx connection
// cannot run a second query while rows are open.
func collectPositions(ctx context.Context, q querier, rows pgx.Rows) ([]*domain.VaultPosition, error) {
	out := make([]*domain.VaultPosition, 0)
	for rows.Next() {
		pos, err := scanPosition(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, pos)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, pos := range out {
		if err := loadLots(ctx, q, pos); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func loadLots(ctx context.Context, q querier, pos *domain.VaultPosition) error {
	rows, err := q.Query(ctx, `
		SELECT lot_id, amount::text FROM unlocking_lots
		WHERE account_id = $1 AND vault = $2
		ORDER BY lot_id`,
		pos.AccountID, pos.Vault,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id     int64
			amount string
		)
		if err := rows.Scan(&id, &amount); err != nil {
			return err
		}
		n, err := parseAmount(amount)
		if err != nil {
			return err
		}
		pos.Unlocking = append(pos.Unlocking, domain.UnlockingLot{ID: uint64(id), Amount: n})
	}
	return rows.Err()
}

var _ usecase.VaultPositionRepository = (*VaultPositionRepository)(nil)
