package sandbox

import (
	"context"

	sdkmath "cosmossdk.io/math"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

// Pool is the simulated lending pool. Its liquidity is its bank balance and
// its debt is what the credit manager owes it.
type Pool struct {
	world *World
}

func (p *Pool) Address() string {
	return p.world.pool.address
}

func (p *Pool) TotalDebt(ctx context.Context, denom string) (sdkmath.Int, error) {
	p.world.mu.Lock()
	defer p.world.mu.Unlock()
	return domain.AmountOrZero(p.world.pool.debt[denom]), nil
}

func (p *Pool) Borrow(ctx context.Context, coin domain.Coin) (domain.Instruction, error) {
	return domain.PoolBorrow{Pool: p.Address(), Coin: coin}, nil
}

func (p *Pool) Repay(ctx context.Context, coin domain.Coin) (domain.Instruction, error) {
	return domain.PoolRepay{Pool: p.Address(), Coin: coin}, nil
}

var _ usecase.LendingPool = (*Pool)(nil)
