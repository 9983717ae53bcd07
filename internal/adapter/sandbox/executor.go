package sandbox

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

// Executor applies instructions to the world on behalf of the credit manager.
type Executor struct {
	world *World
}

func (e *Executor) Execute(ctx context.Context, instruction domain.Instruction) error {
	w := e.world
	w.mu.Lock()
	defer w.mu.Unlock()

	switch ins := instruction.(type) {
	case domain.PoolBorrow:
		return w.poolBorrow(ins)
	case domain.PoolRepay:
		return w.poolRepay(ins)
	case domain.VaultDeposit:
		return w.vaultDeposit(ins)
	case domain.VaultWithdraw:
		return w.vaultWithdraw(ins)
	case domain.VaultRequestUnlock:
		return w.vaultRequestUnlock(ins)
	case domain.VaultWithdrawUnlocked:
		return w.vaultWithdrawUnlocked(ins)
	case domain.VaultForceWithdrawUnlocking:
		return w.vaultForceWithdrawUnlocking(ins)
	case domain.BankSend:
		for _, c := range ins.Coins {
			if err := w.send(w.identity, ins.Recipient, c); err != nil {
				return err
			}
		}
		return nil
	case domain.BankReceive:
		for _, c := range ins.Coins {
			if err := w.send(ins.Sender, w.identity, c); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported instruction %T", instruction)
	}
}

func (w *World) poolBorrow(ins domain.PoolBorrow) error {
	if err := w.send(w.pool.address, w.identity, ins.Coin); err != nil {
		return err
	}
	w.pool.debt[ins.Coin.Denom] = domain.AmountOrZero(w.pool.debt[ins.Coin.Denom]).Add(ins.Coin.Amount)
	return nil
}

func (w *World) poolRepay(ins domain.PoolRepay) error {
	if err := w.send(w.identity, w.pool.address, ins.Coin); err != nil {
		return err
	}
	debt := domain.AmountOrZero(w.pool.debt[ins.Coin.Denom])
	w.pool.debt[ins.Coin.Denom] = debt.Sub(sdkmath.MinInt(debt, ins.Coin.Amount))
	return nil
}

func (w *World) vault(address string) (*vaultState, error) {
	s, ok := w.vaults[address]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVault, address)
	}
	return s, nil
}

func (w *World) vaultDeposit(ins domain.VaultDeposit) error {
	s, err := w.vault(ins.Vault)
	if err != nil {
		return err
	}
	if ins.Coin.Denom != s.info.BaseTokenDenom {
		return fmt.Errorf("vault %s does not accept %s", s.address, ins.Coin.Denom)
	}
	minted, err := w.mintValue(s, ins.Coin.Amount)
	if err != nil {
		return err
	}
	if err := w.send(w.identity, s.address, ins.Coin); err != nil {
		return err
	}
	s.holders[w.identity] = domain.AmountOrZero(s.holders[w.identity]).Add(minted)
	s.supply = s.supply.Add(minted)
	return nil
}

func (w *World) vaultWithdraw(ins domain.VaultWithdraw) error {
	s, err := w.vault(ins.Vault)
	if err != nil {
		return err
	}
	if s.lockup > 0 && !ins.Forced {
		return fmt.Errorf("%w: vault %s requires an unlock request", ErrLocked, s.address)
	}
	return w.burn(s, w.identity, ins.Amount)
}

func (w *World) vaultRequestUnlock(ins domain.VaultRequestUnlock) error {
	s, err := w.vault(ins.Vault)
	if err != nil {
		return err
	}
	if s.lockup == 0 {
		return fmt.Errorf("vault %s has no lockup", s.address)
	}
	if _, dup := s.unlocks[ins.Ref]; dup {
		return fmt.Errorf("unlock request for account %s lot %d already exists", ins.Ref.AccountID, ins.Ref.LotID)
	}
	held := domain.AmountOrZero(s.holders[w.identity])
	if held.LT(s.unlocking().Add(ins.Amount)) {
		return fmt.Errorf("%w: unlock of %s exceeds held vault tokens %s", ErrInsufficientFunds, ins.Amount, held)
	}
	s.unlocks[ins.Ref] = unlock{amount: ins.Amount, maturesAt: w.now.Add(s.lockup)}
	return nil
}

func (w *World) vaultWithdrawUnlocked(ins domain.VaultWithdrawUnlocked) error {
	s, err := w.vault(ins.Vault)
	if err != nil {
		return err
	}
	u, ok := s.unlocks[ins.Ref]
	if !ok {
		return fmt.Errorf("%w: account %s, lot %d", ErrUnknownUnlock, ins.Ref.AccountID, ins.Ref.LotID)
	}
	if w.now.Before(u.maturesAt) {
		return fmt.Errorf("unlock of account %s lot %d matures at %s", ins.Ref.AccountID, ins.Ref.LotID, u.maturesAt)
	}
	delete(s.unlocks, ins.Ref)
	return w.burn(s, w.identity, u.amount)
}

func (w *World) vaultForceWithdrawUnlocking(ins domain.VaultForceWithdrawUnlocking) error {
	s, err := w.vault(ins.Vault)
	if err != nil {
		return err
	}
	u, ok := s.unlocks[ins.Ref]
	if !ok {
		return fmt.Errorf("%w: account %s, lot %d", ErrUnknownUnlock, ins.Ref.AccountID, ins.Ref.LotID)
	}
	if u.amount.LT(ins.Amount) {
		return fmt.Errorf("%w: lot %d holds %s, needs %s", ErrInsufficientFunds, ins.Ref.LotID, u.amount, ins.Amount)
	}
	if u.amount.Equal(ins.Amount) {
		delete(s.unlocks, ins.Ref)
	} else {
		u.amount = u.amount.Sub(ins.Amount)
		s.unlocks[ins.Ref] = u
	}
	return w.burn(s, w.identity, ins.Amount)
}

var _ usecase.InstructionExecutor = (*Executor)(nil)
