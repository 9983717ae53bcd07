package sandbox

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

// Vault is a simulated yield vault. Deposits mint vault tokens at the ratio
// of token supply to held base coins.
type Vault struct {
	world   *World
	address string
}

func (v *Vault) Address() string {
	return v.address
}

// state must be called with the world lock held.
func (v *Vault) state() (*vaultState, error) {
	s, ok := v.world.vaults[v.address]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVault, v.address)
	}
	return s, nil
}

func (v *Vault) Info(ctx context.Context) (domain.VaultInfo, error) {
	v.world.mu.Lock()
	defer v.world.mu.Unlock()
	s, err := v.state()
	if err != nil {
		return domain.VaultInfo{}, err
	}
	return s.info, nil
}

func (v *Vault) LockupDuration(ctx context.Context) (domain.VaultLockup, error) {
	v.world.mu.Lock()
	defer v.world.mu.Unlock()
	s, err := v.state()
	if err != nil {
		return domain.VaultLockup{}, err
	}
	return domain.VaultLockup{Duration: s.lockup}, nil
}

func (v *Vault) BalanceOf(ctx context.Context, holder string) (sdkmath.Int, error) {
	v.world.mu.Lock()
	defer v.world.mu.Unlock()
	s, err := v.state()
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	return domain.AmountOrZero(s.holders[holder]), nil
}

func (v *Vault) PreviewRedeem(ctx context.Context, amount sdkmath.Int) ([]domain.Coin, error) {
	v.world.mu.Lock()
	defer v.world.mu.Unlock()
	s, err := v.state()
	if err != nil {
		return nil, err
	}
	redeemed, err := v.world.redeemValue(s, amount)
	if err != nil {
		return nil, err
	}
	return []domain.Coin{{Denom: s.info.BaseTokenDenom, Amount: redeemed}}, nil
}

func (v *Vault) IsMatured(ctx context.Context, ref domain.UnlockRef) (bool, error) {
	v.world.mu.Lock()
	defer v.world.mu.Unlock()
	s, err := v.state()
	if err != nil {
		return false, err
	}
	u, ok := s.unlocks[ref]
	if !ok {
		return false, fmt.Errorf("%w: account %s, lot %d", ErrUnknownUnlock, ref.AccountID, ref.LotID)
	}
	return !v.world.now.Before(u.maturesAt), nil
}

func (v *Vault) Deposit(ctx context.Context, coin domain.Coin) (domain.Instruction, error) {
	return domain.VaultDeposit{Vault: v.address, Coin: coin}, nil
}

func (v *Vault) Withdraw(ctx context.Context, amount sdkmath.Int, forced bool) (domain.Instruction, error) {
	return domain.VaultWithdraw{Vault: v.address, Amount: amount, Forced: forced}, nil
}

func (v *Vault) ForceWithdrawUnlocking(ctx context.Context, ref domain.UnlockRef, amount sdkmath.Int) (domain.Instruction, error) {
	return domain.VaultForceWithdrawUnlocking{Vault: v.address, Ref: ref, Amount: amount}, nil
}

func (v *Vault) RequestUnlock(ctx context.Context, ref domain.UnlockRef, amount sdkmath.Int) (domain.Instruction, error) {
	return domain.VaultRequestUnlock{Vault: v.address, Ref: ref, Amount: amount}, nil
}

func (v *Vault) WithdrawUnlocked(ctx context.Context, ref domain.UnlockRef) (domain.Instruction, error) {
	return domain.VaultWithdrawUnlocked{Vault: v.address, Ref: ref}, nil
}

func (w *World) assets(s *vaultState) sdkmath.Int {
	return w.balance(s.address, s.info.BaseTokenDenom)
}

// mintValue returns the vault tokens minted for a deposit of amount base coins.
func (w *World) mintValue(s *vaultState, amount sdkmath.Int) (sdkmath.Int, error) {
	assets := w.assets(s)
	if s.supply.IsZero() || assets.IsZero() {
		return amount, nil
	}
	return domain.MulDivFloor(amount, s.supply, assets)
}

// redeemValue returns the base coins paid out for amount vault tokens.
func (w *World) redeemValue(s *vaultState, amount sdkmath.Int) (sdkmath.Int, error) {
	amount = domain.AmountOrZero(amount)
	if amount.IsZero() || s.supply.IsZero() {
		return sdkmath.ZeroInt(), nil
	}
	return domain.MulDivFloor(amount, w.assets(s), s.supply)
}

// burn redeems amount vault tokens held by holder and pays the base coins out.
func (w *World) burn(s *vaultState, holder string, amount sdkmath.Int) error {
	held := domain.AmountOrZero(s.holders[holder])
	if held.LT(amount) {
		return fmt.Errorf("%w: %s holds %s vault tokens of %s, needs %s",
			ErrInsufficientFunds, holder, held, s.address, amount)
	}
	redeemed, err := w.redeemValue(s, amount)
	if err != nil {
		return err
	}
	s.holders[holder] = held.Sub(amount)
	s.supply = s.supply.Sub(amount)
	if redeemed.IsZero() {
		return nil
	}
	return w.send(s.address, holder, domain.Coin{Denom: s.info.BaseTokenDenom, Amount: redeemed})
}

// unlocking sums every pending unlock request.
func (s *vaultState) unlocking() sdkmath.Int {
	total := sdkmath.ZeroInt()
	for _, u := range s.unlocks {
		total = total.Add(u.amount)
	}
	return total
}

var _ usecase.Vault = (*Vault)(nil)
