package usecase

import (
	"context"
	"errors"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/infrastructure/metrics"
)

// VaultLedger owns the per-account vault positions.
type VaultLedger struct {
	identity string
	repo     VaultPositionRepository
	coins    *CoinLedger
	vaults   VaultRegistry
	oracle   Oracle
	config   ConfigReader
	metrics  *metrics.Metrics
}

func NewVaultLedger(
	identity string,
	repo VaultPositionRepository,
	coins *CoinLedger,
	vaults VaultRegistry,
	oracle Oracle,
	config ConfigReader,
	metrics *metrics.Metrics,
) *VaultLedger {
	return &VaultLedger{
		identity: identity,
		repo:     repo,
		coins:    coins,
		vaults:   vaults,
		oracle:   oracle,
		config:   config,
		metrics:  metrics,
	}
}

func (l *VaultLedger) vault(ctx context.Context, address string) (Vault, error) {
	v, err := l.vaults.Vault(ctx, address)
	if err != nil {
		return nil, domain.ExternalError(err, "resolve vault")
	}
	return v, nil
}

func (l *VaultLedger) assertVaultAllowed(ctx context.Context, address string) error {
	cfg, err := l.config.VaultConfig(ctx, address)
	if err != nil {
		if errors.Is(err, domain.ErrVaultNotFound) {
			return errorsmod.Wrapf(domain.ErrNotWhitelisted, "vault %s", address)
		}
		return err
	}
	if !cfg.Whitelisted {
		return errorsmod.Wrapf(domain.ErrNotWhitelisted, "vault %s", address)
	}
	return nil
}

// Position loads the account's position in vault, or an empty one.
func (l *VaultLedger) Position(ctx context.Context, tx Transaction, accountID, vault string) (*domain.VaultPosition, error) {
	pos, err := l.repo.Get(ctx, tx, accountID, vault)
	if errors.Is(err, domain.ErrVaultPositionNotFound) {
		return domain.NewVaultPosition(accountID, vault), nil
	}
	return pos, err
}

// OpenPosition loads the account's position in vault. A missing or empty
// position is ErrVaultPositionNotFound.
func (l *VaultLedger) OpenPosition(ctx context.Context, tx Transaction, accountID, vault string) (*domain.VaultPosition, error) {
	pos, err := l.repo.Get(ctx, tx, accountID, vault)
	if err != nil {
		return nil, err
	}
	if pos.IsEmpty() {
		return nil, errorsmod.Wrapf(domain.ErrVaultPositionNotFound, "account %s, vault %s", accountID, vault)
	}
	return pos, nil
}

// Positions lists every vault position of the account.
func (l *VaultLedger) Positions(ctx context.Context, tx Transaction, accountID string) ([]*domain.VaultPosition, error) {
	return l.repo.ListByAccount(ctx, tx, accountID)
}

// protocolHoldings previews the coins redeemable for every vault token the protocol holds.
func (l *VaultLedger) protocolHoldings(ctx context.Context, v Vault) ([]domain.Coin, error) {
	held, err := v.BalanceOf(ctx, l.identity)
	if err != nil {
		return nil, domain.ExternalError(err, "vault balance")
	}
	if held.IsZero() {
		return nil, nil
	}
	coins, err := v.PreviewRedeem(ctx, held)
	if err != nil {
		return nil, domain.ExternalError(err, "vault preview redeem")
	}
	return coins, nil
}

func (l *VaultLedger) redeemDenoms(ctx context.Context, v Vault, amount sdkmath.Int) ([]string, error) {
	coins, err := v.PreviewRedeem(ctx, amount)
	if err != nil {
		return nil, domain.ExternalError(err, "vault preview redeem")
	}
	denoms := make([]string, 0, len(coins))
	for _, c := range coins {
		denoms = append(denoms, c.Denom)
	}
	return denoms, nil
}

// Enter deposits an account coin into a whitelisted vault. The minted vault
// tokens are credited by the chained UpdateVaultCoinBalance step.
func (l *VaultLedger) Enter(ctx context.Context, tx Transaction, s domain.EnterVaultStep) (*StepResult, error) {
	if err := assertCoinAllowed(ctx, l.config, s.Denom); err != nil {
		return nil, err
	}
	if err := l.assertVaultAllowed(ctx, s.Vault); err != nil {
		return nil, err
	}

	amount := s.Amount.Exact
	if s.Amount.AccountBalance {
		balance, err := l.coins.Balance(ctx, tx, s.AccountID, s.Denom)
		if err != nil {
			return nil, err
		}
		amount = balance
	}
	coin := domain.Coin{Denom: s.Denom, Amount: domain.AmountOrZero(amount)}
	if err := coin.Validate(); err != nil {
		return nil, err
	}

	v, err := l.vault(ctx, s.Vault)
	if err != nil {
		return nil, err
	}
	info, err := v.Info(ctx)
	if err != nil {
		return nil, domain.ExternalError(err, "vault info")
	}
	if info.BaseTokenDenom != coin.Denom {
		return nil, errorsmod.Wrapf(domain.ErrRequirementsNotMet,
			"vault %s accepts %s, received %s", s.Vault, info.BaseTokenDenom, coin.Denom)
	}

	if err := l.assertUnderDepositCap(ctx, v, coin); err != nil {
		return nil, err
	}

	if err := l.coins.Decrement(ctx, tx, s.AccountID, coin); err != nil {
		return nil, err
	}

	previous, err := v.BalanceOf(ctx, l.identity)
	if err != nil {
		return nil, domain.ExternalError(err, "vault balance")
	}
	ins, err := v.Deposit(ctx, coin)
	if err != nil {
		return nil, domain.ExternalError(err, "vault deposit")
	}

	res := &StepResult{}
	res.add(ins, domain.UpdateVaultCoinBalanceStep{
		AccountID:     s.AccountID,
		Vault:         s.Vault,
		PreviousTotal: previous,
	})
	res.emit("enter_vault", "account_id", s.AccountID, "vault", s.Vault, "coin", coin.String())
	return res, nil
}

func (l *VaultLedger) assertUnderDepositCap(ctx context.Context, v Vault, deposit domain.Coin) error {
	cfg, err := l.config.VaultConfig(ctx, v.Address())
	if err != nil {
		return err
	}
	holdings, err := l.protocolHoldings(ctx, v)
	if err != nil {
		return err
	}

	newValue, err := l.oracle.TotalValue(ctx, append(holdings, deposit))
	if err != nil {
		return domain.ExternalError(err, "oracle total value")
	}
	capValue, err := l.oracle.TotalValue(ctx, []domain.Coin{cfg.DepositCap})
	if err != nil {
		return domain.ExternalError(err, "oracle total value")
	}
	if newValue.GreaterThan(capValue) {
		return errorsmod.Wrapf(domain.ErrAboveVaultDepositCap,
			"vault %s: new value %s, maximum %s", v.Address(), newValue, capValue)
	}
	return nil
}

// UpdateVaultCoinBalance credits the vault tokens minted by the preceding
// deposit, into Unlocked for lockup-free vaults and into Locked otherwise.
func (l *VaultLedger) UpdateVaultCoinBalance(ctx context.Context, tx Transaction, s domain.UpdateVaultCoinBalanceStep) (*StepResult, error) {
	v, err := l.vault(ctx, s.Vault)
	if err != nil {
		return nil, err
	}
	current, err := v.BalanceOf(ctx, l.identity)
	if err != nil {
		return nil, domain.ExternalError(err, "vault balance")
	}
	if current.LTE(domain.AmountOrZero(s.PreviousTotal)) {
		return nil, errorsmod.Wrapf(domain.ErrNoVaultCoinsReceived, "vault %s", s.Vault)
	}
	minted := current.Sub(domain.AmountOrZero(s.PreviousTotal))

	lockup, err := v.LockupDuration(ctx)
	if err != nil {
		return nil, domain.ExternalError(err, "vault lockup duration")
	}

	pos, err := l.Position(ctx, tx, s.AccountID, s.Vault)
	if err != nil {
		return nil, err
	}
	if lockup.HasLockup() {
		err = pos.AddLocked(minted)
	} else {
		err = pos.AddUnlocked(minted)
	}
	if err != nil {
		return nil, err
	}
	if err := l.repo.Save(ctx, tx, pos); err != nil {
		return nil, err
	}

	res := &StepResult{}
	res.emit("update_vault_coin_balance", "account_id", s.AccountID, "vault", s.Vault,
		"amount", minted.String(), "locked", strconv.FormatBool(lockup.HasLockup()))
	return res, nil
}

// RequestUnlock moves amount of locked vault tokens into a new unlocking lot.
func (l *VaultLedger) RequestUnlock(ctx context.Context, tx Transaction, s domain.RequestVaultUnlockStep) (*StepResult, error) {
	if s.Amount.IsNil() || !s.Amount.IsPositive() {
		return nil, errorsmod.Wrapf(domain.ErrNoAmount, "vault %s", s.Vault)
	}
	v, err := l.vault(ctx, s.Vault)
	if err != nil {
		return nil, err
	}
	lockup, err := v.LockupDuration(ctx)
	if err != nil {
		return nil, domain.ExternalError(err, "vault lockup duration")
	}
	if !lockup.HasLockup() {
		return nil, errorsmod.Wrapf(domain.ErrRequirementsNotMet, "vault %s has no lockup, use exit_vault", s.Vault)
	}

	params, err := l.config.Params(ctx)
	if err != nil {
		return nil, err
	}
	pos, err := l.repo.Get(ctx, tx, s.AccountID, s.Vault)
	if err != nil {
		return nil, err
	}
	lot, err := pos.RequestUnlock(s.Amount, params.MaxUnlockingPositions)
	if err != nil {
		return nil, err
	}
	if err := l.repo.Save(ctx, tx, pos); err != nil {
		return nil, err
	}

	ins, err := v.RequestUnlock(ctx, domain.UnlockRef{AccountID: s.AccountID, LotID: lot.ID}, lot.Amount)
	if err != nil {
		return nil, domain.ExternalError(err, "vault request unlock")
	}

	if l.metrics != nil {
		l.metrics.UnlockRequests.Inc()
	}

	res := &StepResult{}
	res.add(ins)
	res.emit("request_vault_unlock", "account_id", s.AccountID, "vault", s.Vault,
		"lot_id", strconv.FormatUint(lot.ID, 10), "amount", lot.Amount.String())
	return res, nil
}

// Exit redeems unlocked vault tokens. Redeemed coins are credited by the
// chained UpdateCoinBalances step.
func (l *VaultLedger) Exit(ctx context.Context, tx Transaction, s domain.ExitVaultStep) (*StepResult, error) {
	if s.Amount.IsNil() || !s.Amount.IsPositive() {
		return nil, errorsmod.Wrapf(domain.ErrNoAmount, "vault %s", s.Vault)
	}
	pos, err := l.repo.Get(ctx, tx, s.AccountID, s.Vault)
	if err != nil {
		return nil, err
	}
	if err := pos.SubUnlocked(s.Amount); err != nil {
		return nil, errorsmod.Wrapf(err, "unlocked balance of vault %s", s.Vault)
	}
	if err := l.repo.Save(ctx, tx, pos); err != nil {
		return nil, err
	}

	v, err := l.vault(ctx, s.Vault)
	if err != nil {
		return nil, err
	}
	previous, err := l.previousBalances(ctx, v, s.Amount)
	if err != nil {
		return nil, err
	}
	ins, err := v.Withdraw(ctx, s.Amount, false)
	if err != nil {
		return nil, domain.ExternalError(err, "vault withdraw")
	}

	res := &StepResult{}
	res.add(ins, domain.UpdateCoinBalancesStep{AccountID: s.AccountID, Previous: previous})
	res.emit("exit_vault", "account_id", s.AccountID, "vault", s.Vault, "amount", s.Amount.String())
	return res, nil
}

// ExitUnlocked withdraws a matured unlocking lot.
func (l *VaultLedger) ExitUnlocked(ctx context.Context, tx Transaction, s domain.ExitVaultUnlockedStep) (*StepResult, error) {
	pos, err := l.repo.Get(ctx, tx, s.AccountID, s.Vault)
	if err != nil {
		return nil, err
	}
	lot, ok := pos.Lot(s.LotID)
	if !ok {
		return nil, errorsmod.Wrapf(domain.ErrUnlockingLotNotFound, "vault %s, id %d", s.Vault, s.LotID)
	}

	v, err := l.vault(ctx, s.Vault)
	if err != nil {
		return nil, err
	}
	ref := domain.UnlockRef{AccountID: s.AccountID, LotID: lot.ID}
	matured, err := v.IsMatured(ctx, ref)
	if err != nil {
		return nil, domain.ExternalError(err, "vault unlock maturity")
	}
	if !matured {
		return nil, errorsmod.Wrapf(domain.ErrUnlockNotMatured, "vault %s, id %d", s.Vault, s.LotID)
	}

	if _, err := pos.RemoveLot(lot.ID); err != nil {
		return nil, err
	}
	if err := l.repo.Save(ctx, tx, pos); err != nil {
		return nil, err
	}

	previous, err := l.previousBalances(ctx, v, lot.Amount)
	if err != nil {
		return nil, err
	}
	ins, err := v.WithdrawUnlocked(ctx, ref)
	if err != nil {
		return nil, domain.ExternalError(err, "vault withdraw unlocked")
	}

	res := &StepResult{}
	res.add(ins, domain.UpdateCoinBalancesStep{AccountID: s.AccountID, Previous: previous})
	res.emit("exit_vault_unlocked", "account_id", s.AccountID, "vault", s.Vault,
		"lot_id", strconv.FormatUint(lot.ID, 10), "amount", lot.Amount.String())
	return res, nil
}

// Seize removes amount vault tokens from the account's position for a
// liquidation and returns the withdrawal instructions. Lockup vaults drain
// unlocking lots oldest first and then the Locked bucket.
func (l *VaultLedger) Seize(ctx context.Context, tx Transaction, accountID string, v Vault, amount sdkmath.Int) ([]domain.Message, error) {
	pos, err := l.repo.Get(ctx, tx, accountID, v.Address())
	if err != nil {
		return nil, err
	}
	lockup, err := v.LockupDuration(ctx)
	if err != nil {
		return nil, domain.ExternalError(err, "vault lockup duration")
	}

	var msgs []domain.Message
	if !lockup.HasLockup() {
		if err := pos.SubUnlocked(amount); err != nil {
			return nil, err
		}
		ins, err := v.Withdraw(ctx, amount, false)
		if err != nil {
			return nil, domain.ExternalError(err, "vault withdraw")
		}
		msgs = append(msgs, ins)
	} else {
		drain, err := pos.DrainLockup(amount)
		if err != nil {
			return nil, err
		}
		for _, lot := range drain.Lots {
			ins, err := v.ForceWithdrawUnlocking(ctx, domain.UnlockRef{AccountID: accountID, LotID: lot.ID}, lot.Amount)
			if err != nil {
				return nil, domain.ExternalError(err, "vault force withdraw unlocking")
			}
			msgs = append(msgs, ins)
		}
		if drain.Locked.IsPositive() {
			ins, err := v.Withdraw(ctx, drain.Locked, true)
			if err != nil {
				return nil, domain.ExternalError(err, "vault force withdraw")
			}
			msgs = append(msgs, ins)
		}
	}

	if err := l.repo.Save(ctx, tx, pos); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (l *VaultLedger) previousBalances(ctx context.Context, v Vault, amount sdkmath.Int) ([]domain.Coin, error) {
	denoms, err := l.redeemDenoms(ctx, v, amount)
	if err != nil {
		return nil, err
	}
	return l.coins.ProtocolBalances(ctx, denoms)
}

// CountActive returns the number of vaults the account holds tokens in.
func (l *VaultLedger) CountActive(ctx context.Context, tx Transaction, accountID string) (int, error) {
	positions, err := l.repo.ListByAccount(ctx, tx, accountID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, p := range positions {
		if !p.IsEmpty() {
			n++
		}
	}
	return n, nil
}

// AssertOneVaultPositionOnly rejects accounts holding positions in more than one vault.
func (l *VaultLedger) AssertOneVaultPositionOnly(ctx context.Context, tx Transaction, s domain.AssertOneVaultPositionOnlyStep) (*StepResult, error) {
	n, err := l.CountActive(ctx, tx, s.AccountID)
	if err != nil {
		return nil, err
	}
	if n > 1 {
		return nil, errorsmod.Wrapf(domain.ErrOnlyOneVaultPositionAllowed, "account %s holds %d vault positions", s.AccountID, n)
	}
	return &StepResult{}, nil
}
