package usecase

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"github.com/iho/creditledger/internal/domain"
)

// StepResult is the outcome of a single dispatched step.
type StepResult struct {
	// Messages run before the rest of the queue, in order.
	Messages []domain.Message
	Events   []domain.Event
}

func (r *StepResult) add(msgs ...domain.Message) {
	r.Messages = append(r.Messages, msgs...)
}

func (r *StepResult) emit(eventType string, kv ...string) {
	r.Events = append(r.Events, domain.NewEvent(eventType, kv...))
}

// CoinLedger owns the per-account collateral balances.
type CoinLedger struct {
	identity string
	repo     CoinBalanceRepository
	bank     BankQuerier
}

func NewCoinLedger(identity string, repo CoinBalanceRepository, bank BankQuerier) *CoinLedger {
	return &CoinLedger{identity: identity, repo: repo, bank: bank}
}

func (l *CoinLedger) Balance(ctx context.Context, tx Transaction, accountID, denom string) (sdkmath.Int, error) {
	return l.repo.Get(ctx, tx, accountID, denom)
}

func (l *CoinLedger) Balances(ctx context.Context, tx Transaction, accountID string) ([]domain.Coin, error) {
	return l.repo.ListByAccount(ctx, tx, accountID)
}

// Increment credits coin to the account.
func (l *CoinLedger) Increment(ctx context.Context, tx Transaction, accountID string, coin domain.Coin) error {
	current, err := l.repo.Get(ctx, tx, accountID, coin.Denom)
	if err != nil {
		return err
	}
	next, err := domain.SafeAdd(current, coin.Amount)
	if err != nil {
		return err
	}
	return l.repo.Set(ctx, tx, accountID, coin.Denom, next)
}

// Decrement debits coin from the account. Debiting more than the balance is an underflow.
func (l *CoinLedger) Decrement(ctx context.Context, tx Transaction, accountID string, coin domain.Coin) error {
	current, err := l.repo.Get(ctx, tx, accountID, coin.Denom)
	if err != nil {
		return err
	}
	next, err := domain.SafeSub(current, coin.Amount)
	if err != nil {
		return errorsmod.Wrapf(err, "account %s balance of %s", accountID, coin.Denom)
	}
	return l.repo.Set(ctx, tx, accountID, coin.Denom, next)
}

// Transfer moves coin between two accounts.
func (l *CoinLedger) Transfer(ctx context.Context, tx Transaction, from, to string, coin domain.Coin) error {
	if err := l.Decrement(ctx, tx, from, coin); err != nil {
		return err
	}
	return l.Increment(ctx, tx, to, coin)
}

// ProtocolBalances queries the protocol's bank balance of each denom.
func (l *CoinLedger) ProtocolBalances(ctx context.Context, denoms []string) ([]domain.Coin, error) {
	out := make([]domain.Coin, 0, len(denoms))
	for _, denom := range denoms {
		amount, err := l.bank.Balance(ctx, l.identity, denom)
		if err != nil {
			return nil, domain.ExternalError(err, "bank balance")
		}
		out = append(out, domain.Coin{Denom: denom, Amount: amount})
	}
	return out, nil
}

// UpdateCoinBalances credits accountID with whatever the protocol received
// since previous was recorded.
func (l *CoinLedger) UpdateCoinBalances(ctx context.Context, tx Transaction, s domain.UpdateCoinBalancesStep) (*StepResult, error) {
	res := &StepResult{}
	for _, prev := range s.Previous {
		current, err := l.bank.Balance(ctx, l.identity, prev.Denom)
		if err != nil {
			return nil, domain.ExternalError(err, "bank balance")
		}
		diff, err := domain.SafeSub(current, prev.Amount)
		if err != nil {
			return nil, errorsmod.Wrapf(err, "protocol balance of %s decreased", prev.Denom)
		}
		if diff.IsZero() {
			continue
		}
		received := domain.Coin{Denom: prev.Denom, Amount: diff}
		if err := l.Increment(ctx, tx, s.AccountID, received); err != nil {
			return nil, err
		}
		res.emit("coin_balance_updated", "account_id", s.AccountID, "coin", received.String())
	}
	return res, nil
}

// Withdraw debits the account and sends the coin to the recipient.
func (l *CoinLedger) Withdraw(ctx context.Context, tx Transaction, s domain.WithdrawStep) (*StepResult, error) {
	if err := s.Coin.Validate(); err != nil {
		return nil, err
	}
	if err := l.Decrement(ctx, tx, s.AccountID, s.Coin); err != nil {
		return nil, err
	}
	res := &StepResult{}
	res.add(domain.BankSend{Recipient: s.Recipient, Coins: []domain.Coin{s.Coin}})
	res.emit("withdraw", "account_id", s.AccountID, "coin", s.Coin.String(), "recipient", s.Recipient)
	return res, nil
}

// RefundAll sends every balance of the account to the recipient.
func (l *CoinLedger) RefundAll(ctx context.Context, tx Transaction, s domain.RefundAllCoinBalancesStep) (*StepResult, error) {
	coins, err := l.repo.ListByAccount(ctx, tx, s.AccountID)
	if err != nil {
		return nil, err
	}
	res := &StepResult{}
	if len(coins) == 0 {
		return res, nil
	}
	for _, coin := range coins {
		if err := l.Decrement(ctx, tx, s.AccountID, coin); err != nil {
			return nil, err
		}
	}
	res.add(domain.BankSend{Recipient: s.Recipient, Coins: coins})
	res.emit("refund_all_coin_balances", "account_id", s.AccountID, "recipient", s.Recipient)
	return res, nil
}
