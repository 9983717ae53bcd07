package domain

import sdkmath "cosmossdk.io/math"

// Instruction is an effect on an external collaborator, produced by the
// collaborator itself and executed after the step that emitted it.
type Instruction interface {
	Message
	isInstruction()
}

const (
	InstructionPoolBorrow                  = "pool_borrow"
	InstructionPoolRepay                   = "pool_repay"
	InstructionVaultDeposit                = "vault_deposit"
	InstructionVaultWithdraw               = "vault_withdraw"
	InstructionVaultForceWithdrawUnlocking = "vault_force_withdraw_unlocking"
	InstructionVaultRequestUnlock          = "vault_request_unlock"
	InstructionVaultWithdrawUnlocked       = "vault_withdraw_unlocked"
	InstructionBankSend                    = "bank_send"
	InstructionBankReceive                 = "bank_receive"
)

// PoolBorrow draws Coin from the lending pool to the protocol.
type PoolBorrow struct {
	Pool string `json:"pool"`
	Coin Coin   `json:"coin"`
}

// PoolRepay returns Coin from the protocol to the lending pool.
type PoolRepay struct {
	Pool string `json:"pool"`
	Coin Coin   `json:"coin"`
}

type VaultDeposit struct {
	Vault string `json:"vault"`
	Coin  Coin   `json:"coin"`
}

// VaultWithdraw redeems vault tokens. Forced withdrawals bypass the lockup.
type VaultWithdraw struct {
	Vault  string      `json:"vault"`
	Amount sdkmath.Int `json:"amount"`
	Forced bool        `json:"forced"`
}

type VaultForceWithdrawUnlocking struct {
	Vault  string      `json:"vault"`
	Ref    UnlockRef   `json:"ref"`
	Amount sdkmath.Int `json:"amount"`
}

type VaultRequestUnlock struct {
	Vault  string      `json:"vault"`
	Ref    UnlockRef   `json:"ref"`
	Amount sdkmath.Int `json:"amount"`
}

type VaultWithdrawUnlocked struct {
	Vault string    `json:"vault"`
	Ref   UnlockRef `json:"ref"`
}

// BankSend transfers coins held by the protocol to Recipient.
type BankSend struct {
	Recipient string `json:"recipient"`
	Coins     []Coin `json:"coins"`
}

// BankReceive collects the funds attached to a batch from Sender.
type BankReceive struct {
	Sender string `json:"sender"`
	Coins  []Coin `json:"coins"`
}

func (PoolBorrow) Kind() string                  { return InstructionPoolBorrow }
func (PoolRepay) Kind() string                   { return InstructionPoolRepay }
func (VaultDeposit) Kind() string                { return InstructionVaultDeposit }
func (VaultWithdraw) Kind() string               { return InstructionVaultWithdraw }
func (VaultForceWithdrawUnlocking) Kind() string { return InstructionVaultForceWithdrawUnlocking }
func (VaultRequestUnlock) Kind() string          { return InstructionVaultRequestUnlock }
func (VaultWithdrawUnlocked) Kind() string       { return InstructionVaultWithdrawUnlocked }
func (BankSend) Kind() string                    { return InstructionBankSend }
func (BankReceive) Kind() string                 { return InstructionBankReceive }

func (PoolBorrow) isInstruction()                  {}
func (PoolRepay) isInstruction()                   {}
func (VaultDeposit) isInstruction()                {}
func (VaultWithdraw) isInstruction()               {}
func (VaultForceWithdrawUnlocking) isInstruction() {}
func (VaultRequestUnlock) isInstruction()          {}
func (VaultWithdrawUnlocked) isInstruction()       {}
func (BankSend) isInstruction()                    {}
func (BankReceive) isInstruction()                 {}
