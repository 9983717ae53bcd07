package domain

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
)

// Codespace is the error registry namespace of the credit manager.
const Codespace = "creditmanager"

// Error codes are grouped by class: 10-19 authorization, 20-39 validation,
// 40-59 state, 60-69 arithmetic, 70-79 invariant violation, 80-89 external call.
var (
	// Authorization errors
	ErrNotTokenOwner       = errorsmod.Register(Codespace, 10, "caller is not the owner of the credit account")
	ErrExternalInvocation  = errorsmod.Register(Codespace, 11, "internal step invoked by external caller")
	ErrDisallowedPrincipal = errorsmod.Register(Codespace, 12, "caller is not allowed to hold credit accounts")
	ErrUnauthorized        = errorsmod.Register(Codespace, 13, "unauthorized")

	// Validation errors
	ErrNoAmount           = errorsmod.Register(Codespace, 20, "amount must be greater than zero")
	ErrNotWhitelisted     = errorsmod.Register(Codespace, 21, "asset is not whitelisted")
	ErrDuplicateDenom     = errorsmod.Register(Codespace, 22, "duplicate denom")
	ErrFundsMismatch      = errorsmod.Register(Codespace, 23, "deposit does not match attached funds")
	ErrExtraFundsReceived = errorsmod.Register(Codespace, 24, "attached funds were not fully consumed")
	ErrRequirementsNotMet = errorsmod.Register(Codespace, 25, "requirements not met")
	ErrSelfLiquidation    = errorsmod.Register(Codespace, 26, "account cannot liquidate itself")
	ErrInvalidAction      = errorsmod.Register(Codespace, 27, "invalid action")
	ErrInvalidParams      = errorsmod.Register(Codespace, 28, "invalid protocol parameters")
	ErrInvalidCursor      = errorsmod.Register(Codespace, 29, "invalid pagination cursor")

	// State errors
	ErrAccountNotFound              = errorsmod.Register(Codespace, 40, "credit account not found")
	ErrNoDebt                       = errorsmod.Register(Codespace, 41, "no debt to repay")
	ErrCoinBalanceNotFound          = errorsmod.Register(Codespace, 42, "no balance of coin")
	ErrVaultPositionNotFound        = errorsmod.Register(Codespace, 43, "vault position not found")
	ErrUnlockingLotNotFound         = errorsmod.Register(Codespace, 44, "unlocking position not found")
	ErrUnlockNotMatured             = errorsmod.Register(Codespace, 45, "unlocking position has not matured")
	ErrExceedsMaxUnlockingPositions = errorsmod.Register(Codespace, 46, "new unlocking position exceeds maximum")
	ErrOnlyOneVaultPositionAllowed  = errorsmod.Register(Codespace, 47, "only one vault position allowed")
	ErrAboveVaultDepositCap         = errorsmod.Register(Codespace, 48, "vault deposit cap exceeded")
	ErrVaultNotFound                = errorsmod.Register(Codespace, 49, "vault not found")

	// Arithmetic errors
	ErrOverflow     = errorsmod.Register(Codespace, 60, "overflow")
	ErrUnderflow    = errorsmod.Register(Codespace, 61, "underflow")
	ErrDivideByZero = errorsmod.Register(Codespace, 62, "division by zero")

	// Invariant violations
	ErrHealthRegressed    = errorsmod.Register(Codespace, 70, "account health regressed")
	ErrNotLiquidatable    = errorsmod.Register(Codespace, 71, "account is not liquidatable")
	ErrLedgerInconsistent = errorsmod.Register(Codespace, 72, "ledger totals are inconsistent")

	// External call errors
	ErrNoVaultCoinsReceived = errorsmod.Register(Codespace, 80, "vault did not mint any coins")
	ErrCollaborator         = errorsmod.Register(Codespace, 81, "collaborator call failed")
	ErrStepLimitExceeded    = errorsmod.Register(Codespace, 82, "batch exceeded the step limit")
)

// ErrorClass names one branch of the error taxonomy.
type ErrorClass string

const (
	ClassAuthorization ErrorClass = "authorization"
	ClassValidation    ErrorClass = "validation"
	ClassState         ErrorClass = "state"
	ClassArithmetic    ErrorClass = "arithmetic"
	ClassInvariant     ErrorClass = "invariant_violation"
	ClassExternalCall  ErrorClass = "external_call"
	ClassUnknown       ErrorClass = "unknown"
)

// ClassOf returns the taxonomy class of err, or ClassUnknown when err was not
// registered in Codespace.
func ClassOf(err error) ErrorClass {
	var registered *errorsmod.Error
	if !errors.As(err, &registered) || registered.Codespace() != Codespace {
		return ClassUnknown
	}

	switch code := registered.ABCICode(); {
	case code >= 10 && code < 20:
		return ClassAuthorization
	case code >= 20 && code < 40:
		return ClassValidation
	case code >= 40 && code < 60:
		return ClassState
	case code >= 60 && code < 70:
		return ClassArithmetic
	case code >= 70 && code < 80:
		return ClassInvariant
	case code >= 80 && code < 90:
		return ClassExternalCall
	default:
		return ClassUnknown
	}
}

// CodeOf returns the registered code of err, or zero.
func CodeOf(err error) uint32 {
	var registered *errorsmod.Error
	if errors.As(err, &registered) && registered.Codespace() == Codespace {
		return registered.ABCICode()
	}
	return 0
}

// ExternalError marks err, returned by a collaborator, as an external call error.
// Errors that already belong to the taxonomy are returned unchanged.
func ExternalError(err error, op string) error {
	if err == nil {
		return nil
	}
	if ClassOf(err) != ClassUnknown {
		return err
	}
	return errorsmod.Wrapf(ErrCollaborator, "%s: %s", op, err.Error())
}
