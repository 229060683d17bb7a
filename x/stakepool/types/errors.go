package types

import (
	errorsmod "cosmossdk.io/errors"
)

// x/stakepool module sentinel errors
var (
	ErrInvalidAmount       = errorsmod.Register(ModuleName, 2, "invalid amount")
	ErrInsufficientStaked  = errorsmod.Register(ModuleName, 3, "insufficient staked amount")
	ErrInsufficientFunds   = errorsmod.Register(ModuleName, 4, "insufficient funds to withdraw")
	ErrInvalidClaim        = errorsmod.Register(ModuleName, 5, "nothing to claim")
	ErrClockRegression     = errorsmod.Register(ModuleName, 6, "clock regression")
	ErrStorageFailure      = errorsmod.Register(ModuleName, 7, "storage failure")
	ErrInvalidDenom        = errorsmod.Register(ModuleName, 8, "invalid denom")
	ErrParticipantNotFound = errorsmod.Register(ModuleName, 9, "participant not found")
	ErrPoolNotInitialized  = errorsmod.Register(ModuleName, 10, "pool not initialized")
	ErrInvalidAddress      = errorsmod.Register(ModuleName, 11, "invalid participant address")
	ErrInvalidParams       = errorsmod.Register(ModuleName, 12, "invalid params")
	ErrArithmeticOverflow  = errorsmod.Register(ModuleName, 13, "arithmetic overflow")
	ErrPoolHalted          = errorsmod.Register(ModuleName, 14, "pool operations halted")
)
