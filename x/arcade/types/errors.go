package types

import (
	errorsmod "cosmossdk.io/errors"
)

var (
	ErrInvalidRequest     = errorsmod.Register(ModuleName, 1, "invalid request")
	ErrNotFound           = errorsmod.Register(ModuleName, 2, "not found")
	ErrUnauthorized       = errorsmod.Register(ModuleName, 3, "unauthorized")
	ErrInsufficientFund   = errorsmod.Register(ModuleName, 4, "insufficient funds or credits")
	ErrLimitExceeded      = errorsmod.Register(ModuleName, 5, "limit exceeded")
	ErrNotConnected       = errorsmod.Register(ModuleName, 6, "wallet not connected")
	ErrWrongNetwork       = errorsmod.Register(ModuleName, 7, "wrong network")
	ErrPaymentPending     = errorsmod.Register(ModuleName, 8, "payment already pending")
	ErrPaymentFailed      = errorsmod.Register(ModuleName, 9, "payment failed")
	ErrPaymentAbandoned   = errorsmod.Register(ModuleName, 10, "payment confirmation abandoned")
	ErrSubmissionRejected = errorsmod.Register(ModuleName, 11, "call submission rejected")
	ErrInvalidAddress     = errorsmod.Register(ModuleName, 12, "invalid address")
	ErrAlreadyConfirmed   = errorsmod.Register(ModuleName, 13, "bundle already confirmed")
)
