package session

import (
	"dinorun/x/arcade/types"
)

// Event is an input to Update.
type Event interface {
	isEvent()
}

type (
	// AccountChanged carries the wallet's current connection.
	AccountChanged struct{ Account types.Account }
	// ConnectRequested asks for a wallet connection.
	ConnectRequested struct{}
	// DisconnectRequested asks to disconnect the wallet.
	DisconnectRequested struct{}
	// PayRequested is the user pressing pay.
	PayRequested struct{}
	// PaymentSubmitted reports the bundle created for a payment request.
	PaymentSubmitted struct{ Bundle types.PaymentBundle }
	// PaymentRejected reports a payment request that produced no bundle.
	PaymentRejected struct{ Err error }
	// PaymentConfirmed reports a bundle reaching success.
	PaymentConfirmed struct{ BundleID string }
	// PaymentFailed reports a bundle that failed or was abandoned.
	PaymentFailed struct {
		BundleID string
		Err      error
	}
	// StartRequested is the user starting a paid round.
	StartRequested struct{}
	// JumpRequested is a jump input.
	JumpRequested struct{}
	// RoundOver is the engine's game over report for a round.
	RoundOver struct {
		Round uint64
		Score uint64
	}
	// EngineFailed reports an engine that could not start a round.
	EngineFailed struct {
		Round uint64
		Err   error
	}
	// ResultDismissed hides the result panel.
	ResultDismissed struct{}
	// RefreshRequested re-reads both ledger views.
	RefreshRequested struct{}
	// PersonalBestLoaded carries a personal best read.
	PersonalBestLoaded struct {
		Player       types.Address
		PersonalBest types.PersonalBest
	}
	// GlobalTop10Loaded carries a raw global top-10 read.
	GlobalTop10Loaded struct{ Entries []types.ScoreEntry }
)

func (AccountChanged) isEvent()      {}
func (ConnectRequested) isEvent()    {}
func (DisconnectRequested) isEvent() {}
func (PayRequested) isEvent()        {}
func (PaymentSubmitted) isEvent()    {}
func (PaymentRejected) isEvent()     {}
func (PaymentConfirmed) isEvent()    {}
func (PaymentFailed) isEvent()       {}
func (StartRequested) isEvent()      {}
func (JumpRequested) isEvent()       {}
func (RoundOver) isEvent()           {}
func (EngineFailed) isEvent()        {}
func (ResultDismissed) isEvent()     {}
func (RefreshRequested) isEvent()    {}
func (PersonalBestLoaded) isEvent()  {}
func (GlobalTop10Loaded) isEvent()   {}
