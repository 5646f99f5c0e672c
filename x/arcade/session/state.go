// Package session implements the pay-to-play session state machine. State is
// a value; Update is the only way to move it forward, and Controller runs
// Update on a single event loop while side effects run outside of it.
package session

import (
	"dinorun/x/arcade/types"
)

// Phase is the lifecycle position of a session.
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseAwaitingPayment Phase = "awaiting_payment"
	PhaseReady           Phase = "ready"
	PhasePlaying         Phase = "playing"
	PhaseGameOver        Phase = "game_over"
)

// State is one participant's session as seen by the UI.
type State struct {
	Phase   Phase
	Account types.Account

	// Paying is set while a payment submission is in flight.
	Paying bool
	// Bundle is the submitted payment awaiting confirmation.
	Bundle *types.PaymentBundle
	// HasPaid grants exactly one round.
	HasPaid bool

	Round        uint64
	LastScore    uint64
	NewHighScore bool
	Submitted    bool
	ShowResult   bool

	// PersonalBest is nil until the ledger was read for the current account.
	PersonalBest *types.PersonalBest
	GlobalTop10  []types.ScoreEntry
	Leaderboard  []types.LeaderboardRow

	// LastError is the latest user visible failure (payments only).
	LastError error

	// resume is the phase restored when a payment does not confirm.
	resume Phase
}

// NewState returns an idle session for acct.
func NewState(acct types.Account) State {
	return State{Phase: PhaseIdle, Account: acct}
}

// OnNetwork reports whether the account is connected to chainID.
func (s State) OnNetwork(chainID uint64) bool {
	return s.Account.Connected && s.Account.ChainID == chainID
}

// CanPay reports whether a payment request would be submitted.
func (s State) CanPay() bool {
	return !s.Paying && s.Bundle == nil && !s.HasPaid && s.Phase != PhasePlaying
}
