package session

import (
	"time"

	"dinorun/x/arcade/types"
)

// Effect is a side effect requested by Update and carried out by Controller.
type Effect interface {
	isEffect()
}

type (
	ConnectWallet    struct{}
	DisconnectWallet struct{}
	SwitchNetwork    struct{ ChainID uint64 }
	SubmitPayment    struct{}
	PollPayment      struct{ Bundle types.PaymentBundle }
	AbandonPayment   struct{ BundleID string }
	StartEngine      struct{ Round uint64 }
	Jump             struct{}
	SubmitScore      struct{ Score uint64 }
	ScheduleRefresh  struct{ After time.Duration }
	RefreshLedger    struct{ Player types.Address }
)

func (ConnectWallet) isEffect()    {}
func (DisconnectWallet) isEffect() {}
func (SwitchNetwork) isEffect()    {}
func (SubmitPayment) isEffect()    {}
func (PollPayment) isEffect()      {}
func (AbandonPayment) isEffect()   {}
func (StartEngine) isEffect()      {}
func (Jump) isEffect()             {}
func (SubmitScore) isEffect()      {}
func (ScheduleRefresh) isEffect()  {}
func (RefreshLedger) isEffect()    {}
