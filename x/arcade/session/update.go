package session

import (
	"dinorun/x/arcade/leaderboard"
	"dinorun/x/arcade/payment"
	"dinorun/x/arcade/types"
)

// Update applies ev to s and returns the next state with the side effects to
// run. It never blocks and never mutates values reachable from s.
func Update(s State, ev Event, params types.Params) (State, []Effect) {
	switch ev := ev.(type) {
	case AccountChanged:
		return accountChanged(s, ev.Account)

	case ConnectRequested:
		if s.Account.Connected {
			return s, nil
		}
		return s, []Effect{ConnectWallet{}}

	case DisconnectRequested:
		if !s.Account.Connected {
			return s, nil
		}
		return s, []Effect{DisconnectWallet{}}

	case PayRequested:
		if !s.CanPay() {
			return s, nil
		}
		if !s.Account.Connected {
			return s, []Effect{ConnectWallet{}}
		}
		if !s.OnNetwork(params.ChainID) {
			return s, []Effect{SwitchNetwork{ChainID: params.ChainID}}
		}
		s.Paying = true
		s.LastError = nil
		return s, []Effect{SubmitPayment{}}

	case PaymentSubmitted:
		if !s.Paying {
			// submitted for a session that has since been reset
			return s, []Effect{AbandonPayment{BundleID: ev.Bundle.ID}}
		}
		bundle := ev.Bundle
		s.Paying = false
		s.Bundle = &bundle
		s.resume = s.Phase
		s.Phase = PhaseAwaitingPayment
		return s, []Effect{PollPayment{Bundle: bundle}}

	case PaymentRejected:
		if !s.Paying {
			return s, nil
		}
		s.Paying = false
		if !payment.IsRedirect(ev.Err) {
			s.LastError = ev.Err
		}
		return s, nil

	case PaymentConfirmed:
		if s.Bundle == nil || s.Bundle.ID != ev.BundleID {
			return s, nil
		}
		s.Bundle = nil
		s.HasPaid = true
		s.Phase = PhaseReady
		return s, nil

	case PaymentFailed:
		if s.Bundle == nil || s.Bundle.ID != ev.BundleID {
			return s, nil
		}
		s.Bundle = nil
		s.Phase = s.resume
		s.LastError = ev.Err
		return s, nil

	case StartRequested:
		if s.Phase != PhaseReady || !s.HasPaid {
			return s, nil
		}
		s.Round++
		s.Phase = PhasePlaying
		s.ShowResult = false
		s.LastError = nil
		return s, []Effect{StartEngine{Round: s.Round}}

	case JumpRequested:
		if s.Phase != PhasePlaying {
			return s, nil
		}
		return s, []Effect{Jump{}}

	case RoundOver:
		if s.Phase != PhasePlaying || ev.Round != s.Round {
			return s, nil
		}
		return roundOver(s, ev.Score, params)

	case EngineFailed:
		if s.Phase != PhasePlaying || ev.Round != s.Round {
			return s, nil
		}
		s.Phase = PhaseReady
		s.LastError = ev.Err
		return s, nil

	case ResultDismissed:
		s.ShowResult = false
		return s, nil

	case RefreshRequested:
		return s, []Effect{RefreshLedger{Player: connectedPlayer(s)}}

	case PersonalBestLoaded:
		if !s.Account.Connected || !s.Account.Address.Equal(ev.Player) {
			return s, nil
		}
		pb := ev.PersonalBest
		s.PersonalBest = &pb
		return s, nil

	case GlobalTop10Loaded:
		s.GlobalTop10 = ev.Entries
		s.Leaderboard = leaderboard.Reconcile(ev.Entries)
		return s, nil
	}

	return s, nil
}

// roundOver ends the current round. The payment is spent, the high score
// classification is taken against the cached personal best before any write,
// and a qualifying score is written and followed by one delayed refresh.
func roundOver(s State, score uint64, params types.Params) (State, []Effect) {
	s.Phase = PhaseGameOver
	s.HasPaid = false
	s.LastScore = score
	s.ShowResult = true
	s.NewHighScore = IsNewHighScore(score, s.PersonalBest)
	s.Submitted = ShouldSubmit(s.Account.Connected, score, s.PersonalBest)
	if !s.Submitted {
		return s, nil
	}
	return s, []Effect{
		SubmitScore{Score: score},
		ScheduleRefresh{After: params.RefreshDelay},
	}
}

// accountChanged starts a fresh session when the participant changes. A round
// in progress is left to finish; only the connection it sees is updated.
func accountChanged(s State, acct types.Account) (State, []Effect) {
	sameParticipant := s.Account.Connected == acct.Connected && s.Account.Address.Equal(acct.Address)
	if sameParticipant || s.Phase == PhasePlaying {
		s.Account = acct
		return s, nil
	}

	var effects []Effect
	if s.Bundle != nil {
		effects = append(effects, AbandonPayment{BundleID: s.Bundle.ID})
	}

	next := NewState(acct)
	next.Round = s.Round
	next.GlobalTop10 = s.GlobalTop10
	next.Leaderboard = s.Leaderboard
	effects = append(effects, RefreshLedger{Player: connectedPlayer(next)})
	return next, effects
}

func connectedPlayer(s State) types.Address {
	if !s.Account.Connected {
		return ""
	}
	return s.Account.Address
}
