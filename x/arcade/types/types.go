package types

import (
	"fmt"
)

// ScoreEntry is one row of the ledger's global top-10 table.
type ScoreEntry struct {
	Player Address `json:"player"`
	Score  uint64  `json:"score"`
}

// PersonalBest is the connected participant's top three scores. A zero slot is
// unset. A nil *PersonalBest means the ledger was never read.
type PersonalBest struct {
	Best   uint64 `json:"best"`
	Second uint64 `json:"second"`
	Third  uint64 `json:"third"`
}

// Validate checks the best >= second >= third ordering.
func (pb PersonalBest) Validate() error {
	if pb.Best < pb.Second || pb.Second < pb.Third {
		return fmt.Errorf("personal best out of order: %d, %d, %d", pb.Best, pb.Second, pb.Third)
	}
	return nil
}

// Slots returns the three scores in rank order.
func (pb PersonalBest) Slots() [3]uint64 { return [3]uint64{pb.Best, pb.Second, pb.Third} }

// Insert places score into the top three and reports whether it made the cut.
func (pb PersonalBest) Insert(score uint64) (PersonalBest, bool) {
	switch {
	case score > pb.Best:
		return PersonalBest{Best: score, Second: pb.Best, Third: pb.Second}, true
	case score > pb.Second:
		return PersonalBest{Best: pb.Best, Second: score, Third: pb.Second}, true
	case score > pb.Third:
		return PersonalBest{Best: pb.Best, Second: pb.Second, Third: score}, true
	default:
		return pb, false
	}
}

// BestOf returns the best score, treating an unread record as zero.
func BestOf(pb *PersonalBest) uint64 {
	if pb == nil {
		return 0
	}
	return pb.Best
}

// ThirdOf returns the lowest of the top three, treating an unread record as zero.
func ThirdOf(pb *PersonalBest) uint64 {
	if pb == nil {
		return 0
	}
	return pb.Third
}

// LeaderboardRow is one ranked, deduplicated leaderboard line.
type LeaderboardRow struct {
	Player Address `json:"player"`
	Score  uint64  `json:"score"`
}

// BundleStatus is the confirmation state of a submitted call bundle.
type BundleStatus int

const (
	BundlePending BundleStatus = iota
	BundleSuccess
	BundleFailure
)

func (s BundleStatus) String() string {
	switch s {
	case BundlePending:
		return "pending"
	case BundleSuccess:
		return "success"
	case BundleFailure:
		return "failure"
	default:
		return fmt.Sprintf("BundleStatus(%d)", int(s))
	}
}

// Terminal reports whether the status will not change anymore.
func (s BundleStatus) Terminal() bool { return s == BundleSuccess || s == BundleFailure }

// PaymentBundle tracks one submitted pay-to-play call.
type PaymentBundle struct {
	ID     string       `json:"id"`
	Status BundleStatus `json:"status"`
}

// BundleRecord is a devnet wallet call bundle. Outcome holds the executed
// result; Status stays pending until the bundle was checked Confirmations
// times.
type BundleRecord struct {
	ID            string       `json:"id"`
	Sender        Address      `json:"sender"`
	Outcome       BundleStatus `json:"outcome"`
	Error         string       `json:"error,omitempty"`
	Checks        uint32       `json:"checks"`
	Confirmations uint32       `json:"confirmations"`
}

// Status returns the status reported at the current check count.
func (b BundleRecord) Status() BundleStatus {
	if b.Checks < b.Confirmations {
		return BundlePending
	}
	return b.Outcome
}
