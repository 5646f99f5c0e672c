package session

import (
	"dinorun/x/arcade/types"
)

// ShouldSubmit reports whether a finished round is written to the ledger: the
// wallet is connected, the score is positive and it beats the lowest of the
// player's top three (zero when never read).
func ShouldSubmit(connected bool, score uint64, pb *types.PersonalBest) bool {
	return connected && score > 0 && score > types.ThirdOf(pb)
}

// IsNewHighScore reports whether score beats the personal best. It only drives
// the result panel and is independent of ShouldSubmit.
func IsNewHighScore(score uint64, pb *types.PersonalBest) bool {
	return score > types.BestOf(pb)
}
