package keeper

import (
	"dinorun/x/arcade/leaderboard"
	"dinorun/x/arcade/types"
)

// Leaderboard returns the reconciled global table.
func (k Keeper) Leaderboard() ([]types.LeaderboardRow, error) {
	top, err := k.GlobalTop10()
	if err != nil {
		return nil, err
	}
	return leaderboard.Reconcile(top), nil
}
