package simulation

import (
	"fmt"
	"math/rand"
	"sort"

	"dinorun/x/arcade/types"
)

// RandomizedGenState returns a genesis with random personal bests for accs,
// the matching global top table and a few reverse names.
func RandomizedGenState(r *rand.Rand, accs []types.Address, params types.Params) types.GenesisState {
	genesis := types.GenesisState{Params: params}

	var all []types.ScoreEntry
	for _, acc := range accs {
		var pb types.PersonalBest
		for i := r.Intn(4); i > 0; i-- {
			score := uint64(r.Intn(3000) + 1)
			pb, _ = pb.Insert(score)
			all = append(all, types.ScoreEntry{Player: acc, Score: score})
		}
		if pb.Best > 0 {
			genesis.PersonalBests = append(genesis.PersonalBests, types.PlayerBest{Player: acc, PersonalBest: pb})
		}
		if r.Intn(3) == 0 {
			genesis.Names = append(genesis.Names, types.NameRecord{Player: acc, Name: fmt.Sprintf("runner%d.base.eth", r.Intn(1000))})
		}
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Score > all[j].Score })
	if len(all) > types.GlobalTopSize {
		all = all[:types.GlobalTopSize]
	}
	genesis.GlobalTop = all
	return genesis
}
