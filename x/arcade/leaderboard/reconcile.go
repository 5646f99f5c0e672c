// Package leaderboard turns the ledger's raw global top-10 table into the
// ranked view shown to players.
package leaderboard

import (
	"sort"

	"dinorun/x/arcade/types"
)

// Reconcile deduplicates raw ledger rows by case-folded player, keeping each
// player's maximum score together with the casing of the row that carried it.
// Rows with a zero score are dropped. The result is sorted by score descending;
// equal scores keep the order in which their players first appeared.
func Reconcile(raw []types.ScoreEntry) []types.LeaderboardRow {
	best := make(map[string]int, len(raw))
	rows := make([]types.LeaderboardRow, 0, len(raw))

	for _, entry := range raw {
		if entry.Score == 0 {
			continue
		}
		key := entry.Player.Key()
		i, ok := best[key]
		if !ok {
			best[key] = len(rows)
			rows = append(rows, types.LeaderboardRow{Player: entry.Player, Score: entry.Score})
			continue
		}
		if entry.Score > rows[i].Score {
			rows[i] = types.LeaderboardRow{Player: entry.Player, Score: entry.Score}
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Score > rows[j].Score
	})
	return rows
}

// Rank returns the 1-based position of player in rows, or 0 when absent.
func Rank(rows []types.LeaderboardRow, player types.Address) int {
	for i, row := range rows {
		if row.Player.Equal(player) {
			return i + 1
		}
	}
	return 0
}
