package types

import (
	"fmt"
)

// GlobalTopSize is the number of rows kept in the global table.
const GlobalTopSize = 10

// PlayerBest is a personal best record in genesis.
type PlayerBest struct {
	Player       Address      `json:"player"`
	PersonalBest PersonalBest `json:"personal_best"`
}

// NameRecord is a reverse name record in genesis.
type NameRecord struct {
	Player Address `json:"player"`
	Name   string  `json:"name"`
}

// GenesisState is the initial content of a devnet ledger.
type GenesisState struct {
	Params        Params       `json:"params"`
	PersonalBests []PlayerBest `json:"personal_bests"`
	GlobalTop     []ScoreEntry `json:"global_top"`
	Names         []NameRecord `json:"names"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params: DefaultParams(),
	}
}

// Validate performs basic genesis state validation returning an error upon any
// failure.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	seen := make(map[string]bool, len(gs.PersonalBests))
	for _, pb := range gs.PersonalBests {
		if err := pb.Player.Validate(); err != nil {
			return fmt.Errorf("personal best: %w", err)
		}
		if seen[pb.Player.Key()] {
			return fmt.Errorf("duplicate personal best for %s", pb.Player)
		}
		seen[pb.Player.Key()] = true
		if err := pb.PersonalBest.Validate(); err != nil {
			return fmt.Errorf("personal best of %s: %w", pb.Player, err)
		}
	}

	if len(gs.GlobalTop) > GlobalTopSize {
		return fmt.Errorf("global top holds %d rows, at most %d allowed", len(gs.GlobalTop), GlobalTopSize)
	}
	for i, entry := range gs.GlobalTop {
		if err := entry.Player.Validate(); err != nil {
			return fmt.Errorf("global top row %d: %w", i, err)
		}
		if i > 0 && entry.Score > gs.GlobalTop[i-1].Score {
			return fmt.Errorf("global top is not sorted at row %d", i)
		}
	}

	names := make(map[string]bool, len(gs.Names))
	for _, rec := range gs.Names {
		if err := (MsgRegisterName{Creator: rec.Player, Name: rec.Name}).ValidateBasic(); err != nil {
			return err
		}
		if names[rec.Player.Key()] {
			return fmt.Errorf("duplicate name record for %s", rec.Player)
		}
		names[rec.Player.Key()] = true
	}
	return nil
}
