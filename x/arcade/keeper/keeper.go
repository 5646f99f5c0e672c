package keeper

import (
	"encoding/json"
	"sync"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"

	"dinorun/x/arcade/types"
)

// Keeper is the devnet ledger: an in-process stand-in for the game contract
// backed by a cosmos-db store.
type Keeper struct {
	db     dbm.DB
	logger log.Logger

	// mu serializes read-modify-write sequences, one call at a time like a
	// block producer would.
	mu *sync.Mutex
}

// NewKeeper creates a new devnet ledger Keeper instance
func NewKeeper(db dbm.DB, logger log.Logger) Keeper {
	return Keeper{
		db:     db,
		logger: logger.With("module", "x/"+types.ModuleName+"/keeper"),
		mu:     &sync.Mutex{},
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger() log.Logger {
	return k.logger
}

// GetParams returns current params or defaults when unset.
func (k Keeper) GetParams() (types.Params, error) {
	params := types.DefaultParams()
	found, err := k.getJSON(types.ParamsKey, &params)
	if err != nil {
		return types.Params{}, err
	}
	if !found {
		return types.DefaultParams(), nil
	}
	return params, nil
}

// SetParams stores validated params.
func (k Keeper) SetParams(params types.Params) error {
	if err := params.Validate(); err != nil {
		return errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	return k.setJSON(types.ParamsKey, params)
}

// GetPlayerCredits returns the paid rounds of a player not yet redeemed.
func (k Keeper) GetPlayerCredits(player types.Address) (uint64, error) {
	var credits uint64
	if _, err := k.getJSON(types.PlayerKey(types.PlayerCreditsKeyPrefix, player), &credits); err != nil {
		return 0, err
	}
	return credits, nil
}

// SetPlayerCredits sets the credits for a player.
func (k Keeper) SetPlayerCredits(player types.Address, credits uint64) error {
	return k.setJSON(types.PlayerKey(types.PlayerCreditsKeyPrefix, player), credits)
}

// PersonalBest returns a player's top three scores, zero when never played.
func (k Keeper) PersonalBest(player types.Address) (types.PersonalBest, error) {
	var pb types.PersonalBest
	if _, err := k.getJSON(types.PlayerKey(types.PersonalBestKeyPrefix, player), &pb); err != nil {
		return types.PersonalBest{}, err
	}
	return pb, nil
}

// GlobalTop10 returns the raw global table. Rows are sorted by score and a
// player may appear more than once.
func (k Keeper) GlobalTop10() ([]types.ScoreEntry, error) {
	var top []types.ScoreEntry
	if _, err := k.getJSON(types.GlobalTopKey, &top); err != nil {
		return nil, err
	}
	return top, nil
}

// ReverseName returns the name registered for player, "" when none.
func (k Keeper) ReverseName(player types.Address) (string, error) {
	var name string
	if _, err := k.getJSON(types.PlayerKey(types.NameKeyPrefix, player), &name); err != nil {
		return "", err
	}
	return name, nil
}

func (k Keeper) getJSON(key []byte, v any) (bool, error) {
	bz, err := k.db.Get(key)
	if err != nil {
		return false, errorsmod.Wrapf(err, "failed to read %s", key)
	}
	if bz == nil {
		return false, nil
	}
	if err := json.Unmarshal(bz, v); err != nil {
		return false, errorsmod.Wrapf(err, "failed to decode %s", key)
	}
	return true, nil
}

func (k Keeper) setJSON(key []byte, v any) error {
	bz, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return k.db.SetSync(key, bz)
}

func batchSetJSON(batch dbm.Batch, key []byte, v any) error {
	bz, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return batch.Set(key, bz)
}

// GetBundle returns a stored call bundle.
func (k Keeper) GetBundle(id string) (types.BundleRecord, error) {
	var b types.BundleRecord
	found, err := k.getJSON(types.KeyPrefix(string(types.BundleKeyPrefix)+id), &b)
	if err != nil {
		return types.BundleRecord{}, err
	}
	if !found {
		return types.BundleRecord{}, errorsmod.Wrapf(types.ErrNotFound, "bundle %s", id)
	}
	return b, nil
}

// SetBundle stores a call bundle.
func (k Keeper) SetBundle(b types.BundleRecord) error {
	return k.setJSON(types.KeyPrefix(string(types.BundleKeyPrefix)+b.ID), b)
}
