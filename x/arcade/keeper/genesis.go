package keeper

import (
	"bytes"
	"encoding/json"

	errorsmod "cosmossdk.io/errors"

	"dinorun/x/arcade/types"
)

// InitGenesis seeds the ledger from genState.
func (k Keeper) InitGenesis(genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	batch := k.db.NewBatch()
	defer batch.Close()

	if err := batchSetJSON(batch, types.ParamsKey, genState.Params); err != nil {
		return err
	}
	for _, pb := range genState.PersonalBests {
		if err := batchSetJSON(batch, types.PlayerKey(types.PersonalBestKeyPrefix, pb.Player), pb.PersonalBest); err != nil {
			return err
		}
	}
	if err := batchSetJSON(batch, types.GlobalTopKey, genState.GlobalTop); err != nil {
		return err
	}
	for _, rec := range genState.Names {
		if err := batchSetJSON(batch, types.PlayerKey(types.NameKeyPrefix, rec.Player), rec.Name); err != nil {
			return err
		}
	}
	return batch.WriteSync()
}

// ExportGenesis returns the ledger content. Exported players are keyed by
// their case-folded address.
func (k Keeper) ExportGenesis() (*types.GenesisState, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	params, err := k.GetParams()
	if err != nil {
		return nil, err
	}
	genesis := &types.GenesisState{Params: params}

	if genesis.GlobalTop, err = k.GlobalTop10(); err != nil {
		return nil, err
	}

	err = k.iterate(types.PersonalBestKeyPrefix, func(player types.Address, value []byte) error {
		var pb types.PersonalBest
		if err := json.Unmarshal(value, &pb); err != nil {
			return err
		}
		genesis.PersonalBests = append(genesis.PersonalBests, types.PlayerBest{Player: player, PersonalBest: pb})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = k.iterate(types.NameKeyPrefix, func(player types.Address, value []byte) error {
		var name string
		if err := json.Unmarshal(value, &name); err != nil {
			return err
		}
		genesis.Names = append(genesis.Names, types.NameRecord{Player: player, Name: name})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return genesis, nil
}

func (k Keeper) iterate(prefix []byte, cb func(player types.Address, value []byte) error) error {
	it, err := k.db.Iterator(prefix, prefixEnd(prefix))
	if err != nil {
		return err
	}
	defer it.Close()

	for ; it.Valid(); it.Next() {
		player := types.Address(bytes.TrimPrefix(it.Key(), prefix))
		if err := cb(player, it.Value()); err != nil {
			return errorsmod.Wrapf(err, "failed to decode %s", it.Key())
		}
	}
	return it.Error()
}

// prefixEnd returns the first key after every key starting with prefix.
func prefixEnd(prefix []byte) []byte {
	end := bytes.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
