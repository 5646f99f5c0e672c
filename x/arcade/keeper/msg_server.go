package keeper

import (
	"bytes"
	"sort"

	errorsmod "cosmossdk.io/errors"

	"dinorun/x/arcade/types"
)

// MsgServer executes contract calls against the devnet ledger.
type MsgServer struct {
	Keeper
}

func NewMsgServerImpl(k Keeper) MsgServer { return MsgServer{Keeper: k} }

// PayToPlay accepts exactly the configured fee and grants one credit.
// A trailing attribution suffix on the calldata is ignored.
func (s MsgServer) PayToPlay(msg types.MsgPayToPlay) (*types.MsgPayToPlayResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if !bytes.Equal(types.StripAttribution(msg.Data), types.PayToPlayCalldata()) {
		return nil, errorsmod.Wrap(types.ErrInvalidRequest, "calldata is not payToPlay()")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	params, err := s.GetParams()
	if err != nil {
		return nil, errorsmod.Wrap(err, "failed to load params")
	}
	if !msg.Value.Equal(params.Fee.Amount) {
		return nil, errorsmod.Wrapf(types.ErrInsufficientFund, "fee is %s, got %s%s", params.Fee, msg.Value, params.Fee.Denom)
	}

	credits, err := s.GetPlayerCredits(msg.Creator)
	if err != nil {
		return nil, errorsmod.Wrap(err, "failed to get player credits")
	}
	credits++
	if err := s.SetPlayerCredits(msg.Creator, credits); err != nil {
		return nil, errorsmod.Wrap(err, "failed to set player credits")
	}

	s.logger.Info(types.EventCreditsInserted,
		types.AttrPlayer, msg.Creator,
		types.AttrFee, params.Fee.String(),
		types.AttrCredits, credits,
	)
	return &types.MsgPayToPlayResponse{Credits: credits}, nil
}

// SubmitScore redeems one credit and records the score in the player's top
// three and, when it places, in the global table.
func (s MsgServer) SubmitScore(msg types.MsgSubmitScore) (*types.MsgSubmitScoreResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	score, ok := types.DecodeSubmitScore(types.StripAttribution(msg.Data))
	if !ok {
		return nil, errorsmod.Wrap(types.ErrInvalidRequest, "calldata is not submitScore(uint256)")
	}
	if score == 0 {
		return nil, errorsmod.Wrap(types.ErrInvalidRequest, "score must be greater than 0")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	credits, err := s.GetPlayerCredits(msg.Creator)
	if err != nil {
		return nil, errorsmod.Wrap(err, "failed to get player credits")
	}
	if credits == 0 {
		return nil, errorsmod.Wrap(types.ErrUnauthorized, "no paid round to submit a score for")
	}

	pb, err := s.PersonalBest(msg.Creator)
	if err != nil {
		return nil, errorsmod.Wrap(err, "failed to get personal best")
	}
	prevBest := pb.Best
	pb, _ = pb.Insert(score)

	top, err := s.GlobalTop10()
	if err != nil {
		return nil, errorsmod.Wrap(err, "failed to get global top")
	}
	top, rank := insertGlobal(top, types.ScoreEntry{Player: msg.Creator, Score: score})

	batch := s.db.NewBatch()
	defer batch.Close()
	if err := batchSetJSON(batch, types.PlayerKey(types.PlayerCreditsKeyPrefix, msg.Creator), credits-1); err != nil {
		return nil, err
	}
	if err := batchSetJSON(batch, types.PlayerKey(types.PersonalBestKeyPrefix, msg.Creator), pb); err != nil {
		return nil, err
	}
	if err := batchSetJSON(batch, types.GlobalTopKey, top); err != nil {
		return nil, err
	}
	if err := batch.WriteSync(); err != nil {
		return nil, errorsmod.Wrap(err, "failed to commit score")
	}

	s.logger.Info(types.EventScoreSubmitted,
		types.AttrPlayer, msg.Creator,
		types.AttrScore, score,
		"rank", rank,
	)
	return &types.MsgSubmitScoreResponse{
		PersonalBest: pb,
		Rank:         rank,
		NewBest:      score > prevBest,
	}, nil
}

// RegisterName sets the creator's reverse name.
func (s MsgServer) RegisterName(msg types.MsgRegisterName) (*types.MsgRegisterNameResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.setJSON(types.PlayerKey(types.NameKeyPrefix, msg.Creator), msg.Name); err != nil {
		return nil, errorsmod.Wrap(err, "failed to set name")
	}
	s.logger.Info("name registered", types.AttrPlayer, msg.Creator, "name", msg.Name)
	return &types.MsgRegisterNameResponse{}, nil
}

// insertGlobal places entry into the sorted table, after rows with an equal
// score, and keeps the first GlobalTopSize rows. It returns the 1-based rank
// of the entry, 0 when it did not place.
func insertGlobal(top []types.ScoreEntry, entry types.ScoreEntry) ([]types.ScoreEntry, uint64) {
	i := sort.Search(len(top), func(i int) bool { return top[i].Score < entry.Score })
	if i >= types.GlobalTopSize {
		return top, 0
	}
	next := make([]types.ScoreEntry, 0, len(top)+1)
	next = append(next, top[:i]...)
	next = append(next, entry)
	next = append(next, top[i:]...)
	if len(next) > types.GlobalTopSize {
		next = next[:types.GlobalTopSize]
	}
	return next, uint64(i + 1)
}
