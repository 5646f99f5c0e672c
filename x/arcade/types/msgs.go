package types

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
)

// MaxNameLength bounds a registered reverse name.
const MaxNameLength = 64

// MsgPayToPlay is a value carrying call to the game contract.
type MsgPayToPlay struct {
	Creator Address  `json:"creator"`
	Value   math.Int `json:"value"`
	Data    []byte   `json:"data"`
}

type MsgPayToPlayResponse struct {
	Credits uint64 `json:"credits"`
}

// MsgSubmitScore is a submitScore(uint256) call to the game contract.
type MsgSubmitScore struct {
	Creator Address `json:"creator"`
	Data    []byte  `json:"data"`
}

type MsgSubmitScoreResponse struct {
	PersonalBest PersonalBest `json:"personal_best"`
	// Rank is the 1-based position of the score in the global table, 0 when
	// it did not place.
	Rank    uint64 `json:"rank"`
	NewBest bool   `json:"new_best"`
}

// MsgRegisterName sets the reverse name of the creator's address.
type MsgRegisterName struct {
	Creator Address `json:"creator"`
	Name    string  `json:"name"`
}

type MsgRegisterNameResponse struct{}

func (msg MsgPayToPlay) ValidateBasic() error {
	if err := msg.Creator.Validate(); err != nil {
		return errorsmod.Wrap(err, "invalid creator address")
	}
	if msg.Value.IsNil() || msg.Value.IsNegative() {
		return errorsmod.Wrap(ErrInvalidRequest, "value cannot be negative")
	}
	return nil
}

func (msg MsgSubmitScore) ValidateBasic() error {
	if err := msg.Creator.Validate(); err != nil {
		return errorsmod.Wrap(err, "invalid creator address")
	}
	if len(msg.Data) < 4 {
		return errorsmod.Wrap(ErrInvalidRequest, "calldata too short")
	}
	return nil
}

func (msg MsgRegisterName) ValidateBasic() error {
	if err := msg.Creator.Validate(); err != nil {
		return errorsmod.Wrap(err, "invalid creator address")
	}
	if msg.Name == "" {
		return errorsmod.Wrap(ErrInvalidRequest, "name is required")
	}
	if len(msg.Name) > MaxNameLength {
		return errorsmod.Wrapf(ErrInvalidRequest, "name longer than %d bytes", MaxNameLength)
	}
	return nil
}
