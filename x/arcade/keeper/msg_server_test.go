package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"dinorun/x/arcade/types"
)

func TestMsgPayToPlay(t *testing.T) {
	f := initFixture(t)
	fee := f.params.Fee.Amount
	withSuffix := append(types.PayToPlayCalldata(), types.AttributionSuffix(types.DefaultBuilderCode)...)

	testCases := []struct {
		name       string
		input      types.MsgPayToPlay
		expErr     error
		expErrMsg  string
		expCredits uint64
	}{
		{
			name:      "invalid address",
			input:     types.MsgPayToPlay{Creator: "invalid", Value: fee, Data: types.PayToPlayCalldata()},
			expErr:    types.ErrInvalidAddress,
			expErrMsg: "invalid creator address",
		},
		{
			name:      "wrong selector",
			input:     types.MsgPayToPlay{Creator: alice, Value: fee, Data: types.SubmitScoreCalldata(1)},
			expErr:    types.ErrInvalidRequest,
			expErrMsg: "calldata is not payToPlay()",
		},
		{
			name:      "fee too low",
			input:     types.MsgPayToPlay{Creator: alice, Value: fee.SubRaw(1), Data: types.PayToPlayCalldata()},
			expErr:    types.ErrInsufficientFund,
			expErrMsg: "fee is 4000000000000wei",
		},
		{
			name:   "fee too high",
			input:  types.MsgPayToPlay{Creator: alice, Value: fee.AddRaw(1), Data: types.PayToPlayCalldata()},
			expErr: types.ErrInsufficientFund,
		},
		{
			name:   "negative value",
			input:  types.MsgPayToPlay{Creator: alice, Value: math.NewInt(-1), Data: types.PayToPlayCalldata()},
			expErr: types.ErrInvalidRequest,
		},
		{
			name:       "exact fee",
			input:      types.MsgPayToPlay{Creator: alice, Value: fee, Data: types.PayToPlayCalldata()},
			expCredits: 1,
		},
		{
			name:       "attribution suffix is accepted",
			input:      types.MsgPayToPlay{Creator: alice, Value: fee, Data: withSuffix},
			expCredits: 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := f.ms.PayToPlay(tc.input)
			if tc.expErr != nil {
				require.ErrorIs(t, err, tc.expErr)
				require.Contains(t, err.Error(), tc.expErrMsg)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expCredits, resp.Credits)

			credits, err := f.keeper.GetPlayerCredits(tc.input.Creator)
			require.NoError(t, err)
			require.Equal(t, tc.expCredits, credits)
		})
	}
}

func TestMsgSubmitScore(t *testing.T) {
	f := initFixture(t)

	_, err := f.ms.SubmitScore(types.MsgSubmitScore{Creator: alice, Data: types.SubmitScoreCalldata(10)})
	require.ErrorIs(t, err, types.ErrUnauthorized)

	testCases := []struct {
		name      string
		input     types.MsgSubmitScore
		expErr    error
		expErrMsg string
	}{
		{
			name:      "invalid address",
			input:     types.MsgSubmitScore{Creator: "0x12", Data: types.SubmitScoreCalldata(1)},
			expErr:    types.ErrInvalidAddress,
			expErrMsg: "invalid creator address",
		},
		{
			name:      "short calldata",
			input:     types.MsgSubmitScore{Creator: alice, Data: []byte{0x01}},
			expErr:    types.ErrInvalidRequest,
			expErrMsg: "calldata too short",
		},
		{
			name:      "wrong selector",
			input:     types.MsgSubmitScore{Creator: alice, Data: types.PayToPlayCalldata()},
			expErr:    types.ErrInvalidRequest,
			expErrMsg: "calldata is not submitScore(uint256)",
		},
		{
			name:      "zero score",
			input:     types.MsgSubmitScore{Creator: alice, Data: types.SubmitScoreCalldata(0)},
			expErr:    types.ErrInvalidRequest,
			expErrMsg: "score must be greater than 0",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.ms.SubmitScore(tc.input)
			require.ErrorIs(t, err, tc.expErr)
			require.Contains(t, err.Error(), tc.expErrMsg)
		})
	}
}

func TestSubmitScoreRedeemsCredit(t *testing.T) {
	f := initFixture(t)
	resp := f.play(t, alice, 50)
	require.True(t, resp.NewBest)
	require.Equal(t, uint64(1), resp.Rank)

	credits, err := f.keeper.GetPlayerCredits(alice)
	require.NoError(t, err)
	require.Zero(t, credits)

	_, err = f.ms.SubmitScore(types.MsgSubmitScore{Creator: alice, Data: types.SubmitScoreCalldata(60)})
	require.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestPersonalTopThree(t *testing.T) {
	f := initFixture(t)

	for _, score := range []uint64{30, 50, 10, 20, 50} {
		f.play(t, alice, score)
	}
	pb, err := f.keeper.PersonalBest(alice)
	require.NoError(t, err)
	require.Equal(t, types.PersonalBest{Best: 50, Second: 50, Third: 30}, pb)

	resp := f.play(t, alice, 51)
	require.True(t, resp.NewBest)
	require.Equal(t, types.PersonalBest{Best: 51, Second: 50, Third: 50}, resp.PersonalBest)
}

func TestGlobalTopTen(t *testing.T) {
	f := initFixture(t)

	for i := uint64(1); i <= 12; i++ {
		f.play(t, alice, i*10)
	}
	top, err := f.keeper.GlobalTop10()
	require.NoError(t, err)
	require.Len(t, top, types.GlobalTopSize)
	require.Equal(t, uint64(120), top[0].Score)
	require.Equal(t, uint64(30), top[9].Score)

	// below the table
	resp := f.play(t, bob, 30)
	require.Zero(t, resp.Rank)

	// equal scores rank after existing rows
	resp = f.play(t, bob, 120)
	require.Equal(t, uint64(2), resp.Rank)
	top, err = f.keeper.GlobalTop10()
	require.NoError(t, err)
	require.Equal(t, alice, top[0].Player)
	require.Equal(t, bob, top[1].Player)
	require.Equal(t, uint64(40), top[9].Score)
}

func TestMsgRegisterName(t *testing.T) {
	f := initFixture(t)

	testCases := []struct {
		name   string
		input  types.MsgRegisterName
		expErr error
	}{
		{name: "invalid address", input: types.MsgRegisterName{Creator: "bob", Name: "bob"}, expErr: types.ErrInvalidAddress},
		{name: "empty name", input: types.MsgRegisterName{Creator: bob}, expErr: types.ErrInvalidRequest},
		{name: "success", input: types.MsgRegisterName{Creator: bob, Name: "bob.base.eth"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.ms.RegisterName(tc.input)
			if tc.expErr != nil {
				require.ErrorIs(t, err, tc.expErr)
				return
			}
			require.NoError(t, err)
			name, err := f.keeper.ReverseName(tc.input.Creator)
			require.NoError(t, err)
			require.Equal(t, tc.input.Name, name)
		})
	}
}
