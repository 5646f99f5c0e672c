package types_test

import (
	"encoding/hex"
	"testing"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"dinorun/x/arcade/types"
)

func TestAddressShort(t *testing.T) {
	require.Equal(t, "0x1234...1234", types.Address("0x1234567890abcdef1234").Short())
	require.Equal(t, "0xAbCd...7890", types.Address("0xAbCdEf0000000000000000000000000000007890").Short())
	require.Equal(t, "0x12", types.Address("0x12").Short())
}

func TestAddressIdentity(t *testing.T) {
	a := types.Address("0xAbCdEf0000000000000000000000000000007890")
	b := types.Address("0xabcdef0000000000000000000000000000007890")
	require.True(t, a.Equal(b))
	require.Equal(t, a.Key(), b.Key())
	require.Equal(t, "0xAbCdEf0000000000000000000000000000007890", a.String())
}

func TestParseAddress(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expErr    bool
		expErrMsg string
	}{
		{name: "valid", input: "0x00000000000000000000000000000000000000aB"},
		{name: "trims spaces", input: "  0x00000000000000000000000000000000000000ab "},
		{name: "missing prefix", input: "00000000000000000000000000000000000000ab", expErr: true, expErrMsg: "missing 0x prefix"},
		{name: "not hex", input: "0xzz", expErr: true, expErrMsg: "invalid address"},
		{name: "short", input: "0x1234", expErr: true, expErrMsg: "expected 20 bytes"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := types.ParseAddress(tc.input)
			if tc.expErr {
				require.Error(t, err)
				require.ErrorIs(t, err, types.ErrInvalidAddress)
				require.Contains(t, err.Error(), tc.expErrMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestPersonalBestInsert(t *testing.T) {
	pb := types.PersonalBest{Best: 50, Second: 30, Third: 10}

	next, ok := pb.Insert(10)
	require.False(t, ok)
	require.Equal(t, pb, next)

	next, ok = pb.Insert(11)
	require.True(t, ok)
	require.Equal(t, types.PersonalBest{Best: 50, Second: 30, Third: 11}, next)

	next, ok = pb.Insert(40)
	require.True(t, ok)
	require.Equal(t, types.PersonalBest{Best: 50, Second: 40, Third: 30}, next)

	next, ok = pb.Insert(99)
	require.True(t, ok)
	require.Equal(t, types.PersonalBest{Best: 99, Second: 50, Third: 30}, next)
	require.NoError(t, next.Validate())

	require.Error(t, types.PersonalBest{Best: 1, Second: 2}.Validate())
	require.Zero(t, types.BestOf(nil))
	require.Zero(t, types.ThirdOf(nil))
	require.Equal(t, uint64(10), types.ThirdOf(&pb))
}

func TestSelector(t *testing.T) {
	require.Equal(t, "a9059cbb", hex.EncodeToString(types.Selector("transfer(address,uint256)")))
	require.Len(t, types.PayToPlayCalldata(), 4)
}

func TestSubmitScoreCalldata(t *testing.T) {
	data := types.SubmitScoreCalldata(1234)
	require.Len(t, data, 36)
	require.Equal(t, types.Selector(types.MethodSubmitScore), data[:4])

	score, ok := types.DecodeSubmitScore(data)
	require.True(t, ok)
	require.Equal(t, uint64(1234), score)

	_, ok = types.DecodeSubmitScore(types.PayToPlayCalldata())
	require.False(t, ok)
}

func TestAttributionSuffix(t *testing.T) {
	require.Nil(t, types.AttributionSuffix())

	suffix := types.AttributionSuffix("bc_w4d5vvy9")
	require.Equal(t,
		hex.EncodeToString([]byte("bc_w4d5vvy9"))+"0b00"+"80218021802180218021802180218021",
		hex.EncodeToString(suffix),
	)

	call := append(types.PayToPlayCalldata(), suffix...)
	require.Equal(t, types.PayToPlayCalldata(), types.StripAttribution(call))
	require.Equal(t, types.PayToPlayCalldata(), types.StripAttribution(types.PayToPlayCalldata()))

	multi := types.AttributionSuffix("a", "b")
	require.Equal(t, []byte("a,b"), multi[:3])
	require.Equal(t, byte(3), multi[3])
}

func TestParamsValidate(t *testing.T) {
	testCases := []struct {
		name      string
		malleate  func(p *types.Params)
		expErr    bool
		expErrMsg string
	}{
		{name: "defaults", malleate: func(*types.Params) {}},
		{name: "zero chain", malleate: func(p *types.Params) { p.ChainID = 0 }, expErr: true, expErrMsg: "chain_id"},
		{name: "zero fee", malleate: func(p *types.Params) { p.Fee = sdk.NewCoin("wei", math.ZeroInt()) }, expErr: true, expErrMsg: "fee must be positive"},
		{name: "bad contract", malleate: func(p *types.Params) { p.Contract = "nope" }, expErr: true, expErrMsg: "invalid contract"},
		{name: "comma in builder code", malleate: func(p *types.Params) { p.BuilderCodes = []string{"a,b"} }, expErr: true, expErrMsg: "without commas"},
		{name: "zero poll interval", malleate: func(p *types.Params) { p.PollInterval = 0 }, expErr: true, expErrMsg: "poll_interval"},
		{name: "negative refresh delay", malleate: func(p *types.Params) { p.RefreshDelay = -time.Second }, expErr: true, expErrMsg: "refresh_delay"},
		{name: "no builder codes", malleate: func(p *types.Params) { p.BuilderCodes = nil }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := types.DefaultParams()
			tc.malleate(&p)
			err := p.Validate()
			if tc.expErr {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.expErrMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestBundleStatus(t *testing.T) {
	require.False(t, types.BundlePending.Terminal())
	require.True(t, types.BundleSuccess.Terminal())
	require.True(t, types.BundleFailure.Terminal())
	require.Equal(t, "success", types.BundleSuccess.String())
}
