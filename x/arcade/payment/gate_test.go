package payment_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"

	"dinorun/x/arcade/payment"
	"dinorun/x/arcade/types"
)

const player = types.Address("0x00000000000000000000000000000000000000aa")

// mockWallet is a scripted wallet; statuses are returned in order and the
// last one repeats.
type mockWallet struct {
	mu       sync.Mutex
	account  types.Account
	sendErr  error
	statuses []types.BundleStatus
	checks   int
	switches []uint64
	sent     [][]types.Call
	caps     []types.Capabilities
}

func newMockWallet() *mockWallet {
	return &mockWallet{account: types.Account{Connected: true, Address: player, ChainID: types.DefaultChainID}}
}

func (m *mockWallet) Account(context.Context) (types.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.account, nil
}

func (m *mockWallet) Connect(context.Context) error    { return nil }
func (m *mockWallet) Disconnect(context.Context) error { return nil }

func (m *mockWallet) SwitchChain(_ context.Context, chainID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.switches = append(m.switches, chainID)
	return nil
}

func (m *mockWallet) SendCalls(_ context.Context, calls []types.Call, caps types.Capabilities) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return "", m.sendErr
	}
	m.sent = append(m.sent, calls)
	m.caps = append(m.caps, caps)
	return "bundle-1", nil
}

func (m *mockWallet) CallsStatus(context.Context, string) (types.BundleStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.checks
	m.checks++
	if len(m.statuses) == 0 {
		return types.BundlePending, nil
	}
	if i >= len(m.statuses) {
		i = len(m.statuses) - 1
	}
	return m.statuses[i], nil
}

func testParams() types.Params {
	p := types.DefaultParams()
	p.PollInterval = time.Millisecond
	return p
}

func TestInitiate(t *testing.T) {
	testCases := []struct {
		name      string
		malleate  func(w *mockWallet)
		expErr    error
		expErrMsg string
	}{
		{
			name:     "submits one bundled call",
			malleate: func(*mockWallet) {},
		},
		{
			name:      "not connected",
			malleate:  func(w *mockWallet) { w.account.Connected = false },
			expErr:    types.ErrNotConnected,
			expErrMsg: "wallet not connected",
		},
		{
			name:      "wrong network requests a switch",
			malleate:  func(w *mockWallet) { w.account.ChainID = 1 },
			expErr:    types.ErrWrongNetwork,
			expErrMsg: "switch to 8453 requested",
		},
		{
			name:      "wallet rejects submission",
			malleate:  func(w *mockWallet) { w.sendErr = errors.New("user rejected the request") },
			expErr:    types.ErrSubmissionRejected,
			expErrMsg: "user rejected the request",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := newMockWallet()
			tc.malleate(w)
			gate := payment.NewGate(w, testParams(), log.NewNopLogger(), nil)

			bundle, err := gate.Initiate(context.Background())
			if tc.expErr != nil {
				require.ErrorIs(t, err, tc.expErr)
				require.Contains(t, err.Error(), tc.expErrMsg)
				require.Empty(t, bundle.ID)
				require.Empty(t, w.sent)
				_, pending := gate.Pending()
				require.False(t, pending)
				return
			}

			require.NoError(t, err)
			require.Equal(t, types.PaymentBundle{ID: "bundle-1", Status: types.BundlePending}, bundle)
			require.Len(t, w.sent, 1)
			require.Len(t, w.sent[0], 1)

			call := w.sent[0][0]
			params := testParams()
			require.Equal(t, params.Contract, call.To)
			require.Equal(t, types.PayToPlayCalldata(), call.Data)
			require.True(t, params.Fee.Amount.Equal(call.Value))

			require.NotNil(t, w.caps[0].DataSuffix)
			require.True(t, w.caps[0].DataSuffix.Optional)
			require.Equal(t, types.AttributionSuffix(types.DefaultBuilderCode), w.caps[0].DataSuffix.Value)
		})
	}
}

func TestInitiateWrongNetworkSwitches(t *testing.T) {
	w := newMockWallet()
	w.account.ChainID = 1
	gate := payment.NewGate(w, testParams(), log.NewNopLogger(), nil)

	_, err := gate.Initiate(context.Background())
	require.True(t, payment.IsRedirect(err))
	require.Equal(t, []uint64{types.DefaultChainID}, w.switches)
	require.Empty(t, w.sent)
}

func TestInitiateSinglePendingBundle(t *testing.T) {
	w := newMockWallet()
	gate := payment.NewGate(w, testParams(), log.NewNopLogger(), nil)

	_, err := gate.Initiate(context.Background())
	require.NoError(t, err)

	_, err = gate.Initiate(context.Background())
	require.ErrorIs(t, err, types.ErrPaymentPending)
	require.Len(t, w.sent, 1)
}

func TestPollConfirmsOnce(t *testing.T) {
	w := newMockWallet()
	w.statuses = []types.BundleStatus{types.BundlePending, types.BundlePending, types.BundleSuccess}
	gate := payment.NewGate(w, testParams(), log.NewNopLogger(), nil)

	bundle, err := gate.Initiate(context.Background())
	require.NoError(t, err)

	require.NoError(t, gate.Poll(context.Background(), bundle))
	require.Equal(t, 3, w.checks)
	_, pending := gate.Pending()
	require.False(t, pending)

	err = gate.Poll(context.Background(), bundle)
	require.ErrorIs(t, err, types.ErrAlreadyConfirmed)
}

func TestPollFailure(t *testing.T) {
	w := newMockWallet()
	w.statuses = []types.BundleStatus{types.BundlePending, types.BundleFailure}
	gate := payment.NewGate(w, testParams(), log.NewNopLogger(), nil)

	bundle, err := gate.Initiate(context.Background())
	require.NoError(t, err)

	err = gate.Poll(context.Background(), bundle)
	require.ErrorIs(t, err, types.ErrPaymentFailed)

	// a failed bundle frees the gate for another payment
	_, err = gate.Initiate(context.Background())
	require.NoError(t, err)
}

func TestPollBoundedAbandons(t *testing.T) {
	w := newMockWallet()
	params := testParams()
	params.MaxPollAttempts = 4
	gate := payment.NewGate(w, params, log.NewNopLogger(), nil)

	bundle, err := gate.Initiate(context.Background())
	require.NoError(t, err)

	err = gate.Poll(context.Background(), bundle)
	require.ErrorIs(t, err, types.ErrPaymentAbandoned)
	require.Equal(t, 4, w.checks)
}

func TestPollUnboundedStopsOnCancel(t *testing.T) {
	w := newMockWallet()
	gate := payment.NewGate(w, testParams(), log.NewNopLogger(), nil)

	bundle, err := gate.Initiate(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err = gate.Poll(ctx, bundle)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Greater(t, w.checks, 1)
	_, pending := gate.Pending()
	require.False(t, pending)
}
