package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"

	"dinorun/x/arcade/session"
	"dinorun/x/arcade/telemetry"
	"dinorun/x/arcade/types"
)

type fakeWallet struct {
	mu       sync.Mutex
	account  types.Account
	pendings int
	checks   int
	sent     int
	switches []uint64
}

func (w *fakeWallet) Account(context.Context) (types.Account, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.account, nil
}

func (w *fakeWallet) Connect(context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.account = connected(alice)
	return nil
}

func (w *fakeWallet) Disconnect(context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.account = types.Account{}
	return nil
}

func (w *fakeWallet) SwitchChain(_ context.Context, chainID uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.switches = append(w.switches, chainID)
	w.account.ChainID = chainID
	return nil
}

func (w *fakeWallet) SendCalls(context.Context, []types.Call, types.Capabilities) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sent++
	return "bundle-1", nil
}

func (w *fakeWallet) CallsStatus(context.Context, string) (types.BundleStatus, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.checks++
	if w.checks <= w.pendings {
		return types.BundlePending, nil
	}
	return types.BundleSuccess, nil
}

func (w *fakeWallet) stats() (sent int, switches []uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sent, append([]uint64(nil), w.switches...)
}

type fakeLedger struct {
	mu        sync.Mutex
	pb        types.PersonalBest
	top       []types.ScoreEntry
	reads     int
	submitted []uint64
}

func (l *fakeLedger) PersonalBest(context.Context, types.Address) (types.PersonalBest, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reads++
	return l.pb, nil
}

func (l *fakeLedger) GlobalTop10(context.Context) ([]types.ScoreEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]types.ScoreEntry(nil), l.top...), nil
}

func (l *fakeLedger) SubmitScore(_ context.Context, score uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.submitted = append(l.submitted, score)
	l.pb, _ = l.pb.Insert(score)
	l.top = append(l.top, types.ScoreEntry{Player: alice, Score: score})
	return nil
}

func (l *fakeLedger) stats() (reads int, submitted []uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reads, append([]uint64(nil), l.submitted...)
}

type fakeEngine struct {
	mu     sync.Mutex
	done   func(uint64)
	starts int
	jumps  int
}

func (e *fakeEngine) Start(onGameOver func(score uint64)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.starts++
	e.done = onGameOver
	return nil
}

func (e *fakeEngine) Jump() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.jumps++
}

func (e *fakeEngine) finish(score uint64) {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()
	done(score)
}

type controllerFixture struct {
	ctrl   *session.Controller
	wallet *fakeWallet
	ledger *fakeLedger
	engine *fakeEngine
	cancel context.CancelFunc
	errCh  chan error
}

func startController(t *testing.T, acct types.Account) *controllerFixture {
	t.Helper()
	params := types.DefaultParams()
	params.PollInterval = time.Millisecond
	params.RefreshDelay = 10 * time.Millisecond

	f := &controllerFixture{
		wallet: &fakeWallet{account: acct, pendings: 2},
		ledger: &fakeLedger{pb: types.PersonalBest{Best: 50, Second: 30, Third: 10}},
		engine: &fakeEngine{},
		errCh:  make(chan error, 1),
	}
	f.ctrl = session.NewController(params, f.wallet, f.ledger, f.engine, log.NewNopLogger(), telemetry.NewMetrics())

	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	go func() { f.errCh <- f.ctrl.Run(ctx) }()
	t.Cleanup(f.stop)
	return f
}

func (f *controllerFixture) stop() {
	f.cancel()
	<-f.errCh
}

func (f *controllerFixture) phase() session.Phase { return f.ctrl.State().Phase }

func TestControllerPlaysPaidRound(t *testing.T) {
	f := startController(t, connected(alice))

	require.Eventually(t, func() bool {
		return f.ctrl.State().PersonalBest != nil
	}, time.Second, time.Millisecond)

	f.ctrl.Pay()
	require.Eventually(t, func() bool { return f.phase() == session.PhaseReady }, time.Second, time.Millisecond)
	require.True(t, f.ctrl.State().HasPaid)

	f.ctrl.Start()
	require.Eventually(t, func() bool { return f.phase() == session.PhasePlaying }, time.Second, time.Millisecond)
	f.ctrl.Jump()

	reads, _ := f.ledger.stats()
	f.engine.finish(11)
	require.Eventually(t, func() bool { return f.phase() == session.PhaseGameOver }, time.Second, time.Millisecond)

	s := f.ctrl.State()
	require.Equal(t, uint64(11), s.LastScore)
	require.True(t, s.Submitted)
	require.False(t, s.HasPaid)

	require.Eventually(t, func() bool {
		after, submitted := f.ledger.stats()
		return after > reads && len(submitted) == 1
	}, time.Second, time.Millisecond)

	f.ctrl.Refresh()
	require.Eventually(t, func() bool {
		return len(f.ctrl.State().Leaderboard) == 1
	}, time.Second, time.Millisecond)

	f.engine.mu.Lock()
	require.Equal(t, 1, f.engine.starts)
	require.Equal(t, 1, f.engine.jumps)
	f.engine.mu.Unlock()
}

func TestControllerWrongNetworkSwitchesInsteadOfPaying(t *testing.T) {
	acct := connected(alice)
	acct.ChainID = 1
	f := startController(t, acct)

	require.Eventually(t, func() bool { return f.ctrl.State().Account.Connected }, time.Second, time.Millisecond)

	f.ctrl.Pay()
	require.Eventually(t, func() bool {
		return f.ctrl.State().Account.ChainID == types.DefaultChainID
	}, time.Second, time.Millisecond)

	sent, switches := f.wallet.stats()
	require.Zero(t, sent)
	require.Equal(t, []uint64{types.DefaultChainID}, switches)
	require.Equal(t, session.PhaseIdle, f.phase())
	require.False(t, f.ctrl.State().Paying)
}

func TestControllerConnectsBeforePaying(t *testing.T) {
	f := startController(t, types.Account{})

	f.ctrl.Pay()
	require.Eventually(t, func() bool { return f.ctrl.State().Account.Connected }, time.Second, time.Millisecond)

	sent, _ := f.wallet.stats()
	require.Zero(t, sent)
	require.Equal(t, session.PhaseIdle, f.phase())
}

func TestControllerLoadsLeaderboardWhileDisconnected(t *testing.T) {
	ledger := &fakeLedger{top: []types.ScoreEntry{{Player: bob, Score: 40}, {Player: alice, Score: 0}}}
	ctrl := session.NewController(types.DefaultParams(), &fakeWallet{}, ledger, &fakeEngine{}, log.NewNopLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- ctrl.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-errCh
	})

	require.Eventually(t, func() bool {
		return len(ctrl.State().Leaderboard) == 1
	}, time.Second, time.Millisecond)

	s := ctrl.State()
	require.False(t, s.Account.Connected)
	require.Nil(t, s.PersonalBest)
	require.Equal(t, []types.LeaderboardRow{{Player: bob, Score: 40}}, s.Leaderboard)
	reads, _ := ledger.stats()
	require.Zero(t, reads, "no personal best without a player")
}

func TestControllerWatchAndStop(t *testing.T) {
	params := types.DefaultParams()
	wallet := &fakeWallet{account: connected(alice)}
	ctrl := session.NewController(params, wallet, &fakeLedger{}, &fakeEngine{}, log.NewNopLogger(), nil)

	var mu sync.Mutex
	var seen []session.State
	ctrl.Watch(func(s session.State) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, s)
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- ctrl.Run(ctx) }()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("controller did not stop")
	}
	require.False(t, ctrl.Dispatch(session.RefreshRequested{}))
}
