package names_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"

	"dinorun/x/arcade/names"
	"dinorun/x/arcade/telemetry"
	"dinorun/x/arcade/types"
)

const player = types.Address("0x1234567890abcdef1234567890abcdef12345678")

type fakeIdentity struct {
	mu    sync.Mutex
	name  string
	err   error
	block bool
	calls int
}

func (f *fakeIdentity) Lookup(ctx context.Context, _ types.Address) (string, error) {
	f.mu.Lock()
	f.calls++
	name, err, block := f.name, f.err, f.block
	f.mu.Unlock()
	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return name, err
}

func (f *fakeIdentity) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeNames struct {
	name  string
	err   error
	calls int
}

func (f *fakeNames) ReverseName(context.Context, types.Address) (string, error) {
	f.calls++
	return f.name, f.err
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "0x1234...5678", names.Truncate(player))
}

func TestResolve(t *testing.T) {
	testCases := []struct {
		name     string
		identity *fakeIdentity
		reverse  *fakeNames
		expLabel string
		expCalls int
	}{
		{
			name:     "identity wins",
			identity: &fakeIdentity{name: "dino"},
			reverse:  &fakeNames{name: "dino.base.eth"},
			expLabel: "dino",
			expCalls: 0,
		},
		{
			name:     "falls back to reverse name",
			identity: &fakeIdentity{},
			reverse:  &fakeNames{name: "dino.base.eth"},
			expLabel: "dino.base.eth",
			expCalls: 1,
		},
		{
			name:     "identity error falls back",
			identity: &fakeIdentity{err: errors.New("down")},
			reverse:  &fakeNames{name: "dino.base.eth"},
			expLabel: "dino.base.eth",
			expCalls: 1,
		},
		{
			name:     "both fail",
			identity: &fakeIdentity{err: errors.New("down")},
			reverse:  &fakeNames{err: errors.New("revert")},
			expLabel: "0x1234...5678",
			expCalls: 1,
		},
		{
			name:     "nothing found",
			identity: &fakeIdentity{},
			reverse:  &fakeNames{},
			expLabel: "0x1234...5678",
			expCalls: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := names.NewResolver(tc.identity, tc.reverse, log.NewNopLogger(), telemetry.NewMetrics())
			require.Equal(t, tc.expLabel, r.Resolve(context.Background(), player))
			require.Equal(t, tc.expCalls, tc.reverse.calls)
		})
	}
}

func TestResolveWithoutSources(t *testing.T) {
	r := names.NewResolver(nil, nil, log.NewNopLogger(), nil)
	require.Equal(t, "0x1234...5678", r.Resolve(context.Background(), player))
}

func TestBindUpgradesLabel(t *testing.T) {
	r := names.NewResolver(&fakeIdentity{}, &fakeNames{name: "dino.base.eth"}, log.NewNopLogger(), nil)

	var mu sync.Mutex
	var changes []string
	b := r.Bind(context.Background(), player, func(label string) {
		mu.Lock()
		defer mu.Unlock()
		changes = append(changes, label)
	})
	defer b.Close()

	waitDone(t, b)
	require.Equal(t, "dino.base.eth", b.Label())
	require.True(t, b.Attempted())

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"dino.base.eth"}, changes)
}

func TestBindIdentityFound(t *testing.T) {
	reverse := &fakeNames{name: "unused"}
	r := names.NewResolver(&fakeIdentity{name: "dino"}, reverse, log.NewNopLogger(), nil)

	b := r.Bind(context.Background(), player, nil)
	defer b.Close()

	waitDone(t, b)
	require.Equal(t, "dino", b.Label())
	require.False(t, b.Attempted())
	require.Zero(t, reverse.calls)
}

func TestBindClose(t *testing.T) {
	identity := &fakeIdentity{block: true}
	reverse := &fakeNames{name: "late.base.eth"}
	r := names.NewResolver(identity, reverse, log.NewNopLogger(), nil)

	called := false
	b := r.Bind(context.Background(), player, func(string) { called = true })
	require.Equal(t, "0x1234...5678", b.Label())

	require.Eventually(t, func() bool { return identity.count() == 1 }, time.Second, time.Millisecond)
	b.Close()
	waitDone(t, b)

	require.Equal(t, "0x1234...5678", b.Label())
	require.False(t, b.Attempted())
	require.False(t, called)
	require.Zero(t, reverse.calls)
}

func TestBindParentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := names.NewResolver(&fakeIdentity{}, &fakeNames{name: "dino.base.eth"}, log.NewNopLogger(), nil)
	b := r.Bind(ctx, player, nil)
	waitDone(t, b)
	require.Equal(t, "0x1234...5678", b.Label())
}

func waitDone(t *testing.T, b *names.Binding) {
	t.Helper()
	select {
	case <-b.Done():
	case <-time.After(time.Second):
		t.Fatal("resolution did not finish")
	}
}
