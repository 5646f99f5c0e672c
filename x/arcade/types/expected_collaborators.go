package types

import (
	"context"

	"cosmossdk.io/math"
)

// Account is the wallet connection as seen by the client.
type Account struct {
	Connected bool
	Address   Address
	ChainID   uint64
}

// Call is one entry of a bundled wallet call.
type Call struct {
	To    Address
	Data  []byte
	Value math.Int
}

// DataSuffix is appended to call data by the wallet. An optional suffix may be
// dropped by wallets that cannot attach it.
type DataSuffix struct {
	Value    []byte
	Optional bool
}

// Capabilities are the wallet capabilities requested for a bundle.
type Capabilities struct {
	DataSuffix *DataSuffix
}

// Wallet is the connected wallet and its chain.
type Wallet interface {
	Account(ctx context.Context) (Account, error)
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	SwitchChain(ctx context.Context, chainID uint64) error
	SendCalls(ctx context.Context, calls []Call, caps Capabilities) (string, error)
	CallsStatus(ctx context.Context, bundleID string) (BundleStatus, error)
}

// Ledger exposes the game contract reads and the score write.
type Ledger interface {
	PersonalBest(ctx context.Context, player Address) (PersonalBest, error)
	GlobalTop10(ctx context.Context) ([]ScoreEntry, error)
	SubmitScore(ctx context.Context, score uint64) error
}

// IdentityLookup resolves a social username bound to an address. An empty
// username with a nil error means no binding exists.
type IdentityLookup interface {
	Lookup(ctx context.Context, addr Address) (string, error)
}

// NameService resolves an on-chain name for an address.
type NameService interface {
	ReverseName(ctx context.Context, addr Address) (string, error)
}

// Engine is the runner game. Jump never blocks and is ignored between rounds.
// onGameOver is called at most once per started round.
type Engine interface {
	Start(onGameOver func(score uint64)) error
	Jump()
}
