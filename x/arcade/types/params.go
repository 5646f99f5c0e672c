package types

import (
	"fmt"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Default parameter values matching the deployed Dino Run contract on Base.
const (
	DefaultChainID         uint64 = 8453
	DefaultFeeDenom               = "wei"
	DefaultContract               = "0x0000000000000000000000000000000000000000"
	DefaultBuilderCode            = "bc_w4d5vvy9"
	DefaultPollInterval           = time.Second
	DefaultRefreshDelay           = 3 * time.Second
	DefaultMaxPollAttempts uint32 = 0 // unbounded
)

// DefaultFeeAmount is 0.000004 ETH expressed in wei.
var DefaultFeeAmount = math.NewInt(4_000_000_000_000)

// Params holds the fixed values one client session runs against.
type Params struct {
	ChainID         uint64        `json:"chain_id"`          // the only network payments and ledger calls are valid on
	Fee             sdk.Coin      `json:"fee"`               // exact pay-to-play transfer
	Contract        Address       `json:"contract"`          // game contract receiving payToPlay / submitScore
	BuilderCodes    []string      `json:"builder_codes"`     // ERC-8021 attribution codes
	PollInterval    time.Duration `json:"poll_interval"`     // bundle status poll period
	RefreshDelay    time.Duration `json:"refresh_delay"`     // settle time before re-reading the ledger
	MaxPollAttempts uint32        `json:"max_poll_attempts"` // 0 polls until confirmed
}

// DefaultParams returns default client parameters.
func DefaultParams() Params {
	return Params{
		ChainID:         DefaultChainID,
		Fee:             sdk.NewCoin(DefaultFeeDenom, DefaultFeeAmount),
		Contract:        Address(DefaultContract),
		BuilderCodes:    []string{DefaultBuilderCode},
		PollInterval:    DefaultPollInterval,
		RefreshDelay:    DefaultRefreshDelay,
		MaxPollAttempts: DefaultMaxPollAttempts,
	}
}

// Validate performs basic validation of client parameters.
func (p Params) Validate() error {
	if p.ChainID == 0 {
		return fmt.Errorf("chain_id must be positive")
	}
	if err := p.Fee.Validate(); err != nil {
		return fmt.Errorf("invalid fee: %w", err)
	}
	if !p.Fee.IsPositive() {
		return fmt.Errorf("fee must be positive")
	}
	if err := p.Contract.Validate(); err != nil {
		return fmt.Errorf("invalid contract: %w", err)
	}
	for _, code := range p.BuilderCodes {
		if err := validateBuilderCode(code); err != nil {
			return err
		}
	}
	if err := validatePositiveDuration("poll_interval", p.PollInterval); err != nil {
		return err
	}
	return validateNonNegativeDuration("refresh_delay", p.RefreshDelay)
}

// Bounded reports whether bundle polling gives up after MaxPollAttempts.
func (p Params) Bounded() bool { return p.MaxPollAttempts > 0 }

func validateBuilderCode(code string) error {
	if code == "" {
		return fmt.Errorf("builder code cannot be empty")
	}
	for _, r := range code {
		if r == ',' || r > 0x7e || r < 0x20 {
			return fmt.Errorf("builder code %q must be printable ascii without commas", code)
		}
	}
	return nil
}

func validatePositiveDuration(name string, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%s must be positive", name)
	}
	return nil
}

func validateNonNegativeDuration(name string, d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%s cannot be negative", name)
	}
	return nil
}
