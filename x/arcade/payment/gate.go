// Package payment drives the pay-to-play bundle from submission to confirmation.
package payment

import (
	"context"
	"errors"
	"sync"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	lru "github.com/hashicorp/golang-lru/v2"

	"dinorun/x/arcade/telemetry"
	"dinorun/x/arcade/types"
)

// Gate turns a pay-to-play intent into a confirmed unlock. It tracks at most
// one pending bundle and reports each bundle's confirmation once.
type Gate struct {
	wallet  types.Wallet
	params  types.Params
	logger  log.Logger
	metrics *telemetry.Metrics

	mu      sync.Mutex
	pending string
	// confirmed remembers the most recent confirmations so a bundle is
	// reported once; older ids are forgotten.
	confirmed *lru.Cache[string, struct{}]
}

// confirmedHistory is how many confirmed bundle ids a Gate remembers.
const confirmedHistory = 32

// NewGate returns a Gate paying through wallet under params.
func NewGate(wallet types.Wallet, params types.Params, logger log.Logger, metrics *telemetry.Metrics) *Gate {
	confirmed, err := lru.New[string, struct{}](confirmedHistory)
	if err != nil {
		panic(err)
	}
	return &Gate{
		wallet:    wallet,
		params:    params,
		logger:    logger.With("module", "x/"+types.ModuleName+"/payment"),
		metrics:   metrics,
		confirmed: confirmed,
	}
}

// Initiate submits the pay-to-play call. On a network mismatch it requests a
// chain switch instead and returns ErrWrongNetwork without paying.
func (g *Gate) Initiate(ctx context.Context) (types.PaymentBundle, error) {
	acct, err := g.wallet.Account(ctx)
	if err != nil {
		return types.PaymentBundle{}, errorsmod.Wrap(err, "failed to read wallet account")
	}
	if !acct.Connected {
		return types.PaymentBundle{}, types.ErrNotConnected
	}
	if acct.ChainID != g.params.ChainID {
		g.metrics.PaymentOutcome("switch_network")
		g.logger.Info("wrong network, requesting switch", types.AttrChainID, acct.ChainID, "required", g.params.ChainID)
		if err := g.wallet.SwitchChain(ctx, g.params.ChainID); err != nil {
			g.logger.Error("network switch request failed", "err", err)
		}
		return types.PaymentBundle{}, errorsmod.Wrapf(types.ErrWrongNetwork, "on chain %d, switch to %d requested", acct.ChainID, g.params.ChainID)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending != "" {
		return types.PaymentBundle{}, errorsmod.Wrapf(types.ErrPaymentPending, "bundle %s", g.pending)
	}

	call := types.Call{
		To:    g.params.Contract,
		Data:  types.PayToPlayCalldata(),
		Value: g.params.Fee.Amount,
	}
	var caps types.Capabilities
	if suffix := types.AttributionSuffix(g.params.BuilderCodes...); suffix != nil {
		caps.DataSuffix = &types.DataSuffix{Value: suffix, Optional: true}
	}

	id, err := g.wallet.SendCalls(ctx, []types.Call{call}, caps)
	if err != nil {
		g.metrics.PaymentOutcome("rejected")
		return types.PaymentBundle{}, errorsmod.Wrap(types.ErrSubmissionRejected, err.Error())
	}
	g.pending = id
	g.metrics.PaymentOutcome("initiated")
	g.logger.Info(types.EventPaymentInitiated, types.AttrBundleID, id, types.AttrPlayer, acct.Address, types.AttrFee, g.params.Fee.String())

	return types.PaymentBundle{ID: id, Status: types.BundlePending}, nil
}

// Poll checks the bundle now and then once per poll interval until it reaches
// a terminal status. It returns nil the first time a bundle is seen confirmed,
// ErrPaymentFailed when the bundle failed, ErrPaymentAbandoned once a bounded
// poll budget is exhausted, and the context error when ctx ends first.
func (g *Gate) Poll(ctx context.Context, bundle types.PaymentBundle) error {
	ticker := time.NewTicker(g.params.PollInterval)
	defer ticker.Stop()

	var attempts uint32
	for {
		attempts++
		status, err := g.wallet.CallsStatus(ctx, bundle.ID)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				g.release(bundle.ID)
				return ctx.Err()
			}
			g.logger.Debug("bundle status unavailable", types.AttrBundleID, bundle.ID, "err", err)
		case status == types.BundleSuccess:
			return g.confirm(bundle.ID)
		case status == types.BundleFailure:
			g.release(bundle.ID)
			g.metrics.PaymentOutcome("failed")
			g.logger.Info(types.EventPaymentFailed, types.AttrBundleID, bundle.ID)
			return errorsmod.Wrapf(types.ErrPaymentFailed, "bundle %s", bundle.ID)
		}

		if g.params.Bounded() && attempts >= g.params.MaxPollAttempts {
			g.release(bundle.ID)
			g.metrics.PaymentOutcome("abandoned")
			return errorsmod.Wrapf(types.ErrPaymentAbandoned, "bundle %s unconfirmed after %d checks", bundle.ID, attempts)
		}

		select {
		case <-ctx.Done():
			g.release(bundle.ID)
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Pending returns the id of the bundle awaiting confirmation, if any.
func (g *Gate) Pending() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending, g.pending != ""
}

func (g *Gate) confirm(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == id {
		g.pending = ""
	}
	if g.confirmed.Contains(id) {
		return errorsmod.Wrapf(types.ErrAlreadyConfirmed, "bundle %s", id)
	}
	g.confirmed.Add(id, struct{}{})
	g.metrics.PaymentOutcome("confirmed")
	g.logger.Info(types.EventPaymentConfirmed, types.AttrBundleID, id)
	return nil
}

// release forgets a pending bundle that will not be polled anymore.
func (g *Gate) release(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == id {
		g.pending = ""
	}
}

// IsRedirect reports whether err asks the user to connect or switch networks
// rather than describing a failed payment.
func IsRedirect(err error) bool {
	return errors.Is(err, types.ErrNotConnected) || errors.Is(err, types.ErrWrongNetwork)
}
