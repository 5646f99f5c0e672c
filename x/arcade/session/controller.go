package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"cosmossdk.io/log"

	"dinorun/x/arcade/payment"
	"dinorun/x/arcade/telemetry"
	"dinorun/x/arcade/types"
)

const eventBuffer = 64

// Controller runs one participant's session. All state transitions happen on
// the goroutine executing Run; wallet, ledger and timer work runs on helper
// goroutines that report back through Dispatch.
type Controller struct {
	params  types.Params
	wallet  types.Wallet
	ledger  types.Ledger
	engine  types.Engine
	gate    *payment.Gate
	logger  log.Logger
	metrics *telemetry.Metrics

	events chan Event
	done   chan struct{}
	ctx    context.Context
	wg     sync.WaitGroup

	mu       sync.RWMutex
	state    State
	watchers []func(State)

	pollsMu sync.Mutex
	polls   map[string]context.CancelFunc
}

// NewController creates a controller for the given collaborators.
func NewController(
	params types.Params,
	wallet types.Wallet,
	ledger types.Ledger,
	engine types.Engine,
	logger log.Logger,
	metrics *telemetry.Metrics,
) *Controller {
	return &Controller{
		params:  params,
		wallet:  wallet,
		ledger:  ledger,
		engine:  engine,
		gate:    payment.NewGate(wallet, params, logger, metrics),
		logger:  logger.With("module", "x/"+types.ModuleName+"/session"),
		metrics: metrics,
		events:  make(chan Event, eventBuffer),
		done:    make(chan struct{}),
		state:   NewState(types.Account{}),
		polls:   make(map[string]context.CancelFunc),
	}
}

// Watch registers fn to receive every new state. It must be called before Run;
// fn runs on the event loop and must not block.
func (c *Controller) Watch(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.watchers = append(c.watchers, fn)
}

// State returns the latest state snapshot.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Dispatch queues ev for the event loop. It returns false once the loop has
// stopped.
func (c *Controller) Dispatch(ev Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.events <- ev:
		return true
	case <-c.done:
		return false
	}
}

func (c *Controller) Connect()    { c.Dispatch(ConnectRequested{}) }
func (c *Controller) Disconnect() { c.Dispatch(DisconnectRequested{}) }
func (c *Controller) Pay()        { c.Dispatch(PayRequested{}) }
func (c *Controller) Start()      { c.Dispatch(StartRequested{}) }
func (c *Controller) Jump()       { c.Dispatch(JumpRequested{}) }
func (c *Controller) Dismiss()    { c.Dispatch(ResultDismissed{}) }
func (c *Controller) Refresh()    { c.Dispatch(RefreshRequested{}) }

// Run reads the ledger views and then processes events until ctx is done.
// Helper goroutines are cancelled and awaited before Run returns.
func (c *Controller) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.ctx = ctx
	defer func() {
		cancel()
		close(c.done)
		c.wg.Wait()
	}()

	c.async(c.syncAccount)
	// the global top 10 is shown with or without a connected wallet
	c.apply(RefreshRequested{})

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-c.events:
			c.apply(ev)
		}
	}
}

func (c *Controller) apply(ev Event) {
	c.mu.RLock()
	prev := c.state
	watchers := c.watchers
	c.mu.RUnlock()

	next, effects := Update(prev, ev, c.params)

	c.mu.Lock()
	c.state = next
	c.mu.Unlock()

	c.observe(prev, next, ev)
	for _, fn := range watchers {
		fn(next)
	}
	for _, eff := range effects {
		c.execute(eff)
	}
}

func (c *Controller) observe(prev, next State, ev Event) {
	if prev.Phase != next.Phase {
		c.logger.Info("session transition", "from", prev.Phase, "to", next.Phase, types.AttrRound, next.Round)
	}
	switch ev.(type) {
	case RoundOver:
		if prev.Phase != PhasePlaying || next.Phase != PhaseGameOver {
			return
		}
		c.metrics.RoundPlayed()
		c.logger.Info(types.EventGameOver, types.AttrRound, next.Round, types.AttrScore, next.LastScore, "submit", next.Submitted)
		if next.NewHighScore {
			c.logger.Info(types.EventHighScore, types.AttrScore, next.LastScore, types.AttrPlayer, next.Account.Address)
		}
	case PaymentRejected:
		if next.LastError != nil {
			c.logger.Error("payment rejected", "err", next.LastError)
		}
	}
}

func (c *Controller) execute(eff Effect) {
	switch eff := eff.(type) {
	case ConnectWallet:
		c.async(func(ctx context.Context) {
			if err := c.wallet.Connect(ctx); err != nil {
				c.logger.Error("wallet connect failed", "err", err)
			}
			c.syncAccount(ctx)
		})

	case DisconnectWallet:
		c.async(func(ctx context.Context) {
			if err := c.wallet.Disconnect(ctx); err != nil {
				c.logger.Error("wallet disconnect failed", "err", err)
			}
			c.syncAccount(ctx)
		})

	case SwitchNetwork:
		c.metrics.PaymentOutcome("switch_network")
		c.logger.Info(types.EventNetworkSwitch, types.AttrChainID, eff.ChainID)
		c.async(func(ctx context.Context) {
			if err := c.wallet.SwitchChain(ctx, eff.ChainID); err != nil {
				c.logger.Error("network switch failed", "err", err)
			}
			c.syncAccount(ctx)
		})

	case SubmitPayment:
		c.async(func(ctx context.Context) {
			bundle, err := c.gate.Initiate(ctx)
			if err != nil {
				c.Dispatch(PaymentRejected{Err: err})
				if errors.Is(err, types.ErrWrongNetwork) {
					c.syncAccount(ctx)
				}
				return
			}
			c.Dispatch(PaymentSubmitted{Bundle: bundle})
		})

	case PollPayment:
		pollCtx, cancel := context.WithCancel(c.ctx)
		c.pollsMu.Lock()
		c.polls[eff.Bundle.ID] = cancel
		c.pollsMu.Unlock()
		c.async(func(context.Context) {
			defer c.abandon(eff.Bundle.ID)
			err := c.gate.Poll(pollCtx, eff.Bundle)
			switch {
			case err == nil:
				c.Dispatch(PaymentConfirmed{BundleID: eff.Bundle.ID})
			case pollCtx.Err() != nil:
			default:
				c.Dispatch(PaymentFailed{BundleID: eff.Bundle.ID, Err: err})
			}
		})

	case AbandonPayment:
		c.abandon(eff.BundleID)

	case StartEngine:
		round := eff.Round
		c.logger.Info(types.EventGameStarted, types.AttrRound, round)
		if err := c.engine.Start(func(score uint64) {
			c.Dispatch(RoundOver{Round: round, Score: score})
		}); err != nil {
			c.logger.Error("engine failed to start", types.AttrRound, round, "err", err)
			c.async(func(context.Context) { c.Dispatch(EngineFailed{Round: round, Err: err}) })
		}

	case Jump:
		c.engine.Jump()

	case SubmitScore:
		c.async(func(ctx context.Context) {
			err := c.ledger.SubmitScore(ctx, eff.Score)
			c.metrics.ScoreSubmitted(err == nil)
			if err != nil {
				c.logger.Error("score submission failed", types.AttrScore, eff.Score, "err", err)
				return
			}
			c.logger.Info(types.EventScoreSubmitted, types.AttrScore, eff.Score)
		})

	case ScheduleRefresh:
		c.async(func(ctx context.Context) {
			timer := time.NewTimer(eff.After)
			defer timer.Stop()
			select {
			case <-ctx.Done():
			case <-timer.C:
				c.Dispatch(RefreshRequested{})
			}
		})

	case RefreshLedger:
		c.async(func(ctx context.Context) { c.refresh(ctx, eff.Player) })
	}
}

// refresh reads both ledger views. A failed read leaves the cached view as is.
func (c *Controller) refresh(ctx context.Context, player types.Address) {
	if !player.Empty() {
		pb, err := c.ledger.PersonalBest(ctx, player)
		c.metrics.LedgerRead("personal_best", err == nil)
		if err != nil {
			c.logger.Error("failed to read personal best", types.AttrPlayer, player, "err", err)
		} else {
			c.Dispatch(PersonalBestLoaded{Player: player, PersonalBest: pb})
		}
	}

	entries, err := c.ledger.GlobalTop10(ctx)
	c.metrics.LedgerRead("global_top10", err == nil)
	if err != nil {
		c.logger.Error("failed to read global top 10", "err", err)
		return
	}
	c.Dispatch(GlobalTop10Loaded{Entries: entries})
	c.logger.Debug(types.EventLedgerRefreshed, "rows", len(entries))
}

func (c *Controller) syncAccount(ctx context.Context) {
	acct, err := c.wallet.Account(ctx)
	if err != nil {
		c.logger.Error("failed to read wallet account", "err", err)
		return
	}
	c.Dispatch(AccountChanged{Account: acct})
}

func (c *Controller) abandon(bundleID string) {
	c.pollsMu.Lock()
	cancel, ok := c.polls[bundleID]
	delete(c.polls, bundleID)
	c.pollsMu.Unlock()
	if ok {
		cancel()
	}
}

func (c *Controller) async(fn func(ctx context.Context)) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn(c.ctx)
	}()
}
