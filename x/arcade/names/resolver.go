// Package names resolves wallet addresses to human readable labels.
//
// A label starts as the truncated address and is upgraded once: first from the
// identity service (Farcaster username), then from the on-chain reverse name.
// Failures of either source are absorbed and the truncated form remains.
package names

import (
	"context"
	"sync"
	"time"

	"cosmossdk.io/log"

	"dinorun/x/arcade/telemetry"
	"dinorun/x/arcade/types"
)

const (
	SourceIdentity  = "identity"
	SourceReverse   = "reverse"
	SourceTruncated = "truncated"
)

// Truncate returns the short form of addr shown until a name resolves.
func Truncate(addr types.Address) string {
	return addr.Short()
}

// Resolver runs the label cascade. Either source may be nil.
type Resolver struct {
	identity types.IdentityLookup
	names    types.NameService
	logger   log.Logger
	metrics  *telemetry.Metrics
}

func NewResolver(identity types.IdentityLookup, names types.NameService, logger log.Logger, metrics *telemetry.Metrics) *Resolver {
	return &Resolver{
		identity: identity,
		names:    names,
		logger:   logger.With("module", "x/"+types.ModuleName+"/names"),
		metrics:  metrics,
	}
}

// Resolve runs the cascade synchronously and returns the best label found.
func (r *Resolver) Resolve(ctx context.Context, addr types.Address) string {
	label, _ := r.resolve(ctx, addr, nil)
	return label
}

// resolve returns the label and the source it came from. attempted, when set,
// is called once the identity step finished without a name.
func (r *Resolver) resolve(ctx context.Context, addr types.Address, attempted func()) (string, string) {
	if name := r.lookupIdentity(ctx, addr); name != "" {
		return name, SourceIdentity
	}
	if ctx.Err() != nil {
		return Truncate(addr), SourceTruncated
	}
	if attempted != nil {
		attempted()
	}

	if r.names != nil {
		name, err := r.names.ReverseName(ctx, addr)
		switch {
		case err != nil:
			r.logger.Debug("reverse name lookup failed", types.AttrPlayer, addr, "err", err)
		case name != "":
			return name, SourceReverse
		}
	}
	return Truncate(addr), SourceTruncated
}

func (r *Resolver) lookupIdentity(ctx context.Context, addr types.Address) string {
	if r.identity == nil {
		return ""
	}
	start := time.Now()
	name, err := r.identity.Lookup(ctx, addr)
	r.metrics.ObserveLookup(time.Since(start).Seconds(), err == nil)
	if err != nil {
		r.logger.Debug("identity lookup failed", types.AttrPlayer, addr, "err", err)
		return ""
	}
	return name
}

// Binding is a label for one address that upgrades itself in the background.
type Binding struct {
	addr     types.Address
	ctx      context.Context
	cancel   context.CancelFunc
	onChange func(string)
	done     chan struct{}

	mu        sync.Mutex
	label     string
	attempted bool
}

// Bind starts resolving addr and returns immediately with the truncated label
// in place. onChange receives every later label; it is called with the
// binding's lock held and must not call back into the Binding. Nothing is
// written or reported once ctx is done or Close has returned.
func (r *Resolver) Bind(ctx context.Context, addr types.Address, onChange func(label string)) *Binding {
	ctx, cancel := context.WithCancel(ctx)
	b := &Binding{
		addr:     addr,
		ctx:      ctx,
		cancel:   cancel,
		onChange: onChange,
		done:     make(chan struct{}),
		label:    Truncate(addr),
	}

	go func() {
		defer close(b.done)
		label, source := r.resolve(ctx, addr, b.markAttempted)
		if b.set(label) {
			r.metrics.NameResolved(source)
			r.logger.Debug(types.EventNameResolved, types.AttrPlayer, addr, types.AttrSource, source)
		}
	}()
	return b
}

// Label returns the current label.
func (b *Binding) Label() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.label
}

// Attempted reports whether the identity lookup finished without a name.
func (b *Binding) Attempted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attempted
}

// Done is closed when resolution has finished or was cancelled.
func (b *Binding) Done() <-chan struct{} { return b.done }

// Close cancels any outstanding lookup. After Close returns the label no
// longer changes.
func (b *Binding) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cancel()
}

func (b *Binding) markAttempted() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ctx.Err() == nil {
		b.attempted = true
	}
}

func (b *Binding) set(label string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ctx.Err() != nil {
		return false
	}
	if label != b.label {
		b.label = label
		if b.onChange != nil {
			b.onChange(label)
		}
	}
	return true
}
