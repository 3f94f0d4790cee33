package implementors

import (
	"context"
	"sync"

	"github.com/vk/fragments/internal/ctxlog"
)

// Aggregator consumes implementor tables, typically merging them into page
// rendering state.
type Aggregator func(*Table)

// State is the lifecycle state of a Loader.
type State int

const (
	// NotReady means no aggregator is registered; offers are parked.
	NotReady State = iota
	// Ready means an aggregator is registered; offers are dispatched.
	Ready
)

func (s State) String() string {
	switch s {
	case NotReady:
		return "not_ready"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Loader routes offered tables to an aggregator, or parks the most recent
// one until an aggregator registers. The zero value is a NotReady Loader
// with an empty pending slot.
type Loader struct {
	mu         sync.Mutex
	aggregator Aggregator
	pending    *Table
}

// NewLoader returns a NotReady Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Default is the process-wide Loader used by Offer and Register.
var Default = NewLoader()

// Offer hands t to the process-wide Loader.
func Offer(ctx context.Context, t *Table) {
	Default.Offer(ctx, t)
}

// Register installs agg on the process-wide Loader.
func Register(ctx context.Context, agg Aggregator) {
	Default.Register(ctx, agg)
}

// State returns the current lifecycle state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.aggregator == nil {
		return NotReady
	}
	return Ready
}

// Offer dispatches t to the registered aggregator before returning, or parks
// it in the pending slot when none is registered. Parking replaces any table
// already waiting there. A nil t is offered as an empty Table.
func (l *Loader) Offer(ctx context.Context, t *Table) {
	if t == nil {
		t = NewTable()
	}
	logger := ctxlog.FromContext(ctx)

	l.mu.Lock()
	agg := l.aggregator
	if agg == nil {
		discarded := l.pending != nil
		l.pending = t
		l.mu.Unlock()
		logger.Debug("Implementor table parked.", "crates", t.Names(), "replaced_pending", discarded)
		return
	}
	l.mu.Unlock()

	logger.Debug("Dispatching implementor table.", "crates", t.Names())
	agg(t)
}

// Register installs agg and moves the Loader to Ready. A parked table is
// taken out of the pending slot and passed to agg before Register returns.
// Registering again replaces the aggregator. agg must not be nil.
func (l *Loader) Register(ctx context.Context, agg Aggregator) {
	if agg == nil {
		panic("implementors: Register called with a nil aggregator")
	}
	logger := ctxlog.FromContext(ctx)

	l.mu.Lock()
	replaced := l.aggregator != nil
	l.aggregator = agg
	parked := l.pending
	l.pending = nil
	l.mu.Unlock()

	logger.Debug("Aggregator registered.", "replaced", replaced, "replay", parked != nil)
	if parked != nil {
		agg(parked)
	}
}

// Pending returns the parked table, if any, without consuming it.
func (l *Loader) Pending() (*Table, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending, l.pending != nil
}

// Reset drops the aggregator and any parked table, returning the Loader to
// its initial state.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.aggregator = nil
	l.pending = nil
}
