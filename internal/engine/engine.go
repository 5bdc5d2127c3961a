// Package engine executes pairing plans and orchestrates the two-phase
// pairing flow across the slave and master stations.
//
// The engine owns no I/O primitives itself: it opens transports through an
// injected Opener, waits through an injected Clock, and reports through the
// caller's log sink, so the whole flow runs deterministically under test.
// Steps execute strictly in order on a single logical thread, since both
// roles may share one physical transport.
package engine

import (
	"context"

	"github.com/danieljhkim/hcpair/internal/cache"
	"github.com/danieljhkim/hcpair/internal/clock"
	"github.com/danieljhkim/hcpair/internal/detect"
	"github.com/danieljhkim/hcpair/internal/exchange"
	"github.com/danieljhkim/hcpair/internal/logx"
	"github.com/danieljhkim/hcpair/internal/transport"
)

// Engine runs detection, setup, and pairing attempts. Callers must not run
// attempts concurrently on the same transport; the engine performs no
// internal locking.
type Engine struct {
	open  transport.Opener
	clk   clock.Clock
	x     *exchange.Exchange
	store *cache.Cache
}

// New creates an Engine. store may be nil to disable the address cache.
func New(open transport.Opener, clk clock.Clock, store *cache.Cache) *Engine {
	return &Engine{
		open:  open,
		clk:   clk,
		x:     exchange.New(clk),
		store: store,
	}
}

// Detect probes device for a module.
func (e *Engine) Detect(ctx context.Context, device string, sink logx.Sink) (*detect.Result, error) {
	return detect.Detect(ctx, e.open, device, nil, e.x, sink)
}

// LastSlaveAddr returns the cached address from the most recent successful
// slave phase, if any.
func (e *Engine) LastSlaveAddr() (a string, ok bool) {
	if e.store == nil {
		return "", false
	}
	record, ok := e.store.LoadLast()
	if !ok {
		return "", false
	}
	return record.Colon, true
}
