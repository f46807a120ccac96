// Package shutdown turns termination signals into context cancellation.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/amp-labs/amp-flat/logger"
)

// Handler cancels its context when the process receives one of the signals
// it listens for, after running the registered hooks.
type Handler struct {
	ctx    context.Context //nolint:containedctx
	cancel context.CancelFunc

	signals chan os.Signal
	done    chan struct{}
	once    sync.Once

	mut   sync.Mutex
	hooks []func()
}

// Listen starts watching for sigs, or SIGINT and SIGTERM when none are given.
// Call Stop once the handler is no longer needed.
func Listen(parent context.Context, sigs ...os.Signal) *Handler {
	if len(sigs) == 0 {
		sigs = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	ctx, cancel := context.WithCancel(parent)

	h := &Handler{
		ctx:     ctx,
		cancel:  cancel,
		signals: make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}

	signal.Notify(h.signals, sigs...)

	go h.loop()

	return h
}

func (h *Handler) loop() {
	select {
	case sig := <-h.signals:
		logger.Get(h.ctx).Warn("Received " + sig.String() + ", shutting down...")
		h.trigger()
	case <-h.done:
	case <-h.ctx.Done():
	}
}

// Context is canceled once shutdown has been triggered.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// BeforeShutdown registers a function to be called before the context is
// canceled. The context is still alive while hooks run.
func (h *Handler) BeforeShutdown(hook func()) {
	h.mut.Lock()
	defer h.mut.Unlock()

	h.hooks = append(h.hooks, hook)
}

// Shutdown triggers the shutdown process programmatically. Extra calls are
// no-ops.
func (h *Handler) Shutdown() {
	select {
	case h.signals <- os.Interrupt:
	default:
	}
}

// Stop releases the signal subscription without running the hooks.
func (h *Handler) Stop() {
	h.once.Do(func() {
		signal.Stop(h.signals)
		close(h.done)
		h.cancel()
	})
}

func (h *Handler) trigger() {
	h.mut.Lock()
	hooks := h.hooks
	h.hooks = nil
	h.mut.Unlock()

	for _, hook := range hooks {
		hook()
	}

	h.cancel()
}
