// Package sig turns termination signals into a session shutdown request.
package sig

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

type ReceivedHandler interface {
	Handle(os.Signal)
}

type ReceivedHandlerFunc func(os.Signal)

// Handle calls the underlying function with the received signal.
func (s ReceivedHandlerFunc) Handle(sig os.Signal) {
	s(sig)
}

type Handler struct {
	onSignalReceived ReceivedHandler
	sigCh            chan os.Signal

	mutex    sync.Mutex
	received os.Signal
}

// DefaultSignals are the signals that end a session when none are
// given to New.
var DefaultSignals = []os.Signal{syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP}

// New creates a signal handler that forwards the first of the
// specified signals (default: DefaultSignals) to h.
func New(h ReceivedHandler, sigs ...os.Signal) *Handler {
	if len(sigs) == 0 {
		sigs = DefaultSignals
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	return &Handler{
		onSignalReceived: h,
		sigCh:            ch,
	}
}

// Received returns the signal that was forwarded, or nil.
func (h *Handler) Received() os.Signal {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.received
}

// Loop waits for a signal and hands it to the handler. It returns nil
// both after a signal was handled and when ctx is done, since the end
// of the session is the normal way out of the loop.
func (h *Handler) Loop(ctx context.Context) error {
	defer signal.Stop(h.sigCh)

	select {
	case <-ctx.Done():
		return nil
	case s := <-h.sigCh:
		h.mutex.Lock()
		h.received = s
		h.mutex.Unlock()
		h.onSignalReceived.Handle(s)
		return nil
	}
}
