package hub

import (
	"context"

	pdebug "github.com/lestrrat-go/pdebug"
)

// NewMux creates a Mux over the given signals. The index Wait reports
// is the position of the signal in this argument list.
func NewMux(signals ...*Signal) *Mux {
	m := &Mux{
		signals:  signals,
		notifyCh: make(chan struct{}, 1),
	}
	for _, s := range signals {
		s.watch(m.notifyCh)
	}
	return m
}

// Wait blocks until at least one of the signals is raised and returns
// its index. When several are raised at once the scan starts just past
// the index returned last time, so signals that stay raised take turns.
// Wait does not clear the signal it reports.
func (m *Mux) Wait(ctx context.Context) (int, error) {
	if pdebug.Enabled {
		g := pdebug.Marker("Mux.Wait")
		defer g.End()
	}

	for {
		// A Raise that lands after this scan leaves a token in
		// notifyCh, so the select below cannot miss it.
		for i := range m.signals {
			idx := (m.next + i) % len(m.signals)
			if m.signals[idx].IsSet() {
				m.next = (idx + 1) % len(m.signals)
				return idx, nil
			}
		}

		select {
		case <-ctx.Done():
			return -1, ctx.Err()
		case <-m.notifyCh:
		}
	}
}
