package comterm

import (
	"context"

	"github.com/lestrrat-go/pdebug"
	"github.com/pkg/errors"
)

// NewInputReader creates the producer for the keyboard ring of s.
func NewInputReader(s *Session) *InputReader {
	return &InputReader{
		session: s,
		ring:    s.events,
		ready:   s.hub.InputReady(),
		space:   s.hub.InputSpace(),
	}
}

// Run reads events from the InputSource until the session shuts down.
// The read has no timeout; Session.Shutdown interrupts it.
func (r *InputReader) Run(ctx context.Context) error {
	if pdebug.Enabled {
		g := pdebug.Marker("InputReader.Run")
		defer g.End()
	}

	for !r.session.ShuttingDown() {
		if !waitForSpace(ctx, r.session, r.ring, r.space) {
			return nil
		}

		ev, err := r.session.input.ReadInputEvent()
		if r.session.ShuttingDown() || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			if errors.Is(err, ErrInterrupted) {
				continue
			}
			return errors.Wrap(err, "failed to read input event")
		}

		switch ev.Type {
		case EventModifier:
			r.session.display.RenderModifierIndicator(ev.Mods)
		case EventChar:
			r.ring.WritableSpan()[0] = ev
			if r.ring.AdvanceWrite(1) {
				r.space.Clear()
			}
			r.ready.Raise()
		default:
			r.session.logger.Printf("dropping input event of unknown type %s", ev.Type)
		}
	}
	return nil
}
