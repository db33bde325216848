package comterm

import (
	"context"

	"github.com/lestrrat-go/pdebug"
	"github.com/peco/comterm/hub"
)

// NewDispatcher creates the consumer of both rings of s.
func NewDispatcher(s *Session) *Dispatcher {
	return &Dispatcher{session: s}
}

// Run waits for either ring to become ready and drains one element
// per wakeup, so neither ring can starve the other. It returns nil
// after the sentinel keystroke, or ctx.Err() when ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	if pdebug.Enabled {
		g := pdebug.Marker("Dispatcher.Run")
		defer g.End()
	}

	for {
		which, err := d.session.hub.WaitData(ctx)
		if err != nil {
			return err
		}
		if d.handle(which) {
			return nil
		}
	}
}

// handle processes one wakeup. It reports whether the session is over.
func (d *Dispatcher) handle(which int) bool {
	switch which {
	case hub.SourceData:
		d.drainSource()
	case hub.InputData:
		if d.drainInput() {
			if pdebug.Enabled {
				pdebug.Printf("Dispatcher: sentinel received")
			}
			d.session.Shutdown()
			return true
		}
	default:
		d.session.logger.Printf("dispatcher: unexpected wait result %d, ignoring", which)
	}
	return false
}

// drainSource renders one byte from the serial ring.
func (d *Dispatcher) drainSource() {
	s := d.session
	ready := s.hub.SourceReady()

	s.display.ProtectStatusLine()

	// Clear before looking: a byte published after this point raises
	// the signal again.
	ready.Clear()
	if s.source.Empty() {
		return
	}

	b := s.source.Front()
	empty := s.source.AdvanceRead(1)
	s.display.RenderByte(b)

	if !empty {
		ready.Raise()
	}
	s.hub.SourceSpace().Raise()
}

// drainInput echoes one keystroke and sends it to the Device. It
// reports whether the keystroke was the sentinel, which is neither
// shown nor sent.
func (d *Dispatcher) drainInput() bool {
	s := d.session
	ready := s.hub.InputReady()

	ready.Clear()
	if s.events.Empty() {
		return false
	}

	ev := s.events.Front()
	empty := s.events.AdvanceRead(1)

	if ev.Type == EventChar {
		if ev.Ch == s.sentinel {
			return true
		}

		s.display.ProtectStatusLine()
		s.display.RenderByte(ev.Ch)
		if err := s.device.WriteByte(ev.Ch); err != nil {
			s.logger.Printf("failed to write %#02x to device: %s", ev.Ch, err)
		}
	}

	if !empty {
		ready.Raise()
	}
	s.hub.InputSpace().Raise()
	return false
}
