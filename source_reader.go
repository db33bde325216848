package comterm

import (
	"context"
	"time"

	"github.com/lestrrat-go/pdebug"
	"github.com/peco/comterm/buffer"
	"github.com/peco/comterm/hub"
)

// errorLogInterval is how many consecutive read errors are folded into
// one log line.
const errorLogInterval = 100

// NewSourceReader creates the producer for the serial ring of s.
func NewSourceReader(s *Session) *SourceReader {
	return &SourceReader{
		session:   s,
		ring:      s.source,
		ready:     s.hub.SourceReady(),
		space:     s.hub.SourceSpace(),
		idleYield: s.config.IdleYieldDuration(),
	}
}

// Run reads from the Device until the session shuts down. Reads time
// out, so the shutdown flag is seen at least once per read timeout.
func (r *SourceReader) Run(ctx context.Context) error {
	if pdebug.Enabled {
		g := pdebug.Marker("SourceReader.Run")
		defer g.End()
	}

	var errStreak int
	for !r.session.ShuttingDown() {
		if !waitForSpace(ctx, r.session, r.ring, r.space) {
			return nil
		}

		// The span never crosses the end of the storage; bytes that
		// would wrap are picked up by the next read.
		span := r.ring.WritableSpan()
		n, err := r.session.device.ReadBytes(span)
		if err != nil {
			if r.session.ShuttingDown() {
				return nil
			}
			errStreak++
			if errStreak == 1 || errStreak%errorLogInterval == 0 {
				r.session.logger.Printf("failed to read from device (%d in a row): %s", errStreak, err)
			}
			r.yield(ctx)
			continue
		}
		errStreak = 0

		if n == 0 {
			r.yield(ctx)
			continue
		}

		if pdebug.Enabled {
			pdebug.Printf("SourceReader: read %d bytes", n)
		}
		if r.ring.AdvanceWrite(n) {
			r.space.Clear()
		}
		r.ready.Raise()
	}
	return nil
}

// yield pauses after an empty read so that the loop does not spin.
func (r *SourceReader) yield(ctx context.Context) {
	if r.idleYield <= 0 {
		return
	}
	t := time.NewTimer(r.idleYield)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// waitForSpace parks a producer while its ring is full. Every wakeup
// is checked against the cursors again: a "space freed" raise left
// over from an earlier drain does not mean there is room now. It
// returns false when the producer should stop.
func waitForSpace[T any](ctx context.Context, s *Session, ring *buffer.Ring[T], space *hub.Signal) bool {
	for ring.Full() {
		if s.ShuttingDown() {
			return false
		}
		if pdebug.Enabled {
			pdebug.Printf("waiting for %s", space.Name())
		}
		if err := space.Wait(ctx); err != nil {
			return false
		}
		space.Clear()
	}
	return !s.ShuttingDown()
}
