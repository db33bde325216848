// Package comterm relays bytes between a serial line and the terminal.
//
// Two producers fill bounded rings: the SourceReader with bytes from
// the Device, the InputReader with keystrokes from the InputSource.
// The Dispatcher drains one element at a time from whichever ring is
// ready, renders it and, for keystrokes, writes it to the Device.
package comterm

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/peco/comterm/buffer"
	"github.com/peco/comterm/config"
	"github.com/peco/comterm/hub"
)

// Device is the serial line.
type Device interface {
	// ReadBytes reads at most len(p) bytes. It must return within a
	// bounded time; (0, nil) means nothing arrived before the timeout.
	ReadBytes(p []byte) (int, error)
	// WriteByte sends one byte down the line.
	WriteByte(c byte) error
	Close() error
}

// InputSource produces keyboard events.
type InputSource interface {
	// ReadInputEvent blocks until an event is available.
	ReadInputEvent() (Event, error)
	// Interrupt makes a blocked ReadInputEvent return ErrInterrupted.
	Interrupt()
}

// Display is where received and typed bytes are shown. The bottom row
// is reserved for the status line.
type Display interface {
	RenderByte(b byte)
	RenderModifierIndicator(mask ModifierMask)
	// ProtectStatusLine scrolls the text region when the cursor sits
	// on the status row.
	ProtectStatusLine()
}

// Logger receives operational messages.
type Logger interface {
	Printf(string, ...any)
}

// Session holds everything the three tasks share: the rings, the
// signals between them, the shutdown flag and the collaborators.
type Session struct {
	config  *config.Config
	device  Device
	input   InputSource
	display Display
	logger  Logger

	hub      *hub.Hub
	source   *buffer.Ring[byte]
	events   *buffer.Ring[Event]
	sentinel byte

	shutdown     atomic.Bool
	shutdownOnce sync.Once
	mutex        sync.Mutex
	cancel       context.CancelFunc
}

// SourceReader moves bytes from the Device into the source ring.
type SourceReader struct {
	session   *Session
	ring      *buffer.Ring[byte]
	ready     *hub.Signal
	space     *hub.Signal
	idleYield time.Duration
}

// InputReader moves keyboard events from the InputSource into the
// input ring. Modifier changes bypass the ring and go straight to the
// Display.
type InputReader struct {
	session *Session
	ring    *buffer.Ring[Event]
	ready   *hub.Signal
	space   *hub.Signal
}

// Dispatcher is the consumer of both rings.
type Dispatcher struct {
	session *Session
}
