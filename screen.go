package comterm

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/lestrrat-go/pdebug"
	"github.com/peco/comterm/config"
	"github.com/pkg/errors"
)

// Screen is the terminal. It is the Display of a session, drawing
// through a Console, and its InputSource, turning key presses into
// Events.
type Screen struct {
	mutex   sync.Mutex
	screen  tcell.Screen
	console *Console
	config  *config.Config

	// used only by the goroutine calling ReadInputEvent
	keys    keyTranslator
	pending []Event
}

// NewScreen creates a Screen; Init takes over the terminal.
func NewScreen(cfg *config.Config) *Screen {
	return &Screen{config: cfg}
}

// Init takes over the terminal.
func (s *Screen) Init() error {
	scr, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "failed to create tcell screen")
	}
	if err := scr.Init(); err != nil {
		return errors.Wrap(err, "failed to initialize tcell screen")
	}
	s.attach(scr)
	return nil
}

// attach starts drawing onto an initialized tcell.Screen.
func (s *Screen) attach(scr tcell.Screen) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.screen = scr
	s.console = NewConsole(scr, s.config)
	s.console.SetStatusText(fmt.Sprintf("%s %d 8N1", s.config.Port, s.config.Baud))
	s.console.Reset()
}

// Close gives the terminal back. A ReadInputEvent blocked at that
// moment returns ErrInputClosed.
func (s *Screen) Close() error {
	if pdebug.Enabled {
		pdebug.Printf("Screen: Close")
	}
	s.mutex.Lock()
	scr := s.screen
	s.screen = nil
	s.console = nil
	s.mutex.Unlock()

	if scr != nil {
		scr.Fini()
	}
	return nil
}

func (s *Screen) RenderByte(b byte) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.console == nil {
		return
	}
	s.console.RenderByte(b)
}

func (s *Screen) RenderModifierIndicator(mask ModifierMask) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.console == nil {
		return
	}
	s.console.RenderModifierIndicator(mask)
}

func (s *Screen) ProtectStatusLine() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.console == nil {
		return
	}
	s.console.ProtectStatusLine()
}

// ReadInputEvent blocks until the user does something that produces
// an Event. Resizes are handled here and never reach the caller.
func (s *Screen) ReadInputEvent() (Event, error) {
	for {
		if len(s.pending) > 0 {
			ev := s.pending[0]
			s.pending = s.pending[1:]
			return ev, nil
		}

		s.mutex.Lock()
		scr := s.screen
		s.mutex.Unlock()
		if scr == nil {
			return Event{}, ErrInputClosed
		}

		switch ev := scr.PollEvent().(type) {
		case nil:
			return Event{}, ErrInputClosed
		case *tcell.EventInterrupt:
			return Event{}, ErrInterrupted
		case *tcell.EventResize:
			s.mutex.Lock()
			if s.console != nil {
				s.console.Resize()
			}
			s.mutex.Unlock()
		case *tcell.EventKey:
			if pdebug.Enabled {
				pdebug.Printf("Screen: key %v rune %q mod %v", ev.Key(), ev.Rune(), ev.Modifiers())
			}
			s.pending = append(s.pending, s.keys.translate(ev.Key(), ev.Rune(), ev.Modifiers())...)
		}
	}
}

// Interrupt wakes up a blocked ReadInputEvent. If no read is in
// progress, the next one returns ErrInterrupted immediately.
func (s *Screen) Interrupt() {
	s.mutex.Lock()
	scr := s.screen
	s.mutex.Unlock()
	if scr == nil {
		return
	}
	_ = scr.PostEvent(tcell.NewEventInterrupt(nil))
}
