package comterm

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/lestrrat-go/pdebug"
	"github.com/peco/comterm/buffer"
	"github.com/peco/comterm/config"
	"github.com/peco/comterm/hub"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type nullLogger struct{}

func (nullLogger) Printf(_ string, _ ...any) {}

var tracer Logger = nullLogger{}

func init() {
	if v, err := strconv.ParseBool(os.Getenv("COMTERM_TRACE")); err == nil && v {
		tracer = log.New(os.Stderr, "comterm: ", log.LstdFlags)
		tracer.Printf("==== INITIALIZED tracer ====")
	}
}

// New creates a Session. Both rings are allocated here, so an invalid
// buffer size is reported before anything touches the terminal.
func New(cfg *config.Config, dev Device, in InputSource, disp Display) (*Session, error) {
	source, err := buffer.New[byte](cfg.SourceBufferSize)
	if err != nil {
		return nil, setExitStatus(errors.Wrap(err, "failed to allocate source buffer"), 1)
	}
	events, err := buffer.New[Event](cfg.InputBufferSize)
	if err != nil {
		return nil, setExitStatus(errors.Wrap(err, "failed to allocate input buffer"), 1)
	}

	return &Session{
		config:   cfg,
		device:   dev,
		input:    in,
		display:  disp,
		logger:   tracer,
		hub:      hub.New(),
		source:   source,
		events:   events,
		sentinel: byte(cfg.Sentinel),
	}, nil
}

// SetLogger replaces the logger. It must be called before Run.
func (s *Session) SetLogger(l Logger) {
	if l == nil {
		l = nullLogger{}
	}
	s.logger = l
}

// Hub returns the signals shared by the producers and the Dispatcher.
func (s *Session) Hub() *hub.Hub {
	return s.hub
}

// ShuttingDown reports whether the shutdown flag has been set. Both
// producers look at it once per iteration.
func (s *Session) ShuttingDown() bool {
	return s.shutdown.Load()
}

// Run starts both producers, runs the Dispatcher on the calling
// goroutine and returns after all three have finished. It returns nil
// when the session ended through the sentinel keystroke or Shutdown.
func (s *Session) Run(ctx context.Context) error {
	if pdebug.Enabled {
		g := pdebug.Marker("Session.Run")
		defer g.End()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mutex.Lock()
	s.cancel = cancel
	s.mutex.Unlock()
	if s.ShuttingDown() {
		return nil
	}

	s.display.RenderModifierIndicator(ModNone)
	s.renderBanner()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return NewSourceReader(s).Run(gctx)
	})
	g.Go(func() error {
		return NewInputReader(s).Run(gctx)
	})

	err := NewDispatcher(s).Run(gctx)
	requested := s.ShuttingDown()
	s.Shutdown()

	if gerr := g.Wait(); gerr != nil {
		return gerr
	}
	if err != nil && !requested {
		return err
	}
	return nil
}

// renderBanner shows the configured banner on a line of its own. It
// goes through RenderByte like any byte from the line would.
func (s *Session) renderBanner() {
	if s.config.Banner == "" {
		return
	}
	for _, b := range []byte(s.config.Banner) {
		s.display.RenderByte(b)
	}
	s.display.RenderByte('\r')
	s.display.RenderByte('\n')
}

// Shutdown sets the shutdown flag and releases everything a task may
// be blocked on: the Dispatcher's wait, a producer parked on a full
// ring, the Device and the InputSource. It is safe to call more than
// once and from any goroutine.
func (s *Session) Shutdown() {
	s.shutdownOnce.Do(func() {
		if pdebug.Enabled {
			pdebug.Printf("Session.Shutdown")
		}
		s.shutdown.Store(true)

		s.mutex.Lock()
		cancel := s.cancel
		s.mutex.Unlock()
		if cancel != nil {
			cancel()
		}

		s.hub.ReleaseProducers()
		if err := s.device.Close(); err != nil {
			s.logger.Printf("failed to close device: %s", err)
		}
		s.input.Interrupt()
	})
}
