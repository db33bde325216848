package comterm

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/peco/comterm/config"
	"github.com/peco/comterm/internal/mock"
	"github.com/stretchr/testify/require"
)

// recordingDisplay is a Display that remembers what it was asked to do.
type recordingDisplay struct {
	*mock.Interceptor

	mutex    sync.Mutex
	rendered []byte
	mods     []ModifierMask
	initErr  error
}

func newRecordingDisplay() *recordingDisplay {
	return &recordingDisplay{Interceptor: mock.NewInterceptor()}
}

func (d *recordingDisplay) RenderByte(b byte) {
	d.Record("RenderByte", b)
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.rendered = append(d.rendered, b)
}

func (d *recordingDisplay) RenderModifierIndicator(mask ModifierMask) {
	d.Record("RenderModifierIndicator", mask)
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.mods = append(d.mods, mask)
}

func (d *recordingDisplay) ProtectStatusLine() {
	d.Record("ProtectStatusLine")
}

func (d *recordingDisplay) Rendered() []byte {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	out := make([]byte, len(d.rendered))
	copy(out, d.rendered)
	return out
}

func (d *recordingDisplay) Mods() []ModifierMask {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	out := make([]ModifierMask, len(d.mods))
	copy(out, d.mods)
	return out
}

// scriptedInput is an InputSource fed by the test through Send.
type scriptedInput struct {
	*mock.Interceptor
	events    chan Event
	interrupt chan struct{}
}

func newScriptedInput() *scriptedInput {
	return &scriptedInput{
		Interceptor: mock.NewInterceptor(),
		events:      make(chan Event, 64),
		interrupt:   make(chan struct{}, 1),
	}
}

func (in *scriptedInput) Send(events ...Event) {
	for _, ev := range events {
		in.events <- ev
	}
}

func (in *scriptedInput) ReadInputEvent() (Event, error) {
	in.Record("ReadInputEvent")
	select {
	case ev, ok := <-in.events:
		if !ok {
			return Event{}, ErrInputClosed
		}
		return ev, nil
	case <-in.interrupt:
		return Event{}, ErrInterrupted
	}
}

func (in *scriptedInput) Interrupt() {
	in.Record("Interrupt")
	select {
	case in.interrupt <- struct{}{}:
	default:
	}
}

// fakeTerminal bundles the fakes into what the CLI expects.
type fakeTerminal struct {
	*scriptedInput
	*recordingDisplay
}

func (t *fakeTerminal) Init() error {
	return t.recordingDisplay.initErr
}

func (t *fakeTerminal) Close() error {
	t.recordingDisplay.Record("Close")
	return nil
}

type recordingLogger struct {
	*mock.Interceptor
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{Interceptor: mock.NewInterceptor()}
}

func (l *recordingLogger) Printf(f string, args ...any) {
	l.Record("Printf", fmt.Sprintf(f, args...))
}

func testConfig() *config.Config {
	cfg := config.New()
	cfg.Banner = ""
	cfg.IdleYield = 1
	cfg.ReadTimeout = 10
	return cfg
}

type testSession struct {
	*Session
	dev     *mock.Device
	input   *scriptedInput
	display *recordingDisplay
	logger  *recordingLogger
}

func newTestSession(t *testing.T, cfg *config.Config) *testSession {
	t.Helper()

	dev := mock.NewDevice(cfg.ReadTimeoutDuration())
	input := newScriptedInput()
	display := newRecordingDisplay()
	logger := newRecordingLogger()

	s, err := New(cfg, dev, input, display)
	require.NoError(t, err, "New should succeed")
	s.SetLogger(logger)

	return &testSession{
		Session: s,
		dev:     dev,
		input:   input,
		display: display,
		logger:  logger,
	}
}

// runSession runs ts in the background and returns a channel that
// receives the result of Run.
func runSession(t *testing.T, ts *testSession) <-chan error {
	t.Helper()
	errCh := make(chan error, 1)
	go func() {
		errCh <- ts.Run(t.Context())
	}()
	return errCh
}

func waitErr(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(5 * time.Second):
		require.FailNow(t, "timed out waiting for the session to end")
	}
	return nil
}
