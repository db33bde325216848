package hub

import (
	"context"

	pdebug "github.com/lestrrat-go/pdebug"
)

// NewSignal creates a signal in the clear state. The name only shows
// up in traces.
func NewSignal(name string) *Signal {
	return &Signal{
		name:    name,
		readyCh: make(chan struct{}),
	}
}

// Name returns the name given to NewSignal.
func (s *Signal) Name() string {
	return s.name
}

// Raise puts the signal in the signaled state, releasing whoever is
// blocked in Wait and waking any Mux watching it.
func (s *Signal) Raise() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.set {
		return
	}
	if pdebug.Enabled {
		pdebug.Printf("hub: raise %s", s.name)
	}
	s.set = true
	close(s.readyCh)
	for _, ch := range s.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Clear puts the signal back in the unsignaled state.
func (s *Signal) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.set {
		return
	}
	s.set = false
	s.readyCh = make(chan struct{})
}

// IsSet reports whether the signal is currently raised.
func (s *Signal) IsSet() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.set
}

// Ready returns a channel that is closed once the signal is raised.
// The channel belongs to the current arming: after a Clear, call
// Ready again.
func (s *Signal) Ready() <-chan struct{} {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.readyCh
}

// Wait blocks until the signal is raised or ctx is done. It does not
// clear the signal.
func (s *Signal) Wait(ctx context.Context) error {
	select {
	case <-s.Ready():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Signal) watch(ch chan struct{}) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.watchers = append(s.watchers, ch)
}
