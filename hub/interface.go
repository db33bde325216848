package hub

import "sync"

// Signal is a binary, level-triggered ready flag. While raised, every
// call to Wait returns immediately; Clear rearms it. Raising a raised
// signal and clearing a clear one are no-ops.
type Signal struct {
	name     string
	mutex    sync.Mutex
	set      bool
	readyCh  chan struct{} // closed while the signal is raised
	watchers []chan struct{}
}

// Mux waits for any one of several signals, in the manner of a
// wait-any semaphore list. A Mux belongs to a single waiter.
type Mux struct {
	signals  []*Signal
	notifyCh chan struct{}
	next     int
}

// Hub acts as the messaging hub between the two producers and the
// dispatcher. It carries the four signals of the relay protocol: a
// "data ready" signal per ring (producer to consumer) and a "space
// freed" signal per ring (consumer to producer).
type Hub struct {
	sourceReady *Signal
	inputReady  *Signal
	sourceSpace *Signal
	inputSpace  *Signal
	mux         *Mux
}

// Indices reported by (*Hub).WaitData.
const (
	SourceData = iota // the serial byte ring has data
	InputData         // the keyboard event ring has data
)
