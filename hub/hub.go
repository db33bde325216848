package hub

import "context"

// New creates a Hub with all four signals clear.
func New() *Hub {
	h := &Hub{
		sourceReady: NewSignal("source ready"),
		inputReady:  NewSignal("input ready"),
		sourceSpace: NewSignal("source space"),
		inputSpace:  NewSignal("input space"),
	}
	h.mux = NewMux(h.sourceReady, h.inputReady)
	return h
}

// SourceReady is raised by the serial reader when its ring has data.
func (h *Hub) SourceReady() *Signal {
	return h.sourceReady
}

// InputReady is raised by the keyboard reader when its ring has data.
func (h *Hub) InputReady() *Signal {
	return h.inputReady
}

// SourceSpace is raised by the dispatcher after it frees a slot in the
// serial ring.
func (h *Hub) SourceSpace() *Signal {
	return h.sourceSpace
}

// InputSpace is raised by the dispatcher after it frees a slot in the
// keyboard ring.
func (h *Hub) InputSpace() *Signal {
	return h.inputSpace
}

// WaitData blocks until either ring reports data, and returns
// SourceData or InputData accordingly.
func (h *Hub) WaitData(ctx context.Context) (int, error) {
	return h.mux.Wait(ctx)
}

// ReleaseProducers raises both "space freed" signals so that a
// producer parked on a full ring gets to look at the shutdown flag.
func (h *Hub) ReleaseProducers() {
	h.sourceSpace.Raise()
	h.inputSpace.Raise()
}
