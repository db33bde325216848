// Package mock contains recording fakes for the collaborators a
// comterm session talks to.
package mock

import "sync"

// Interceptor records calls by name so that tests can inspect them.
type Interceptor struct {
	m      sync.Mutex
	Events map[string][][]any
}

func NewInterceptor() *Interceptor {
	return &Interceptor{
		Events: make(map[string][][]any),
	}
}

func (i *Interceptor) Reset() {
	i.m.Lock()
	defer i.m.Unlock()

	i.Events = make(map[string][][]any)
}

func (i *Interceptor) Record(name string, args ...any) {
	i.m.Lock()
	defer i.m.Unlock()

	i.Events[name] = append(i.Events[name], args)
}

// Calls returns a copy of the arguments of every recorded call to name.
func (i *Interceptor) Calls(name string) [][]any {
	i.m.Lock()
	defer i.m.Unlock()

	v := i.Events[name]
	out := make([][]any, len(v))
	copy(out, v)
	return out
}

// Count returns the number of recorded calls to name.
func (i *Interceptor) Count(name string) int {
	i.m.Lock()
	defer i.m.Unlock()

	return len(i.Events[name])
}
