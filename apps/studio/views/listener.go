package views

import (
	"sync"

	"github.com/trezcool/studio/core/xblock"
)

// StateListener re-renders a view whenever one of its watched attributes changes on the backing record.
type StateListener struct {
	record      *xblock.Record
	watched     []string
	render      func(info xblock.Info) error
	unsubscribe func()

	mu      sync.Mutex
	renders int
	err     error
}

func newStateListener(record *xblock.Record, watched []string, render func(info xblock.Info) error) *StateListener {
	l := &StateListener{
		record:  record,
		watched: watched,
		render:  render,
	}
	l.unsubscribe = record.OnSync(l.onSync)
	return l
}

// ShouldRender reports whether any watched attribute differs between prev and curr.
func (l *StateListener) ShouldRender(prev, curr xblock.Info) bool {
	return len(xblock.ChangedAttributes(prev, curr, l.watched)) > 0
}

func (l *StateListener) onSync(prev, curr xblock.Info) {
	if l.ShouldRender(prev, curr) {
		_ = l.Render()
	}
}

// Render renders the view from the record's current state.
func (l *StateListener) Render() error {
	err := l.render(l.record.Info())
	l.mu.Lock()
	defer l.mu.Unlock()
	l.renders++
	l.err = err
	return err
}

// Renders is the number of renders so far.
func (l *StateListener) Renders() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.renders
}

// Err is the error of the last render, if any.
func (l *StateListener) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close stops listening to the record.
func (l *StateListener) Close() {
	l.unsubscribe()
}
