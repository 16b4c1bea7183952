package xblock

import "sync"

// SyncListener is called after a Record synchronizes, with the state before and after.
type SyncListener func(prev, curr Info)

// Record holds the client-side Info of one XBlock and notifies its listeners on every synchronization.
// Listeners run synchronously on the goroutine calling Set, outside of the Record's lock.
type Record struct {
	mu        sync.RWMutex
	info      Info
	directive string
	listeners map[int]SyncListener
	nextID    int
}

func NewRecord(info Info) *Record {
	return &Record{
		info:      info,
		listeners: make(map[int]SyncListener),
	}
}

func (r *Record) Info() Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.info
}

func (r *Record) Locator() string {
	return r.Info().ID
}

// Set replaces the record's state with a freshly synchronized one and notifies the listeners.
func (r *Record) Set(info Info) {
	r.mu.Lock()
	prev := r.info
	r.info = info
	listeners := make([]SyncListener, 0, len(r.listeners))
	for id := 0; id < r.nextID; id++ {
		if l, ok := r.listeners[id]; ok {
			listeners = append(listeners, l)
		}
	}
	r.mu.Unlock()

	for _, l := range listeners {
		l(prev, info)
	}
}

// OnSync registers a listener, in registration order. Returns an unsubscribe function.
func (r *Record) OnSync(l SyncListener) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.listeners[id] = l

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.listeners, id)
	}
}

// Directive is the publish directive of the request in flight, if any.
func (r *Record) Directive() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.directive
}

// SetDirective sets the transient publish directive; "" clears it.
func (r *Record) SetDirective(directive string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.directive = directive
}
