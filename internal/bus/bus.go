package bus

import "sync"

// Signal enumerates the cross-component notifications. Keeping these as a
// closed enum makes the subscription contract checkable at compile time.
type Signal int

const (
	// SignalTimerChanged fires after the persisted timer record has been
	// durably written, cleared, or observed changing out-of-process.
	SignalTimerChanged Signal = iota
	// SignalCaseModalClose asks any open case-detail surface to close.
	SignalCaseModalClose
	// SignalEditModalClose asks any open entry-edit surface to close.
	SignalEditModalClose
)

func (s Signal) String() string {
	switch s {
	case SignalTimerChanged:
		return "timer-changed"
	case SignalCaseModalClose:
		return "case-modal-close"
	case SignalEditModalClose:
		return "edit-modal-close"
	}
	return "unknown"
}

type Handler func()

type BusInterface interface {
	Subscribe(signal Signal, handler Handler) func()
	Publish(signal Signal)
}

// Bus is an in-process fan-out of typed signals. Publish runs handlers
// synchronously, so a publisher that writes state before publishing gives
// every handler a write-then-observe ordering guarantee. No ordering is
// promised between distinct subscribers.
type Bus struct {
	mu   sync.RWMutex
	next int
	subs map[Signal]map[int]Handler
}

func New() *Bus {
	return &Bus{
		subs: make(map[Signal]map[int]Handler),
	}
}

// Subscribe registers a handler for a signal kind and returns the
// unsubscribe function. Unsubscribing twice is harmless.
func (b *Bus) Subscribe(signal Signal, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[signal] == nil {
		b.subs[signal] = make(map[int]Handler)
	}
	id := b.next
	b.next++
	b.subs[signal][id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[signal], id)
	}
}

func (b *Bus) Publish(signal Signal) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[signal]))
	for _, h := range b.subs[signal] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h()
	}
}
