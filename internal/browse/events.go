package browse

// EventKind names a window-level event the engine listens to.
type EventKind int

const (
	EventScroll EventKind = iota
	EventResize
	EventVisibilityChange
	EventBeforeUnload
)

func (k EventKind) String() string {
	switch k {
	case EventScroll:
		return "scroll"
	case EventResize:
		return "resize"
	case EventVisibilityChange:
		return "visibilitychange"
	case EventBeforeUnload:
		return "beforeunload"
	default:
		return "unknown"
	}
}

type listener struct {
	id int
	fn func()
}

// Events is the window's listener registry. The front end calls Emit (on
// the event loop) when the user scrolls, resizes, switches away, or quits.
type Events struct {
	listeners map[EventKind][]listener
	nextID    int
}

// NewEvents creates an empty registry.
func NewEvents() *Events {
	return &Events{listeners: make(map[EventKind][]listener)}
}

// On registers fn for kind and returns a function that removes it.
// The remover is safe to call more than once.
func (e *Events) On(kind EventKind, fn func()) (off func()) {
	e.nextID++
	id := e.nextID
	e.listeners[kind] = append(e.listeners[kind], listener{id: id, fn: fn})

	return func() {
		ls := e.listeners[kind]
		for i, l := range ls {
			if l.id == id {
				e.listeners[kind] = append(ls[:i:i], ls[i+1:]...)
				return
			}
		}
	}
}

// Emit calls the listeners registered for kind, in registration order.
// Listeners removed during dispatch are not called.
func (e *Events) Emit(kind EventKind) {
	snapshot := append([]listener(nil), e.listeners[kind]...)
	for _, l := range snapshot {
		if e.registered(kind, l.id) {
			l.fn()
		}
	}
}

// Count returns the number of live listeners across all kinds.
func (e *Events) Count() int {
	n := 0
	for _, ls := range e.listeners {
		n += len(ls)
	}
	return n
}

func (e *Events) registered(kind EventKind, id int) bool {
	for _, l := range e.listeners[kind] {
		if l.id == id {
			return true
		}
	}
	return false
}
