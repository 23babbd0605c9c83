package reveal

// Event names the host events the controller listens to. The values match
// DOM event types so the browser host can pass them through unchanged.
type Event string

const (
	EventMouseDown   Event = "mousedown"
	EventMouseMove   Event = "mousemove"
	EventMouseUp     Event = "mouseup"
	EventTouchStart  Event = "touchstart"
	EventTouchMove   Event = "touchmove"
	EventTouchEnd    Event = "touchend"
	EventTouchCancel Event = "touchcancel"
	EventResize      Event = "resize"
)

// Input carries the pointer coordinate of an event. For touch events it is
// the first changed touch. Resize events carry no coordinate.
type Input struct {
	X float64
}

// Handler receives host events.
type Handler func(Input)

// EventTarget is anything listeners can be attached to: a DOM element, the
// window, a terminal program.
type EventTarget interface {
	// Listen registers h for ev and returns a function that removes it.
	// The returned function must be safe to call more than once.
	Listen(ev Event, h Handler) (release func())
}

// Scope owns a set of listener registrations and removes all of them on
// Release. The zero value is ready to use.
type Scope struct {
	releases []func()
	released bool
}

// Listen registers h on t for ev within the scope. Registering on a
// released scope is a no-op.
func (s *Scope) Listen(t EventTarget, ev Event, h Handler) {
	if s.released {
		return
	}
	s.releases = append(s.releases, t.Listen(ev, h))
}

// Release removes every registration, most recent first. It is idempotent.
func (s *Scope) Release() {
	if s.released {
		return
	}
	s.released = true
	for i := len(s.releases) - 1; i >= 0; i-- {
		if rel := s.releases[i]; rel != nil {
			rel()
		}
	}
	s.releases = nil
}

// Released reports whether Release has been called.
func (s *Scope) Released() bool { return s.released }

// Len returns the number of live registrations.
func (s *Scope) Len() int { return len(s.releases) }
