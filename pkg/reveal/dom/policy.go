package dom

import "github.com/cruderly/wallie/pkg/reveal"

// listenPolicy describes how the listener for one event is registered.
type listenPolicy struct {
	passive        bool
	preventDefault bool
	// fromHandle drops events whose target is outside the slider handle.
	fromHandle bool
}

// policyFor returns the listener policy of ev. A touch drag starts only on
// the handle, so a vertical swipe anywhere else on the slider scrolls the
// page. The touchmove listener exists only while a drag is active and is
// the one place the default scroll is cancelled.
func policyFor(ev reveal.Event) listenPolicy {
	switch ev {
	case reveal.EventTouchStart:
		return listenPolicy{passive: true, fromHandle: true}
	case reveal.EventTouchMove:
		return listenPolicy{preventDefault: true}
	default:
		return listenPolicy{passive: true}
	}
}
