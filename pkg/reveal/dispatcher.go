package reveal

// Dispatcher is an in-process EventTarget for hosts that deliver events
// themselves, such as the terminal preview, instead of through the DOM.
// The zero value is ready to use.
type Dispatcher struct {
	next      int
	listeners map[Event][]registration
}

type registration struct {
	id int
	h  Handler
}

// Listen implements EventTarget.
func (d *Dispatcher) Listen(ev Event, h Handler) func() {
	if d.listeners == nil {
		d.listeners = make(map[Event][]registration)
	}
	d.next++
	id := d.next
	d.listeners[ev] = append(d.listeners[ev], registration{id: id, h: h})
	return func() { d.remove(ev, id) }
}

func (d *Dispatcher) remove(ev Event, id int) {
	regs := d.listeners[ev]
	for i, r := range regs {
		if r.id == id {
			d.listeners[ev] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// Dispatch delivers in to every listener of ev registered at the time of
// the call. Listeners may add or remove registrations while handling it.
func (d *Dispatcher) Dispatch(ev Event, in Input) {
	regs := append([]registration(nil), d.listeners[ev]...)
	for _, r := range regs {
		r.h(in)
	}
}

// Count returns the number of listeners registered for ev.
func (d *Dispatcher) Count(ev Event) int {
	return len(d.listeners[ev])
}

// Total returns the number of listeners across all events.
func (d *Dispatcher) Total() int {
	n := 0
	for _, regs := range d.listeners {
		n += len(regs)
	}
	return n
}
