package reveal

// Host is the environment a Controller runs in.
type Host interface {
	// Container is the slider element; gestures start here.
	Container() EventTarget
	// Global receives moves and releases anywhere in the viewport, and
	// viewport resizes.
	Global() EventTarget
	// Measure returns the container's current horizontal geometry.
	Measure() Bounds
}

// Renderer paints a slider state. It is called once on mount and after
// every change.
type Renderer func(State)

// gesture lists the global events tracked during one gesture.
type gesture struct {
	modality Modality
	move     Event
	ends     []Event
}

var (
	mouseGesture = gesture{ModalityMouse, EventMouseMove, []Event{EventMouseUp}}
	touchGesture = gesture{ModalityTouch, EventTouchMove, []Event{EventTouchEnd, EventTouchCancel}}
)

// Controller wires a Slider to a Host.
//
// Start listeners (mouse-down, touch-start on the container; resize on the
// global target) live for the controller's lifetime. Move and release
// listeners on the global target are acquired in a Scope when a gesture
// starts and released when it ends, or when the controller is closed
// mid-gesture.
type Controller struct {
	slider  *Slider
	host    Host
	render  Renderer
	mounted Scope
	drag    *Scope
	closed  bool
}

// Mount measures the container, initializes the slider and installs the
// start listeners. render may be nil.
func Mount(host Host, render Renderer) *Controller {
	if render == nil {
		render = func(State) {}
	}
	c := &Controller{
		slider: NewSlider(),
		host:   host,
		render: render,
	}
	c.slider.Initialize(host.Measure())

	c.mounted.Listen(host.Container(), EventMouseDown, func(in Input) { c.begin(mouseGesture, in.X) })
	c.mounted.Listen(host.Container(), EventTouchStart, func(in Input) { c.begin(touchGesture, in.X) })
	c.mounted.Listen(host.Global(), EventResize, func(Input) { c.resize() })

	c.render(c.slider.State())
	return c
}

// Slider exposes the underlying state machine, mostly for inspection.
func (c *Controller) Slider() *Slider { return c.slider }

// State returns the current slider snapshot.
func (c *Controller) State() State { return c.slider.State() }

// Close removes every listener, including those of a gesture in progress,
// and cancels that gesture. It is idempotent.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.releaseDrag()
	c.slider.Cancel()
	c.mounted.Release()
}

func (c *Controller) begin(g gesture, x float64) {
	if c.closed || !c.slider.BeginDrag(g.modality, x) {
		return
	}
	scope := &Scope{}
	global := c.host.Global()
	scope.Listen(global, g.move, func(in Input) { c.update(g.modality, in.X) })
	for _, ev := range g.ends {
		scope.Listen(global, ev, func(Input) { c.end(g.modality) })
	}
	c.drag = scope
	c.render(c.slider.State())
}

func (c *Controller) update(m Modality, x float64) {
	if c.slider.UpdateDrag(m, x) {
		c.render(c.slider.State())
	}
}

func (c *Controller) end(m Modality) {
	if !c.slider.EndDrag(m) {
		return
	}
	c.releaseDrag()
	c.render(c.slider.State())
}

func (c *Controller) resize() {
	c.slider.Resize(c.host.Measure())
	c.render(c.slider.State())
}

func (c *Controller) releaseDrag() {
	if c.drag != nil {
		c.drag.Release()
		c.drag = nil
	}
}
