// Package reveal implements the before/after reveal slider: a vertical
// divider dragged horizontally over two stacked images, with the top
// ("after") image clipped to the region left of the divider.
//
// # Overview
//
// The package is split in two layers:
//
//   - [Slider]: the pure state machine. It knows the divider position (a
//     percentage in [0, 100]), the measured container geometry and whether a
//     gesture is in progress. It has no notion of events or listeners.
//   - [Controller]: binds a Slider to a [Host] (a browser page, a terminal,
//     a test fake). It installs the gesture-start listeners on mount and
//     acquires the global move/release listeners in a [Scope] for the
//     lifetime of each gesture.
//
// # State machine
//
//	Idle --BeginDrag--> Dragging --EndDrag--> Idle
//
// Move events outside Dragging are no-ops. While Dragging, every move
// recomputes
//
//	position = clamp(0, 100, (pointerX - left) / width * 100)
//
// so a pointer that leaves the container never drags the divider past an
// edge. A container that has not been laid out yet (zero width) leaves the
// position unchanged.
//
// Resizing re-measures the container and keeps the percentage, so the
// divider stays at the same relative place at any resolution, including
// when the resize arrives mid-gesture.
//
// # Rendering
//
// Renderers receive a [State] after every change. [State.ClipInset] and
// [State.DividerOffset] are both derived from the same position so the clip
// and the handle never drift apart:
//
//	after.style.clipPath = st.ClipInset()       // "inset(0 75% 0 0)"
//	handle.style.left = st.PositionPercent()    // "25%"
//
// # Concurrency
//
// Slider and Controller are meant to be driven from a single event loop
// (the browser main thread, a bubbletea Update). They are not safe for
// concurrent use.
package reveal
