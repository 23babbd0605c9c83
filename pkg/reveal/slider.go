package reveal

import (
	"math"
	"strconv"
)

// DefaultPosition is the divider position, in percent, after Initialize.
const DefaultPosition = 50.0

// Modality identifies the input device driving a gesture.
type Modality int

const (
	// ModalityNone means no gesture is in progress.
	ModalityNone Modality = iota
	// ModalityMouse is a mouse or pen gesture.
	ModalityMouse
	// ModalityTouch is a touch gesture.
	ModalityTouch
)

// String returns the modality name.
func (m Modality) String() string {
	switch m {
	case ModalityMouse:
		return "mouse"
	case ModalityTouch:
		return "touch"
	default:
		return "none"
	}
}

// Bounds is the horizontal extent of the slider container, in the same
// coordinate space as pointer X values (CSS pixels, terminal cells, ...).
type Bounds struct {
	Left  float64
	Width float64
}

// laidOut reports whether the container has a usable width.
func (b Bounds) laidOut() bool {
	return b.Width > 0 && !math.IsInf(b.Width, 0) && !math.IsNaN(b.Left) && !math.IsInf(b.Left, 0)
}

// PositionAt converts an absolute pointer X into a clamped percentage of b.
// ok is false when b has no usable width or x is NaN; callers must then
// leave the position unchanged.
func PositionAt(b Bounds, x float64) (pos float64, ok bool) {
	if !b.laidOut() || math.IsNaN(x) {
		return 0, false
	}
	return clamp((x-b.Left)/b.Width*100), true
}

func clamp(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

// State is a read-only snapshot of a Slider.
type State struct {
	Position float64
	Dragging bool
	Modality Modality
	Bounds   Bounds
}

// ClipInset returns the CSS clip-path for the "after" layer: everything
// right of the divider is cut away.
func (s State) ClipInset() string {
	return "inset(0 " + formatPercent(100-s.Position) + " 0 0)"
}

// PositionPercent returns the divider position as a CSS percentage.
func (s State) PositionPercent() string {
	return formatPercent(s.Position)
}

// DividerOffset returns the divider's distance from the container's left
// edge in container units. It is 0 while the container is not laid out.
func (s State) DividerOffset() float64 {
	if !s.Bounds.laidOut() {
		return 0
	}
	return s.Position / 100 * s.Bounds.Width
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(math.Round(p*1000)/1000, 'f', -1, 64) + "%"
}

// Slider holds the divider position and drives the Idle/Dragging state
// machine. The zero value is not ready for use; call NewSlider.
type Slider struct {
	position float64
	bounds   Bounds
	modality Modality // ModalityNone while idle
}

// NewSlider returns an idle slider at DefaultPosition with no geometry.
func NewSlider() *Slider {
	return &Slider{position: DefaultPosition}
}

// Initialize measures the container on mount and puts the divider at
// DefaultPosition.
func (s *Slider) Initialize(b Bounds) {
	s.bounds = b
	s.position = DefaultPosition
}

// Resize re-measures the container. The percentage position and any
// gesture in progress are preserved.
func (s *Slider) Resize(b Bounds) {
	s.bounds = b
}

// BeginDrag starts a gesture for modality m and immediately moves the
// divider to x. It returns false, leaving the slider untouched, when a
// gesture is already in progress or m is ModalityNone.
func (s *Slider) BeginDrag(m Modality, x float64) bool {
	if s.modality != ModalityNone || m == ModalityNone {
		return false
	}
	s.modality = m
	s.moveTo(x)
	return true
}

// UpdateDrag moves the divider to x. Moves outside a gesture, or from a
// different modality than the one that started it, are ignored. It returns
// whether the position changed.
func (s *Slider) UpdateDrag(m Modality, x float64) bool {
	if s.modality == ModalityNone || m != s.modality {
		return false
	}
	return s.moveTo(x)
}

// EndDrag finishes the gesture started with modality m. The divider stays
// exactly where it was released. It returns false if no such gesture is in
// progress.
func (s *Slider) EndDrag(m Modality) bool {
	if s.modality == ModalityNone || m != s.modality {
		return false
	}
	s.modality = ModalityNone
	return true
}

// Cancel ends any gesture regardless of modality. Used on unmount.
func (s *Slider) Cancel() {
	s.modality = ModalityNone
}

func (s *Slider) moveTo(x float64) bool {
	pos, ok := PositionAt(s.bounds, x)
	if !ok || pos == s.position {
		return false
	}
	s.position = pos
	return true
}

// Position returns the divider position in percent.
func (s *Slider) Position() float64 { return s.position }

// Dragging reports whether a gesture is in progress.
func (s *Slider) Dragging() bool { return s.modality != ModalityNone }

// Bounds returns the last measured container geometry.
func (s *Slider) Bounds() Bounds { return s.bounds }

// State returns a snapshot of the slider.
func (s *Slider) State() State {
	return State{
		Position: s.position,
		Dragging: s.modality != ModalityNone,
		Modality: s.modality,
		Bounds:   s.bounds,
	}
}
