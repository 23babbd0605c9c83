package reveal

import (
	"math"
	"testing"
)

func TestInitializeSetsMidpoint(t *testing.T) {
	s := NewSlider()
	s.Initialize(Bounds{Left: 0, Width: 800})

	if got := s.Position(); got != 50 {
		t.Errorf("Position() = %v, want 50", got)
	}
	if s.Dragging() {
		t.Error("slider should be idle after Initialize")
	}
}

func TestPositionAlwaysClamped(t *testing.T) {
	b := Bounds{Left: 100, Width: 400}
	xs := []float64{-1e9, -100, 0, 99, 100, 150, 300, 499, 500, 501, 1e9, math.Inf(1), math.Inf(-1)}

	for _, x := range xs {
		s := NewSlider()
		s.Initialize(b)
		s.BeginDrag(ModalityMouse, x)
		if p := s.Position(); p < 0 || p > 100 || math.IsNaN(p) {
			t.Errorf("BeginDrag(%v): position %v out of [0,100]", x, p)
		}
		s.UpdateDrag(ModalityMouse, x)
		if p := s.Position(); p < 0 || p > 100 || math.IsNaN(p) {
			t.Errorf("UpdateDrag(%v): position %v out of [0,100]", x, p)
		}
	}
}

func TestPositionAt(t *testing.T) {
	tests := []struct {
		name   string
		bounds Bounds
		x      float64
		want   float64
		wantOK bool
	}{
		{"left edge", Bounds{0, 800}, 0, 0, true},
		{"quarter", Bounds{0, 800}, 200, 25, true},
		{"offset container", Bounds{100, 400}, 300, 50, true},
		{"right edge", Bounds{0, 800}, 800, 100, true},
		{"past right", Bounds{0, 800}, 900, 100, true},
		{"past left", Bounds{50, 800}, -500, 0, true},
		{"zero width", Bounds{0, 0}, 200, 0, false},
		{"negative width", Bounds{0, -10}, 200, 0, false},
		{"NaN width", Bounds{0, math.NaN()}, 200, 0, false},
		{"NaN x", Bounds{0, 800}, math.NaN(), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PositionAt(tt.bounds, tt.x)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("PositionAt(%+v, %v) = (%v, %v), want (%v, %v)", tt.bounds, tt.x, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestBeginThenEndKeepsInitialPointer(t *testing.T) {
	s := NewSlider()
	s.Initialize(Bounds{Left: 0, Width: 1000})

	s.BeginDrag(ModalityTouch, 730)
	s.EndDrag(ModalityTouch)

	if got := s.Position(); got != 73 {
		t.Errorf("Position() = %v, want 73", got)
	}
	if s.Dragging() {
		t.Error("slider should be idle after EndDrag")
	}
}

func TestResizePreservesPercentage(t *testing.T) {
	s := NewSlider()
	s.Initialize(Bounds{Left: 0, Width: 800})
	s.BeginDrag(ModalityMouse, 200)
	s.EndDrag(ModalityMouse)

	s.Resize(Bounds{Left: 0, Width: 1600})

	st := s.State()
	if st.Position != 25 {
		t.Errorf("Position = %v, want 25", st.Position)
	}
	if got := st.DividerOffset(); got != 400 {
		t.Errorf("DividerOffset() = %v, want 400", got)
	}
}

func TestResizeDuringDragKeepsGesture(t *testing.T) {
	s := NewSlider()
	s.Initialize(Bounds{Left: 0, Width: 800})
	s.BeginDrag(ModalityMouse, 600)

	s.Resize(Bounds{Left: 0, Width: 400})

	if !s.Dragging() {
		t.Fatal("resize must not end the gesture")
	}
	if got := s.Position(); got != 75 {
		t.Errorf("Position() = %v, want 75 (unchanged by resize)", got)
	}

	s.UpdateDrag(ModalityMouse, 100)
	if got := s.Position(); got != 25 {
		t.Errorf("after move with new width: Position() = %v, want 25", got)
	}
}

func TestMoveWhileIdleIsIgnored(t *testing.T) {
	s := NewSlider()
	s.Initialize(Bounds{Left: 0, Width: 800})

	for _, x := range []float64{0, 100, 799, 5000} {
		if s.UpdateDrag(ModalityMouse, x) {
			t.Errorf("UpdateDrag(%v) reported a change while idle", x)
		}
	}
	if got := s.Position(); got != 50 {
		t.Errorf("Position() = %v, want 50", got)
	}

	// After a completed gesture, moves are ignored again.
	s.BeginDrag(ModalityMouse, 400)
	s.EndDrag(ModalityMouse)
	s.UpdateDrag(ModalityMouse, 0)
	if got := s.Position(); got != 50 {
		t.Errorf("Position() after release = %v, want 50", got)
	}
}

func TestDragScenario(t *testing.T) {
	s := NewSlider()
	s.Initialize(Bounds{Left: 0, Width: 800})
	if got := s.Position(); got != 50 {
		t.Fatalf("initial Position() = %v, want 50", got)
	}

	s.BeginDrag(ModalityMouse, 200)
	if got := s.Position(); got != 25 {
		t.Fatalf("after BeginDrag(200) Position() = %v, want 25", got)
	}

	s.UpdateDrag(ModalityMouse, 900)
	if got := s.Position(); got != 100 {
		t.Fatalf("after UpdateDrag(900) Position() = %v, want 100", got)
	}

	s.EndDrag(ModalityMouse)
	if got := s.Position(); got != 100 {
		t.Fatalf("after EndDrag Position() = %v, want 100 (no snap-back)", got)
	}
}

func TestZeroWidthLeavesPositionUnchanged(t *testing.T) {
	s := NewSlider()
	s.Initialize(Bounds{Left: 0, Width: 0})

	s.BeginDrag(ModalityMouse, 200)
	for _, x := range []float64{-10, 0, 10, 1e6} {
		s.UpdateDrag(ModalityMouse, x)
	}

	p := s.Position()
	if math.IsNaN(p) || p != 50 {
		t.Errorf("Position() = %v, want 50", p)
	}

	// Once laid out, the same gesture starts tracking.
	s.Resize(Bounds{Left: 0, Width: 100})
	s.UpdateDrag(ModalityMouse, 10)
	if got := s.Position(); got != 10 {
		t.Errorf("Position() after layout = %v, want 10", got)
	}
}

func TestModalitiesAreExclusive(t *testing.T) {
	s := NewSlider()
	s.Initialize(Bounds{Left: 0, Width: 100})

	if !s.BeginDrag(ModalityTouch, 30) {
		t.Fatal("BeginDrag(touch) should start a gesture")
	}
	if s.BeginDrag(ModalityMouse, 90) {
		t.Error("a mouse gesture must not start while touch is active")
	}
	if s.UpdateDrag(ModalityMouse, 90) {
		t.Error("mouse moves must not drive a touch gesture")
	}
	if s.EndDrag(ModalityMouse) {
		t.Error("mouse release must not end a touch gesture")
	}
	if got := s.Position(); got != 30 {
		t.Errorf("Position() = %v, want 30", got)
	}

	s.UpdateDrag(ModalityTouch, 60)
	if !s.EndDrag(ModalityTouch) {
		t.Error("touch release should end the touch gesture")
	}
	if got := s.Position(); got != 60 {
		t.Errorf("Position() = %v, want 60", got)
	}

	if s.BeginDrag(ModalityNone, 10) {
		t.Error("ModalityNone must not start a gesture")
	}
}

func TestStateRendering(t *testing.T) {
	tests := []struct {
		pos      float64
		wantClip string
		wantLeft string
	}{
		{50, "inset(0 50% 0 0)", "50%"},
		{25, "inset(0 75% 0 0)", "25%"},
		{100, "inset(0 0% 0 0)", "100%"},
		{0, "inset(0 100% 0 0)", "0%"},
		{100.0 / 3, "inset(0 66.667% 0 0)", "33.333%"},
	}

	for _, tt := range tests {
		st := State{Position: tt.pos, Bounds: Bounds{Width: 300}}
		if got := st.ClipInset(); got != tt.wantClip {
			t.Errorf("ClipInset() at %v = %q, want %q", tt.pos, got, tt.wantClip)
		}
		if got := st.PositionPercent(); got != tt.wantLeft {
			t.Errorf("PositionPercent() at %v = %q, want %q", tt.pos, got, tt.wantLeft)
		}
	}

	if got := (State{Position: 40}).DividerOffset(); got != 0 {
		t.Errorf("DividerOffset() without layout = %v, want 0", got)
	}
}

func TestModalityString(t *testing.T) {
	for m, want := range map[Modality]string{ModalityNone: "none", ModalityMouse: "mouse", ModalityTouch: "touch"} {
		if got := m.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", m, got, want)
		}
	}
}
