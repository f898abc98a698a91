package stream

import (
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// State is the visual state of a View.
type State struct {
	Hidden bool
	Alpha  float64
	Center Point
	Size   Point
	Scale  Point
	Colour colorful.Color
}

// A View is a rectangular sprite of light over the pixel layout. The methods
// that change it are meant to be called from animation mutations.
type View struct {
	name     string
	gradient GradientTable

	mu    sync.RWMutex
	model State
}

// NewView creates a View. A zero Scale is treated as identity.
func NewView(name string, initial State) *View {
	v := new(View)
	v.name = name
	if initial.Scale == (Point{}) {
		initial.Scale = Point{1, 1}
	}
	v.model = initial
	return v
}

// Name of the view.
func (v *View) Name() string {
	return v.name
}

// Model returns the state the view is animating towards.
func (v *View) Model() State {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.model
}

// Gradient returns the gradient fill, or nil for a flat colour.
func (v *View) Gradient() GradientTable {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.gradient
}

// SetGradient replaces the colour fill with a gradient along the x axis.
func (v *View) SetGradient(g GradientTable) {
	v.mu.Lock()
	v.gradient = g
	v.mu.Unlock()
}

func (v *View) update(fn func(s *State)) {
	v.mu.Lock()
	fn(&v.model)
	v.mu.Unlock()
}

// SetHidden hides or shows the view.
func (v *View) SetHidden(hidden bool) {
	v.update(func(s *State) { s.Hidden = hidden })
}

// SetAlpha sets the view opacity.
func (v *View) SetAlpha(alpha float64) {
	v.update(func(s *State) { s.Alpha = alpha })
}

// MoveBy moves the centre by dx, dy.
func (v *View) MoveBy(dx, dy float64) {
	v.update(func(s *State) {
		s.Center.X += dx
		s.Center.Y += dy
	})
}

// MoveTo moves the centre to x, y. A nil coordinate is left alone.
func (v *View) MoveTo(x, y *float64) {
	v.update(func(s *State) {
		if x != nil {
			s.Center.X = *x
		}
		if y != nil {
			s.Center.Y = *y
		}
	})
}

// ScaleBy multiplies the scale by sx, sy.
func (v *View) ScaleBy(sx, sy float64) {
	v.update(func(s *State) {
		s.Scale.X *= sx
		s.Scale.Y *= sy
	})
}

// ResetTransform restores the identity scale.
func (v *View) ResetTransform() {
	v.update(func(s *State) { s.Scale = Point{1, 1} })
}

// SetColour sets the fill colour.
func (v *View) SetColour(c colorful.Color) {
	v.update(func(s *State) { s.Colour = c })
}
