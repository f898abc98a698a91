package stream

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/matt-g-everett/ledmod/anim"
	"github.com/matt-g-everett/ledmod/logging"
	"github.com/matt-g-everett/ledmod/util"
)

type field uint8

const (
	fieldAlpha field = 1 << iota
	fieldCenterX
	fieldCenterY
	fieldScaleX
	fieldScaleY
	fieldColour
)

func diff(a, b State) field {
	var f field
	if a.Alpha != b.Alpha {
		f |= fieldAlpha
	}
	if a.Center.X != b.Center.X {
		f |= fieldCenterX
	}
	if a.Center.Y != b.Center.Y {
		f |= fieldCenterY
	}
	if a.Scale.X != b.Scale.X {
		f |= fieldScaleX
	}
	if a.Scale.Y != b.Scale.Y {
		f |= fieldScaleY
	}
	if a.Colour != b.Colour {
		f |= fieldColour
	}
	return f
}

func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// change is the part of a transition that applies to one view.
type change struct {
	view     *View
	from, to State
	fields   field
}

func (c *change) apply(s *State, p float64) {
	if c.fields&fieldAlpha != 0 {
		s.Alpha = lerp(c.from.Alpha, c.to.Alpha, p)
	}
	if c.fields&fieldCenterX != 0 {
		s.Center.X = lerp(c.from.Center.X, c.to.Center.X, p)
	}
	if c.fields&fieldCenterY != 0 {
		s.Center.Y = lerp(c.from.Center.Y, c.to.Center.Y, p)
	}
	if c.fields&fieldScaleX != 0 {
		s.Scale.X = lerp(c.from.Scale.X, c.to.Scale.X, p)
	}
	if c.fields&fieldScaleY != 0 {
		s.Scale.Y = lerp(c.from.Scale.Y, c.to.Scale.Y, p)
	}
	if c.fields&fieldColour != 0 {
		switch {
		case p <= 0:
			s.Colour = c.from.Colour
		case p >= 1:
			s.Colour = c.to.Colour
		default:
			s.Colour = c.from.Colour.BlendHcl(c.to.Colour, p)
		}
	}
}

// transition is one Animate call in flight.
type transition struct {
	changes    []change
	start      time.Time
	end        time.Time
	curve      util.CurveFunc
	onComplete func(bool)
}

func (tr *transition) progress(now time.Time) float64 {
	if now.Before(tr.start) {
		return 0
	}
	if !now.Before(tr.end) {
		return 1
	}
	return tr.curve(float64(now.Sub(tr.start)) / float64(tr.end.Sub(tr.start)))
}

// An Engine animates Views. It implements anim.Animator.
//
// Animate applies the mutation to the model straight away and records how
// each registered view changed. The presentation state then moves from the
// old values to the new over the duration. Tick advances the engine and fires
// the completions of finished transitions, in the order they were started.
type Engine struct {
	clock   Clock
	curve   util.CurveFunc
	metrics *Metrics
	logger  *slog.Logger

	// Serialises snapshot, mutate and diff so concurrent Animate calls
	// don't claim each other's changes.
	animateMu sync.Mutex

	mu     sync.Mutex
	views  []*View
	byName map[string]*View
	active []*transition
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithClock sets the time source.
func WithClock(c Clock) EngineOption {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithCurve sets the curve used when an animation has none of its own.
func WithCurve(c util.CurveFunc) EngineOption {
	return func(e *Engine) {
		e.curve = c
	}
}

// WithMetrics sets where engine activity is counted.
func WithMetrics(m *Metrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// NewEngine creates an Engine with no views.
func NewEngine(opts ...EngineOption) *Engine {
	e := new(Engine)
	e.clock = realClock{}
	e.curve, _ = util.Curve(util.DefaultCurve)
	e.byName = make(map[string]*View)

	for _, opt := range opts {
		opt(e)
	}

	if e.metrics == nil {
		e.metrics = NewMetrics(nil)
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	return e
}

// Register adds v to the engine. View names must be unique.
func (e *Engine) Register(v *View) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.byName[v.Name()]; ok {
		return fmt.Errorf("view %q already registered", v.Name())
	}
	e.views = append(e.views, v)
	e.byName[v.Name()] = v
	return nil
}

// View looks up a registered view by name.
func (e *Engine) View(name string) (*View, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.byName[name]
	return v, ok
}

// Views returns the registered views in registration order.
func (e *Engine) Views() []*View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*View(nil), e.views...)
}

// record runs mutate and returns a transition holding every view it changed.
func (e *Engine) record(mutate func()) *transition {
	e.animateMu.Lock()
	defer e.animateMu.Unlock()

	views := e.Views()
	before := make([]State, len(views))
	for i, v := range views {
		before[i] = v.Model()
	}

	if mutate != nil {
		mutate()
	}

	tr := new(transition)
	for i, v := range views {
		after := v.Model()
		if f := diff(before[i], after); f != 0 {
			tr.changes = append(tr.changes, change{view: v, from: before[i], to: after, fields: f})
		}
	}
	return tr
}

// Animate implements anim.Animator.
func (e *Engine) Animate(duration time.Duration, options anim.Options, mutate func(), onComplete func(finished bool)) {
	tr := e.record(mutate)

	switch {
	case options.Spring != nil:
		tr.curve = util.SpringCurve(options.Spring.DampingRatio, options.Spring.Velocity, duration.Seconds())
	case options.Curve != nil:
		tr.curve = options.Curve
	default:
		tr.curve = e.curve
	}
	tr.start = e.clock.Now().Add(options.Delay)
	tr.end = tr.start.Add(duration)
	tr.onComplete = onComplete

	e.mu.Lock()
	e.active = append(e.active, tr)
	e.metrics.Active.Set(float64(len(e.active)))
	e.mu.Unlock()

	e.metrics.Started.Inc()
	e.logger.Debug("animation started", "duration", duration, "delay", options.Delay, "views", len(tr.changes))
}

// Tick fires the completions of every transition that has finished and
// returns how many did.
func (e *Engine) Tick() int {
	now := e.clock.Now()

	e.mu.Lock()
	var done []*transition
	kept := make([]*transition, 0, len(e.active))
	for _, tr := range e.active {
		if now.Before(tr.end) {
			kept = append(kept, tr)
		} else {
			done = append(done, tr)
		}
	}
	e.active = kept
	e.metrics.Active.Set(float64(len(kept)))
	e.mu.Unlock()

	for _, tr := range done {
		e.metrics.Completed.Inc()
		if tr.onComplete != nil {
			tr.onComplete(true)
		}
	}
	return len(done)
}

// Active returns the number of transitions in flight.
func (e *Engine) Active() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.active)
}

func (e *Engine) presentation(v *View, now time.Time) State {
	s := v.Model()
	for _, tr := range e.active {
		p := tr.progress(now)
		for i := range tr.changes {
			if tr.changes[i].view == v {
				tr.changes[i].apply(&s, p)
			}
		}
	}
	return s
}

// Presentation returns the state of v as currently shown.
func (e *Engine) Presentation(v *View) State {
	now := e.clock.Now()
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.presentation(v, now)
}

// Layers returns the presentation of every view, in registration order.
func (e *Engine) Layers() []Layer {
	now := e.clock.Now()
	e.mu.Lock()
	defer e.mu.Unlock()
	layers := make([]Layer, len(e.views))
	for i, v := range e.views {
		layers[i] = Layer{Name: v.Name(), State: e.presentation(v, now), Gradient: v.Gradient()}
	}
	return layers
}
