package anim

import "time"

// Default spring parameters.
const (
	DefaultDampingRatio = 0.8
	DefaultVelocity     = 4.0
)

// Animator performs one interpolated visual transition. It runs mutate to
// find the target state and calls onComplete exactly once when the transition
// has settled.
type Animator interface {
	Animate(duration time.Duration, options Options, mutate func(), onComplete func(finished bool))
}

// Spring selects spring physics instead of an easing curve.
type Spring struct {
	DampingRatio float64
	Velocity     float64
}

// DefaultSpring returns a Spring with the default damping and velocity.
func DefaultSpring() *Spring {
	return &Spring{DampingRatio: DefaultDampingRatio, Velocity: DefaultVelocity}
}

// Options tune how a Primitive is animated.
type Options struct {
	Delay time.Duration
	// Curve maps linear progress in [0, 1] to eased progress. Nil leaves the
	// choice to the Animator.
	Curve  func(float64) float64
	Spring *Spring
}

// A Primitive is a leaf Module that wraps exactly one Animator call.
type Primitive struct {
	animator Animator
	duration time.Duration
	options  Options
	mutate   func()
}

// NewPrimitive creates a Primitive that animates the effect of mutate over duration.
func NewPrimitive(animator Animator, duration time.Duration, options Options, mutate func()) *Primitive {
	p := new(Primitive)
	p.animator = animator
	p.duration = duration
	p.options = options
	p.mutate = mutate
	return p
}

// Duration of the single transition. Delay is not included.
func (p *Primitive) Duration() time.Duration {
	return p.duration
}

// Options returns the animation options.
func (p *Primitive) Options() Options {
	return p.options
}

// Block returns a Block that hands the transition to the Animator.
func (p *Primitive) Block(completion Block) Block {
	return func() {
		p.animator.Animate(p.duration, p.options, p.mutate, func(bool) {
			if completion != nil {
				completion()
			}
		})
	}
}

func (*Primitive) module() {}
