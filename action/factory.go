package action

import (
	"errors"
	"fmt"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledmod/anim"
	"github.com/matt-g-everett/ledmod/util"
)

var (
	// ErrUnknownKind is returned for an action whose Kind has no module.
	ErrUnknownKind = errors.New("unknown action kind")
	// ErrNegativeDuration is returned for an action with a duration below zero.
	ErrNegativeDuration = errors.New("negative duration")
)

// Target is the view an action is applied to.
type Target interface {
	SetHidden(hidden bool)
	SetAlpha(alpha float64)
	MoveBy(dx, dy float64)
	MoveTo(x, y *float64)
	ScaleBy(sx, sy float64)
	ResetTransform()
	SetColour(c colorful.Color)
}

// Factory builds modules that run on one Animator.
type Factory struct {
	animator anim.Animator
}

// NewFactory creates a Factory.
func NewFactory(animator anim.Animator) *Factory {
	f := new(Factory)
	f.animator = animator
	return f
}

// Build turns a into a Module animating t. Serial and parallel actions become
// composites of their children's modules.
func (f *Factory) Build(t Target, a Action) (anim.Module, error) {
	if a.Duration < 0 {
		return nil, fmt.Errorf("%s: %w", a.Kind, ErrNegativeDuration)
	}

	switch a.Kind {
	case KindSerial:
		serial := anim.NewSerial()
		for i, child := range a.Actions {
			m, err := f.Build(t, child)
			if err != nil {
				return nil, fmt.Errorf("serial[%d]: %w", i, err)
			}
			serial.Append(m)
		}
		return serial, nil

	case KindParallel:
		parallel := anim.NewParallel()
		for i, child := range a.Actions {
			m, err := f.Build(t, child)
			if err != nil {
				return nil, fmt.Errorf("parallel[%d]: %w", i, err)
			}
			parallel.Add(m)
		}
		return parallel, nil
	}

	mutate, spring, err := mutation(t, a)
	if err != nil {
		return nil, err
	}

	var options anim.Options
	if spring {
		options.Spring = anim.DefaultSpring()
	}
	if a.Curve != "" {
		curve, err := util.Curve(a.Curve)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", a.Kind, err)
		}
		options.Curve = curve
	}

	duration := time.Duration(a.Duration)
	if a.Kind == KindHide || a.Kind == KindShow {
		// Visibility flips immediately.
		duration = 0
	}
	return anim.NewPrimitive(f.animator, duration, options, mutate), nil
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// mutation returns the state change for an atomic action and whether it
// should use spring physics.
func mutation(t Target, a Action) (func(), bool, error) {
	switch a.Kind {
	case KindHide:
		return func() { t.SetHidden(true) }, false, nil
	case KindShow:
		return func() { t.SetHidden(false) }, false, nil
	case KindFade:
		return func() { t.SetAlpha(a.To) }, false, nil
	case KindMove, KindSpringMove:
		x, y := valueOr(a.X, 0), valueOr(a.Y, 0)
		return func() { t.MoveBy(x, y) }, a.Kind == KindSpringMove, nil
	case KindMoveTo, KindSpringMoveTo:
		return func() { t.MoveTo(a.X, a.Y) }, a.Kind == KindSpringMoveTo, nil
	case KindScale, KindSpringScale:
		x, y := valueOr(a.X, 1), valueOr(a.Y, 1)
		return func() { t.ScaleBy(x, y) }, a.Kind == KindSpringScale, nil
	case KindTransformBack, KindSpringTransformBack:
		return t.ResetTransform, a.Kind == KindSpringTransformBack, nil
	case KindTint:
		c, err := colorful.Hex(a.Colour)
		if err != nil {
			return nil, false, fmt.Errorf("tint %q: %w", a.Colour, err)
		}
		return func() { t.SetColour(c) }, false, nil
	case KindDelay:
		return func() {}, false, nil
	}
	return nil, false, fmt.Errorf("%q: %w", a.Kind, ErrUnknownKind)
}
