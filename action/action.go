// Package action describes animations declaratively and turns descriptions
// into anim modules against a target view.
package action

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v2"
)

// Kind names what an Action does.
type Kind string

const (
	KindHide                Kind = "hide"
	KindShow                Kind = "show"
	KindFade                Kind = "fade"
	KindMove                Kind = "move"
	KindSpringMove          Kind = "springMove"
	KindMoveTo              Kind = "moveTo"
	KindSpringMoveTo        Kind = "springMoveTo"
	KindScale               Kind = "scale"
	KindSpringScale         Kind = "springScale"
	KindTransformBack       Kind = "transformBack"
	KindSpringTransformBack Kind = "springTransformBack"
	KindTint                Kind = "tint"
	KindDelay               Kind = "delay"
	KindParallel            Kind = "parallel"
	KindSerial              Kind = "serial"
)

// An Action is a declarative animation step. Which fields matter depends on Kind.
type Action struct {
	Kind     Kind     `yaml:"kind"`
	To       float64  `yaml:"to,omitempty"`
	X        *float64 `yaml:"x,omitempty"`
	Y        *float64 `yaml:"y,omitempty"`
	Colour   string   `yaml:"colour,omitempty"`
	Duration Duration `yaml:"duration,omitempty"`
	Curve    string   `yaml:"curve,omitempty"`
	Actions  []Action `yaml:"actions,omitempty"`
}

// Duration is an action length. Documents give it either as a Go duration
// string ("250ms", "1.5s") or as a number of seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case int:
		*d = Duration(time.Duration(v) * time.Second)
	case int64:
		*d = Duration(time.Duration(v) * time.Second)
	case uint64:
		*d = Duration(time.Duration(v) * time.Second)
	case float64:
		*d = Duration(v * float64(time.Second))
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("duration: unsupported value %v", raw)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// Document is an Action addressed to a named view.
type Document struct {
	View   string `yaml:"view"`
	Action Action `yaml:"action"`
}

// Decode reads a YAML (or JSON) Document.
func Decode(r io.Reader) (Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return doc, fmt.Errorf("decode action document: %w", err)
	}
	return doc, nil
}

// DecodeAction reads a single YAML (or JSON) Action.
func DecodeAction(data []byte) (Action, error) {
	var a Action
	if err := yaml.Unmarshal(data, &a); err != nil {
		return a, fmt.Errorf("decode action: %w", err)
	}
	return a, nil
}

func float(v float64) *float64 {
	return &v
}

// Hide hides the view immediately.
func Hide() Action {
	return Action{Kind: KindHide}
}

// Show unhides the view immediately.
func Show() Action {
	return Action{Kind: KindShow}
}

// Fade animates alpha to the given value.
func Fade(to float64, d time.Duration) Action {
	return Action{Kind: KindFade, To: to, Duration: Duration(d)}
}

// FadeIn fades to fully opaque.
func FadeIn(d time.Duration) Action {
	return Fade(1, d)
}

// FadeOut fades to fully transparent.
func FadeOut(d time.Duration) Action {
	return Fade(0, d)
}

// Move moves the view's centre by x, y.
func Move(x, y float64, d time.Duration) Action {
	return Action{Kind: KindMove, X: float(x), Y: float(y), Duration: Duration(d)}
}

// SpringMove is Move with spring physics.
func SpringMove(x, y float64, d time.Duration) Action {
	return Action{Kind: KindSpringMove, X: float(x), Y: float(y), Duration: Duration(d)}
}

// MoveTo moves the view's centre to x, y. A nil coordinate is left alone.
func MoveTo(x, y *float64, d time.Duration) Action {
	return Action{Kind: KindMoveTo, X: x, Y: y, Duration: Duration(d)}
}

// SpringMoveTo is MoveTo with spring physics.
func SpringMoveTo(x, y *float64, d time.Duration) Action {
	return Action{Kind: KindSpringMoveTo, X: x, Y: y, Duration: Duration(d)}
}

// Scale multiplies the view's scale by x, y.
func Scale(x, y float64, d time.Duration) Action {
	return Action{Kind: KindScale, X: float(x), Y: float(y), Duration: Duration(d)}
}

// ScaleEqually scales both axes by s.
func ScaleEqually(s float64, d time.Duration) Action {
	return Scale(s, s, d)
}

// SpringScale is Scale with spring physics.
func SpringScale(x, y float64, d time.Duration) Action {
	return Action{Kind: KindSpringScale, X: float(x), Y: float(y), Duration: Duration(d)}
}

// SpringScaleEqually is ScaleEqually with spring physics.
func SpringScaleEqually(s float64, d time.Duration) Action {
	return SpringScale(s, s, d)
}

// TransformBack restores the identity scale.
func TransformBack(d time.Duration) Action {
	return Action{Kind: KindTransformBack, Duration: Duration(d)}
}

// SpringTransformBack is TransformBack with spring physics.
func SpringTransformBack(d time.Duration) Action {
	return Action{Kind: KindSpringTransformBack, Duration: Duration(d)}
}

// Tint animates the view colour to a hex colour such as "#ff8000".
func Tint(hex string, d time.Duration) Action {
	return Action{Kind: KindTint, Colour: hex, Duration: Duration(d)}
}

// Delay does nothing for d.
func Delay(d time.Duration) Action {
	return Action{Kind: KindDelay, Duration: Duration(d)}
}

// Parallel runs actions together.
func Parallel(actions ...Action) Action {
	return Action{Kind: KindParallel, Actions: actions}
}

// Serial runs actions one after another.
func Serial(actions ...Action) Action {
	return Action{Kind: KindSerial, Actions: actions}
}
