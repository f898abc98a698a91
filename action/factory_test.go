package action_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledmod/action"
	"github.com/matt-g-everett/ledmod/anim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	duration time.Duration
	options  anim.Options
}

type immediateAnimator struct {
	calls []call
}

func (a *immediateAnimator) Animate(d time.Duration, o anim.Options, mutate func(), onComplete func(bool)) {
	a.calls = append(a.calls, call{d, o})
	mutate()
	onComplete(true)
}

type fakeTarget struct {
	log []string
}

func (t *fakeTarget) record(format string, args ...interface{}) {
	t.log = append(t.log, fmt.Sprintf(format, args...))
}

func (t *fakeTarget) SetHidden(h bool) { t.record("hidden=%v", h) }
func (t *fakeTarget) SetAlpha(a float64) { t.record("alpha=%g", a) }
func (t *fakeTarget) MoveBy(dx, dy float64) { t.record("moveBy=%g,%g", dx, dy) }
func (t *fakeTarget) ScaleBy(sx, sy float64) { t.record("scaleBy=%g,%g", sx, sy) }
func (t *fakeTarget) ResetTransform() { t.record("reset") }
func (t *fakeTarget) SetColour(c colorful.Color) { t.record("colour=%s", c.Hex()) }
func (t *fakeTarget) MoveTo(x, y *float64) {
	s := "moveTo="
	if x != nil {
		s += fmt.Sprintf("x%g", *x)
	}
	if y != nil {
		s += fmt.Sprintf("y%g", *y)
	}
	t.log = append(t.log, s)
}

func ptr(v float64) *float64 { return &v }

func TestBuildAtomicActions(t *testing.T) {
	cases := []struct {
		action action.Action
		want   string
		spring bool
	}{
		{action.Hide(), "hidden=true", false},
		{action.Show(), "hidden=false", false},
		{action.FadeIn(time.Second), "alpha=1", false},
		{action.FadeOut(time.Second), "alpha=0", false},
		{action.Fade(0.25, time.Second), "alpha=0.25", false},
		{action.Move(3, -2, time.Second), "moveBy=3,-2", false},
		{action.SpringMove(1, 1, time.Second), "moveBy=1,1", true},
		{action.MoveTo(ptr(5), nil, time.Second), "moveTo=x5", false},
		{action.SpringMoveTo(nil, ptr(7), time.Second), "moveTo=y7", true},
		{action.Scale(2, 3, time.Second), "scaleBy=2,3", false},
		{action.ScaleEqually(2, time.Second), "scaleBy=2,2", false},
		{action.SpringScale(2, 1, time.Second), "scaleBy=2,1", true},
		{action.SpringScaleEqually(0.5, time.Second), "scaleBy=0.5,0.5", true},
		{action.TransformBack(time.Second), "reset", false},
		{action.SpringTransformBack(time.Second), "reset", true},
		{action.Tint("#ff0000", time.Second), "colour=#ff0000", false},
	}

	for _, tc := range cases {
		t.Run(string(tc.action.Kind)+"/"+tc.want, func(t *testing.T) {
			animator := &immediateAnimator{}
			target := &fakeTarget{}
			m, err := action.NewFactory(animator).Build(target, tc.action)
			require.NoError(t, err)
			require.IsType(t, &anim.Primitive{}, m)
			assert.Empty(t, target.log)

			anim.Play(m, nil)

			assert.Equal(t, []string{tc.want}, target.log)
			require.Len(t, animator.calls, 1)
			assert.Equal(t, tc.spring, animator.calls[0].options.Spring != nil)
		})
	}
}

func TestBuildVisibilityIsImmediate(t *testing.T) {
	factory := action.NewFactory(&immediateAnimator{})

	for _, kind := range []action.Kind{action.KindHide, action.KindShow} {
		m, err := factory.Build(&fakeTarget{}, action.Action{Kind: kind, Duration: action.Duration(3 * time.Second)})
		require.NoError(t, err)
		assert.Equal(t, time.Duration(0), m.Duration(), kind)
	}
}

func TestBuildDelayIsSinglePrimitive(t *testing.T) {
	animator := &immediateAnimator{}
	target := &fakeTarget{}
	m, err := action.NewFactory(animator).Build(target, action.Delay(2*time.Second))
	require.NoError(t, err)
	require.IsType(t, &anim.Primitive{}, m)
	assert.Equal(t, 2*time.Second, m.Duration())

	done := false
	anim.Play(m, func() { done = true })

	assert.True(t, done)
	assert.Empty(t, target.log)
	assert.Len(t, animator.calls, 1)
}

func TestBuildComposites(t *testing.T) {
	animator := &immediateAnimator{}
	target := &fakeTarget{}
	a := action.Serial(
		action.FadeIn(time.Second),
		action.Parallel(
			action.Move(1, 0, time.Second),
			action.ScaleEqually(2, 2*time.Second),
			action.Tint("#00ff00", time.Second),
		),
		action.Hide(),
	)

	m, err := action.NewFactory(animator).Build(target, a)
	require.NoError(t, err)
	require.IsType(t, &anim.Serial{}, m)
	assert.Equal(t, 3*time.Second, m.Duration())

	serial := m.(*anim.Serial)
	require.Len(t, serial.Modules(), 3)
	require.IsType(t, &anim.Parallel{}, serial.Modules()[1])
	assert.Len(t, serial.Modules()[1].(*anim.Parallel).Modules(), 3)

	var finished []string
	anim.Play(m, func() { finished = append([]string(nil), target.log...) })

	want := []string{"alpha=1", "moveBy=1,0", "scaleBy=2,2", "hidden=true", "colour=#00ff00"}
	assert.Equal(t, want, target.log)
	assert.Equal(t, want[:4], finished)
}

func TestBuildErrors(t *testing.T) {
	factory := action.NewFactory(&immediateAnimator{})

	_, err := factory.Build(&fakeTarget{}, action.Action{Kind: "spin"})
	assert.True(t, errors.Is(err, action.ErrUnknownKind))

	_, err = factory.Build(&fakeTarget{}, action.Serial(action.FadeIn(time.Second), action.Fade(1, -time.Second)))
	assert.True(t, errors.Is(err, action.ErrNegativeDuration))
	assert.Contains(t, err.Error(), "serial[1]")

	_, err = factory.Build(&fakeTarget{}, action.Parallel(action.Tint("nope", time.Second)))
	assert.Error(t, err)

	_, err = factory.Build(&fakeTarget{}, action.Action{Kind: action.KindFade, Curve: "wobble"})
	assert.Error(t, err)
}

func TestBuildCurve(t *testing.T) {
	animator := &immediateAnimator{}
	m, err := action.NewFactory(animator).Build(&fakeTarget{}, action.Action{Kind: action.KindFade, Curve: "linear", Duration: action.Duration(time.Second)})
	require.NoError(t, err)

	anim.Play(m, nil)

	require.Len(t, animator.calls, 1)
	require.NotNil(t, animator.calls[0].options.Curve)
	assert.InDelta(t, 0.3, animator.calls[0].options.Curve(0.3), 1e-9)
}

func TestBuildEmptyComposites(t *testing.T) {
	factory := action.NewFactory(&immediateAnimator{})

	m, err := factory.Build(&fakeTarget{}, action.Serial())
	require.NoError(t, err)
	assert.Nil(t, m.Block(nil))

	m, err = factory.Build(&fakeTarget{}, action.Parallel())
	require.NoError(t, err)
	assert.Nil(t, m.Block(nil))
}

func TestDecode(t *testing.T) {
	doc, err := action.Decode(strings.NewReader(`
view: star
action:
  kind: serial
  actions:
    - kind: fade
      to: 0.5
      duration: 250ms
    - kind: moveTo
      x: 12
    - kind: delay
      duration: 1s
`))
	require.NoError(t, err)
	assert.Equal(t, "star", doc.View)
	assert.Equal(t, action.KindSerial, doc.Action.Kind)
	require.Len(t, doc.Action.Actions, 3)
	assert.Equal(t, action.Duration(250*time.Millisecond), doc.Action.Actions[0].Duration)
	assert.Equal(t, 0.5, doc.Action.Actions[0].To)
	require.NotNil(t, doc.Action.Actions[1].X)
	assert.Nil(t, doc.Action.Actions[1].Y)
	assert.Equal(t, action.Duration(time.Second), doc.Action.Actions[2].Duration)
}

func TestDecodeActionJSON(t *testing.T) {
	a, err := action.DecodeAction([]byte(`{"kind": "tint", "colour": "#0000ff", "duration": "2s"}`))
	require.NoError(t, err)
	assert.Equal(t, action.Tint("#0000ff", 2*time.Second), a)
}

func TestDecodeNumericDurationIsSeconds(t *testing.T) {
	cases := []struct {
		input string
		want  time.Duration
	}{
		{`{"kind": "fade", "to": 1, "duration": 2}`, 2 * time.Second},
		{`{"kind": "fade", "to": 1, "duration": 0.5}`, 500 * time.Millisecond},
		{`{kind: fade, to: 1, duration: 1.5s}`, 1500 * time.Millisecond},
		{`{kind: fade, to: 1}`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			a, err := action.DecodeAction([]byte(tc.input))
			require.NoError(t, err)
			assert.Equal(t, action.Duration(tc.want), a.Duration)

			m, err := action.NewFactory(&immediateAnimator{}).Build(&fakeTarget{}, a)
			require.NoError(t, err)
			assert.Equal(t, tc.want, m.Duration())
		})
	}
}

func TestDecodeRejectsBadDuration(t *testing.T) {
	_, err := action.DecodeAction([]byte(`{kind: fade, duration: soon}`))
	assert.ErrorContains(t, err, "soon")

	_, err = action.DecodeAction([]byte(`{kind: fade, duration: [1]}`))
	assert.Error(t, err)
}
