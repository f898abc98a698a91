package util

import (
	"fmt"
	"math"
	"sort"

	"github.com/fogleman/ease"
)

// A CurveFunc maps linear progress in [0, 1] to eased progress.
type CurveFunc func(float64) float64

var curves = map[string]CurveFunc{
	"linear":     ease.Linear,
	"inQuad":     ease.InQuad,
	"outQuad":    ease.OutQuad,
	"inOutQuad":  ease.InOutQuad,
	"inCubic":    ease.InCubic,
	"outCubic":   ease.OutCubic,
	"inOutCubic": ease.InOutCubic,
	"inSine":     ease.InSine,
	"outSine":    ease.OutSine,
	"inOutSine":  ease.InOutSine,
	"outBack":    ease.OutBack,
	"outBounce":  ease.OutBounce,
	"outElastic": ease.OutElastic,
}

// DefaultCurve is used when an animation does not name one.
const DefaultCurve = "inOutQuad"

// Curve looks up an easing curve by name. An empty name gives DefaultCurve.
func Curve(name string) (CurveFunc, error) {
	if name == "" {
		name = DefaultCurve
	}
	c, ok := curves[name]
	if !ok {
		return nil, fmt.Errorf("unknown curve %q", name)
	}
	return c, nil
}

// CurveNames lists the known curves, sorted.
func CurveNames() []string {
	names := make([]string, 0, len(curves))
	for n := range curves {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SpringCurve returns the progress of a damped spring released towards 1.
// velocity is the initial speed in distances per second and is scaled by
// duration. The curve always finishes exactly at 1.
func SpringCurve(dampingRatio, velocity float64, seconds float64) CurveFunc {
	zeta := math.Max(dampingRatio, 0.05)
	// Stiff enough that the displacement has decayed to ~0.1% by t=1.
	omega := math.Log(1000) / math.Min(zeta, 1)
	v0 := velocity * seconds

	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}

		// Displacement from the target starts at 1 moving towards it at v0.
		var x float64
		if zeta < 1 {
			wd := omega * math.Sqrt(1-zeta*zeta)
			b := (zeta*omega - v0) / wd
			x = math.Exp(-zeta*omega*t) * (math.Cos(wd*t) + b*math.Sin(wd*t))
		} else {
			x = math.Exp(-omega*t) * (1 + (omega-v0)*t)
		}
		return 1 - x
	}
}
