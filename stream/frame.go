package stream

import (
	"encoding/binary"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Frame represents a frame of RGB pixels to display on an ledrx device.
type Frame struct {
	pixels []colorful.Color
}

// NewFrame creates a Frame of n black pixels.
func NewFrame(n int) *Frame {
	f := new(Frame)
	f.pixels = make([]colorful.Color, n)
	return f
}

// Len is the number of pixels.
func (f *Frame) Len() int {
	return len(f.pixels)
}

// Pixel returns the colour of pixel i.
func (f *Frame) Pixel(i int) colorful.Color {
	return f.pixels[i]
}

// Layer is a view as it should be drawn.
type Layer struct {
	Name     string
	State    State
	Gradient GradientTable
}

func (l *Layer) colourAt(p Point) (colorful.Color, bool) {
	s := l.State
	hx := math.Abs(s.Size.X*s.Scale.X) / 2
	hy := math.Abs(s.Size.Y*s.Scale.Y) / 2
	if math.Abs(p.X-s.Center.X) > hx || math.Abs(p.Y-s.Center.Y) > hy {
		return colorful.Color{}, false
	}
	if len(l.Gradient) == 0 || hx == 0 {
		return s.Colour, true
	}

	_, c, lum := s.Colour.Hcl()
	t := (p.X - (s.Center.X - hx)) / (2 * hx)
	return l.Gradient.GetColor(t, c, lum), true
}

// Render paints background then each visible layer over it, in order,
// blended by the layer's alpha.
func (f *Frame) Render(layout Layout, background colorful.Color, layers []Layer) {
	for i := range f.pixels {
		c := background
		if i < len(layout) {
			for j := range layers {
				l := &layers[j]
				if l.State.Hidden || l.State.Alpha <= 0 {
					continue
				}
				fill, ok := l.colourAt(layout[i])
				if !ok {
					continue
				}
				if l.State.Alpha >= 1 {
					c = fill
				} else {
					c = c.BlendHcl(fill, l.State.Alpha)
				}
			}
		}
		f.pixels[i] = c
	}
}

// MarshalBinary converts a Frame into binary data: a little endian pixel
// count followed by one RGB triple per pixel.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	data = make([]byte, 2, (len(f.pixels)*3)+2)
	binary.LittleEndian.PutUint16(data, uint16(len(f.pixels)))
	for _, p := range f.pixels {
		r, g, b := p.Clamped().RGB255()
		data = append(data, r, g, b)
	}

	return data, nil
}
