package stream

// Point is a location in layout space.
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Layout holds the location of every pixel, indexed by pixel number.
type Layout []Point

// LinearLayout places n pixels along the x axis one unit apart.
func LinearLayout(n int) Layout {
	l := make(Layout, n)
	for i := range l {
		l[i] = Point{X: float64(i)}
	}
	return l
}
