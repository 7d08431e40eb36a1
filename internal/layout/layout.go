package layout

import "math"

// Ring places Count petals evenly on a circle. Petal 0 sits at 12 o'clock
// and indices advance clockwise, the direction playback walks.
type Ring struct {
	Count            int
	Radius           float64
	CenterX, CenterY float64
}

// Angle is petal i's angle in radians, clockwise from 12 o'clock.
func (r Ring) Angle(i int) float64 {
	if r.Count <= 0 {
		return 0
	}
	return 2 * math.Pi * float64(i%r.Count) / float64(r.Count)
}

// Point maps petal i to screen coordinates (y grows downward).
func (r Ring) Point(i int) (x, y float64) {
	a := r.Angle(i)
	return r.CenterX + r.Radius*math.Sin(a), r.CenterY - r.Radius*math.Cos(a)
}

// Fit returns a ring centred in a w×h area with some margin left for the
// petals themselves.
func Fit(count int, w, h float64) Ring {
	radius := math.Min(w, h) * 0.32
	return Ring{Count: count, Radius: radius, CenterX: w / 2, CenterY: h / 2}
}
