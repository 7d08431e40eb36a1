package render

// Limiter is a two-stage power limiter for an LED strip:
//  1. per-LED white cap: scales (R,G,B) so R+G+B <= WhiteCap
//  2. global current budget: estimates current and scales the whole frame
//     to stay under BudgetMA, softly from Knee*BudgetMA upward
//
// A zero BudgetMA disables the second stage.
type Limiter struct {
	WhiteCap float64 // sum of channels, linear; 3.0 is no cap
	ChanMA   float64 // mA per channel at full scale; WS2812 ≈ 20
	BudgetMA float64
	Knee     float64
}

func DefaultLimiter() Limiter {
	return Limiter{WhiteCap: 3.0, ChanMA: 20, Knee: 0.9}
}

func (l Limiter) Apply(buf []Color) {
	if l.WhiteCap > 0 {
		wc := float32(l.WhiteCap)
		for i := range buf {
			s := buf[i].R + buf[i].G + buf[i].B
			if s > wc && s > 0 {
				scale := wc / s
				buf[i].R *= scale
				buf[i].G *= scale
				buf[i].B *= scale
			}
		}
	}

	if l.BudgetMA <= 0 {
		return
	}
	total := Current(buf, l.ChanMA)
	if total <= 0 {
		return
	}
	knee := l.Knee
	if knee <= 0 || knee >= 1 {
		knee = 0.9
	}
	ratio := total / l.BudgetMA
	if ratio > 1.0 {
		ScaleBrightness(buf, l.BudgetMA/total)
		return
	}
	if ratio <= knee {
		return
	}
	// map ratio in [knee,1] to scale in [1, budget/total]
	minS := l.BudgetMA / total
	t := (ratio - knee) / (1.0 - knee)
	ScaleBrightness(buf, 1.0-t*(1.0-minS))
}

// Current estimates the strip's draw in mA.
func Current(buf []Color, chanMA float64) float64 {
	var total float64
	for i := range buf {
		total += float64(buf[i].R+buf[i].G+buf[i].B) * chanMA
	}
	return total
}

// ScaleBrightness multiplies every channel by s, clamped to 0..1. s >= 1 is a no-op.
func ScaleBrightness(buf []Color, s float64) {
	if s >= 1.0 {
		return
	}
	if s < 0 {
		s = 0
	}
	f := float32(s)
	for i := range buf {
		buf[i].R *= f
		buf[i].G *= f
		buf[i].B *= f
	}
}
