package colorutil

import "math"

// Luminance is the WCAG relative luminance of c, 0 (black) to 1 (white).
func (c RGB) Luminance() float64 {
	lin := func(v uint8) float64 {
		s := float64(v) / 255
		if s <= 0.04045 {
			return s / 12.92
		}
		return math.Pow((s+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.R) + 0.7152*lin(c.G) + 0.0722*lin(c.B)
}

// ContrastRatio is the WCAG contrast ratio of two colours, 1 to 21.
func ContrastRatio(a, b RGB) float64 {
	hi, lo := a.Luminance(), b.Luminance()
	if hi < lo {
		hi, lo = lo, hi
	}
	return (hi + 0.05) / (lo + 0.05)
}

// TextOn picks black or white, whichever reads better on bg. Black wins
// once it reaches 4.5.
func TextOn(bg RGB) RGB {
	onBlack := ContrastRatio(black, bg)
	if onBlack >= 4.5 || onBlack >= ContrastRatio(white, bg) {
		return black
	}
	return white
}

// EnsureContrast returns fg when it reaches minRatio (4.5 when <= 0) against
// bg. Otherwise it returns the colour closest to fg on the way to TextOn(bg)
// that does, so the hue survives where possible.
func EnsureContrast(fg, bg RGB, minRatio float64) RGB {
	if minRatio <= 0 {
		minRatio = 4.5
	}
	if ContrastRatio(fg, bg) >= minRatio {
		return fg
	}
	target := TextOn(bg)
	lo, hi := 0.0, 1.0
	for i := 0; i < 12; i++ {
		mid := (lo + hi) / 2
		if ContrastRatio(mix(fg, target, mid), bg) >= minRatio {
			hi = mid
		} else {
			lo = mid
		}
	}
	if c := mix(fg, target, hi); ContrastRatio(c, bg) >= minRatio {
		return c
	}
	return target
}

// mix moves a towards b by t (0 keeps a, 1 gives b).
func mix(a, b RGB, t float64) RGB {
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return RGB{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B)}
}
