package termcolor

import (
	"hash/fnv"
	"strings"

	"github.com/phyten/lintlight/internal/colorutil"
)

// 端末背景の想定色（COLORFGBG からは正確な RGB が取れないため固定）
var (
	lightBackground = colorutil.RGB{R: 249, G: 250, B: 251}
	darkBackground  = colorutil.RGB{R: 17, G: 24, B: 39}
)

// Background returns the assumed terminal background for scheme.
func Background(scheme Scheme) colorutil.RGB {
	if scheme == SchemeLight {
		return lightBackground
	}
	return darkBackground
}

func HeaderStyle() Style {
	return Style{Bold: true, Underline: true}
}

// BorderStyle renders a highlighted span: underlined, coloured with the
// named border colour adjusted to stay readable on the scheme background.
// Unknown colour names fall back to blue.
func BorderStyle(colorName string, scheme Scheme, profile Profile) Style {
	rgb, err := colorutil.Parse(colorName)
	if err != nil {
		rgb = colorutil.RGB{B: 255}
	}
	return Style{Underline: true, FG: colorFor(colorutil.EnsureContrast(rgb, Background(scheme), 3), profile, basicFor(rgb))}
}

// rulePalette は ルール名から選ぶ前景色
var rulePalette = []colorutil.RGB{
	{R: 37, G: 99, B: 235},
	{R: 220, G: 38, B: 38},
	{R: 217, G: 119, B: 6},
	{R: 5, G: 150, B: 105},
	{R: 124, G: 58, B: 237},
	{R: 219, G: 39, B: 119},
	{R: 8, G: 145, B: 178},
}

// RuleStyle picks a stable colour for a rule name so the same rule keeps its
// colour across runs.
func RuleStyle(rule string, scheme Scheme, profile Profile) Style {
	name := strings.ToLower(strings.TrimSpace(rule))
	if name == "" {
		return Style{}
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	rgb := rulePalette[h.Sum32()%uint32(len(rulePalette))]
	return Style{Bold: true, FG: colorFor(colorutil.EnsureContrast(rgb, Background(scheme), 4.5), profile, basicFor(rgb))}
}

// MessageStyle is used for hover messages and notifications.
func MessageStyle() Style {
	return Style{Dim: true}
}

// colorFor picks the representation of rgb for the terminal depth; basic is
// used on 8-colour terminals.
func colorFor(rgb colorutil.RGB, profile Profile, basic int) Color {
	switch profile {
	case ProfileTrueColor:
		return True(rgb)
	case ProfileANSI256:
		return Indexed(rgbToANSI256(rgb.R, rgb.G, rgb.B))
	}
	return Basic(basic)
}

// basicFor maps an RGB colour to the nearest of the 8 basic ANSI colours.
func basicFor(rgb colorutil.RGB) int {
	bit := func(v uint8) int {
		if v >= 128 {
			return 1
		}
		return 0
	}
	idx := bit(rgb.R) | bit(rgb.G)<<1 | bit(rgb.B)<<2
	if idx == 0 && (rgb.R > 0 || rgb.G > 0 || rgb.B > 0) {
		// 暗い有彩色は最も強い成分で決める
		switch {
		case rgb.B >= rgb.R && rgb.B >= rgb.G:
			idx = 4
		case rgb.R >= rgb.G:
			idx = 1
		default:
			idx = 2
		}
	}
	return idx
}

func rgbToANSI256(r, g, b uint8) int {
	if r == g && g == b {
		if r < 8 {
			return 16
		}
		if r > 248 {
			return 231
		}
		return 232 + (int(r)-8)*24/247
	}
	rr := int(r) * 5 / 255
	gg := int(g) * 5 / 255
	bb := int(b) * 5 / 255
	return 16 + 36*rr + 6*gg + bb
}
