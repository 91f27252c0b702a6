package termcolor

import (
	"os"
	"strconv"
	"strings"

	"github.com/phyten/lintlight/internal/colorutil"
)

type colorKind uint8

const (
	defaultColor colorKind = iota
	basicColor
	indexedColor
	trueColor
)

// Color is a foreground colour at one terminal depth. The zero value keeps
// the terminal's default colour.
type Color struct {
	kind colorKind
	n    uint8
	rgb  colorutil.RGB
}

// Basic is one of the eight ANSI colours (0 black .. 7 white).
func Basic(n int) Color { return Color{kind: basicColor, n: uint8(n & 7)} }

// Indexed is an xterm 256-colour palette entry.
func Indexed(n int) Color { return Color{kind: indexedColor, n: uint8(n)} }

// True is a 24-bit colour.
func True(rgb colorutil.RGB) Color { return Color{kind: trueColor, rgb: rgb} }

func (c Color) IsZero() bool { return c.kind == defaultColor }

func (c Color) sgr() string {
	switch c.kind {
	case basicColor:
		return "3" + strconv.Itoa(int(c.n))
	case indexedColor:
		return "38;5;" + strconv.Itoa(int(c.n))
	case trueColor:
		return "38;2;" + strconv.Itoa(int(c.rgb.R)) + ";" + strconv.Itoa(int(c.rgb.G)) + ";" + strconv.Itoa(int(c.rgb.B))
	}
	return ""
}

// Style is a set of SGR attributes.
type Style struct {
	Bold      bool
	Dim       bool
	Underline bool
	FG        Color
}

func (s Style) sgr() string {
	codes := make([]string, 0, 4)
	if s.Bold {
		codes = append(codes, "1")
	}
	if s.Dim {
		codes = append(codes, "2")
	}
	if s.Underline {
		codes = append(codes, "4")
	}
	if c := s.FG.sgr(); c != "" {
		codes = append(codes, c)
	}
	return strings.Join(codes, ";")
}

// IsZero reports whether the style would emit no escape codes.
func (s Style) IsZero() bool { return s.sgr() == "" }

// Wrap surrounds text with the style's escape sequence and a reset.
func (s Style) Wrap(text string) string {
	codes := s.sgr()
	if codes == "" || text == "" {
		return text
	}
	return "\x1b[" + codes + "m" + text + "\x1b[0m"
}

// Painter applies styles when enabled. The zero value never colours.
type Painter struct {
	Enabled bool
	Scheme  Scheme
	Profile Profile
}

// NewPainter resolves --color and --scheme values for output written to out.
func NewPainter(color, scheme string, out *os.File, env Env) (Painter, error) {
	mode, err := ParseMode(color)
	if err != nil {
		return Painter{}, err
	}
	sc, err := ParseScheme(scheme)
	if err != nil {
		return Painter{}, err
	}
	return Painter{
		Enabled: mode.Enabled(out, env),
		Scheme:  sc.Or(env),
		Profile: env.Profile(),
	}, nil
}

func (p Painter) Paint(s Style, text string) string {
	if !p.Enabled {
		return text
	}
	return s.Wrap(text)
}

// Border paints a highlighted span with the named border colour.
func (p Painter) Border(colorName, text string) string {
	return p.Paint(BorderStyle(colorName, p.Scheme, p.Profile), text)
}

// Rule paints a rule name.
func (p Painter) Rule(rule, text string) string {
	return p.Paint(RuleStyle(rule, p.Scheme, p.Profile), text)
}
