// Package colorutil parses the colour names used by highlight styles and
// keeps them readable against a terminal background (WCAG contrast).
package colorutil

import (
	"fmt"
	"strconv"
	"strings"
)

type RGB struct {
	R uint8
	G uint8
	B uint8
}

var (
	black = RGB{0, 0, 0}
	white = RGB{255, 255, 255}
)

// named は CSS カラー名のうちハイライト装飾で使うもの
var named = map[string]RGB{
	"black":     black,
	"white":     white,
	"blue":      {0, 0, 255},
	"darkblue":  {0, 0, 139},
	"lightblue": {173, 216, 230},
	"navy":      {0, 0, 128},
	"red":       {255, 0, 0},
	"darkred":   {139, 0, 0},
	"orange":    {255, 165, 0},
	"gold":      {255, 215, 0},
	"green":     {0, 128, 0},
	"teal":      {0, 128, 128},
	"purple":    {128, 0, 128},
	"gray":      {128, 128, 128},
	"grey":      {128, 128, 128},
}

// Parse accepts one of the colour names above, #rgb or #rrggbb.
func Parse(s string) (RGB, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if c, ok := named[v]; ok {
		return c, nil
	}
	hex, ok := strings.CutPrefix(v, "#")
	if ok && len(hex) == 3 {
		hex = strings.Repeat(hex[:1], 2) + strings.Repeat(hex[1:2], 2) + strings.Repeat(hex[2:], 2)
	}
	if ok && len(hex) == 6 {
		if n, err := strconv.ParseUint(hex, 16, 32); err == nil {
			return RGB{uint8(n >> 16), uint8(n >> 8), uint8(n)}, nil
		}
	}
	return RGB{}, fmt.Errorf("unknown color: %q", s)
}

// Hex renders c as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
