package termcolor

import (
	"fmt"
	"strings"
)

// Scheme は端末の明暗（ハイライトの枠線色の選択に使う）
type Scheme int

const (
	SchemeUnknown Scheme = iota
	SchemeDark
	SchemeLight
)

func (s Scheme) String() string {
	switch s {
	case SchemeDark:
		return "dark"
	case SchemeLight:
		return "light"
	}
	return "auto"
}

// Dark reports whether the scheme is a dark presentation. Unknown counts as dark.
func (s Scheme) Dark() bool { return s != SchemeLight }

// ParseScheme accepts auto|light|dark. auto yields SchemeUnknown.
func ParseScheme(v string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "auto":
		return SchemeUnknown, nil
	case "dark":
		return SchemeDark, nil
	case "light":
		return SchemeLight, nil
	}
	return SchemeUnknown, fmt.Errorf("unknown scheme: %s", v)
}

// Or returns s, or the environment's guess when s is unknown.
func (s Scheme) Or(env Env) Scheme {
	if s != SchemeUnknown {
		return s
	}
	return env.Scheme()
}
