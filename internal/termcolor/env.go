package termcolor

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Env holds the environment variables that decide how colour is emitted.
// A nil Env behaves like an empty environment.
type Env map[string]string

// ParseEnv turns os.Environ-style KEY=VALUE entries into an Env.
func ParseEnv(environ []string) Env {
	env := make(Env, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		key, value, _ := strings.Cut(entry, "=")
		env[key] = value
	}
	return env
}

func (e Env) value(key string) string { return strings.TrimSpace(e[key]) }

// blocked: TERM=dumb, NO_COLOR or CLICOLOR=0. These win over any force flag.
func (e Env) blocked() bool {
	return strings.EqualFold(e.value("TERM"), "dumb") || e.value("NO_COLOR") != "" || e.value("CLICOLOR") == "0"
}

func (e Env) forced() bool {
	for _, key := range []string{"CLICOLOR_FORCE", "FORCE_COLOR"} {
		if v := e.value(key); v != "" && v != "0" {
			return true
		}
	}
	return false
}

type Profile int

const (
	ProfileBasic8 Profile = iota
	ProfileANSI256
	ProfileTrueColor
)

// Profile reads COLORTERM and TERM for the colour depth the terminal supports.
func (e Env) Profile() Profile {
	ct := strings.ToLower(e.value("COLORTERM"))
	if strings.Contains(ct, "truecolor") || strings.Contains(ct, "24bit") || strings.Contains(ct, "24-bit") {
		return ProfileTrueColor
	}
	if strings.Contains(strings.ToLower(e.value("TERM")), "256color") {
		return ProfileANSI256
	}
	return ProfileBasic8
}

// Scheme guesses the terminal background. COLORFGBG ("fg;bg" or
// "fg;default;bg") names a background of 7 or 15 for light terminals; a TERM
// containing "light" also counts. Anything else is dark.
func (e Env) Scheme() Scheme {
	if raw := e.value("COLORFGBG"); raw != "" {
		parts := strings.Split(raw, ";")
		bg := strings.TrimSpace(parts[len(parts)-1])
		if bg == "" && len(parts) > 1 {
			bg = strings.TrimSpace(parts[len(parts)-2])
		}
		if n, err := strconv.Atoi(bg); err == nil {
			if n == 7 || n == 15 {
				return SchemeLight
			}
			return SchemeDark
		}
	}
	if strings.Contains(strings.ToLower(e.value("TERM")), "light") {
		return SchemeLight
	}
	return SchemeDark
}

// ColorMode is the --color setting.
type ColorMode int

const (
	ModeAuto ColorMode = iota
	ModeAlways
	ModeNever
)

func (m ColorMode) String() string {
	switch m {
	case ModeAlways:
		return "always"
	case ModeNever:
		return "never"
	}
	return "auto"
}

func ParseMode(v string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "auto":
		return ModeAuto, nil
	case "always":
		return ModeAlways, nil
	case "never":
		return ModeNever, nil
	}
	return ModeAuto, fmt.Errorf("unknown color mode: %s", v)
}

// Enabled settles the mode for output written to out. auto colours a
// terminal unless the environment blocks it, or anything when forced.
func (m ColorMode) Enabled(out *os.File, env Env) bool {
	switch m {
	case ModeAlways:
		return true
	case ModeNever:
		return false
	}
	if env.blocked() {
		return false
	}
	return env.forced() || isTerminal(out)
}

func isTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}
