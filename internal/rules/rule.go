package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/phyten/lintlight/internal/detect"
	"github.com/phyten/lintlight/internal/msgtmpl"
)

// Def is the declarative form of a rule, as written in the built-in catalogue
// or in a rule pack file.
type Def struct {
	Name       string   `yaml:"name" toml:"name" json:"name"`
	Pattern    string   `yaml:"pattern" toml:"pattern" json:"pattern"`
	IgnoreCase bool     `yaml:"ignore_case" toml:"ignore_case" json:"ignore_case"`
	Detail     string   `yaml:"detail" toml:"detail" json:"detail"`
	Summary    string   `yaml:"summary" toml:"summary" json:"summary"`
	Languages  []string `yaml:"languages" toml:"languages" json:"languages,omitempty"`
}

// Rule is one compiled detection rule. A Rule is never modified after New
// returns, so it can be shared by any number of scans.
type Rule struct {
	def    Def
	langs  []string
	re     *regexp2.Regexp
	groups int
}

// ErrInvalidRule is wrapped by every construction error.
var ErrInvalidRule = errors.New("invalid rule")

// New compiles d into a Rule. Patterns use ECMAScript regular-expression
// semantics; both templates are checked for unknown placeholders.
func New(d Def) (*Rule, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidRule)
	}
	if d.Pattern == "" {
		return nil, fmt.Errorf("%w %q: missing pattern", ErrInvalidRule, d.Name)
	}
	if strings.TrimSpace(d.Summary) == "" {
		return nil, fmt.Errorf("%w %q: missing summary", ErrInvalidRule, d.Name)
	}
	if strings.TrimSpace(d.Detail) == "" {
		d.Detail = d.Summary
	}
	var opts regexp2.RegexOptions = regexp2.ECMAScript
	if d.IgnoreCase {
		opts |= regexp2.IgnoreCase
	}
	re, err := regexp2.Compile(d.Pattern, opts)
	if err != nil {
		return nil, fmt.Errorf("%w %q: pattern: %v", ErrInvalidRule, d.Name, err)
	}
	if err := msgtmpl.Validate(d.Summary); err != nil {
		return nil, fmt.Errorf("%w %q: summary: %v", ErrInvalidRule, d.Name, err)
	}
	if err := msgtmpl.Validate(d.Detail); err != nil {
		return nil, fmt.Errorf("%w %q: detail: %v", ErrInvalidRule, d.Name, err)
	}
	d.Languages = append([]string(nil), d.Languages...)
	return &Rule{
		def:    d,
		langs:  detect.CanonicalLangs(d.Languages),
		re:     re,
		groups: len(re.GetGroupNumbers()) - 1,
	}, nil
}

// MustNew is New for the built-in catalogue; it panics on a bad definition.
func MustNew(d Def) *Rule {
	r, err := New(d)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Rule) Name() string    { return r.def.Name }
func (r *Rule) Pattern() string { return r.def.Pattern }
func (r *Rule) Detail() string  { return r.def.Detail }
func (r *Rule) Summary() string { return r.def.Summary }

// Def returns a copy of the definition the rule was built from.
func (r *Rule) Def() Def {
	d := r.def
	d.Languages = append([]string(nil), r.def.Languages...)
	return d
}

// GroupCount is the number of capture groups in the pattern.
func (r *Rule) GroupCount() int { return r.groups }

// Regexp exposes the compiled pattern to the scanner.
func (r *Rule) Regexp() *regexp2.Regexp { return r.re }

// AppliesTo reports whether the rule should run on a document of the given
// language. Rules without a language filter and documents of unknown
// language always match.
func (r *Rule) AppliesTo(lang string) bool {
	if len(r.langs) == 0 {
		return true
	}
	if !detect.Known(lang) {
		return true
	}
	norm := detect.NormalizeLangName(lang)
	for _, l := range r.langs {
		if l == norm {
			return true
		}
	}
	return false
}

func (r *Rule) String() string { return r.def.Name }
