package config

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	engineopts "github.com/phyten/lintlight/internal/engine/opts"
)

// field is one setting: its place in Config, the file keys that name it
// (canonical first) and its environment variable. File keys are unique
// across sections so they may also appear at the top level.
type field struct {
	section string
	keys    []string
	env     string
	ref     func(*Config) any
}

var sectionNames = []string{"engine", "rules", "ui", "log"}

var fields = []field{
	{"engine", []string{"path", "paths"}, "LINTLIGHT_PATH", func(c *Config) any { return &c.Engine.Paths }},
	{"engine", []string{"exclude", "excludes"}, "LINTLIGHT_EXCLUDE", func(c *Config) any { return &c.Engine.Excludes }},
	{"engine", []string{"exclude_typical"}, "LINTLIGHT_EXCLUDE_TYPICAL", func(c *Config) any { return &c.Engine.ExcludeTypical }},
	{"engine", []string{"jobs"}, "LINTLIGHT_JOBS", func(c *Config) any { return &c.Engine.Jobs }},
	{"engine", []string{"max_file_bytes", "max_bytes"}, "LINTLIGHT_MAX_FILE_BYTES", func(c *Config) any { return &c.Engine.MaxFileBytes }},
	{"engine", []string{"debounce_ms", "debounce"}, "LINTLIGHT_DEBOUNCE_MS", func(c *Config) any { return &c.Engine.DebounceMS }},
	{"engine", []string{"poll_ms"}, "LINTLIGHT_POLL_MS", func(c *Config) any { return &c.Engine.PollMS }},
	{"rules", []string{"file", "rules_file"}, "LINTLIGHT_RULES", func(c *Config) any { return &c.Rules.File }},
	{"rules", []string{"disable", "disabled"}, "LINTLIGHT_DISABLE", func(c *Config) any { return &c.Rules.Disable }},
	{"ui", []string{"output"}, "LINTLIGHT_OUTPUT", func(c *Config) any { return &c.UI.Output }},
	{"ui", []string{"color", "colour"}, "LINTLIGHT_COLOR", func(c *Config) any { return &c.UI.Color }},
	{"ui", []string{"scheme"}, "LINTLIGHT_SCHEME", func(c *Config) any { return &c.UI.Scheme }},
	{"ui", []string{"fields"}, "LINTLIGHT_FIELDS", func(c *Config) any { return &c.UI.Fields }},
	{"ui", []string{"sort"}, "LINTLIGHT_SORT", func(c *Config) any { return &c.UI.Sort }},
	{"ui", []string{"with_text"}, "LINTLIGHT_WITH_TEXT", func(c *Config) any { return &c.UI.WithText }},
	{"log", []string{"level", "log_level"}, "LINTLIGHT_LOG_LEVEL", func(c *Config) any { return &c.Log.Level }},
	{"log", []string{"format", "log_format"}, "LINTLIGHT_LOG_FORMAT", func(c *Config) any { return &c.Log.Format }},
}

func isSection(name string) bool {
	for _, s := range sectionNames {
		if s == name {
			return true
		}
	}
	return false
}

// lookup finds the field a normalised file key names. An empty section
// searches every section.
func lookup(section, key string) (field, bool) {
	for _, f := range fields {
		if section != "" && f.section != section {
			continue
		}
		for _, k := range f.keys {
			if k == key {
				return f, true
			}
		}
	}
	return field{}, false
}

// set decodes value into c. name labels errors: the file key or the
// environment variable.
func (f field) set(c *Config, value any, name string) error {
	switch p := f.ref(c).(type) {
	case **string:
		s, err := asString(value, name)
		if err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		*p = &s
	case **[]string:
		list, err := asList(value, name)
		if err != nil {
			return err
		}
		*p = &list
	case **bool:
		b, err := asBool(value, name)
		if err != nil {
			return err
		}
		*p = &b
	case **int:
		n, err := asInt(value, name)
		if err != nil {
			return err
		}
		*p = &n
	default:
		panic(fmt.Sprintf("config: field %s has unsupported type %T", f.keys[0], p))
	}
	return nil
}

func asString(value any, name string) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", fmt.Errorf("%s cannot be null", name)
	case string:
		return v, nil
	}
	return "", fmt.Errorf("expected string for %s, got %T", name, value)
}

// asList accepts a list of strings or one comma-separated string. Blank
// entries are dropped; the result is never nil.
func asList(value any, name string) ([]string, error) {
	var items []string
	switch v := value.(type) {
	case string:
		items = []string{v}
	case []string:
		items = v
	case []any:
		for _, item := range v {
			s, err := asString(item, name)
			if err != nil {
				return nil, err
			}
			items = append(items, s)
		}
	default:
		return nil, fmt.Errorf("expected string or list for %s, got %T", name, value)
	}
	out := engineopts.SplitMulti(items)
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func asBool(value any, name string) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return engineopts.ParseBool(v, name)
	}
	return false, fmt.Errorf("expected bool for %s, got %T", name, value)
}

// asInt leaves range checks to Normalize.
func asInt(value any, name string) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		if v > math.MaxInt {
			return 0, fmt.Errorf("%s is too large: %d", name, v)
		}
		return int(v), nil
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
			return 0, fmt.Errorf("expected integer for %s, got %v", name, v)
		}
		return int(v), nil
	case json.Number:
		return asInt(v.String(), name)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("invalid integer value for %s: %q", name, v)
		}
		return n, nil
	}
	return 0, fmt.Errorf("expected integer for %s, got %T", name, value)
}
