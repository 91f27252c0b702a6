package config

import (
	"errors"
	"fmt"
	"strings"

	engineopts "github.com/phyten/lintlight/internal/engine/opts"
	"github.com/phyten/lintlight/internal/logging"
	"github.com/phyten/lintlight/internal/termcolor"
)

const (
	maxDebounceMS = 60_000
	minPollMS     = 10
	maxPollMS     = 60_000
)

func CanonicalizeColor(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "auto", nil
	}
	mode, err := termcolor.ParseMode(v)
	if err != nil {
		return "", err
	}
	return mode.String(), nil
}

func CanonicalizeScheme(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "auto", nil
	}
	s, err := termcolor.ParseScheme(v)
	if err != nil {
		return "", err
	}
	return s.String(), nil
}

func ValidateDebounce(ms int) error {
	if ms < 0 || ms > maxDebounceMS {
		return fmt.Errorf("debounce_ms must be between 0 and %d", maxDebounceMS)
	}
	return nil
}

func ValidatePoll(ms int) error {
	if ms < minPollMS || ms > maxPollMS {
		return fmt.Errorf("poll_ms must be between %d and %d", minPollMS, maxPollMS)
	}
	return nil
}

func NormalizeUI(values UISettings) (UISettings, error) {
	var err error
	values.Fields = strings.TrimSpace(values.Fields)
	values.Sort = strings.TrimSpace(values.Sort)
	out := values.Output
	if strings.TrimSpace(out) == "" {
		out = "table"
	}
	if values.Output, err = engineopts.OutputFormat(out); err != nil {
		return values, err
	}
	if values.Color, err = CanonicalizeColor(values.Color); err != nil {
		return values, err
	}
	if values.Scheme, err = CanonicalizeScheme(values.Scheme); err != nil {
		return values, err
	}
	return values, nil
}

func NormalizeLog(values LogSettings) (LogSettings, error) {
	level := strings.ToLower(strings.TrimSpace(values.Level))
	if _, err := logging.ParseLevel(level); err != nil {
		return values, err
	}
	if level == "" {
		level = "info"
	}
	if level == "warning" {
		level = "warn"
	}
	format := strings.ToLower(strings.TrimSpace(values.Format))
	if !logging.ValidFormat(format) {
		return values, fmt.Errorf("log_format must be text or json: %s", values.Format)
	}
	if format == "" {
		format = "text"
	}
	return LogSettings{Level: level, Format: format}, nil
}

// Normalize canonicalises every section and reports all problems at once.
func Normalize(s Settings) (Settings, error) {
	var errs []error
	ui, err := NormalizeUI(s.UI)
	if err != nil {
		errs = append(errs, err)
	}
	s.UI = ui
	lg, err := NormalizeLog(s.Log)
	if err != nil {
		errs = append(errs, err)
	}
	s.Log = lg
	if err := ValidateDebounce(s.Engine.DebounceMS); err != nil {
		errs = append(errs, err)
	}
	if err := ValidatePoll(s.Engine.PollMS); err != nil {
		errs = append(errs, err)
	}
	s.Rules.Disable = engineopts.SplitMulti(s.Rules.Disable)
	return s, errors.Join(errs...)
}
