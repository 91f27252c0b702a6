// Package opts holds the batch-scan option defaults and the parsers shared by
// the CLI, the config loader and the web bridge.
package opts

import (
	"errors"
	"fmt"
	"net/url"
	"runtime"
	"strconv"
	"strings"

	"github.com/phyten/lintlight/internal/engine"
)

// MaxJobs caps the worker pool of a batch scan.
const MaxJobs = 64

// Defaults returns the baseline batch options: one worker per CPU and the
// typical vendor/build directories excluded.
func Defaults() engine.Options {
	return engine.Options{
		ExcludeTypical: true,
		Jobs:           min(max(runtime.NumCPU(), 1), MaxJobs),
	}
}

// queryParam は /api/scan のクエリ引数ひとつ分
type queryParam struct {
	name  string
	apply func(o *engine.Options, values []string) error
}

var queryParams = []queryParam{
	{"path", func(o *engine.Options, v []string) error {
		o.Paths = SplitMulti(v)
		return nil
	}},
	{"exclude", func(o *engine.Options, v []string) error {
		o.Excludes = SplitMulti(v)
		return nil
	}},
	{"exclude_typical", func(o *engine.Options, v []string) (err error) {
		o.ExcludeTypical, err = ParseBool(last(v), "exclude_typical")
		return err
	}},
	{"jobs", func(o *engine.Options, v []string) (err error) {
		o.Jobs, err = ParseInt(last(v), "jobs", 1, MaxJobs)
		return err
	}},
	{"max_file_bytes", func(o *engine.Options, v []string) (err error) {
		o.MaxFileBytes, err = ParseInt(last(v), "max_file_bytes", 0, -1)
		return err
	}},
}

// FromQuery overlays the recognised query parameters on def. Every bad
// parameter is reported; ranges that depend on the combination are left to
// Normalize.
func FromQuery(def engine.Options, q url.Values) (engine.Options, error) {
	out := def
	var errs []error
	for _, p := range queryParams {
		values, ok := q[p.name]
		if !ok || len(SplitMulti(values)) == 0 {
			continue
		}
		if err := p.apply(&out, values); err != nil {
			errs = append(errs, err)
		}
	}
	return out, errors.Join(errs...)
}

// Normalize trims the path lists, defaults Paths to "." and checks the ranges.
func Normalize(o *engine.Options) error {
	var errs []error
	if o.Jobs < 1 || o.Jobs > MaxJobs {
		errs = append(errs, fmt.Errorf("jobs must be between 1 and %d", MaxJobs))
	}
	if o.MaxFileBytes < 0 {
		errs = append(errs, errors.New("max_file_bytes must be >= 0"))
	}
	o.Paths = compact(o.Paths)
	if len(o.Paths) == 0 {
		o.Paths = []string{"."}
	}
	o.Excludes = compact(o.Excludes)
	return errors.Join(errs...)
}

// ParseBool accepts 1/0, true/false, yes/no and on/off in any case.
func ParseBool(raw, key string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid value for %s: %q", key, raw)
}

// ParseInt parses raw and checks lo <= n <= hi. hi < lo leaves the upper
// end open.
func ParseInt(raw, key string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %q", key, raw)
	}
	switch {
	case hi < lo && n < lo:
		return 0, fmt.Errorf("%s must be >= %d", key, lo)
	case hi >= lo && (n < lo || n > hi):
		return 0, fmt.Errorf("%s must be between %d and %d", key, lo, hi)
	}
	return n, nil
}

// OutputFormat canonicalises an --output value; markdown becomes md.
func OutputFormat(value string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case "table", "json", "ndjson", "csv", "show", "md":
		return v, nil
	case "markdown":
		return "md", nil
	}
	return "", fmt.Errorf("invalid --output: %s", value)
}

// SplitMulti flattens repeated values that may also be comma separated,
// dropping blanks.
func SplitMulti(values []string) []string {
	var out []string
	for _, raw := range values {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func last(values []string) string {
	flat := SplitMulti(values)
	if len(flat) == 0 {
		return ""
	}
	return flat[len(flat)-1]
}

func compact(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
