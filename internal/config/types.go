package config

import (
	"log/slog"
	"strings"

	"github.com/phyten/lintlight/internal/engine"
)

// EngineConfig は走査とデバウンスに関する設定層。nil は「この層では未指定」
type EngineConfig struct {
	Paths          *[]string `yaml:"path" toml:"path" json:"path"`
	Excludes       *[]string `yaml:"exclude" toml:"exclude" json:"exclude"`
	ExcludeTypical *bool     `yaml:"exclude_typical" toml:"exclude_typical" json:"exclude_typical"`
	Jobs           *int      `yaml:"jobs" toml:"jobs" json:"jobs"`
	MaxFileBytes   *int      `yaml:"max_file_bytes" toml:"max_file_bytes" json:"max_file_bytes"`
	DebounceMS     *int      `yaml:"debounce_ms" toml:"debounce_ms" json:"debounce_ms"`
	PollMS         *int      `yaml:"poll_ms" toml:"poll_ms" json:"poll_ms"`
}

type RulesConfig struct {
	File    *string   `yaml:"file" toml:"file" json:"file"`
	Disable *[]string `yaml:"disable" toml:"disable" json:"disable"`
}

type UIConfig struct {
	Output   *string `yaml:"output" toml:"output" json:"output"`
	Color    *string `yaml:"color" toml:"color" json:"color"`
	Scheme   *string `yaml:"scheme" toml:"scheme" json:"scheme"`
	Fields   *string `yaml:"fields" toml:"fields" json:"fields"`
	Sort     *string `yaml:"sort" toml:"sort" json:"sort"`
	WithText *bool   `yaml:"with_text" toml:"with_text" json:"with_text"`
}

type LogConfig struct {
	Level  *string `yaml:"level" toml:"level" json:"level"`
	Format *string `yaml:"format" toml:"format" json:"format"`
}

type Config struct {
	Engine EngineConfig `yaml:"engine" toml:"engine" json:"engine"`
	Rules  RulesConfig  `yaml:"rules" toml:"rules" json:"rules"`
	UI     UIConfig     `yaml:"ui" toml:"ui" json:"ui"`
	Log    LogConfig    `yaml:"log" toml:"log" json:"log"`
}

type EngineSettings struct {
	Paths          []string
	Excludes       []string
	ExcludeTypical bool
	Jobs           int
	MaxFileBytes   int
	DebounceMS     int
	PollMS         int
}

type RulesSettings struct {
	File    string
	Disable []string
}

type UISettings struct {
	Output   string
	Color    string
	Scheme   string
	Fields   string
	Sort     string
	WithText bool
}

type LogSettings struct {
	Level  string
	Format string
}

// Settings は全層をマージした最終的な設定
type Settings struct {
	Engine EngineSettings
	Rules  RulesSettings
	UI     UISettings
	Log    LogSettings
	// Source is the config file that contributed, if any.
	Source string
}

const (
	DefaultDebounceMS = 500
	DefaultPollMS     = 200
)

// Defaults returns the built-in layer.
func Defaults(opts engine.Options) Settings {
	return Settings{
		Engine: EngineSettingsFromOptions(opts),
		UI:     DefaultUISettings(),
		Log:    LogSettings{Level: "info", Format: "text"},
	}
}

func EngineSettingsFromOptions(opts engine.Options) EngineSettings {
	return EngineSettings{
		Paths:          cloneStrings(opts.Paths),
		Excludes:       cloneStrings(opts.Excludes),
		ExcludeTypical: opts.ExcludeTypical,
		Jobs:           opts.Jobs,
		MaxFileBytes:   opts.MaxFileBytes,
		DebounceMS:     DefaultDebounceMS,
		PollMS:         DefaultPollMS,
	}
}

func (s EngineSettings) ApplyToOptions(opts *engine.Options) {
	if opts == nil {
		return
	}
	opts.Paths = cloneStrings(s.Paths)
	opts.Excludes = cloneStrings(s.Excludes)
	opts.ExcludeTypical = s.ExcludeTypical
	opts.Jobs = s.Jobs
	opts.MaxFileBytes = s.MaxFileBytes
}

func DefaultUISettings() UISettings {
	return UISettings{Output: "table", Color: "auto", Scheme: "auto"}
}

// LogValue implements [slog.LogValuer].
func (s Settings) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("source", s.Source),
		slog.Group("engine",
			slog.Any("path", s.Engine.Paths),
			slog.Any("exclude", s.Engine.Excludes),
			slog.Bool("exclude_typical", s.Engine.ExcludeTypical),
			slog.Int("jobs", s.Engine.Jobs),
			slog.Int("max_file_bytes", s.Engine.MaxFileBytes),
			slog.Int("debounce_ms", s.Engine.DebounceMS),
			slog.Int("poll_ms", s.Engine.PollMS),
		),
		slog.Group("rules",
			slog.String("file", s.Rules.File),
			slog.String("disable", strings.Join(s.Rules.Disable, ",")),
		),
		slog.Group("ui",
			slog.String("output", s.UI.Output),
			slog.String("color", s.UI.Color),
			slog.String("scheme", s.UI.Scheme),
		),
		slog.Group("log", slog.String("level", s.Log.Level), slog.String("format", s.Log.Format)),
	)
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
