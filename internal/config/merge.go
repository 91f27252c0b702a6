package config

import "strings"

// Merge applies layers in order; later layers win field by field.
// Typical order: file, environment, flags.
func Merge(base Settings, layers ...Config) Settings {
	out := base
	for _, layer := range layers {
		out.Engine = out.Engine.merge(layer.Engine)
		out.Rules = out.Rules.merge(layer.Rules)
		out.UI = out.UI.merge(layer.UI)
		out.Log = out.Log.merge(layer.Log)
	}
	return out
}

func (s EngineSettings) merge(c EngineConfig) EngineSettings {
	s.Paths = overrideList(s.Paths, c.Paths)
	s.Excludes = overrideList(s.Excludes, c.Excludes)
	s.ExcludeTypical = override(s.ExcludeTypical, c.ExcludeTypical)
	s.Jobs = override(s.Jobs, c.Jobs)
	s.MaxFileBytes = override(s.MaxFileBytes, c.MaxFileBytes)
	s.DebounceMS = override(s.DebounceMS, c.DebounceMS)
	s.PollMS = override(s.PollMS, c.PollMS)
	return s
}

func (s RulesSettings) merge(c RulesConfig) RulesSettings {
	s.File = overrideText(s.File, c.File)
	s.Disable = overrideList(s.Disable, c.Disable)
	return s
}

func (s UISettings) merge(c UIConfig) UISettings {
	s.Output = overrideText(s.Output, c.Output)
	s.Color = overrideText(s.Color, c.Color)
	s.Scheme = overrideText(s.Scheme, c.Scheme)
	s.Fields = overrideText(s.Fields, c.Fields)
	s.Sort = overrideText(s.Sort, c.Sort)
	s.WithText = override(s.WithText, c.WithText)
	return s
}

func (s LogSettings) merge(c LogConfig) LogSettings {
	s.Level = overrideText(s.Level, c.Level)
	s.Format = overrideText(s.Format, c.Format)
	return s
}

// override returns *v when the layer set it, cur otherwise.
func override[T any](cur T, v *T) T {
	if v == nil {
		return cur
	}
	return *v
}

func overrideText(cur string, v *string) string {
	if v == nil {
		return cur
	}
	return strings.TrimSpace(*v)
}

// overrideList copies the layer's list. An explicitly empty list clears cur.
func overrideList(cur []string, v *[]string) []string {
	if v == nil {
		return cur
	}
	if len(*v) == 0 {
		return []string{}
	}
	return cloneStrings(*v)
}
