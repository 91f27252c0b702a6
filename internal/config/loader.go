package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// decoders は拡張子ごとの設定ファイルのデコーダ
var decoders = map[string]func([]byte, any) error{
	".yaml": yaml.Unmarshal,
	".yml":  yaml.Unmarshal,
	".toml": toml.Unmarshal,
	".json": json.Unmarshal,
}

// Load reads one config file. The format follows the extension. A relative
// rules file is resolved against the config file's directory.
func Load(path string) (Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Config{}, nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	unmarshal, ok := decoders[ext]
	if !ok {
		return Config{}, fmt.Errorf("unsupported config extension: %s", ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var raw map[string]any
	if err := unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg, err := decode(raw)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if f := cfg.Rules.File; f != nil && *f != "" && !filepath.IsAbs(*f) {
		resolved := filepath.Join(filepath.Dir(path), *f)
		cfg.Rules.File = &resolved
	}
	return cfg, nil
}

// decode maps a parsed document onto Config. Keys are case-insensitive and
// may use '-' for '_'. Section blocks are applied first so a top-level key
// overrides the same setting inside its block.
func decode(raw map[string]any) (Config, error) {
	var cfg Config
	var errs []error
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		section := normalizeKey(key)
		if !isSection(section) {
			continue
		}
		block, err := toStringKeyMap(raw[key])
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", section, err))
			continue
		}
		for k, v := range block {
			f, ok := lookup(section, normalizeKey(k))
			if !ok {
				errs = append(errs, fmt.Errorf("unknown %s key: %s", section, k))
				continue
			}
			if err := f.set(&cfg, v, f.keys[0]); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", section, err))
			}
		}
	}
	for _, key := range keys {
		norm := normalizeKey(key)
		if isSection(norm) {
			continue
		}
		f, ok := lookup("", norm)
		if !ok {
			errs = append(errs, fmt.Errorf("unknown config key: %s", key))
			continue
		}
		if err := f.set(&cfg, raw[key], f.keys[0]); err != nil {
			errs = append(errs, err)
		}
	}
	return cfg, errors.Join(errs...)
}

// toStringKeyMap accepts the map shapes the YAML, TOML and JSON decoders produce.
func toStringKeyMap(v any) (map[string]any, error) {
	switch typed := v.(type) {
	case map[string]any:
		return typed, nil
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, value := range typed {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("non-string key: %v", k)
			}
			out[key] = value
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected map, got %T", v)
}

func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
}
