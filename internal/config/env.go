package config

import (
	"errors"
	"strings"
)

// ConfigEnv は設定ファイルを明示する環境変数
const ConfigEnv = "LINTLIGHT_CONFIG"

// EnvKeys lists the variables FromEnv reads, LINTLIGHT_CONFIG first.
func EnvKeys() []string {
	keys := []string{ConfigEnv}
	for _, f := range fields {
		keys = append(keys, f.env)
	}
	return keys
}

// FromEnv builds the environment layer. Blank variables are unset; every
// malformed value is reported. Lists are comma separated.
func FromEnv(getenv func(string) string) (Config, error) {
	var cfg Config
	if getenv == nil {
		return cfg, nil
	}
	var errs []error
	for _, f := range fields {
		raw := strings.TrimSpace(getenv(f.env))
		if raw == "" {
			continue
		}
		if err := f.set(&cfg, raw, f.env); err != nil {
			errs = append(errs, err)
		}
	}
	return cfg, errors.Join(errs...)
}
