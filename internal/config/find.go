package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// 設定ファイル名の候補（先に見つかったものを使う）
var extensions = []string{"yaml", "yml", "toml", "json"}

type candidate struct {
	path  string
	where string
}

// Find locates the config file: an explicit path first, then
// .lintlight.* from startDir upwards, then $XDG_CONFIG_HOME/lintlight/config.*
// (~/.config when unset), then .lintlight.* in the home directory. The second
// result names where it was found; both are empty when there is no config file.
func Find(startDir, explicitPath, xdgHome, home string) (string, string, error) {
	start, err := filepath.Abs(orDefault(startDir, "."))
	if err != nil {
		return "", "", err
	}
	if explicit := strings.TrimSpace(explicitPath); explicit != "" {
		if !filepath.IsAbs(explicit) {
			explicit = filepath.Join(start, explicit)
		}
		info, err := os.Stat(explicit)
		if err != nil {
			return "", "", err
		}
		if info.IsDir() {
			return "", "", fmt.Errorf("%s %q points to a directory", ConfigEnv, explicit)
		}
		return explicit, "explicit", nil
	}

	for _, c := range candidates(start, xdgHome, home) {
		if isRegularFile(c.path) {
			return c.path, c.where, nil
		}
	}
	return "", "", nil
}

// candidates lists every searched location in priority order.
func candidates(start, xdgHome, home string) []candidate {
	var out []candidate
	add := func(dir, stem, where string) {
		for _, ext := range extensions {
			out = append(out, candidate{path: filepath.Join(dir, stem+"."+ext), where: where})
		}
	}
	for dir := start; ; {
		add(dir, ".lintlight", "cwd-up")
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	home = strings.TrimSpace(home)
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	xdg := strings.TrimSpace(xdgHome)
	if xdg == "" && home != "" {
		xdg = filepath.Join(home, ".config")
	}
	if xdg != "" {
		add(filepath.Join(xdg, "lintlight"), "config", "xdg")
	}
	if home != "" {
		add(home, ".lintlight", "home")
	}
	return out
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
