package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/phyten/lintlight/internal/config"
	engineopts "github.com/phyten/lintlight/internal/engine/opts"
	"github.com/phyten/lintlight/internal/logging"
	"github.com/phyten/lintlight/internal/rules"
	"github.com/phyten/lintlight/internal/termcolor"
)

// loadSettings merges defaults, the config file, the environment and the
// command line, in that order.
func (a *app) loadSettings(c *cliArgs) (config.Settings, error) {
	base := config.Defaults(engineopts.Defaults())

	explicit := c.configPath
	if explicit == "" {
		explicit = a.getenv(config.ConfigEnv)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return base, err
	}
	path, source, err := config.Find(cwd, explicit, a.getenv("XDG_CONFIG_HOME"), a.getenv("HOME"))
	if err != nil {
		return base, fmt.Errorf("config: %w", err)
	}
	var layers []config.Config
	if path != "" {
		fileCfg, err := config.Load(path)
		if err != nil {
			return base, err
		}
		layers = append(layers, fileCfg)
	}
	envCfg, err := config.FromEnv(a.getenv)
	if err != nil {
		return base, err
	}
	layers = append(layers, envCfg, c.layer)

	s := config.Merge(base, layers...)
	s.Source = "defaults"
	if path != "" {
		s.Source = source + ":" + path
	}
	return config.Normalize(s)
}

// setup is shared by every command: settings, logger and rule table.
func (a *app) setup(c *cliArgs) (config.Settings, *slog.Logger, *rules.Table, error) {
	s, err := a.loadSettings(c)
	if err != nil {
		return s, nil, nil, err
	}
	logger := logging.New(s.Log.Format, s.Log.Level, a.stderr)
	logger.Debug("settings resolved", "settings", s)
	table, err := buildTable(s.Rules)
	if err != nil {
		return s, logger, nil, err
	}
	return s, logger, table, nil
}

// buildTable starts from the built-in catalogue, appends the rule pack and
// drops disabled rules. Disabling a rule that does not exist is an error.
func buildTable(s config.RulesSettings) (*rules.Table, error) {
	table := rules.Default()
	if s.File != "" {
		extra, err := rules.LoadFile(s.File)
		if err != nil {
			return nil, fmt.Errorf("rules: %w", err)
		}
		if table, err = table.With(extra...); err != nil {
			return nil, fmt.Errorf("rules: %w", err)
		}
	}
	if unknown := table.Unknown(s.Disable...); len(unknown) > 0 {
		return nil, fmt.Errorf("unknown rule(s) to disable: %s", strings.Join(unknown, ", "))
	}
	return table.Without(s.Disable...), nil
}

func (a *app) painter(ui config.UISettings) (termcolor.Painter, error) {
	stdout, _ := a.stdout.(*os.File)
	return termcolor.NewPainter(ui.Color, ui.Scheme, stdout, termcolor.ParseEnv(a.environ))
}
