package main

import (
	"errors"
	"flag"
	"io"
	"strings"

	"github.com/phyten/lintlight/internal/config"
)

// listFlag accumulates repeated or comma separated values.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

// cliArgs is the parsed command line. layer holds only the settings that
// were given explicitly, so it can be merged over the file and environment.
type cliArgs struct {
	layer      config.Config
	configPath string
	paths      []string

	progress   bool
	noProgress bool

	host string
	port int
	open bool

	showHelp bool
}

func parseArgs(cmd string, args []string, out io.Writer) (*cliArgs, error) {
	fs := flag.NewFlagSet("lintlight "+cmd, flag.ContinueOnError)
	fs.SetOutput(out)

	c := &cliArgs{}
	var (
		outputFmt      string
		fields         string
		withText       bool
		sortKey        string
		color          string
		scheme         string
		disable        listFlag
		rulesFile      string
		jobs           int
		excludes       listFlag
		excludeTypical bool
		maxFileBytes   int
		debounceMS     int
		pollMS         int
		logLevel       string
		logFormat      string
	)

	fs.StringVar(&c.configPath, "config", "", "config file (default: search .lintlight.* and $LINTLIGHT_CONFIG)")
	fs.StringVar(&rulesFile, "rules", "", "extra rule pack (.yaml, .toml or .json)")
	fs.Var(&disable, "disable", "rule names to disable (repeatable, comma separated)")
	fs.StringVar(&logLevel, "log-level", "", "debug|info|warn|error")
	fs.StringVar(&logFormat, "log-format", "", "text|json")

	switch cmd {
	case "scan":
		fs.StringVar(&outputFmt, "output", "", "table|json|ndjson|csv|md|show")
		fs.StringVar(&outputFmt, "o", "", "alias of --output")
		fs.StringVar(&fields, "fields", "", "columns: location,file,line,col,end,rule,message,text,lang")
		fs.BoolVar(&withText, "with-text", false, "add the matched text column")
		fs.StringVar(&sortKey, "sort", "", "sort keys, e.g. rule,-line (file,line,col,rule,message,lang,location)")
		fs.IntVar(&jobs, "jobs", 0, "parallel workers")
		fs.IntVar(&jobs, "j", 0, "alias of --jobs")
		fs.Var(&excludes, "exclude", "paths or gitignore patterns to skip (repeatable)")
		fs.BoolVar(&excludeTypical, "exclude-typical", true, "skip vendor, build output and minified files")
		fs.IntVar(&maxFileBytes, "max-file-bytes", 0, "skip files larger than this (0 = unlimited)")
		fs.BoolVar(&c.progress, "progress", false, "force progress even when piped")
		fs.BoolVar(&c.noProgress, "no-progress", false, "disable progress/ETA")
	case "watch":
		fs.IntVar(&debounceMS, "debounce-ms", 0, "delay between the last change and the scan")
		fs.IntVar(&pollMS, "poll-ms", 0, "file polling interval")
	case "serve":
		fs.IntVar(&debounceMS, "debounce-ms", 0, "delay between the last change and the scan")
		fs.StringVar(&c.host, "host", "127.0.0.1", "listen host")
		fs.IntVar(&c.port, "p", 8080, "listen port")
		fs.IntVar(&c.port, "port", 8080, "alias of -p")
		fs.BoolVar(&c.open, "open", false, "open the viewer in a browser")
	case "rules":
		fs.StringVar(&outputFmt, "output", "", "table|json")
		fs.StringVar(&outputFmt, "o", "", "alias of --output")
	}
	if cmd == "scan" || cmd == "watch" {
		fs.StringVar(&color, "color", "", "auto|always|never")
		fs.StringVar(&scheme, "scheme", "", "auto|light|dark")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c.showHelp = true
			return c, nil
		}
		return nil, errUsage
	}

	l := &c.layer
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "output", "o":
			l.UI.Output = strPtr(outputFmt)
		case "fields":
			l.UI.Fields = strPtr(fields)
		case "with-text":
			l.UI.WithText = boolPtr(withText)
		case "sort":
			l.UI.Sort = strPtr(sortKey)
		case "color":
			l.UI.Color = strPtr(color)
		case "scheme":
			l.UI.Scheme = strPtr(scheme)
		case "disable":
			l.Rules.Disable = stringsPtr(disable)
		case "rules":
			l.Rules.File = strPtr(rulesFile)
		case "jobs", "j":
			l.Engine.Jobs = intPtr(jobs)
		case "exclude":
			l.Engine.Excludes = stringsPtr(excludes)
		case "exclude-typical":
			l.Engine.ExcludeTypical = boolPtr(excludeTypical)
		case "max-file-bytes":
			l.Engine.MaxFileBytes = intPtr(maxFileBytes)
		case "debounce-ms":
			l.Engine.DebounceMS = intPtr(debounceMS)
		case "poll-ms":
			l.Engine.PollMS = intPtr(pollMS)
		case "log-level":
			l.Log.Level = strPtr(logLevel)
		case "log-format":
			l.Log.Format = strPtr(logFormat)
		}
	})
	c.paths = fs.Args()
	if cmd == "scan" && len(c.paths) > 0 {
		l.Engine.Paths = stringsPtr(c.paths)
	}
	return c, nil
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }

func stringsPtr(v []string) *[]string {
	out := append([]string{}, v...)
	return &out
}
