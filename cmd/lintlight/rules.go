package main

import (
	"strings"

	"github.com/phyten/lintlight/internal/output"
	"github.com/phyten/lintlight/internal/rules"
	"github.com/phyten/lintlight/internal/textutil"
)

type ruleListing struct {
	Name       string   `json:"name"`
	Pattern    string   `json:"pattern"`
	IgnoreCase bool     `json:"ignore_case,omitempty"`
	Summary    string   `json:"summary"`
	Detail     string   `json:"detail"`
	Languages  []string `json:"languages,omitempty"`
}

func (a *app) rulesCmd(args []string) error {
	c, err := parseArgs("rules", args, a.stderr)
	if err != nil {
		return err
	}
	if c.showHelp {
		return nil
	}
	s, _, table, err := a.setup(c)
	if err != nil {
		return err
	}
	list := listRules(table)
	if s.UI.Output == "json" {
		return output.WriteJSON(a.stdout, list)
	}
	return writeRuleTable(a, list)
}

func listRules(t *rules.Table) []ruleListing {
	out := make([]ruleListing, 0, t.Len())
	for _, r := range t.Rules() {
		d := r.Def()
		out = append(out, ruleListing{
			Name:       d.Name,
			Pattern:    d.Pattern,
			IgnoreCase: d.IgnoreCase,
			Summary:    d.Summary,
			Detail:     d.Detail,
			Languages:  d.Languages,
		})
	}
	return out
}

func writeRuleTable(a *app, list []ruleListing) error {
	nameW := len("NAME")
	for _, r := range list {
		if w := textutil.VisibleWidth(r.Name); w > nameW {
			nameW = w
		}
	}
	var b strings.Builder
	b.WriteString(textutil.PadRight("NAME", nameW) + "  LANGS  SUMMARY\n")
	for _, r := range list {
		langs := "*"
		if len(r.Languages) > 0 {
			langs = strings.Join(r.Languages, ",")
		}
		b.WriteString(textutil.PadRight(r.Name, nameW) + "  " + textutil.PadRight(langs, 5) + "  " +
			textutil.TruncateByWidth(textutil.OneLine(r.Summary), 100, "…") + "\n")
	}
	_, err := a.stdout.Write([]byte(b.String()))
	return err
}
