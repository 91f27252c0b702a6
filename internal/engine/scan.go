package engine

import (
	"github.com/dlclark/regexp2"

	"github.com/phyten/lintlight/internal/model"
	"github.com/phyten/lintlight/internal/msgtmpl"
	"github.com/phyten/lintlight/internal/rules"
)

// Scan は text 全体に対して r のパターンを左から右へ重ならないように適用し、
// 一致の一覧と（1 件以上あれば）ルールの要約を返します。
//
// Span は文字（rune）単位の半開区間です。行・桁は Run が埋めます。
func Scan(text string, r *rules.Rule) ([]model.Match, *model.RuleSummary) {
	return ScanRunes([]rune(text), r)
}

// ScanRunes is Scan over text that has already been decoded.
func ScanRunes(text []rune, r *rules.Rule) ([]model.Match, *model.RuleSummary) {
	matches, _ := scanRunes(text, r)
	return matches, Summarize(r, matches)
}

// scanRunes returns the matches found before the engine gave up, plus the
// engine error if it did. regexp2 only fails on a match timeout.
func scanRunes(text []rune, r *rules.Rule) ([]model.Match, error) {
	re := r.Regexp()
	groups := r.GroupCount()
	var out []model.Match
	cursor := 0
	for cursor <= len(text) {
		m, err := re.FindRunesMatchStartingAt(text, cursor)
		if err != nil {
			return out, err
		}
		if m == nil {
			break
		}
		start, end := m.Index, m.Index+m.Length
		out = append(out, model.Match{
			Span:   model.Span{Start: start, End: end},
			Text:   string(text[start:end]),
			Groups: captureGroups(m, groups),
		})
		cursor = end
		if m.Length == 0 {
			// step past an empty match so the next search cannot return it again
			cursor++
		}
	}
	return out, nil
}

func captureGroups(m *regexp2.Match, n int) []model.Group {
	if n == 0 {
		return nil
	}
	out := make([]model.Group, n)
	for i := 1; i <= n; i++ {
		g := m.GroupByNumber(i)
		if g == nil || len(g.Captures) == 0 {
			continue
		}
		out[i-1] = model.Group{Value: g.String(), OK: true}
	}
	return out
}

// Summarize builds the rule's summary from its matches; nil when there are none.
// The {joined} slot lists the group-1 value of every match that captured one.
func Summarize(r *rules.Rule, matches []model.Match) *model.RuleSummary {
	if len(matches) == 0 {
		return nil
	}
	captures := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(m.Groups) > 0 && m.Groups[0].OK {
			captures = append(captures, m.Groups[0].Value)
		}
	}
	first := matches[0]
	slots := msgtmpl.JoinedSlots(first.Group(1), first.Group(2), captures)
	return &model.RuleSummary{
		Rule:        r.Name(),
		Captures:    captures,
		Count:       len(matches),
		FirstOffset: first.Span.Start,
		Message:     msgtmpl.Render(r.Summary(), slots),
	}
}

// Detail renders the hover message of one match.
func Detail(r *rules.Rule, m model.Match) string {
	g1 := m.Group(1)
	return msgtmpl.Render(r.Detail(), msgtmpl.Slots{Group1: g1, Group2: m.Group(2), Joined: g1})
}
