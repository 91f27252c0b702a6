package engine

import (
	"context"
	"strings"
	"time"

	"github.com/phyten/lintlight/internal/document"
	"github.com/phyten/lintlight/internal/model"
	"github.com/phyten/lintlight/internal/rules"
)

// Run はスナップショット全体に対してルール表の各ルールを順に適用し、
// 検出結果とルールごとの要約を返します。
//
// 検出結果はルール表の順、同一ルール内ではオフセット順に並びます。ctx が
// キャンセルされた場合はルールとルールの間で打ち切り、それまでの結果と
// ctx.Err() を返します。1 ルールの途中で止まることはありません。
func Run(ctx context.Context, snap *document.Snapshot, table *rules.Table) (*Result, error) {
	start := time.Now()
	res := &Result{
		URI:      snap.URI,
		Language: snap.Language,
		Version:  snap.Version,
		Findings: []model.Finding{},
	}
	text := snap.Runes()
	for _, r := range table.Rules() {
		if err := ctx.Err(); err != nil {
			res.Total = len(res.Findings)
			res.ElapsedMS = msSince(start)
			return res, err
		}
		if !r.AppliesTo(snap.Language) {
			continue
		}
		matches, err := scanRunes(text, r)
		if err != nil {
			res.Errors = append(res.Errors, newRuleError(r.Name(), err))
		}
		for _, m := range matches {
			m.Span = withPositions(snap, m.Span)
			res.Findings = append(res.Findings, model.Finding{
				Rule:    r.Name(),
				Span:    m.Span,
				Message: Detail(r, m),
				Text:    m.Text,
			})
		}
		if sum := Summarize(r, matches); sum != nil {
			sum.FirstLine = snap.PositionAt(sum.FirstOffset).Line
			res.Summaries = append(res.Summaries, *sum)
		}
	}
	res.Total = len(res.Findings)
	res.ElapsedMS = msSince(start)
	return res, nil
}

// Notifications returns one "Line N: message" string per rule that matched.
func (r *Result) Notifications() []string {
	if r == nil || len(r.Summaries) == 0 {
		return nil
	}
	out := make([]string, 0, len(r.Summaries))
	for _, s := range r.Summaries {
		out = append(out, s.Notification())
	}
	return out
}

// Highlights converts findings into the replace-all list handed to a presenter.
// A nil result yields an empty, non-nil list so that presenters clear.
func Highlights(res *Result) []Highlight {
	if res == nil {
		return []Highlight{}
	}
	out := make([]Highlight, 0, len(res.Findings))
	for _, f := range res.Findings {
		out = append(out, Highlight{Rule: f.Rule, Span: f.Span, Hover: f.Message})
	}
	return out
}

func withPositions(snap *document.Snapshot, s model.Span) model.Span {
	start := snap.PositionAt(s.Start)
	end := snap.PositionAt(s.End)
	s.StartLine, s.StartCol = start.Line, start.Col
	s.EndLine, s.EndCol = end.Line, end.Col
	s.UTF16Start, s.UTF16End = snap.UTF16Offset(s.Start), snap.UTF16Offset(s.End)
	return s
}

func newRuleError(rule string, err error) RuleError {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		msg = "unknown error"
	}
	return RuleError{Rule: rule, Message: msg}
}

func msSince(t time.Time) int64 { return time.Since(t).Milliseconds() }
