package engine

import (
	"github.com/phyten/lintlight/internal/model"
	"github.com/phyten/lintlight/internal/progress"
)

// Result は 1 つのスナップショットに対するルール表全体の実行結果
type Result struct {
	URI       string              `json:"uri"`
	Language  string              `json:"language,omitempty"`
	Version   int                 `json:"version"`
	Findings  []model.Finding     `json:"findings"`
	Summaries []model.RuleSummary `json:"summaries"`
	Total     int                 `json:"total"`
	ElapsedMS int64               `json:"elapsed_ms"`
	Errors    []RuleError         `json:"errors,omitempty"`
}

// RuleError は 1 ルールの実行が途中で打ち切られた際の情報を表す
type RuleError struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Highlight はエディタへ渡す装飾 1 件（範囲とホバーメッセージ）
type Highlight struct {
	Rule  string     `json:"rule"`
	Span  model.Span `json:"span"`
	Hover string     `json:"hover"`
}

// Style is the fixed visual treatment of every highlight.
type Style struct {
	BorderWidth        string `json:"border_width"`
	BorderStyle        string `json:"border_style"`
	LightBorderColor   string `json:"light_border_color"`
	DarkBorderColor    string `json:"dark_border_color"`
	OverviewRulerColor string `json:"overview_ruler_color"`
	OverviewRulerLane  string `json:"overview_ruler_lane"`
}

// HighlightStyle is shared by every presenter.
var HighlightStyle = Style{
	BorderWidth:        "1px",
	BorderStyle:        "solid",
	LightBorderColor:   "darkblue",
	DarkBorderColor:    "lightblue",
	OverviewRulerColor: "blue",
	OverviewRulerLane:  "right",
}

// BorderColor picks the border colour for a light or dark presentation.
func (s Style) BorderColor(dark bool) string {
	if dark {
		return s.DarkBorderColor
	}
	return s.LightBorderColor
}

// Options は複数ファイルを一括走査するときの実行オプション
type Options struct {
	Paths          []string
	Excludes       []string
	ExcludeTypical bool
	MaxFileBytes   int
	Jobs           int
	// Observer receives per-file progress; nil disables tracking.
	Observer progress.Observer
}

// FileResult は 1 ファイル分の走査結果
type FileResult struct {
	File      string              `json:"file"`
	Language  string              `json:"language,omitempty"`
	Findings  []model.Finding     `json:"findings"`
	Summaries []model.RuleSummary `json:"summaries,omitempty"`
	Errors    []RuleError         `json:"-"`
}

// FileError は 1 ファイルの読み込み・走査に失敗した際の情報を表す
type FileError struct {
	File    string `json:"file"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// BatchResult は一括走査の出力
type BatchResult struct {
	Files      []FileResult `json:"files"`
	Total      int          `json:"total"`
	Scanned    int          `json:"scanned"`
	Skipped    int          `json:"skipped"`
	ElapsedMS  int64        `json:"elapsed_ms"`
	Errors     []FileError  `json:"errors,omitempty"`
	ErrorCount int          `json:"error_count"`
}
