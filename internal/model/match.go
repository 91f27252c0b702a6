package model

import "strconv"

// Span は 1 件の検出範囲を文字（rune）オフセットと行・桁で表します。
// Start/End は半開区間 [Start, End)、行・桁は 1 始まりです。
// UTF16Start/UTF16End は同じ範囲を UTF-16 コード単位で数えたもので、
// エディタ側の位置指定にはこちらを使います。
type Span struct {
	Start      int `json:"start"`
	End        int `json:"end"`
	UTF16Start int `json:"utf16_start"`
	UTF16End   int `json:"utf16_end"`
	StartLine  int `json:"start_line"`
	StartCol   int `json:"start_col"`
	EndLine    int `json:"end_line"`
	EndCol     int `json:"end_col"`
}

// Len は範囲の文字数を返します。
func (s Span) Len() int { return s.End - s.Start }

// Overlaps は 2 つの範囲が 1 文字以上重なるかを返します。
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Group はキャプチャグループ 1 件。パターン中で参加しなかったグループは OK=false。
type Group struct {
	Value string `json:"value"`
	OK    bool   `json:"ok"`
}

// Match は 1 回のパターン一致を表します。Span の行・桁はエンジンが埋めるまで 0 のままです。
type Match struct {
	Span   Span    `json:"span"`
	Text   string  `json:"text"`
	Groups []Group `json:"groups,omitempty"`
}

// Group returns capture group n (1-based). Groups the pattern does not have,
// or that did not take part in the match, come back empty.
func (m Match) Group(n int) string {
	if n < 1 || n > len(m.Groups) {
		return ""
	}
	return m.Groups[n-1].Value
}

// Finding はハイライト 1 件分の検出結果（ルール名・範囲・ホバーメッセージ）です。
type Finding struct {
	Rule    string `json:"rule"`
	Span    Span   `json:"span"`
	Message string `json:"message"`
	Text    string `json:"text"`
}

// RuleSummary は 1 回のスキャンでルールごとに 1 件だけ作られる通知の元データです。
type RuleSummary struct {
	Rule        string   `json:"rule"`
	Captures    []string `json:"captures"`
	Count       int      `json:"count"`
	FirstOffset int      `json:"first_offset"`
	FirstLine   int      `json:"first_line"`
	Message     string   `json:"message"`
}

// Notification formats the summary the way it is shown to the user.
func (s RuleSummary) Notification() string {
	return "Line " + strconv.Itoa(s.FirstLine) + ": " + s.Message
}
