// Package document holds document text for scanning: immutable snapshots
// with offset-to-position mapping, and the mutable buffers host adapters
// update as the user edits.
package document

import (
	"sort"
	"unicode/utf16"
)

// Position is a 1-based line and column. Columns count characters, not bytes.
type Position struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

// Snapshot is the text of a document at one moment. Offsets handed out by a
// scan are only meaningful against the snapshot they were computed from.
type Snapshot struct {
	URI      string
	Language string
	Version  int

	text       string
	runes      []rune
	lineStarts []int
	// utf16 holds the UTF-16 offset of every character plus the end; nil
	// when the text has no characters outside the Basic Multilingual Plane.
	utf16 []int
}

func NewSnapshot(uri, language string, version int, text string) *Snapshot {
	runes := []rune(text)
	return &Snapshot{
		URI:        uri,
		Language:   language,
		Version:    version,
		text:       text,
		runes:      runes,
		lineStarts: computeLineStarts(runes),
		utf16:      computeUTF16(runes),
	}
}

func (s *Snapshot) Text() string { return s.text }

// Runes exposes the decoded text. Callers must not modify it.
func (s *Snapshot) Runes() []rune { return s.runes }

// Len is the length of the text in characters.
func (s *Snapshot) Len() int { return len(s.runes) }

// LineCount is the number of lines, counting a trailing partial line.
func (s *Snapshot) LineCount() int { return len(s.lineStarts) }

// PositionAt maps a character offset to a line and column. Offsets outside
// [0, Len] are clamped.
func (s *Snapshot) PositionAt(offset int) Position {
	offset = s.clamp(offset)
	idx := sort.Search(len(s.lineStarts), func(i int) bool { return s.lineStarts[i] > offset })
	if idx == 0 {
		return Position{Line: 1, Col: offset + 1}
	}
	return Position{Line: idx, Col: offset - s.lineStarts[idx-1] + 1}
}

// OffsetAt is the inverse of PositionAt. Lines and columns past the end are
// clamped to the end of the line or text.
func (s *Snapshot) OffsetAt(p Position) int {
	if p.Line < 1 {
		return 0
	}
	if p.Line > len(s.lineStarts) {
		return len(s.runes)
	}
	start := s.lineStarts[p.Line-1]
	end := len(s.runes)
	if p.Line < len(s.lineStarts) {
		end = s.lineStarts[p.Line] - 1
	}
	col := p.Col - 1
	if col < 0 {
		col = 0
	}
	if start+col > end {
		return end
	}
	return start + col
}

// Slice returns the text between two character offsets, clamped.
func (s *Snapshot) Slice(start, end int) string {
	start, end = s.clamp(start), s.clamp(end)
	if end <= start {
		return ""
	}
	return string(s.runes[start:end])
}

// Line returns line n (1-based) without its terminator.
func (s *Snapshot) Line(n int) string {
	if n < 1 || n > len(s.lineStarts) {
		return ""
	}
	start := s.lineStarts[n-1]
	end := len(s.runes)
	if n < len(s.lineStarts) {
		end = s.lineStarts[n] - 1
	}
	if end > start && s.runes[end-1] == '\r' {
		end--
	}
	return string(s.runes[start:end])
}

// UTF16Offset converts a character offset to UTF-16 code units, the unit
// editor hosts address text in. Offsets are clamped like PositionAt.
func (s *Snapshot) UTF16Offset(offset int) int {
	offset = s.clamp(offset)
	if s.utf16 == nil {
		return offset
	}
	return s.utf16[offset]
}

func computeUTF16(runes []rune) []int {
	astral := false
	for _, r := range runes {
		if utf16.RuneLen(r) == 2 {
			astral = true
			break
		}
	}
	if !astral {
		return nil
	}
	out := make([]int, len(runes)+1)
	for i, r := range runes {
		n := utf16.RuneLen(r)
		if n < 1 {
			n = 1 // invalid runes are sent as U+FFFD
		}
		out[i+1] = out[i] + n
	}
	return out
}

func (s *Snapshot) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(s.runes) {
		return len(s.runes)
	}
	return offset
}

// computeLineStarts records the offset of the first character of every line.
// A "\r\n" pair ends a line at the "\n".
func computeLineStarts(runes []rune) []int {
	starts := make([]int, 1, 16)
	for i, r := range runes {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}
