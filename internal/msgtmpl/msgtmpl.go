// Package msgtmpl renders rule message templates.
//
// A template is plain text with a fixed set of placeholders:
//
//	{group1}  first capture group of the match
//	{group2}  second capture group of the match
//	{joined}  group-1 values of every match, joined with ", "
//
// Rendering never fails: missing values render as the empty string and
// unrecognised braces are copied through unchanged.
package msgtmpl

import (
	"fmt"
	"strings"
)

// Separator joins captured values for the {joined} slot.
const Separator = ", "

const (
	SlotGroup1 = "group1"
	SlotGroup2 = "group2"
	SlotJoined = "joined"
)

var knownSlots = []string{SlotGroup1, SlotGroup2, SlotJoined}

// Slots carries the values substituted into a template.
type Slots struct {
	Group1 string
	Group2 string
	Joined string
}

// JoinedSlots builds Slots whose {joined} value is values joined by Separator.
func JoinedSlots(group1, group2 string, values []string) Slots {
	return Slots{Group1: group1, Group2: group2, Joined: strings.Join(values, Separator)}
}

func (s Slots) lookup(name string) (string, bool) {
	switch name {
	case SlotGroup1:
		return s.Group1, true
	case SlotGroup2:
		return s.Group2, true
	case SlotJoined:
		return s.Joined, true
	default:
		return "", false
	}
}

// Render substitutes the known placeholders in tmpl.
func Render(tmpl string, s Slots) string {
	if !strings.Contains(tmpl, "{") {
		return tmpl
	}
	var b strings.Builder
	b.Grow(len(tmpl) + len(s.Joined))
	rest := tmpl
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			b.WriteString(rest)
			break
		}
		end += open
		b.WriteString(rest[:open])
		if v, ok := s.lookup(rest[open+1 : end]); ok {
			b.WriteString(v)
		} else {
			b.WriteString(rest[open : end+1])
		}
		rest = rest[end+1:]
	}
	return b.String()
}

// Placeholders returns the brace-delimited names referenced by tmpl, in order
// of appearance, including unknown ones.
func Placeholders(tmpl string) []string {
	var out []string
	rest := tmpl
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			return out
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return out
		}
		end += open
		out = append(out, rest[open+1:end])
		rest = rest[end+1:]
	}
}

// Validate reports an error when tmpl references a slot outside the fixed list.
func Validate(tmpl string) error {
	for _, name := range Placeholders(tmpl) {
		if !isKnown(name) {
			return fmt.Errorf("unknown placeholder {%s} (want one of %s)", name, strings.Join(knownSlots, ", "))
		}
	}
	return nil
}

func isKnown(name string) bool {
	for _, k := range knownSlots {
		if k == name {
			return true
		}
	}
	return false
}
