package tokens

import "strings"

const varPrefix = "var(--"

// Segment is a piece of a value: either literal text or a token reference.
type Segment struct {
	Text string
	Ref  string
}

// IsReference reports whether the segment names a token.
func (s Segment) IsReference() bool {
	return s.Ref != ""
}

// ValidName reports whether name can be defined and referenced as a token.
func ValidName(name string) bool {
	if name == "" || strings.HasPrefix(name, "--") {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}

// ParseValue splits text into literal and reference segments.
//
// References are written as <name> or var(--name). A var() fallback is
// accepted syntactically and discarded: undefined tokens are errors, never
// silently replaced. Angle brackets or var() calls that do not enclose a
// valid token name are kept as literal text.
func ParseValue(text string) []Segment {
	var (
		segments []Segment
		literal  strings.Builder
	)

	flush := func() {
		if literal.Len() > 0 {
			segments = append(segments, Segment{Text: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(text); {
		if ref, end, ok := scanAngle(text, i); ok {
			flush()
			segments = append(segments, Segment{Text: text[i:end], Ref: ref})
			i = end
			continue
		}
		if ref, end, ok := scanVar(text, i); ok {
			flush()
			segments = append(segments, Segment{Text: text[i:end], Ref: ref})
			i = end
			continue
		}
		literal.WriteByte(text[i])
		i++
	}
	flush()

	return segments
}

// References returns the token names referenced by text, in order of
// appearance, with duplicates kept.
func References(text string) []string {
	var refs []string
	for _, seg := range ParseValue(text) {
		if seg.IsReference() {
			refs = append(refs, seg.Ref)
		}
	}
	return refs
}

// HasReferences reports whether text contains at least one token reference.
func HasReferences(text string) bool {
	for _, seg := range ParseValue(text) {
		if seg.IsReference() {
			return true
		}
	}
	return false
}

// ReplaceReferences rewrites every reference in text with the result of fn.
func ReplaceReferences(text string, fn func(name string) string) string {
	var out strings.Builder
	for _, seg := range ParseValue(text) {
		if seg.IsReference() {
			out.WriteString(fn(seg.Ref))
			continue
		}
		out.WriteString(seg.Text)
	}
	return out.String()
}

func scanAngle(text string, start int) (string, int, bool) {
	if text[start] != '<' {
		return "", 0, false
	}
	end := strings.IndexByte(text[start+1:], '>')
	if end < 0 {
		return "", 0, false
	}
	name := text[start+1 : start+1+end]
	if !ValidName(name) {
		return "", 0, false
	}
	return name, start + end + 2, true
}

func scanVar(text string, start int) (string, int, bool) {
	if !strings.HasPrefix(text[start:], varPrefix) {
		return "", 0, false
	}

	depth := 1
	open := start + len("var(")
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				inner := text[open:i]
				if comma := strings.IndexByte(inner, ','); comma >= 0 {
					inner = inner[:comma]
				}
				name := strings.TrimPrefix(strings.TrimSpace(inner), "--")
				if !ValidName(name) {
					return "", 0, false
				}
				return name, i + 1, true
			}
		}
	}
	return "", 0, false
}
