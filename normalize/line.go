package normalize

import (
	"strings"
	"unicode/utf8"
)

// scanState is the lexical state of the comment scanner. It never outlives
// a single line.
type scanState struct {
	inString      bool
	escapePending bool
}

// StripComment truncates line at the first "//" that is outside a string
// literal.
//
// Inside a string a backslash skips the next character. Escape depth is not
// tracked, so a run of backslashes in front of a quote can leave the scanner
// on the wrong side of the string boundary.
func StripComment(line string) string {
	if !strings.Contains(line, "//") {
		return line
	}

	var st scanState
	for i := 0; i < len(line); i++ {
		c := line[i]
		if st.inString {
			switch {
			case st.escapePending:
				st.escapePending = false
			case c == '\\':
				st.escapePending = true
			case c == '"':
				st.inString = false
			}
			continue
		}

		switch {
		case c == '"':
			st.inString = true
		case c == '/' && i+1 < len(line) && line[i+1] == '/':
			return line[:i]
		}
	}
	return line
}

// substitutions are applied in order after comment stripping. The
// non-breaking space is deleted outright, inside strings too.
var substitutions = []struct{ old, new string }{
	{"\ufeff", ""},
	{";", ","},
	{"\t", " "},
	{"\r", ""},
	{"\n", " "},
	{"\u00a0", ""},
}

// CleanLine strips a trailing comment from line, applies the fixed
// character substitutions and drops every space outside string literals.
func CleanLine(line string) string {
	line = StripComment(line)
	for _, s := range substitutions {
		line = strings.ReplaceAll(line, s.old, s.new)
	}
	return dropSpaces(line)
}

// dropSpaces removes plain spaces that are not inside a string literal,
// tracking strings the same way StripComment does.
func dropSpaces(line string) string {
	if !strings.Contains(line, " ") {
		return line
	}

	var st scanState
	b := make([]byte, 0, len(line))
	for i := 0; i < len(line); i++ {
		c := line[i]
		if st.inString {
			switch {
			case st.escapePending:
				st.escapePending = false
			case c == '\\':
				st.escapePending = true
			case c == '"':
				st.inString = false
			}
		} else if c == '"' {
			st.inString = true
		} else if c == ' ' {
			continue
		}
		b = append(b, c)
	}
	return string(b)
}

// decodeLine validates raw as UTF-8 and returns it as a string.
func decodeLine(raw []byte, lineNo int) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}

	offset := 0
	for offset < len(raw) {
		r, size := utf8.DecodeRune(raw[offset:])
		if r == utf8.RuneError && size <= 1 {
			break
		}
		offset += size
	}
	return "", &DecodeError{Line: lineNo, Offset: offset}
}
