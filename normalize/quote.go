package normalize

import (
	"encoding/json"
	"strings"
	"unicode"
)

// QuoteBareValues wraps unquoted scalar values that follow an object key in
// double quotes, e.g. `"type":wall,` becomes `"type":"wall",`.
//
// A value qualifies when it does not start with '"', '[' or '{', runs up to
// a ',', '}' or ']' terminator on the same line, and contains at least one
// ASCII letter. Purely numeric tokens and tokens that already are JSON
// literals (true, false, null, numbers such as 1e5) are left alone, while a
// mixed token such as 1a is quoted.
func QuoteBareValues(line string) string {
	if !strings.Contains(line, ":") {
		return line
	}

	rs := []rune(line)
	var b strings.Builder
	b.Grow(len(line) + 8)

	copied := 0
	for i := 0; i < len(rs); {
		if rs[i] != '"' {
			i++
			continue
		}
		m, ok := matchBareValue(rs, i)
		if !ok {
			i++
			continue
		}
		b.WriteString(string(rs[copied:m.valueStart]))
		b.WriteByte('"')
		b.WriteString(string(rs[m.valueStart:m.valueEnd]))
		b.WriteByte('"')
		copied = m.valueEnd
		i = m.next
	}
	b.WriteString(string(rs[copied:]))
	return b.String()
}

type bareMatch struct {
	valueStart int // first rune of the bare token
	valueEnd   int // end of the token, trailing whitespace excluded
	next       int // position after the terminator
}

type quoteState int

const (
	stateKey quoteState = iota
	stateColon
	stateValueStart
	stateValueBody
)

// matchBareValue runs the key → colon → value-start → value-body →
// terminator machine from the quote at rs[start].
func matchBareValue(rs []rune, start int) (bareMatch, bool) {
	var m bareMatch
	state := stateKey

	for i := start + 1; i < len(rs); i++ {
		r := rs[i]
		switch state {
		case stateKey:
			if r == '"' {
				state = stateColon
			}
		case stateColon:
			switch {
			case r == ':':
				state = stateValueStart
			case unicode.IsSpace(r):
			default:
				return m, false
			}
		case stateValueStart:
			switch {
			case unicode.IsSpace(r):
			case r == '"' || r == '[' || r == '{' || isTerminator(r):
				return m, false
			default:
				m.valueStart = i
				state = stateValueBody
			}
		case stateValueBody:
			if r == '"' {
				return m, false
			}
			if !isTerminator(r) {
				continue
			}
			m.valueEnd = i
			for m.valueEnd > m.valueStart && unicode.IsSpace(rs[m.valueEnd-1]) {
				m.valueEnd--
			}
			m.next = i + 1
			return m, acceptToken(rs[m.valueStart:m.valueEnd])
		}
	}
	return m, false
}

func isTerminator(r rune) bool {
	return r == ',' || r == '}' || r == ']'
}

// acceptToken requires an ASCII letter with no whitespace between the last
// letter and the end of the token.
func acceptToken(tok []rune) bool {
	last := -1
	for i, r := range tok {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			last = i
		}
	}
	if last < 0 {
		return false
	}
	for _, r := range tok[last+1:] {
		if unicode.IsSpace(r) {
			return false
		}
	}
	return !isJSONLiteral(string(tok))
}

func isJSONLiteral(tok string) bool {
	switch tok {
	case "true", "false", "null":
		return true
	}
	if c := tok[0]; c != '-' && (c < '0' || c > '9') {
		return false
	}
	return json.Valid([]byte(tok))
}
