package normalize

import "errors"

var errUnbalanced = errors.New("top-level array is never closed")

// Truncate returns the prefix of text that ends with the bracket closing the
// first top-level '['. Anything after it is dropped.
//
// String detection here is a plain quote toggle with no backslash handling,
// which differs from StripComment on purpose.
func Truncate(text string) (string, error) {
	depth := 0
	inString := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return text[:i+1], nil
			}
		}
	}
	return "", &MalformedDocumentError{Stage: "truncate", Err: errUnbalanced}
}
