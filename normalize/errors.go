package normalize

import "fmt"

// DecodeError reports an input line that is not valid UTF-8.
type DecodeError struct {
	Line   int // 1-based line number
	Offset int // byte offset of the first invalid byte within the line
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("line %d: invalid UTF-8 at byte %d", e.Line, e.Offset)
}

// MalformedDocumentError reports a document that cannot be reduced to a
// top-level array of objects.
type MalformedDocumentError struct {
	Stage string // "truncate" | "decode" | "shape"
	Err   error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed document (%s): %v", e.Stage, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}

// DeprecatedFieldError reports an object carrying a field that is no longer
// accepted.
type DeprecatedFieldError struct {
	ID    string
	Field string
}

func (e *DeprecatedFieldError) Error() string {
	return fmt.Sprintf("%s tag detected in plugin %s. This tag is deprecated and no longer considered secure. "+
		"Please replace it with \"require privileges\": true.", capitalize(e.Field), e.ID)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
