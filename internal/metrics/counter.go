package metrics

import (
	"bytes"
)

// Counter provides methods for counting bytes and lines in text
type Counter interface {
	// Count returns the number of bytes and lines in the given text
	Count(text []byte) (bytes, lines int)
}

// SimpleCounter counts bytes and newline-separated lines
type SimpleCounter struct{}

// Count returns bytes and lines for the given text
func (c *SimpleCounter) Count(text []byte) (int, int) {
	lines := bytes.Count(text, []byte{'\n'}) + 1
	if len(text) > 0 && text[len(text)-1] == '\n' {
		lines--
	}
	return len(text), lines
}
