// Package normalize repairs the loosely formatted JSON dialect used by plugin
// definition files and rewrites legacy fields.
//
// The pipeline is line oriented. Each line is validated as UTF-8, stripped of
// its trailing comment, cleaned of stray characters and whitespace, and has
// bare values quoted. No lexical state crosses a line break. The joined text
// is then cut at the end of the first top-level array, decoded strictly,
// postprocessed and encoded as compact JSON.
package normalize

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
)

// Normalize reads a whole document from r and returns its normalized JSON.
// Any error aborts the document; there is no partial result.
func Normalize(r io.Reader, rep Reporter) (string, error) {
	if rep == nil {
		rep = Discard
	}

	text, err := Clean(r)
	if err != nil {
		return "", err
	}

	text, err = Truncate(text)
	if err != nil {
		return "", err
	}

	doc, err := Decode(text)
	if err != nil {
		return "", err
	}

	if err := Postprocess(doc, rep); err != nil {
		return "", err
	}

	return doc.Encode(), nil
}

// NormalizeBytes is Normalize over an in-memory document.
func NormalizeBytes(data []byte, rep Reporter) (string, error) {
	return Normalize(bytes.NewReader(data), rep)
}

// Clean runs the per-line stages over r and returns the concatenated text.
// The result is not guaranteed to be valid JSON.
func Clean(r io.Reader) (string, error) {
	br := bufio.NewReader(r)
	var out strings.Builder

	for lineNo := 1; ; lineNo++ {
		raw, err := br.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		if len(raw) > 0 {
			line, derr := decodeLine(raw, lineNo)
			if derr != nil {
				return "", derr
			}
			out.WriteString(QuoteBareValues(CleanLine(line)))
		}
		if err != nil {
			break
		}
	}
	return out.String(), nil
}
