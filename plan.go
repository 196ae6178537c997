package ttbuild

import (
	"fmt"
	"io"
	"os"
	"unicode"
	"unicode/utf8"
)

// IsBinaryFile checks if content is likely binary by sampling the first 100 runes
// and checking if they are printable Unicode characters
func IsBinaryFile(content []byte) bool {
	// Sample the first 100 runes
	const sampleSize = 100
	var nonPrintable int
	var totalRunes int

	for i := 0; i < len(content) && totalRunes < sampleSize; {
		r, size := utf8.DecodeRune(content[i:])
		if r == utf8.RuneError {
			nonPrintable++
		} else if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			nonPrintable++
		}
		i += size
		totalRunes++
	}

	// If more than 10% of the sampled runes are non-printable, consider it binary
	threshold := 0.1
	if totalRunes == 0 {
		return false // Empty file, not binary
	}
	return float64(nonPrintable)/float64(totalRunes) > threshold
}

// WritePlan writes the dry-run listing of a build: the archive path, then one
// line per entry with its action. Normalize entries holding binary data are
// flagged since they are bound to fail.
func WritePlan(w io.Writer, archivePath string, entries []Entry) error {
	if _, err := fmt.Fprintf(w, "Archive: %s\n", archivePath); err != nil {
		return err
	}

	counts := map[Action]int{}
	for _, e := range entries {
		note := ""
		if e.Action == ActionNormalize {
			content, err := os.ReadFile(e.Path)
			if err != nil {
				return fmt.Errorf("failed to read file %s: %w", e.Path, err)
			}
			if IsBinaryFile(content) {
				note = " (binary?)"
			}
		}

		counts[e.Action]++
		if _, err := fmt.Fprintf(w, "%-9s  %s%s\n", e.Action, e.Name, note); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\n%d files: %d rewritten, %d copied, %d skipped\n",
		len(entries), counts[ActionNormalize]+counts[ActionManifest], counts[ActionCopy], counts[ActionSkip])
	return err
}
