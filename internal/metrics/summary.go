package metrics

import (
	"fmt"
	"io"
	"strings"
)

// trimPrefix returns s unchanged if len(s) ≤ max; otherwise returns
// "…" + the last max-1 bytes, preserving the suffix.
func trimPrefix(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "…" + s[len(s)-max+1:]
}

// WriteSizeSummary prints source and output sizes of every entry that has
// both, followed by a totals row. width is the terminal width in columns.
func WriteSizeSummary(w io.Writer, m *OutputMetrics, width int) error {
	const (
		numW = 10 // right-aligned byte counts
		pctW = 7  // "-100.0%"
		gapW = 2
	)

	m.Wait()

	keyW := width - (numW*2 + pctW + gapW*3)
	if keyW < 8 {
		keyW = 8 // never collapse the key column too much
	}

	var rows []string
	var srcTotal, outTotal, count int
	for _, key := range m.Keys(TypeOutput) {
		src := m.Get(TypeSource, key)
		out := m.Get(TypeOutput, key)
		if src.Bytes == 0 {
			continue
		}
		srcTotal += src.Bytes
		outTotal += out.Bytes
		count++
		rows = append(rows, formatRow(trimPrefix(key, keyW), keyW, src.Bytes, out.Bytes, numW, pctW))
	}

	if count == 0 {
		_, err := fmt.Fprintln(w, "No rewritten files")
		return err
	}

	rows = append(rows, strings.Repeat("─", keyW+numW*2+pctW+gapW*3))
	rows = append(rows, formatRow("TOTAL", keyW, srcTotal, outTotal, numW, pctW))
	rows = append(rows, fmt.Sprintf("\nSummary: %d files rewritten, %d → %d bytes", count, srcTotal, outTotal))

	for _, row := range rows {
		if _, err := fmt.Fprintln(w, row); err != nil {
			return err
		}
	}
	return nil
}

func formatRow(key string, keyW, src, out, numW, pctW int) string {
	pct := 0.0
	if src > 0 {
		pct = float64(out-src) * 100 / float64(src)
	}
	return fmt.Sprintf("%-*s  %*d  %*d  %*.1f%%", keyW, key, numW, src, numW, out, pctW-1, pct)
}
