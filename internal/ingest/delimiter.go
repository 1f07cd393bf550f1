package ingest

import (
	"errors"
	"io"
	"strings"
)

// delimiterCandidates are tried in order when no delimiter is configured.
var delimiterCandidates = []rune{',', '\t', '|', ';', '\x1e', '\x1f'}

// previewRows limits how many rows are sampled per candidate.
const previewRows = 10

// guessDelimiter samples the first rows with each candidate and picks the one that
// splits rows into the most fields with the most consistent field count.
// It returns ',' and false when no candidate yields at least two fields per row.
func guessDelimiter(text string) (rune, bool) {
	var (
		best          rune
		bestDelta     = -1
		maxFieldCount float64
	)

	for _, candidate := range delimiterCandidates {
		counts := sampleFieldCounts(text, candidate)
		if len(counts) == 0 {
			continue
		}

		delta, total := 0, 0
		for i, n := range counts {
			total += n
			if i > 0 {
				delta += abs(n - counts[i-1])
			}
		}
		avg := float64(total) / float64(len(counts))

		if (bestDelta < 0 || delta <= bestDelta) && avg > maxFieldCount && avg > 1.99 {
			best = candidate
			bestDelta = delta
			maxFieldCount = avg
		}
	}

	if best == 0 {
		return ',', false
	}
	return best, true
}

// sampleFieldCounts returns the field counts of up to previewRows rows.
func sampleFieldCounts(text string, delimiter rune) []int {
	reader := newReader(strings.NewReader(text), delimiter)

	var counts []int
	for len(counts) < previewRows {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			break
		}
		counts = append(counts, len(fields))
	}
	return counts
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
