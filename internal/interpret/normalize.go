// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package interpret turns raw OCR text from a medication label into a
// structured MedicationInfo record. Interpretation runs as a strict
// linear pipeline: known-medication match, heuristic line scoring,
// external drug-name validation, then a terminal fallback guess that
// always produces a populated result.
package interpret

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// minCandidateLen excludes fragments too short to be a medication name.
// Shorter lines stay in the sequence so adjacent-line indices line up
// with the original document.
const minCandidateLen = 3

// document is one normalized OCR text, immutable for the run.
type document struct {
	// raw is the full text after compatibility folding, original casing.
	raw string

	// lines holds trimmed, non-empty lines in document order.
	lines []string

	// lower is the lowercased full text for substring search.
	lower string
}

// segment normalizes raw OCR text into a document. Vision output can
// contain full-width digits and other compatibility forms, so the text
// is NFKC-folded before segmentation.
func segment(raw string) document {
	folded := norm.NFKC.String(raw)
	folded = strings.ReplaceAll(folded, "\r\n", "\n")
	folded = strings.ReplaceAll(folded, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(folded, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}

	return document{
		raw:   folded,
		lines: lines,
		lower: strings.ToLower(folded),
	}
}

// eligibleLines returns the lines long enough for candidate generation.
func eligibleLines(lines []string) []string {
	var out []string
	for _, line := range lines {
		if len(line) >= minCandidateLen {
			out = append(out, line)
		}
	}
	return out
}
