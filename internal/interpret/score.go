// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package interpret

import (
	"regexp"
	"sort"
	"strings"
)

// scoreThreshold is the minimum winning score. A top candidate at or
// below this value is not confident enough to name the medication.
const scoreThreshold = 10

// Scoring patterns. Medication packaging is visually hierarchical:
// brand name prominent and early, dosage nearby, pharmacopoeia markers
// and regulatory boilerplate present. The scorer encodes those
// conventions as point weights.
var (
	// formRe matches dosage-form keywords.
	formRe = regexp.MustCompile(`(?i)\b(tablet|tablets|capsule|capsules)\b`)

	// routeRe matches administration-route keywords.
	routeRe = regexp.MustCompile(`(?i)\b(oral|injection|suspension|syrup)\b`)

	// standardRe matches pharmacopoeia standard markers. Case-sensitive:
	// lowercase "ip" inside an ordinary word is not a marker.
	standardRe = regexp.MustCompile(`\b(IP|BP|USP)\b`)

	// upperStartRe and allUpperRe implement the brand-name casing
	// heuristic: starts uppercase but is not shouting.
	upperStartRe = regexp.MustCompile(`^[A-Z]`)
	allUpperRe   = regexp.MustCompile(`^[A-Z\s]+$`)

	// cleanupRe strips form and standard tokens from a winning candidate.
	cleanupRe = regexp.MustCompile(`(?i)\b(tablets?|capsules?|ip|bp|usp)\b`)
)

// nameMorphemes are suffix fragments common in drug nomenclature. Only
// the first match scores; multiple morphemes in one line do not stack.
var nameMorphemes = []string{
	"cin", "mycin", "cillin", "oxacin", "dronate", "vastatin", "sartan",
	"pril", "olol", "dipine", "lamide", "prazole", "thiazide",
}

// lineCandidate scores one line, or a synthesized merge of a name line
// with the dosage line below it. Scores are relative within a single
// run only.
type lineCandidate struct {
	text        string
	score       int
	sourceIndex int
}

// scoreLines scores every candidate-eligible line and synthesizes
// merged name+dosage candidates for dosage lines whose preceding line
// looks like a bare name. Merged entries are extra candidates; the
// bare line is scored and kept as well.
func scoreLines(lines []string) []lineCandidate {
	var candidates []lineCandidate

	for i, line := range lines {
		if len(line) < minCandidateLen {
			continue
		}

		score := 0
		lower := strings.ToLower(line)

		for _, morpheme := range nameMorphemes {
			if strings.Contains(lower, morpheme) {
				score += 10
				break
			}
		}

		if formRe.MatchString(line) {
			score += 5
		}
		if routeRe.MatchString(line) {
			score += 5
		}

		if dosageRe.MatchString(line) {
			score += 8

			// A dosage-only line often sits directly below the name.
			if i > 0 {
				prev := lines[i-1]
				if len(prev) >= minCandidateLen &&
					!dosageRe.MatchString(prev) &&
					!addressRe.MatchString(prev) {
					candidates = append(candidates, lineCandidate{
						text:        prev + " " + line,
						score:       score + 15,
						sourceIndex: i - 1,
					})
				}
			}
		}

		if upperStartRe.MatchString(line) && !allUpperRe.MatchString(line) {
			score += 3
		}
		if standardRe.MatchString(line) {
			score += 5
		}
		if addressRe.MatchString(line) {
			score -= 10
		}

		// Labels conventionally print the brand name first.
		if bonus := 5 - i; bonus > 0 {
			score += bonus
		}

		candidates = append(candidates, lineCandidate{text: line, score: score, sourceIndex: i})
	}

	return candidates
}

// bestCandidate returns the cleaned text of the highest-scoring
// candidate, or false when no candidate clears the threshold. When the
// cleaned name lacks a dosage, the line after the winner may supply one.
func bestCandidate(lines []string) (string, bool) {
	candidates := scoreLines(lines)
	if len(candidates) == 0 {
		return "", false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	top := candidates[0]
	if top.score <= scoreThreshold {
		return "", false
	}

	name := cleanupRe.ReplaceAllString(top.text, "")
	name = strings.Join(strings.Fields(name), " ")

	if !dosageRe.MatchString(name) {
		if next := top.sourceIndex + 1; next < len(lines) {
			nextLine := lines[next]
			if dosage := dosageRe.FindString(nextLine); dosage != "" && !addressRe.MatchString(nextLine) {
				name += " " + dosage
			}
		}
	}

	return name, true
}
