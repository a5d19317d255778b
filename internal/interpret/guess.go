// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package interpret

import (
	"regexp"
	"strings"

	"github.com/medivision/medscan/pkg/types"
)

// guessFormRe is the fallback tier's dosage-form pattern. Broader than
// the scorer's: liquid forms count here.
var guessFormRe = regexp.MustCompile(`(?i)\b(tablet|capsule|solution|suspension|syrup)\b`)

// guessMorphemes is the fallback tier's suffix subset.
var guessMorphemes = []string{
	"cin", "mycin", "cillin", "oxacin", "vastatin", "sartan", "pril", "olol", "dipine",
}

// knownManufacturers are widely recognized pharmaceutical companies
// matched as substrings when no explicit manufacturer credit appears.
var knownManufacturers = []string{
	"Sun Pharma", "Cipla", "Dr. Reddy's", "Lupin", "Zydus", "Aurobindo",
	"Glenmark", "Torrent", "Mankind", "Alkem", "Abbott", "Pfizer",
}

// categoryLabels maps system-of-medicine keywords to category labels.
var categoryLabels = []struct {
	keyword string
	label   string
}{
	{"ayur", "Ayurvedic Medicine"},
	{"herbal", "Herbal Medicine"},
	{"homeo", "Homeopathic Medicine"},
	{"unani", "Unani Medicine"},
	{"siddha", "Siddha Medicine"},
}

// guess is the terminal tier. It never fails: when no pass over the
// label yields a name it falls back to the unknown-medication sentinel,
// but every field is populated either way.
func guess(doc document) types.MedicationInfo {
	lines := eligibleLines(doc.lines)
	combined := combineDosageLines(lines)

	name := guessName(combined)

	return types.MedicationInfo{
		BrandName:        name,
		GenericName:      types.NotInDrugDatabase,
		ActiveIngredient: types.Unknown,
		Indications:      category(doc.lower),
		Manufacturer:     guessManufacturer(doc),
		Tier:             types.TierFallback,
	}
}

// combineDosageLines builds the combined view: for each dosage-bearing
// line whose previous line is a plausible bare name, a merged
// "<previous> <current>" entry is inserted ahead of the bare line.
func combineDosageLines(lines []string) []string {
	combined := make([]string, 0, len(lines))
	for i, line := range lines {
		if i > 0 && dosageRe.MatchString(line) {
			prev := lines[i-1]
			if !dosageRe.MatchString(prev) && !addressRe.MatchString(prev) {
				combined = append(combined, prev+" "+line)
			}
		}
		combined = append(combined, line)
	}
	return combined
}

// guessName searches the combined view in three ordered passes, first
// hit wins: dosage pattern, then dosage-form keyword, then drug-name
// morpheme. Address-like lines are excluded from every pass.
func guessName(combined []string) string {
	for _, line := range combined {
		if dosageRe.MatchString(line) && !addressRe.MatchString(line) {
			return line
		}
	}

	for _, line := range combined {
		if guessFormRe.MatchString(line) && !addressRe.MatchString(line) {
			return line
		}
	}

	for _, line := range combined {
		lower := strings.ToLower(line)
		if addressRe.MatchString(line) {
			continue
		}
		for _, morpheme := range guessMorphemes {
			if strings.Contains(lower, morpheme) {
				return line
			}
		}
	}

	return types.UnknownMedication
}

// guessManufacturer tries the extraction regexes first, then scans for
// well-known company names anywhere in the text.
func guessManufacturer(doc document) string {
	if m := extractManufacturer(doc.raw); m != types.Unknown {
		return m
	}
	for _, company := range knownManufacturers {
		if strings.Contains(doc.lower, strings.ToLower(company)) {
			return company
		}
	}
	return types.Unknown
}

// category classifies the label by system of medicine, defaulting to
// the generic pharmaceutical label.
func category(lower string) string {
	for _, c := range categoryLabels {
		if strings.Contains(lower, c.keyword) {
			return c.label
		}
	}
	return types.GenericPharmaLabel
}
