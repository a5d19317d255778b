// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package interpret

import (
	"regexp"
	"strings"

	"github.com/medivision/medscan/pkg/types"
)

// Label text patterns shared across the pipeline tiers.
var (
	// dosageRe matches an integer dosage token like "500mg" or "10 ml".
	dosageRe = regexp.MustCompile(`(?i)\b(\d+)\s*(mg|mcg|ml|g)\b`)

	// addressRe matches location boilerplate (registered office lines,
	// street addresses) that must never be taken for a medication name.
	addressRe = regexp.MustCompile(`(?i)\b(road|street|avenue|lane|district|state|pin|regd|off)\b`)

	// byManufacturerRe matches an explicit "marketed by <company>"
	// credit. The name class excludes newlines so a credit never
	// swallows the following label line; suffix alternatives are
	// ordered longest-first so "Pharmaceutical" is not cut to "Pharma".
	byManufacturerRe = regexp.MustCompile(`(?i)\b(?:(?:mfd|manufactured|marketed)\s*)?by[:\s]+([A-Za-z][A-Za-z ]*(?:Limited|Ltd|Inc|Pharmaceutical|Pharma))`)

	// pharmaNameRe matches a bare company name elsewhere on the label.
	pharmaNameRe = regexp.MustCompile(`(?i)([A-Za-z][A-Za-z ]*(?:Pharmaceutical|Pharma|Laboratories|Labs)(?:[A-Za-z ]*(?:Limited|Ltd|Inc))?)`)
)

// knownMedication is a static reference entry matched by keyword
// substring against the lowercased label text.
type knownMedication struct {
	name        string
	genericName string
	keywords    []string
}

// knownMedications lists common medications with brand names, generic
// names, and frequent label spellings. Table order is match order:
// the first keyword hit wins.
var knownMedications = []knownMedication{
	{name: "Azithromycin", genericName: "Azithromycin", keywords: []string{"azithromycin", "azithral", "zithromax"}},
	{name: "Amoxicillin", genericName: "Amoxicillin", keywords: []string{"amoxicillin", "amoxil"}},
	{name: "Doxycycline", genericName: "Doxycycline", keywords: []string{"doxycycline", "vibramycin"}},
	{name: "Paracetamol", genericName: "Paracetamol", keywords: []string{"paracetamol", "acetaminophen", "dolo", "calpol", "panadol"}},
	{name: "Ibuprofen", genericName: "Ibuprofen", keywords: []string{"ibuprofen", "brufen", "advil", "motrin"}},
	{name: "Cetirizine", genericName: "Cetirizine", keywords: []string{"cetirizine", "cetrizine", "zyrtec"}},
	{name: "Pantoprazole", genericName: "Pantoprazole", keywords: []string{"pantoprazole", "pantocid", "pantop"}},
	{name: "Metformin", genericName: "Metformin", keywords: []string{"metformin", "glucophage"}},
	{name: "Atorvastatin", genericName: "Atorvastatin", keywords: []string{"atorvastatin", "lipitor"}},
	{name: "Losartan", genericName: "Losartan", keywords: []string{"losartan", "cozaar"}},
}

// medicationUses maps canonical medication names to one-line use
// descriptions shown in the Indications field.
var medicationUses = map[string]string{
	"Azithromycin": "Antibiotic used for bacterial infections",
	"Amoxicillin":  "Antibiotic used for bacterial infections",
	"Doxycycline":  "Antibiotic used for bacterial infections and malaria prevention",
	"Paracetamol":  "Pain reliever and fever reducer",
	"Ibuprofen":    "Nonsteroidal anti-inflammatory drug (NSAID) for pain and inflammation",
	"Cetirizine":   "Antihistamine for allergy relief",
	"Pantoprazole": "Proton pump inhibitor for reducing stomach acid",
	"Metformin":    "Antidiabetic medication for type 2 diabetes",
	"Atorvastatin": "Statin medication for lowering cholesterol",
	"Losartan":     "Angiotensin II receptor blocker for high blood pressure",
}

// matchKnown checks the label text against the known-medication table.
// On a keyword hit it extracts dosage and manufacturer from the label
// and returns a fully populated record.
func matchKnown(doc document) (types.MedicationInfo, bool) {
	for _, med := range knownMedications {
		for _, keyword := range med.keywords {
			if !strings.Contains(doc.lower, keyword) {
				continue
			}

			name := med.name
			if dosage := dosageRe.FindString(doc.raw); dosage != "" {
				name += " " + dosage
			}

			indications := medicationUses[med.name]
			if indications == "" {
				indications = types.Unknown
			}

			return types.MedicationInfo{
				BrandName:        name,
				GenericName:      med.genericName,
				ActiveIngredient: med.genericName,
				Indications:      indications,
				Manufacturer:     extractManufacturer(doc.raw),
				Tier:             types.TierKnown,
			}, true
		}
	}
	return types.MedicationInfo{}, false
}

// extractManufacturer pulls a company name out of the label text. An
// explicit "by <company>" credit wins over a bare company-name match.
func extractManufacturer(text string) string {
	if m := byManufacturerRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := pharmaNameRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return types.Unknown
}
