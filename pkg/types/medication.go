// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the medscan pipeline.
package types

import "time"

// Sentinel values used when a field could not be determined. Callers
// always receive populated fields; these stand in for missing data.
const (
	Unknown            = "Unknown"
	UnknownMedication  = "Unknown Medication"
	NotInDrugDatabase  = "Not found in medication database"
	GenericPharmaLabel = "Pharmaceutical Medicine"
)

// Tier identifies which interpretation tier produced a result.
type Tier string

const (
	TierKnown     Tier = "known"
	TierValidator Tier = "validator"
	TierFallback  Tier = "fallback"
)

// MedicationInfo is the structured record produced by interpreting one
// medication label. Every field is populated; sentinel values signal
// degraded confidence rather than absence.
type MedicationInfo struct {
	// BrandName is the identified medication name, with dosage appended
	// when one was found (e.g. "Paracetamol 500mg").
	BrandName string `json:"brand_name" yaml:"brand_name"`

	// GenericName is the generic or canonical drug name.
	GenericName string `json:"generic_name" yaml:"generic_name"`

	// ActiveIngredient lists active ingredients, comma-joined.
	ActiveIngredient string `json:"active_ingredient" yaml:"active_ingredient"`

	// Indications is a free-text use description or drug category.
	Indications string `json:"indications" yaml:"indications"`

	// Manufacturer is the company name extracted from the label.
	Manufacturer string `json:"manufacturer" yaml:"manufacturer"`

	// Tier records which interpretation tier confirmed the result.
	Tier Tier `json:"tier" yaml:"tier"`
}

// DrugConcept is a confirmed match from the external drug-name validator.
type DrugConcept struct {
	// RxCUI is the concept identifier used for follow-up lookups.
	RxCUI string `json:"rxcui" yaml:"rxcui"`

	// Name is the canonical drug name.
	Name string `json:"name" yaml:"name"`

	// Synonym is an alternate name, often the generic form.
	Synonym string `json:"synonym" yaml:"synonym"`
}

// ScanRecord is one persisted label scan: the interpretation result plus
// its provenance.
type ScanRecord struct {
	// ID is a generated UUID, stable for the life of the record.
	ID string `json:"id" yaml:"id"`

	// Medication is the interpretation result.
	Medication MedicationInfo `json:"medication" yaml:"medication"`

	// ImagePath is the local path of the scanned label image, if any.
	ImagePath string `json:"image_path,omitempty" yaml:"image_path,omitempty"`

	// RawText is the OCR text the interpretation ran on.
	RawText string `json:"raw_text" yaml:"raw_text"`

	// CreatedAt is when the scan was recorded.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
