// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package interpret

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/medivision/medscan/pkg/types"
)

// Validator confirms candidate names against an external drug database.
// Implementations report found=false for empty results; errors cover
// network and service failures only. The pipeline treats both the same
// way for the primary lookup: move on to the next candidate.
type Validator interface {
	// LookupDrug queries by candidate name and returns the first
	// confirmed concept, if any.
	LookupDrug(ctx context.Context, name string) (types.DrugConcept, bool, error)

	// LookupIngredients returns the active-ingredient names for a
	// confirmed concept identifier.
	LookupIngredients(ctx context.Context, rxcui string) ([]string, error)

	// LookupDrugClass returns the drug class for a confirmed name.
	LookupDrugClass(ctx context.Context, name string) (string, bool, error)
}

// Interpreter runs the label interpretation pipeline. It is stateless
// across runs: all reference tables are immutable package data, so one
// Interpreter may serve concurrent scans.
type Interpreter struct {
	validator Validator
	w         io.Writer
}

// New returns an Interpreter. A nil validator disables the external
// validation tier; w receives warnings for recovered lookup failures
// and may be nil.
func New(validator Validator, w io.Writer) *Interpreter {
	if w == nil {
		w = io.Discard
	}
	return &Interpreter{validator: validator, w: w}
}

// Interpret turns raw OCR text into a MedicationInfo. It always
// returns a fully populated record; sentinel values mark fields the
// pipeline could not determine. Tier failures are internal control
// flow, never errors.
func (it *Interpreter) Interpret(ctx context.Context, rawText string) types.MedicationInfo {
	doc := segment(rawText)
	if len(doc.lines) == 0 {
		return emptyResult()
	}

	if info, ok := matchKnown(doc); ok {
		return info
	}

	if it.validator != nil {
		if info, ok := it.validate(ctx, doc); ok {
			return info
		}
	}

	return guess(doc)
}

// emptyResult is the short-circuit for unusable OCR input.
func emptyResult() types.MedicationInfo {
	return types.MedicationInfo{
		BrandName:        types.UnknownMedication,
		GenericName:      types.Unknown,
		ActiveIngredient: types.Unknown,
		Indications:      types.Unknown,
		Manufacturer:     types.Unknown,
		Tier:             types.TierFallback,
	}
}

// validatorCandidates lists the names to probe, in priority order: the
// scorer's winner when it is confident, otherwise every eligible
// non-address line in document order.
func validatorCandidates(doc document) []string {
	if name, ok := bestCandidate(doc.lines); ok {
		return []string{name}
	}

	var out []string
	for _, line := range doc.lines {
		if len(line) >= minCandidateLen && !addressRe.MatchString(line) {
			out = append(out, line)
		}
	}
	return out
}

// validate probes candidates against the external validator
// sequentially, stopping at the first confirmed concept. Lookup
// failures for one candidate are logged and skipped, never fatal.
func (it *Interpreter) validate(ctx context.Context, doc document) (types.MedicationInfo, bool) {
	for _, candidate := range validatorCandidates(doc) {
		concept, found, err := it.validator.LookupDrug(ctx, candidate)
		if err != nil {
			fmt.Fprintf(it.w, "warning: drug lookup for %q failed: %v\n", candidate, err)
			continue
		}
		if !found {
			continue
		}
		return it.enrich(ctx, doc, concept), true
	}
	return types.MedicationInfo{}, false
}

// enrich builds the result for a confirmed concept. The ingredient and
// drug-class lookups are independently best-effort: a failure degrades
// only that field.
func (it *Interpreter) enrich(ctx context.Context, doc document, concept types.DrugConcept) types.MedicationInfo {
	info := types.MedicationInfo{
		BrandName:        concept.Name,
		GenericName:      concept.Name,
		ActiveIngredient: types.Unknown,
		Indications:      types.Unknown,
		Manufacturer:     extractManufacturer(doc.raw),
		Tier:             types.TierValidator,
	}
	if concept.Synonym != "" {
		info.GenericName = concept.Synonym
	}

	if ingredients, err := it.validator.LookupIngredients(ctx, concept.RxCUI); err != nil {
		fmt.Fprintf(it.w, "warning: ingredient lookup for %q failed: %v\n", concept.Name, err)
	} else if len(ingredients) > 0 {
		info.ActiveIngredient = strings.Join(ingredients, ", ")
	}

	if class, ok, err := it.validator.LookupDrugClass(ctx, concept.Name); err != nil {
		fmt.Fprintf(it.w, "warning: drug class lookup for %q failed: %v\n", concept.Name, err)
	} else if ok {
		info.Indications = class
	}

	return info
}
