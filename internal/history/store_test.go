// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/medivision/medscan/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.HistoryConfig{HistoryDir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(brand, raw string) *types.ScanRecord {
	return &types.ScanRecord{
		Medication: types.MedicationInfo{
			BrandName:        brand,
			GenericName:      "Paracetamol",
			ActiveIngredient: "Paracetamol",
			Indications:      "Pain reliever and fever reducer",
			Manufacturer:     "ABC Pharma Ltd",
			Tier:             types.TierKnown,
		},
		RawText: raw,
	}
}

func TestSaveAssignsIDAndTimestamp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("Paracetamol 500mg", "PARACETAMOL\n500mg Tablet")
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rec.ID == "" {
		t.Error("Save left ID empty")
	}
	if rec.CreatedAt.IsZero() {
		t.Error("Save left CreatedAt zero")
	}
}

func TestSaveRejectsDuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("Paracetamol 500mg", "text")
	rec.ID = "fixed-id"
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	dup := sampleRecord("Other 10mg", "other text")
	dup.ID = "fixed-id"
	if err := s.Save(ctx, dup); err == nil {
		t.Error("Save accepted a duplicate ID")
	}
}

func TestListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, brand := range []string{"First 10mg", "Second 20mg", "Third 30mg"} {
		rec := sampleRecord(brand, "label text")
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := s.Save(ctx, rec); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	records, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}
	if records[0].Medication.BrandName != "Third 30mg" {
		t.Errorf("first record = %q, want newest", records[0].Medication.BrandName)
	}
	if records[2].Medication.BrandName != "First 10mg" {
		t.Errorf("last record = %q, want oldest", records[2].Medication.BrandName)
	}

	// Round-trip of the timestamp.
	if !records[0].CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("CreatedAt = %v, want %v", records[0].CreatedAt, base.Add(2*time.Minute))
	}
}

func TestListLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, brand := range []string{"A 1mg", "B 2mg", "C 3mg"} {
		if err := s.Save(ctx, sampleRecord(brand, "text")); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	records, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("len(records) = %d, want 2", len(records))
	}
}

func TestSearchMatchesBrandAndRawText(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	para := sampleRecord("Paracetamol 500mg", "PARACETAMOL\n500mg Tablet\nBy ABC Pharma Ltd")
	if err := s.Save(ctx, para); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ibu := sampleRecord("Ibuprofen 200mg", "BRUFEN 200\nIbuprofen Tablets IP")
	ibu.Medication.GenericName = "Ibuprofen"
	if err := s.Save(ctx, ibu); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Brand-name hit.
	records, err := s.Search(ctx, "paracetamol", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 1 || records[0].Medication.BrandName != "Paracetamol 500mg" {
		t.Errorf("Search(paracetamol) = %d records, want the paracetamol scan", len(records))
	}

	// Raw-text-only hit.
	records, err = s.Search(ctx, "brufen", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 1 || records[0].Medication.BrandName != "Ibuprofen 200mg" {
		t.Errorf("Search(brufen) = %d records, want the ibuprofen scan", len(records))
	}

	// No hit.
	records, err = s.Search(ctx, "zyrtec", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Search(zyrtec) = %d records, want 0", len(records))
	}
}

func TestExportYAML(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(types.HistoryConfig{HistoryDir: dir})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	if err := s.Save(ctx, sampleRecord("Paracetamol 500mg", "label")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.ExportYAML(ctx); err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "export.yaml"))
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	var records []types.ScanRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		t.Fatalf("parsing export: %v", err)
	}
	if len(records) != 1 || records[0].Medication.BrandName != "Paracetamol 500mg" {
		t.Errorf("export = %+v, want one paracetamol record", records)
	}
}

func TestExportJSON(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(types.HistoryConfig{HistoryDir: dir})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	if err := s.Save(ctx, sampleRecord("Paracetamol 500mg", "label")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.ExportJSON(ctx); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "export.json"))
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	var records []types.ScanRecord
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("parsing export: %v", err)
	}
	if len(records) != 1 || records[0].Medication.Tier != types.TierKnown {
		t.Errorf("export = %+v, want one known-tier record", records)
	}
}

func TestReopenPersists(t *testing.T) {
	dir := t.TempDir()
	cfg := types.HistoryConfig{HistoryDir: dir}

	s, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.Save(context.Background(), sampleRecord("Paracetamol 500mg", "label")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	s.Close()

	s, err = NewStore(cfg)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	defer s.Close()

	records, err := s.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("len(records) = %d after reopen, want 1", len(records))
	}
}
