// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package interpret

import (
	"reflect"
	"testing"

	"github.com/medivision/medscan/pkg/types"
)

func TestCombineDosageLines(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{
			name:  "merge inserted ahead of dosage line",
			lines: []string{"XYZOLID", "200 mg"},
			want:  []string{"XYZOLID", "XYZOLID 200 mg", "200 mg"},
		},
		{
			name:  "no merge after address line",
			lines: []string{"Station Road", "200 mg"},
			want:  []string{"Station Road", "200 mg"},
		},
		{
			name:  "no merge between two dosage lines",
			lines: []string{"dose 10 mg", "refill 20 mg"},
			want:  []string{"dose 10 mg", "refill 20 mg"},
		},
		{
			name:  "plain lines pass through",
			lines: []string{"alpha", "beta"},
			want:  []string{"alpha", "beta"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := combineDosageLines(tt.lines); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("combineDosageLines() = %v, want %v", got, tt.want)
			}
		})
	}
}

// The three passes are strictly ordered: dosage beats dosage form,
// dosage form beats a name morpheme.
func TestGuessNamePassOrdering(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "dosage preferred over form keyword",
			lines: []string{"white capsule shell", "batch 50 mg"},
			want:  "batch 50 mg",
		},
		{
			name:  "form keyword preferred over morpheme",
			lines: []string{"ciprofloxacin blend", "small tablet"},
			want:  "small tablet",
		},
		{
			name:  "morpheme as last resort",
			lines: []string{"atenolol compound"},
			want:  "atenolol compound",
		},
		{
			name:  "address lines excluded from every pass",
			lines: []string{"123 Main Street", "District Court Road"},
			want:  types.UnknownMedication,
		},
		{
			name:  "nothing recognizable",
			lines: []string{"store in a cool dry place"},
			want:  types.UnknownMedication,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := guessName(tt.lines); got != tt.want {
				t.Errorf("guessName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGuess(t *testing.T) {
	info := guess(segment("XYZOLID\n200 mg\nRegd Off: 42 Industrial Road"))

	if want := "XYZOLID 200 mg"; info.BrandName != want {
		t.Errorf("BrandName = %q, want %q", info.BrandName, want)
	}
	if info.GenericName != types.NotInDrugDatabase {
		t.Errorf("GenericName = %q, want %q", info.GenericName, types.NotInDrugDatabase)
	}
	if info.ActiveIngredient != types.Unknown {
		t.Errorf("ActiveIngredient = %q, want %q", info.ActiveIngredient, types.Unknown)
	}
	if info.Indications != types.GenericPharmaLabel {
		t.Errorf("Indications = %q, want %q", info.Indications, types.GenericPharmaLabel)
	}
	if info.Tier != types.TierFallback {
		t.Errorf("Tier = %q, want %q", info.Tier, types.TierFallback)
	}
}

func TestGuessCategory(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"ayurvedic keyword", "Dabur Ashwagandha\nAyurvedic Proprietary Medicine\n100 mg", "Ayurvedic Medicine"},
		{"homeopathic keyword", "Arnica 30C\nHomeopathic remedy\n5 ml", "Homeopathic Medicine"},
		{"default label", "XYZOLID\n200 mg", types.GenericPharmaLabel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := guess(segment(tt.text))
			if info.Indications != tt.want {
				t.Errorf("Indications = %q, want %q", info.Indications, tt.want)
			}
		})
	}
}

func TestGuessManufacturerKnownCompany(t *testing.T) {
	info := guess(segment("XYZOLID\n200 mg\nCipla Limited, Mumbai"))
	if want := "Cipla"; info.Manufacturer != want {
		t.Errorf("Manufacturer = %q, want %q", info.Manufacturer, want)
	}
}
