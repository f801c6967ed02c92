package filter

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var products = []string{"Amoxicillin 500mg", "Amlodipine 5mg", "Metformin"}

func TestApply(t *testing.T) {
	tests := []struct {
		name         string
		candidates   []string
		query        string
		wantSearched bool
		wantMatches  []string
	}{
		{"prefix keyword", products, "am", true, []string{"Amoxicillin 500mg", "Amlodipine 5mg"}},
		{"upper case keyword", products, "AMOX", true, []string{"Amoxicillin 500mg"}},
		{"inner substring", products, "form", true, []string{"Metformin"}},
		{"no match", products, "xyz", true, []string{}},
		{"empty query", products, "", false, nil},
		{"blank query", products, "   ", false, nil},
		{"query is trimmed", products, "  metf ", true, []string{"Metformin"}},
		{"survivors are trimmed", []string{"  Lisinopril 10mg "}, "lisin", true, []string{"Lisinopril 10mg"}},
		{"accented letters", []string{"Ébastine 10mg", "Capsule"}, "éBAS", true, []string{"Ébastine 10mg"}},
		{"no candidates", nil, "am", true, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(tt.candidates, tt.query)
			if got.Searched != tt.wantSearched {
				t.Errorf("Searched = %v, want %v", got.Searched, tt.wantSearched)
			}
			if diff := cmp.Diff(tt.wantMatches, got.Matches); diff != "" {
				t.Errorf("matches mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplySoundAndComplete(t *testing.T) {
	candidates := []string{"Atorvastatin 20mg", "Amoxicillin 250mg", "Ibuprofen", "ATENOLOL", "Paracetamol"}
	query := "at"

	got := Apply(candidates, query)

	// every survivor contains the query
	for _, m := range got.Matches {
		if !strings.Contains(strings.ToLower(m), query) {
			t.Errorf("%q does not contain %q", m, query)
		}
	}

	// every candidate containing the query survives, in input order
	var want []string
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c), query) {
			want = append(want, c)
		}
	}
	if diff := cmp.Diff(want, got.Matches); diff != "" {
		t.Errorf("matches mismatch (-want +got):\n%s", diff)
	}
}

func TestResultHelpers(t *testing.T) {
	if (Result{}).Empty() {
		t.Error("unsearched result must not report Empty")
	}
	if !(Result{Searched: true}).Empty() {
		t.Error("searched result without matches must report Empty")
	}

	padded := Apply([]string{"Metformin", " Lisinopril 10mg "}, "lisin")
	if stored, ok := padded.StoredName("Lisinopril 10mg"); !ok || stored != " Lisinopril 10mg " {
		t.Errorf("expected the untrimmed name, got %q (%v)", stored, ok)
	}
	if _, ok := padded.StoredName(" Lisinopril 10mg "); ok {
		t.Error("lookups go by the displayed name")
	}

	r := Apply(products, "am")
	if !r.Contains("Amlodipine 5mg") {
		t.Error("expected Amlodipine 5mg among matches")
	}
	if r.Contains("Metformin") {
		t.Error("Metformin must not be among matches")
	}
}
