package screening

import "testing"

func TestIsApproved(t *testing.T) {
	t.Parallel()

	classifier := NewLocationClassifier(DefaultConfig())

	tests := []struct {
		location string
		approved bool
	}{
		{"San Francisco, CA, USA", true},
		{"New York, USA", true},
		{"Toronto, Canada", true},
		{"Berlin, Germany", true},
		{"London, UK", true},
		{"Edinburgh, Scotland", true},
		{"Bangalore, India", true},
		{"Mumbai", true},
		{"Austin, TX, US", true},

		// The canonical exclusion-first regression: "Australia" contains
		// "us" and must never be approved through it.
		{"Sydney, Australia", false},
		{"Melbourne, Australia", false},
		// "Austria" also contains "us".
		{"Vienna, Austria", false},
		// "Indiana" contains "india" as a substring.
		{"Indiana", false},
		{"Indianapolis, Indiana", false},

		{"Paris, France", false},
		{"Tokyo, Japan", false},
		{"", false},
		{"   ", false},
	}

	for _, tc := range tests {
		t.Run(tc.location, func(t *testing.T) {
			if got := classifier.IsApproved(tc.location); got != tc.approved {
				t.Fatalf("IsApproved(%q) = %v, want %v", tc.location, got, tc.approved)
			}
		})
	}
}

func TestCountryCodesMatchWholeTokensOnly(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.ApprovedPhrases = nil
	cfg.ExclusionPhrases = nil
	classifier := NewLocationClassifier(cfg)

	if classifier.IsApproved("Sydney, Australia") {
		t.Fatal("country code must not match inside an unrelated word")
	}

	if !classifier.IsApproved("Portland, US") {
		t.Fatal("standalone country code should match")
	}
}

func TestExclusionOverridesApproval(t *testing.T) {
	t.Parallel()

	classifier := NewLocationClassifier(DefaultConfig())

	// Exclusion takes precedence even when an approved token is present.
	if classifier.IsApproved("Indiana, US") {
		t.Fatal("exclusion phrase must override any approval match")
	}
}

func TestNormalizeLocation(t *testing.T) {
	t.Parallel()

	got := normalizeLocation("  San Francisco,  CA, USA ")
	if got != "san francisco ca usa" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}
