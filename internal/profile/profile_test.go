package profile

import (
	"encoding/json"
	"testing"
)

func sampleProfile() *Profile {
	return &Profile{
		Personal: Personal{
			Name:     "Riley Chen",
			Location: "Austin, TX, USA",
			Email:    "riley@example.com",
		},
		Experience: []EmploymentPeriod{
			{Company: "Initech", Title: "Engineer", Start: "2020-01-01", End: "present", Technologies: "Go, Postgres"},
		},
		Salary: Salary{
			PreferredRate: 95,
			MinimumRate:   80,
			Currency:      "USD",
			Availability:  30,
		},
	}
}

func TestFingerprintIsStable(t *testing.T) {
	t.Parallel()

	p := sampleProfile()

	first := Fingerprint(p)
	second := Fingerprint(p)

	if first == "" {
		t.Fatal("expected a non-empty fingerprint")
	}
	if first != second {
		t.Fatalf("fingerprint must be stable: %s != %s", first, second)
	}

	if other := Fingerprint(sampleProfile()); other != first {
		t.Fatalf("identical content must hash identically: %s != %s", other, first)
	}
}

func TestFingerprintChangesWithContent(t *testing.T) {
	t.Parallel()

	p := sampleProfile()
	original := Fingerprint(p)

	p.Salary.PreferredRate = 96
	if Fingerprint(p) == original {
		t.Fatal("a mutated field must change the fingerprint")
	}
}

func TestFingerprintNilProfile(t *testing.T) {
	t.Parallel()

	if Fingerprint(nil) != "" {
		t.Fatal("nil profile must produce an empty fingerprint")
	}
}

func TestApplicantJSONRoundTrip(t *testing.T) {
	t.Parallel()

	applicant := Applicant{ID: "rec123", Profile: *sampleProfile()}

	data, err := json.Marshal(applicant)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	// The wire shape keeps the three profile sections at top level.
	var wire map[string]json.RawMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("unmarshal into map: %v", err)
	}
	for _, key := range []string{"id", "personal", "experience", "salary"} {
		if _, ok := wire[key]; !ok {
			t.Fatalf("expected top-level key %q in %s", key, data)
		}
	}

	var decoded Applicant
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded.ID != applicant.ID {
		t.Fatalf("id mismatch: %q != %q", decoded.ID, applicant.ID)
	}
	if Fingerprint(&decoded.Profile) != Fingerprint(&applicant.Profile) {
		t.Fatal("profile must survive the round trip unchanged")
	}
}
