package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/talumis/shortlister/internal/enrich"
	"github.com/talumis/shortlister/internal/profile"
)

func writeApplicantsFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "applicants.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadDecodesMessyRecords(t *testing.T) {
	// Rate as string, availability as float, plus a key nobody knows:
	// upstream data looks like this and must load anyway.
	path := writeApplicantsFile(t, `[
	  {
	    "id": "rec1",
	    "personal": {"name": "Riley Chen", "location": "Austin, TX, USA"},
	    "experience": [{"company": "Initech", "title": "Engineer", "start": "2020-01-01", "end": "present"}],
	    "salary": {"preferred_rate": "95", "minimum_rate": 80, "currency": "USD", "availability": 30.0},
	    "unexpected_key": true
	  }
	]`)

	applicants, err := NewFileStore(path).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(applicants) != 1 {
		t.Fatalf("expected one applicant, got %d", len(applicants))
	}

	got := applicants[0]
	if got.ID != "rec1" {
		t.Fatalf("unexpected id: %q", got.ID)
	}
	if got.Profile.Salary.PreferredRate != 95 {
		t.Fatalf("string rate must coerce to a number, got %v", got.Profile.Salary.PreferredRate)
	}
	if got.Profile.Salary.Availability != 30 {
		t.Fatalf("float availability must coerce to an int, got %v", got.Profile.Salary.Availability)
	}
	if len(got.Profile.Experience) != 1 || got.Profile.Experience[0].End != "present" {
		t.Fatalf("unexpected experience: %+v", got.Profile.Experience)
	}
}

func TestLoadRejectsMissingID(t *testing.T) {
	path := writeApplicantsFile(t, `[{"personal": {"name": "Nobody"}}]`)

	if _, err := NewFileStore(path).Load(); err == nil {
		t.Fatal("a record without an id must be rejected")
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := writeApplicantsFile(t, `{"not": "an array"}`)

	if _, err := NewFileStore(path).Load(); err == nil {
		t.Fatal("expected an error for a non-array document")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := NewFileStore(filepath.Join(t.TempDir(), "nope.json")).Load(); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestWriteResultsBuildsShortlistedLeads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")

	outcomes := []Outcome{
		{
			ApplicantID: "rec1",
			Name:        "Jordan Smith",
			Qualifies:   true,
			ScoreReason: "Candidate qualifies for shortlist:",
			Profile:     profile.Profile{Personal: profile.Personal{Name: "Jordan Smith"}},
		},
		{
			ApplicantID: "rec2",
			Name:        "Casey Park",
			Qualifies:   false,
			ScoreReason: "Candidate does NOT qualify:",
		},
	}

	if err := WriteResults(path, outcomes); err != nil {
		t.Fatalf("write results: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading results: %v", err)
	}

	var results Results
	if err := json.Unmarshal(data, &results); err != nil {
		t.Fatalf("parsing results: %v", err)
	}

	if len(results.Outcomes) != 2 {
		t.Fatalf("expected both outcomes persisted, got %d", len(results.Outcomes))
	}
	if len(results.ShortlistedLeads) != 1 {
		t.Fatalf("only qualifying applicants become leads, got %d", len(results.ShortlistedLeads))
	}

	lead := results.ShortlistedLeads[0]
	if lead.ApplicantID != "rec1" {
		t.Fatalf("unexpected lead: %+v", lead)
	}
	if lead.Profile.Personal.Name != "Jordan Smith" {
		t.Fatal("the lead must carry a copy of the source profile")
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	cache, err := OpenFileCache(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := cache.Get("rec1"); ok {
		t.Fatal("fresh cache must miss")
	}

	record := &enrich.Record{Summary: "Solid engineer.", Score: 7, SourceHash: "abc"}
	cache.Set("rec1", record)

	// A second open must see the flushed state.
	reopened, err := OpenFileCache(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	got, ok := reopened.Get("rec1")
	if !ok {
		t.Fatal("expected the record to survive a reopen")
	}
	if got.Score != 7 || got.SourceHash != "abc" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestOpenFileCacheRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := OpenFileCache(path); err == nil {
		t.Fatal("a corrupt cache file must be an error, not silently dropped")
	}
}
