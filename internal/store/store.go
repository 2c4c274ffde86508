// Package store is the record-store collaborator boundary: it loads
// applicant profiles and persists evaluation outcomes. The file-backed
// implementation stands in for whatever system of record supplies the
// profiles; the evaluation core never touches storage itself.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/talumis/shortlister/internal/enrich"
	"github.com/talumis/shortlister/internal/profile"
)

// Outcome is what gets persisted per applicant: the verdict, its audit
// explanation and the enrichment result or failure.
type Outcome struct {
	ApplicantID     string          `json:"applicant_id"`
	Name            string          `json:"name"`
	Qualifies       bool            `json:"qualifies"`
	ScoreReason     string          `json:"score_reason"`
	Enrichment      *enrich.Record  `json:"enrichment,omitempty"`
	EnrichmentError string          `json:"enrichment_error,omitempty"`
	Profile         profile.Profile `json:"-"`
}

// ShortlistedLead mirrors the "Shortlisted Leads" record shape: a copy of
// the source profile next to the qualification explanation.
type ShortlistedLead struct {
	ApplicantID string          `json:"applicant_id"`
	Profile     profile.Profile `json:"profile"`
	ScoreReason string          `json:"score_reason"`
}

// Results is the document written after a batch run.
type Results struct {
	Outcomes         []Outcome         `json:"outcomes"`
	ShortlistedLeads []ShortlistedLead `json:"shortlisted_leads"`
}

// FileStore reads applicants from a JSON file and writes results back to
// another.
type FileStore struct {
	path string
}

// NewFileStore returns a store over the given applicants file.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads and decodes the applicants file. Records are decoded leniently:
// unknown keys are ignored and numeric fields arriving as strings are
// coerced, since the upstream data is messy by design. Records without an id
// are rejected; everything else is the evaluator's problem to handle
// per-field.
func (s *FileStore) Load() ([]profile.Applicant, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading applicants file: %w", err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing applicants file %q: %w", s.path, err)
	}

	applicants := make([]profile.Applicant, 0, len(raw))
	for i, record := range raw {
		applicant, err := decodeApplicant(record)
		if err != nil {
			return nil, fmt.Errorf("applicant record %d: %w", i, err)
		}
		applicants = append(applicants, applicant)
	}

	return applicants, nil
}

// decodeApplicant maps a loosely-typed record onto the applicant struct.
func decodeApplicant(record map[string]any) (profile.Applicant, error) {
	var applicant profile.Applicant

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &applicant,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return applicant, fmt.Errorf("building decoder: %w", err)
	}

	if err := decoder.Decode(record); err != nil {
		return applicant, fmt.Errorf("decoding: %w", err)
	}

	if strings.TrimSpace(applicant.ID) == "" {
		return applicant, fmt.Errorf("missing applicant id")
	}

	return applicant, nil
}

// WriteResults persists the batch outcomes. Shortlisted leads carry a copy
// of the source profile alongside the score reason.
func WriteResults(path string, outcomes []Outcome) error {
	results := Results{
		Outcomes:         outcomes,
		ShortlistedLeads: make([]ShortlistedLead, 0),
	}

	for _, outcome := range outcomes {
		if !outcome.Qualifies {
			continue
		}
		results.ShortlistedLeads = append(results.ShortlistedLeads, ShortlistedLead{
			ApplicantID: outcome.ApplicantID,
			Profile:     outcome.Profile,
			ScoreReason: outcome.ScoreReason,
		})
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing results file: %w", err)
	}

	return nil
}
