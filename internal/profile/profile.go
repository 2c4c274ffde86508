// Package profile defines the applicant profile exchanged with the record
// store and the content fingerprint used for enrichment caching.
package profile

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// Applicant couples a profile with the identity assigned by the record store.
type Applicant struct {
	ID      string  `mapstructure:"id"`
	Profile Profile `mapstructure:",squash"`
}

// Profile is the compressed applicant payload with its three fixed sections.
type Profile struct {
	Personal   Personal           `json:"personal" mapstructure:"personal"`
	Experience []EmploymentPeriod `json:"experience" mapstructure:"experience"`
	Salary     Salary             `json:"salary" mapstructure:"salary"`
}

// Personal holds identity and contact details. Contact fields are opaque to
// the evaluation logic; only Location is interpreted.
type Personal struct {
	Name     string `json:"name" mapstructure:"name"`
	Location string `json:"location" mapstructure:"location"`
	Email    string `json:"email,omitempty" mapstructure:"email"`
	LinkedIn string `json:"linkedin,omitempty" mapstructure:"linkedin"`
}

// EmploymentPeriod is a single entry of the work history. Start and End are
// kept as raw strings: the upstream data is messy and parsing failures must
// be recovered per-entry, not rejected at decode time.
type EmploymentPeriod struct {
	Company      string `json:"company" mapstructure:"company"`
	Title        string `json:"title" mapstructure:"title"`
	Start        string `json:"start" mapstructure:"start"`
	End          string `json:"end" mapstructure:"end"`
	Technologies string `json:"technologies,omitempty" mapstructure:"technologies"`
}

// Salary holds the compensation preferences.
type Salary struct {
	PreferredRate float64 `json:"preferred_rate" mapstructure:"preferred_rate"`
	MinimumRate   float64 `json:"minimum_rate" mapstructure:"minimum_rate"`
	Currency      string  `json:"currency" mapstructure:"currency"`
	Availability  int     `json:"availability" mapstructure:"availability"`
}

// Fingerprint returns a stable content hash of the profile. Struct fields
// marshal in declaration order, so identical content always yields identical
// bytes and therefore an identical hash.
func Fingerprint(p *Profile) string {
	if p == nil {
		return ""
	}

	data, err := json.Marshal(p)
	if err != nil {
		// Profile contains only strings and numbers; Marshal cannot fail on it.
		return ""
	}

	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum[:])
}

// MarshalJSON flattens the applicant into the wire shape used by the record
// store: the three profile sections at top level next to the id.
func (a Applicant) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         string             `json:"id"`
		Personal   Personal           `json:"personal"`
		Experience []EmploymentPeriod `json:"experience"`
		Salary     Salary             `json:"salary"`
	}{
		ID:         a.ID,
		Personal:   a.Profile.Personal,
		Experience: a.Profile.Experience,
		Salary:     a.Profile.Salary,
	})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (a *Applicant) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID         string             `json:"id"`
		Personal   Personal           `json:"personal"`
		Experience []EmploymentPeriod `json:"experience"`
		Salary     Salary             `json:"salary"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	a.ID = wire.ID
	a.Profile = Profile{
		Personal:   wire.Personal,
		Experience: wire.Experience,
		Salary:     wire.Salary,
	}
	return nil
}
