package screening

import "strings"

// LocationClassifier maps a free-text location to an approved/not-approved
// verdict using three configured sets: exclusion phrases, approved phrases
// and approved country codes.
type LocationClassifier struct {
	cfg *Config
}

// NewLocationClassifier builds a classifier over the configured sets.
func NewLocationClassifier(cfg *Config) *LocationClassifier {
	return &LocationClassifier{cfg: cfg}
}

// IsApproved reports whether the location falls in an approved region.
//
// Exclusions are checked before any approval: several country names contain
// approved tokens as substrings ("Australia" contains "us", "Indiana"
// contains "india"), and only the exclusion-first ordering keeps them out.
// After that, an approved phrase may match anywhere in the text, while
// country codes must stand alone as whole tokens.
func (c *LocationClassifier) IsApproved(location string) bool {
	normalized := normalizeLocation(location)
	if normalized == "" {
		return false
	}

	for _, excluded := range c.cfg.ExclusionPhrases {
		if strings.Contains(normalized, strings.ToLower(excluded)) {
			return false
		}
	}

	for _, phrase := range c.cfg.ApprovedPhrases {
		if strings.Contains(normalized, strings.ToLower(phrase)) {
			return true
		}
	}

	tokens := strings.Fields(normalized)
	for _, code := range c.cfg.ApprovedCountryCodes {
		lowered := strings.ToLower(code)
		for _, token := range tokens {
			if token == lowered {
				return true
			}
		}
	}

	return false
}

// normalizeLocation lowercases the text, turns punctuation into spaces and
// collapses whitespace, so "San Francisco, CA, USA" tokenizes cleanly.
func normalizeLocation(location string) string {
	lowered := strings.ToLower(strings.TrimSpace(location))

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch r {
		case ',', '.', ';', ':', '(', ')', '/', '-':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
