package screening

// Config carries every threshold and phrase set used by the qualification
// criteria. It is injected into the engine so tests and deployments can
// override single values without touching package state.
type Config struct {
	// MinYears is the total-experience bar. The boundary is inclusive.
	MinYears float64
	// RateCeiling is the maximum acceptable preferred hourly rate, inclusive.
	RateCeiling float64
	// MinHours is the minimum weekly availability, inclusive.
	MinHours int
	// MaxSpanYears caps the length of a single employment period. Longer
	// spans are treated as data-entry errors and skipped. This is a
	// defensive sanity bound, not a business rule; see DESIGN.md.
	MaxSpanYears float64

	// Tier1Companies are matched case-insensitively as substrings of the
	// period's company field, so "Google" also matches "Google Cloud LLC".
	// The substring match is intentional.
	Tier1Companies []string

	// ApprovedPhrases are substring-matched against the normalized location.
	ApprovedPhrases []string
	// ApprovedCountryCodes are short codes matched only as whole tokens, so
	// "us" never matches inside an unrelated word.
	ApprovedCountryCodes []string
	// ExclusionPhrases name locations that lexically collide with approved
	// terms ("Australia" contains "us", "Indiana" contains "india"). A hit
	// here rejects the location before any approval check runs.
	ExclusionPhrases []string
}

// DefaultConfig returns the criteria sets from the hiring PRD: five approved
// regions (US, Canada, UK, Germany, India) and the tier-1 employer list.
func DefaultConfig() *Config {
	return &Config{
		MinYears:     4.0,
		RateCeiling:  100,
		MinHours:     20,
		MaxSpanYears: 50,

		Tier1Companies: []string{
			"google", "meta", "facebook", "openai", "microsoft", "amazon",
			"apple", "netflix", "tesla", "spacex", "uber", "airbnb", "stripe",
		},

		ApprovedPhrases: []string{
			// United States
			"united states", "america", "new york", "san francisco",
			"seattle", "austin", "boston", "chicago", "los angeles",
			// Canada
			"canada", "toronto", "vancouver", "montreal",
			// United Kingdom
			"united kingdom", "britain", "england", "scotland", "wales",
			"london",
			// Germany
			"germany", "deutschland", "berlin", "munich", "hamburg",
			// India
			"india", "bangalore", "bengaluru", "mumbai", "delhi",
			"hyderabad", "pune",
		},

		ApprovedCountryCodes: []string{
			"us", "usa", "uk", "gb", "ca", "de", "in",
		},

		ExclusionPhrases: []string{
			"australia", // contains "us"
			"austria",   // contains "us"
			"indiana",   // contains "india"
		},
	}
}
