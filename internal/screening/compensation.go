package screening

import (
	"fmt"
	"strconv"
	"strings"
)

// CompensationChecker applies the rate-ceiling and minimum-availability
// rules. Both bounds are inclusive: a rate exactly at the ceiling and an
// availability exactly at the minimum both pass.
//
// Rates are compared numerically regardless of the profile's currency; no
// conversion is performed. A non-USD rate measured against the USD ceiling
// is a known limitation of the upstream rules, documented rather than fixed.
type CompensationChecker struct {
	cfg *Config
}

// NewCompensationChecker builds a checker over the configured bounds.
func NewCompensationChecker(cfg *Config) *CompensationChecker {
	return &CompensationChecker{cfg: cfg}
}

// Check evaluates the preferred rate and weekly availability. When the check
// fails the reason lists every failing sub-condition, since both can fail at
// once.
func (c *CompensationChecker) Check(preferredRate float64, availabilityHours int) (bool, string) {
	rateOK := preferredRate <= c.cfg.RateCeiling
	hoursOK := availabilityHours >= c.cfg.MinHours

	if rateOK && hoursOK {
		return true, fmt.Sprintf("$%s/hr (<=$%s), %d hrs/wk (>=%d)",
			formatRate(preferredRate), formatRate(c.cfg.RateCeiling),
			availabilityHours, c.cfg.MinHours)
	}

	var failures []string
	if !rateOK {
		failures = append(failures, fmt.Sprintf("rate $%s/hr > $%s",
			formatRate(preferredRate), formatRate(c.cfg.RateCeiling)))
	}
	if !hoursOK {
		failures = append(failures, fmt.Sprintf("availability %d hrs/wk < %d",
			availabilityHours, c.cfg.MinHours))
	}

	return false, strings.Join(failures, ", ")
}

// formatRate renders a rate without trailing zeros, so 100 prints as "100"
// and 100.01 as "100.01".
func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}
