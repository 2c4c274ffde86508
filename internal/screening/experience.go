package screening

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/talumis/shortlister/internal/profile"
)

const daysPerYear = 365.25 // accounts for leap years

// presentTokens mark an employment period that is still running.
var presentTokens = map[string]bool{
	"present": true,
	"current": true,
	"ongoing": true,
	"now":     true,
}

// dateLayouts are tried in order when parsing period boundaries. Upstream
// data mixes full dates, year-month values and plain years.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006/01/02",
	"01/2006",
	"January 2006",
	"Jan 2006",
	"2006",
}

// ExperienceCalculator turns a raw work history into a total-years figure
// and a tier-1 employer match.
type ExperienceCalculator struct {
	cfg    *Config
	logger *zap.Logger
	now    func() time.Time
}

// NewExperienceCalculator builds a calculator evaluating periods as of the
// wall clock. The clock is overridable for tests via WithClock.
func NewExperienceCalculator(cfg *Config, logger *zap.Logger) *ExperienceCalculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExperienceCalculator{cfg: cfg, logger: logger, now: time.Now}
}

// WithClock returns a copy of the calculator evaluating "present" and
// future-start checks against the provided instant.
func (c *ExperienceCalculator) WithClock(now func() time.Time) *ExperienceCalculator {
	clone := *c
	clone.now = now
	return &clone
}

// Compute sums the valid employment spans and reports the first tier-1
// employer found in period order. Malformed or implausible periods are
// skipped, never fatal: a future start, an end before its start, or a span
// beyond the configured cap all drop the single offending period.
func (c *ExperienceCalculator) Compute(periods []profile.EmploymentPeriod) (float64, string) {
	now := c.now()
	totalDays := 0.0
	tier1 := ""

	for _, period := range periods {
		if tier1 == "" {
			if match := c.tier1Match(period.Company); match != "" {
				tier1 = match
			}
		}

		start, ok := c.parseDate(period.Start)
		if !ok {
			c.skip(period, "unparseable start date")
			continue
		}

		end, ok := c.parseEnd(period.End, now)
		if !ok {
			c.skip(period, "unparseable end date")
			continue
		}

		if start.After(now) {
			c.skip(period, "start date is in the future")
			continue
		}
		if end.Before(start) {
			c.skip(period, "end date precedes start date")
			continue
		}

		days := end.Sub(start).Hours() / 24
		if c.cfg.MaxSpanYears > 0 && days/daysPerYear > c.cfg.MaxSpanYears {
			c.skip(period, "span exceeds the sanity cap")
			continue
		}

		totalDays += days
	}

	return totalDays / daysPerYear, tier1
}

// tier1Match reports the configured tier-1 entry contained in the company
// name, or empty. The match is a deliberate case-insensitive substring so
// subsidiary and suffixed names still count.
func (c *ExperienceCalculator) tier1Match(company string) string {
	normalized := strings.ToLower(strings.TrimSpace(company))
	if normalized == "" {
		return ""
	}

	for _, tier1 := range c.cfg.Tier1Companies {
		if strings.Contains(normalized, strings.ToLower(tier1)) {
			return strings.TrimSpace(company)
		}
	}
	return ""
}

func (c *ExperienceCalculator) parseEnd(raw string, now time.Time) (time.Time, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" || presentTokens[trimmed] {
		return now, true
	}
	return c.parseDate(raw)
}

func (c *ExperienceCalculator) parseDate(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func (c *ExperienceCalculator) skip(period profile.EmploymentPeriod, reason string) {
	c.logger.Debug("skipping employment period",
		zap.String("company", period.Company),
		zap.String("start", period.Start),
		zap.String("end", period.End),
		zap.String("reason", reason),
	)
}
