package screening

import (
	"math"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/talumis/shortlister/internal/profile"
)

var testNow = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

func newTestCalculator(cfg *Config) *ExperienceCalculator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return NewExperienceCalculator(cfg, zap.NewNop()).WithClock(func() time.Time { return testNow })
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func TestComputeSumsValidPeriods(t *testing.T) {
	calc := newTestCalculator(nil)

	years, tier1 := calc.Compute([]profile.EmploymentPeriod{
		{Company: "Acme Corp", Start: "2019-06-01", End: "2024-06-01"},
	})

	if !almostEqual(years, 5.0) {
		t.Fatalf("expected about 5 years, got %f", years)
	}
	if tier1 != "" {
		t.Fatalf("expected no tier-1 match, got %q", tier1)
	}
}

func TestComputeExactFourYearBoundary(t *testing.T) {
	calc := newTestCalculator(nil)

	// 2020-01-01 to 2024-01-01 is 1461 days: exactly 4.0 years at 365.25
	// days per year.
	years, _ := calc.Compute([]profile.EmploymentPeriod{
		{Company: "Acme Corp", Start: "2020-01-01", End: "2024-01-01"},
	})

	if years != 4.0 {
		t.Fatalf("expected exactly 4.0 years, got %v", years)
	}
}

func TestComputeEmptyHistory(t *testing.T) {
	calc := newTestCalculator(nil)

	years, tier1 := calc.Compute(nil)
	if years != 0 || tier1 != "" {
		t.Fatalf("expected zero years and no match, got %f / %q", years, tier1)
	}
}

func TestComputeSkipsInvalidPeriods(t *testing.T) {
	calc := newTestCalculator(nil)

	tests := []struct {
		name    string
		periods []profile.EmploymentPeriod
	}{
		{
			name: "start in the future",
			periods: []profile.EmploymentPeriod{
				{Company: "Acme", Start: "2026-06-01", End: "2027-06-01"},
			},
		},
		{
			name: "end precedes start",
			periods: []profile.EmploymentPeriod{
				{Company: "Acme", Start: "2023-01-01", End: "2020-01-01"},
			},
		},
		{
			name: "span beyond the sanity cap",
			periods: []profile.EmploymentPeriod{
				{Company: "Acme", Start: "1950-01-01", End: "2024-01-01"},
			},
		},
		{
			name: "unparseable dates",
			periods: []profile.EmploymentPeriod{
				{Company: "Acme", Start: "once upon a time", End: "2024-01-01"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			years, _ := calc.Compute(tc.periods)
			if years != 0 {
				t.Fatalf("expected the period to be skipped, got %f years", years)
			}
		})
	}
}

func TestComputeKeepsValidPeriodsNextToInvalidOnes(t *testing.T) {
	calc := newTestCalculator(nil)

	years, _ := calc.Compute([]profile.EmploymentPeriod{
		{Company: "Acme", Start: "2026-06-01", End: "2027-06-01"},   // future start
		{Company: "Globex", Start: "2023-01-01", End: "2020-01-01"}, // inverted
		{Company: "Initech", Start: "2022-06-01", End: "2024-06-01"},
	})

	if !almostEqual(years, 2.0) {
		t.Fatalf("expected about 2 years from the single valid period, got %f", years)
	}
}

func TestComputePresentMarkers(t *testing.T) {
	calc := newTestCalculator(nil)

	for _, marker := range []string{"present", "Present", "CURRENT", "ongoing", "now", ""} {
		years, _ := calc.Compute([]profile.EmploymentPeriod{
			{Company: "Acme", Start: "2024-06-01", End: marker},
		})
		if !almostEqual(years, 1.0) {
			t.Fatalf("marker %q: expected about 1 year, got %f", marker, years)
		}
	}
}

func TestTier1SubstringMatch(t *testing.T) {
	calc := newTestCalculator(nil)

	// Substring matching is intentional: subsidiaries and suffixed legal
	// names still count.
	years, tier1 := calc.Compute([]profile.EmploymentPeriod{
		{Company: "Google Cloud LLC", Start: "2024-01-01", End: "present"},
	})

	if tier1 != "Google Cloud LLC" {
		t.Fatalf("expected tier-1 match on subsidiary name, got %q", tier1)
	}
	if years <= 0 {
		t.Fatalf("expected a positive span, got %f", years)
	}
}

func TestTier1FirstMatchInPeriodOrder(t *testing.T) {
	calc := newTestCalculator(nil)

	_, tier1 := calc.Compute([]profile.EmploymentPeriod{
		{Company: "Stripe", Start: "2018-01-01", End: "2020-01-01"},
		{Company: "Netflix", Start: "2020-01-01", End: "2022-01-01"},
	})

	if tier1 != "Stripe" {
		t.Fatalf("expected the first match in period order, got %q", tier1)
	}
}

func TestTier1MatchSurvivesSkippedPeriod(t *testing.T) {
	calc := newTestCalculator(nil)

	// The employer match does not depend on the dates being parseable.
	years, tier1 := calc.Compute([]profile.EmploymentPeriod{
		{Company: "Meta Platforms", Start: "unknown", End: "unknown"},
	})

	if years != 0 {
		t.Fatalf("expected the span to be skipped, got %f", years)
	}
	if tier1 != "Meta Platforms" {
		t.Fatalf("expected the employer match to survive, got %q", tier1)
	}
}

func TestComputeMonthAndYearLayouts(t *testing.T) {
	calc := newTestCalculator(nil)

	years, _ := calc.Compute([]profile.EmploymentPeriod{
		{Company: "Acme", Start: "2023-06", End: "2024-06"},
		{Company: "Globex", Start: "Jan 2022", End: "Jan 2023"},
	})

	if !almostEqual(years, 2.0) {
		t.Fatalf("expected about 2 years across layouts, got %f", years)
	}
}
