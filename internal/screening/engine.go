// Package screening implements the qualification decision engine: three
// criteria evaluated as an ordered pipeline over an applicant profile,
// composed into a single verdict with per-criterion reasons.
package screening

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/talumis/shortlister/internal/profile"
)

// Criterion names used as map keys in the verdict and as prefixes in the
// rendered explanation.
const (
	CriterionExperience   = "experience"
	CriterionCompensation = "compensation"
	CriterionLocation     = "location"
)

// CriterionResult is the outcome of a single qualification criterion.
type CriterionResult struct {
	Passed bool
	Reason string
}

// Verdict is the immutable outcome of one evaluation. Qualifies is true only
// when every criterion passed.
type Verdict struct {
	Qualifies bool
	Criteria  map[string]CriterionResult
}

// Criterion is a single qualification step. Steps are pure functions of the
// profile; the engine runs all of them and never short-circuits, so the
// verdict always carries a reason for every criterion.
type Criterion interface {
	Name() string
	Evaluate(p *profile.Profile) CriterionResult
}

// Engine composes the qualification criteria into a verdict.
type Engine struct {
	criteria []Criterion
	logger   *zap.Logger
}

// New builds an engine with the standard criterion pipeline: experience,
// compensation, location.
func New(cfg *Config, logger *zap.Logger) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		logger: logger,
		criteria: []Criterion{
			&experienceCriterion{cfg: cfg, calc: NewExperienceCalculator(cfg, logger)},
			&compensationCriterion{checker: NewCompensationChecker(cfg)},
			&locationCriterion{classifier: NewLocationClassifier(cfg)},
		},
	}
}

// WithClock pins the experience criterion to a fixed clock. Used by tests to
// make "present" periods and future-start checks deterministic.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	for i, criterion := range e.criteria {
		if exp, ok := criterion.(*experienceCriterion); ok {
			e.criteria[i] = &experienceCriterion{cfg: exp.cfg, calc: exp.calc.WithClock(now)}
		}
	}
	return e
}

// Evaluate runs every criterion against the profile and returns a fresh
// verdict. The call is pure: identical input always yields an identical
// verdict, and nothing is retained across calls.
func (e *Engine) Evaluate(p *profile.Profile) *Verdict {
	verdict := &Verdict{
		Qualifies: true,
		Criteria:  make(map[string]CriterionResult, len(e.criteria)),
	}

	for _, criterion := range e.criteria {
		result := criterion.Evaluate(p)
		verdict.Criteria[criterion.Name()] = result
		if !result.Passed {
			verdict.Qualifies = false
		}

		e.logger.Debug("criterion evaluated",
			zap.String("name", criterion.Name()),
			zap.Bool("passed", result.Passed),
			zap.String("reason", result.Reason),
		)
	}

	return verdict
}

// Explanation renders the audit string persisted alongside a shortlisted
// lead: a header plus one line per criterion, each prefixed by its name.
func (v *Verdict) Explanation() string {
	header := "Candidate qualifies for shortlist:"
	if !v.Qualifies {
		header = "Candidate does NOT qualify:"
	}

	lines := []string{header}
	for _, name := range []string{CriterionExperience, CriterionCompensation, CriterionLocation} {
		if result, ok := v.Criteria[name]; ok {
			lines = append(lines, fmt.Sprintf("- %s: %s", titleCase(name), result.Reason))
		}
	}

	return strings.Join(lines, "\n")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type experienceCriterion struct {
	cfg  *Config
	calc *ExperienceCalculator
}

func (c *experienceCriterion) Name() string { return CriterionExperience }

func (c *experienceCriterion) Evaluate(p *profile.Profile) CriterionResult {
	years, tier1 := c.calc.Compute(p.Experience)

	switch {
	case years >= c.cfg.MinYears:
		return CriterionResult{
			Passed: true,
			Reason: fmt.Sprintf("%.1f years total experience (>=%.0f required)", years, c.cfg.MinYears),
		}
	case tier1 != "":
		return CriterionResult{
			Passed: true,
			Reason: fmt.Sprintf("Worked at %s (tier-1 company)", tier1),
		}
	default:
		return CriterionResult{
			Passed: false,
			Reason: fmt.Sprintf("Only %.1f years and no tier-1 company", years),
		}
	}
}

type compensationCriterion struct {
	checker *CompensationChecker
}

func (c *compensationCriterion) Name() string { return CriterionCompensation }

func (c *compensationCriterion) Evaluate(p *profile.Profile) CriterionResult {
	passed, reason := c.checker.Check(p.Salary.PreferredRate, p.Salary.Availability)
	return CriterionResult{Passed: passed, Reason: reason}
}

type locationCriterion struct {
	classifier *LocationClassifier
}

func (c *locationCriterion) Name() string { return CriterionLocation }

func (c *locationCriterion) Evaluate(p *profile.Profile) CriterionResult {
	location := strings.TrimSpace(p.Personal.Location)

	if c.classifier.IsApproved(location) {
		return CriterionResult{
			Passed: true,
			Reason: fmt.Sprintf("%s (approved region)", location),
		}
	}

	return CriterionResult{
		Passed: false,
		Reason: fmt.Sprintf("%s (not in approved regions)", location),
	}
}
