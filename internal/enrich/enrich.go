// Package enrich wraps the external text-generation call that produces the
// LLM evaluation of an applicant: prompt construction, retry with
// exponential backoff, structured-response validation and change-based
// caching keyed by a profile fingerprint.
package enrich

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/talumis/shortlister/internal/logger"
	"github.com/talumis/shortlister/internal/profile"
)

//go:embed prompt.md
var promptTemplate string

// instructions is the fixed system prompt. The summary length and the score
// range are instructed here and enforced (range) or checked (length) when
// the reply is validated.
const instructions = `You are a recruiting analyst evaluating contractor applications.

Analyze the candidate's profile and provide:
1. A concise 75-word summary highlighting key strengths and fit
2. An overall quality score from 1-10 (higher is better)
3. Any data gaps or inconsistencies you notice, comma-separated, or "None"
4. Up to 3 follow-up questions to clarify gaps or gather more info

Focus on technical skills, experience relevance, and professional background.
Respond with a single JSON object with the keys "summary", "score", "issues"
and "follow_ups".`

// Record is the enrichment produced for one applicant profile.
type Record struct {
	Summary    string `json:"summary"`
	Score      int    `json:"score"`
	Issues     string `json:"issues"`
	FollowUps  string `json:"follow_ups"`
	SourceHash string `json:"source_hash,omitempty"`
}

// Class partitions enrichment failures by how the caller should react.
type Class string

const (
	// ClassTransient covers rate limiting and connectivity problems; the
	// client retries these before surfacing them.
	ClassTransient Class = "transient"
	// ClassPermanent covers authentication and malformed-request rejections;
	// surfaced immediately, never retried.
	ClassPermanent Class = "permanent"
	// ClassInvalidResponse marks a reply that does not match the expected
	// structure. Retrying the same request is unlikely to help, so these
	// surface immediately; a caller may retry explicitly via force.
	ClassInvalidResponse Class = "invalid_response"
)

// Error is the typed failure returned by Enrich. It reports the class of the
// final failure and how many attempts were made.
type Error struct {
	Class    Class
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("enrichment failed (%s after %d attempt(s)): %v", e.Class, e.Attempts, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Generator performs a single attempt against the text-generation service.
// Retry policy lives in the Enricher, not the transport.
type Generator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
}

// Config bounds the retry loop and the summary length check.
type Config struct {
	// MaxAttempts is the total number of calls per enrichment, first try
	// included.
	MaxAttempts int
	// BackoffBase is the wait before the second attempt; each further wait
	// doubles it.
	BackoffBase time.Duration
	// MaxSummaryWords triggers a warning when the model overruns the
	// instructed summary length. The summary is never truncated here.
	MaxSummaryWords int
	// MaxLogLength limits prompt and response previews in debug logs.
	MaxLogLength int
}

const (
	defaultMaxAttempts     = 3
	defaultBackoffBase     = time.Second
	defaultMaxSummaryWords = 75
	defaultMaxLogLength    = 200
)

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = defaultBackoffBase
	}
	if c.MaxSummaryWords <= 0 {
		c.MaxSummaryWords = defaultMaxSummaryWords
	}
	if c.MaxLogLength <= 0 {
		c.MaxLogLength = defaultMaxLogLength
	}
	return c
}

// Enricher orchestrates enrichment calls for applicant profiles.
type Enricher struct {
	generator Generator
	cache     Cache
	cfg       Config
	logger    *zap.Logger
}

// New builds an enricher. A nil cache falls back to an in-process one.
func New(generator Generator, cache Cache, cfg Config, log *zap.Logger) *Enricher {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Enricher{
		generator: generator,
		cache:     cache,
		cfg:       cfg.withDefaults(),
		logger:    log,
	}
}

// Enrich produces the enrichment record for the applicant. When force is
// false and the cached record was produced from an identical profile, the
// cached record is returned without calling the external service. A
// successful call replaces the cached entry.
func (e *Enricher) Enrich(ctx context.Context, applicantID string, p *profile.Profile, force bool) (*Record, error) {
	fingerprint := profile.Fingerprint(p)
	log := logger.WithApplicant(e.logger, applicantID)

	if !force {
		if cached, ok := e.cache.Get(applicantID); ok && cached.SourceHash == fingerprint {
			log.Debug("returning cached enrichment", zap.String("source_hash", fingerprint))
			return cached, nil
		}
	}

	prompt, err := buildPrompt(p)
	if err != nil {
		return nil, &Error{Class: ClassPermanent, Attempts: 0, Err: err}
	}

	log.Debug("enrichment request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, e.cfg.MaxLogLength)),
	)

	raw, callErr := e.callWithRetry(ctx, log, prompt)
	if callErr != nil {
		return nil, callErr
	}

	log.Debug("enrichment response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, e.cfg.MaxLogLength)),
	)

	record, err := parseRecord(raw)
	if err != nil {
		return nil, &Error{Class: ClassInvalidResponse, Attempts: 1, Err: err}
	}

	if words := len(strings.Fields(record.Summary)); words > e.cfg.MaxSummaryWords {
		// Instructed, not coerced: the overrun is reported, the text kept.
		log.Warn("summary exceeds the instructed length",
			zap.Int("words", words),
			zap.Int("limit", e.cfg.MaxSummaryWords),
		)
	}

	record.SourceHash = fingerprint
	e.cache.Set(applicantID, record)

	return record, nil
}

// callWithRetry is the explicit retry state machine: attempt counter, last
// error and a classification decision per failure. Transient failures wait
// base*2^(n-1) and try again; anything else surfaces at once.
func (e *Enricher) callWithRetry(ctx context.Context, log *zap.Logger, prompt string) (string, *Error) {
	var lastErr error

	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		raw, err := e.generator.GenerateContent(ctx, instructions, prompt)
		if err == nil {
			return raw, nil
		}

		lastErr = err
		class := Classify(err)

		if class != ClassTransient {
			return "", &Error{Class: class, Attempts: attempt, Err: err}
		}

		if attempt == e.cfg.MaxAttempts {
			break
		}

		wait := e.cfg.BackoffBase << (attempt - 1)
		log.Warn("transient enrichment failure, backing off",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", e.cfg.MaxAttempts),
			zap.Duration("wait", wait),
			zap.Error(err),
		)

		if err := waitFor(ctx, wait); err != nil {
			return "", &Error{Class: ClassPermanent, Attempts: attempt, Err: err}
		}
	}

	return "", &Error{Class: ClassTransient, Attempts: e.cfg.MaxAttempts, Err: lastErr}
}

// Classify maps an external-call error to its retry class. Rate limiting and
// server-side availability codes are transient, as are transport timeouts;
// auth and malformed-request rejections are permanent, and so is context
// cancellation.
func Classify(err error) Class {
	if err == nil {
		return ClassPermanent
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ClassPermanent
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return ClassTransient
		default:
			return ClassPermanent
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ClassTransient
	}

	return ClassPermanent
}

// buildPrompt renders the embedded template with the profile payload.
func buildPrompt(p *profile.Profile) (string, error) {
	payload, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal profile payload: %w", err)
	}

	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Evaluate this contractor application:\n\n{{PROFILE_JSON}}\n\nProvide your evaluation in the requested format."
	}

	return strings.ReplaceAll(template, "{{PROFILE_JSON}}", string(payload)), nil
}

// waitFor sleeps for d unless the context is cancelled first.
func waitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
