package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/talumis/shortlister/internal/enrich"
	"github.com/talumis/shortlister/internal/enrich/gemini"
	"github.com/talumis/shortlister/internal/logger"
	"github.com/talumis/shortlister/internal/profile"
	"github.com/talumis/shortlister/internal/screening"
	"github.com/talumis/shortlister/internal/secrets"
	"github.com/talumis/shortlister/internal/store"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"

	defaultApplicantsFile = "applicants.json"
	defaultOutputFile     = "results.json"
	geminiAPIKeyEnv       = "GEMINI_API_KEY"
)

var enrichPrompt = promptui.Select{
	Label: "Run LLM enrichment for the evaluated applicants?",
	Items: []string{PromptYes, PromptNo},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate applicants, shortlist the qualified ones and enrich them with an LLM analysis",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("applicants", "a", "", "applicants JSON file (default applicants.json)")
	runCmd.Flags().StringP("output", "o", "", "results JSON file (default results.json)")
	runCmd.Flags().String("id", "", "evaluate a single applicant by id")
	runCmd.Flags().BoolP("force", "f", false, "re-run enrichment even for unchanged profiles")
	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before the enrichment phase")
	runCmd.Flags().Bool("skip-enrichment", false, "run only the qualification evaluation")

	viper.BindPFlag("applicants", runCmd.Flags().Lookup("applicants"))
	viper.BindPFlag("output", runCmd.Flags().Lookup("output"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	log.Info("starting the shortlister", zap.String("version", version))

	applicantsFile := firstNonEmpty(viper.GetString("applicants"), config.Applicants, defaultApplicantsFile)
	outputFile := firstNonEmpty(viper.GetString("output"), config.Output, defaultOutputFile)

	applicants, err := store.NewFileStore(applicantsFile).Load()
	if err != nil {
		log.Fatal("loading applicants", zap.Error(err))
	}

	if id := strings.TrimSpace(cmd.Flag("id").Value.String()); id != "" {
		applicants = filterByID(applicants, id)
		if len(applicants) == 0 {
			log.Fatal("applicant with given id not found", zap.String("applicant_id", id))
		}
	}

	log.Info("loaded applicants", zap.Int("count", len(applicants)), zap.String("file", applicantsFile))

	engine := screening.New(buildScreeningConfig(config.Screening), log)

	outcomes := make([]store.Outcome, 0, len(applicants))
	qualified := 0

	for _, applicant := range applicants {
		verdict := engine.Evaluate(&applicant.Profile)
		if verdict.Qualifies {
			qualified++
		}

		log.Info("applicant evaluated",
			zap.String("applicant_id", applicant.ID),
			zap.String("name", applicant.Profile.Personal.Name),
			zap.Bool("qualifies", verdict.Qualifies),
		)
		for name, result := range verdict.Criteria {
			log.Debug("criterion result",
				zap.String("applicant_id", applicant.ID),
				zap.String("criterion", name),
				zap.Bool("passed", result.Passed),
				zap.String("reason", result.Reason),
			)
		}

		outcomes = append(outcomes, store.Outcome{
			ApplicantID: applicant.ID,
			Name:        applicant.Profile.Personal.Name,
			Qualifies:   verdict.Qualifies,
			ScoreReason: verdict.Explanation(),
			Profile:     applicant.Profile,
		})
	}

	log.Info("evaluation completed",
		zap.Int("total", len(applicants)),
		zap.Int("qualified", qualified),
		zap.Int("not_qualified", len(applicants)-qualified),
	)

	if shouldEnrich(cmd, config, log) {
		enriched, failed := runEnrichment(ctx, cmd, config, log, applicants, outcomes)
		log.Info("enrichment completed",
			zap.Int("enriched", enriched),
			zap.Int("failed", failed),
		)
	}

	if err := store.WriteResults(outputFile, outcomes); err != nil {
		log.Fatal("writing results", zap.Error(err))
	}

	log.Info("results written", zap.String("file", outputFile), zap.Int("shortlisted", qualified))
}

// shouldEnrich gates the paid enrichment phase behind configuration, the
// skip flag and an interactive confirmation.
func shouldEnrich(cmd *cobra.Command, config *Config, log *zap.Logger) bool {
	if cmd.Flag("skip-enrichment").Value.String() == "true" {
		log.Info("skipping enrichment", zap.String("reason", "skip-enrichment flag is set"))
		return false
	}

	if config.AI == nil || !config.AI.Enabled {
		log.Info("skipping enrichment", zap.String("reason", "ai is not enabled in the config"))
		return false
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		return true
	}

	_, action, err := enrichPrompt.Run()
	if err != nil {
		log.Fatal("exiting", zap.Error(err))
	}

	if action != PromptYes {
		log.Info("skipping enrichment", zap.String("reason", "got no from prompt"))
		return false
	}

	return true
}

// runEnrichment enriches every applicant sequentially. A failure for one
// applicant is recorded on its outcome and never aborts the rest of the
// batch.
func runEnrichment(ctx context.Context, cmd *cobra.Command, config *Config, log *zap.Logger, applicants []profile.Applicant, outcomes []store.Outcome) (enriched, failed int) {
	enricher, model, err := buildEnricher(ctx, config.AI, log)
	if err != nil {
		log.Fatal("building the enricher", zap.Error(err))
	}

	force := cmd.Flag("force").Value.String() == "true"
	aiLog := logger.WithAIFields(log, config.AI.Provider, model)

	for i, applicant := range applicants {
		record, err := enricher.Enrich(ctx, applicant.ID, &applicant.Profile, force)
		if err != nil {
			aiLog.Warn("enrichment failed",
				zap.String("applicant_id", applicant.ID),
				zap.Error(err),
			)
			outcomes[i].EnrichmentError = err.Error()
			failed++
			continue
		}

		aiLog.Info("applicant enriched",
			zap.String("applicant_id", applicant.ID),
			zap.Int("score", record.Score),
			zap.Int("summary_words", len(strings.Fields(record.Summary))),
		)
		outcomes[i].Enrichment = record
		enriched++
	}

	return enriched, failed
}

// buildEnricher wires the provider, the cache and the retry configuration.
func buildEnricher(ctx context.Context, cfg *AIConfig, log *zap.Logger) (*enrich.Enricher, string, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, "", fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	geminiCfg := cfg.Gemini
	if geminiCfg == nil {
		geminiCfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: geminiCfg.APIKeyFile,
		Env:  geminiAPIKeyEnv,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w (set ai.gemini.api-key-file or %s)", err, geminiAPIKeyEnv)
	}

	genLog := logger.WithAIFields(log, "gemini", geminiCfg.Model)
	generator, err := gemini.NewGenerator(ctx, apiKey, geminiCfg.Model, geminiCfg.MaxTokens, genLog)
	if err != nil {
		return nil, "", err
	}

	var cache enrich.Cache
	if path := strings.TrimSpace(cfg.CacheFile); path != "" {
		fileCache, err := store.OpenFileCache(path)
		if err != nil {
			return nil, "", err
		}
		cache = fileCache
	}

	enrichCfg := enrich.Config{MaxAttempts: geminiCfg.MaxAttempts}
	if base := strings.TrimSpace(geminiCfg.BackoffBase); base != "" {
		parsed, err := time.ParseDuration(base)
		if err != nil {
			return nil, "", fmt.Errorf("parsing backoff-base: %w", err)
		}
		enrichCfg.BackoffBase = parsed
	}

	return enrich.New(generator, cache, enrichCfg, genLog), generator.Model(), nil
}

// buildScreeningConfig overlays the configured overrides onto the defaults.
func buildScreeningConfig(overrides *ScreeningConfig) *screening.Config {
	cfg := screening.DefaultConfig()
	if overrides == nil {
		return cfg
	}

	if overrides.MinYears > 0 {
		cfg.MinYears = overrides.MinYears
	}
	if overrides.RateCeiling > 0 {
		cfg.RateCeiling = overrides.RateCeiling
	}
	if overrides.MinHours > 0 {
		cfg.MinHours = overrides.MinHours
	}
	if overrides.MaxSpanYears > 0 {
		cfg.MaxSpanYears = overrides.MaxSpanYears
	}
	if len(overrides.Tier1Companies) > 0 {
		cfg.Tier1Companies = overrides.Tier1Companies
	}
	if len(overrides.ApprovedPhrases) > 0 {
		cfg.ApprovedPhrases = overrides.ApprovedPhrases
	}
	if len(overrides.ApprovedCountryCodes) > 0 {
		cfg.ApprovedCountryCodes = overrides.ApprovedCountryCodes
	}
	if len(overrides.ExclusionPhrases) > 0 {
		cfg.ExclusionPhrases = overrides.ExclusionPhrases
	}

	return cfg
}

func filterByID(applicants []profile.Applicant, id string) []profile.Applicant {
	for _, applicant := range applicants {
		if applicant.ID == id {
			return []profile.Applicant{applicant}
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func fatalf(format string, args ...any) {
	log.Fatalf(format, args...)
}
