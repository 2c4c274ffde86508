package cmd

import (
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "shortlister"
)

// Config is the file-backed configuration. Every threshold and phrase set of
// the screening criteria is overridable here; unset values fall back to the
// built-in defaults.
type Config struct {
	Applicants string           `mapstructure:"applicants"`
	Output     string           `mapstructure:"output"`
	Screening  *ScreeningConfig `mapstructure:"screening"`
	AI         *AIConfig        `mapstructure:"ai"`
}

// ScreeningConfig overrides the decision-engine criteria.
type ScreeningConfig struct {
	MinYears             float64  `mapstructure:"min-years"`
	RateCeiling          float64  `mapstructure:"rate-ceiling"`
	MinHours             int      `mapstructure:"min-hours"`
	MaxSpanYears         float64  `mapstructure:"max-span-years"`
	Tier1Companies       []string `mapstructure:"tier1-companies"`
	ApprovedPhrases      []string `mapstructure:"approved-phrases"`
	ApprovedCountryCodes []string `mapstructure:"approved-country-codes"`
	ExclusionPhrases     []string `mapstructure:"exclusion-phrases"`
}

// AIConfig configures the enrichment phase.
type AIConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Provider  string        `mapstructure:"provider"`
	CacheFile string        `mapstructure:"cache-file"`
	Gemini    *GeminiConfig `mapstructure:"gemini"`
}

// GeminiConfig configures the Gemini provider.
type GeminiConfig struct {
	APIKeyFile  string `mapstructure:"api-key-file"`
	Model       string `mapstructure:"model"`
	MaxAttempts int    `mapstructure:"max-attempts"`
	BackoffBase string `mapstructure:"backoff-base"`
	MaxTokens   int32  `mapstructure:"max-tokens"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "shortlister evaluates contractor applicants against qualification criteria and enriches them with an LLM analysis",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is shortlister.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Secrets and credentials may live in a local .env file.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// A missing config file is fine (defaults and flags cover everything),
	// an unparseable one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		config = &Config{}
	}

	return config, nil
}
