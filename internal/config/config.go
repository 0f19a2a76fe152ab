package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/proofloop/proofloop/internal/generate"
	"github.com/proofloop/proofloop/internal/orchestrator"
)

// #region config-types

// Config is the full runtime configuration. Sources, highest priority
// first: environment variables (PROOFLOOP_*), the config file
// (proofloop.yaml), built-in defaults.
type Config struct {
	Database   string           `mapstructure:"database" yaml:"database"`
	Session    SessionConfig    `mapstructure:"session" yaml:"session"`
	Generation GenerationConfig `mapstructure:"generation" yaml:"generation"`
}

// SessionConfig bounds reasoning sessions.
type SessionConfig struct {
	MaxRetries          int           `mapstructure:"max_retries" yaml:"max_retries"`
	StepBudget          int           `mapstructure:"step_budget" yaml:"step_budget"`
	MinObservations     int           `mapstructure:"min_observations" yaml:"min_observations"`
	ConfidenceThreshold float64       `mapstructure:"confidence_threshold" yaml:"confidence_threshold"`
	ProposeTimeout      time.Duration `mapstructure:"propose_timeout" yaml:"propose_timeout"`
	Speculation         int           `mapstructure:"speculation" yaml:"speculation"`
}

// GenerationConfig configures the candidate generator. The API key is
// read from the environment only, never from the config file.
type GenerationConfig struct {
	Model             string  `mapstructure:"model" yaml:"model"`
	BaseURL           string  `mapstructure:"base_url" yaml:"base_url"`
	MaxTokens         int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature       float32 `mapstructure:"temperature" yaml:"temperature"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	Burst             int     `mapstructure:"burst" yaml:"burst"`
}

// #endregion config-types

// #region load

// Load reads configuration from the given file, the working directory,
// or $HOME/.proofloop, with PROOFLOOP_* environment overrides. A
// missing config file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("proofloop")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.proofloop")
	}

	v.SetEnvPrefix("PROOFLOOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database", "proofloop.db")

	session := orchestrator.DefaultConfig()
	v.SetDefault("session.max_retries", session.MaxRetries)
	v.SetDefault("session.step_budget", session.StepBudget)
	v.SetDefault("session.min_observations", session.MinObservations)
	v.SetDefault("session.confidence_threshold", session.ConfidenceThreshold)
	v.SetDefault("session.propose_timeout", session.ProposeTimeout.String())
	v.SetDefault("session.speculation", session.Speculation)

	gen := generate.DefaultConfig()
	v.SetDefault("generation.model", gen.Model)
	v.SetDefault("generation.base_url", gen.BaseURL)
	v.SetDefault("generation.max_tokens", gen.MaxTokens)
	v.SetDefault("generation.temperature", gen.Temperature)
	v.SetDefault("generation.requests_per_second", gen.RequestsPerSecond)
	v.SetDefault("generation.burst", gen.Burst)
}

// #endregion load

// #region converters

// OrchestratorConfig maps the session section onto the orchestrator.
func (c Config) OrchestratorConfig() orchestrator.Config {
	return orchestrator.Config{
		MaxRetries:          c.Session.MaxRetries,
		StepBudget:          c.Session.StepBudget,
		MinObservations:     c.Session.MinObservations,
		ConfidenceThreshold: c.Session.ConfidenceThreshold,
		ProposeTimeout:      c.Session.ProposeTimeout,
		Speculation:         c.Session.Speculation,
	}
}

// GeneratorConfig maps the generation section onto the generator.
func (c Config) GeneratorConfig(apiKey string) generate.Config {
	return generate.Config{
		APIKey:            apiKey,
		Model:             c.Generation.Model,
		BaseURL:           c.Generation.BaseURL,
		MaxTokens:         c.Generation.MaxTokens,
		Temperature:       c.Generation.Temperature,
		RequestsPerSecond: c.Generation.RequestsPerSecond,
		Burst:             c.Generation.Burst,
	}
}

// #endregion converters
