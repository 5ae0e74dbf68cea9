// Package config loads enkor settings from enkor.yaml, ENKOR_* environment
// variables, a .env file and command-line flags, in viper's usual order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Backend names accepted in translator.services and summarizer.service.
var (
	TranslatorNames = []string{"gtx", "google", "mymemory", "ollama", "openai", "stub"}
	SummarizerNames = []string{"lexrank", "ollama", "openai", "gemini", "anthropic", "stub"}
)

type Config struct {
	Translator TranslatorConfig `mapstructure:"translator"`
	Summarizer SummarizerConfig `mapstructure:"summarizer"`
	Store      StoreConfig      `mapstructure:"store"`
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`

	// Timeout bounds each translate or summarize call made by a surface.
	Timeout   time.Duration `mapstructure:"timeout"`
	Sentences int           `mapstructure:"sentences"`
}

type TranslatorConfig struct {
	// Services are tried in order until one succeeds.
	Services    []string      `mapstructure:"services"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	RetryDelay  time.Duration `mapstructure:"retry_delay"`
	// Validate rejects output that is not in the target language.
	Validate    bool          `mapstructure:"validate"`

	Google   GoogleConfig   `mapstructure:"google"`
	GTX      EndpointConfig `mapstructure:"gtx"`
	MyMemory MyMemoryConfig `mapstructure:"mymemory"`
	Ollama   ModelConfig    `mapstructure:"ollama"`
	OpenAI   ModelConfig    `mapstructure:"openai"`
}

type SummarizerConfig struct {
	Service   string       `mapstructure:"service"`
	Ollama    ModelConfig  `mapstructure:"ollama"`
	OpenAI    ModelConfig  `mapstructure:"openai"`
	Gemini    GeminiConfig `mapstructure:"gemini"`
	Anthropic ModelConfig  `mapstructure:"anthropic"`
}

type GoogleConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	APIKey          string `mapstructure:"api_key"`
}

type EndpointConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type MyMemoryConfig struct {
	Email   string `mapstructure:"email"`
	BaseURL string `mapstructure:"base_url"`
}

type ModelConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type GeminiConfig struct {
	APIKeys []string `mapstructure:"api_keys"`
	BaseURL string   `mapstructure:"base_url"`
	Model   string   `mapstructure:"model"`
}

type StoreConfig struct {
	Path           string  `mapstructure:"path"`
	Disabled       bool    `mapstructure:"disabled"`
	FuzzyThreshold float64 `mapstructure:"fuzzy_threshold"`
}

type ServerConfig struct {
	Addr       string        `mapstructure:"addr"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// SetDefaults registers every key so that ENKOR_* variables are picked up
// by Unmarshal even when no config file mentions the key.
func SetDefaults(v *viper.Viper) {
	defaults := map[string]any{
		"translator.services":                 []string{"gtx"},
		"translator.max_attempts":             2,
		"translator.retry_delay":              "500ms",
		"translator.validate":                 true,
		"translator.google.credentials_file":  "",
		"translator.google.api_key":           "",
		"translator.gtx.base_url":             "",
		"translator.mymemory.email":           "",
		"translator.mymemory.base_url":        "",
		"translator.ollama.api_key":           "",
		"translator.ollama.base_url":          "",
		"translator.ollama.model":             "",
		"translator.openai.api_key":           "",
		"translator.openai.base_url":          "",
		"translator.openai.model":             "",
		"summarizer.service":                  "lexrank",
		"summarizer.ollama.api_key":           "",
		"summarizer.ollama.base_url":          "",
		"summarizer.ollama.model":             "",
		"summarizer.openai.api_key":           "",
		"summarizer.openai.base_url":          "",
		"summarizer.openai.model":             "",
		"summarizer.gemini.api_keys":          []string{},
		"summarizer.gemini.base_url":          "",
		"summarizer.gemini.model":             "",
		"summarizer.anthropic.api_key":        "",
		"summarizer.anthropic.base_url":       "",
		"summarizer.anthropic.model":          "",
		"store.path":                          "./data/enkor.db",
		"store.disabled":                      false,
		"store.fuzzy_threshold":               0.0,
		"server.addr":                         ":8080",
		"server.session_ttl":                  "30m",
		"logging.level":                       "info",
		"logging.file":                        "",
		"timeout":                             "60s",
		"sentences":                           3,
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}

// Load reads configuration into a validated Config. cfgFile may be empty,
// in which case enkor.yaml is looked up in the working directory and in
// $HOME/.config/enkor; a missing file is not an error.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	// Values already in the environment win over .env.
	_ = godotenv.Load()

	SetDefaults(v)
	v.SetEnvPrefix("ENKOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("enkor")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "enkor"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unknown backend names and fills in defaults for zero
// values.
func (c *Config) Validate() error {
	var services []string
	for _, s := range c.Translator.Services {
		for _, part := range strings.Split(s, ",") {
			if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
				services = append(services, part)
			}
		}
	}
	if len(services) == 0 {
		services = []string{"gtx"}
	}
	for _, s := range services {
		if !contains(TranslatorNames, s) {
			return fmt.Errorf("unknown translator %q (want one of %s)", s, strings.Join(TranslatorNames, ", "))
		}
	}
	c.Translator.Services = services

	c.Summarizer.Service = strings.ToLower(strings.TrimSpace(c.Summarizer.Service))
	if c.Summarizer.Service == "" {
		c.Summarizer.Service = "lexrank"
	}
	if !contains(SummarizerNames, c.Summarizer.Service) {
		return fmt.Errorf("unknown summarizer %q (want one of %s)", c.Summarizer.Service, strings.Join(SummarizerNames, ", "))
	}

	if c.Translator.MaxAttempts < 1 {
		c.Translator.MaxAttempts = 1
	}
	if c.Translator.RetryDelay < 0 {
		c.Translator.RetryDelay = 0
	}
	if c.Store.Path == "" {
		c.Store.Path = "./data/enkor.db"
	}
	if c.Store.FuzzyThreshold < 0 || c.Store.FuzzyThreshold > 1 {
		return fmt.Errorf("store.fuzzy_threshold must be between 0 and 1, got %v", c.Store.FuzzyThreshold)
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.SessionTTL <= 0 {
		c.Server.SessionTTL = 30 * time.Minute
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	if c.Sentences < 1 {
		c.Sentences = 3
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
