package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "enkor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New(), "")

	require.NoError(t, err)
	assert.Equal(t, []string{"gtx"}, cfg.Translator.Services)
	assert.Equal(t, "lexrank", cfg.Summarizer.Service)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionTTL)
	assert.Equal(t, 3, cfg.Sentences)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "./data/enkor.db", cfg.Store.Path)
	assert.Equal(t, 500*time.Millisecond, cfg.Translator.RetryDelay)
	assert.True(t, cfg.Translator.Validate)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
translator:
  services: [mymemory, gtx]
  max_attempts: 3
  validate: false
  mymemory:
    email: me@example.com
summarizer:
  service: ollama
  ollama:
    model: qwen2.5:14b
server:
  session_ttl: 5m
timeout: 15s
sentences: 2
`)

	cfg, err := Load(viper.New(), path)

	require.NoError(t, err)
	assert.Equal(t, []string{"mymemory", "gtx"}, cfg.Translator.Services)
	assert.Equal(t, 3, cfg.Translator.MaxAttempts)
	assert.False(t, cfg.Translator.Validate)
	assert.Equal(t, "me@example.com", cfg.Translator.MyMemory.Email)
	assert.Equal(t, "ollama", cfg.Summarizer.Service)
	assert.Equal(t, "qwen2.5:14b", cfg.Summarizer.Ollama.Model)
	assert.Equal(t, 5*time.Minute, cfg.Server.SessionTTL)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, 2, cfg.Sentences)
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENKOR_TRANSLATOR_SERVICES", "openai,gtx")
	t.Setenv("ENKOR_TRANSLATOR_OPENAI_API_KEY", "sk-test")
	t.Setenv("ENKOR_SUMMARIZER_SERVICE", "anthropic")
	t.Setenv("ENKOR_TIMEOUT", "5s")

	cfg, err := Load(viper.New(), "")

	require.NoError(t, err)
	assert.Equal(t, []string{"openai", "gtx"}, cfg.Translator.Services)
	assert.Equal(t, "sk-test", cfg.Translator.OpenAI.APIKey)
	assert.Equal(t, "anthropic", cfg.Summarizer.Service)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ENKOR_LOGGING_LEVEL=debug\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("ENKOR_LOGGING_LEVEL") })

	cfg, err := Load(viper.New(), "")

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"unknown translator", Config{Translator: TranslatorConfig{Services: []string{"babelfish"}}}, "unknown translator"},
		{"unknown summarizer", Config{Summarizer: SummarizerConfig{Service: "magic"}}, "unknown summarizer"},
		{"fuzzy out of range", Config{Store: StoreConfig{FuzzyThreshold: 1.5}}, "fuzzy_threshold"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidate_FillsDefaults(t *testing.T) {
	cfg := Config{
		Translator: TranslatorConfig{Services: []string{" GTX , mymemory", ""}},
		Sentences:  -1,
	}

	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"gtx", "mymemory"}, cfg.Translator.Services)
	assert.Equal(t, 1, cfg.Translator.MaxAttempts)
	assert.Equal(t, 3, cfg.Sentences)
	assert.Equal(t, "lexrank", cfg.Summarizer.Service)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
}
