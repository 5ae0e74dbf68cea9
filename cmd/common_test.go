package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qnjualonzo/enkor/internal/config"
	"github.com/qnjualonzo/enkor/internal/logging"
)

func TestBuildServices(t *testing.T) {
	services, err := buildServices(config.TranslatorConfig{Services: []string{"mymemory", "stub", "gtx"}})

	require.NoError(t, err)
	var names []string
	for _, s := range services {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"mymemory", "stub", "gtx"}, names)
}

func TestBuildServices_Errors(t *testing.T) {
	_, err := buildServices(config.TranslatorConfig{})
	assert.ErrorContains(t, err, "no valid services")

	_, err = buildServices(config.TranslatorConfig{Services: []string{"babelfish"}})
	assert.ErrorContains(t, err, "unknown translation service")
}

func TestBuildSummarizerService(t *testing.T) {
	for _, name := range config.SummarizerNames {
		svc, err := buildSummarizerService(config.SummarizerConfig{Service: name})
		require.NoError(t, err, name)
		assert.NotEmpty(t, svc.Name(), name)
	}

	_, err := buildSummarizerService(config.SummarizerConfig{Service: "magic"})
	assert.Error(t, err)
}

func TestBuildCollaborators_StubRoundTrip(t *testing.T) {
	cfg := &config.Config{
		Translator: config.TranslatorConfig{Services: []string{"stub"}},
		Summarizer: config.SummarizerConfig{Service: "stub"},
		Store:      config.StoreConfig{Path: filepath.Join(t.TempDir(), "db", "enkor.db")},
	}
	require.NoError(t, cfg.Validate())
	log := logging.Nop()

	collab, err := buildCollaborators(cfg, log)
	require.NoError(t, err)
	defer collab.Close(log)

	orch := collab.newOrchestrator(cfg, log)
	require.NoError(t, orch.SetInput("Hello.World."))
	require.NoError(t, orch.RequestTranslate(context.Background()))
	require.NoError(t, orch.RequestSummarize(context.Background()))

	st := orch.State()
	assert.Equal(t, "[ko] Hello. World.", st.TranslatedText)
	assert.NotEmpty(t, st.SummarizedText)

	stats, err := collab.db.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalEntries)
	assert.Equal(t, 1, stats.SummaryEntries)
}

func TestBuildCollaborators_NoCache(t *testing.T) {
	cfg := &config.Config{
		Translator: config.TranslatorConfig{Validate: true},
		Store:      config.StoreConfig{Disabled: true},
	}
	require.NoError(t, cfg.Validate())

	collab, err := buildCollaborators(cfg, logging.Nop())

	require.NoError(t, err)
	assert.Nil(t, collab.db)
	assert.NotNil(t, collab.translator.Checker)
}

func TestReadWriteInput(t *testing.T) {
	text, err := readInput(strings.NewReader("from stdin"), "-")
	require.NoError(t, err)
	assert.Equal(t, "from stdin", text)

	path := filepath.Join(t.TempDir(), "out", "result.txt")
	require.NoError(t, writeOutput(nil, path, "번역"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "번역", string(data))

	var sb strings.Builder
	require.NoError(t, writeOutput(&sb, "", "to stdout"))
	assert.Equal(t, "to stdout", sb.String())
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", snippet("short", 10))
	assert.Equal(t, "a b", snippet("a\n  b", 10))
	assert.Equal(t, "안녕하...", snippet("안녕하세요 여러분", 6))
}
