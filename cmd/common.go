/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/qnjualonzo/enkor/internal/config"
	"github.com/qnjualonzo/enkor/internal/detector"
	"github.com/qnjualonzo/enkor/internal/orchestrator"
	"github.com/qnjualonzo/enkor/internal/store"
	"github.com/qnjualonzo/enkor/internal/summarizer"
	"github.com/qnjualonzo/enkor/internal/translator"
	"github.com/qnjualonzo/enkor/internal/validator"
)

// openStore opens the memory database, or returns nil when caching is off.
func openStore(cfg *config.Config) (*store.Store, error) {
	if cfg.Store.Disabled || cfg.Store.Path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := store.New(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// buildServices constructs the translation services named in the config,
// in the order they should be tried.
func buildServices(tc config.TranslatorConfig) ([]translator.TranslationService, error) {
	var list []translator.TranslationService

	for _, name := range tc.Services {
		switch name {
		case "gtx":
			list = append(list, translator.NewGTXService(tc.GTX.BaseURL))
		case "google":
			list = append(list, translator.NewGoogleService(tc.Google.CredentialsFile, tc.Google.APIKey))
		case "mymemory":
			list = append(list, translator.NewMyMemoryService(tc.MyMemory.Email, tc.MyMemory.BaseURL))
		case "ollama":
			list = append(list, translator.NewOllamaTranslator(tc.Ollama.BaseURL, tc.Ollama.Model))
		case "openai":
			list = append(list, translator.NewOpenAIService(tc.OpenAI.APIKey, tc.OpenAI.BaseURL, tc.OpenAI.Model))
		case "stub":
			list = append(list, translator.NewStubService(nil))
		default:
			return nil, fmt.Errorf("unknown translation service: %s", name)
		}
	}

	if len(list) == 0 {
		return nil, fmt.Errorf("no valid services configured")
	}
	return list, nil
}

func buildSummarizerService(sc config.SummarizerConfig) (summarizer.SummarizationService, error) {
	switch sc.Service {
	case "lexrank":
		return summarizer.NewLexRankService(), nil
	case "ollama":
		return summarizer.NewOllamaSummarizer(sc.Ollama.Model, sc.Ollama.BaseURL), nil
	case "openai":
		return summarizer.NewOpenAISummarizer(sc.OpenAI.APIKey, sc.OpenAI.BaseURL, sc.OpenAI.Model), nil
	case "gemini":
		return summarizer.NewGeminiSummarizer(sc.Gemini.APIKeys, sc.Gemini.Model, sc.Gemini.BaseURL), nil
	case "anthropic":
		return summarizer.NewAnthropicSummarizer(sc.Anthropic.APIKey, sc.Anthropic.BaseURL, sc.Anthropic.Model), nil
	case "stub":
		return &summarizer.StubSummarizer{}, nil
	}
	return nil, fmt.Errorf("unknown summarization service: %s", sc.Service)
}

// collaborators holds the translator and summarizer shared by every
// session of one process.
type collaborators struct {
	translator *translator.Fallback
	summarizer *summarizer.Adapter
	detector   *detector.Detector
	db         *store.Store
}

// buildCollaborators wires the configured backends, each behind the memory
// store unless caching is disabled. Close releases the store.
func buildCollaborators(cfg *config.Config, log *zap.SugaredLogger) (*collaborators, error) {
	db, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	services, err := buildServices(cfg.Translator)
	if err != nil {
		closeStore(db, log)
		return nil, err
	}
	sumService, err := buildSummarizerService(cfg.Summarizer)
	if err != nil {
		closeStore(db, log)
		return nil, err
	}

	det := detector.New()
	var check translator.Checker
	if cfg.Translator.Validate {
		check = validator.New(det)
	}

	if db != nil {
		for i, svc := range services {
			services[i] = translator.WithMemory(svc, db, log, cfg.Store.FuzzyThreshold, check)
		}
		sumService = summarizer.WithMemory(sumService, db, log)
	}

	fb := translator.NewFallback(log, services...)
	fb.MaxAttempts = cfg.Translator.MaxAttempts
	fb.RetryDelay = cfg.Translator.RetryDelay
	fb.Checker = check

	return &collaborators{
		translator: fb,
		summarizer: summarizer.NewAdapter(sumService, log),
		detector:   det,
		db:         db,
	}, nil
}

func (c *collaborators) newOrchestrator(cfg *config.Config, log *zap.SugaredLogger) *orchestrator.Orchestrator {
	return orchestrator.New(nil, c.translator, c.summarizer, orchestrator.OrchestratorConfig{
		SentenceCount: cfg.Sentences,
		Logger:        log,
	})
}

// checkAvailable warns about services that do not answer; the fallback
// chain still tries them.
func (c *collaborators) checkAvailable(ctx context.Context, log *zap.SugaredLogger) {
	for _, svc := range c.translator.Services {
		if err := svc.IsAvailable(ctx); err != nil {
			log.Warnw("translation service unavailable", "service", svc.Name(), "error", err)
		}
	}
}

func (c *collaborators) Close(log *zap.SugaredLogger) {
	closeStore(c.db, log)
}

func closeStore(db *store.Store, log *zap.SugaredLogger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		log.Errorw("failed to close database", "error", err)
	}
}
