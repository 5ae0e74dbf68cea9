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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/qnjualonzo/enkor/internal/config"
	"github.com/qnjualonzo/enkor/internal/logging"
)

var version = "0.1.0"

var (
	cfgFile string
	v       = viper.New()

	// cfg and logger are set in PersistentPreRunE before any RunE.
	cfg    *config.Config
	logger *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:   "enkor",
	Short: "English/Korean translate-then-summarize",
	Long: `enkor translates text between English and Korean and summarizes the
translation in the target language.

Surfaces:
  translate   one-shot run over a file or stdin
  tui         interactive terminal UI
  serve       HTML page, one session per browser
  cache       inspect and clear the translation/summary memory

Settings come from enkor.yaml, ENKOR_* environment variables, a .env file
and the flags below, in increasing order of precedence.`,
	Version:       version,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded

		// The terminal UI owns the screen, so it only logs to a file.
		if cmd.Name() == "tui" && cfg.Logging.File == "" {
			logger = logging.Nop()
			return nil
		}
		logger, err = logging.New(cfg.Logging.Level, cfg.Logging.File)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default ./enkor.yaml or ~/.config/enkor/enkor.yaml)")
	flags.StringSlice("translator", nil, "Translation services to try in order (gtx, google, mymemory, ollama, openai, stub)")
	flags.String("summarizer", "", "Summarization service (lexrank, ollama, openai, gemini, anthropic, stub)")
	flags.String("db", "", "Database path for translation and summary memory")
	flags.Bool("no-cache", false, "Disable translation and summary memory")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")

	bindings := map[string]string{
		"translator.services": "translator",
		"summarizer.service":  "summarizer",
		"store.path":          "db",
		"store.disabled":      "no-cache",
		"logging.level":       "log-level",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}
