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
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qnjualonzo/enkor/internal/detector"
	"github.com/qnjualonzo/enkor/internal/markdown"
	"github.com/qnjualonzo/enkor/internal/orchestrator"
	"github.com/qnjualonzo/enkor/internal/session"
)

var (
	inputFile  string
	outputFile string
	direction  string
	summarize  bool
	sentences  int
	fromMD     bool
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate a file or stdin, optionally summarizing the result",
	Long: `Translate text between English and Korean in one shot.

The input is read from --input (or stdin with "-"), translated in the chosen
direction and written to --output (or stdout). Markdown input (--markdown,
or any .md file) is flattened to plain text first. With --summarize the
translation is also summarized in the target language and the summary is
appended after a blank line.

Directions:
  en-ko   English to Korean
  ko-en   Korean to English
  auto    pick from the input language (default)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if outputFile != "" && outputFile != "-" && inputFile == outputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		text, err := readInput(cmd.InOrStdin(), inputFile)
		if err != nil {
			return err
		}
		if fromMD || strings.EqualFold(filepath.Ext(inputFile), ".md") {
			text = markdown.ToPlainText([]byte(text))
		}

		if sentences > 0 {
			cfg.Sentences = sentences
		}

		collab, err := buildCollaborators(cfg, logger)
		if err != nil {
			return err
		}
		defer collab.Close(logger)

		dir, err := resolveDirection(collab.detector, direction, text)
		if err != nil {
			return err
		}

		orch := collab.newOrchestrator(cfg, logger)
		orch.Observe(func(from, to orchestrator.Phase) {
			logger.Debugw("phase", "from", from.String(), "to", to.String())
		})

		if err := orch.ChangeDirection(dir); err != nil {
			return err
		}
		if err := orch.SetInput(text); err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		tctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		err = orch.RequestTranslate(tctx)
		cancel()
		if err != nil {
			return err
		}

		st := orch.State()
		if st.TranslatedText == "" {
			return fmt.Errorf("nothing to translate")
		}
		fmt.Fprintf(os.Stderr, "Translated %s via %s\n", dir.Label(), collab.translator.Name())

		out := st.TranslatedText
		if summarize {
			sctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
			err = orch.RequestSummarize(sctx)
			cancel()
			if err != nil {
				return err
			}
			out += "\n\n" + orch.State().SummarizedText
			fmt.Fprintf(os.Stderr, "Summarized in %d sentences via %s\n", cfg.Sentences, collab.summarizer.Name())
		}

		return writeOutput(cmd.OutOrStdout(), outputFile, out+"\n")
	},
}

// resolveDirection parses flag, picking from the text's language for "auto".
// An explicit direction that contradicts the text is kept but warned about.
func resolveDirection(det *detector.Detector, flag, text string) (session.Direction, error) {
	if strings.EqualFold(strings.TrimSpace(flag), "auto") || flag == "" {
		dir, ok := det.GuessDirection(text)
		if !ok {
			fmt.Fprintf(os.Stderr, "Could not detect the input language, assuming %s\n", dir.Label())
			return dir, nil
		}
		fmt.Fprintf(os.Stderr, "Detected direction: %s\n", dir.Label())
		return dir, nil
	}

	dir, err := session.ParseDirection(flag)
	if err != nil {
		return dir, err
	}
	if det.Mismatch(text, dir) {
		fmt.Fprintf(os.Stderr, "Warning: input looks like %s already; translating %s anyway\n",
			strings.ToUpper(dir.TargetLang()), dir.Label())
	}
	return dir, nil
}

func readInput(stdin io.Reader, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	return string(data), nil
}

func writeOutput(stdout io.Writer, path, text string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(stdout, text)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "-", "Input file to translate, - for stdin")
	translateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default stdout)")
	translateCmd.Flags().StringVarP(&direction, "direction", "d", "auto", "Translation direction: en-ko, ko-en or auto")
	translateCmd.Flags().BoolVar(&summarize, "summarize", false, "Also summarize the translation")
	translateCmd.Flags().IntVar(&sentences, "sentences", 0, "Summary length in sentences (default from config, 3)")
	translateCmd.Flags().BoolVar(&fromMD, "markdown", false, "Treat the input as Markdown and translate its plain text")
}
