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
	"github.com/spf13/cobra"

	"github.com/qnjualonzo/enkor/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive terminal UI",
	Long: `Open an interactive terminal session: type or paste text, pick the
direction, translate, then summarize the translation.

Logs go to logging.file when one is configured and are discarded otherwise.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		collab, err := buildCollaborators(cfg, logger)
		if err != nil {
			return err
		}
		defer collab.Close(logger)

		return tui.Run(cmd.Context(), collab.newOrchestrator(cfg, logger), tui.Options{
			Detector: collab.detector,
			Timeout:  cfg.Timeout,
		})
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
