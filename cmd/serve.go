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
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/qnjualonzo/enkor/internal/orchestrator"
	"github.com/qnjualonzo/enkor/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the translate/summarize page over HTTP",
	Long: `Serve an HTML page with the same controls as the terminal UI. Each
browser gets its own session, kept for server.session_ttl after its last
request. GET /healthz reports liveness and GET /api/state returns the
caller's session as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		collab, err := buildCollaborators(cfg, logger)
		if err != nil {
			return err
		}
		defer collab.Close(logger)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		collab.checkAvailable(ctx, logger)

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(shutdown)
		go func() {
			select {
			case <-shutdown:
				cancel()
			case <-ctx.Done():
			}
		}()

		srv := server.New(server.Config{
			Addr:       cfg.Server.Addr,
			SessionTTL: cfg.Server.SessionTTL,
			Timeout:    cfg.Timeout,
			Detector:   collab.detector,
			Logger:     logger,
			NewOrchestrator: func() *orchestrator.Orchestrator {
				return collab.newOrchestrator(cfg, logger)
			},
		})
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (default :8080)")
	if err := v.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr")); err != nil {
		panic(err)
	}
}
