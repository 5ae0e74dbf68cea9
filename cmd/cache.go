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
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/qnjualonzo/enkor/internal/store"
)

var historyLimit int

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the translation and summary memory",
	Long:  `List, inspect, and clear the SQLite translation and summary memory.`,
}

func openCacheStore() (*store.Store, error) {
	db, err := store.New(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all translation memory entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openCacheStore()
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.ListMemory(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No entries in translation memory.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSOURCE\tTARGET\tSERVICE\tUSED\tLAST USED\tINVALID\tTEXT")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%v\t%s\n",
				e.ID, e.SourceLang, e.TargetLang, e.ServiceUsed,
				e.UsageCount, e.LastUsed.Format("2006-01-02 15:04"),
				e.Invalidated, snippet(e.SourceText, 40))
		}
		return w.Flush()
	},
}

var cacheSummariesCmd = &cobra.Command{
	Use:   "summaries",
	Short: "List all summary memory entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openCacheStore()
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.ListSummaries(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list summaries: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No entries in summary memory.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tLANG\tSENTENCES\tSERVICE\tUSED\tLAST USED\tTEXT")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%s\t%s\n",
				e.ID, e.Lang, e.SentenceCount, e.ServiceUsed,
				e.UsageCount, e.LastUsed.Format("2006-01-02 15:04"),
				snippet(e.SourceText, 40))
		}
		return w.Flush()
	},
}

var cacheHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent translate and summarize requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openCacheStore()
		if err != nil {
			return err
		}
		defer db.Close()

		reqs, err := db.RecentRequests(context.Background(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}

		if len(reqs) == 0 {
			fmt.Println("No requests recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tKIND\tLANGS\tSERVICE\tCACHE\tLATENCY\tTEXT\tERROR")
		for _, r := range reqs {
			langs := r.SourceLang
			if r.TargetLang != "" {
				langs += "→" + r.TargetLang
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\t%s\t%s\t%s\n",
				r.Timestamp.Format("2006-01-02 15:04:05"), r.Kind, langs, r.ServiceName,
				r.CacheHit, r.Latency, snippet(r.SourceText, 30), snippet(r.Error, 40))
		}
		return w.Flush()
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show memory statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openCacheStore()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		fmt.Printf("Translation entries: %d\n", stats.TotalEntries)
		fmt.Printf("  active:            %d\n", stats.ActiveEntries)
		fmt.Printf("  invalid:           %d\n", stats.InvalidEntries)
		fmt.Printf("  total usage:       %d\n", stats.TotalUsage)
		fmt.Printf("Summary entries:     %d\n", stats.SummaryEntries)
		fmt.Printf("  total usage:       %d\n", stats.SummaryUsage)
		fmt.Printf("Requests recorded:   %d\n", stats.Requests)
		fmt.Printf("  served from cache: %d\n", stats.CacheHits)
		return nil
	},
}

var cacheInvalidateCmd = &cobra.Command{
	Use:   "invalidate <id>",
	Short: "Mark a translation memory entry as invalid without deleting it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openCacheStore()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.InvalidateMemory(context.Background(), args[0]); err != nil {
			return fmt.Errorf("failed to invalidate entry: %w", err)
		}
		fmt.Printf("Invalidated entry: %s\n", args[0])
		return nil
	},
}

var cacheDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a translation or summary memory entry by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openCacheStore()
		if err != nil {
			return err
		}
		defer db.Close()

		found, err := db.DeleteMemory(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}
		if !found {
			return fmt.Errorf("no memory entry with id %s", args[0])
		}
		fmt.Printf("Deleted entry: %s\n", args[0])
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all translation and summary memory entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openCacheStore()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.ClearMemory(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Printf("Cleared %d entries from memory.\n", n)
		return nil
	},
}

// snippet shortens s to at most n runes on one line.
func snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	rootCmd.AddCommand(cacheCmd)

	cacheHistoryCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of requests to show")

	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheSummariesCmd)
	cacheCmd.AddCommand(cacheHistoryCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheInvalidateCmd)
	cacheCmd.AddCommand(cacheDeleteCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
