// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/driveconv/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past conversion runs",
	Long: `History lists the conversion ledger, newest runs first: source
document, terminal state, and the failure message for errored runs.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 0, "maximum number of runs to list (default from configuration)")
	historyCmd.Flags().String("format", "table", "output format: table or yaml")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if cfg.History.DBPath == "" {
		return fmt.Errorf("history recording is disabled (history_db is empty)")
	}

	store, err := history.NewStore(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	recs, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "table":
		history.WriteTable(os.Stdout, recs)
	case "yaml":
		if err := history.WriteYAML(os.Stdout, recs); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (want table or yaml)", format)
	}
	return nil
}
