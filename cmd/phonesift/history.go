package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phonesift/phonesift/internal/common"
	"github.com/phonesift/phonesift/internal/repository"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent scan runs",
		Long:  `History prints the most recent runs recorded in the local SQLite ledger.`,
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to show")
	cmd.Flags().String("db-dir", "", "History database directory")

	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	logger := setupLogger(getVerboseFlag(cmd))

	cfg := common.LoadConfig()
	if v, _ := cmd.Flags().GetString("db-dir"); v != "" {
		cfg.History.Dir = v
	}
	limit, _ := cmd.Flags().GetInt("limit")

	history, err := repository.Open(cfg.History.Dir, logger)
	if err != nil {
		return err
	}
	defer func() { _ = history.Close() }()

	runs, err := history.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
		return nil
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-20s  %-6s  %-7s  %-6s  %-12s  %s\n",
		"STARTED", "IMAGES", "NUMBERS", "UNIQUE", "STATUS", "SOURCE")
	for _, r := range runs {
		fmt.Fprintf(w, "%-20s  %-6d  %-7d  %-6d  %-12s  %s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Images, r.Numbers, r.UniqueNumbers, string(r.Status), r.SourceDir)
	}
	return nil
}
