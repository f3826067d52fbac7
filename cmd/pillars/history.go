package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/four-pillars/internal/cli"
	"github.com/Veraticus/four-pillars/internal/config"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: "Show recorded classifications",
		Long: `Without arguments, list recent classifications, one row per classified
birth. With a record id (or a case id, which picks the latest birth with that
chart), print the stored result as JSON.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistory,
	}

	cmd.Flags().IntP("limit", "n", 20, "Number of results to list")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	store, err := initStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	w := cmd.OutOrStdout()
	if len(args) == 1 {
		stored, err := store.GetResult(ctx, args[0])
		if err != nil {
			return err
		}
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, stored.Payload, "", "  "); err != nil {
			return fmt.Errorf("failed to format stored result: %w", err)
		}
		pretty.WriteByte('\n')
		_, err = pretty.WriteTo(w)
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	results, err := store.ListResults(ctx, limit)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(w, cli.FormatInfo("No classifications recorded yet"))
		return nil
	}
	for _, r := range results {
		name := r.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%s  %s  %-14s %.2f  %s\n",
			cli.SubtleStyle.Render(r.ID), r.ChartKey, r.Constitution, r.Confidence, name)
	}
	return nil
}
