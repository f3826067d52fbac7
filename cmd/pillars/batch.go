package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/four-pillars/internal/batch"
	"github.com/Veraticus/four-pillars/internal/cli"
	"github.com/Veraticus/four-pillars/internal/common"
)

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Classify birth records from a CSV file",
		Long: `Classify every row of a CSV file and write one JSON object per row.

The header must include date and time, and either place or latitude and
longitude (with an optional timezone). name and dst (auto, on, off) are optional.
Rows that fail are reported in the output and do not stop the batch.

Example:
  pillars batch --input births.csv --output results.jsonl --workers 8`,
		RunE: runBatch,
	}

	cmd.Flags().StringP("input", "i", "", "CSV file of birth records")
	cmd.Flags().StringP("output", "o", "-", "JSONL output file (- for stdout)")
	cmd.Flags().IntP("workers", "w", 0, "Concurrent classifications (default from config)")
	_ = cmd.MarkFlagRequired("input")

	_ = viper.BindPFlag("batch.workers", cmd.Flags().Lookup("workers"))

	return cmd
}

func runBatch(cmd *cobra.Command, _ []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")

	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	rows, err := batch.ReadRecords(in)
	_ = in.Close()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", inputPath, err)
	}
	if len(rows) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatInfo("No records to classify"))
		return nil
	}

	var out io.Writer = cmd.OutOrStdout()
	if outputPath != "-" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	hint := ""
	if outputPath != "-" {
		hint = "Finished rows were written to " + outputPath
	}
	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := interrupts.HandleInterrupts(cmd.Context(), "Batch", hint)

	bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(rows), "Classifying records...")
	runner := batch.NewRunner(a.engine, a.cfg.BatchWorkers, func() { cli.Advance(bar) })

	outcomes, runErr := runner.Run(ctx, rows)
	if err := batch.WriteJSONL(out, outcomes); err != nil {
		return err
	}

	summary := batch.Summarize(outcomes)
	common.LogInfo("Batch finished", common.Fields{
		"total":     summary.Total,
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
	})
	if runErr != nil {
		return runErr
	}

	msg := fmt.Sprintf("Classified %d of %d records", summary.Succeeded, len(rows))
	if summary.Failed > 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning(fmt.Sprintf("%s, %d failed", msg, summary.Failed)))
		return nil
	}
	fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess(msg))
	return nil
}
