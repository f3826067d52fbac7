package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/four-pillars/internal/batch"
	"github.com/Veraticus/four-pillars/internal/model"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a birth record",
		Long: `Resolve the birth place, convert the civil birth time to true solar time,
derive the Four Pillars and classify the constitution.

Examples:
  pillars classify --date 1990-05-15 --time 08:45 --place Tokyo
  pillars classify --date 1990-05-15 --time 08:45 --place "Reykjavik, Iceland" --dst off
  pillars classify --date 2000-01-01 --time 12:00 --lat 51.48 --lon 0 --tz Europe/London
  pillars classify --date 1984-02-04 --time 10:00 --place Beijing --format markdown --render`,
		RunE: runClassify,
	}

	cmd.Flags().String("name", "", "Name for the report")
	cmd.Flags().String("date", "", "Birth date (YYYY-MM-DD)")
	cmd.Flags().String("time", "", "Birth time (HH:MM, 24h)")
	cmd.Flags().String("place", "", "Birth place")
	cmd.Flags().String("dst", "auto", "Daylight saving at birth (auto, on, off)")
	cmd.Flags().Float64("lat", 0, "Latitude, skips geocoding when used with --lon")
	cmd.Flags().Float64("lon", 0, "Longitude, skips geocoding when used with --lat")
	cmd.Flags().String("tz", "", "IANA timezone for --lat/--lon")
	addOutputFlags(cmd)

	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("time")
	cmd.MarkFlagsRequiredTogether("lat", "lon")

	return cmd
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", formatText, "Output format (text, json, markdown)")
	cmd.Flags().Bool("render", false, "Render markdown output for the terminal")
}

func readOutputFlags(cmd *cobra.Command, style string) outputOptions {
	format, _ := cmd.Flags().GetString("format")
	render, _ := cmd.Flags().GetBool("render")
	return outputOptions{format: format, render: render, style: style}
}

func birthRecordFromFlags(cmd *cobra.Command) (model.BirthRecord, error) {
	flags := cmd.Flags()
	name, _ := flags.GetString("name")
	date, _ := flags.GetString("date")
	clock, _ := flags.GetString("time")
	place, _ := flags.GetString("place")
	dstFlag, _ := flags.GetString("dst")

	dst, err := batch.ParseDST(dstFlag)
	if err != nil {
		return model.BirthRecord{}, err
	}

	rec := model.BirthRecord{Name: name, Date: date, Time: clock, Place: place, DST: dst}
	if flags.Changed("lat") {
		lat, _ := flags.GetFloat64("lat")
		lon, _ := flags.GetFloat64("lon")
		tz, _ := flags.GetString("tz")
		label := place
		if label == "" {
			label = fmt.Sprintf("%.4f,%.4f", lat, lon)
		}
		rec.Location = &model.Location{
			Name:      label,
			Latitude:  lat,
			Longitude: lon,
			Timezone:  tz,
			Source:    model.SourceManual,
		}
	}
	return rec, nil
}

func runClassify(cmd *cobra.Command, _ []string) error {
	rec, err := birthRecordFromFlags(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.engine.Classify(ctx, rec)
	if err != nil {
		return err
	}

	return writeResult(cmd.OutOrStdout(), result, readOutputFlags(cmd, a.cfg.ReportStyle))
}
