package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/four-pillars/internal/config"
	"github.com/Veraticus/four-pillars/internal/engine"
	"github.com/Veraticus/four-pillars/internal/model"
)

func chartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Classify pillars given directly as glyphs",
		Long: `Classify a chart whose four pillars are already known. No geocoding or
time conversion is performed and nothing is recorded.

Example:
  pillars chart --year 癸亥 --month 乙卯 --day 丁巳 --hour 丙午`,
		RunE: runChart,
	}

	cmd.Flags().String("year", "", "Year pillar, e.g. 甲子")
	cmd.Flags().String("month", "", "Month pillar")
	cmd.Flags().String("day", "", "Day pillar")
	cmd.Flags().String("hour", "", "Hour pillar")
	addOutputFlags(cmd)

	for _, f := range []string{"year", "month", "day", "hour"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}

func runChart(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	year, _ := flags.GetString("year")
	month, _ := flags.GetString("month")
	day, _ := flags.GetString("day")
	hour, _ := flags.GetString("hour")

	chart, err := model.ParseChart(year, month, day, hour)
	if err != nil {
		return err
	}

	result, err := engine.ClassifyChart(chart)
	if err != nil {
		return err
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	return writeResult(cmd.OutOrStdout(), result, readOutputFlags(cmd, cfg.ReportStyle))
}
