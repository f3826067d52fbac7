package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/four-pillars/internal/cli"
	"github.com/Veraticus/four-pillars/internal/config"
)

func placesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "places",
		Short: "Manage the geocoding cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List cached places",
		RunE:  runPlacesList,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached place",
		RunE:  runPlacesClear,
	})

	return cmd
}

func runPlacesList(cmd *cobra.Command, _ []string) error {
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

	places, err := store.ListPlaces(ctx)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if len(places) == 0 {
		fmt.Fprintln(w, cli.FormatInfo("No cached places"))
		return nil
	}

	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top,
		cli.TableHeaderStyle.Width(28).Render("Place"),
		cli.TableHeaderStyle.Width(24).Render("Timezone"),
		cli.TableHeaderStyle.Width(22).Render("Coordinates"),
		cli.TableHeaderStyle.Render("Source"),
	)}
	for _, p := range places {
		zone := p.Location.Timezone
		if p.Location.TimezoneFallback {
			zone += " (fallback)"
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			cli.TableCellStyle.Width(28).Render(p.Key),
			cli.TableCellStyle.Width(24).Render(zone),
			cli.TableCellStyle.Width(22).Render(fmt.Sprintf("%.4f, %.4f", p.Location.Latitude, p.Location.Longitude)),
			cli.SubtleStyle.Render(p.Location.Source),
		))
	}
	fmt.Fprintln(w, strings.Join(rows, "\n"))
	return nil
}

func runPlacesClear(cmd *cobra.Command, _ []string) error {
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

	n, err := store.ClearPlaces(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Removed %d cached places", n)))
	return nil
}
