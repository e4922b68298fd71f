package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ezan-vakti/internal/display"
	"github.com/smokyabdulrahman/ezan-vakti/internal/loader"
)

func newMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month [city-id]",
		Short: "Show the loaded month of prayer times",
		Long:  "Display the monthly prayer-time table for the selected city (or the given city id), with today highlighted.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonth,
	}
}

func newCitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cities",
		Short: "List the cities of Türkiye with their ids",
		Long:  "List every city the Diyanet API knows for Türkiye. Use the id with `ezan-vakti select <id>`.",
		Args:  cobra.NoArgs,
		RunE:  runCities,
	}
}

func runMonth(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)
	c := openCache(cfg)

	var cityID string
	if len(args) > 0 {
		cityID = args[0]
	} else {
		id, err := resolveCity(cmd.Context(), cfg, c)
		if err != nil {
			return err
		}
		cityID = id
	}

	ldr := newLoader(cfg, c)
	table, err := ldr.LoadTimes(cmd.Context(), cityID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return writeJSON(out, table)
	}

	title := "Şehir " + cityID
	if cities, err := ldr.Cities(cmd.Context()); err == nil {
		if city, ok := loader.FindCity(cities, cityID); ok {
			title = city.SehirAdi
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Bold(fmt.Sprintf("%s: %d gün", title, len(table))))
	fmt.Fprintln(out)
	if len(table) == 0 {
		fmt.Fprintf(out, "  %s\n\n", display.Dim("Veri Yok"))
		return nil
	}
	fmt.Fprint(out, display.MonthTable(table).Render())
	fmt.Fprintln(out)
	return nil
}

func runCities(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)
	ldr := newLoader(cfg, openCache(cfg))

	cities, err := ldr.Cities(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return writeJSON(out, cities)
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, display.CityTable(cities, cfg.CityID).Render())
	fmt.Fprintln(out)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
