package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ezan-vakti/internal/api"
	"github.com/smokyabdulrahman/ezan-vakti/internal/config"
	"github.com/smokyabdulrahman/ezan-vakti/internal/display"
	"github.com/smokyabdulrahman/ezan-vakti/internal/loader"
	"github.com/smokyabdulrahman/ezan-vakti/internal/selection"
)

func newSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select [city-id]",
		Short: "Choose and remember the city",
		Long:  "Store the city used by the countdown. Without an id an interactive picker is shown.\nRun `ezan-vakti cities` to see the ids.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSelect,
	}
}

func newLocateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locate",
		Short: "Guess the city from your IP address and remember it",
		Long: "Look up a coarse location from your IP address and store the suggested city.\n" +
			"The suggestion is currently always İstanbul (" + selection.DefaultCityID + "), whatever the location.",
		Args: cobra.NoArgs,
		RunE: runLocate,
	}
}

func runSelect(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)
	c := openCache(cfg)
	ldr := newLoader(cfg, c)

	cities, citiesErr := ldr.Cities(cmd.Context())

	var cityID string
	if len(args) > 0 {
		cityID = args[0]
		if citiesErr != nil {
			log.Warn().Err(citiesErr).Msg("could not verify city id")
		} else if _, ok := loader.FindCity(cities, cityID); !ok {
			return fmt.Errorf("unknown city id %q (see `ezan-vakti cities`)", cityID)
		}
	} else {
		if citiesErr != nil {
			return citiesErr
		}
		id, err := pickCity(cities, cfg.CityID)
		if err != nil {
			return err
		}
		cityID = id
	}

	sel, err := newSelector(cfg, c)
	if err != nil {
		return err
	}
	if err := sel.Choose(cityID); err != nil {
		return err
	}

	name := cityID
	if city, ok := loader.FindCity(cities, cityID); ok {
		name = fmt.Sprintf("%s (%s)", city.SehirAdi, cityID)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Şehir kaydedildi: %s\n", name)
	return nil
}

// pickCity shows the interactive city picker.
func pickCity(cities []api.City, current string) (string, error) {
	options := make([]huh.Option[string], len(cities))
	for i, c := range cities {
		options[i] = huh.NewOption(c.SehirAdi, c.SehirID)
	}

	choice := current
	err := huh.NewSelect[string]().
		Title("Şehir Seçiniz").
		Options(options...).
		Height(15).
		Value(&choice).
		Run()
	if err != nil {
		return "", err
	}
	return choice, nil
}

// locateJSONOutput is the JSON structure for the locate command.
type locateJSONOutput struct {
	CityID    string  `json:"city_id"`
	Outcome   string  `json:"outcome"`
	Message   string  `json:"message"`
	City      string  `json:"city,omitempty"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

func runLocate(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)
	sel, err := newSelector(cfg, openCache(cfg))
	if err != nil {
		return err
	}

	res, err := sel.Locate(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		j := locateJSONOutput{
			CityID:  res.CityID,
			Outcome: res.Outcome.String(),
			Message: res.Outcome.Message(),
		}
		if loc := res.Location; loc != nil {
			j.City, j.Country = loc.City, loc.Country
			j.Latitude, j.Longitude = loc.Latitude, loc.Longitude
		}
		return writeJSON(out, j)
	}

	fmt.Fprintf(out, "  %s\n", display.Bold(res.Outcome.Message()))
	if res.Location != nil {
		fmt.Fprintf(out, "  %s %s\n", display.Dim("Konum:"), res.Location.String())
	}
	if res.Err != nil {
		fmt.Fprintf(out, "  %s %v\n", display.Dim("Hata:"), res.Err)
	}
	fmt.Fprintf(out, "  %s %s\n", display.Dim("Şehir:"), display.Accent(res.CityID))
	return nil
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or modify configuration",
		Long:  "Display current configuration, or use subcommands to modify it.\nWhen run without subcommands, shows the current configuration.",
		RunE:  runConfigShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: fmt.Sprintf("Set a configuration value. Valid keys: %s\n\nExamples:\n  ezan-vakti config set city_id 506\n  ezan-vakti config set server_url http://localhost:5555\n  ezan-vakti config set require_onboarding false\n  ezan-vakti config set format \"{{.Short}} {{.Clock}}\"",
			strings.Join(config.ValidKeys, ", ")),
		Args: cobra.ExactArgs(2),
		RunE: runConfigSet,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset config to defaults",
		Long:  "Delete the config file and restore all settings to defaults.",
		RunE:  runConfigReset,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print config file path",
		RunE:  runConfigPath,
	})

	return cmd
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return writeJSON(out, cfg)
	}

	fmt.Fprintf(out, "  Configuration (%s)\n\n", path)

	defaults := config.Defaults()
	for _, key := range config.ValidKeys {
		val, _ := cfg.Get(key)
		shown := val
		if shown == "" {
			if def, _ := defaults.Get(key); def != "" {
				shown = display.Dim(def + " (default)")
			} else {
				shown = display.Dim("(not set)")
			}
		}
		fmt.Fprintf(out, "  %-20s %s\n", key, shown)
	}
	return nil
}

// runConfigSet sets a config key to the given value.
func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}

	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
	return nil
}

// runConfigReset deletes the config file.
func runConfigReset(cmd *cobra.Command, args []string) error {
	if err := config.Reset(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults.")
	return nil
}

// runConfigPath prints the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
