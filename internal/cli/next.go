package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ezan-vakti/internal/cache"
	"github.com/smokyabdulrahman/ezan-vakti/internal/config"
	"github.com/smokyabdulrahman/ezan-vakti/internal/countdown"
	"github.com/smokyabdulrahman/ezan-vakti/internal/display"
	"github.com/smokyabdulrahman/ezan-vakti/internal/prayer"
)

var (
	flagFormat string
	flagWatch  bool
)

// errNoCity is returned when no city is stored and onboarding is required.
var errNoCity = errors.New("no city selected; run `ezan-vakti select` first")

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Print the time left until the next Sahur or İftar",
		Long: "Print one line with the countdown to the next Sahur or İftar, for status bars.\n" +
			"With --watch the line is printed again every second until interrupted.",
		Args: cobra.NoArgs,
		RunE: runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format: clock, label-and-clock, short, full, or a custom Go template (overrides config)")
	cmd.Flags().BoolVar(&flagWatch, "watch", false, "Keep printing every second")

	return cmd
}

func runNext(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	format := cfg.Format
	if cmd.Flags().Changed("format") {
		format = flagFormat
	}

	c := openCache(cfg)
	cityID, err := resolveCity(cmd.Context(), cfg, c)
	if err != nil {
		return err
	}
	ldr := newLoader(cfg, c)
	out := cmd.OutOrStdout()

	if flagWatch {
		err := countdown.Run(cmd.Context(), ldr, cityID, func(f countdown.Frame) {
			if f.Status == countdown.StatusLoading {
				return
			}
			if err := printFrame(out, f, format); err != nil {
				log.Error().Err(err).Str("city", f.CityID).Msg("could not print countdown")
			}
		})
		if cmd.Context().Err() != nil {
			return nil
		}
		return err
	}

	table, err := ldr.LoadTimes(cmd.Context(), cityID)
	if err != nil {
		return err
	}
	today, ok := table.Today()
	if !ok {
		b := prayer.Boundary{Phase: prayer.PhaseNoData, Label: prayer.LabelNoData}
		return printBoundary(out, cityID, b, format)
	}

	b, err := prayer.Resolve(time.Now(), today, table.Tomorrow())
	if err != nil && !errors.Is(err, prayer.ErrNoData) {
		return err
	}
	return printBoundary(out, cityID, b, format)
}

// resolveCity returns the stored city. Without one it either asks the user
// to pick (onboarding) or falls back to the location guess.
func resolveCity(ctx context.Context, cfg *config.Config, c *cache.Cache) (string, error) {
	if cfg.CityID != "" {
		return cfg.CityID, nil
	}
	if cfg.RequireOnboardingOrDefault(true) {
		return "", errNoCity
	}

	sel, err := newSelector(cfg, c)
	if err != nil {
		return "", err
	}
	res, err := sel.Locate(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("could not store located city")
	}
	log.Info().Str("outcome", res.Outcome.String()).Str("city", res.CityID).Msg("city from location")
	return res.CityID, nil
}

// nextJSONOutput is the JSON structure for the next command.
type nextJSONOutput struct {
	CityID           string  `json:"city_id"`
	Phase            string  `json:"phase"`
	Label            string  `json:"label"`
	Target           string  `json:"target,omitempty"`
	RemainingSeconds int64   `json:"remaining_seconds"`
	Progress         float64 `json:"progress"`
	InfoLabel        string  `json:"info_label,omitempty"`
	Info             string  `json:"info,omitempty"`
}

func printBoundary(w io.Writer, cityID string, b prayer.Boundary, format string) error {
	if !FlagJSON {
		_, err := fmt.Fprintln(w, colorByPhase(b.Phase, prayer.FormatOutput(b, format)))
		return err
	}

	out := nextJSONOutput{
		CityID:           cityID,
		Phase:            b.Phase.String(),
		Label:            b.Label,
		RemainingSeconds: int64(b.Remaining / time.Second),
		Progress:         b.Progress,
		InfoLabel:        b.InfoLabel,
		Info:             b.Info,
	}
	if !b.Target.IsZero() {
		out.Target = b.Target.Format(time.RFC3339)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// colorByPhase paints İftar countdowns cyan and Sahur countdowns yellow.
func colorByPhase(p prayer.Phase, line string) string {
	switch p {
	case prayer.PhaseFasting:
		return display.Cyan(line)
	case prayer.PhasePreDawn, prayer.PhasePostSunset:
		return display.Yellow(line)
	default:
		return line
	}
}

func printFrame(w io.Writer, f countdown.Frame, format string) error {
	switch f.Status {
	case countdown.StatusFailed:
		_, err := fmt.Fprintln(w, "Hata")
		return err
	case countdown.StatusNoData:
		return printBoundary(w, f.CityID, prayer.Boundary{Phase: prayer.PhaseNoData, Label: prayer.LabelNoData}, format)
	default:
		return printBoundary(w, f.CityID, f.Boundary, format)
	}
}
