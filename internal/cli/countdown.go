package cli

import (
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ezan-vakti/internal/cache"
	"github.com/smokyabdulrahman/ezan-vakti/internal/tui"
)

// runCountdown opens the full-screen countdown.
func runCountdown(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	c := openCache(cfg)
	sel, err := newSelector(cfg, c)
	if err != nil {
		return err
	}

	logDir := cfg.CacheDir
	if c != nil {
		logDir = c.Dir()
	} else if logDir == "" {
		if logDir, err = cache.DefaultDir(); err != nil {
			return err
		}
	}

	return tui.Run(cmd.Context(), newLoader(cfg, c), sel, logDir)
}
