package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/ezan-vakti/internal/api"
	"github.com/smokyabdulrahman/ezan-vakti/internal/cache"
	"github.com/smokyabdulrahman/ezan-vakti/internal/config"
	"github.com/smokyabdulrahman/ezan-vakti/internal/display"
	"github.com/smokyabdulrahman/ezan-vakti/internal/loader"
	"github.com/smokyabdulrahman/ezan-vakti/internal/selection"
)

// Global flags shared across all subcommands.
var (
	FlagServer   string
	FlagDirect   bool
	FlagCacheDir string
	FlagJSON     bool
	FlagLogLevel string
)

const defaultLogLevel = "warn"

// loadedConfig holds the config loaded during PersistentPreRunE.
// Available to all subcommand handlers.
var loadedConfig *config.Config

// NewRootCmd creates the root command for the ezan-vakti CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "ezan-vakti",
		Short:   "Sahur and İftar countdown for Turkish cities",
		Long:    "Live countdown to the next Sahur (İmsak) or İftar (Akşam) using the Diyanet monthly prayer-time tables,\nplus the proxy server that relays those tables.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := setupLogging(cmd); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			loadedConfig = cfg
			if FlagJSON {
				display.SetEnabled(false)
			}
			return nil
		},
		// Default action: the full-screen countdown.
		RunE:          runCountdown,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&FlagServer, "server", "", "Proxy server URL (default: "+config.DefaultServerURL+")")
	pf.BoolVar(&FlagDirect, "direct", false, "Query the Diyanet API directly instead of the proxy")
	pf.StringVar(&FlagCacheDir, "cache-dir", "", "Cache directory (default: ~/.cache/ezan-vakti/)")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")
	pf.StringVar(&FlagLogLevel, "log-level", "", "Log level: debug, info, warn, error (default: $LOG_LEVEL or warn)")

	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newMonthCmd())
	rootCmd.AddCommand(newCitiesCmd())
	rootCmd.AddCommand(newSelectCmd())
	rootCmd.AddCommand(newLocateCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// PrintVersion prints the version string in the expected format.
func PrintVersion(version string) string {
	return fmt.Sprintf("ezan-vakti %s\n", version)
}

// setupLogging points the global zerolog logger at stderr.
// Level priority: --log-level > $LOG_LEVEL > warn.
func setupLogging(cmd *cobra.Command) error {
	level := defaultLogLevel
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level = v
	}
	if flagWasSet(cmd.Flags(), cmd.Root().PersistentFlags(), "log-level") {
		level = FlagLogLevel
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).With().Timestamp().Logger()
	return nil
}

// effectiveConfig returns the merged configuration values,
// applying the priority: CLI flags > config file > defaults.
// It uses cobra's Changed() to detect whether a flag was explicitly set.
func effectiveConfig(cmd *cobra.Command) *config.Config {
	var cfg config.Config
	if loadedConfig != nil {
		cfg = *loadedConfig
	}
	defaults := config.Defaults()

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	if flagWasSet(flags, root, "server") {
		cfg.ServerURL = strings.TrimRight(FlagServer, "/")
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = defaults.ServerURL
	}
	if flagWasSet(flags, root, "direct") {
		cfg.Direct = FlagDirect
	}
	if flagWasSet(flags, root, "cache-dir") {
		cfg.CacheDir = FlagCacheDir
	}
	if cfg.RequireOnboarding == nil {
		cfg.RequireOnboarding = defaults.RequireOnboarding
	}
	if cfg.Geolocation == nil {
		cfg.Geolocation = defaults.Geolocation
	}
	if cfg.Format == "" {
		cfg.Format = defaults.Format
	}

	return &cfg
}

// flagWasSet checks if a flag was explicitly set on either the local or persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}

// newClient talks to the proxy unless direct mode is on.
func newClient(cfg *config.Config) *api.Client {
	if cfg.Direct {
		return api.NewClient()
	}
	return api.NewProxyClient(cfg.ServerURL)
}

// openCache is best-effort: a nil cache only costs extra requests.
func openCache(cfg *config.Config) *cache.Cache {
	c, err := cache.New(cfg.CacheDir)
	if err != nil {
		log.Warn().Err(err).Msg("cache disabled")
		return nil
	}
	return c
}

func newLoader(cfg *config.Config, c *cache.Cache) *loader.Loader {
	var opts []loader.Option
	if c != nil {
		opts = append(opts, loader.WithCache(c))
	}
	return loader.New(newClient(cfg), opts...)
}

func newSelector(cfg *config.Config, c *cache.Cache) (*selection.Selector, error) {
	path, err := config.Path()
	if err != nil {
		return nil, err
	}
	opts := []selection.Option{
		selection.WithGeolocation(cfg.GeolocationOrDefault(true)),
		selection.WithOnboarding(cfg.RequireOnboardingOrDefault(true)),
	}
	if c != nil {
		opts = append(opts, selection.WithGeoCache(c))
	}
	return selection.New(path, opts...), nil
}
