package cli

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ezan-vakti/internal/server"
)

var (
	flagPort     int
	flagUpstream string
	flagRedis    string
	flagStatic   string
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the prayer-times proxy server",
		Long: "Relay /api/ulkeler, /api/sehirler/:ulke, /api/ilceler/:sehir and /api/vakitler/:ilce to the Diyanet API.\n" +
			"Settings come from the environment (PORT, UPSTREAM_URL, UPSTREAM_TIMEOUT, REDIS_ADDRESS, REDIS_USERNAME,\n" +
			"REDIS_PASSWORD, CACHE_TTL, STATIC_DIR, GIN_MODE) or a .env file; flags override them.",
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().IntVar(&flagPort, "port", 0, "Listen port (default: $PORT or 5555)")
	cmd.Flags().StringVar(&flagUpstream, "upstream", "", "Upstream API base URL (default: $UPSTREAM_URL or the Diyanet API)")
	cmd.Flags().StringVar(&flagRedis, "redis", "", "Redis address for caching lookup lists (default: $REDIS_ADDRESS, empty disables)")
	cmd.Flags().StringVar(&flagStatic, "static", "", "Directory served for non-API paths (default: $STATIC_DIR)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	env, err := server.LoadEnvironment()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		env.Port = flagPort
	}
	if flags.Changed("upstream") {
		env.UpstreamURL = flagUpstream
	}
	if flags.Changed("redis") {
		env.RedisAddress = flagRedis
	}
	if flags.Changed("static") {
		env.StaticDir = flagStatic
	}
	if err := env.Validate(); err != nil {
		return err
	}

	// The server logs at $LOG_LEVEL (or its .env value) unless --log-level was given.
	if !flagWasSet(flags, cmd.Root().PersistentFlags(), "log-level") {
		lvl, _ := zerolog.ParseLevel(strings.ToLower(env.LogLevel))
		zerolog.SetGlobalLevel(lvl)
	}

	s, err := server.New(cmd.Context(), env)
	if err != nil {
		return err
	}
	return s.Run(cmd.Context())
}
