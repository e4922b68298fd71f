package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	_ "time/tzdata"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/ezan-vakti/internal/server"
)

func main() {
	os.Exit(run())
}

func run() int {
	port := pflag.Int("port", 0, "listen port (default: $PORT or 5555)")
	static := pflag.String("static", "", "directory served for non-API paths (default: $STATIC_DIR)")
	redis := pflag.String("redis", "", "Redis address for caching lookup lists (default: $REDIS_ADDRESS)")
	pflag.Parse()

	env, err := server.LoadEnvironment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ezan-vakti-server: %v\n", err)
		return 1
	}
	if pflag.CommandLine.Changed("port") {
		env.Port = *port
	}
	if pflag.CommandLine.Changed("static") {
		env.StaticDir = *static
	}
	if pflag.CommandLine.Changed("redis") {
		env.RedisAddress = *redis
	}
	if err := env.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "ezan-vakti-server: %v\n", err)
		return 1
	}

	lvl, _ := zerolog.ParseLevel(strings.ToLower(env.LogLevel))
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s, err := server.New(ctx, env)
	if err != nil {
		log.Error().Err(err).Msg("failed to start")
		return 1
	}
	if err := s.Run(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped")
		return 1
	}
	return 0
}
