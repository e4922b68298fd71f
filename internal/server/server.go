// Package server is the HTTP proxy in front of the Diyanet prayer-times API.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/ezan-vakti/internal/api"
)

const shutdownTimeout = 5 * time.Second

// NewRouter builds the gin engine: CORS for every origin, the /api proxy
// group, /healthz, and staticDir (if set) for every other path.
func NewRouter(p *Proxy, staticDir string) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "HEAD", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	p.Mount(r.Group("/api"))

	r.NoRoute(staticHandler(staticDir))
	return r
}

// staticHandler serves files from dir, with index.html for directories.
func staticHandler(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if dir == "" || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		rel := strings.TrimPrefix(filepath.Clean("/"+c.Request.URL.Path), "/")
		full := filepath.Join(dir, rel)

		info, err := os.Stat(full)
		if err == nil && info.IsDir() {
			full = filepath.Join(full, "index.html")
			info, err = os.Stat(full)
		}
		if err != nil || info.IsDir() {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		c.File(full)
	}
}

// requestLogger logs one line per request through zerolog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var evt *zerolog.Event
		switch {
		case status >= 500:
			evt = log.Warn()
		default:
			evt = log.Info()
		}
		evt.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// Server owns the HTTP listener and the optional Redis cache.
type Server struct {
	env    Environment
	engine *gin.Engine
	redis  *RedisCache
}

// New wires a Server from env. Redis is only used when REDIS_ADDRESS is set
// and reachable; otherwise the proxy runs uncached.
func New(ctx context.Context, env Environment) (*Server, error) {
	gin.SetMode(env.GinMode)

	client := api.NewClient()
	client.BaseURL = strings.TrimRight(env.UpstreamURL, "/")
	client.SetTimeout(env.UpstreamTimeout)

	s := &Server{env: env}

	var cache Cache
	if env.RedisAddress != "" {
		rc := NewRedisCache(env.RedisAddress, env.RedisUsername, env.RedisPassword)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := rc.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", env.RedisAddress).Msg("redis unavailable, running without cache")
			rc.Close()
		} else {
			log.Info().Str("addr", env.RedisAddress).Dur("ttl", env.CacheTTL).Msg("redis cache enabled")
			s.redis = rc
			cache = rc
		}
	}

	s.engine = NewRouter(NewProxy(client, cache, env.CacheTTL), env.StaticDir)
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.env.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", s.env.Port).Msgf("Server is running on port %d", s.env.Port)
		errCh <- srv.ListenAndServe()
	}()

	defer func() {
		if s.redis != nil {
			s.redis.Close()
		}
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
