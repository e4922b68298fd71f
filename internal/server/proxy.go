package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/ezan-vakti/internal/api"
)

// UpstreamErrorMessage is the fixed body for every upstream failure.
const UpstreamErrorMessage = "Failed to reach Diyanet API"

// Upstream fetches a raw JSON document. *api.Client satisfies it.
type Upstream interface {
	Raw(ctx context.Context, path string) ([]byte, error)
}

// Proxy relays the four lookup endpoints to the upstream API.
type Proxy struct {
	upstream Upstream
	cache    Cache
	ttl      time.Duration
}

// NewProxy returns a Proxy. A nil cache disables caching.
func NewProxy(upstream Upstream, cache Cache, ttl time.Duration) *Proxy {
	if cache == nil {
		cache = NoopCache{}
	}
	return &Proxy{upstream: upstream, cache: cache, ttl: ttl}
}

// endpoint describes one proxied route.
type endpoint struct {
	route string
	what  string // for logs: "countries", "cities", ...
	path  func(ctx *gin.Context) string
	// cacheable is false for vakitler: its first row means "today".
	cacheable bool
}

func (p *Proxy) endpoints() []endpoint {
	return []endpoint{
		{
			route:     "/ulkeler",
			what:      "countries",
			path:      func(*gin.Context) string { return api.CountriesPath },
			cacheable: true,
		},
		{
			route:     "/sehirler/:ulke",
			what:      "cities",
			path:      func(ctx *gin.Context) string { return api.CitiesPath(ctx.Param("ulke")) },
			cacheable: true,
		},
		{
			route:     "/ilceler/:sehir",
			what:      "districts",
			path:      func(ctx *gin.Context) string { return api.DistrictsPath(ctx.Param("sehir")) },
			cacheable: true,
		},
		{
			route: "/vakitler/:ilce",
			what:  "prayer times",
			path:  func(ctx *gin.Context) string { return api.TimesPath(ctx.Param("ilce")) },
		},
	}
}

// Mount registers the endpoints on r.
func (p *Proxy) Mount(r gin.IRoutes) {
	for _, e := range p.endpoints() {
		r.GET(e.route, ResolveEndpoint(p.relay(e)))
	}
}

func (p *Proxy) relay(e endpoint) HandlerFunc {
	return func(ctx *gin.Context) ([]byte, *APIError) {
		path := e.path(ctx)
		reqCtx := ctx.Request.Context()

		if e.cacheable && p.ttl > 0 {
			if body, ok := p.cache.Get(reqCtx, path); ok {
				return body, nil
			}
		}

		body, err := p.upstream.Raw(reqCtx, path)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msgf("Error fetching %s", e.what)
			return nil, &APIError{Code: http.StatusBadGateway, Message: UpstreamErrorMessage}
		}

		if e.cacheable && p.ttl > 0 {
			p.cache.Set(reqCtx, path, body, p.ttl)
		}
		return body, nil
	}
}
