// Package selection decides which city the countdown shows and remembers
// the choice between runs.
//
// Geolocation is deliberately coarse: whatever the detected position, the
// selector settles on İstanbul. Turning coordinates into a Diyanet city id
// would need a lookup table the upstream API does not provide.
package selection

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/ezan-vakti/internal/config"
	"github.com/smokyabdulrahman/ezan-vakti/internal/geo"
)

// DefaultCityID is İstanbul, the city every geolocation attempt settles on.
const DefaultCityID = "539"

// Outcome reports how a geolocation attempt went.
type Outcome int

const (
	OutcomeLocated Outcome = iota
	OutcomeFailed
	OutcomeUnsupported
)

// Message is the status line shown for the outcome.
func (o Outcome) Message() string {
	switch o {
	case OutcomeLocated:
		return "Konum Bulundu (İstanbul)"
	case OutcomeFailed:
		return "Hata! Manuel Seçiniz"
	default:
		return "Desteklenmiyor"
	}
}

func (o Outcome) String() string {
	switch o {
	case OutcomeLocated:
		return "located"
	case OutcomeFailed:
		return "failed"
	default:
		return "unsupported"
	}
}

// Result is what Locate settled on.
type Result struct {
	CityID   string
	Outcome  Outcome
	Location *geo.Location // nil unless Outcome is OutcomeLocated
	Err      error         // detection error for OutcomeFailed
}

// GeoCache stores the last detected location. *cache.Cache satisfies it.
type GeoCache interface {
	LoadGeo() *geo.Location
	SaveGeo(loc *geo.Location) error
}

// Option configures a Selector.
type Option func(*Selector)

// WithGeoCache reuses a recent detection instead of asking the network.
func WithGeoCache(c GeoCache) Option {
	return func(s *Selector) { s.cache = c }
}

// WithGeolocation enables or disables IP detection.
func WithGeolocation(enabled bool) Option {
	return func(s *Selector) { s.geolocation = enabled }
}

// WithOnboarding controls whether a first run shows the city picker.
func WithOnboarding(required bool) Option {
	return func(s *Selector) { s.requireOnboarding = required }
}

// Selector persists the chosen city in the config file at path.
type Selector struct {
	path              string
	geolocation       bool
	requireOnboarding bool
	cache             GeoCache
	detect            func(ctx context.Context) (*geo.Location, error)
}

// New returns a Selector backed by the config file at path.
func New(path string, opts ...Option) *Selector {
	s := &Selector{
		path:              path,
		geolocation:       true,
		requireOnboarding: true,
		detect:            geo.DetectLocation,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Remembered returns the stored city id, if any.
func (s *Selector) Remembered() (string, bool) {
	cfg, err := config.LoadFrom(s.path)
	if err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("could not read stored city")
		return "", false
	}
	return cfg.CityID, cfg.CityID != ""
}

// NeedsOnboarding reports whether the picker must be shown before any load.
func (s *Selector) NeedsOnboarding() bool {
	if _, ok := s.Remembered(); ok {
		return false
	}
	return s.requireOnboarding
}

// Choose stores cityID as the selected city.
func (s *Selector) Choose(cityID string) error {
	cfg, err := config.LoadFrom(s.path)
	if err != nil {
		return err
	}
	if err := cfg.Set("city_id", cityID); err != nil {
		return err
	}
	if err := cfg.SaveTo(s.path); err != nil {
		return fmt.Errorf("failed to remember city: %w", err)
	}
	log.Debug().Str("city", cityID).Msg("city selected")
	return nil
}

// Locate tries IP geolocation and stores DefaultCityID whatever the
// outcome. The returned error is only for a failure to persist.
func (s *Selector) Locate(ctx context.Context) (Result, error) {
	res := s.Detect(ctx)
	if err := s.Choose(res.CityID); err != nil {
		return res, err
	}
	return res, nil
}

// Detect is Locate without storing the result. Callers that may discard a
// late answer store it themselves with Choose.
func (s *Selector) Detect(ctx context.Context) Result {
	res := Result{CityID: DefaultCityID, Outcome: OutcomeUnsupported}
	if !s.geolocation {
		return res
	}

	if s.cache != nil {
		if loc := s.cache.LoadGeo(); loc != nil {
			res.Outcome = OutcomeLocated
			res.Location = loc
			return res
		}
	}

	loc, err := s.detect(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("geolocation failed")
		res.Outcome = OutcomeFailed
		res.Err = err
		return res
	}

	if s.cache != nil {
		if err := s.cache.SaveGeo(loc); err != nil {
			log.Warn().Err(err).Msg("could not cache location")
		}
	}
	log.Debug().Str("location", loc.String()).Msg("location detected")

	res.Outcome = OutcomeLocated
	res.Location = loc
	return res
}
