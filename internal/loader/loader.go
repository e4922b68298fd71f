// Package loader turns a city id into a month of prayer times by walking
// country → city → district → times.
package loader

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/ezan-vakti/internal/api"
)

// CountryName is the only country the client targets.
const CountryName = "TURKIYE"

// Source is the lookup surface of api.Client.
type Source interface {
	Countries(ctx context.Context) ([]api.Country, error)
	Cities(ctx context.Context, countryID string) ([]api.City, error)
	Districts(ctx context.Context, cityID string) ([]api.District, error)
	Times(ctx context.Context, districtID string) (api.MonthlyTable, error)
}

// CityCache stores city lists per country. *cache.Cache satisfies it.
type CityCache interface {
	LoadCities(countryID string) []api.City
	SaveCities(countryID string, cities []api.City) error
}

// LookupKind tells which lookup step came back empty.
type LookupKind int

const (
	LookupCountry LookupKind = iota
	LookupDistrict
)

// LookupError reports that a lookup succeeded over the wire but did not
// contain what we need.
type LookupError struct {
	Kind LookupKind
	Key  string // country name or city id
}

func (e *LookupError) Error() string {
	switch e.Kind {
	case LookupCountry:
		return fmt.Sprintf("country not found: %s", e.Key)
	default:
		return fmt.Sprintf("no districts for city %s", e.Key)
	}
}

// Option configures a Loader.
type Option func(*Loader)

// WithCache enables the on-disk city list cache.
func WithCache(c CityCache) Option {
	return func(l *Loader) { l.cache = c }
}

// Loader resolves city ids to monthly tables. Steps run sequentially and
// are never retried; transport errors are returned unchanged.
type Loader struct {
	src   Source
	cache CityCache

	mu        sync.Mutex
	countryID string
}

// New returns a Loader reading from src.
func New(src Source, opts ...Option) *Loader {
	l := &Loader{src: src}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CountryID finds the id of CountryName. A successful lookup is remembered
// for the life of the Loader.
func (l *Loader) CountryID(ctx context.Context) (string, error) {
	l.mu.Lock()
	id := l.countryID
	l.mu.Unlock()
	if id != "" {
		return id, nil
	}

	countries, err := l.src.Countries(ctx)
	if err != nil {
		return "", err
	}
	for _, c := range countries {
		if c.UlkeAdi == CountryName {
			l.mu.Lock()
			l.countryID = c.UlkeID
			l.mu.Unlock()
			return c.UlkeID, nil
		}
	}
	return "", &LookupError{Kind: LookupCountry, Key: CountryName}
}

// Cities lists the cities of CountryName, from cache when fresh.
func (l *Loader) Cities(ctx context.Context) ([]api.City, error) {
	countryID, err := l.CountryID(ctx)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		if cities := l.cache.LoadCities(countryID); cities != nil {
			log.Debug().Str("country", countryID).Int("count", len(cities)).Msg("city list served from cache")
			return cities, nil
		}
	}

	cities, err := l.src.Cities(ctx, countryID)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		if err := l.cache.SaveCities(countryID, cities); err != nil {
			log.Warn().Err(err).Msg("could not cache city list")
		}
	}
	return cities, nil
}

// District returns the first district of a city, used as the city centre.
func (l *Loader) District(ctx context.Context, cityID string) (api.District, error) {
	districts, err := l.src.Districts(ctx, cityID)
	if err != nil {
		return api.District{}, err
	}
	if len(districts) == 0 {
		return api.District{}, &LookupError{Kind: LookupDistrict, Key: cityID}
	}
	return districts[0], nil
}

// LoadTimes fetches the monthly table for a city's centre district.
func (l *Loader) LoadTimes(ctx context.Context, cityID string) (api.MonthlyTable, error) {
	district, err := l.District(ctx, cityID)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("city", cityID).Str("district", district.IlceID).Msg("loading prayer times")

	table, err := l.src.Times(ctx, district.IlceID)
	if err != nil {
		return nil, err
	}
	return table, nil
}

// FindCity returns the city with the given id from a list.
func FindCity(cities []api.City, id string) (api.City, bool) {
	for _, c := range cities {
		if c.SehirID == id {
			return c, true
		}
	}
	return api.City{}, false
}
