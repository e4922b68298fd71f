// Package cache keeps slow-changing lookups on disk so repeated runs do not
// hit the network.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/smokyabdulrahman/ezan-vakti/internal/api"
	"github.com/smokyabdulrahman/ezan-vakti/internal/geo"
)

const (
	citiesCacheFile = "cities_%s.json" // keyed by country id
	geoCacheFile    = "geolocation.json"

	// TTL applies to both the city list and geolocation entries.
	TTL = 24 * time.Hour
)

// Cache provides file-based caching for city lists and geolocation data.
type Cache struct {
	dir string
	now func() time.Time
}

// CitiesEntry stores a country's city list with its fetch time.
type CitiesEntry struct {
	CountryID string     `json:"country_id"`
	Cities    []api.City `json:"cities"`
	CachedAt  time.Time  `json:"cached_at"`
}

// GeoEntry stores a cached geolocation result with a timestamp.
type GeoEntry struct {
	Location geo.Location `json:"location"`
	CachedAt time.Time    `json:"cached_at"`
}

// DefaultDir returns ~/.cache/ezan-vakti, honouring $XDG_CACHE_HOME.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "ezan-vakti"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".cache", "ezan-vakti"), nil
}

// New creates a Cache rooted at the given directory.
// If dir is empty, DefaultDir is used.
func New(dir string) (*Cache, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}

	return &Cache{dir: dir, now: time.Now}, nil
}

// Dir returns the directory the cache writes to.
func (c *Cache) Dir() string {
	return c.dir
}

// LoadCities returns the cached city list for a country, or nil if missing,
// unreadable or older than TTL.
func (c *Cache) LoadCities(countryID string) []api.City {
	var entry CitiesEntry
	if !c.read(fmt.Sprintf(citiesCacheFile, countryID), &entry) {
		return nil
	}
	if entry.CountryID != countryID || c.now().Sub(entry.CachedAt) > TTL {
		return nil
	}
	return entry.Cities
}

// SaveCities writes a country's city list to the cache.
func (c *Cache) SaveCities(countryID string, cities []api.City) error {
	entry := CitiesEntry{
		CountryID: countryID,
		Cities:    cities,
		CachedAt:  c.now(),
	}
	if err := c.write(fmt.Sprintf(citiesCacheFile, countryID), entry); err != nil {
		return fmt.Errorf("failed to write city cache: %w", err)
	}
	return nil
}

// LoadGeo returns a cached geolocation result, or nil if missing or older
// than TTL.
func (c *Cache) LoadGeo() *geo.Location {
	var entry GeoEntry
	if !c.read(geoCacheFile, &entry) {
		return nil
	}
	if c.now().Sub(entry.CachedAt) > TTL {
		return nil
	}
	return &entry.Location
}

// SaveGeo writes a geolocation result to the cache.
func (c *Cache) SaveGeo(loc *geo.Location) error {
	entry := GeoEntry{
		Location: *loc,
		CachedAt: c.now(),
	}
	if err := c.write(geoCacheFile, entry); err != nil {
		return fmt.Errorf("failed to write geo cache: %w", err)
	}
	return nil
}

func (c *Cache) read(name string, v any) bool {
	data, err := os.ReadFile(filepath.Join(c.dir, name))
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

func (c *Cache) write(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, name), data, 0o644)
}
