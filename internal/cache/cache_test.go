package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smokyabdulrahman/ezan-vakti/internal/api"
	"github.com/smokyabdulrahman/ezan-vakti/internal/geo"
)

func sampleCities() []api.City {
	return []api.City{
		{SehirID: "506", SehirAdi: "ANKARA", SehirAdiEn: "ANKARA"},
		{SehirID: "539", SehirAdi: "İSTANBUL", SehirAdiEn: "ISTANBUL"},
	}
}

// ---------------------------------------------------------------------------
// New
// ---------------------------------------------------------------------------

func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "subdir", "cache")
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New(%q) error: %v", dir, err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Errorf("directory %q was not created", dir)
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", c.Dir(), dir)
	}
}

func TestNew_DefaultDirHonoursXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)

	c, err := New("")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if want := filepath.Join(base, "ezan-vakti"); c.Dir() != want {
		t.Errorf("Dir() = %q, want %q", c.Dir(), want)
	}
}

// ---------------------------------------------------------------------------
// SaveCities / LoadCities
// ---------------------------------------------------------------------------

func TestCities_RoundTrip(t *testing.T) {
	c, _ := New(t.TempDir())

	if err := c.SaveCities("2", sampleCities()); err != nil {
		t.Fatalf("SaveCities error: %v", err)
	}

	got := c.LoadCities("2")
	if len(got) != 2 {
		t.Fatalf("LoadCities returned %d cities, want 2", len(got))
	}
	if got[1].SehirID != "539" || got[1].SehirAdi != "İSTANBUL" {
		t.Errorf("city[1] = %+v", got[1])
	}
}

func TestCities_CacheMiss(t *testing.T) {
	c, _ := New(t.TempDir())
	if got := c.LoadCities("2"); got != nil {
		t.Errorf("expected nil for cache miss, got %v", got)
	}
}

func TestCities_KeyedByCountry(t *testing.T) {
	c, _ := New(t.TempDir())
	_ = c.SaveCities("2", sampleCities())

	if got := c.LoadCities("13"); got != nil {
		t.Errorf("expected nil for a different country, got %v", got)
	}
}

func TestCities_ExpiredTTL(t *testing.T) {
	c, _ := New(t.TempDir())
	start := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return start }
	_ = c.SaveCities("2", sampleCities())

	c.now = func() time.Time { return start.Add(TTL - time.Minute) }
	if got := c.LoadCities("2"); got == nil {
		t.Error("expected a hit just inside the TTL")
	}

	c.now = func() time.Time { return start.Add(TTL + time.Minute) }
	if got := c.LoadCities("2"); got != nil {
		t.Error("expected nil for expired city cache, got entry")
	}
}

func TestCities_CorruptedFile(t *testing.T) {
	dir := t.TempDir()
	c, _ := New(dir)
	_ = c.SaveCities("2", sampleCities())

	os.WriteFile(filepath.Join(dir, "cities_2.json"), []byte("not-json"), 0o644)

	if got := c.LoadCities("2"); got != nil {
		t.Error("expected nil for corrupted cache file, got entry")
	}
}

// ---------------------------------------------------------------------------
// SaveGeo / LoadGeo
// ---------------------------------------------------------------------------

func TestGeo_RoundTrip(t *testing.T) {
	c, _ := New(t.TempDir())

	loc := &geo.Location{
		Latitude:  41.0082,
		Longitude: 28.9784,
		City:      "Istanbul",
		Country:   "Turkey",
	}

	if err := c.SaveGeo(loc); err != nil {
		t.Fatalf("SaveGeo error: %v", err)
	}

	got := c.LoadGeo()
	if got == nil {
		t.Fatal("LoadGeo returned nil after save")
	}
	if got.Latitude != 41.0082 {
		t.Errorf("Latitude = %v, want %v", got.Latitude, 41.0082)
	}
	if got.City != "Istanbul" {
		t.Errorf("City = %q, want %q", got.City, "Istanbul")
	}
}

func TestGeo_CacheMiss(t *testing.T) {
	c, _ := New(t.TempDir())
	if got := c.LoadGeo(); got != nil {
		t.Error("expected nil for geo cache miss, got entry")
	}
}

func TestGeo_ExpiredTTL(t *testing.T) {
	dir := t.TempDir()
	c, _ := New(dir)

	entry := GeoEntry{
		Location: geo.Location{City: "Istanbul", Country: "Turkey"},
		CachedAt: time.Now().Add(-25 * time.Hour),
	}
	data, _ := json.Marshal(entry)
	os.WriteFile(filepath.Join(dir, "geolocation.json"), data, 0o644)

	if got := c.LoadGeo(); got != nil {
		t.Error("expected nil for expired geo cache, got entry")
	}
}

func TestGeo_CorruptedFile(t *testing.T) {
	dir := t.TempDir()
	c, _ := New(dir)

	os.WriteFile(filepath.Join(dir, "geolocation.json"), []byte("{bad json"), 0o644)

	if got := c.LoadGeo(); got != nil {
		t.Error("expected nil for corrupted geo cache, got entry")
	}
}
