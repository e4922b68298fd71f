package selection

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/smokyabdulrahman/ezan-vakti/internal/cache"
	"github.com/smokyabdulrahman/ezan-vakti/internal/config"
	"github.com/smokyabdulrahman/ezan-vakti/internal/geo"
)

func tempConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.json")
}

func detected(loc *geo.Location, err error) func(context.Context) (*geo.Location, error) {
	return func(context.Context) (*geo.Location, error) { return loc, err }
}

func storedCity(t *testing.T, path string) string {
	t.Helper()
	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	return cfg.CityID
}

func TestRemembered(t *testing.T) {
	path := tempConfigPath(t)
	s := New(path)

	if _, ok := s.Remembered(); ok {
		t.Fatal("Remembered should be empty on a fresh config")
	}

	if err := s.Choose("506"); err != nil {
		t.Fatalf("Choose: %v", err)
	}
	id, ok := s.Remembered()
	if !ok || id != "506" {
		t.Errorf("Remembered = %q, %v; want 506, true", id, ok)
	}
}

func TestRemembered_CorruptConfig(t *testing.T) {
	path := tempConfigPath(t)
	os.WriteFile(path, []byte("{bad"), 0o644)

	if _, ok := New(path).Remembered(); ok {
		t.Error("Remembered should report nothing for a corrupt config")
	}
}

func TestChoose_PreservesOtherKeys(t *testing.T) {
	path := tempConfigPath(t)
	cfg := &config.Config{ServerURL: "http://vakit.local:8080", Format: "short"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	if err := New(path).Choose("539"); err != nil {
		t.Fatalf("Choose: %v", err)
	}

	loaded, _ := config.LoadFrom(path)
	if loaded.CityID != "539" || loaded.ServerURL != "http://vakit.local:8080" || loaded.Format != "short" {
		t.Errorf("config after Choose = %+v", loaded)
	}
}

func TestChoose_RejectsInvalidID(t *testing.T) {
	path := tempConfigPath(t)
	if err := New(path).Choose(""); err == nil {
		t.Fatal("Choose(\"\") should fail")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("invalid choice should not write the config")
	}
}

func TestNeedsOnboarding(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		required bool
		want     bool
	}{
		{"fresh, onboarding on", "", true, true},
		{"fresh, onboarding off", "", false, false},
		{"remembered, onboarding on", "539", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tempConfigPath(t)
			if tt.stored != "" {
				(&config.Config{CityID: tt.stored}).SaveTo(path)
			}
			s := New(path, WithOnboarding(tt.required))
			if got := s.NeedsOnboarding(); got != tt.want {
				t.Errorf("NeedsOnboarding = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLocate_AllOutcomesConverge(t *testing.T) {
	ankara := &geo.Location{City: "Ankara", Country: "Turkey", Latitude: 39.93, Longitude: 32.86}

	tests := []struct {
		name        string
		opts        []Option
		detect      func(context.Context) (*geo.Location, error)
		wantOutcome Outcome
		wantMessage string
	}{
		{
			name:        "located elsewhere",
			detect:      detected(ankara, nil),
			wantOutcome: OutcomeLocated,
			wantMessage: "Konum Bulundu (İstanbul)",
		},
		{
			name:        "detection failed",
			detect:      detected(nil, errors.New("timeout")),
			wantOutcome: OutcomeFailed,
			wantMessage: "Hata! Manuel Seçiniz",
		},
		{
			name:        "geolocation disabled",
			opts:        []Option{WithGeolocation(false)},
			detect:      detected(ankara, nil),
			wantOutcome: OutcomeUnsupported,
			wantMessage: "Desteklenmiyor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tempConfigPath(t)
			s := New(path, tt.opts...)
			s.detect = tt.detect

			res, err := s.Locate(context.Background())
			if err != nil {
				t.Fatalf("Locate: %v", err)
			}
			if res.CityID != DefaultCityID {
				t.Errorf("CityID = %q, want %q", res.CityID, DefaultCityID)
			}
			if res.Outcome != tt.wantOutcome {
				t.Errorf("Outcome = %v, want %v", res.Outcome, tt.wantOutcome)
			}
			if res.Outcome.Message() != tt.wantMessage {
				t.Errorf("Message = %q, want %q", res.Outcome.Message(), tt.wantMessage)
			}
			if got := storedCity(t, path); got != DefaultCityID {
				t.Errorf("stored city = %q, want %q", got, DefaultCityID)
			}
		})
	}
}

func TestLocate_DisabledNeverDetects(t *testing.T) {
	s := New(tempConfigPath(t), WithGeolocation(false))
	s.detect = func(context.Context) (*geo.Location, error) {
		t.Fatal("detect called with geolocation disabled")
		return nil, nil
	}
	if _, err := s.Locate(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestLocate_UsesAndFillsGeoCache(t *testing.T) {
	c, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	calls := 0
	s := New(tempConfigPath(t), WithGeoCache(c))
	s.detect = func(context.Context) (*geo.Location, error) {
		calls++
		return &geo.Location{City: "Bursa", Country: "Turkey"}, nil
	}

	for i := 0; i < 2; i++ {
		res, err := s.Locate(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if res.Location == nil || res.Location.City != "Bursa" {
			t.Errorf("Location = %+v", res.Location)
		}
	}
	if calls != 1 {
		t.Errorf("detect called %d times, want 1", calls)
	}
}

func TestDetect_DoesNotStore(t *testing.T) {
	path := tempConfigPath(t)
	s := New(path)
	if err := s.Choose("506"); err != nil {
		t.Fatal(err)
	}
	s.detect = detected(&geo.Location{City: "Izmir", Country: "Turkey"}, nil)

	res := s.Detect(context.Background())
	if res.CityID != DefaultCityID || res.Outcome != OutcomeLocated {
		t.Errorf("Detect = %s/%s, want %s/located", res.CityID, res.Outcome, DefaultCityID)
	}
	if got := storedCity(t, path); got != "506" {
		t.Errorf("stored city = %q after Detect, want 506", got)
	}
}

func TestLocate_PersistFailure(t *testing.T) {
	// A directory where the config file should be makes SaveTo fail.
	path := tempConfigPath(t)
	if err := os.MkdirAll(filepath.Join(path, "x"), 0o755); err != nil {
		t.Fatal(err)
	}

	s := New(path, WithGeolocation(false))
	res, err := s.Locate(context.Background())
	if err == nil {
		t.Fatal("expected persistence error")
	}
	if res.CityID != DefaultCityID {
		t.Errorf("CityID = %q, want %q even on failure", res.CityID, DefaultCityID)
	}
}

func TestOutcome_String(t *testing.T) {
	for o, want := range map[Outcome]string{
		OutcomeLocated:     "located",
		OutcomeFailed:      "failed",
		OutcomeUnsupported: "unsupported",
	} {
		if got := o.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
