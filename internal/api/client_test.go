package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// sampleTable returns two days of upstream rows for testing.
func sampleTable() MonthlyTable {
	return MonthlyTable{
		{
			Imsak: "05:30", Gunes: "06:55", Ogle: "13:18",
			Ikindi: "16:38", Aksam: "19:45", Yatsi: "21:04",
			MiladiTarihKisa: "15.03.2024",
		},
		{
			Imsak: "05:28", Gunes: "06:53", Ogle: "13:18",
			Ikindi: "16:39", Aksam: "19:46", Yatsi: "21:05",
			MiladiTarihKisa: "16.03.2024",
		},
	}
}

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/ulkeler", "/api/ulkeler":
			json.NewEncoder(w).Encode([]Country{{UlkeID: "2", UlkeAdi: "TURKIYE", UlkeAdiEn: "TURKEY"}})
		case "/sehirler/2":
			json.NewEncoder(w).Encode([]City{{SehirID: "539", SehirAdi: "ISTANBUL"}})
		case "/ilceler/539":
			json.NewEncoder(w).Encode([]District{{IlceID: "9541", IlceAdi: "ISTANBUL"}})
		case "/vakitler/9541":
			json.NewEncoder(w).Encode(sampleTable())
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewClient(t *testing.T) {
	c := NewClient()
	if c == nil {
		t.Fatal("NewClient returned nil")
	}
	if c.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", c.BaseURL, DefaultBaseURL)
	}
	if c.prefix != "" {
		t.Errorf("prefix = %q, want empty", c.prefix)
	}
}

func TestNewProxyClient_TrimsSlashAndPrefixes(t *testing.T) {
	c := NewProxyClient("http://localhost:5555/")
	if c.BaseURL != "http://localhost:5555" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", c.BaseURL)
	}
	if c.prefix != "/api" {
		t.Errorf("prefix = %q, want /api", c.prefix)
	}
}

func TestPaths_EscapeIDs(t *testing.T) {
	if got := CitiesPath("2"); got != "/sehirler/2" {
		t.Errorf("CitiesPath = %q", got)
	}
	if got := DistrictsPath("a/b"); got != "/ilceler/a%2Fb" {
		t.Errorf("DistrictsPath = %q, want escaped slash", got)
	}
	if got := TimesPath("9541"); got != "/vakitler/9541" {
		t.Errorf("TimesPath = %q", got)
	}
}

func TestClient_LookupChain(t *testing.T) {
	server := newUpstream(t)
	c := NewClient()
	c.BaseURL = server.URL

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	countries, err := c.Countries(ctx)
	if err != nil {
		t.Fatalf("Countries: %v", err)
	}
	if len(countries) != 1 || countries[0].UlkeAdi != "TURKIYE" {
		t.Fatalf("Countries = %+v", countries)
	}

	cities, err := c.Cities(ctx, countries[0].UlkeID)
	if err != nil {
		t.Fatalf("Cities: %v", err)
	}
	if cities[0].SehirID != "539" {
		t.Errorf("SehirID = %q, want 539", cities[0].SehirID)
	}

	districts, err := c.Districts(ctx, "539")
	if err != nil {
		t.Fatalf("Districts: %v", err)
	}
	if districts[0].IlceID != "9541" {
		t.Errorf("IlceID = %q, want 9541", districts[0].IlceID)
	}

	table, err := c.Times(ctx, "9541")
	if err != nil {
		t.Fatalf("Times: %v", err)
	}
	if len(table) != 2 {
		t.Fatalf("len(table) = %d, want 2", len(table))
	}
	if table[0].Imsak != "05:30" || table[0].Aksam != "19:45" {
		t.Errorf("today = %+v", table[0])
	}
}

func TestProxyClient_UsesAPIPrefix(t *testing.T) {
	server := newUpstream(t)
	c := NewProxyClient(server.URL)

	countries, err := c.Countries(context.Background())
	if err != nil {
		t.Fatalf("Countries via proxy prefix: %v", err)
	}
	if len(countries) != 1 {
		t.Fatalf("Countries = %+v", countries)
	}
}

func TestClient_HTTPErrorIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "secret upstream diagnostics", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	_, err := c.Countries(context.Background())
	if err == nil {
		t.Fatal("expected error for HTTP 503, got nil")
	}
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error %T is not a *TransportError", err)
	}
	if te.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want 503", te.StatusCode)
	}
	if te.Op != "countries" {
		t.Errorf("Op = %q, want countries", te.Op)
	}
	if strings.Contains(err.Error(), "secret") {
		t.Errorf("error leaks upstream body: %v", err)
	}
}

func TestClient_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	_, err := c.Times(context.Background(), "1")
	if err == nil {
		t.Fatal("expected decode error, got nil")
	}
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error %T is not a *TransportError", err)
	}
	if !strings.Contains(err.Error(), "decode") {
		t.Errorf("error should mention decode, got: %v", err)
	}
}

func TestClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := NewClient()
	c.BaseURL = url

	_, err := c.Cities(context.Background(), "2")
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %v", err)
	}
	if te.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for a connection failure", te.StatusCode)
	}
}

func TestClient_TimeoutBoundsHungUpstream(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c := NewClient()
	c.BaseURL = server.URL
	c.SetTimeout(50 * time.Millisecond)

	start := time.Now()
	_, err := c.Countries(context.Background())
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("request took %v, timeout not applied", elapsed)
	}
}

func TestClient_RawRelaysBody(t *testing.T) {
	body := `[{"UlkeID":"2","UlkeAdi":"TURKIYE","Extra":true}]`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	got, err := c.Raw(context.Background(), CountriesPath)
	if err != nil {
		t.Fatalf("Raw: %v", err)
	}
	if string(got) != body {
		t.Errorf("Raw = %s, want %s", got, body)
	}
}

func TestClient_RawRejectsNonJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	_, err := c.Raw(context.Background(), CountriesPath)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %v", err)
	}
}
