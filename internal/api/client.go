package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public Diyanet prayer times mirror the proxy forwards to.
const DefaultBaseURL = "https://ezanvakti.emushaf.net"

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "ezan-vakti/1.0"
	proxyPrefix      = "/api"
)

// Upstream paths, relative to the base URL (or to /api on the proxy).
const (
	CountriesPath = "/ulkeler"
	citiesPath    = "/sehirler/"
	districtsPath = "/ilceler/"
	timesPath     = "/vakitler/"
)

// CitiesPath returns the listing path for the cities of a country.
func CitiesPath(countryID string) string { return citiesPath + url.PathEscape(countryID) }

// DistrictsPath returns the listing path for the districts of a city.
func DistrictsPath(cityID string) string { return districtsPath + url.PathEscape(cityID) }

// TimesPath returns the monthly time table path for a district.
func TimesPath(districtID string) string { return timesPath + url.PathEscape(districtID) }

// Client talks either to the Diyanet API directly or to the ezan-vakti proxy,
// which exposes the same listings under /api.
type Client struct {
	httpClient *http.Client
	// BaseURL is the API base URL. Exported for testing with httptest.
	BaseURL string
	prefix  string
}

// NewClient creates a client for the upstream Diyanet API.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		BaseURL:    DefaultBaseURL,
	}
}

// NewProxyClient creates a client for an ezan-vakti proxy listening at serverURL.
func NewProxyClient(serverURL string) *Client {
	c := NewClient()
	c.BaseURL = strings.TrimRight(serverURL, "/")
	c.prefix = proxyPrefix
	return c
}

// SetTimeout bounds every request made by the client.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.httpClient.Timeout = d
	}
}

// Countries fetches the list of countries.
func (c *Client) Countries(ctx context.Context) ([]Country, error) {
	var out []Country
	if err := c.getJSON(ctx, "countries", CountriesPath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Cities fetches the cities of a country.
func (c *Client) Cities(ctx context.Context, countryID string) ([]City, error) {
	var out []City
	if err := c.getJSON(ctx, "cities", CitiesPath(countryID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Districts fetches the districts of a city.
func (c *Client) Districts(ctx context.Context, cityID string) ([]District, error) {
	var out []District
	if err := c.getJSON(ctx, "districts", DistrictsPath(cityID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Times fetches the monthly time table of a district, starting today.
func (c *Client) Times(ctx context.Context, districtID string) (MonthlyTable, error) {
	var out MonthlyTable
	if err := c.getJSON(ctx, "times", TimesPath(districtID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Raw fetches path and returns the body unchanged. The body must be valid
// JSON; anything else is reported as a TransportError.
func (c *Client) Raw(ctx context.Context, path string) ([]byte, error) {
	body, reqURL, err := c.get(ctx, "raw", path)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, &TransportError{Op: "raw", URL: reqURL, Err: fmt.Errorf("response is not valid JSON")}
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, dest any) error {
	body, reqURL, err := c.get(ctx, op, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return &TransportError{Op: op, URL: reqURL, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

func (c *Client) get(ctx context.Context, op, path string) ([]byte, string, error) {
	reqURL := c.BaseURL + c.prefix + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, reqURL, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, reqURL, &TransportError{Op: op, URL: reqURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The upstream body is dropped; only the status is reported.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, reqURL, &TransportError{Op: op, URL: reqURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, reqURL, &TransportError{Op: op, URL: reqURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, reqURL, nil
}
