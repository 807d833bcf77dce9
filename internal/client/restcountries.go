package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/Parsherm/country-finder/internal/domain"
)

const (
	defaultBaseURL = "https://restcountries.com/v3.1/name"
	clientTimeout  = 10 * time.Second

	// maxFlagBytes bounds the flag download; the PNGs served by the API are
	// a few tens of kilobytes.
	maxFlagBytes = 2 << 20
)

// RestCountriesClient interacts with the REST Countries API.
type RestCountriesClient struct {
	client  *http.Client
	BaseURL string // overridable for tests
}

// NewRestCountriesClient creates a new client for the REST Countries API.
func NewRestCountriesClient(timeout time.Duration) *RestCountriesClient {
	if timeout <= 0 {
		timeout = clientTimeout
	}
	return &RestCountriesClient{
		client: &http.Client{
			Timeout: timeout,
		},
		BaseURL: defaultBaseURL,
	}
}

// restCountry is the subset of the API response we decode. The shape is
// strict: unexpected field types fail the decode instead of being dropped.
type restCountry struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	Capital    []string `json:"capital"`
	Region     string   `json:"region"`
	Population int64    `json:"population"`
	Flags      struct {
		PNG string `json:"png"`
	} `json:"flags"`
	Currencies map[string]struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"currencies"`
	Languages map[string]string `json:"languages"`
}

// GetByName fetches country data by name. The first match is returned, as
// the API orders results by relevance.
func (c *RestCountriesClient) GetByName(ctx context.Context, name string) (*domain.Country, error) {
	reqURL := fmt.Sprintf("%s/%s", c.BaseURL, url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d", domain.ErrUnavailable, resp.StatusCode)
	}

	var apiResponse []restCountry
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	if len(apiResponse) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}

	return toDomain(apiResponse[0])
}

// FetchFlag downloads the raw flag image for display.
func (c *RestCountriesClient) FetchFlag(ctx context.Context, flagURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, flagURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d", domain.ErrUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFlagBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	return data, nil
}

// toDomain validates the decoded API response and converts it to the domain
// record.
func toDomain(data restCountry) (*domain.Country, error) {
	if data.Name.Common == "" {
		return nil, fmt.Errorf("%w: missing common name", domain.ErrDecode)
	}
	if data.Population < 0 {
		return nil, fmt.Errorf("%w: negative population", domain.ErrDecode)
	}

	country := &domain.Country{
		Name:       data.Name.Common,
		FlagURL:    data.Flags.PNG,
		Population: data.Population,
		Region:     data.Region,
		Capital:    strings.Join(data.Capital, ", "),
	}

	// Currencies render as "Name (Symbol)", sorted by code so the output is
	// stable across calls.
	if len(data.Currencies) > 0 {
		codes := make([]string, 0, len(data.Currencies))
		for code := range data.Currencies {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		parts := make([]string, 0, len(codes))
		for _, code := range codes {
			cur := data.Currencies[code]
			parts = append(parts, fmt.Sprintf("%s (%s)", cur.Name, cur.Symbol))
		}
		country.Currency = strings.Join(parts, ", ")
	}

	if len(data.Languages) > 0 {
		langs := make([]string, 0, len(data.Languages))
		for _, lang := range data.Languages {
			langs = append(langs, lang)
		}
		sort.Strings(langs)
		country.Languages = strings.Join(langs, ", ")
	}

	return country, nil
}
