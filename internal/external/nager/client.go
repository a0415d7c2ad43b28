// Package nager is the date.nager.at holiday directory client.
package nager

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/seasonality/internal/contracts"
	"github.com/wonny/seasonality/pkg/httputil"
	"github.com/wonny/seasonality/pkg/logger"
)

// DefaultBaseURL is the public v3 API root
const DefaultBaseURL = "https://date.nager.at/api/v3"

// Client handles communication with the Nager.Date API
// ⭐ SSOT: Nager.Date calls are only made from this client
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

var _ contracts.HolidayDirectory = (*Client)(nil)

// NewClient creates a new Nager.Date client
func NewClient(httpClient *httputil.Client, baseURL string, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// holiday is the wire shape of /PublicHolidays
type holiday struct {
	Date        string   `json:"date"`
	LocalName   string   `json:"localName"`
	Name        string   `json:"name"`
	CountryCode string   `json:"countryCode"`
	Counties    []string `json:"counties"`
	Types       []string `json:"types"`
}

// ListCountries fetches /AvailableCountries
func (c *Client) ListCountries(ctx context.Context) ([]contracts.Country, error) {
	var countries []contracts.Country
	if err := c.get(ctx, "/AvailableCountries", &countries); err != nil {
		return nil, err
	}

	c.logger.WithField("count", len(countries)).Debug("Fetched available countries")
	return countries, nil
}

// ListHolidays fetches /PublicHolidays/{year}/{countryCode}
func (c *Client) ListHolidays(ctx context.Context, year int, countryCode string) ([]contracts.HolidayRecord, error) {
	code := strings.ToUpper(countryCode)

	var raw []holiday
	if err := c.get(ctx, fmt.Sprintf("/PublicHolidays/%d/%s", year, code), &raw); err != nil {
		return nil, err
	}

	records := make([]contracts.HolidayRecord, 0, len(raw))
	for _, h := range raw {
		rec, err := h.record()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	c.logger.WithFields(map[string]interface{}{
		"country": code,
		"year":    year,
		"count":   len(records),
	}).Debug("Fetched public holidays")
	return records, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	err := c.httpClient.GetJSON(ctx, c.baseURL+path, out)
	if err == nil {
		return nil
	}

	var statusErr *httputil.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Errorf("%w: %s returned status %d", contracts.ErrNetwork, path, statusErr.StatusCode)
	}
	return fmt.Errorf("%w: %s: %v", contracts.ErrNetwork, path, err)
}

// record converts the wire shape; an empty county list means unrestricted
func (h holiday) record() (contracts.HolidayRecord, error) {
	date, err := time.Parse(contracts.ISODateLayout, h.Date)
	if err != nil {
		return contracts.HolidayRecord{}, fmt.Errorf("%w: holiday %q has date %q", contracts.ErrDataShape, h.Name, h.Date)
	}

	var subdivisions []string
	if len(h.Counties) > 0 {
		subdivisions = h.Counties
	}

	return contracts.HolidayRecord{
		Name:         h.Name,
		LocalName:    h.LocalName,
		Date:         date,
		CountryCode:  h.CountryCode,
		Types:        h.Types,
		Subdivisions: subdivisions,
	}, nil
}
