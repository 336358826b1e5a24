package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultHTTPTimeout = 10 * time.Second
)

// HTTPLoader implements Loader by downloading calendar JSON from a URL template.
// The template may contain {country} and {year} placeholders, e.g.
// https://example.com/holidays/{country}/{year}.json
type HTTPLoader struct {
	urlTemplate string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewHTTPLoader creates a new HTTPLoader instance
func NewHTTPLoader(urlTemplate string, timeout time.Duration, logger *zap.Logger) *HTTPLoader {
	if timeout == 0 {
		timeout = defaultHTTPTimeout
	}

	return &HTTPLoader{
		urlTemplate: urlTemplate,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Load downloads the calendar for the country and year
func (hl *HTTPLoader) Load(ctx context.Context, country string, year int) (*HolidayCalendar, error) {
	country = NormalizeCountry(country)
	url := hl.buildURL(country, year)

	hl.logger.Debug("Fetching holiday calendar",
		zap.String("url", url),
		zap.String("country", country),
		zap.Int("year", year))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hl.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s %d", ErrNotFound, country, year)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar API returned status %d", resp.StatusCode)
	}

	var cal HolidayCalendar
	if err := json.NewDecoder(resp.Body).Decode(&cal); err != nil {
		return nil, fmt.Errorf("failed to parse calendar JSON: %w", err)
	}

	cal.Country = country
	if cal.Year == 0 {
		cal.Year = year
	}
	sortHolidays(cal.Holidays)

	hl.logger.Info("Holiday calendar downloaded",
		zap.String("country", country),
		zap.Int("year", year),
		zap.Int("holidays", len(cal.Holidays)))

	return &cal, nil
}

func (hl *HTTPLoader) buildURL(country string, year int) string {
	r := strings.NewReplacer(
		"{country}", country,
		"{year}", strconv.Itoa(year),
	)
	return r.Replace(hl.urlTemplate)
}
