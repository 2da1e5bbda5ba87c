// Package nws fetches National Weather Service marine forecast products.
package nws

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/couchcryptid/marine-card/internal/config"
	"github.com/couchcryptid/marine-card/internal/domain"
	"github.com/couchcryptid/marine-card/internal/observability"
)

// zonePaths are the per-zone bulletin files under the tgftp text-product
// tree. The atlantic file doubles as the synopsis fallback.
var zonePaths = map[domain.Zone]string{
	domain.ZoneAtlantic:  "/data/forecasts/marine/coastal/am/amz711.txt",
	domain.ZoneNorthPR:   "/data/forecasts/marine/coastal/am/amz712.txt",
	domain.ZoneEastPR:    "/data/forecasts/marine/coastal/am/amz726.txt",
	domain.ZoneCaribbean: "/data/forecasts/marine/coastal/am/amz733.txt",
}

// combinedPath is the multi-zone coastal waters product carrying the
// synopsis block.
const combinedPath = "/data/raw/fz/fzca52.tjsj.cwf.sju.txt"

// gridpointPath is the San Juan office gridpoint whose first forecast
// period supplies the card's rain chance.
const gridpointPath = "/gridpoints/SJU/98,68/forecast"

// Client fetches bulletins from the NWS text-product server and the
// forecast API. All fetches are best-effort: failures are logged and
// counted, never returned, so a card can still be produced.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiBaseURL string
	userAgent  string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an NWS product client.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
		baseURL:    cfg.NWSBaseURL,
		apiBaseURL: cfg.NWSAPIBaseURL,
		userAgent:  cfg.UserAgent,
		metrics:    metrics,
		logger:     logger,
	}
}

// FetchBulletin retrieves one zone's forecast bulletin, or "" when the
// fetch fails.
func (c *Client) FetchBulletin(ctx context.Context, zone domain.Zone) string {
	path, ok := zonePaths[zone]
	if !ok {
		c.logger.Warn("no bulletin path for zone", "zone", zone)
		return ""
	}
	return c.fetchText(ctx, c.baseURL+path, string(zone))
}

// FetchSynopsisText retrieves the combined coastal waters product, falling
// back to the atlantic zone bulletin when the combined fetch comes back
// empty.
func (c *Client) FetchSynopsisText(ctx context.Context) string {
	if text := c.fetchText(ctx, c.baseURL+combinedPath, "combined"); text != "" {
		return text
	}
	return c.fetchText(ctx, c.baseURL+zonePaths[domain.ZoneAtlantic], "atlantic")
}

// FetchRainChance returns the precipitation probability of the current
// gridpoint forecast period, or nil when the API is unreachable or reports
// no value.
func (c *Client) FetchRainChance(ctx context.Context) *int {
	fullURL := c.apiBaseURL + gridpointPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		c.warnFetch("gridpoint", fullURL, err)
		return nil
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/geo+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.warnFetch("gridpoint", fullURL, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.warnFetch("gridpoint", fullURL, fmt.Errorf("status %d", resp.StatusCode))
		return nil
	}

	var forecast gridpointResponse
	if err := json.NewDecoder(resp.Body).Decode(&forecast); err != nil {
		c.warnFetch("gridpoint", fullURL, err)
		return nil
	}

	periods := forecast.Properties.Periods
	if len(periods) == 0 {
		return nil
	}
	return periods[0].ProbabilityOfPrecipitation.Value
}

func (c *Client) fetchText(ctx context.Context, fullURL, source string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		c.warnFetch(source, fullURL, err)
		return ""
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.warnFetch(source, fullURL, err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.warnFetch(source, fullURL, fmt.Errorf("status %d", resp.StatusCode))
		return ""
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.warnFetch(source, fullURL, err)
		return ""
	}
	return string(body)
}

func (c *Client) warnFetch(source, fullURL string, err error) {
	c.metrics.FetchFailures.WithLabelValues(source).Inc()
	c.logger.Warn("fetch failed", "source", source, "url", fullURL, "error", err)
}

// api.weather.gov gridpoint forecast response types.

type gridpointResponse struct {
	Properties struct {
		Periods []forecastPeriod `json:"periods"`
	} `json:"properties"`
}

type forecastPeriod struct {
	Name                       string   `json:"name"`
	ShortForecast              string   `json:"shortForecast"`
	ProbabilityOfPrecipitation popValue `json:"probabilityOfPrecipitation"`
}

type popValue struct {
	UnitCode string `json:"unitCode"`
	Value    *int   `json:"value"`
}
