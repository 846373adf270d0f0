package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sportsmatch/backend/internal/config"
)

// Conditions is a best-effort weather snapshot for a venue.
type Conditions struct {
	Description string  `json:"description"`
	TempC       float64 `json:"temp_c"`
}

// Provider supplies weather context for outdoor reminders. A nil provider is
// a valid configuration: reminders simply go out without a weather clause.
type Provider interface {
	Current(ctx context.Context, lat, lon float64) (*Conditions, error)
}

// Client is a minimal OpenWeather client with response caching in Redis.
type Client struct {
	baseURL    string
	apiKey     string
	rdb        *redis.Client
	httpClient *http.Client
	cacheTTL   time.Duration
}

// NewClient constructs an OpenWeather client. Returns nil if not configured.
func NewClient(cfg *config.Config, rdb *redis.Client) *Client {
	if cfg == nil || cfg.OpenWeatherAPIKey == "" {
		return nil
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.OpenWeatherBaseURL, "/"),
		apiKey:     cfg.OpenWeatherAPIKey,
		rdb:        rdb,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cacheTTL:   time.Duration(cfg.WeatherCacheMinutes) * time.Minute,
	}
}

type openWeatherResponse struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
}

// Current returns current conditions at the given coordinates, serving from
// the Redis cache when a recent lookup for the same cell exists.
func (c *Client) Current(ctx context.Context, lat, lon float64) (*Conditions, error) {
	// Coordinates rounded to ~1km so nearby courts share one cache entry.
	cacheKey := fmt.Sprintf("weather:%.2f:%.2f", lat, lon)

	if c.rdb != nil {
		if cached, err := c.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cond Conditions
			if err := json.Unmarshal([]byte(cached), &cond); err == nil {
				return &cond, nil
			}
			// ignore a corrupt cache entry and refetch
		}
	}

	url := fmt.Sprintf("%s/data/2.5/weather?lat=%f&lon=%f&appid=%s&units=metric",
		c.baseURL, lat, lon, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("weather fetch: status %d: %s", resp.StatusCode, string(body))
	}

	var parsed openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("weather decode: %w", err)
	}

	cond := &Conditions{TempC: parsed.Main.Temp, Description: "unknown"}
	if len(parsed.Weather) > 0 && parsed.Weather[0].Description != "" {
		cond.Description = parsed.Weather[0].Description
	}

	if c.rdb != nil && c.cacheTTL > 0 {
		if b, err := json.Marshal(cond); err == nil {
			// cache best-effort; a Redis error just means a refetch next time
			c.rdb.Set(ctx, cacheKey, b, c.cacheTTL)
		}
	}
	return cond, nil
}
