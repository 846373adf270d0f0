package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sportsmatch/backend/internal/config"
)

func testClient(baseURL string) *Client {
	return NewClient(&config.Config{
		OpenWeatherBaseURL:  baseURL,
		OpenWeatherAPIKey:   "test-key",
		WeatherCacheMinutes: 0,
	}, nil)
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if c := NewClient(&config.Config{OpenWeatherBaseURL: "https://example.com"}, nil); c != nil {
		t.Errorf("client without an API key must be nil")
	}
	if c := NewClient(nil, nil); c != nil {
		t.Errorf("client without config must be nil")
	}
}

func TestCurrentParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.RawQuery, "appid=test-key") || !strings.Contains(r.URL.RawQuery, "units=metric") {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"weather":[{"description":"light rain"}],"main":{"temp":17.4}}`))
	}))
	defer srv.Close()

	cond, err := testClient(srv.URL).Current(context.Background(), 0.33, 32.58)
	if err != nil {
		t.Fatalf("current failed: %v", err)
	}
	if cond.Description != "light rain" || cond.TempC != 17.4 {
		t.Errorf("unexpected conditions: %+v", cond)
	}
}

func TestCurrentDefaultsUnknownDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"weather":[],"main":{"temp":21}}`))
	}))
	defer srv.Close()

	cond, err := testClient(srv.URL).Current(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("current failed: %v", err)
	}
	if cond.Description != "unknown" {
		t.Errorf("expected unknown description, got %q", cond.Description)
	}
}

func TestCurrentSurfacesUpstreamErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"cod":401}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).Current(context.Background(), 0, 0); err == nil {
		t.Errorf("expected an error on upstream failure")
	}
}
