package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hammamikhairi/friday/internal/domain"
)

// DefaultTimeout bounds every outbound request.
const DefaultTimeout = 8 * time.Second

const userAgent = "FRIDAY/1.0 (voice assistant)"

// Endpoints are the API roots used by the web providers. Tests point
// them at an httptest server.
type Endpoints struct {
	OpenWeather string
	Wttr        string
	Wikipedia   string
	DuckDuckGo  string
}

// DefaultEndpoints returns the public service roots.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		OpenWeather: "https://api.openweathermap.org",
		Wttr:        "https://wttr.in",
		Wikipedia:   "https://en.wikipedia.org",
		DuckDuckGo:  "https://api.duckduckgo.com",
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// get fetches url and returns the body of a 200 response.
func get(ctx context.Context, client *http.Client, op, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, domain.NewFault(domain.FaultNetwork, op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, domain.NewFault(domain.FaultNetwork, op, fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewFault(domain.FaultService, op, fmt.Errorf("status %s", resp.Status))
	}
	return body, nil
}

func getJSON(ctx context.Context, client *http.Client, op, url string, out any) error {
	body, err := get(ctx, client, op, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return domain.NewFault(domain.FaultService, op, fmt.Errorf("decode: %w", err))
	}
	return nil
}
