package web

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/hammamikhairi/friday/internal/domain"
	"github.com/hammamikhairi/friday/internal/lines"
)

// WeatherProvider returns a spoken weather phrase for a city.
type WeatherProvider interface {
	Name() string
	Current(ctx context.Context, city string) (string, error)
}

// ── OpenWeatherMap ───────────────────────────────────────────────

// OpenWeather queries the OpenWeatherMap current-weather API.
type OpenWeather struct {
	base   string
	key    string
	client *http.Client
}

func NewOpenWeather(base, key string, client *http.Client) *OpenWeather {
	return &OpenWeather{base: strings.TrimRight(base, "/"), key: key, client: client}
}

func (o *OpenWeather) Name() string { return "openweathermap" }

type owmResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

func (o *OpenWeather) Current(ctx context.Context, city string) (string, error) {
	if o.key == "" {
		return "", domain.Unavailable("openweathermap", "no API key")
	}
	if city == "" {
		return "", domain.Unavailable("openweathermap", "no city")
	}
	q := url.Values{"q": {city}, "appid": {o.key}, "units": {"metric"}}
	var resp owmResponse
	if err := getJSON(ctx, o.client, "openweathermap", o.base+"/data/2.5/weather?"+q.Encode(), &resp); err != nil {
		return "", err
	}
	if resp.Main.Temp == nil || len(resp.Weather) == 0 || resp.Weather[0].Description == "" {
		return "", domain.NewFault(domain.FaultService, "openweathermap", domain.ErrNoResult)
	}
	name := resp.Name
	if name == "" {
		name = city
	}
	return lines.Weather(name, *resp.Main.Temp, strings.ToLower(resp.Weather[0].Description)), nil
}

// ── wttr.in ──────────────────────────────────────────────────────

// Wttr reads the one-line wttr.in summary. It needs no key.
type Wttr struct {
	base   string
	client *http.Client
}

func NewWttr(base string, client *http.Client) *Wttr {
	return &Wttr{base: strings.TrimRight(base, "/"), client: client}
}

func (w *Wttr) Name() string { return "wttr.in" }

func (w *Wttr) Current(ctx context.Context, city string) (string, error) {
	target := w.base + "/?format=3"
	if city != "" {
		target = fmt.Sprintf("%s/%s?format=3", w.base, url.PathEscape(city))
	}
	body, err := get(ctx, w.client, "wttr.in", target)
	if err != nil {
		return "", err
	}
	brief := strings.TrimRight(strings.TrimSpace(string(body)), ".")
	if brief == "" {
		return "", domain.NewFault(domain.FaultService, "wttr.in", domain.ErrNoResult)
	}
	return brief + ".", nil
}

// extractCity returns the text after the literal "in ", trimmed of
// trailing punctuation, or "" when there is none.
func extractCity(text string) string {
	_, after, ok := strings.Cut(text, "in ")
	if !ok {
		return ""
	}
	return strings.TrimRight(strings.TrimSpace(after), "?.! ")
}
