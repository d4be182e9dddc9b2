// Package web answers utterances from online sources: the local clock,
// weather, news feeds, and open-domain lookups on Wikipedia and
// DuckDuckGo. Provider faults never escape; they turn into spoken
// apologies or fall through to the next source.
package web

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/hammamikhairi/friday/internal/domain"
	"github.com/hammamikhairi/friday/internal/lines"
	"github.com/hammamikhairi/friday/internal/logger"
)

// NoAnswer is what FetchAnswer returns when no source knew anything.
// Resolve never speaks it.
const NoAnswer = "Sorry, I couldn't find an answer."

// Option configures a Resolver.
type Option func(*Resolver)

// WithEndpoints overrides the API roots.
func WithEndpoints(e Endpoints) Option {
	return func(r *Resolver) { r.endpoints = e }
}

// WithOpenWeatherKey enables the OpenWeatherMap provider.
func WithOpenWeatherKey(key string) Option {
	return func(r *Resolver) { r.owmKey = key }
}

// WithDefaultCity sets the city used when the utterance names none.
func WithDefaultCity(city string) Option {
	return func(r *Resolver) { r.city = city }
}

// WithFeeds replaces the news sources.
func WithFeeds(feeds map[Locality][]string) Option {
	return func(r *Resolver) { r.feeds = feeds }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// WithSpeaker sets where Resolve voices answers.
func WithSpeaker(s domain.Speaker) Option {
	return func(r *Resolver) { r.speaker = s }
}

// WithHTTPClient replaces the shared HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) { r.client = c }
}

// Resolver is the web stage of the dispatch cascade.
type Resolver struct {
	endpoints Endpoints
	owmKey    string
	city      string
	feeds     map[Locality][]string
	now       func() time.Time
	speaker   domain.Speaker
	client    *http.Client
	log       *logger.Logger

	weather   []WeatherProvider
	knowledge []KnowledgeSource
	news      *News
	intents   []intentRule
}

// intentRule maps a keyword test to a structured answer. Rules are
// checked in order; the first match wins.
type intentRule struct {
	name   string
	match  func(text string) bool
	answer func(ctx context.Context, u domain.Utterance) string
}

// Compile-time interface check.
var _ domain.Stage = (*Resolver)(nil)

// New creates a Resolver.
func New(log *logger.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		endpoints: DefaultEndpoints(),
		feeds:     DefaultFeeds(),
		now:       time.Now,
		log:       log,
	}
	for _, o := range opts {
		o(r)
	}
	if r.client == nil {
		r.client = newHTTPClient()
	}

	if r.owmKey != "" {
		r.weather = append(r.weather, NewOpenWeather(r.endpoints.OpenWeather, r.owmKey, r.client))
	}
	r.weather = append(r.weather, NewWttr(r.endpoints.Wttr, r.client))
	r.knowledge = []KnowledgeSource{
		NewWikipedia(r.endpoints.Wikipedia, r.client),
		NewDuckDuckGo(r.endpoints.DuckDuckGo, r.client),
	}
	r.news = NewNews(r.feeds, r.client, log)

	r.intents = []intentRule{
		{"time", keyword("time"), r.timeAnswer},
		{"weather", keyword("weather"), r.weatherAnswer},
		{"news", keyword("news", "headlines"), r.newsAnswer},
	}
	return r
}

func keyword(words ...string) func(string) bool {
	return func(text string) bool {
		for _, w := range words {
			if strings.Contains(text, w) {
				return true
			}
		}
		return false
	}
}

func (r *Resolver) Name() string { return "web" }

// Resolve speaks a structured or looked-up answer. It declines only
// when no source had anything to say.
func (r *Resolver) Resolve(ctx context.Context, u domain.Utterance) (domain.DispatchResult, error) {
	answer, ok := r.TryAnswer(ctx, u)
	if !ok {
		answer = r.FetchAnswer(ctx, u.Raw)
		if answer == NoAnswer {
			r.log.Debug("web: [%s] no answer for %q", u.ShortID(), u.Raw)
			return domain.NotHandled, nil
		}
	}
	if r.speaker != nil {
		r.speaker.Say(ctx, answer)
	}
	return domain.Handled, nil
}

// TryAnswer handles the structured intents: time, weather, news.
func (r *Resolver) TryAnswer(ctx context.Context, u domain.Utterance) (string, bool) {
	for _, rule := range r.intents {
		if rule.match(u.Normalized) {
			r.log.Debug("web: [%s] intent %s", u.ShortID(), rule.name)
			return rule.answer(ctx, u), true
		}
	}
	return "", false
}

// FetchAnswer asks the knowledge sources in order and returns NoAnswer
// when none of them answers.
func (r *Resolver) FetchAnswer(ctx context.Context, query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return NoAnswer
	}
	for _, src := range r.knowledge {
		text, err := src.Lookup(ctx, query)
		if err != nil {
			if !errors.Is(err, domain.ErrNoResult) {
				r.log.Warn("web: %s lookup failed: %v", src.Name(), err)
			}
			continue
		}
		r.log.Debug("web: %s answered %q", src.Name(), query)
		return text
	}
	return NoAnswer
}

// Weather returns a weather phrase for city, or the default city when
// city is empty. The result is never empty.
func (r *Resolver) Weather(ctx context.Context, city string) string {
	if city == "" {
		city = r.city
	}
	for _, p := range r.weather {
		text, err := p.Current(ctx, city)
		if err != nil {
			r.log.Warn("web: weather via %s failed: %v", p.Name(), err)
			continue
		}
		return text
	}
	return lines.WeatherUnavailable()
}

// Headline returns the newest headline of the locality.
func (r *Resolver) Headline(ctx context.Context, loc Locality) (string, error) {
	return r.news.Headline(ctx, loc)
}

func (r *Resolver) timeAnswer(_ context.Context, _ domain.Utterance) string {
	return lines.TimeCheck(r.now())
}

func (r *Resolver) weatherAnswer(ctx context.Context, u domain.Utterance) string {
	return r.Weather(ctx, extractCity(u.Raw))
}

func (r *Resolver) newsAnswer(ctx context.Context, u domain.Utterance) string {
	titles, err := r.news.Titles(ctx, localityOf(u.Normalized))
	switch {
	case err != nil:
		r.log.Warn("web: news failed: %v", err)
		return lines.HeadlinesUnavailable()
	case len(titles) == 0:
		return lines.NoHeadlines()
	default:
		return lines.Headlines(titles)
	}
}
