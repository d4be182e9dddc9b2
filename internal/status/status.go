// Package status compiles FRIDAY's spoken status report: greeting with
// the time and date, weather for the home city, one local and one
// national headline, and a notification summary.
package status

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hammamikhairi/friday/internal/domain"
	"github.com/hammamikhairi/friday/internal/lines"
	"github.com/hammamikhairi/friday/internal/logger"
	"github.com/hammamikhairi/friday/internal/web"
)

// WeatherSource returns a weather phrase and never fails.
type WeatherSource interface {
	Weather(ctx context.Context, city string) string
}

// HeadlineSource returns the top headline of a locality.
type HeadlineSource interface {
	Headline(ctx context.Context, loc web.Locality) (string, error)
}

// Counts feeds the notification summary.
type Counts struct {
	UnreadEmails  int
	PendingAlerts int
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) { r.now = now }
}

// Reporter builds the status report.
type Reporter struct {
	city      string
	counts    Counts
	weather   WeatherSource
	headlines HeadlineSource
	now       func() time.Time
	log       *logger.Logger
}

// Compile-time interface check.
var _ domain.StatusReporter = (*Reporter)(nil)

func New(city string, counts Counts, weather WeatherSource, headlines HeadlineSource, log *logger.Logger, opts ...Option) *Reporter {
	r := &Reporter{
		city:      city,
		counts:    counts,
		weather:   weather,
		headlines: headlines,
		now:       time.Now,
		log:       log,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Daypart names the part of the day for hour (0-23).
func Daypart(hour int) string {
	switch {
	case hour >= 22 || hour < 5:
		return "late hours"
	case hour >= 17:
		return "evening"
	case hour >= 12:
		return "afternoon"
	default:
		return "morning"
	}
}

// Report gathers the sources concurrently and joins the phrases. Missing
// pieces are replaced by apologies, so the error is always nil.
func (r *Reporter) Report(ctx context.Context) (string, error) {
	now := r.now()

	weather := lines.WeatherUnavailable()
	local := lines.LocalHeadlineUnavailable()
	national := lines.NationalHeadlineUnavailable()

	var g errgroup.Group
	if r.weather != nil {
		g.Go(func() error {
			weather = r.weather.Weather(ctx, r.city)
			return nil
		})
	}
	if r.headlines != nil {
		g.Go(func() error {
			if h, err := r.headlines.Headline(ctx, web.LocalityLocal); err == nil {
				local = lines.LocalHeadline(h)
			} else {
				r.log.Warn("status: local headline: %v", err)
			}
			return nil
		})
		g.Go(func() error {
			if h, err := r.headlines.Headline(ctx, web.LocalityWorld); err == nil {
				national = lines.NationalHeadline(h)
			} else {
				r.log.Warn("status: national headline: %v", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	parts := []string{
		lines.StatusGreeting(Daypart(now.Hour()), now),
		weather,
		local,
		national,
		lines.Emails(r.counts.UnreadEmails),
		lines.Alerts(r.counts.PendingAlerts),
		lines.StandingBy(),
	}
	return strings.Join(parts, " "), nil
}
