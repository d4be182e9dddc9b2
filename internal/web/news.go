package web

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/hammamikhairi/friday/internal/domain"
	"github.com/hammamikhairi/friday/internal/logger"
)

// Locality selects a feed list.
type Locality string

const (
	LocalityWorld Locality = "world"
	LocalityLocal Locality = "local"
)

const (
	perFeed  = 10
	maxTitle = 10
)

// DefaultFeeds are the RSS sources per locality.
func DefaultFeeds() map[Locality][]string {
	return map[Locality][]string{
		LocalityWorld: {
			"http://feeds.bbci.co.uk/news/world/rss.xml",
			"http://feeds.reuters.com/reuters/topNews",
			"http://rss.cnn.com/rss/edition.rss",
		},
		LocalityLocal: {
			"https://www.thehindu.com/news/national/feeder/default.rss",
			"https://indianexpress.com/feed/",
			"https://timesofindia.indiatimes.com/rssfeedstopstories.cms",
		},
	}
}

var localityKeywords = []string{"local", "city", "india", "indian", "national", "domestic"}

func localityOf(text string) Locality {
	for _, kw := range localityKeywords {
		if strings.Contains(text, kw) {
			return LocalityLocal
		}
	}
	return LocalityWorld
}

// ErrAllFeedsFailed is returned when no source of a locality answered.
var ErrAllFeedsFailed = errors.New("news: every feed failed")

// News aggregates headline feeds.
type News struct {
	feeds  map[Locality][]string
	client *http.Client
	log    *logger.Logger
}

func NewNews(feeds map[Locality][]string, client *http.Client, log *logger.Logger) *News {
	return &News{feeds: feeds, client: client, log: log}
}

type headline struct {
	title     string
	published *time.Time
}

// Titles fetches every feed of the locality concurrently and returns up
// to ten titles, newest first. Failing sources are skipped; only when
// all fail is ErrAllFeedsFailed returned.
func (n *News) Titles(ctx context.Context, loc Locality) ([]string, error) {
	sources := n.feeds[loc]
	if len(sources) == 0 {
		return nil, domain.Unavailable("news", "no feeds for "+string(loc))
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	results := make([][]headline, len(sources))
	failed := make([]bool, len(sources))
	var g errgroup.Group
	for i, src := range sources {
		g.Go(func() error {
			items, err := n.fetch(ctx, src)
			if err != nil {
				n.log.Warn("news: %s: %v", src, err)
				failed[i] = true
				return nil
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()

	allFailed := true
	var merged []headline
	for i := range sources {
		if !failed[i] {
			allFailed = false
		}
		merged = append(merged, results[i]...)
	}
	if allFailed {
		return nil, ErrAllFeedsFailed
	}
	return rank(merged), nil
}

// Headline returns the single newest title of the locality.
func (n *News) Headline(ctx context.Context, loc Locality) (string, error) {
	titles, err := n.Titles(ctx, loc)
	if err != nil {
		return "", err
	}
	if len(titles) == 0 {
		return "", domain.ErrNoResult
	}
	return titles[0], nil
}

func (n *News) fetch(ctx context.Context, src string) ([]headline, error) {
	fp := gofeed.NewParser()
	fp.Client = n.client
	fp.UserAgent = userAgent
	feed, err := fp.ParseURLWithContext(src, ctx)
	if err != nil {
		return nil, domain.NewFault(domain.FaultNetwork, "news", err)
	}
	var out []headline
	for _, item := range feed.Items {
		if len(out) == perFeed {
			break
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		out = append(out, headline{title: title, published: item.PublishedParsed})
	}
	return out, nil
}

// rank deduplicates by exact title (first seen wins), orders newest
// first with undated entries last, and keeps the top titles.
func rank(items []headline) []string {
	seen := make(map[string]bool, len(items))
	unique := make([]headline, 0, len(items))
	for _, h := range items {
		if seen[h.title] {
			continue
		}
		seen[h.title] = true
		unique = append(unique, h)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		a, b := unique[i].published, unique[j].published
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	if len(unique) > maxTitle {
		unique = unique[:maxTitle]
	}
	titles := make([]string, len(unique))
	for i, h := range unique {
		titles[i] = h.title
	}
	return titles
}
