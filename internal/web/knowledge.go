package web

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/hammamikhairi/friday/internal/domain"
)

// KnowledgeSource answers an open-domain question.
type KnowledgeSource interface {
	Name() string
	Lookup(ctx context.Context, query string) (string, error)
}

// ── Wikipedia ────────────────────────────────────────────────────

const summarySentences = 3

// Wikipedia finds the best matching article and returns the opening
// sentences of its summary.
type Wikipedia struct {
	base   string
	client *http.Client
}

func NewWikipedia(base string, client *http.Client) *Wikipedia {
	return &Wikipedia{base: strings.TrimRight(base, "/"), client: client}
}

func (w *Wikipedia) Name() string { return "wikipedia" }

type wikiSearch struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type wikiSummary struct {
	Extract string `json:"extract"`
}

func (w *Wikipedia) Lookup(ctx context.Context, query string) (string, error) {
	q := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {"1"},
		"format":   {"json"},
	}
	var search wikiSearch
	if err := getJSON(ctx, w.client, "wikipedia", w.base+"/w/api.php?"+q.Encode(), &search); err != nil {
		return "", err
	}
	if len(search.Query.Search) == 0 {
		return "", domain.ErrNoResult
	}

	title := strings.ReplaceAll(search.Query.Search[0].Title, " ", "_")
	var summary wikiSummary
	if err := getJSON(ctx, w.client, "wikipedia", w.base+"/api/rest_v1/page/summary/"+url.PathEscape(title), &summary); err != nil {
		return "", err
	}
	text := firstSentences(summary.Extract, summarySentences)
	if text == "" {
		return "", domain.ErrNoResult
	}
	return text, nil
}

// firstSentences keeps the first n sentences of text. A sentence ends at
// '.', '!' or '?' followed by whitespace or the end of the text.
func firstSentences(text string, n int) string {
	text = strings.TrimSpace(text)
	count := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if i+1 == len(text) || text[i+1] == ' ' || text[i+1] == '\n' {
				count++
				if count == n {
					return text[:i+1]
				}
			}
		}
	}
	return text
}

// ── DuckDuckGo ───────────────────────────────────────────────────

// DuckDuckGo queries the Instant Answer API.
type DuckDuckGo struct {
	base   string
	client *http.Client
}

func NewDuckDuckGo(base string, client *http.Client) *DuckDuckGo {
	return &DuckDuckGo{base: strings.TrimRight(base, "/"), client: client}
}

func (d *DuckDuckGo) Name() string { return "duckduckgo" }

type ddgTopic struct {
	Text   string     `json:"Text"`
	Topics []ddgTopic `json:"Topics"`
}

type ddgResponse struct {
	AbstractText  string     `json:"AbstractText"`
	RelatedTopics []ddgTopic `json:"RelatedTopics"`
}

func (d *DuckDuckGo) Lookup(ctx context.Context, query string) (string, error) {
	q := url.Values{
		"q":           {query},
		"format":      {"json"},
		"no_redirect": {"1"},
		"no_html":     {"1"},
	}
	var resp ddgResponse
	if err := getJSON(ctx, d.client, "duckduckgo", d.base+"/?"+q.Encode(), &resp); err != nil {
		return "", err
	}
	if text := strings.TrimSpace(resp.AbstractText); text != "" {
		return text, nil
	}
	if text := firstTopicText(resp.RelatedTopics); text != "" {
		return text, nil
	}
	return "", domain.ErrNoResult
}

func firstTopicText(topics []ddgTopic) string {
	for _, t := range topics {
		if text := strings.TrimSpace(t.Text); text != "" {
			return text
		}
		if text := firstTopicText(t.Topics); text != "" {
			return text
		}
	}
	return ""
}
