package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hajimehoshi/go-mp3"

	"github.com/hammamikhairi/friday/internal/domain"
	"github.com/hammamikhairi/friday/internal/logger"
)

// Google Translate rejects requests longer than this.
const gttsMaxChars = 200

// GTTSOption configures the Google Translate TTS client.
type GTTSOption func(*GTTSClient)

// WithGTTSLang sets the language and regional host (e.g. "en", "co.in").
func WithGTTSLang(lang, tld string) GTTSOption {
	return func(c *GTTSClient) {
		if lang != "" {
			c.lang = lang
		}
		if tld != "" {
			c.tld = tld
		}
	}
}

// WithGTTSBaseURL overrides the endpoint. Used by tests.
func WithGTTSBaseURL(u string) GTTSOption {
	return func(c *GTTSClient) { c.baseURL = u }
}

// GTTSClient is the keyless Google Translate speech endpoint. It returns
// MP3 which is decoded locally for playback.
type GTTSClient struct {
	lang       string
	tld        string
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// Compile-time interface check.
var _ Synthesizer = (*GTTSClient)(nil)

// NewGTTSClient creates the client.
func NewGTTSClient(log *logger.Logger, opts ...GTTSOption) *GTTSClient {
	c := &GTTSClient{
		lang:       "en",
		tld:        "co.in",
		httpClient: &http.Client{Timeout: synthTimeout},
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.baseURL == "" {
		c.baseURL = fmt.Sprintf("https://translate.google.%s/translate_tts", c.tld)
	}
	return c
}

func (c *GTTSClient) Name() string     { return ProviderGTTS }
func (c *GTTSClient) Voice() string    { return c.lang + "-" + c.tld }
func (c *GTTSClient) Available() error { return nil }

// Synthesize fetches every ≤200 character piece and joins the decoded audio.
func (c *GTTSClient) Synthesize(ctx context.Context, text string) (PCM, error) {
	var parts []string
	for _, piece := range splitChunks(text, gttsMaxChars) {
		parts = append(parts, hardWrap(piece, gttsMaxChars)...)
	}
	clips := make([]PCM, 0, len(parts))
	for i, part := range parts {
		clip, err := c.fetch(ctx, part, i, len(parts))
		if err != nil {
			return PCM{}, err
		}
		clips = append(clips, clip)
	}
	return Concat(clips...), nil
}

func (c *GTTSClient) fetch(ctx context.Context, text string, idx, total int) (PCM, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", c.lang)
	q.Set("q", text)
	q.Set("total", strconv.Itoa(total))
	q.Set("idx", strconv.Itoa(idx))
	q.Set("textlen", strconv.Itoa(len([]rune(text))))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return PCM{}, fmt.Errorf("gtts: create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Referer", "http://translate.google.com/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return PCM{}, domain.NewFault(domain.FaultNetwork, "gtts", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return PCM{}, domain.NewFault(domain.FaultService, "gtts", fmt.Errorf("gtts error %d", resp.StatusCode))
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return PCM{}, domain.NewFault(domain.FaultNetwork, "gtts", err)
	}
	c.log.Debug("gtts: piece %d/%d -> %d bytes of mp3", idx+1, total, len(data))

	clip, err := decodeMP3(data)
	if err != nil {
		return PCM{}, domain.NewFault(domain.FaultService, "gtts", err)
	}
	return clip, nil
}

// decodeMP3 decodes to mono PCM. go-mp3 always yields 16-bit stereo.
func decodeMP3(data []byte) (PCM, error) {
	d, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return PCM{}, fmt.Errorf("decoding mp3: %w", err)
	}
	raw, err := io.ReadAll(d)
	if err != nil {
		return PCM{}, fmt.Errorf("decoding mp3: %w", err)
	}
	return pcmFromBytes(raw, d.SampleRate(), 2)
}

// hardWrap splits a run-on sentence that is still too long at word
// boundaries, or mid-word as a last resort.
func hardWrap(s string, limit int) []string {
	r := []rune(s)
	if len(r) <= limit {
		return []string{s}
	}
	var out []string
	for len(r) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if r[i] == ' ' {
				cut = i
				break
			}
		}
		out = append(out, string(r[:cut]))
		r = r[cut:]
		for len(r) > 0 && r[0] == ' ' {
			r = r[1:]
		}
	}
	if len(r) > 0 {
		out = append(out, string(r))
	}
	return out
}
