package avatar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"avatard/internal/models"
	"avatard/internal/providers"
	"avatard/internal/structures"
)

const defaultProfileURL = "https://www.tiktok.com/@%s"

// userAgents are rotated across scrape attempts to reduce blocking.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// jsonAvatarPatterns are tried in this order; the first match wins.
var jsonAvatarPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"avatarLarger":"(.*?)"`),
	regexp.MustCompile(`"avatarMedium":"(.*?)"`),
	regexp.MustCompile(`"avatarThumb":"(.*?)"`),
}

// domAvatarSelectors are the markup fallback when no embedded JSON matches.
var domAvatarSelectors = []string{
	`img[data-e2e="user-avatar"]`,
	"img.tiktok-avatar",
	`span[data-e2e="user-avatar"] img`,
	`div[data-e2e="user-avatar"] img`,
	".avatar img",
	`img[alt*="avatar"]`,
	`img[src*="avatar"]`,
}

// ScraperProvider extracts an avatar URL from a public profile page and then
// downloads it. Extraction tries the embedded JSON field names first, then
// CSS selectors over the markup.
type ScraperProvider struct {
	client     *http.Client
	logger     providers.Logger
	profileURL string
	timeout    time.Duration
	attempts   int
	retryBase  time.Duration
	maxBytes   int
}

func NewScraperProvider(conf *structures.Config, logger providers.Logger) *ScraperProvider {
	profileURL := conf.Providers.ProfileURL
	if profileURL == "" {
		profileURL = defaultProfileURL
	}
	attempts := conf.Providers.ScraperAttempts
	if attempts <= 0 || attempts > len(userAgents) {
		attempts = len(userAgents)
	}
	retryBase := conf.Providers.ScraperRetryBase
	if retryBase <= 0 {
		retryBase = 2 * time.Second
	}
	maxBytes := conf.Validation.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &ScraperProvider{
		client:     &http.Client{},
		logger:     logger,
		profileURL: profileURL,
		timeout:    conf.Providers.ScraperTimeout,
		attempts:   attempts,
		retryBase:  retryBase,
		maxBytes:   maxBytes,
	}
}

func (p *ScraperProvider) Source() models.Source { return models.SourceScraper }

func (p *ScraperProvider) Timeout() time.Duration { return p.timeout }

func (p *ScraperProvider) Fetch(ctx context.Context, req FetchRequest) (*models.ImagePayload, error) {
	var lastErr error
	for attempt := 0; attempt < p.attempts; attempt++ {
		payload, err := p.scrapeOnce(ctx, req.Identity, userAgents[attempt%len(userAgents)])
		if err == nil {
			return payload, nil
		}
		lastErr = err
		p.logger.Debugf(providers.TypeResolve, "scrape attempt %d failed for %s: %s", attempt+1, req.Identity, err)

		if attempt+1 < p.attempts {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %s", ErrFetchFailed, ctx.Err())
			case <-time.After(p.retryBase + time.Duration(attempt)*time.Second):
			}
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("%w: no avatar found for %s", ErrFetchFailed, req.Identity)
	}
	return nil, lastErr
}

func (p *ScraperProvider) scrapeOnce(ctx context.Context, identity, userAgent string) (*models.ImagePayload, error) {
	pageURL := fmt.Sprintf(p.profileURL, identity)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: profile page status %d", ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFetchFailed, err)
	}

	avatarURL := extractAvatarFromJSON(string(body))
	if avatarURL == "" {
		avatarURL = extractAvatarFromDOM(body)
	}
	if avatarURL == "" {
		return nil, fmt.Errorf("%w: no avatar URL in profile page", ErrFetchFailed)
	}

	return downloadImage(ctx, p.client, avatarURL, p.maxBytes)
}

// extractAvatarFromJSON scans the embedded profile JSON for known avatar
// fields, in fixed priority order.
func extractAvatarFromJSON(html string) string {
	for _, pattern := range jsonAvatarPatterns {
		m := pattern.FindStringSubmatch(html)
		if m == nil {
			continue
		}
		url := strings.NewReplacer(`\u002F`, "/", `\/`, "/").Replace(m[1])
		if strings.HasPrefix(url, "http") {
			return url
		}
	}
	return ""
}

// extractAvatarFromDOM falls back to CSS selectors over the page markup.
func extractAvatarFromDOM(html []byte) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	if err != nil {
		return ""
	}
	for _, selector := range domAvatarSelectors {
		src, ok := doc.Find(selector).First().Attr("src")
		if ok && strings.HasPrefix(src, "http") {
			return src
		}
	}
	return ""
}
