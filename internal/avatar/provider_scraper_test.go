package avatar

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avatard/internal/models"
	"avatard/internal/structures"
	"avatard/internal/testutil"
)

func scraperTestConfig(profileURL string, attempts int) *structures.Config {
	return &structures.Config{
		Providers: structures.ProviderConfig{
			ScraperTimeout:   15 * time.Second,
			ScraperAttempts:  attempts,
			ScraperRetryBase: time.Millisecond,
			ProfileURL:       profileURL,
		},
		Validation: structures.ValidationConfig{MaxBytes: 5000000},
	}
}

func TestExtractAvatarFromJSON_PriorityOrder(t *testing.T) {
	html := `{"avatarThumb":"http://cdn.example.com/thumb.jpg","avatarLarger":"http://cdn.example.com/large.jpg"}`
	assert.Equal(t, "http://cdn.example.com/large.jpg", extractAvatarFromJSON(html))
}

func TestExtractAvatarFromJSON_EscapedSlashes(t *testing.T) {
	html := `{"avatarMedium":"https:\/\/cdn.example.com\/medium.jpg"}`
	assert.Equal(t, "https://cdn.example.com/medium.jpg", extractAvatarFromJSON(html))
}

func TestExtractAvatarFromJSON_UnicodeEscapedSlashes(t *testing.T) {
	esc := "\\" + "u002F"
	html := fmt.Sprintf(`{"avatarLarger":"https:%s%scdn.example.com%spic.jpg"}`, esc, esc, esc)
	assert.Equal(t, "https://cdn.example.com/pic.jpg", extractAvatarFromJSON(html))
}

func TestExtractAvatarFromJSON_RejectsNonHTTP(t *testing.T) {
	assert.Empty(t, extractAvatarFromJSON(`{"avatarLarger":"data:image/png;base64,xxxx"}`))
	assert.Empty(t, extractAvatarFromJSON(`<html>no json here</html>`))
}

func TestExtractAvatarFromDOM(t *testing.T) {
	html := []byte(`<html><body><img data-e2e="user-avatar" src="http://cdn.example.com/dom.jpg"></body></html>`)
	assert.Equal(t, "http://cdn.example.com/dom.jpg", extractAvatarFromDOM(html))
}

func TestExtractAvatarFromDOM_SelectorPriority(t *testing.T) {
	html := []byte(`<html><body>
		<div class="avatar"><img src="http://cdn.example.com/generic.jpg"></div>
		<img data-e2e="user-avatar" src="http://cdn.example.com/primary.jpg">
	</body></html>`)
	assert.Equal(t, "http://cdn.example.com/primary.jpg", extractAvatarFromDOM(html))
}

func TestExtractAvatarFromDOM_NothingFound(t *testing.T) {
	assert.Empty(t, extractAvatarFromDOM([]byte(`<html><body><p>hello</p></body></html>`)))
}

func TestScraperProvider_FullFlow(t *testing.T) {
	avatarBody := strings.Repeat("x", 300)
	imgSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		fmt.Fprint(w, avatarBody)
	}))
	defer imgSrv.Close()

	var gotUA string
	pageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprintf(w, `<html>{"avatarLarger":"%s/pic.jpg"}</html>`, imgSrv.URL)
	}))
	defer pageSrv.Close()

	p := NewScraperProvider(scraperTestConfig(pageSrv.URL+"/@%s", 1), &testutil.MockLogger{})
	payload, err := p.Fetch(context.Background(), FetchRequest{Identity: "alice"})
	require.NoError(t, err)
	assert.Equal(t, avatarBody, string(payload.Bytes))
	assert.Equal(t, "image/jpeg", payload.ContentType)
	assert.Contains(t, gotUA, "Mozilla/5.0")
}

func TestScraperProvider_DOMFallbackFlow(t *testing.T) {
	imgSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		fmt.Fprint(w, strings.Repeat("y", 200))
	}))
	defer imgSrv.Close()

	pageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><img class="tiktok-avatar" src="%s/a.png"></body></html>`, imgSrv.URL)
	}))
	defer pageSrv.Close()

	p := NewScraperProvider(scraperTestConfig(pageSrv.URL+"/@%s", 1), &testutil.MockLogger{})
	payload, err := p.Fetch(context.Background(), FetchRequest{Identity: "bob"})
	require.NoError(t, err)
	assert.Equal(t, "image/png", payload.ContentType)
}

func TestScraperProvider_RetriesWithRotatedUserAgent(t *testing.T) {
	imgSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, strings.Repeat("z", 200))
	}))
	defer imgSrv.Close()

	var agents []string
	calls := 0
	pageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents = append(agents, r.Header.Get("User-Agent"))
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		fmt.Fprintf(w, `{"avatarThumb":"%s/t.jpg"}`, imgSrv.URL)
	}))
	defer pageSrv.Close()

	logger := &testutil.MockLogger{}
	p := NewScraperProvider(scraperTestConfig(pageSrv.URL+"/@%s", 2), logger)
	_, err := p.Fetch(context.Background(), FetchRequest{Identity: "carol"})
	require.NoError(t, err)

	require.Len(t, agents, 2)
	assert.NotEqual(t, agents[0], agents[1])
	assert.NotEmpty(t, logger.Logs, "failed attempt should be logged")
}

func TestScraperProvider_AllAttemptsFail(t *testing.T) {
	pageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer pageSrv.Close()

	p := NewScraperProvider(scraperTestConfig(pageSrv.URL+"/@%s", 2), &testutil.MockLogger{})
	_, err := p.Fetch(context.Background(), FetchRequest{Identity: "dave"})
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestScraperProvider_NoAvatarInPage(t *testing.T) {
	pageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>private account</p></body></html>`)
	}))
	defer pageSrv.Close()

	p := NewScraperProvider(scraperTestConfig(pageSrv.URL+"/@%s", 1), &testutil.MockLogger{})
	_, err := p.Fetch(context.Background(), FetchRequest{Identity: "erin"})
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestScraperProvider_SourceAndTimeout(t *testing.T) {
	p := NewScraperProvider(scraperTestConfig("http://example.com/@%s", 1), &testutil.MockLogger{})
	assert.Equal(t, models.SourceScraper, p.Source())
	assert.Equal(t, 15*time.Second, p.Timeout())
}
