package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avatard/internal/controllers"
	"avatard/internal/models"
	"avatard/internal/providers"
	"avatard/internal/structures"
)

// --- minimal mocks for routes test ---

type routeTestLogger struct{}

func (m *routeTestLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *routeTestLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *routeTestLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *routeTestLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *routeTestLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *routeTestLogger) Close()                                                  {}

type routeTestCache struct{}

func (m *routeTestCache) Get(_ string) ([]byte, bool) { return nil, false }
func (m *routeTestCache) Set(_ string, _ []byte)      {}

type routeTestService struct{}

func (m *routeTestService) Resolve(_ context.Context, identity, _, _ string) *models.AvatarRecord {
	return &models.AvatarRecord{Identity: identity, Source: models.SourceInitials, Priority: 1}
}
func (m *routeTestService) Revalidate(_ context.Context, _ string) bool { return true }
func (m *routeTestService) RevalidateAll(_ context.Context, identities []string) map[string]bool {
	out := make(map[string]bool, len(identities))
	for _, id := range identities {
		out[id] = true
	}
	return out
}
func (m *routeTestService) ClearExpired() int                         { return 0 }
func (m *routeTestService) StoreStats() models.StoreStats             { return models.StoreStats{} }
func (m *routeTestService) HealthStats() map[string]models.HealthStat { return nil }

func TestInitRoutes_RegistersFourRoutes(t *testing.T) {
	ac := controllers.NewApiController(&routeTestLogger{}, &routeTestService{}, &routeTestCache{})

	router := InitRoutes(ac, &structures.Config{})
	routes := router.GetRoutes()

	require.Len(t, routes, 4)

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}

	assert.Contains(t, urls, "/profile/{identity}")
	assert.Contains(t, urls, "/profiles/revalidate")
	assert.Contains(t, urls, "/cache/clear-expired")
	assert.Contains(t, urls, "/status")
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	ac := controllers.NewApiController(&routeTestLogger{}, &routeTestService{}, &routeTestCache{})

	router := InitRoutes(ac, &structures.Config{})

	mux := http.NewServeMux()
	for _, r := range router.GetRoutes() {
		mux.Handle(r.Url, r.Handler)
	}

	// GET /profile/{identity} with POST should fail
	req := httptest.NewRequest(http.MethodPost, "/profile/alice", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	// POST /profiles/revalidate with GET should fail
	req = httptest.NewRequest(http.MethodGet, "/profiles/revalidate", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestInitRoutes_ProfilePathValue(t *testing.T) {
	ac := controllers.NewApiController(&routeTestLogger{}, &routeTestService{}, &routeTestCache{})

	mux := http.NewServeMux()
	for _, r := range InitRoutes(ac, &structures.Config{}).GetRoutes() {
		mux.Handle(r.Url, r.Handler)
	}

	req := httptest.NewRequest(http.MethodGet, "/profile/alice", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"username":"alice"`)
}
