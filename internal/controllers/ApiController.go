package controllers

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"avatard/internal/models"
	"avatard/internal/providers"
	"avatard/internal/services"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ApiController struct {
	logger  providers.Logger
	service services.AvatarServiceInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, service services.AvatarServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

type profileResponse struct {
	Username      string    `json:"username"`
	Nickname      string    `json:"nickname"`
	AvatarURL     string    `json:"avatar_url"`
	AvatarDataURL string    `json:"avatar_data_url"`
	Source        string    `json:"source"`
	Priority      int       `json:"priority"`
	CachedAt      time.Time `json:"cached_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

type revalidateRequest struct {
	Identities []string `json:"identities"`
}

type revalidateResponse struct {
	Results     map[string]bool `json:"results"`
	Revalidated int             `json:"revalidated"`
	Failed      int             `json:"failed"`
	Total       int             `json:"total"`
}

type clearExpiredResponse struct {
	Removed int `json:"removed"`
}

type statusResponse struct {
	Cache     models.StoreStats            `json:"cache"`
	Providers map[string]models.HealthStat `json:"providers"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	gson, err := json.Marshal(body)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// GetProfile resolves an avatar for the identity in the path. Resolution
// never fails: worst case the response carries a generated initials avatar.
func (ac *ApiController) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity := r.PathValue("identity")
	if identity == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	displayName := r.URL.Query().Get("name")
	liveAvatarURL := r.URL.Query().Get("live")

	record := ac.service.Resolve(r.Context(), identity, displayName, liveAvatarURL)

	nickname := record.DisplayName
	if nickname == "" {
		nickname = record.Identity
	}

	writeJSON(w, http.StatusOK, profileResponse{
		Username:      record.Identity,
		Nickname:      nickname,
		AvatarURL:     record.AvatarURL,
		AvatarDataURL: record.DataURL(),
		Source:        string(record.Source),
		Priority:      record.Priority,
		CachedAt:      record.ResolvedAt,
		ExpiresAt:     record.ExpiresAt,
	})
}

// RevalidateProfiles re-resolves a list of identities and reports a
// structured partial-success map.
func (ac *ApiController) RevalidateProfiles(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload revalidateRequest
	err := json.NewDecoder(r.Body).Decode(&payload)
	if err != nil || len(payload.Identities) == 0 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	results := ac.service.RevalidateAll(r.Context(), payload.Identities)

	resp := revalidateResponse{Results: results, Total: len(results)}
	for _, ok := range results {
		if ok {
			resp.Revalidated++
		} else {
			resp.Failed++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ClearExpired removes all expired records and reports the exact count.
func (ac *ApiController) ClearExpired(w http.ResponseWriter, r *http.Request) {
	removed := ac.service.ClearExpired()
	ac.logger.Infof(providers.TypeApp, "Cleared %d expired records", removed)
	writeJSON(w, http.StatusOK, clearExpiredResponse{Removed: removed})
}

// GetStatus reports cache statistics and provider health. The response is
// short-lived cached since it is cheap to stale and hot under dashboards.
func (ac *ApiController) GetStatus(w http.ResponseWriter, r *http.Request) {
	if data, ok := ac.cache.Get("status"); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	resp := statusResponse{
		Cache:     ac.service.StoreStats(),
		Providers: ac.service.HealthStats(),
	}
	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set("status", gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}
