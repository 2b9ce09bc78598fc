package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"menu-service/internal/common/errors"
	"menu-service/internal/common/logging"
)

// AdminTokenHeader carries the admin token on cache endpoints
const AdminTokenHeader = "X-Admin-Token"

// PurgeResponse reports how many keys a purge removed
type PurgeResponse struct {
	Pattern string `json:"pattern"`
	Deleted int64  `json:"deleted"`
}

// RequireAdmin rejects requests without the configured admin token
func (h *Handlers) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.adminToken == "" {
			h.writeError(w, r, errors.NotFoundError("route"))
			return
		}
		token := r.Header.Get(AdminTokenHeader)
		if subtle.ConstantTimeCompare([]byte(token), []byte(h.adminToken)) != 1 {
			h.writeError(w, r, errors.AuthError("invalid admin token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// FlushCache removes every cache entry
// @Summary Flush cache
// @Tags admin
// @Produce json
// @Security AdminToken
// @Success 200 {object} DeleteResponse
// @Failure 401 {object} DetailResponse
// @Failure 503 {object} DetailResponse
// @Router /admin/cache/flush [post]
func (h *Handlers) FlushCache(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Flush(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.logger.WithContext(r.Context()).Info("Cache flushed by admin request")
	writeJSON(w, http.StatusOK, DeleteResponse{Status: true, Message: "The cache has been flushed"})
}

// PurgeCache removes every cache key matching the pattern query parameter
// @Summary Purge cache keys
// @Tags admin
// @Produce json
// @Security AdminToken
// @Param pattern query string true "Glob pattern, e.g. entity:menu:*"
// @Success 200 {object} PurgeResponse
// @Failure 401 {object} DetailResponse
// @Failure 422 {object} DetailResponse
// @Router /admin/cache/purge [post]
func (h *Handlers) PurgeCache(w http.ResponseWriter, r *http.Request) {
	pattern := r.URL.Query().Get("pattern")
	n, err := h.cache.Purge(r.Context(), pattern)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.logger.WithContext(r.Context()).Info("Cache purged by admin request",
		logging.String("pattern", pattern),
		logging.Int64("deleted", n),
	)
	writeJSON(w, http.StatusOK, PurgeResponse{Pattern: pattern, Deleted: n})
}

// HealthCheck reports database and cache reachability
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"database":  "healthy",
		"cache":     "healthy",
	}
	code := http.StatusOK

	if err := h.db.Ping(r.Context()); err != nil {
		status["database"] = "unhealthy"
		status["status"] = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	// the API keeps serving from the database when the cache is down
	if err := h.cache.Ping(r.Context()); err != nil {
		status["cache"] = "unhealthy"
		if code == http.StatusOK {
			status["status"] = "degraded"
		}
	}

	writeJSON(w, code, status)
}
