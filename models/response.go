package models

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status       string `json:"status"` // "healthy" or "degraded"
	Uptime       string `json:"uptime"`
	CacheBackend string `json:"cache_backend"`
	CacheEntries int    `json:"cache_entries"`
	Version      string `json:"version"`
}
