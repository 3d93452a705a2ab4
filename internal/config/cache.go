package config

import "time"

// HistoryCacheConfig defines settings for the booking-history cache.
// When Enabled is false or no Redis client is available, the service
// reads history straight from the database.  TTL bounds entry lifetime;
// MaxPages and PageSize bound how many keys a write-path invalidation
// clears per user.  Pages beyond MaxPages fall back to TTL expiry.
type HistoryCacheConfig struct {
	Enabled  bool
	TTL      time.Duration
	MaxPages int
	PageSize int
}

// LoadHistoryCacheConfig reads environment variables to build a
// HistoryCacheConfig.  Defaults match the write-path invalidation bound:
// five pages of five entries, five-minute TTL.
func LoadHistoryCacheConfig() HistoryCacheConfig {
	return HistoryCacheConfig{
		Enabled:  getenv("HISTORY_CACHE_ENABLED", "true") == "true",
		TTL:      parseDur(getenv("HISTORY_CACHE_TTL", "5m")),
		MaxPages: atoi(getenv("HISTORY_CACHE_MAX_PAGES", "5")),
		PageSize: atoi(getenv("HISTORY_CACHE_PAGE_SIZE", "5")),
	}
}
