package config

import "time"

// CacheConfig defines the timing model of the seat resolution core.
//
// HotTTL bounds staleness during live reads; WarmupTTL keeps a pre-loaded
// roster alive from doors-open to the show itself. ActiveEventTTL bounds
// how long a deactivated event may still serve reads. Version is the
// config generation stamp: bumping it evicts every cached entry on its
// next read without a restart.
type CacheConfig struct {
	HotTTL         time.Duration // live-read entry lifetime
	WarmupTTL      time.Duration // pre-loaded entry lifetime
	ActiveEventTTL time.Duration // active-event pointer lifetime
	ResolutionTTL  time.Duration // client-facing expiresAt horizon
	StoreTimeout   time.Duration // per-read bound on cache-miss store queries
	EventMapTTL    time.Duration // admin event-map response cache lifetime
	Version        int           // config generation stamp
}

// LoadCacheConfig builds a CacheConfig from the environment. Defaults match
// the production show setup: 60s hot entries, 3h warmed entries, 30s
// active-event pointer.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		HotTTL:         envDur("CACHE_HOT_TTL", 60*time.Second),
		WarmupTTL:      envDur("CACHE_WARMUP_TTL", 3*time.Hour),
		ActiveEventTTL: envDur("CACHE_ACTIVE_EVENT_TTL", 30*time.Second),
		ResolutionTTL:  envDur("CACHE_RESOLUTION_TTL", 3*time.Hour),
		StoreTimeout:   envDur("CACHE_STORE_TIMEOUT", 500*time.Millisecond),
		EventMapTTL:    envDur("CACHE_EVENT_MAP_TTL", 30*time.Second),
		Version:        envInt("CONFIG_VERSION", 1),
	}
}
