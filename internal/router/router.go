// Package router registers the HTTP routes on an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/mosaicolive/mosaico/internal/config"
	"github.com/mosaicolive/mosaico/internal/handler"
	"github.com/mosaicolive/mosaico/internal/middleware"
)

// EventMapCacheKey is the shared Redis key for the cached event-map body.
const EventMapCacheKey = "mosaico:cache:event_map"

// Register wires every route. The public seat endpoint sits behind the
// rate limiter; everything that mutates state sits behind admin auth
// (pass-through when no secret is configured). rdb may be nil, which
// disables rate limiting and the event-map response cache.
func Register(e *echo.Echo, cfg config.Config, cacheCfg config.CacheConfig, rlCfg config.RateLimitConfig, rdb *redis.Client, sh *handler.SeatHandler, ah *handler.AdminHandler, auth *handler.AuthHandler) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	adminAuth := middleware.AdminAuth(cfg.JWTSecret)
	mapCache := middleware.NewResponseCache(rdb, EventMapCacheKey, cacheCfg.EventMapTTL)

	// Public device route.
	e.GET("/seat/:seat_id", sh.GetSeat, middleware.RateLimit(rlCfg, rdb))

	// Cache operator routes, historically mounted under /seat.
	e.POST("/seat/invalidate", sh.InvalidateSeat, adminAuth)
	e.POST("/seat/admin/events/:event_id/warmup", sh.WarmupEvent, adminAuth)

	// Admin mutation routes. Mutations bust the event-map response cache so
	// the operator screen never shows a stale roster for the cache TTL.
	if cfg.AuthEnabled() {
		e.POST("/admin/login", auth.Login)
	}
	g := e.Group("/admin", adminAuth)
	g.POST("/event", ah.CreateEvent, mapCache.Bust())
	g.POST("/seat-color", ah.SetSeatColor, mapCache.Bust())
	g.POST("/event/reset", ah.ResetEvent, mapCache.Bust())
	g.GET("/event/map", ah.EventMap, mapCache.Middleware())
	g.GET("/events/:event_id/seats", ah.EventRoster)
}
