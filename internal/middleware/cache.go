package middleware

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// captureWriter tees the response body so a successful answer can be
// stored after the handler ran.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	cw.buf.Write(b)
	return cw.ResponseWriter.Write(b)
}

// ResponseCache caches one route's JSON response body in Redis under a
// fixed key, shared by all replicas. Built for GET /admin/event/map: the
// map is read on every operator screen refresh but only changes on admin
// mutations, which bust the key. A nil client disables caching.
type ResponseCache struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewResponseCache builds a cache for one route.
func NewResponseCache(rdb *redis.Client, key string, ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ResponseCache{rdb: rdb, key: key, ttl: ttl}
}

// Middleware serves the cached body when present and stores successful
// responses. Redis errors fail open on both sides: a broken cache only
// costs the store query it was saving.
func (rc *ResponseCache) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rc.rdb == nil {
				return next(c)
			}

			ctx := c.Request().Context()
			if body, err := rc.rdb.Get(ctx, rc.key).Bytes(); err == nil {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.JSONBlob(http.StatusOK, body)
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status == http.StatusOK {
				// Background context: the store should not be skipped just
				// because the operator's browser already hung up.
				_ = rc.rdb.SetEx(context.Background(), rc.key, cw.buf.String(), rc.ttl).Err()
			}
			return nil
		}
	}
}

// Bust returns middleware deleting the cached response after a successful
// mutation. Redis is shared, so one delete busts every replica at once.
func (rc *ResponseCache) Bust() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := next(c); err != nil {
				return err
			}
			if rc.rdb != nil && c.Response().Status < http.StatusBadRequest {
				_ = rc.rdb.Del(context.Background(), rc.key).Err()
			}
			return nil
		}
	}
}
