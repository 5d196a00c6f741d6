package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"todoapi/internal/core/telemetry"
	"todoapi/pkg"
	"todoapi/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const defaultRateLimitRoute = "default"

type RateLimiter struct {
	cache   *cache.Cache
	config  map[string]config.RateLimitConfig
	logger  *zap.Logger
	metrics *telemetry.AppMetrics
	mutex   sync.Mutex
}

type rateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

// NewRateLimiter keeps one fixed window counter per route and client ip.
// Routes are matched as "METHOD /path", then "/path", then "default".
func NewRateLimiter(configs map[string]config.RateLimitConfig, logger *zap.Logger, metrics *telemetry.AppMetrics) *RateLimiter {
	routes := make(map[string]config.RateLimitConfig, len(configs)+1)

	for route, limit := range configs {
		routes[route] = limit
	}

	if _, ok := routes[defaultRateLimitRoute]; !ok {
		routes[defaultRateLimitRoute] = config.GetDefaultConfig().RateLimitConfigs[defaultRateLimitRoute]
	}

	return &RateLimiter{
		cache:   cache.New(5*time.Minute, 10*time.Minute),
		config:  routes,
		logger:  logger,
		metrics: metrics,
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()

		if path == "" {
			path = c.Request.URL.Path
		}

		route, limit := rl.lookup(c.Request.Method, path)
		key := fmt.Sprintf("rate_limit:%s:%s", route, pkg.GetClientIP(c))

		allowed, remaining, resetTime := rl.check(key, limit, time.Now())

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(c.Request.Context(), path, "ip")
			}

			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", path),
				zap.Int("limit", limit.Requests),
				zap.Duration("window", limit.Window))

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"errors": []gin.H{{
					"message": fmt.Sprintf("too many requests: limit is %d per %v", limit.Requests, limit.Window),
					"extensions": gin.H{
						"code":       "RATE_LIMITED",
						"retryAfter": int(time.Until(resetTime).Seconds()),
					},
				}},
			})
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(c.Request.Context(), path, "ip")
		}

		c.Next()
	}
}

func (rl *RateLimiter) lookup(method, path string) (string, config.RateLimitConfig) {
	methodPath := method + " " + path

	if limit, ok := rl.config[methodPath]; ok {
		return methodPath, limit
	}

	if limit, ok := rl.config[path]; ok {
		return path, limit
	}

	return defaultRateLimitRoute, rl.config[defaultRateLimitRoute]
}

func (rl *RateLimiter) check(key string, limit config.RateLimitConfig, now time.Time) (bool, int, time.Time) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if cached, found := rl.cache.Get(key); found {
		entry := cached.(rateLimitEntry)

		if now.Before(entry.ResetTime) {
			if entry.Count >= limit.Requests {
				return false, 0, entry.ResetTime
			}

			entry.Count++
			rl.cache.Set(key, entry, time.Until(entry.ResetTime))

			return true, limit.Requests - entry.Count, entry.ResetTime
		}
	}

	entry := rateLimitEntry{
		Count:     1,
		ResetTime: now.Add(limit.Window),
	}
	rl.cache.Set(key, entry, limit.Window)

	return true, limit.Requests - 1, entry.ResetTime
}

func (rl *RateLimiter) ActiveEntries() int {
	return rl.cache.ItemCount()
}
