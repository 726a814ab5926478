package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"photoflow-backend/internal/shared/response"
	"photoflow-backend/pkg/cache"
)

// RateLimit is a fixed-window limiter backed by the shared cache, keyed
// by caller identity (service id when authenticated, client IP
// otherwise). Redis-backed so the budget survives restarts and is shared
// across replicas.
func RateLimit(c cache.Cache, limit int, window time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if limit <= 0 {
			ctx.Next()
			return
		}

		caller := ctx.GetString("service_id")
		if caller == "" {
			caller = ctx.GetString("client_ip")
		}
		if caller == "" {
			caller = ctx.ClientIP()
		}

		key := fmt.Sprintf("ratelimit:%s:%d", caller, time.Now().Unix()/int64(window.Seconds()))

		count, err := c.Increment(ctx.Request.Context(), key)
		if err != nil {
			// A broken limiter must not take the API down with it.
			log.Error().Err(err).Str("caller", caller).Msg("rate limiter unavailable, allowing request")
			ctx.Next()
			return
		}

		if count == 1 {
			if err := c.Expire(ctx.Request.Context(), key, window); err != nil {
				log.Error().Err(err).Str("key", key).Msg("failed to set rate limit window expiry")
			}
		}

		if count > int64(limit) {
			log.Warn().
				Str("caller", caller).
				Int64("count", count).
				Int("limit", limit).
				Msg("rate limit exceeded")
			response.TooManyRequests(ctx, "generation rate limit exceeded, retry later")
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}
