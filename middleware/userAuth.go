package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"deskhive/utils"
)

const authCachePrefix = "auth:"

// JWTAuthUserMiddleware validates the bearer token and sets userID in the
// request context. Validated token hashes are cached in the dedicated auth
// Redis so repeat requests skip signature verification; a cached hash that
// does not match the presented token is rejected.
func JWTAuthUserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
					"code":  500,
				})
			}
		}()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		userID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		computedHash := utils.HashToken(tokenString)
		cacheKey := authCachePrefix + userID

		authCache := utils.GetAuthCacheClient()
		if authCache != nil {
			ctx := context.Background()
			cachedHash, err := authCache.Get(ctx, cacheKey).Result()
			switch {
			case err == nil:
				if cachedHash != computedHash {
					c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
						"error": "Token mismatch",
						"code":  0,
					})
					return
				}
				_ = authCache.Expire(ctx, cacheKey, time.Hour).Err()
			case err == redis.Nil:
				_ = authCache.Set(ctx, cacheKey, computedHash, time.Hour).Err()
			default:
				utils.GetLogger().Warn("auth cache lookup failed, continuing on token alone", zap.Error(err))
			}
		}

		c.Set("userID", userID)
		c.Next()
	}
}

// UserIDFromContext returns the authenticated user's ID set by
// JWTAuthUserMiddleware.
func UserIDFromContext(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
