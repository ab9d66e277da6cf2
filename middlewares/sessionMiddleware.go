package middlewares

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pragadastech/wms-ai-py2/config"
	"github.com/pragadastech/wms-ai-py2/utils"
)

const sessionCacheTTL = 30 * time.Minute

// Redis-backed session cache; swapped in tests.
var (
	sessionCacheGet = config.GetRedisValue
	sessionCachePut = config.SetRedisValue
)

// SessionMiddleware resolves the token header to a username. Validated
// sessions are cached in Redis so repeat requests skip the JWT parse;
// when the cache misses the token is validated and cached. Requests
// without a token pass through; protected routes check for the username
// themselves.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Request.Header.Get("token")
		if token == "" {
			c.Next()
			return
		}

		username, cached, err := sessionCacheGet("Token:" + token)
		if err == nil && cached {
			c.Request = c.Request.WithContext(utils.SetUsernameInContext(c.Request.Context(), username))
			c.Next()
			return
		}

		parsed, err := utils.JwtValidate(token)
		if err != nil || !parsed.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		claims, ok := parsed.Claims.(*utils.JwtCustomClaim)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		if err := sessionCachePut("Token:"+token, claims.Username, sessionCacheTTL); err != nil {
			config.LogError(config.GetLogger(), "middlewares", "SessionMiddleware", "caching session", nil, err)
		}

		c.Request = c.Request.WithContext(utils.SetUsernameInContext(c.Request.Context(), claims.Username))
		c.Next()
	}
}

// RequireSession rejects requests whose context has no authenticated user.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetUsernameFromContext(c.Request.Context()); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}
