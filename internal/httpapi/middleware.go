package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mobiledorms/mobiledorms-api/internal/ratelimit"
	log "github.com/sirupsen/logrus"
)

// RateLimit enforces the per-client request budget before any handler
// runs. Disallowed requests short-circuit with 429.
func RateLimit(manager *ratelimit.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ratelimit.ClientKey(c.Request)
		result, errAllow := manager.Allow(c.Request.Context(), key)
		if errAllow != nil {
			// Fail open: limiter trouble must not take the API down.
			log.WithError(errAllow).Warn("rate limit check failed")
			c.Next()
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		if !result.Allowed {
			Fail(c, http.StatusTooManyRequests, "Too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Recovery converts handler panics into the standard 500 envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logFailure(c, fmt.Errorf("panic: %v", recovered))
		Fail(c, http.StatusInternalServerError, "Internal server error")
		c.Abort()
	})
}

// MethodNotAllowed responds to requests using a method outside a route's
// allow-list, before auth or persistence are touched.
func MethodNotAllowed(c *gin.Context) {
	Fail(c, http.StatusMethodNotAllowed, "Method not allowed")
}

// NotFound responds to requests for unknown routes.
func NotFound(c *gin.Context) {
	Fail(c, http.StatusNotFound, "Not found")
}
