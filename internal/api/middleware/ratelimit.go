package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jaydenshimshi/LineUp-sub000/pkg/utils"
)

// RateLimit throttles requests across the whole instance. Solves are CPU
// bound, letting an unbounded number run concurrently starves them all.
func RateLimit(requestsPerSecond float64, burst int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			utils.SendRateLimited(c, "Too many requests, slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}
