package web

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RegisterLogger gives every request its own logger carrying the correlation
// id. It is stored in the gin context under "logger" and in the request
// context for zerolog.Ctx.
func RegisterLogger(logger *zerolog.Logger) func(c *gin.Context) {
	return func(c *gin.Context) {
		correlationId := c.MustGet("correlationId").(string)

		requestLogger := logger.
			With().
			Str("correlationId", correlationId).
			Logger()

		c.Set("logger", &requestLogger)
		c.Request = c.Request.WithContext(requestLogger.WithContext(c.Request.Context()))
	}
}
