package middleware

import (
	"bitbucket.org/crgw/agent-portal/internal/portal/factory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func TapLogger(c *gin.Context) {
	portal := c.MustGet(PortalKey).(*factory.Portal)
	logger := c.MustGet("logger").(*zerolog.Logger)

	requestLogger := logger.
		With().
		Str("portalId", portal.ID).
		Str("operationId", uuid.New().String()).
		Logger()

	c.Set("logger", &requestLogger)
}
