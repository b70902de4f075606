package web

import (
	"context"

	"bitbucket.org/crgw/agent-portal/internal/schema"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const CorrelationIdHeader = "x-correlation-id"

// CorrelationId takes the correlation id from the request header or makes a
// new one. It is kept in the gin context, in the request context for
// outgoing calls, and echoed in the response.
func CorrelationId(c *gin.Context) {
	correlationId := c.GetHeader(CorrelationIdHeader)
	if correlationId == "" {
		correlationId = uuid.New().String()
	}

	c.Set("correlationId", correlationId)
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), schema.CorrelationIdKey, correlationId))
	c.Header(CorrelationIdHeader, correlationId)
}
