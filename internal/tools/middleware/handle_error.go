package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// HandleError logs through the request logger and aborts with a JSON error body.
func HandleError(c *gin.Context, status int, message string, err error) {
	response := ErrorResponse{
		Message: message,
	}

	if err != nil {
		response.Error = err.Error()
		_ = c.Error(err)
	}

	if value, ok := c.Get("logger"); ok {
		if log, ok := value.(*zerolog.Logger); ok {
			event := log.Warn()
			if status >= 500 {
				event = log.Error()
			}

			event.
				Err(err).
				Int("code", status).
				Msg(message)
		}
	}

	c.AbortWithStatusJSON(status, response)
}
