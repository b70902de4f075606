package web

import (
	"fmt"
	"net/http"

	"bitbucket.org/crgw/agent-portal/internal/tools/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func PanicRecovery(c *gin.Context) {
	gin.CustomRecoveryWithWriter(&recoveryWriter{
		logger: c.MustGet("logger").(*zerolog.Logger),
	}, func(c *gin.Context, err any) {
		message, ok := err.(string)
		if !ok {
			message = "Unknown error, panic recovered"
		}

		var cause error
		if e, ok := err.(error); ok {
			cause = e
		} else {
			cause = fmt.Errorf("panic: %v", err)
		}

		middleware.HandleError(c, http.StatusInternalServerError, message, cause)
	})(c)
}

type recoveryWriter struct {
	logger *zerolog.Logger
}

func (r *recoveryWriter) Write(p []byte) (n int, err error) {
	r.
		logger.
		Error().
		Str("label", "panic").
		Msg(string(p))

	return len(p), nil
}
