package middleware

import (
	"net/http"

	"bitbucket.org/crgw/agent-portal/internal/portal/factory"
	"bitbucket.org/crgw/agent-portal/internal/tools/middleware"
	"github.com/gin-gonic/gin"
)

type portalFactory interface {
	GetPortal(string) (*factory.Portal, error)
}

const (
	PortalKey    string = "portal"
	PortalHeader string = "X-Portal-Id"
)

func PreparePortal(f portalFactory) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		portal, err := f.GetPortal(ctx.GetHeader(PortalHeader))
		if err != nil {
			middleware.HandleError(ctx, http.StatusBadRequest, "Invalid portal id", err)
			return
		}

		ctx.Set(PortalKey, portal)
	}
}
