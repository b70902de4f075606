package web

import (
	"net/http"
	"time"

	"bitbucket.org/crgw/agent-portal/api"
	"bitbucket.org/crgw/agent-portal/internal/portal"
	"bitbucket.org/crgw/agent-portal/internal/portal/factory"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

type RouterDeps struct {
	Factory     *factory.Factory
	NewRelicApp *newrelic.Application
	Production  bool
}

func SetupRouter(log *zerolog.Logger, deps RouterDeps) *gin.Engine {
	startTime := time.Now()

	openApi, err := LoadOpenapi(api.Spec)
	if err != nil {
		panic(err)
	}

	if deps.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	if deps.NewRelicApp != nil {
		router.
			Use(nrgin.Middleware(deps.NewRelicApp)).
			Use(NewRelicTransaction)
	}

	router.
		Use(StartRequest).
		Use(CorrelationId).
		Use(RegisterLogger(log)).
		Use(TraceLog).
		Use(PanicRecovery).
		Use(OpenapiValidator(openApi))

	router.GET("/status", func(c *gin.Context) {
		response := struct {
			Uptime float64 `json:"uptime"`
		}{
			Uptime: time.Since(startTime).Seconds(),
		}

		c.JSON(http.StatusOK, response)
	})

	router.GET("/openapi.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", api.Spec)
	})

	pprof.Register(router)

	portal.RegisterRoutes(router, deps.Factory)

	return router
}
