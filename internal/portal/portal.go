// Package portal exposes the booking form operations of every portal over
// HTTP. The portal is picked by the X-Portal-Id header.
package portal

import (
	"errors"
	"net/http"
	"strconv"

	"bitbucket.org/crgw/agent-portal/internal/history"
	portalErrors "bitbucket.org/crgw/agent-portal/internal/portal/errors"
	"bitbucket.org/crgw/agent-portal/internal/portal/factory"
	portalMiddleware "bitbucket.org/crgw/agent-portal/internal/portal/middleware"
	"bitbucket.org/crgw/agent-portal/internal/pricing"
	"bitbucket.org/crgw/agent-portal/internal/schema"
	"bitbucket.org/crgw/agent-portal/internal/submission"
	"bitbucket.org/crgw/agent-portal/internal/tools/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func RegisterRoutes(
	router *gin.Engine,
	portalFactory *factory.Factory,
) {
	group := router.Group(
		"/portal",
		portalMiddleware.PreparePortal(portalFactory),
		portalMiddleware.TapLogger,
	)

	group.GET("/form", func(ctx *gin.Context) {
		portal := ctx.MustGet(portalMiddleware.PortalKey).(*factory.Portal)

		name, err := portal.Agent.Name(ctx.Request.Context())
		if err != nil {
			middleware.HandleError(ctx, http.StatusServiceUnavailable, "Failed reading agent name", err)
			return
		}

		ctx.JSON(http.StatusOK, schema.FormOptions{
			AgentName:         name,
			Timezone:          schema.DefaultTimezone,
			VehicleCategory:   schema.DefaultVehicleCategory,
			PaymentType:       schema.PaymentTypePrepaid,
			Timezones:         schema.Timezones,
			VehicleCategories: schema.VehicleCategories,
		})
	})

	group.POST("/quote",
		portalMiddleware.PrepareParams(schema.QuoteRequestParams{}),
		func(ctx *gin.Context) {
			params, ok := ctx.MustGet(portalMiddleware.ParamsKey).(*schema.QuoteRequestParams)
			if !ok {
				middleware.HandleError(ctx, http.StatusInternalServerError, "Bad request params", portalErrors.ErrorBadParams)
				return
			}

			ctx.JSON(http.StatusOK, pricing.Compute(string(params.SupplierAmount), string(params.AgencyFee), params.PaymentType))
		},
	)

	group.POST("/bookings",
		portalMiddleware.PrepareParams(schema.BookingRequestParams{}),
		func(ctx *gin.Context) {
			portal := ctx.MustGet(portalMiddleware.PortalKey).(*factory.Portal)

			params, ok := ctx.MustGet(portalMiddleware.ParamsKey).(*schema.BookingRequestParams)
			if !ok {
				middleware.HandleError(ctx, http.StatusInternalServerError, "Bad request params", portalErrors.ErrorBadParams)
				return
			}

			logger := ctx.MustGet("logger").(*zerolog.Logger)

			status, err := portal.Submission.Submit(ctx.Request.Context(), params.BookingDraft, params.PaymentType, logger)
			if err != nil {
				handleSubmissionError(ctx, "Failed submitting booking", err)
				return
			}

			if status.State == schema.SubmissionStateError {
				ctx.JSON(http.StatusBadGateway, status)
				return
			}

			ctx.JSON(http.StatusOK, status)
		},
	)

	group.GET("/bookings/state", func(ctx *gin.Context) {
		portal := ctx.MustGet(portalMiddleware.PortalKey).(*factory.Portal)

		status, err := portal.Submission.Status(ctx.Request.Context())
		if err != nil {
			handleSubmissionError(ctx, "Failed reading submission state", err)
			return
		}

		ctx.JSON(http.StatusOK, status)
	})

	group.POST("/bookings/retry", func(ctx *gin.Context) {
		portal := ctx.MustGet(portalMiddleware.PortalKey).(*factory.Portal)

		status, err := portal.Submission.Retry(ctx.Request.Context())
		if err != nil {
			handleSubmissionError(ctx, "Failed retrying submission", err)
			return
		}

		ctx.JSON(http.StatusOK, status)
	})

	group.GET("/history", func(ctx *gin.Context) {
		portal := ctx.MustGet(portalMiddleware.PortalKey).(*factory.Portal)
		logger := ctx.MustGet("logger").(*zerolog.Logger)

		records, err := portal.History.Load(ctx.Request.Context(), logger)
		if err != nil {
			middleware.HandleError(ctx, http.StatusServiceUnavailable, "Failed reading sales history", err)
			return
		}

		ctx.JSON(http.StatusOK, history.Summarize(records))
	})

	group.DELETE("/history", func(ctx *gin.Context) {
		portal := ctx.MustGet(portalMiddleware.PortalKey).(*factory.Portal)

		confirmed, _ := strconv.ParseBool(ctx.Query("confirm"))

		err := portal.History.Clear(ctx.Request.Context(), confirmed)
		if errors.Is(err, history.ErrClearNotConfirmed) {
			middleware.HandleError(ctx, http.StatusPreconditionRequired, "Clear all sales history? Repeat with confirm=true", err)
			return
		}
		if err != nil {
			middleware.HandleError(ctx, http.StatusServiceUnavailable, "Failed clearing sales history", err)
			return
		}

		ctx.Status(http.StatusNoContent)
	})

	group.GET("/agent", func(ctx *gin.Context) {
		portal := ctx.MustGet(portalMiddleware.PortalKey).(*factory.Portal)

		name, err := portal.Agent.Name(ctx.Request.Context())
		if err != nil {
			middleware.HandleError(ctx, http.StatusServiceUnavailable, "Failed reading agent name", err)
			return
		}

		ctx.JSON(http.StatusOK, schema.AgentIdentity{AgentName: name})
	})

	group.PUT("/agent",
		portalMiddleware.PrepareParams(schema.AgentIdentity{}),
		func(ctx *gin.Context) {
			portal := ctx.MustGet(portalMiddleware.PortalKey).(*factory.Portal)

			params, ok := ctx.MustGet(portalMiddleware.ParamsKey).(*schema.AgentIdentity)
			if !ok {
				middleware.HandleError(ctx, http.StatusInternalServerError, "Bad request params", portalErrors.ErrorBadParams)
				return
			}

			if err := portal.Agent.SetName(ctx.Request.Context(), params.AgentName); err != nil {
				middleware.HandleError(ctx, http.StatusServiceUnavailable, "Failed storing agent name", err)
				return
			}

			name, err := portal.Agent.Name(ctx.Request.Context())
			if err != nil {
				middleware.HandleError(ctx, http.StatusServiceUnavailable, "Failed reading agent name", err)
				return
			}

			ctx.JSON(http.StatusOK, schema.AgentIdentity{AgentName: name})
		},
	)
}

func handleSubmissionError(ctx *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, submission.ErrSubmissionInProgress), errors.Is(err, submission.ErrAlreadySubmitted):
		middleware.HandleError(ctx, http.StatusConflict, message, err)
	default:
		middleware.HandleError(ctx, http.StatusServiceUnavailable, message, err)
	}
}
