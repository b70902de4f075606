package web

import (
	"context"
	"errors"
	"net/http"

	"bitbucket.org/crgw/agent-portal/internal/tools/middleware"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	legacyrouter "github.com/getkin/kin-openapi/routers/legacy"
	"github.com/gin-gonic/gin"
)

func LoadOpenapi(content []byte) (*openapi3.T, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(content)
	if err != nil {
		return nil, err
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, err
	}

	return doc, nil
}

// OpenapiValidator checks every request against the api definition. Routes
// the definition does not describe pass unchecked.
func OpenapiValidator(doc *openapi3.T) gin.HandlerFunc {
	router, err := legacyrouter.NewRouter(doc)
	if err != nil {
		panic(err)
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(c *gin.Context) {
		route, pathParams, err := router.FindRoute(c.Request)
		if errors.Is(err, routers.ErrPathNotFound) || errors.Is(err, routers.ErrMethodNotAllowed) {
			c.Next()
			return
		}
		if err != nil {
			middleware.HandleError(c, http.StatusBadRequest, "Request does not match the api definition", err)
			return
		}

		err = openapi3filter.ValidateRequest(c.Request.Context(), &openapi3filter.RequestValidationInput{
			Request:    c.Request,
			PathParams: pathParams,
			Route:      route,
			Options:    options,
		})
		if err != nil {
			middleware.HandleError(c, http.StatusBadRequest, "Request does not match the api definition", err)
			return
		}

		c.Next()
	}
}
