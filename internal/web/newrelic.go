package web

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// NewRelicTransaction makes the nrgin transaction reachable from the request
// context, where the redis hook and the outgoing round tripper look for it.
func NewRelicTransaction(c *gin.Context) {
	if txn := nrgin.Transaction(c); txn != nil {
		c.Request = c.Request.WithContext(newrelic.NewContext(c.Request.Context(), txn))
	}
}
