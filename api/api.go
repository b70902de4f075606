// Package api carries the OpenAPI definition of the service.
package api

import _ "embed"

//go:embed openapi.json
var Spec []byte
