package errors

import "errors"

var (
	ErrorInvalidPortalId = errors.New("invalid portal id")
	ErrorBadParams       = errors.New("bad request params")
)
