package requesting

import (
	"errors"
	"fmt"
	"net/http"
	"os"
)

var (
	ErrTimeout    = errors.New("request timed out")
	ErrConnection = errors.New("connection failed")
)

func IsValidResponse(code int) bool {
	return code >= 200 && code <= 299
}

// RequestErrors wraps the transport error of http.Client.Do with ErrTimeout
// or ErrConnection. Status codes are left to the caller.
func RequestErrors(response *http.Response, err error) (*http.Response, error) {
	if err != nil {
		if os.IsTimeout(err) {
			return nil, fmt.Errorf("%w: %s", ErrTimeout, err.Error())
		}

		return nil, fmt.Errorf("%w: %s", ErrConnection, err.Error())
	}

	return response, nil
}
