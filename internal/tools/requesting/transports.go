package requesting

import (
	"net/http"
	"time"

	"bitbucket.org/crgw/agent-portal/internal/schema"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

type TransportMiddleware func(http.RoundTripper) http.RoundTripper

type InterceptorTransport struct {
	Transport   http.RoundTripper
	Middlewares []TransportMiddleware
}

func (t *InterceptorTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	transport := t.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	for _, middleware := range t.Middlewares {
		transport = middleware(transport)
	}

	resp, err := transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

type LoggingTransportMiddleware struct {
	Transport   http.RoundTripper
	log         *zerolog.Logger
	destination string
}

func NewLoggingTransportMiddleware(log *zerolog.Logger, destination string) TransportMiddleware {
	return func(rt http.RoundTripper) http.RoundTripper {
		return &LoggingTransportMiddleware{
			log:         log,
			destination: destination,
			Transport:   rt,
		}
	}
}

func (t *LoggingTransportMiddleware) RoundTrip(req *http.Request) (*http.Response, error) {
	startTime := time.Now()

	message := t.log.Info().
		Str("label", "outgoing-request").
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("destination", t.destination)

	defer func() {
		message.
			Float64("duration", time.Since(startTime).Seconds()).
			Msg("")
	}()

	resp, err := t.Transport.RoundTrip(req)
	if err != nil {
		message.Str("error", err.Error()).Int("code", 0)
		return nil, err
	}

	message.Int("code", resp.StatusCode)

	return resp, nil
}

type CorrelationTransportMiddleware struct {
	Transport http.RoundTripper
}

// NewCorrelationTransportMiddleware forwards the correlation id found in the
// request context as x-correlation-id.
func NewCorrelationTransportMiddleware() TransportMiddleware {
	return func(rt http.RoundTripper) http.RoundTripper {
		return &CorrelationTransportMiddleware{
			Transport: rt,
		}
	}
}

func (t *CorrelationTransportMiddleware) RoundTrip(req *http.Request) (*http.Response, error) {
	correlationId, ok := req.Context().Value(schema.CorrelationIdKey).(string)
	if !ok || correlationId == "" || req.Header.Get("x-correlation-id") != "" {
		return t.Transport.RoundTrip(req)
	}

	// round trippers must not modify the caller's request
	outgoing := req.Clone(req.Context())
	outgoing.Header.Set("x-correlation-id", correlationId)

	return t.Transport.RoundTrip(outgoing)
}

// NewNewRelicTransportMiddleware records an external segment when the
// request context carries a New Relic transaction.
func NewNewRelicTransportMiddleware() TransportMiddleware {
	return func(rt http.RoundTripper) http.RoundTripper {
		return newrelic.NewRoundTripper(rt)
	}
}
