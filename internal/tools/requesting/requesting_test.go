package requesting_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bitbucket.org/crgw/agent-portal/internal/schema"
	"bitbucket.org/crgw/agent-portal/internal/tools/requesting"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRequestErrors(t *testing.T) {
	t.Run("should pass through responses of any status", func(t *testing.T) {
		testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer testServer.Close()

		response, err := requesting.RequestErrors(http.Get(testServer.URL))

		assert.Nil(t, err)
		assert.Equal(t, http.StatusInternalServerError, response.StatusCode)
		assert.False(t, requesting.IsValidResponse(response.StatusCode))
		response.Body.Close()
	})

	t.Run("should classify timeouts", func(t *testing.T) {
		testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(50 * time.Millisecond)
		}))
		defer testServer.Close()

		client := &http.Client{Timeout: 5 * time.Millisecond}
		_, err := requesting.RequestErrors(client.Get(testServer.URL))

		assert.ErrorIs(t, err, requesting.ErrTimeout)
	})

	t.Run("should classify connection failures", func(t *testing.T) {
		testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := testServer.URL
		testServer.Close()

		_, err := requesting.RequestErrors(http.Get(url))

		assert.ErrorIs(t, err, requesting.ErrConnection)
	})
}

func TestTransports(t *testing.T) {
	t.Run("should log and forward correlation id", func(t *testing.T) {
		out := &bytes.Buffer{}
		log := zerolog.New(out)

		receivedCorrelationId := ""
		testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			receivedCorrelationId = r.Header.Get("x-correlation-id")
			w.WriteHeader(http.StatusCreated)
		}))
		defer testServer.Close()

		client := &http.Client{
			Transport: &requesting.InterceptorTransport{
				Transport: http.DefaultTransport,
				Middlewares: []requesting.TransportMiddleware{
					requesting.NewLoggingTransportMiddleware(&log, "booking-service"),
					requesting.NewCorrelationTransportMiddleware(),
					requesting.NewNewRelicTransportMiddleware(),
				},
			},
		}

		ctx := context.WithValue(context.Background(), schema.CorrelationIdKey, "correlation-1")
		request, _ := http.NewRequestWithContext(ctx, http.MethodPost, testServer.URL+"/create-booking", nil)

		response, err := client.Do(request)

		assert.Nil(t, err)
		assert.Equal(t, http.StatusCreated, response.StatusCode)
		assert.Equal(t, "correlation-1", receivedCorrelationId)
		assert.Equal(t, "", request.Header.Get("x-correlation-id"))
		assert.Contains(t, out.String(), `"label":"outgoing-request"`)
		assert.Contains(t, out.String(), `"destination":"booking-service"`)
		assert.Contains(t, out.String(), `"code":201`)
		response.Body.Close()
	})

	t.Run("should log failed requests", func(t *testing.T) {
		out := &bytes.Buffer{}
		log := zerolog.New(out)

		testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := testServer.URL
		testServer.Close()

		client := &http.Client{
			Transport: &requesting.InterceptorTransport{
				Middlewares: []requesting.TransportMiddleware{
					requesting.NewLoggingTransportMiddleware(&log, "booking-service"),
				},
			},
		}

		_, err := client.Get(url)

		assert.NotNil(t, err)
		assert.Contains(t, out.String(), `"error"`)
		assert.Contains(t, out.String(), `"code":0`)
	})
}
