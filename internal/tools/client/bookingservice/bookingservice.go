// Package bookingservice talks to the external booking and payment backend.
package bookingservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"bitbucket.org/crgw/agent-portal/internal/schema"
	"bitbucket.org/crgw/agent-portal/internal/tools/client"
	"bitbucket.org/crgw/agent-portal/internal/tools/requesting"
	"github.com/rs/zerolog"
)

const (
	destination       = "booking-service"
	createBookingPath = "/create-booking"
	maxResponseBytes  = 1 << 20
)

// RejectedError means the backend answered but did not create the booking.
// Message is whatever the backend reported, possibly empty.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("booking rejected with status %d", e.StatusCode)
	}

	return fmt.Sprintf("booking rejected with status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	options   *client.Options
	transport http.RoundTripper
}

func NewClient(optionFuncs ...client.OptionFunc) (*Client, error) {
	options, err := client.NewOptions(optionFuncs...)
	if err != nil {
		return nil, err
	}

	return &Client{
		options:   options,
		transport: http.DefaultTransport.(*http.Transport).Clone(),
	}, nil
}

func (c *Client) CreateBooking(
	ctx context.Context,
	params schema.CreateBookingRequest,
	logger *zerolog.Logger,
) (schema.CreateBookingResponse, error) {
	httpClient := &http.Client{
		Timeout: c.options.Timeout(),
		Transport: &requesting.InterceptorTransport{
			Transport: c.transport,
			Middlewares: []requesting.TransportMiddleware{
				requesting.NewLoggingTransportMiddleware(logger, destination),
				requesting.NewCorrelationTransportMiddleware(),
				requesting.NewNewRelicTransportMiddleware(),
			},
		},
	}

	body, err := json.Marshal(params)
	if err != nil {
		return schema.CreateBookingResponse{}, fmt.Errorf("encoding booking request: %w", err)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.options.BaseURL()+createBookingPath, bytes.NewReader(body))
	if err != nil {
		return schema.CreateBookingResponse{}, fmt.Errorf("building booking request: %w", err)
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	httpRequest.Header.Set("Accept", "application/json")
	httpRequest.Header.Set("User-Agent", c.options.Name())

	rs, err := requesting.RequestErrors(httpClient.Do(httpRequest))
	if err != nil {
		return schema.CreateBookingResponse{}, err
	}
	defer rs.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(rs.Body, maxResponseBytes))
	if err != nil {
		_, err = requesting.RequestErrors(nil, err)
		return schema.CreateBookingResponse{}, err
	}

	var response schema.CreateBookingResponse
	decodeErr := json.Unmarshal(bodyBytes, &response)

	if decodeErr != nil || !requesting.IsValidResponse(rs.StatusCode) || !response.Success {
		rejected := &RejectedError{
			StatusCode: rs.StatusCode,
		}
		if decodeErr == nil {
			rejected.Message = response.Error
		}

		return response, rejected
	}

	return response, nil
}
