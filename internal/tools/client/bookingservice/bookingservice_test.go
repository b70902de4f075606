package bookingservice_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bitbucket.org/crgw/agent-portal/internal/schema"
	"bitbucket.org/crgw/agent-portal/internal/tools/client"
	"bitbucket.org/crgw/agent-portal/internal/tools/client/bookingservice"
	"bitbucket.org/crgw/agent-portal/internal/tools/requesting"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func bookingRequestTemplate() schema.CreateBookingRequest {
	return schema.CreateBookingRequest{
		BookingDraft: schema.BookingDraft{
			ConfirmationNumber: "123456",
			GuestName:          "Jane Doe",
			GuestEmail:         "jane@example.com",
			GuestPhone:         "+1 555 000 0000",
			Timezone:           "America/New_York",
			PickupLocation:     "MCO",
			PickupDate:         "2026-11-01T10:00",
			DropoffLocation:    "MIA",
			DropoffDate:        "2026-11-05T10:00",
			VehicleCategory:    "Compact Sedan",
			VehicleModel:       "Toyota Corolla",
			SupplierName:       "Hertz",
			SupplierAmount:     "80.00",
			AgencyFee:          "20.00",
			AgentName:          "Alex",
			AgentCommission:    "5",
		},
		PaymentType:       schema.PaymentTypePayAtCounter,
		AmountToChargeNow: schema.Amount(2000),
	}
}

const expectedBookingRequest = `{
	"confirmationNumber": "123456",
	"guestName": "Jane Doe",
	"guestEmail": "jane@example.com",
	"guestPhone": "+1 555 000 0000",
	"timezone": "America/New_York",
	"pickupLocation": "MCO",
	"pickupDate": "2026-11-01T10:00",
	"dropoffLocation": "MIA",
	"dropoffDate": "2026-11-05T10:00",
	"vehicleCategory": "Compact Sedan",
	"vehicleModel": "Toyota Corolla",
	"supplierName": "Hertz",
	"supplierAmount": "80.00",
	"agencyFee": "20.00",
	"agentName": "Alex",
	"agentCommission": "5",
	"paymentType": "pay_at_counter",
	"amountToChargeNow": "20.00"
}`

func TestCreateBooking(t *testing.T) {
	out := &bytes.Buffer{}
	log := zerolog.New(out)

	var handlerFunc http.HandlerFunc
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerFunc(w, r)
	}))
	defer testServer.Close()

	t.Run("should build the booking request", func(t *testing.T) {
		handlerFuncCalled := false
		handlerFunc = func(w http.ResponseWriter, r *http.Request) {
			handlerFuncCalled = true

			assert.Equal(t, "/create-booking", r.RequestURI)
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "agent-portal", r.Header.Get("User-Agent"))
			assert.Equal(t, "correlation-1", r.Header.Get("x-correlation-id"))

			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, expectedBookingRequest, string(body))

			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"success":true,"link":"https://x/y"}`))
		}

		service, err := bookingservice.NewClient(client.WithBaseURL(testServer.URL + "/"))
		assert.Nil(t, err)

		ctx := context.WithValue(context.Background(), schema.CorrelationIdKey, "correlation-1")
		response, err := service.CreateBooking(ctx, bookingRequestTemplate(), &log)

		assert.Nil(t, err)
		assert.True(t, handlerFuncCalled)
		assert.True(t, response.Success)
		assert.Equal(t, "https://x/y", response.Link)
	})

	t.Run("should parse backend responses", func(t *testing.T) {
		tests := []struct {
			name            string
			code            int
			body            string
			expectedLink    string
			expectedStatus  int
			expectedMessage string
			rejected        bool
		}{
			{
				name:         "created",
				code:         http.StatusOK,
				body:         `{"success":true,"link":"https://x/y"}`,
				expectedLink: "https://x/y",
			},
			{
				name:         "created without link",
				code:         http.StatusCreated,
				body:         `{"success":true}`,
				expectedLink: "",
			},
			{
				name:            "declined with message",
				code:            http.StatusInternalServerError,
				body:            `{"success":false,"error":"Card declined"}`,
				expectedStatus:  http.StatusInternalServerError,
				expectedMessage: "Card declined",
				rejected:        true,
			},
			{
				name:            "success flag false on 200",
				code:            http.StatusOK,
				body:            `{"success":false,"error":"Invalid email"}`,
				expectedStatus:  http.StatusOK,
				expectedMessage: "Invalid email",
				rejected:        true,
			},
			{
				name:           "missing success flag",
				code:           http.StatusOK,
				body:           `{"link":"https://x/y"}`,
				expectedStatus: http.StatusOK,
				rejected:       true,
			},
			{
				name:           "success flag with bad status",
				code:           http.StatusBadGateway,
				body:           `{"success":true,"link":"https://x/y"}`,
				expectedStatus: http.StatusBadGateway,
				rejected:       true,
			},
			{
				name:           "not json",
				code:           http.StatusServiceUnavailable,
				body:           `<html>Application Error</html>`,
				expectedStatus: http.StatusServiceUnavailable,
				rejected:       true,
			},
		}

		service, _ := bookingservice.NewClient(client.WithBaseURL(testServer.URL))

		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				handlerFunc = func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(test.code)
					w.Write([]byte(test.body))
				}

				response, err := service.CreateBooking(context.Background(), bookingRequestTemplate(), &log)

				if !test.rejected {
					assert.Nil(t, err)
					assert.Equal(t, test.expectedLink, response.Link)
					return
				}

				var rejected *bookingservice.RejectedError
				assert.True(t, errors.As(err, &rejected))
				assert.Equal(t, test.expectedStatus, rejected.StatusCode)
				assert.Equal(t, test.expectedMessage, rejected.Message)
			})
		}
	})

	t.Run("should report timeouts", func(t *testing.T) {
		handlerFunc = func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(50 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		}

		service, _ := bookingservice.NewClient(
			client.WithBaseURL(testServer.URL),
			client.WithTimeout(5*time.Millisecond),
		)

		_, err := service.CreateBooking(context.Background(), bookingRequestTemplate(), &log)

		assert.ErrorIs(t, err, requesting.ErrTimeout)
	})

	t.Run("should report unreachable backend", func(t *testing.T) {
		closedServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := closedServer.URL
		closedServer.Close()

		service, _ := bookingservice.NewClient(client.WithBaseURL(url))

		_, err := service.CreateBooking(context.Background(), bookingRequestTemplate(), &log)

		assert.ErrorIs(t, err, requesting.ErrConnection)
	})

	t.Run("should refuse to start without base url", func(t *testing.T) {
		_, err := bookingservice.NewClient()
		assert.NotNil(t, err)
	})
}

func TestRejectedError(t *testing.T) {
	assert.Equal(t, "booking rejected with status 500: Card declined", (&bookingservice.RejectedError{StatusCode: 500, Message: "Card declined"}).Error())
	assert.Equal(t, "booking rejected with status 502", (&bookingservice.RejectedError{StatusCode: 502}).Error())
}
