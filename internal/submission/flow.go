// Package submission drives one booking attempt of a portal from the form to
// the booking backend.
//
// idle -> loading -> success | error. error goes back to idle on retry,
// success goes back to idle once SuccessDisplay has passed.
package submission

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/crgw/agent-portal/internal/history"
	"bitbucket.org/crgw/agent-portal/internal/pricing"
	"bitbucket.org/crgw/agent-portal/internal/schema"
	"bitbucket.org/crgw/agent-portal/internal/tools/client"
	"bitbucket.org/crgw/agent-portal/internal/tools/client/bookingservice"
	"bitbucket.org/crgw/agent-portal/internal/tools/kvstore"
	"bitbucket.org/crgw/agent-portal/internal/tools/requesting"
	"bitbucket.org/crgw/agent-portal/internal/tools/slowlog"
	"github.com/rs/zerolog"
)

const (
	SuccessDisplay = 20 * time.Second

	// a crashed instance must not keep a portal in loading forever
	loadingMargin = 5 * time.Second

	MessageConnectionFailed = "Server Error. Check API connection."
	MessageBookingFailed    = "Failed to create booking"
)

var (
	ErrSubmissionInProgress = errors.New("a booking is already being submitted")
	ErrAlreadySubmitted     = errors.New("the booking was just submitted")
)

type BookingClient interface {
	CreateBooking(ctx context.Context, params schema.CreateBookingRequest, logger *zerolog.Logger) (schema.CreateBookingResponse, error)
}

type HistoryAppender interface {
	Append(ctx context.Context, record schema.HistoryRecord, log *zerolog.Logger) ([]schema.HistoryRecord, error)
}

type AgentNamer interface {
	SetName(ctx context.Context, name string) error
}

type Options struct {
	Engine     kvstore.Engine
	StateKey   string
	OutcomeKey string

	Client  BookingClient
	History HistoryAppender
	Agent   AgentNamer

	// BookingTimeout bounds the backend call. Zero means client.DefaultTimeout.
	BookingTimeout time.Duration

	// Location renders history records whose draft has no usable timezone.
	Location *time.Location

	Now func() time.Time
}

type Flow struct {
	storage        *storage
	client         BookingClient
	history        HistoryAppender
	agent          AgentNamer
	bookingTimeout time.Duration
	location       *time.Location
	now            func() time.Time
}

func NewFlow(o Options) *Flow {
	timeout := o.BookingTimeout
	if timeout <= 0 {
		timeout = client.DefaultTimeout
	}

	now := o.Now
	if now == nil {
		now = time.Now
	}

	return &Flow{
		storage: &storage{
			engine:     o.Engine,
			stateKey:   o.StateKey,
			outcomeKey: o.OutcomeKey,
		},
		client:         o.Client,
		history:        o.History,
		agent:          o.Agent,
		bookingTimeout: timeout,
		location:       o.Location,
		now:            now,
	}
}

// Submit returns the finished status. A failed booking is not an error: it
// comes back as a status in the error state.
func (f *Flow) Submit(
	ctx context.Context,
	draft schema.BookingDraft,
	selection schema.PaymentType,
	log *zerolog.Logger,
) (schema.SubmissionStatus, error) {
	acquired, err := f.storage.AcquireLock(ctx, f.bookingTimeout+loadingMargin)
	if err != nil {
		return schema.SubmissionStatus{}, err
	}

	if !acquired {
		return schema.SubmissionStatus{}, f.blocked(ctx)
	}

	// the attempt must finish and be recorded even if the caller goes away
	ctx = context.WithoutCancel(ctx)

	if err := f.storage.ClearOutcome(ctx); err != nil {
		log.Warn().Err(err).Msg("Unable to clear previous submission outcome")
	}

	selection = selection.OrDefault()
	amounts := pricing.ComputeDraft(draft, selection)

	if f.agent != nil {
		if err := f.agent.SetName(ctx, draft.AgentName); err != nil {
			log.Warn().Err(err).Msg("Unable to remember agent name")
		}
	}

	request := schema.CreateBookingRequest{
		BookingDraft:      draft,
		PaymentType:       selection,
		AmountToChargeNow: amounts.AmountToChargeNow,
	}

	response, err := f.createBooking(ctx, request, log)
	if err != nil {
		status := schema.SubmissionStatus{
			State:   schema.SubmissionStateError,
			Message: failureMessage(err),
		}

		log.Warn().
			Err(err).
			Str("confirmationNumber", draft.ConfirmationNumber).
			Msg("Booking failed")

		if err := f.storage.StoreFailure(ctx, status); err != nil {
			log.Err(err).Msg("Unable to store failed submission")
		}

		return status, nil
	}

	status := schema.SubmissionStatus{
		State:   schema.SubmissionStateSuccess,
		Link:    response.Link,
		Amounts: &amounts,
	}

	log.Info().
		Str("confirmationNumber", draft.ConfirmationNumber).
		Str("paymentType", string(selection)).
		Str("amountToChargeNow", amounts.AmountToChargeNow.String()).
		Msg("Booking created")

	if f.history != nil {
		record := history.NewRecord(draft, amounts.AmountToChargeNow, response.Link, f.now(), f.location)
		if _, err := f.history.Append(ctx, record, log); err != nil {
			log.Err(err).
				Str("confirmationNumber", draft.ConfirmationNumber).
				Msg("Booking created but could not be added to the sales history")
		}
	}

	if err := f.storage.StoreSuccess(ctx, status, SuccessDisplay); err != nil {
		log.Err(err).Msg("Unable to store successful submission")
	}

	return status, nil
}

func (f *Flow) Status(ctx context.Context) (schema.SubmissionStatus, error) {
	marker, err := f.storage.Marker(ctx)
	if err != nil {
		return schema.SubmissionStatus{}, err
	}

	switch marker {
	case markerLoading:
		return schema.SubmissionStatus{State: schema.SubmissionStateLoading}, nil
	case markerSuccess:
		outcome, err := f.storage.FetchOutcome(ctx)
		if err != nil {
			return schema.SubmissionStatus{}, err
		}
		if outcome != nil && outcome.State == schema.SubmissionStateSuccess {
			return *outcome, nil
		}
		return schema.SubmissionStatus{State: schema.SubmissionStateSuccess}, nil
	}

	outcome, err := f.storage.FetchOutcome(ctx)
	if err != nil {
		return schema.SubmissionStatus{}, err
	}

	if outcome != nil && outcome.State == schema.SubmissionStateError {
		return *outcome, nil
	}

	return schema.SubmissionStatus{State: schema.SubmissionStateIdle}, nil
}

// Retry dismisses an error. It does nothing when the portal is already idle.
func (f *Flow) Retry(ctx context.Context) (schema.SubmissionStatus, error) {
	marker, err := f.storage.Marker(ctx)
	if err != nil {
		return schema.SubmissionStatus{}, err
	}

	switch marker {
	case markerLoading:
		return schema.SubmissionStatus{}, ErrSubmissionInProgress
	case markerSuccess:
		return schema.SubmissionStatus{}, ErrAlreadySubmitted
	}

	if err := f.storage.ClearOutcome(ctx); err != nil {
		return schema.SubmissionStatus{}, err
	}

	return schema.SubmissionStatus{State: schema.SubmissionStateIdle}, nil
}

func (f *Flow) createBooking(
	ctx context.Context,
	request schema.CreateBookingRequest,
	log *zerolog.Logger,
) (schema.CreateBookingResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, f.bookingTimeout)
	defer cancel()

	slowLog := slowlog.CreateLoggerWithClock(log, f.now)
	slowLog.Start("booking:create")
	defer slowLog.Stop("booking:create")

	return f.client.CreateBooking(ctx, request, log)
}

// blocked tells why the state key is taken. A marker that expired in the
// meantime still counts as in progress.
func (f *Flow) blocked(ctx context.Context) error {
	marker, err := f.storage.Marker(ctx)
	if err != nil {
		return err
	}

	if marker == markerSuccess {
		return ErrAlreadySubmitted
	}

	return ErrSubmissionInProgress
}

func failureMessage(err error) string {
	if errors.Is(err, requesting.ErrTimeout) || errors.Is(err, requesting.ErrConnection) {
		return MessageConnectionFailed
	}

	var rejected *bookingservice.RejectedError
	if errors.As(err, &rejected) && rejected.Message != "" {
		return rejected.Message
	}

	return MessageBookingFailed
}
