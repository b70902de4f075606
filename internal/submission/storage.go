package submission

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bitbucket.org/crgw/agent-portal/internal/schema"
	"bitbucket.org/crgw/agent-portal/internal/tools/kvstore"
)

const (
	markerLoading = "loading"
	markerSuccess = "success"
)

// storage keeps two keys per portal. The state key holds the marker of an
// attempt in flight or of a success still on display. The outcome key holds
// the JSON status of the last finished attempt.
type storage struct {
	engine     kvstore.Engine
	stateKey   string
	outcomeKey string
}

func (s *storage) AcquireLock(ctx context.Context, ttl time.Duration) (bool, error) {
	return s.engine.SetNX(ctx, s.stateKey, []byte(markerLoading), ttl)
}

func (s *storage) ReleaseLock(ctx context.Context) error {
	return s.engine.Del(ctx, s.stateKey)
}

func (s *storage) Marker(ctx context.Context) (string, error) {
	raw, err := s.engine.Get(ctx, s.stateKey)
	if err != nil {
		return "", fmt.Errorf("reading submission state: %w", err)
	}

	return string(raw), nil
}

func (s *storage) StoreSuccess(ctx context.Context, status schema.SubmissionStatus, display time.Duration) error {
	if err := s.storeOutcome(ctx, status, display); err != nil {
		return err
	}

	if err := s.engine.Set(ctx, s.stateKey, []byte(markerSuccess), display); err != nil {
		return fmt.Errorf("storing submission state: %w", err)
	}

	return nil
}

func (s *storage) StoreFailure(ctx context.Context, status schema.SubmissionStatus) error {
	outcomeErr := s.storeOutcome(ctx, status, 0)

	if err := s.ReleaseLock(ctx); err != nil {
		return fmt.Errorf("releasing submission state: %w", err)
	}

	return outcomeErr
}

// FetchOutcome returns nil when no attempt finished or the outcome can not be
// read back.
func (s *storage) FetchOutcome(ctx context.Context) (*schema.SubmissionStatus, error) {
	raw, err := s.engine.Get(ctx, s.outcomeKey)
	if err != nil {
		return nil, fmt.Errorf("reading submission outcome: %w", err)
	}

	if raw == nil {
		return nil, nil
	}

	var status schema.SubmissionStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, nil
	}

	return &status, nil
}

func (s *storage) ClearOutcome(ctx context.Context) error {
	if err := s.engine.Del(ctx, s.outcomeKey); err != nil {
		return fmt.Errorf("clearing submission outcome: %w", err)
	}

	return nil
}

func (s *storage) storeOutcome(ctx context.Context, status schema.SubmissionStatus, ttl time.Duration) error {
	raw, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("encoding submission outcome: %w", err)
	}

	if err := s.engine.Set(ctx, s.outcomeKey, raw, ttl); err != nil {
		return fmt.Errorf("storing submission outcome: %w", err)
	}

	return nil
}
