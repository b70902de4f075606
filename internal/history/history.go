// Package history keeps the rolling sales log of a portal.
//
// The whole log is one JSON array under one key, newest record first.
// Records older than RetentionWindow are dropped on every load and the
// pruned list is written straight back.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
	_ "time/tzdata"

	"bitbucket.org/crgw/agent-portal/internal/pricing"
	"bitbucket.org/crgw/agent-portal/internal/schema"
	"bitbucket.org/crgw/agent-portal/internal/tools/converting"
	"bitbucket.org/crgw/agent-portal/internal/tools/kvstore"
	"github.com/rs/zerolog"
)

const (
	RetentionWindow = 30 * 24 * time.Hour

	DateLayout = "1/2/2006"
	TimeLayout = "3:04:05 PM"
)

var ErrClearNotConfirmed = errors.New("clearing the sales history was not confirmed")

type Store struct {
	engine kvstore.Engine
	key    string
	now    func() time.Time
	sync.Mutex
}

func NewStore(engine kvstore.Engine, key string, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}

	return &Store{
		engine: engine,
		key:    key,
		now:    now,
	}
}

// Load never fails on a missing or unreadable list, only when storage
// itself can not be reached.
func (s *Store) Load(ctx context.Context, log *zerolog.Logger) ([]schema.HistoryRecord, error) {
	s.Lock()
	defer s.Unlock()

	return s.load(ctx, log)
}

func (s *Store) Append(ctx context.Context, record schema.HistoryRecord, log *zerolog.Logger) ([]schema.HistoryRecord, error) {
	s.Lock()
	defer s.Unlock()

	records, err := s.load(ctx, log)
	if err != nil {
		return nil, err
	}

	records = append([]schema.HistoryRecord{record}, records...)

	if err := s.save(ctx, records); err != nil {
		return nil, fmt.Errorf("storing sales history: %w", err)
	}

	return records, nil
}

func (s *Store) Clear(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrClearNotConfirmed
	}

	s.Lock()
	defer s.Unlock()

	if err := s.engine.Del(ctx, s.key); err != nil {
		return fmt.Errorf("clearing sales history: %w", err)
	}

	return nil
}

func (s *Store) load(ctx context.Context, log *zerolog.Logger) ([]schema.HistoryRecord, error) {
	raw, err := s.engine.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("reading sales history: %w", err)
	}

	if raw == nil {
		return []schema.HistoryRecord{}, nil
	}

	var records []schema.HistoryRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		log.Warn().
			Err(err).
			Str("key", s.key).
			Msg("Unreadable sales history, starting from an empty list")
		return []schema.HistoryRecord{}, nil
	}

	kept := Prune(records, s.now())
	if len(kept) == len(records) {
		return kept, nil
	}

	if err := s.save(ctx, kept); err != nil {
		log.Warn().
			Err(err).
			Str("key", s.key).
			Msg("Unable to write back pruned sales history")
	}

	log.Debug().
		Int("pruned", len(records)-len(kept)).
		Str("key", s.key).
		Msg("Pruned expired sales history")

	return kept, nil
}

func (s *Store) save(ctx context.Context, records []schema.HistoryRecord) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return err
	}

	return s.engine.Set(ctx, s.key, raw, 0)
}

// Prune keeps records inside the retention window and every record without
// a timestamp.
func Prune(records []schema.HistoryRecord, now time.Time) []schema.HistoryRecord {
	cutoff := now.Add(-RetentionWindow).UnixMilli()

	kept := make([]schema.HistoryRecord, 0, len(records))
	for _, record := range records {
		if record.Timestamp != nil && *record.Timestamp < cutoff {
			continue
		}
		kept = append(kept, record)
	}

	return kept
}

// NewRecord renders date and time in the draft's timezone, or in fallback
// when the draft's timezone is unknown.
func NewRecord(
	draft schema.BookingDraft,
	charged schema.Amount,
	link string,
	at time.Time,
	fallback *time.Location,
) schema.HistoryRecord {
	location, err := time.LoadLocation(draft.Timezone)
	if err != nil || draft.Timezone == "" {
		location = fallback
	}
	if location == nil {
		location = time.UTC
	}

	local := at.In(location)

	return schema.HistoryRecord{
		Date:               local.Format(DateLayout),
		Time:               local.Format(TimeLayout),
		GuestName:          draft.GuestName,
		ConfirmationNumber: draft.ConfirmationNumber,
		Amount:             charged.String(),
		Link:               link,
		Timestamp:          converting.PointerToValue(at.UnixMilli()),
	}
}

func Summarize(records []schema.HistoryRecord) schema.HistoryResponse {
	var total schema.Amount
	for _, record := range records {
		total += schema.AmountFromFloat(pricing.ParseAmount(record.Amount))
	}

	return schema.HistoryResponse{
		Records:      records,
		Count:        len(records),
		TotalCharged: total,
	}
}
