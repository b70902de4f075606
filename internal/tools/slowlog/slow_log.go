// Package slowlog records how long named breakpoints of a request take.
package slowlog

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Logger interface {
	Start(name string)
	Stop(name string) time.Duration
}

type slowLogger struct {
	log           *zerolog.Logger
	now           func() time.Time
	ongoingTimers map[string]time.Time
	sync.Mutex
}

func (s *slowLogger) Start(name string) {
	s.Lock()
	s.ongoingTimers[name] = s.now()
	s.Unlock()
}

// Stop returns zero for a breakpoint that was never started.
func (s *slowLogger) Stop(name string) time.Duration {
	s.Lock()
	defer s.Unlock()

	start, ok := s.ongoingTimers[name]
	if !ok {
		s.log.Warn().
			Str("breakpoint_name", name).
			Msg("Stopped a breakpoint that was never started")
		return 0
	}

	duration := s.now().Sub(start)

	s.log.Debug().
		Float64("duration", duration.Seconds()).
		Str("breakpoint_name", name).
		Msg("")

	delete(s.ongoingTimers, name)

	return duration
}

func CreateLogger(log *zerolog.Logger) *slowLogger {
	return CreateLoggerWithClock(log, time.Now)
}

func CreateLoggerWithClock(log *zerolog.Logger, now func() time.Time) *slowLogger {
	if now == nil {
		now = time.Now
	}

	logger := log.With().Str("label", "slowlog").Logger()
	return &slowLogger{
		log:           &logger,
		now:           now,
		ongoingTimers: make(map[string]time.Time),
	}
}
