// Package agent remembers the display name of the agent working a portal.
package agent

import (
	"context"
	"fmt"
	"strings"

	"bitbucket.org/crgw/agent-portal/internal/tools/kvstore"
)

type Store struct {
	engine kvstore.Engine
	key    string
}

func NewStore(engine kvstore.Engine, key string) *Store {
	return &Store{
		engine: engine,
		key:    key,
	}
}

// Name is empty when nothing was remembered yet.
func (s *Store) Name(ctx context.Context) (string, error) {
	raw, err := s.engine.Get(ctx, s.key)
	if err != nil {
		return "", fmt.Errorf("reading agent name: %w", err)
	}

	return string(raw), nil
}

func (s *Store) SetName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return s.engine.Del(ctx, s.key)
	}

	if err := s.engine.Set(ctx, s.key, []byte(name), 0); err != nil {
		return fmt.Errorf("storing agent name: %w", err)
	}

	return nil
}
