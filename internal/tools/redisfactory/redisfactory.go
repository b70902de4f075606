package redisfactory

import (
	"context"
	"fmt"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
)

// If the portal data ever has to be split, a new client function should be
// introduced next to PortalClient.

type Factory struct {
	portal *redis.Client
}

func New(portalURI string, app *newrelic.Application) (*Factory, error) {
	opt, err := redis.ParseURL(portalURI)
	if err != nil {
		return nil, fmt.Errorf("parsing portal redis uri: %w", err)
	}

	opt.DialTimeout = 4 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	portal := redis.NewClient(opt)

	if app != nil {
		portal.AddHook(&newRelicHook{})
	}

	return &Factory{
		portal: portal,
	}, nil
}

func (f *Factory) PortalClient() *redis.Client {
	return f.portal
}

func (f *Factory) Ping(ctx context.Context) error {
	return f.portal.Ping(ctx).Err()
}

func (f *Factory) Close() error {
	return f.portal.Close()
}

// newRelicHook records every command as a datastore segment of the
// transaction found in the command context.
type newRelicHook struct{}

func (h *newRelicHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h *newRelicHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if txn := newrelic.FromContext(ctx); txn != nil {
			segment := newrelic.DatastoreSegment{
				StartTime:  txn.StartSegmentNow(),
				Product:    newrelic.DatastoreRedis,
				Operation:  cmd.Name(),
				Collection: "portal",
			}
			defer segment.End()
		}
		return next(ctx, cmd)
	}
}

func (h *newRelicHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		if txn := newrelic.FromContext(ctx); txn != nil {
			segment := newrelic.DatastoreSegment{
				StartTime:  txn.StartSegmentNow(),
				Product:    newrelic.DatastoreRedis,
				Operation:  "pipeline",
				Collection: "portal",
			}
			defer segment.End()
		}
		return next(ctx, cmds)
	}
}
