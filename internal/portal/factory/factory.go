package factory

import (
	"fmt"
	"regexp"
	"sync"
	"time"

	"bitbucket.org/crgw/agent-portal/internal/agent"
	"bitbucket.org/crgw/agent-portal/internal/history"
	portalErrors "bitbucket.org/crgw/agent-portal/internal/portal/errors"
	"bitbucket.org/crgw/agent-portal/internal/submission"
	"bitbucket.org/crgw/agent-portal/internal/tools/kvstore"
)

const DefaultPortalId = "default"

var portalIdPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type Options struct {
	Engine         kvstore.Engine
	BookingClient  submission.BookingClient
	BookingTimeout time.Duration

	// Location renders history records of drafts without a usable timezone
	Location *time.Location

	Now func() time.Time
}

// Portal is everything one agent workstation keeps.
type Portal struct {
	ID         string
	History    *history.Store
	Agent      *agent.Store
	Submission *submission.Flow
}

type Factory struct {
	options Options
	portals map[string]*Portal
	sync.Mutex
}

func (f *Factory) GetPortal(id string) (*Portal, error) {
	if id == "" {
		id = DefaultPortalId
	}

	if !portalIdPattern.MatchString(id) {
		return nil, fmt.Errorf("%w: %q", portalErrors.ErrorInvalidPortalId, id)
	}

	f.Lock()
	defer f.Unlock()

	portal, ok := f.portals[id]
	if !ok {
		portal = f.build(id)
		f.portals[id] = portal
	}

	return portal, nil
}

func (f *Factory) build(id string) *Portal {
	historyStore := history.NewStore(f.options.Engine, Key(id, "sales-history"), f.options.Now)
	agentStore := agent.NewStore(f.options.Engine, Key(id, "agent-name"))

	return &Portal{
		ID:      id,
		History: historyStore,
		Agent:   agentStore,
		Submission: submission.NewFlow(submission.Options{
			Engine:         f.options.Engine,
			StateKey:       Key(id, "submission"),
			OutcomeKey:     Key(id, "submission-outcome"),
			Client:         f.options.BookingClient,
			History:        historyStore,
			Agent:          agentStore,
			BookingTimeout: f.options.BookingTimeout,
			Location:       f.options.Location,
			Now:            f.options.Now,
		}),
	}
}

func Key(portalId string, name string) string {
	return fmt.Sprintf("portal:%s:%s", portalId, name)
}

func NewFactory(o Options) *Factory {
	if o.Now == nil {
		o.Now = time.Now
	}

	return &Factory{
		options: o,
		portals: make(map[string]*Portal),
	}
}
