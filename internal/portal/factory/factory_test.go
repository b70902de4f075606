package factory_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	portalErrors "bitbucket.org/crgw/agent-portal/internal/portal/errors"
	"bitbucket.org/crgw/agent-portal/internal/portal/factory"
	"bitbucket.org/crgw/agent-portal/internal/schema"
	"bitbucket.org/crgw/agent-portal/internal/tools/kvstore"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestGetPortal(t *testing.T) {
	t.Run("should validate portal ids", func(t *testing.T) {
		tests := []struct {
			id         string
			expectedId string
			valid      bool
		}{
			{"", "default", true},
			{"desk-1", "desk-1", true},
			{"Front_Desk", "Front_Desk", true},
			{strings.Repeat("a", 64), strings.Repeat("a", 64), true},
			{strings.Repeat("a", 65), "", false},
			{"desk 1", "", false},
			{"desk:1", "", false},
			{"../etc", "", false},
		}

		f := factory.NewFactory(factory.Options{Engine: kvstore.NewMemory()})

		for _, test := range tests {
			t.Run(test.id, func(t *testing.T) {
				portal, err := f.GetPortal(test.id)

				if !test.valid {
					assert.ErrorIs(t, err, portalErrors.ErrorInvalidPortalId)
					assert.Nil(t, portal)
					return
				}

				assert.Nil(t, err)
				assert.Equal(t, test.expectedId, portal.ID)
			})
		}
	})

	t.Run("should reuse a portal", func(t *testing.T) {
		f := factory.NewFactory(factory.Options{Engine: kvstore.NewMemory()})

		first, _ := f.GetPortal("desk-1")
		second, _ := f.GetPortal("desk-1")
		other, _ := f.GetPortal("desk-2")

		assert.Same(t, first, second)
		assert.NotSame(t, first, other)
	})

	t.Run("should keep portals apart", func(t *testing.T) {
		out := &bytes.Buffer{}
		log := zerolog.New(out)
		engine := kvstore.NewMemory()
		now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
		f := factory.NewFactory(factory.Options{Engine: engine, Now: func() time.Time { return now }})

		first, _ := f.GetPortal("desk-1")
		second, _ := f.GetPortal("desk-2")

		assert.Nil(t, first.Agent.SetName(context.TODO(), "Alex"))
		_, err := first.History.Append(context.TODO(), schema.HistoryRecord{ConfirmationNumber: "1"}, &log)
		assert.Nil(t, err)

		name, _ := second.Agent.Name(context.TODO())
		records, _ := second.History.Load(context.TODO(), &log)
		assert.Equal(t, "", name)
		assert.Len(t, records, 0)

		assert.ElementsMatch(t, []string{"portal:desk-1:agent-name", "portal:desk-1:sales-history"}, engine.Keys())
	})
}

func TestKey(t *testing.T) {
	assert.Equal(t, "portal:desk-1:sales-history", factory.Key("desk-1", "sales-history"))
}
