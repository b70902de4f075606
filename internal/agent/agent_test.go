package agent_test

import (
	"context"
	"testing"

	"bitbucket.org/crgw/agent-portal/internal/agent"
	"bitbucket.org/crgw/agent-portal/internal/tools/kvstore"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

const agentKey = "portal:desk-1:agent-name"

func TestAgentStore(t *testing.T) {
	t.Run("should be empty before anything was stored", func(t *testing.T) {
		store := agent.NewStore(kvstore.NewMemory(), agentKey)

		name, err := store.Name(context.TODO())

		assert.Nil(t, err)
		assert.Equal(t, "", name)
	})

	t.Run("should remember the latest name", func(t *testing.T) {
		store := agent.NewStore(kvstore.NewMemory(), agentKey)

		assert.Nil(t, store.SetName(context.TODO(), "Alex"))
		assert.Nil(t, store.SetName(context.TODO(), "  Sam  "))

		name, err := store.Name(context.TODO())
		assert.Nil(t, err)
		assert.Equal(t, "Sam", name)
	})

	t.Run("should forget on blank name", func(t *testing.T) {
		store := agent.NewStore(kvstore.NewMemory(), agentKey)
		_ = store.SetName(context.TODO(), "Alex")

		assert.Nil(t, store.SetName(context.TODO(), " "))

		name, _ := store.Name(context.TODO())
		assert.Equal(t, "", name)
	})

	t.Run("should store as plain string without expiry", func(t *testing.T) {
		redisClient, redisMock := redismock.NewClientMock()
		store := agent.NewStore(kvstore.NewRedis(redisClient), agentKey)

		redisMock.ExpectSet(agentKey, []byte("Alex"), 0).SetVal("OK")
		redisMock.ExpectGet(agentKey).SetVal("Alex")

		assert.Nil(t, store.SetName(context.TODO(), "Alex"))
		name, err := store.Name(context.TODO())

		assert.Nil(t, err)
		assert.Equal(t, "Alex", name)
		assert.Nil(t, redisMock.ExpectationsWereMet())
	})

	t.Run("should surface storage errors", func(t *testing.T) {
		redisClient, redisMock := redismock.NewClientMock()
		store := agent.NewStore(kvstore.NewRedis(redisClient), agentKey)

		redisMock.ExpectGet(agentKey).SetErr(assert.AnError)

		_, err := store.Name(context.TODO())
		assert.ErrorIs(t, err, assert.AnError)
	})
}
