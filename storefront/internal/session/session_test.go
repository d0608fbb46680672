package session

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/novadent/novadent/storefront/internal/common/cache"
	"github.com/novadent/novadent/storefront/internal/store"
)

func setup(t *testing.T, c context.Context) (*redis.Client, *testRedis.RedisContainer) {
	redisContainer, err := testRedis.Run(
		c,
		"redis:7.4.2-alpine3.21",
		testRedis.WithLogLevel(testRedis.LogLevelVerbose),
	)
	if err != nil {
		t.Fatalf("failed running redis container with error: %s", err)
	}

	redisConnStr, err := redisContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting redis connection string with error: %s", err)
	}

	redisOpt, err := redis.ParseURL(redisConnStr)
	if err != nil {
		t.Fatalf("failed parsing redis connection string with error: %s", err)
	}

	redisClient := redis.NewClient(redisOpt)
	if err = redisClient.Ping(c).Err(); err != nil {
		t.Fatalf("failed ping redis client with error: %s", err)
	}

	return redisClient, redisContainer
}

func teardown(t *testing.T, redisClient *redis.Client, redisContainer *testRedis.RedisContainer) {
	redisClient.Close()
	if err := testcontainers.TerminateContainer(redisContainer); err != nil {
		t.Fatalf("failed to terminate container: %s", err)
	}
}

func TestSessionSnapshotRoundTrip(t *testing.T) {
	c := context.Background()
	redisClient, redisContainer := setup(t, c)
	defer teardown(t, redisClient, redisContainer)

	manager := NewManager(redisClient)
	sessionId := uuid.NewString()

	session := manager.Resolve(c, sessionId)
	item := session.Cart.Add(uuid.New(), 3)
	session.Checkout.SetStep(store.StepBilling)
	session.Checkout.SetTermsAgreed(true)
	manager.Persist(c, session)

	// Drop the live session so the next resolve must restore from redis.
	manager.Drop(sessionId)
	restored := manager.Resolve(c, sessionId)

	items := restored.Cart.Items()
	assert.Len(t, items, 1)
	assert.Equal(t, item, items[0])
	assert.Equal(t, store.StepBilling, restored.Checkout.CurrentStep())
	assert.True(t, restored.Checkout.TermsAgreed())
}

func TestSessionResolveFresh(t *testing.T) {
	c := context.Background()
	redisClient, redisContainer := setup(t, c)
	defer teardown(t, redisClient, redisContainer)

	manager := NewManager(redisClient)

	session := manager.Resolve(c, uuid.NewString())

	assert.Empty(t, session.Cart.Items())
	assert.Equal(t, store.StepCartReview, session.Checkout.CurrentStep())
}

func TestSessionResolveSameInstance(t *testing.T) {
	c := context.Background()
	redisClient, redisContainer := setup(t, c)
	defer teardown(t, redisClient, redisContainer)

	manager := NewManager(redisClient)
	sessionId := uuid.NewString()

	first := manager.Resolve(c, sessionId)
	second := manager.Resolve(c, sessionId)

	assert.Same(t, first, second)
}

func TestSessionUnknownSnapshotVersionDiscarded(t *testing.T) {
	c := context.Background()
	redisClient, redisContainer := setup(t, c)
	defer teardown(t, redisClient, redisContainer)

	manager := NewManager(redisClient)
	sessionId := uuid.NewString()

	snapshot := Snapshot{Version: SnapshotVersion + 1}
	snapshot.Cart.Items = []store.CartItem{
		{ID: uuid.New(), ProductID: uuid.New(), Quantity: 5},
	}
	marshaled, err := json.Marshal(snapshot)
	if err != nil {
		t.Fatalf("failed marshaling snapshot with error: %s", err)
	}
	cacheKey := fmt.Sprintf(cache.KEY_SESSION, sessionId)
	if err := redisClient.Set(c, cacheKey, marshaled, cache.TTL_SESSION).Err(); err != nil {
		t.Fatalf("failed seeding snapshot with error: %s", err)
	}

	session := manager.Resolve(c, sessionId)

	assert.Empty(t, session.Cart.Items())
	assert.Equal(t, store.StepCartReview, session.Checkout.CurrentStep())
}
