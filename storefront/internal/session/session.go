// Package session keeps each buyer's cart and checkout stores. In-memory
// state is authoritative; every mutation is mirrored to redis as a versioned
// JSON snapshot so a storefront restart restores open sessions.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	commonErrors "github.com/novadent/novadent/internal/common/errors"
	"github.com/novadent/novadent/internal/log"
	"github.com/novadent/novadent/storefront/internal/common/cache"
	"github.com/novadent/novadent/storefront/internal/common/otel"
	"github.com/novadent/novadent/storefront/internal/store"
)

const SnapshotVersion = 1

type Snapshot struct {
	Version  int                 `json:"version"`
	Cart     store.CartSnapshot  `json:"cart"`
	Checkout store.CheckoutState `json:"checkout"`
}

type Session struct {
	ID       string
	Cart     *store.Cart
	Checkout *store.Checkout
}

func newSession(id string) *Session {
	return &Session{ID: id, Cart: store.NewCart(), Checkout: store.NewCheckout()}
}

type Manager struct {
	cache    *redis.Client
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(cacheClient *redis.Client) *Manager {
	return &Manager{cache: cacheClient, sessions: map[string]*Session{}}
}

// Resolve returns the live session for id, falling back to the redis snapshot
// and finally to a fresh session. Snapshots with an unknown schema version are
// discarded rather than half-restored.
func (m *Manager) Resolve(c context.Context, id string) *Session {
	c, span := otel.Tracer.Start(c, "SessionManager Resolve")
	defer span.End()

	cacheKey := fmt.Sprintf(cache.KEY_SESSION, id)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "SessionManager Resolve").
		Str(log.KEY_SESSION_ID, id).
		Str(log.KEY_CACHE_KEY, cacheKey).
		Logger()

	m.mu.Lock()
	defer m.mu.Unlock()
	if session, ok := m.sessions[id]; ok {
		return session
	}

	session := newSession(id)
	m.sessions[id] = session

	logger = logger.With().Str(log.KEY_PROCESS, "finding session snapshot in cache").Logger()
	logger.Info().Msg("finding session snapshot in cache")
	jsonCache, err := m.cache.Get(c, cacheKey).Result()
	if err != nil {
		err = fmt.Errorf("failed finding session snapshot in cache with error=%w", err)
		logger.Info().Err(err).Msg(err.Error())
		return session
	}
	logger.Info().Msg("found session snapshot in cache")

	logger = logger.With().Str(log.KEY_PROCESS, "restoring session snapshot").Logger()
	logger.Info().Msg("restoring session snapshot")
	snapshot := Snapshot{}
	err = json.Unmarshal([]byte(jsonCache), &snapshot)
	if err != nil {
		err = fmt.Errorf("failed unmarshaling session snapshot with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return session
	}
	if snapshot.Version != SnapshotVersion {
		err = fmt.Errorf(
			"failed restoring snapshot version=%d with error=%w",
			snapshot.Version,
			commonErrors.ErrUnknownSnapshot,
		)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Int(log.KEY_SNAPSHOT_VERSION, snapshot.Version).Msg(err.Error())
		return session
	}
	session.Cart.Restore(snapshot.Cart)
	session.Checkout.Restore(snapshot.Checkout)
	logger.Info().Msg("restored session snapshot")

	return session
}

// Persist mirrors the session to redis. Cache failures are logged and
// swallowed: the in-memory mutation already happened and is never rolled back.
func (m *Manager) Persist(c context.Context, session *Session) {
	c, span := otel.Tracer.Start(c, "SessionManager Persist")
	defer span.End()

	cacheKey := fmt.Sprintf(cache.KEY_SESSION, session.ID)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "SessionManager Persist").
		Str(log.KEY_SESSION_ID, session.ID).
		Str(log.KEY_CACHE_KEY, cacheKey).
		Str(log.KEY_PROCESS, "persisting session snapshot").
		Logger()

	snapshot := Snapshot{
		Version:  SnapshotVersion,
		Cart:     session.Cart.Snapshot(),
		Checkout: session.Checkout.Snapshot(),
	}
	marshaled, err := json.Marshal(snapshot)
	if err != nil {
		err = fmt.Errorf("failed marshaling session snapshot with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}

	logger.Info().Msg("persisting session snapshot")
	err = m.cache.Set(c, cacheKey, marshaled, cache.TTL_SESSION).Err()
	if err != nil {
		err = fmt.Errorf("failed persisting session snapshot with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("persisted session snapshot")
}

// Drop removes the live session; the next Resolve starts from the snapshot.
func (m *Manager) Drop(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
