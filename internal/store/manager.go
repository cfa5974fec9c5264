package store

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"storefront/internal/domain"
	"storefront/internal/logging"
)

// DefaultCacheSize bounds the number of idle scopes kept open when none is configured.
const DefaultCacheSize = 1024

// Manager owns every open Store, one per scope. A scope is leased between
// Acquire and Release; while any lease is held every caller gets the same
// Store, even if the idle cache has evicted it or never kept it. Idle stores
// stay in an LRU cache and are dropped least-recently-used first.
type Manager struct {
	repo   Repository
	logger *zap.Logger
	stores *lru.Cache
	group  singleflight.Group

	mu     sync.Mutex
	leases map[string]*lease
}

type lease struct {
	store *Store
	refs  int
}

// NewManager builds a Manager keeping at most size idle scopes open.
func NewManager(repo Repository, size int, logger *zap.Logger) (*Manager, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("init store cache: %w", err)
	}
	return &Manager{
		repo:   repo,
		logger: logging.OrNop(logger),
		stores: cache,
		leases: make(map[string]*lease),
	}, nil
}

// Acquire returns the Store for scope and takes a lease on it; every call
// must be paired with Release. Concurrent first uses of the same scope share
// a single open. A store whose backend could not be read is not cached once
// its last lease is released, so a later Acquire tries the backend again.
func (m *Manager) Acquire(ctx context.Context, scope string) *Store {
	if s, ok := m.lease(scope, nil); ok {
		return s
	}
	v, _, _ := m.group.Do(scope, func() (interface{}, error) {
		// The open is shared by every waiter, so it must not die with the
		// first caller's request.
		return Open(context.WithoutCancel(ctx), m.repo, scope, m.logger), nil
	})
	s, _ := m.lease(scope, v.(*Store))
	return s
}

// lease takes a lease on the store already held for scope, falling back to
// the idle cache and then to opened, which is cached unless its backend was
// unreadable. An opened store that lost the race to another one is
// discarded. lease reports false when there is nothing to lease.
func (m *Manager) lease(scope string, opened *Store) (*Store, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if l, ok := m.leases[scope]; ok {
		l.refs++
		return l.store, true
	}
	var s *Store
	if v, ok := m.stores.Get(scope); ok {
		s = v.(*Store)
	} else if opened != nil {
		s = opened
		if s.Status() != LoadUnavailable {
			m.stores.Add(scope, s)
		}
	} else {
		return nil, false
	}
	m.leases[scope] = &lease{store: s, refs: 1}
	return s, true
}

// Release gives back a lease taken by Acquire.
func (m *Manager) Release(scope string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.leases[scope]
	if !ok {
		return
	}
	l.refs--
	if l.refs <= 0 {
		delete(m.leases, scope)
	}
}

// Dispatch applies action to the scope's store.
func (m *Manager) Dispatch(ctx context.Context, scope string, action Action) (domain.State, error) {
	s := m.Acquire(ctx, scope)
	defer m.Release(scope)
	return s.Dispatch(ctx, action)
}

// Len returns the number of idle scopes held in the cache.
func (m *Manager) Len() int {
	return m.stores.Len()
}

// Leased returns the number of scopes with at least one outstanding lease.
func (m *Manager) Leased() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.leases)
}

// Close drops every idle store. Outstanding leases stay valid.
func (m *Manager) Close() {
	m.stores.Purge()
}
