package store

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/logging"
	"storefront/internal/metrics"
)

// Repository reads and writes the persisted state blob of one scope.
// Load returns domain.ErrNotFound when nothing has been stored yet.
type Repository interface {
	Load(ctx context.Context, scope string) ([]byte, error)
	Save(ctx context.Context, scope string, blob []byte) error
}

// LoadStatus records how a Store obtained its initial state.
type LoadStatus string

const (
	// LoadFresh means no blob existed; the store starts empty.
	LoadFresh LoadStatus = "fresh"
	// LoadRestored means the blob was read and decoded.
	LoadRestored LoadStatus = "restored"
	// LoadCorrupt means the blob could not be decoded and was reset to empty.
	LoadCorrupt LoadStatus = "corrupt"
	// LoadUnavailable means the backend could not be read; the store starts empty.
	LoadUnavailable LoadStatus = "unavailable"
)

// Degraded reports whether the initial state is empty because of a failure
// rather than because nothing was stored.
func (s LoadStatus) Degraded() bool {
	return s == LoadCorrupt || s == LoadUnavailable
}

// Store owns the cart and wishlist of one scope. Dispatches are serialized;
// every dispatch writes the resulting state through to the repository.
type Store struct {
	mu     sync.Mutex
	scope  string
	repo   Repository
	logger *zap.Logger
	state  domain.State
	status LoadStatus
}

// Open rehydrates the scope's state from repo. It never fails: a missing or
// unreadable blob yields the empty state, and Status tells the two apart.
func Open(ctx context.Context, repo Repository, scope string, logger *zap.Logger) *Store {
	logger = logging.OrNop(logger).With(zap.String("scope", scope))
	s := &Store{
		scope:  scope,
		repo:   repo,
		logger: logger,
		state:  domain.EmptyState(),
	}

	blob, err := repo.Load(ctx, scope)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.status = LoadFresh
	case err != nil:
		s.status = LoadUnavailable
		logger.Warn("state backend unreadable, starting empty", zap.Error(err))
	default:
		state, decodeErr := Decode(blob)
		if decodeErr != nil {
			s.status = LoadCorrupt
			logger.Warn("persisted state corrupt, resetting", zap.Error(decodeErr))
		} else {
			s.status = LoadRestored
			s.state = state
		}
	}
	metrics.StateLoads.WithLabelValues(string(s.status)).Inc()

	// An unreadable backend may still hold a valid blob; leave it for the
	// next dispatch to overwrite. A restored blob is only rewritten when
	// normalization changed it.
	write := s.status != LoadUnavailable
	if s.status == LoadRestored {
		normalized, err := Encode(s.state)
		write = err != nil || !bytes.Equal(normalized, blob)
	}
	if write {
		if err := s.persist(ctx, s.state); err != nil {
			logger.Warn("initial state write failed", zap.Error(err))
		}
	}
	return s
}

// Scope returns the scope this store owns.
func (s *Store) Scope() string {
	return s.scope
}

// Status returns how the initial state was obtained.
func (s *Store) Status() LoadStatus {
	return s.status
}

// State returns a copy of the current state.
func (s *Store) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies action to the current state and writes the result through.
// The in-memory state advances even when the write fails; the write error is
// returned so callers can log it.
func (s *Store) Dispatch(ctx context.Context, action Action) (domain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.apply(ctx, action)
	return next.Clone(), err
}

// Transition is the state a conditional dispatch observed and the state it
// left behind. After equals Before when the action was not applied.
type Transition struct {
	Before  domain.State
	After   domain.State
	Applied bool
}

// DispatchIf applies action only when cond holds for the current state. The
// check, the reduce and the write-through happen under one lock, so no other
// dispatch can land between what cond saw and what action replaced.
func (s *Store) DispatchIf(ctx context.Context, action Action, cond func(domain.State) bool) (Transition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.state.Clone()
	if !cond(before) {
		return Transition{Before: before, After: before.Clone()}, nil
	}
	next, err := s.apply(ctx, action)
	return Transition{Before: before, After: next.Clone(), Applied: true}, err
}

// apply must be called with mu held.
func (s *Store) apply(ctx context.Context, action Action) (domain.State, error) {
	next := Reduce(s.state, action)
	s.state = next
	metrics.Dispatches.WithLabelValues(ActionName(action)).Inc()

	if err := s.persist(ctx, next); err != nil {
		s.logger.Error("persist state",
			zap.String("action", ActionName(action)),
			zap.Error(err),
		)
		return next, err
	}
	return next, nil
}

func (s *Store) persist(ctx context.Context, state domain.State) error {
	blob, err := Encode(state)
	if err != nil {
		metrics.PersistFailures.Inc()
		return err
	}
	if err := s.repo.Save(ctx, s.scope, blob); err != nil {
		metrics.PersistFailures.Inc()
		return err
	}
	return nil
}
