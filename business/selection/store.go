package selection

import (
	"context"
	"fmt"
	"sync"

	"flagCompare/domain"
	"flagCompare/pkg/logger"
)

// FlagLookup validates flag names against the active matrix.
type FlagLookup interface {
	HasFlag(name string) bool
}

// Observer is called after every change with the new state.
type Observer func(ctx context.Context, s domain.Selection)

// Store holds the active flag and detail field. Observers run synchronously,
// in registration order. Updates and their notifications are serialized, so
// the last notification always carries the state Current returns. Observers
// may read the store but must not change it.
type Store struct {
	lookup FlagLookup

	notifyMu  sync.Mutex
	mu        sync.RWMutex
	state     domain.Selection
	observers map[int]Observer
	order     []int
	nextID    int
}

func NewStore(lookup FlagLookup) *Store {
	return &Store{
		lookup:    lookup,
		observers: make(map[int]Observer),
	}
}

func (s *Store) Current() domain.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers o and returns a function that removes it.
func (s *Store) Subscribe(o Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.observers[id] = o
	s.order = append(s.order, id)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

// SelectFlag makes name the active flag. Unknown names leave the state as is.
func (s *Store) SelectFlag(ctx context.Context, name string) (domain.Selection, error) {
	if err := ctx.Err(); err != nil {
		return domain.Selection{}, fmt.Errorf("context error: %w", err)
	}
	if s.lookup != nil && !s.lookup.HasFlag(name) {
		logger.Debug("selection rejected", "flag", name)
		return s.Current(), fmt.Errorf("%w: %s", domain.ErrFlagNotFound, name)
	}

	return s.update(ctx, func(st *domain.Selection) {
		st.ActiveFlag = name
	}), nil
}

// SelectDetail sets the active detail field; the active flag is kept.
// An empty field clears it.
func (s *Store) SelectDetail(ctx context.Context, field string) (domain.Selection, error) {
	if err := ctx.Err(); err != nil {
		return domain.Selection{}, fmt.Errorf("context error: %w", err)
	}

	return s.update(ctx, func(st *domain.Selection) {
		st.DetailField = field
	}), nil
}

func (s *Store) update(ctx context.Context, fn func(*domain.Selection)) domain.Selection {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	fn(&s.state)
	state := s.state
	observers := make([]Observer, 0, len(s.order))
	for _, id := range s.order {
		observers = append(observers, s.observers[id])
	}
	s.mu.Unlock()

	for _, o := range observers {
		o(ctx, state)
	}
	return state
}
