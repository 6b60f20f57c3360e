package sheetstate

import (
	"sync"

	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/character"
)

// Store is the single owner of one sheet's State. Callers read snapshots
// and submit actions; they never hold a mutable reference.
type Store struct {
	mu    sync.RWMutex
	calc  character.DerivedStatsCalculator
	state State
}

// NewStore creates a store seeded with data
func NewStore(data *character.SheetData, calc character.DerivedStatsCalculator) *Store {
	return &Store{
		calc:  calc,
		state: NewState(data, calc),
	}
}

// State returns the current snapshot
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies actions in order. Either all of them land or, on the
// first error, none do.
func (s *Store) Dispatch(actions ...Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	for _, action := range actions {
		var err error
		next, err = Reduce(next, action, s.calc)
		if err != nil {
			return s.state, err
		}
	}
	s.state = next
	return next, nil
}
