package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/robinvdvleuten/beanledger/loader"
)

// Service owns the live ledger behind the web and CLI surfaces. It rebuilds
// the ledger on demand and swaps it in atomically: readers always see either
// the previous complete ledger or the new one, and a failed reload keeps the
// previous one serving.
type Service struct {
	path   string
	loader *loader.Loader

	mu     sync.RWMutex
	ledger *Ledger

	tcMu        sync.Mutex
	timeContext TimeContext

	// now is swappable for tests.
	now func() time.Time
}

// NewService creates a service for the given entry file. Nothing is loaded
// until Load is called; queries before then fail with ErrNotLoaded.
func NewService(path string, window TimeContext) *Service {
	return &Service{
		path:        path,
		loader:      loader.New(loader.WithFollowIncludes()),
		timeContext: window,
		now:         time.Now,
	}
}

// Load parses the entry file and all includes and swaps in the resulting
// ledger. The build happens outside the lock; readers are only blocked for
// the pointer swap. On error the previously loaded ledger, if any, stays
// active.
func (s *Service) Load(ctx context.Context) (*loader.Result, error) {
	result, err := s.loader.Load(ctx, s.path)
	if err != nil {
		return nil, err
	}

	l, err := Process(ctx, result.Directives)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.ledger = l
	s.mu.Unlock()

	return result, nil
}

// Ledger returns the current ledger, or ErrNotLoaded before the first
// successful Load. The returned ledger is immutable and safe to query after
// a concurrent reload swaps in a newer one.
func (s *Service) Ledger() (*Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ledger == nil {
		return nil, ErrNotLoaded
	}
	return s.ledger, nil
}

// Path returns the entry file the service loads from.
func (s *Service) Path() string {
	return s.path
}

// Today returns the reference date used to resolve rolling time ranges.
func (s *Service) Today() time.Time {
	return s.now()
}

// TimeContext returns the active reporting window.
func (s *Service) TimeContext() TimeContext {
	s.tcMu.Lock()
	defer s.tcMu.Unlock()
	return s.timeContext
}

// SetRange switches to a named rolling range, discarding any custom bounds.
func (s *Service) SetRange(r Range) {
	s.tcMu.Lock()
	defer s.tcMu.Unlock()
	s.timeContext = NewTimeContext(r)
}

// SetCustomRange switches to an explicit date span.
func (s *Service) SetCustomRange(tc TimeContext) {
	s.tcMu.Lock()
	defer s.tcMu.Unlock()
	s.timeContext = tc
}

// AccountDetail resolves one account with a typed not-found error.
func (s *Service) AccountDetail(name string) (*Account, error) {
	l, err := s.Ledger()
	if err != nil {
		return nil, err
	}
	a, ok := l.Account(name)
	if !ok {
		return nil, &AccountNotFoundError{Name: name}
	}
	return a, nil
}

// TransactionDetail resolves one transaction with a typed not-found error.
func (s *Service) TransactionDetail(id string) (*Transaction, error) {
	l, err := s.Ledger()
	if err != nil {
		return nil, err
	}
	tx, ok := l.Transaction(id)
	if !ok {
		return nil, &TransactionNotFoundError{ID: id}
	}
	return tx, nil
}

// AccountTimeline resolves an account's timeline with a typed not-found
// error for unknown accounts.
func (s *Service) AccountTimeline(name string, offset, limit int) ([]*TimelineItem, int, error) {
	l, err := s.Ledger()
	if err != nil {
		return nil, 0, err
	}
	if _, ok := l.Account(name); !ok {
		return nil, 0, &AccountNotFoundError{Name: name}
	}
	items, total := l.Timeline(name, offset, limit)
	return items, total, nil
}
