// Package memory provides the in-process CodeStore. Records live only as long as the
// process and are not visible to other instances.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/loanlead-api/internal/domain"
)

// Option configures a CodeStore.
type Option func(*CodeStore)

// WithClock overrides the clock used for lazy expiry.
func WithClock(now func() time.Time) Option {
	return func(s *CodeStore) { s.nowF = now }
}

// CodeStore maps a normalized identifier to its pending verification record.
// Expired records are removed when next read; StartSweeper adds an optional periodic purge.
type CodeStore struct {
	mu   sync.Mutex
	m    map[string]domain.VerificationRecord
	nowF func() time.Time
}

// NewCodeStore returns an empty in-memory store.
func NewCodeStore(opts ...Option) *CodeStore {
	s := &CodeStore{
		m:    make(map[string]domain.VerificationRecord),
		nowF: time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Put stores a copy of rec, replacing any record for the same identifier.
func (s *CodeStore) Put(_ context.Context, rec *domain.VerificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[rec.Identifier] = *rec
	return nil
}

// Get returns a copy of the live record for identifier, deleting it if expired.
func (s *CodeStore) Get(_ context.Context, identifier string) (*domain.VerificationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.m[identifier]
	if !ok {
		return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFoundOrExpired)
	}
	if rec.Expired(s.nowF()) {
		delete(s.m, identifier)
		return nil, fmt.Errorf("verification expired: %w", domain.ErrNotFoundOrExpired)
	}
	return &rec, nil
}

// Delete removes the record for identifier if present.
func (s *CodeStore) Delete(_ context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, identifier)
	return nil
}

// Consume deletes the record for identifier only while it is still the issue
// identified by issueID. Otherwise it reports domain.ErrNotFoundOrExpired.
func (s *CodeStore) Consume(_ context.Context, identifier, issueID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.m[identifier]
	if !ok || rec.IssueID != issueID {
		return fmt.Errorf("verification already consumed: %w", domain.ErrNotFoundOrExpired)
	}
	delete(s.m, identifier)
	return nil
}

// Len returns the number of stored records, live or not yet purged.
func (s *CodeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

// Sweep removes every expired record and returns how many were removed.
func (s *CodeStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.nowF()
	n := 0
	for id, rec := range s.m {
		if rec.Expired(now) {
			delete(s.m, id)
			n++
		}
	}
	return n
}

// StartSweeper runs Sweep every interval until ctx is done.
func (s *CodeStore) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if n := s.Sweep(); n > 0 {
					slog.Debug("swept expired verifications", "count", n)
				}
			}
		}
	}()
}
