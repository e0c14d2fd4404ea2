// Package memory provides an in-process OTP record store with the same
// semantics as the DynamoDB one. Used for local development (STORE_DRIVER=memory)
// and in tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/phone-otp-api/internal/domain"
	"github.com/phone-otp-api/internal/pkg/id"
	"github.com/phone-otp-api/internal/pkg/otpcode"
)

// Store keeps at most one OTPCode per phone key. Each key has its own mutex
// so the read-check-write sequences serialize per key without calls for
// different keys blocking each other; the outer mutex only guards the map.
type Store struct {
	policy domain.OTPPolicy

	mu      sync.Mutex
	entries map[string]*entry

	now func() time.Time // overridable in tests
}

type entry struct {
	mu  sync.Mutex
	rec *domain.OTPCode // nil when no active record
}

func NewStore(policy domain.OTPPolicy) *Store {
	s := &Store{
		policy:  policy,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
	go s.sweep()
	return s
}

// Create generates a fresh code and stores it, replacing any prior record.
// Fails with domain.ErrRateLimited while a non-expired record younger than
// the cooldown window exists.
func (s *Store) Create(_ context.Context, phoneKey string) (string, error) {
	e := s.entry(phoneKey)
	e.mu.Lock()
	defer e.mu.Unlock()

	now := s.now()
	if e.rec != nil && !e.rec.Expired(now) && now.Sub(time.Unix(e.rec.CreatedAt, 0)) < s.policy.Cooldown {
		return "", domain.ErrRateLimited
	}
	code, err := otpcode.Generate(s.policy.CodeLength)
	if err != nil {
		return "", err
	}
	e.rec = &domain.OTPCode{
		PhoneKey:  phoneKey,
		OTPID:     id.New(),
		Code:      code,
		Attempts:  0,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(s.policy.TTL).Unix(),
	}
	return code, nil
}

// Verify consumes one attempt and compares the submitted code. An expired
// record behaves exactly like an absent one.
func (s *Store) Verify(_ context.Context, phoneKey, submitted string) (bool, error) {
	e := s.entry(phoneKey)
	e.mu.Lock()
	defer e.mu.Unlock()

	now := s.now()
	if e.rec == nil || e.rec.Expired(now) {
		e.rec = nil
		return false, domain.ErrNotFound
	}
	if e.rec.Attempts >= s.policy.MaxAttempts {
		e.rec = nil
		return false, domain.ErrAttemptsExceeded
	}
	// The attempt is consumed regardless of outcome.
	e.rec.Attempts++
	if e.rec.Code == submitted {
		e.rec = nil
		return true, nil
	}
	if e.rec.Attempts >= s.policy.MaxAttempts {
		e.rec = nil
		return false, domain.ErrAttemptsExceeded
	}
	return false, nil
}

// Delete removes the record for the key. Idempotent no-op when absent.
func (s *Store) Delete(_ context.Context, phoneKey string) error {
	e := s.entry(phoneKey)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rec = nil
	return nil
}

func (s *Store) entry(phoneKey string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[phoneKey]
	if !ok {
		e = &entry{}
		s.entries[phoneKey] = e
	}
	return e
}

// sweep drops expired and consumed entries every minute, mirroring the
// storage-layer TTL expiry of the DynamoDB backend.
func (s *Store) sweep() {
	for {
		time.Sleep(time.Minute)
		now := s.now()
		s.mu.Lock()
		for key, e := range s.entries {
			e.mu.Lock()
			if e.rec == nil || e.rec.Expired(now) {
				delete(s.entries, key)
			}
			e.mu.Unlock()
		}
		s.mu.Unlock()
	}
}
