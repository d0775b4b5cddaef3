package auth

import (
	"context"
	"sync"
	"time"

	"github.com/casetrackapp/backend/internal/models"
)

// In-memory stores used across the package tests.

type memUserStore struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]models.User

	findByIDErr error
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[uint]models.User)}
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memUserStore) FindByID(_ context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findByIDErr != nil {
		return nil, s.findByIDErr
	}
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := u
	return &out, nil
}

func (s *memUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	user.ID = s.nextID
	s.users[user.ID] = *user
	return nil
}

func (s *memUserStore) UpdateTokensValidFrom(_ context.Context, id uint, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.TokensValidFrom = t
	s.users[id] = u
	return nil
}

func (s *memUserStore) delete(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

type memTokenStore struct {
	mu     sync.Mutex
	nextID uint
	tokens map[string]models.RefreshToken

	users *memUserStore
}

func newMemTokenStore(users *memUserStore) *memTokenStore {
	return &memTokenStore{tokens: make(map[string]models.RefreshToken), users: users}
}

func (s *memTokenStore) Create(_ context.Context, token *models.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	token.ID = s.nextID
	s.tokens[token.Token] = *token
	return nil
}

func (s *memTokenStore) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	s.mu.Lock()
	record, ok := s.tokens[token]
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	if s.users != nil {
		owner, err := s.users.FindByID(ctx, record.UserID)
		if err == nil {
			record.User = *owner
		}
	}
	return &record, nil
}

func (s *memTokenStore) Revoke(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, record := range s.tokens {
		if record.ID == id {
			record.Revoked = true
			s.tokens[key] = record
			return nil
		}
	}
	return ErrNotFound
}

func (s *memTokenStore) RevokeAllForUser(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, record := range s.tokens {
		if record.UserID == userID && !record.Revoked {
			record.Revoked = true
			s.tokens[key] = record
		}
	}
	return nil
}

func (s *memTokenStore) get(token string) (models.RefreshToken, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.tokens[token]
	return record, ok
}

// testClock is a controllable time source shared by the service and issuer.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(start time.Time) *testClock {
	return &testClock{now: start}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
