package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"agentlists/contexts/identity-access/admin-auth-service/domain/entities"
	domainerrors "agentlists/contexts/identity-access/admin-auth-service/domain/errors"
	"agentlists/contexts/identity-access/admin-auth-service/ports"
)

type Store struct {
	mu       sync.RWMutex
	users    map[string]entities.User
	sequence uint64
}

func NewStore(seed []entities.User) *Store {
	users := make(map[string]entities.User, len(seed))
	for _, user := range seed {
		users[user.ID] = user
	}
	return &Store{users: users}
}

func (s *Store) CreateUser(_ context.Context, user entities.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return domainerrors.ErrDuplicateEmail
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *Store) GetUser(_ context.Context, userID string) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return entities.User{}, domainerrors.ErrUserNotFound
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return fmt.Sprintf("user-%06d", atomic.AddUint64(&s.sequence, 1)), nil
}

var _ ports.UserRepository = (*Store)(nil)
