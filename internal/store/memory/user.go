package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"blogapi/internal/apperr"
	"blogapi/internal/models"
)

// UserStore is the user view over the shared core.
type UserStore struct {
	core *Store
}

func (s *UserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	s.core.mu.RLock()
	defer s.core.mu.RUnlock()
	for _, u := range s.core.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *UserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.core.mu.RLock()
	defer s.core.mu.RUnlock()
	u, ok := s.core.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *UserStore) Create(_ context.Context, u *models.User) (*models.User, error) {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	for _, existing := range s.core.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return nil, apperr.New(apperr.DuplicateName, "username or email already taken")
		}
	}

	cp := *u
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	s.core.users[cp.ID] = &cp

	result := cp
	return &result, nil
}

func (s *UserStore) SetTOTPSecret(_ context.Context, id uuid.UUID, secret string) error {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	if u, ok := s.core.users[id]; ok {
		u.TOTPSecret = &secret
		u.UpdatedAt = time.Now()
	}
	return nil
}

func (s *UserStore) EnableTOTP(_ context.Context, id uuid.UUID) error {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	if u, ok := s.core.users[id]; ok {
		u.TOTPEnabled = true
		u.UpdatedAt = time.Now()
	}
	return nil
}
