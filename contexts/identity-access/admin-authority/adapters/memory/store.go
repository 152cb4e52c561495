package memory

import (
	"context"
	"sync"
	"time"

	"faucet/contexts/identity-access/admin-authority/domain/entities"
	domainerrors "faucet/contexts/identity-access/admin-authority/domain/errors"

	"github.com/google/uuid"
)

type Store struct {
	mu     sync.RWMutex
	token  entities.AdminToken
	issued bool
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) IssueToken(_ context.Context, token entities.AdminToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.issued {
		return domainerrors.ErrAlreadyIssued
	}
	s.token = token
	s.issued = true
	return nil
}

func (s *Store) GetToken(_ context.Context) (entities.AdminToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.issued {
		return entities.AdminToken{}, domainerrors.ErrNotInitialized
	}
	return s.token, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
