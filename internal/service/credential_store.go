package service

import (
	"context"
	"errors"
	"sync"

	"github.com/spec-kit/todo-service/internal/auth"
	"github.com/spec-kit/todo-service/internal/domain"
	"github.com/spec-kit/todo-service/internal/repository"
)

// CredentialStore owns user identities and their password hashes. Plaintext
// passwords enter only through CreateUser, UpdatePassword and the verify
// methods, and are hashed or compared immediately.
type CredentialStore struct {
	users  repository.UserRepository
	hasher *auth.PasswordHasher

	decoyOnce sync.Once
	decoyHash string
}

// NewCredentialStore builds a store over the given repository.
func NewCredentialStore(users repository.UserRepository, hasher *auth.PasswordHasher) *CredentialStore {
	return &CredentialStore{users: users, hasher: hasher}
}

// CreateUser hashes the password and persists a new user. The returned user carries no hash.
func (s *CredentialStore) CreateUser(ctx context.Context, name, email, password string) (*domain.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user.WithoutPassword(), nil
}

// FindByEmail looks a user up by login email. The hash is loaded only when withPassword is set.
func (s *CredentialStore) FindByEmail(ctx context.Context, email string, withPassword bool) (*domain.User, error) {
	if withPassword {
		return s.users.GetByEmailWithPassword(ctx, email)
	}
	return s.users.GetByEmail(ctx, email)
}

// FindByID looks a user up by id, never with the hash.
func (s *CredentialStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.WithoutPassword(), nil
}

// UpdateProfile changes name and/or email. The hash is left untouched.
func (s *CredentialStore) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	if update.IsEmpty() {
		return s.FindByID(ctx, id)
	}
	user, err := s.users.UpdateProfile(ctx, id, update)
	if err != nil {
		return nil, err
	}
	return user.WithoutPassword(), nil
}

// UpdatePassword re-hashes and overwrites the stored hash.
func (s *CredentialStore) UpdatePassword(ctx context.Context, id, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(ctx, id, hash)
}

// VerifyPassword checks password against the stored hash of user id.
func (s *CredentialStore) VerifyPassword(ctx context.Context, id, password string) (bool, error) {
	user, err := s.users.GetByIDWithPassword(ctx, id)
	if err != nil {
		return false, err
	}
	return s.hasher.Verify(password, user.PasswordHash), nil
}

// Authenticate resolves email and password to a user. Unknown emails still
// pay for one hash comparison so both failure paths cost the same.
func (s *CredentialStore) Authenticate(ctx context.Context, email, password string) (*domain.User, bool, error) {
	user, err := s.users.GetByEmailWithPassword(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.Verify(password, s.decoy())
			return nil, false, nil
		}
		return nil, false, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, false, nil
	}
	return user.WithoutPassword(), true, nil
}

// DeleteUser removes the user record.
func (s *CredentialStore) DeleteUser(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

func (s *CredentialStore) decoy() string {
	s.decoyOnce.Do(func() {
		s.decoyHash, _ = s.hasher.Hash("decoy-password-for-unknown-accounts")
	})
	return s.decoyHash
}
