package service

import (
	"athleteiq/coaching-api/internal/domain"
	"athleteiq/coaching-api/internal/repository"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// CredentialStore owns password hashing. Nothing else in the service layer
// touches bcrypt or writes a password hash.
type CredentialStore struct {
	users repository.UserRepository
	cost  int
}

func NewCredentialStore(users repository.UserRepository) *CredentialStore {
	return &CredentialStore{users: users, cost: bcrypt.DefaultCost}
}

// CreateUser hashes password into user and persists it. A taken email
// returns ErrDuplicateEmail.
func (s *CredentialStore) CreateUser(ctx context.Context, user *domain.User, password string) error {
	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	id, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return ErrDuplicateEmail
		}
		return InternalError("Could not create user", err)
	}
	user.ID = id
	return nil
}

// SetPassword replaces the stored hash for id.
func (s *CredentialStore) SetPassword(ctx context.Context, id primitive.ObjectID, password string) error {
	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordHash(ctx, id, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFoundError("User")
		}
		return InternalError("Could not update password", err)
	}
	return nil
}

// Matches reports whether password is the user's password.
func (s *CredentialStore) Matches(user *domain.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

func (s *CredentialStore) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", InternalError("Could not process password", fmt.Errorf("hash password: %w", err))
	}
	return string(hashed), nil
}
