package service

import (
	"athleteiq/coaching-api/internal/domain"
	"athleteiq/coaching-api/internal/repository"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const minPasswordLength = 6

var validate = validator.New()

// RegisterInput is the self-service registration payload.
type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	Role           domain.Role
	Phone          string
	DateOfBirth    *time.Time
	Gender         string
	SportsCategory string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	// Authenticate resolves a bearer token to an active user.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	Me(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, update domain.ProfileUpdate) (*domain.User, error)
	// ChangePassword returns a fresh token on success.
	ChangePassword(ctx context.Context, userID primitive.ObjectID, current, next string) (string, error)
}

// authService implements the AuthService interface.
type authService struct {
	users       repository.UserRepository
	credentials *CredentialStore
	tokens      TokenService
	now         func() time.Time
}

// NewAuthService creates a new instance of authService.
func NewAuthService(users repository.UserRepository, credentials *CredentialStore, tokens TokenService) AuthService {
	return &authService{
		users:       users,
		credentials: credentials,
		tokens:      tokens,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	// Admins are provisioned out of band.
	if in.Role == domain.RoleAdmin {
		return nil, "", ErrForbiddenRole
	}

	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, "", ValidationError("Please provide name, email, and password")
	}
	if err := validate.Var(email, "email"); err != nil {
		return nil, "", ValidationError("Please provide a valid email")
	}
	if len(in.Password) < minPasswordLength {
		return nil, "", ValidationError("Password must be at least %d characters", minPasswordLength)
	}
	role := in.Role
	if role == "" {
		role = domain.RoleAthlete
	}
	if !role.Valid() {
		return nil, "", ValidationError("Invalid role '%s'", role)
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, "", ErrDuplicateEmail
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", InternalError("Could not register user", err)
	}

	user := &domain.User{
		Name:           name,
		Email:          email,
		Role:           role,
		IsActive:       true,
		Phone:          in.Phone,
		DateOfBirth:    in.DateOfBirth,
		Gender:         in.Gender,
		SportsCategory: in.SportsCategory,
	}
	// A concurrent registration can still win the unique index; CreateUser maps that to ErrDuplicateEmail.
	if err := s.credentials.CreateUser(ctx, user, in.Password); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", InternalError("Could not issue token", err)
	}
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", ValidationError("Please provide email and password")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", InternalError("Could not log in", err)
	}
	if !user.IsActive {
		return nil, "", ErrAccountDeactivated
	}
	if !s.credentials.Matches(user, password) {
		return nil, "", ErrInvalidCredentials
	}

	at := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, at); err != nil {
		return nil, "", InternalError("Could not log in", err)
	}
	user.LastLogin = &at

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", InternalError("Could not issue token", err)
	}
	return user, token, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	id, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, InternalError("Could not authenticate", err)
	}
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}
	return user, nil
}

func (s *authService) Me(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundError("User")
		}
		return nil, InternalError("Could not load user", err)
	}
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, update domain.ProfileUpdate) (*domain.User, error) {
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, ValidationError("Name cannot be empty")
		}
		update.Name = &name
	}
	user, err := s.users.UpdateProfile(ctx, userID, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundError("User")
		}
		return nil, InternalError("Could not update profile", err)
	}
	return user, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID primitive.ObjectID, current, next string) (string, error) {
	if current == "" || next == "" {
		return "", ValidationError("Please provide current and new password")
	}
	if len(next) < minPasswordLength {
		return "", ValidationError("Password must be at least %d characters", minPasswordLength)
	}

	user, err := s.Me(ctx, userID)
	if err != nil {
		return "", err
	}
	if !s.credentials.Matches(user, current) {
		return "", ErrWrongPassword
	}
	if err := s.credentials.SetPassword(ctx, userID, next); err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(userID)
	if err != nil {
		return "", InternalError("Could not issue token", err)
	}
	return token, nil
}
