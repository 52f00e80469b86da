package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const tokenIssuer = "athleteiq"

// TokenService issues and verifies signed session tokens.
type TokenService interface {
	Issue(userID primitive.ObjectID) (string, error)
	Verify(token string) (primitive.ObjectID, error)
}

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

type tokenService struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
	parser     *jwt.Parser
}

// NewTokenService creates an HS256 token service. The secret must not be empty.
func NewTokenService(secret string, expiration time.Duration) (TokenService, error) {
	return newTokenService(secret, expiration, time.Now)
}

func newTokenService(secret string, expiration time.Duration, now func() time.Time) (*tokenService, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	if expiration <= 0 {
		return nil, errors.New("JWT expiration must be positive")
	}
	return &tokenService{
		secret:     []byte(secret),
		expiration: expiration,
		now:        now,
		// Expiry is checked against s.now below, not the package clock.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

func (s *tokenService) Issue(userID primitive.ObjectID) (string, error) {
	now := s.now()
	claims := &jwtClaims{
		UserID: userID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.Hex(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *tokenService) Verify(tokenString string) (primitive.ObjectID, error) {
	claims := &jwtClaims{}
	_, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return primitive.NilObjectID, ErrInvalidToken
	}
	// Expired once now reaches exp.
	if claims.ExpiresAt == nil || !s.now().Before(claims.ExpiresAt.Time) {
		return primitive.NilObjectID, ErrInvalidToken
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil || id.IsZero() {
		return primitive.NilObjectID, ErrInvalidToken
	}
	return id, nil
}
