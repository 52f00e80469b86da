package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	id := primitive.NewObjectID()
	token, err := svc.Issue(id)
	require.NoError(t, err)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestTokenService_Expiry(t *testing.T) {
	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	now := issued
	svc, err := newTokenService(testSecret, time.Hour, func() time.Time { return now })
	require.NoError(t, err)

	token, err := svc.Issue(primitive.NewObjectID())
	require.NoError(t, err)

	now = issued.Add(59 * time.Minute)
	_, err = svc.Verify(token)
	assert.NoError(t, err)

	now = issued.Add(time.Hour)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "token is expired once now reaches exp")
}

func TestTokenService_Rejects(t *testing.T) {
	svc, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)
	id := primitive.NewObjectID()

	other, err := NewTokenService("another-secret", time.Hour)
	require.NoError(t, err)
	foreign, err := other.Issue(id)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, &jwtClaims{
		UserID: id.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	badID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwtClaims{
		UserID: "not-an-id",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwtClaims{UserID: id.Hex()}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	cases := map[string]string{
		"wrong secret":    foreign,
		"wrong algorithm": hs512,
		"malformed":       "not.a.token",
		"invalid id":      badID,
		"missing exp":     noExp,
		"empty":           "",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewTokenService_RequiresSecret(t *testing.T) {
	_, err := NewTokenService("", time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService(testSecret, 0)
	assert.Error(t, err)
}
