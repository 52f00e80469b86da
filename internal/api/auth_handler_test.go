package api

import (
	"athleteiq/coaching-api/internal/domain"
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPing(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/ping", "", nil)
	requireStatus(t, rec, http.StatusOK)
	assert.JSONEq(t, `{"message":"pong"}`, rec.Body.String())
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     "Ana Runner",
		"email":    "Ana@Example.com",
		"password": "secret123",
	})
	requireStatus(t, rec, http.StatusCreated)
	var registered AuthResponse
	out := decodeData(t, rec, &registered)
	assert.True(t, out.Success)
	assert.Equal(t, "Registration successful", out.Message)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "ana@example.com", registered.Email)
	assert.Equal(t, domain.RoleAthlete, registered.Role)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), `"user"`)

	rec = env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ana@example.com", "password": "secret123"})
	requireStatus(t, rec, http.StatusOK)
	var loggedIn AuthResponse
	out = decodeData(t, rec, &loggedIn)
	assert.Equal(t, "Login successful", out.Message)
	assert.NotNil(t, loggedIn.LastLogin)

	rec = env.do(t, http.MethodGet, "/api/v1/auth/me", loggedIn.Token, nil)
	requireStatus(t, rec, http.StatusOK)
	var me UserResponse
	decodeData(t, rec, &me)
	assert.Equal(t, registered.ID, me.ID)
}

func TestRegister_Refusals(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "taken", domain.RoleCoach)

	tests := []struct {
		name    string
		body    gin.H
		status  int
		message string
	}{
		{
			name:    "admin role",
			body:    gin.H{"name": "Root", "email": "root@example.com", "password": "secret123", "role": "admin"},
			status:  http.StatusForbidden,
			message: "Cannot register as admin through this endpoint",
		},
		{
			name:    "admin role wins over missing fields",
			body:    gin.H{"role": "admin"},
			status:  http.StatusForbidden,
			message: "Cannot register as admin through this endpoint",
		},
		{
			name:    "admin role wins over a bad date of birth",
			body:    gin.H{"name": "Root", "email": "root@example.com", "password": "secret123", "role": "admin", "dateOfBirth": "not-a-date"},
			status:  http.StatusForbidden,
			message: "Cannot register as admin through this endpoint",
		},
		{
			name:    "admin role wins over mistyped fields",
			body:    gin.H{"name": 5, "role": "admin"},
			status:  http.StatusForbidden,
			message: "Cannot register as admin through this endpoint",
		},
		{
			name:    "malformed email",
			body:    gin.H{"name": "Bo", "email": "bo-at-example", "password": "secret123"},
			status:  http.StatusBadRequest,
			message: "Please provide a valid email",
		},
		{
			name:    "display name email",
			body:    gin.H{"name": "Bob", "email": "Bob <bob@example.com>", "password": "secret123"},
			status:  http.StatusBadRequest,
			message: "Please provide a valid email",
		},
		{
			name:    "unknown role",
			body:    gin.H{"name": "Bo", "email": "bo@example.com", "password": "secret123", "role": "trainer"},
			status:  http.StatusBadRequest,
			message: "Invalid role 'trainer'",
		},
		{
			name:    "bad date of birth",
			body:    gin.H{"name": "Bo", "email": "bo@example.com", "password": "secret123", "dateOfBirth": "04/05/1999"},
			status:  http.StatusBadRequest,
			message: "Invalid dateOfBirth, expected YYYY-MM-DD or RFC 3339",
		},
		{
			name:    "duplicate email",
			body:    gin.H{"name": "Other", "email": "TAKEN@example.com", "password": "secret123"},
			status:  http.StatusBadRequest,
			message: "User with this email already exists",
		},
		{
			name:    "short password",
			body:    gin.H{"name": "Bo", "email": "bo@example.com", "password": "123"},
			status:  http.StatusBadRequest,
			message: "Password must be at least 6 characters",
		},
		{
			name:    "missing name",
			body:    gin.H{"email": "bo@example.com", "password": "secret123"},
			status:  http.StatusBadRequest,
			message: "Please provide name, email, and password",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/v1/auth/register", "", tt.body)
			requireStatus(t, rec, tt.status)
			out := decode(t, rec)
			assert.False(t, out.Success)
			assert.Equal(t, tt.message, out.Message)
		})
	}
}

func TestLogin_FailuresShareMessage(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "ana", domain.RoleAthlete)

	unknown := env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "nobody@example.com", "password": "secret123"})
	wrong := env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ana@example.com", "password": "nope123"})

	requireStatus(t, unknown, http.StatusUnauthorized)
	requireStatus(t, wrong, http.StatusUnauthorized)
	assert.Equal(t, decode(t, unknown).Message, decode(t, wrong).Message)
	assert.Equal(t, "Invalid email or password", decode(t, wrong).Message)
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	env := newTestEnv(t)
	user, _ := env.seedUser(t, "ana", domain.RoleAthlete)
	require.NoError(t, env.repos.Users.SetActive(context.Background(), user.ID, false))

	rec := env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ana@example.com", "password": "secret123"})
	requireStatus(t, rec, http.StatusUnauthorized)
	assert.Equal(t, "Your account has been deactivated. Please contact support.", decode(t, rec).Message)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	env := newTestEnv(t)
	inactive, inactiveToken := env.seedUser(t, "gone", domain.RoleAthlete)
	require.NoError(t, env.repos.Users.SetActive(context.Background(), inactive.ID, false))

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"missing header", "", "Not authorized to access this route"},
		{"wrong scheme", "Basic abc", "Not authorized to access this route"},
		{"garbage token", "Bearer not-a-jwt", "Invalid or expired token"},
		{"deactivated user", "Bearer " + inactiveToken, "Your account has been deactivated. Please contact support."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(t, http.MethodGet, "/api/v1/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := serve(env, req)
			requireStatus(t, rec, http.StatusUnauthorized)
			out := decode(t, rec)
			assert.False(t, out.Success)
			assert.Equal(t, tt.message, out.Message)
		})
	}
}

func TestRoleMiddleware_WrongRole(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "ana", domain.RoleAthlete)

	rec := env.do(t, http.MethodGet, "/api/v1/coach/plans", token, nil)
	requireStatus(t, rec, http.StatusForbidden)
	assert.Equal(t, "User role 'athlete' is not authorized to access this route", decode(t, rec).Message)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "ana", domain.RoleAthlete)

	rec := env.do(t, http.MethodPut, "/api/v1/auth/change-password", token, gin.H{"currentPassword": "wrong-one", "newPassword": "another123"})
	requireStatus(t, rec, http.StatusUnauthorized)
	assert.Equal(t, "Current password is incorrect", decode(t, rec).Message)

	rec = env.do(t, http.MethodPut, "/api/v1/auth/change-password", token, gin.H{"currentPassword": "secret123", "newPassword": "another123"})
	requireStatus(t, rec, http.StatusOK)
	var body struct {
		Token string `json:"token"`
	}
	decodeData(t, rec, &body)
	assert.NotEmpty(t, body.Token)

	rec = env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ana@example.com", "password": "another123"})
	requireStatus(t, rec, http.StatusOK)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "ana", domain.RoleAthlete)

	rec := env.do(t, http.MethodPut, "/api/v1/auth/profile", token, gin.H{"phone": "555-0100", "dateOfBirth": "1999-05-04"})
	requireStatus(t, rec, http.StatusOK)
	var user UserResponse
	decodeData(t, rec, &user)
	assert.Equal(t, "555-0100", user.Phone)
	require.NotNil(t, user.DateOfBirth)
	assert.Equal(t, 1999, user.DateOfBirth.Year())

	rec = env.do(t, http.MethodPut, "/api/v1/auth/profile", token, gin.H{"dateOfBirth": "04/05/1999"})
	requireStatus(t, rec, http.StatusBadRequest)
}
