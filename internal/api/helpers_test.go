package api

import (
	"athleteiq/coaching-api/internal/domain"
	"athleteiq/coaching-api/internal/notify"
	"athleteiq/coaching-api/internal/repository"
	"athleteiq/coaching-api/internal/repository/memory"
	"athleteiq/coaching-api/internal/service"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	router *gin.Engine
	repos  repository.Repositories
	creds  *service.CredentialStore
	tokens service.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := memory.NewRepositories()
	tokens, err := service.NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)
	creds := service.NewCredentialStore(repos.Users)
	logger := zap.NewNop()
	notifier := notify.NewMailer(notify.LogSender{Logger: logger})

	router := gin.New()
	router.Use(Recovery(logger), RequestLogger(logger))
	SetupRoutes(router,
		service.NewAuthService(repos.Users, creds, tokens),
		service.NewAthleteService(repos),
		service.NewCoachService(repos, notifier, logger),
		service.NewAdminService(repos),
		service.NewAnalyticsService(repos.Workouts, repos.Performance),
		service.NewReportService(repos, nil, logger),
	)
	return &testEnv{router: router, repos: repos, creds: creds, tokens: tokens}
}

// seedUser stores an active user with password "secret123" and returns a token for it.
func (e *testEnv) seedUser(t *testing.T, name string, role domain.Role) (*domain.User, string) {
	t.Helper()
	user := &domain.User{Name: name, Email: name + "@example.com", Role: role, IsActive: true}
	require.NoError(t, e.creds.CreateUser(context.Background(), user, "secret123"))
	token, err := e.tokens.Issue(user.ID)
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) seedPlan(t *testing.T, coach *domain.User, athletes ...*domain.User) *domain.TrainingPlan {
	t.Helper()
	plan := &domain.TrainingPlan{
		CoachID:   coach.ID,
		Title:     "Base block",
		Category:  domain.CategoryEndurance,
		Duration:  domain.PlanDuration{Weeks: 6, SessionsPerWeek: 4},
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:    domain.PlanActive,
	}
	for _, a := range athletes {
		plan.AthleteIDs = append(plan.AthleteIDs, a.ID)
	}
	id, err := e.repos.Plans.Create(context.Background(), plan)
	require.NoError(t, err)
	plan.ID = id
	return plan
}

func newRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func serve(e *testEnv, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	req := newRequest(t, method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return serve(e, req)
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) testEnvelope {
	t.Helper()
	env := decode(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, out))
	return env
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
}
