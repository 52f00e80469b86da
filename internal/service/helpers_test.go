package service

import (
	"athleteiq/coaching-api/internal/domain"
	"athleteiq/coaching-api/internal/repository"
	"athleteiq/coaching-api/internal/repository/memory"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

var errBoom = errors.New("boom")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestCredentials(users repository.UserRepository) *CredentialStore {
	c := NewCredentialStore(users)
	c.cost = bcrypt.MinCost
	return c
}

func seedUser(t *testing.T, repos repository.Repositories, name string, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{Name: name, Email: domain.NormalizeEmail(name + "@example.com"), Role: role, IsActive: true}
	require.NoError(t, newTestCredentials(repos.Users).CreateUser(context.Background(), user, "secret123"))
	return user
}

func seedPlan(t *testing.T, repos repository.Repositories, coachID primitive.ObjectID, category domain.PlanCategory, athletes ...primitive.ObjectID) *domain.TrainingPlan {
	t.Helper()
	plan := &domain.TrainingPlan{
		CoachID:    coachID,
		AthleteIDs: athletes,
		Title:      string(category) + " block",
		Category:   category,
		Duration:   domain.PlanDuration{Weeks: 4, SessionsPerWeek: 3},
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:     domain.PlanActive,
	}
	id, err := repos.Plans.Create(context.Background(), plan)
	require.NoError(t, err)
	plan.ID = id
	return plan
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

// failingWorkouts fails every read so error propagation can be checked.
type failingWorkouts struct {
	repository.WorkoutRepository
}

func (failingWorkouts) ListByAthlete(context.Context, primitive.ObjectID, repository.WorkoutFilter) ([]domain.Workout, error) {
	return nil, errBoom
}

type notification struct {
	kind    string
	athlete primitive.ObjectID
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notification
	err  error
}

func (f *fakeNotifier) record(kind string, athlete *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, notification{kind: kind, athlete: athlete.ID})
	return nil
}

func (f *fakeNotifier) PlanAssigned(_ context.Context, athlete *domain.User, _ *domain.TrainingPlan) error {
	return f.record("plan", athlete)
}

func (f *fakeNotifier) TrainingReminder(_ context.Context, athlete *domain.User, _ *domain.TrainingPlan, _ time.Time) error {
	return f.record("reminder", athlete)
}

func (f *fakeNotifier) FeedbackResponded(_ context.Context, athlete *domain.User, _ *domain.Feedback) error {
	return f.record("feedback", athlete)
}

type fakeStorage struct {
	objects    map[string][]byte
	presignErr error
	deleted    []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) PutObject(_ context.Context, key, _ string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return "https://storage.test/" + key + "?signed", nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, key string) error {
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func newMemoryRepos() repository.Repositories {
	return memory.NewRepositories()
}
