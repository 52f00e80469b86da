package repository

import (
	"athleteiq/coaching-api/internal/domain"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserFilter narrows user listings. Zero values match everything.
type UserFilter struct {
	Role domain.Role
}

// UserRepository defines the interface for interacting with user data.
// Emails are expected to be normalized by the caller.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
	Count(ctx context.Context, filter UserFilter) (int64, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update domain.ProfileUpdate) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error
	UpdateLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
	SetRole(ctx context.Context, id primitive.ObjectID, role domain.Role) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutFilter narrows workout listings for a single athlete.
// A zero Limit means no limit.
type WorkoutFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int64
}

// WorkoutRepository defines the interface for interacting with workout data.
// Listings are ordered by date, newest first.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	Update(ctx context.Context, workout *domain.Workout) error
	ListByAthlete(ctx context.Context, athleteID primitive.ObjectID, filter WorkoutFilter) ([]domain.Workout, error)
	CountByAthlete(ctx context.Context, athleteID primitive.ObjectID) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	// CountByPlanCategory joins the athlete's workouts with their training plans
	// and counts workouts per plan category. Workouts without a matching plan are dropped.
	CountByPlanCategory(ctx context.Context, athleteID primitive.ObjectID) ([]domain.CategoryCount, error)
}

// PerformanceRepository defines the interface for interacting with performance records.
type PerformanceRepository interface {
	Create(ctx context.Context, perf *domain.Performance) (primitive.ObjectID, error)
	// ListByAthlete returns the newest records first; a zero limit means no limit.
	ListByAthlete(ctx context.Context, athleteID primitive.ObjectID, limit int64) ([]domain.Performance, error)
}

// TrainingPlanRepository defines the interface for interacting with training plan data.
type TrainingPlanRepository interface {
	Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error)
	Update(ctx context.Context, plan *domain.TrainingPlan) error
	Delete(ctx context.Context, planID, coachID primitive.ObjectID) error
	ListByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.TrainingPlan, error)
	ListByAthlete(ctx context.Context, athleteID primitive.ObjectID, status domain.PlanStatus) ([]domain.TrainingPlan, error)
	// Count counts plans; an empty status counts all of them.
	Count(ctx context.Context, status domain.PlanStatus) (int64, error)
}

// FeedbackRepository defines the interface for interacting with feedback data.
type FeedbackRepository interface {
	Create(ctx context.Context, fb *domain.Feedback) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Feedback, error)
	ListByAthlete(ctx context.Context, athleteID primitive.ObjectID) ([]domain.Feedback, error)
	ListByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.Feedback, error)
	Respond(ctx context.Context, id, coachID primitive.ObjectID, response string, at time.Time) error
}

// InjuryRepository defines the interface for interacting with injury reports.
type InjuryRepository interface {
	Create(ctx context.Context, injury *domain.Injury) (primitive.ObjectID, error)
	ListByAthlete(ctx context.Context, athleteID primitive.ObjectID) ([]domain.Injury, error)
}

// Repositories bundles every repository the services need.
type Repositories struct {
	Users       UserRepository
	Workouts    WorkoutRepository
	Performance PerformanceRepository
	Plans       TrainingPlanRepository
	Feedback    FeedbackRepository
	Injuries    InjuryRepository
}
