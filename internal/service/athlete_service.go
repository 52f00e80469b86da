package service

import (
	"athleteiq/coaching-api/internal/domain"
	"athleteiq/coaching-api/internal/repository"
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const athletePerformanceHistory = 50

// AthleteService covers the self-service operations of an athlete. The
// athlete id always comes from the authenticated caller.
type AthleteService interface {
	ActivePlans(ctx context.Context, athleteID primitive.ObjectID) ([]domain.TrainingPlan, error)

	LogWorkout(ctx context.Context, athleteID primitive.ObjectID, workout *domain.Workout) (*domain.Workout, error)
	ListWorkouts(ctx context.Context, athleteID primitive.ObjectID, from, to *time.Time) ([]domain.Workout, error)
	UpdateWorkout(ctx context.Context, athleteID, workoutID primitive.ObjectID, update domain.WorkoutUpdate) (*domain.Workout, error)

	RecordPerformance(ctx context.Context, athleteID primitive.ObjectID, perf *domain.Performance) (*domain.Performance, error)
	ListPerformance(ctx context.Context, athleteID primitive.ObjectID) ([]domain.Performance, error)

	SubmitFeedback(ctx context.Context, athleteID primitive.ObjectID, fb *domain.Feedback) (*domain.Feedback, error)
	ListFeedback(ctx context.Context, athleteID primitive.ObjectID) ([]domain.Feedback, error)

	ReportInjury(ctx context.Context, athleteID primitive.ObjectID, injury *domain.Injury) (*domain.Injury, error)
	ListInjuries(ctx context.Context, athleteID primitive.ObjectID) ([]domain.Injury, error)
}

type athleteService struct {
	repos repository.Repositories
	now   func() time.Time
}

func NewAthleteService(repos repository.Repositories) AthleteService {
	return &athleteService{repos: repos, now: func() time.Time { return time.Now().UTC() }}
}

func (s *athleteService) ActivePlans(ctx context.Context, athleteID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	plans, err := s.repos.Plans.ListByAthlete(ctx, athleteID, domain.PlanActive)
	if err != nil {
		return nil, InternalError("Could not fetch training plans", err)
	}
	return plans, nil
}

// LogWorkout stores a session for the caller. Any athlete id on the input is overwritten.
func (s *athleteService) LogWorkout(ctx context.Context, athleteID primitive.ObjectID, workout *domain.Workout) (*domain.Workout, error) {
	workout.AthleteID = athleteID
	if workout.Date.IsZero() {
		workout.Date = s.now()
	}
	if err := validateWorkout(workout); err != nil {
		return nil, err
	}
	if err := s.requirePlanMember(ctx, workout.TrainingPlanID, athleteID); err != nil {
		return nil, err
	}

	id, err := s.repos.Workouts.Create(ctx, workout)
	if err != nil {
		return nil, InternalError("Could not log workout", err)
	}
	workout.ID = id
	return workout, nil
}

func (s *athleteService) requirePlanMember(ctx context.Context, planID, athleteID primitive.ObjectID) error {
	plan, err := s.repos.Plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFoundError("Training plan")
		}
		return InternalError("Could not load training plan", err)
	}
	if !plan.HasAthlete(athleteID) {
		return ForbiddenError("You are not assigned to this training plan")
	}
	return nil
}

func (s *athleteService) ListWorkouts(ctx context.Context, athleteID primitive.ObjectID, from, to *time.Time) ([]domain.Workout, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, ValidationError("endDate cannot be before startDate")
	}
	workouts, err := s.repos.Workouts.ListByAthlete(ctx, athleteID, repository.WorkoutFilter{From: from, To: to})
	if err != nil {
		return nil, InternalError("Could not fetch workouts", err)
	}
	return workouts, nil
}

// UpdateWorkout merges the fields set in update into one of the caller's workouts.
// Owner and plan stay as stored.
func (s *athleteService) UpdateWorkout(ctx context.Context, athleteID, workoutID primitive.ObjectID, update domain.WorkoutUpdate) (*domain.Workout, error) {
	workout, err := s.repos.Workouts.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundError("Workout")
		}
		return nil, InternalError("Could not load workout", err)
	}
	if workout.AthleteID != athleteID {
		return nil, ForbiddenError("Not authorized")
	}

	update.Apply(workout)
	if err := validateWorkout(workout); err != nil {
		return nil, err
	}

	if err := s.repos.Workouts.Update(ctx, workout); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundError("Workout")
		}
		return nil, InternalError("Could not update workout", err)
	}
	return workout, nil
}

func (s *athleteService) RecordPerformance(ctx context.Context, athleteID primitive.ObjectID, perf *domain.Performance) (*domain.Performance, error) {
	now := s.now()
	perf.AthleteID = athleteID
	perf.RecordedBy = athleteID
	if perf.Date.IsZero() {
		perf.Date = now
	}
	if err := validatePerformance(perf, now); err != nil {
		return nil, err
	}

	athlete, err := s.repos.Users.GetByID(ctx, athleteID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, InternalError("Failed to log performance", err)
	}
	if err != nil || !athlete.IsAthlete() {
		return nil, ValidationError("Referenced athlete does not exist or is not an athlete")
	}

	id, err := s.repos.Performance.Create(ctx, perf)
	if err != nil {
		return nil, InternalError("Failed to log performance", err)
	}
	perf.ID = id
	return perf, nil
}

func (s *athleteService) ListPerformance(ctx context.Context, athleteID primitive.ObjectID) ([]domain.Performance, error) {
	records, err := s.repos.Performance.ListByAthlete(ctx, athleteID, athletePerformanceHistory)
	if err != nil {
		return nil, InternalError("Could not fetch performance records", err)
	}
	return records, nil
}

func (s *athleteService) SubmitFeedback(ctx context.Context, athleteID primitive.ObjectID, fb *domain.Feedback) (*domain.Feedback, error) {
	fb.AthleteID = athleteID
	fb.Message = strings.TrimSpace(fb.Message)
	fb.Status = domain.FeedbackPending
	fb.Response = ""
	fb.RespondedAt = nil
	if fb.Category == "" {
		fb.Category = domain.FeedbackGeneral
	}
	if fb.CoachID.IsZero() {
		return nil, ValidationError("Coach is required")
	}
	if fb.Message == "" {
		return nil, ValidationError("Message is required")
	}
	if !fb.Category.Valid() {
		return nil, ValidationError("Invalid category '%s'", fb.Category)
	}
	if err := validateRating("Rating", fb.Rating, 1, 5); err != nil {
		return nil, err
	}

	coach, err := s.repos.Users.GetByID(ctx, fb.CoachID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, InternalError("Could not submit feedback", err)
	}
	if err != nil || !coach.IsCoach() {
		return nil, NotFoundError("Coach")
	}

	id, err := s.repos.Feedback.Create(ctx, fb)
	if err != nil {
		return nil, InternalError("Could not submit feedback", err)
	}
	fb.ID = id
	return fb, nil
}

func (s *athleteService) ListFeedback(ctx context.Context, athleteID primitive.ObjectID) ([]domain.Feedback, error) {
	items, err := s.repos.Feedback.ListByAthlete(ctx, athleteID)
	if err != nil {
		return nil, InternalError("Could not fetch feedback", err)
	}
	return items, nil
}

func (s *athleteService) ReportInjury(ctx context.Context, athleteID primitive.ObjectID, injury *domain.Injury) (*domain.Injury, error) {
	injury.AthleteID = athleteID
	injury.Status = domain.InjuryActive
	injury.CoachNotes = ""
	if injury.DateOccurred.IsZero() {
		injury.DateOccurred = s.now()
	}
	if strings.TrimSpace(injury.BodyPart) == "" {
		return nil, ValidationError("Body part is required")
	}
	if !injury.Severity.Valid() {
		return nil, ValidationError("Invalid severity '%s'", injury.Severity)
	}
	if strings.TrimSpace(injury.Description) == "" {
		return nil, ValidationError("Description is required")
	}
	if injury.ExpectedRecoveryDate != nil && injury.ExpectedRecoveryDate.Before(injury.DateOccurred) {
		return nil, ValidationError("Expected recovery date cannot be before the injury date")
	}

	id, err := s.repos.Injuries.Create(ctx, injury)
	if err != nil {
		return nil, InternalError("Could not report injury", err)
	}
	injury.ID = id
	return injury, nil
}

func (s *athleteService) ListInjuries(ctx context.Context, athleteID primitive.ObjectID) ([]domain.Injury, error) {
	injuries, err := s.repos.Injuries.ListByAthlete(ctx, athleteID)
	if err != nil {
		return nil, InternalError("Could not fetch injuries", err)
	}
	return injuries, nil
}
