package service

import (
	"athleteiq/coaching-api/internal/domain"
	"athleteiq/coaching-api/internal/notify"
	"athleteiq/coaching-api/internal/repository"
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const coachHistoryLimit = 50

// CoachService manages a coach's plans and read access to the athletes in them.
type CoachService interface {
	CreatePlan(ctx context.Context, coachID primitive.ObjectID, plan *domain.TrainingPlan) (*domain.TrainingPlan, error)
	ListPlans(ctx context.Context, coachID primitive.ObjectID) ([]domain.TrainingPlan, error)
	UpdatePlan(ctx context.Context, coachID, planID primitive.ObjectID, plan *domain.TrainingPlan) (*domain.TrainingPlan, error)
	DeletePlan(ctx context.Context, coachID, planID primitive.ObjectID) error
	// SendReminder emails every athlete of the plan and returns how many were notified.
	SendReminder(ctx context.Context, coachID, planID primitive.ObjectID, session time.Time) (int, error)

	Athletes(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)
	AthleteWorkouts(ctx context.Context, coachID, athleteID primitive.ObjectID) ([]domain.Workout, error)
	AthletePerformance(ctx context.Context, coachID, athleteID primitive.ObjectID) ([]domain.Performance, error)
	AthleteInjuries(ctx context.Context, coachID, athleteID primitive.ObjectID) ([]domain.Injury, error)

	ListFeedback(ctx context.Context, coachID primitive.ObjectID) ([]domain.Feedback, error)
	RespondFeedback(ctx context.Context, coachID, feedbackID primitive.ObjectID, response string) (*domain.Feedback, error)
}

type coachService struct {
	repos    repository.Repositories
	notifier notify.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewCoachService(repos repository.Repositories, notifier notify.Notifier, logger *zap.Logger) CoachService {
	return &coachService{
		repos:    repos,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *coachService) CreatePlan(ctx context.Context, coachID primitive.ObjectID, plan *domain.TrainingPlan) (*domain.TrainingPlan, error) {
	plan.CoachID = coachID
	plan.Title = strings.TrimSpace(plan.Title)
	if plan.Status == "" {
		plan.Status = domain.PlanActive
	}
	plan.AthleteIDs = uniqueIDs(plan.AthleteIDs)
	if err := validatePlan(plan); err != nil {
		return nil, err
	}
	athletes, err := s.loadAthletes(ctx, plan.AthleteIDs)
	if err != nil {
		return nil, err
	}

	id, err := s.repos.Plans.Create(ctx, plan)
	if err != nil {
		return nil, InternalError("Could not create training plan", err)
	}
	plan.ID = id

	for i := range athletes {
		s.notifyPlanAssigned(ctx, &athletes[i], plan)
	}
	return plan, nil
}

func (s *coachService) ListPlans(ctx context.Context, coachID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	plans, err := s.repos.Plans.ListByCoach(ctx, coachID)
	if err != nil {
		return nil, InternalError("Could not fetch training plans", err)
	}
	return plans, nil
}

// UpdatePlan replaces the plan's editable fields. Athletes added by the
// update are notified.
func (s *coachService) UpdatePlan(ctx context.Context, coachID, planID primitive.ObjectID, plan *domain.TrainingPlan) (*domain.TrainingPlan, error) {
	existing, err := s.ownedPlan(ctx, coachID, planID)
	if err != nil {
		return nil, err
	}

	plan.ID = existing.ID
	plan.CoachID = coachID
	plan.CreatedAt = existing.CreatedAt
	plan.Title = strings.TrimSpace(plan.Title)
	if plan.Status == "" {
		plan.Status = existing.Status
	}
	plan.AthleteIDs = uniqueIDs(plan.AthleteIDs)
	if err := validatePlan(plan); err != nil {
		return nil, err
	}
	athletes, err := s.loadAthletes(ctx, plan.AthleteIDs)
	if err != nil {
		return nil, err
	}

	if err := s.repos.Plans.Update(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundError("Training plan")
		}
		return nil, InternalError("Could not update training plan", err)
	}

	for i := range athletes {
		if !existing.HasAthlete(athletes[i].ID) {
			s.notifyPlanAssigned(ctx, &athletes[i], plan)
		}
	}
	return plan, nil
}

func (s *coachService) DeletePlan(ctx context.Context, coachID, planID primitive.ObjectID) error {
	if err := s.repos.Plans.Delete(ctx, planID, coachID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFoundError("Training plan")
		}
		return InternalError("Could not delete training plan", err)
	}
	return nil
}

func (s *coachService) SendReminder(ctx context.Context, coachID, planID primitive.ObjectID, session time.Time) (int, error) {
	plan, err := s.ownedPlan(ctx, coachID, planID)
	if err != nil {
		return 0, err
	}
	if session.IsZero() {
		session = s.now()
	}
	athletes, err := s.repos.Users.GetByIDs(ctx, plan.AthleteIDs)
	if err != nil {
		return 0, InternalError("Could not load athletes", err)
	}

	sent := 0
	for i := range athletes {
		if err := s.notifier.TrainingReminder(ctx, &athletes[i], plan, session); err != nil {
			s.logger.Warn("training reminder failed",
				zap.String("plan_id", plan.ID.Hex()),
				zap.String("athlete_id", athletes[i].ID.Hex()),
				zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *coachService) Athletes(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	plans, err := s.repos.Plans.ListByCoach(ctx, coachID)
	if err != nil {
		return nil, InternalError("Could not fetch athletes", err)
	}
	var ids []primitive.ObjectID
	for _, p := range plans {
		ids = append(ids, p.AthleteIDs...)
	}
	athletes, err := s.repos.Users.GetByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, InternalError("Could not fetch athletes", err)
	}
	return athletes, nil
}

func (s *coachService) AthleteWorkouts(ctx context.Context, coachID, athleteID primitive.ObjectID) ([]domain.Workout, error) {
	if err := s.requireCoachOf(ctx, coachID, athleteID); err != nil {
		return nil, err
	}
	workouts, err := s.repos.Workouts.ListByAthlete(ctx, athleteID, repository.WorkoutFilter{Limit: coachHistoryLimit})
	if err != nil {
		return nil, InternalError("Could not fetch workouts", err)
	}
	return workouts, nil
}

func (s *coachService) AthletePerformance(ctx context.Context, coachID, athleteID primitive.ObjectID) ([]domain.Performance, error) {
	if err := s.requireCoachOf(ctx, coachID, athleteID); err != nil {
		return nil, err
	}
	records, err := s.repos.Performance.ListByAthlete(ctx, athleteID, coachHistoryLimit)
	if err != nil {
		return nil, InternalError("Could not fetch performance records", err)
	}
	return records, nil
}

func (s *coachService) AthleteInjuries(ctx context.Context, coachID, athleteID primitive.ObjectID) ([]domain.Injury, error) {
	if err := s.requireCoachOf(ctx, coachID, athleteID); err != nil {
		return nil, err
	}
	injuries, err := s.repos.Injuries.ListByAthlete(ctx, athleteID)
	if err != nil {
		return nil, InternalError("Could not fetch injuries", err)
	}
	return injuries, nil
}

func (s *coachService) ListFeedback(ctx context.Context, coachID primitive.ObjectID) ([]domain.Feedback, error) {
	items, err := s.repos.Feedback.ListByCoach(ctx, coachID)
	if err != nil {
		return nil, InternalError("Could not fetch feedback", err)
	}
	return items, nil
}

func (s *coachService) RespondFeedback(ctx context.Context, coachID, feedbackID primitive.ObjectID, response string) (*domain.Feedback, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, ValidationError("Response is required")
	}
	fb, err := s.repos.Feedback.GetByID(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundError("Feedback")
		}
		return nil, InternalError("Could not load feedback", err)
	}
	if fb.CoachID != coachID {
		return nil, ForbiddenError("Not authorized")
	}

	at := s.now()
	if err := s.repos.Feedback.Respond(ctx, feedbackID, coachID, response, at); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundError("Feedback")
		}
		return nil, InternalError("Could not respond to feedback", err)
	}
	fb.Response = response
	fb.Status = domain.FeedbackResponded
	fb.RespondedAt = &at
	fb.UpdatedAt = at

	athlete, err := s.repos.Users.GetByID(ctx, fb.AthleteID)
	if err != nil {
		s.logger.Warn("feedback response notification skipped",
			zap.String("feedback_id", fb.ID.Hex()), zap.Error(err))
		return fb, nil
	}
	if err := s.notifier.FeedbackResponded(ctx, athlete, fb); err != nil {
		s.logger.Warn("feedback response notification failed",
			zap.String("feedback_id", fb.ID.Hex()), zap.Error(err))
	}
	return fb, nil
}

// ownedPlan loads a plan of the coach. Plans of other coaches read as missing.
func (s *coachService) ownedPlan(ctx context.Context, coachID, planID primitive.ObjectID) (*domain.TrainingPlan, error) {
	plan, err := s.repos.Plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundError("Training plan")
		}
		return nil, InternalError("Could not load training plan", err)
	}
	if plan.CoachID != coachID {
		return nil, NotFoundError("Training plan")
	}
	return plan, nil
}

// requireCoachOf allows access only to athletes assigned to one of the coach's plans.
func (s *coachService) requireCoachOf(ctx context.Context, coachID, athleteID primitive.ObjectID) error {
	plans, err := s.repos.Plans.ListByCoach(ctx, coachID)
	if err != nil {
		return InternalError("Could not verify coach access", err)
	}
	for _, p := range plans {
		if p.HasAthlete(athleteID) {
			return nil
		}
	}
	return ForbiddenError("Athlete is not in any of your training plans")
}

// loadAthletes resolves ids to users and requires each to be an athlete.
func (s *coachService) loadAthletes(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	users, err := s.repos.Users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, InternalError("Could not load athletes", err)
	}
	found := make(map[primitive.ObjectID]bool, len(users))
	for _, u := range users {
		if !u.IsAthlete() {
			return nil, ValidationError("User %s is not an athlete", u.ID.Hex())
		}
		found[u.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, ValidationError("Athlete %s not found", id.Hex())
		}
	}
	return users, nil
}

func (s *coachService) notifyPlanAssigned(ctx context.Context, athlete *domain.User, plan *domain.TrainingPlan) {
	if err := s.notifier.PlanAssigned(ctx, athlete, plan); err != nil {
		s.logger.Warn("plan assignment notification failed",
			zap.String("plan_id", plan.ID.Hex()),
			zap.String("athlete_id", athlete.ID.Hex()),
			zap.Error(err))
	}
}

func uniqueIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
