package service

import (
	"athleteiq/coaching-api/internal/domain"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAthleteService_LogWorkoutIgnoresClientAthleteID(t *testing.T) {
	ctx := context.Background()
	repos := newMemoryRepos()
	athlete := seedUser(t, repos, "ana", domain.RoleAthlete)
	plan := seedPlan(t, repos, primitive.NewObjectID(), domain.CategoryEndurance, athlete.ID)
	svc := NewAthleteService(repos)

	spoofed := primitive.NewObjectID()
	logged, err := svc.LogWorkout(ctx, athlete.ID, &domain.Workout{
		AthleteID:      spoofed,
		TrainingPlanID: plan.ID,
		TotalDuration:  45,
		Completed:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, athlete.ID, logged.AthleteID)
	assert.False(t, logged.Date.IsZero(), "date defaults to now")

	stored, err := repos.Workouts.GetByID(ctx, logged.ID)
	require.NoError(t, err)
	assert.Equal(t, athlete.ID, stored.AthleteID)
}

func TestAthleteService_LogWorkoutValidation(t *testing.T) {
	ctx := context.Background()
	repos := newMemoryRepos()
	athlete := seedUser(t, repos, "ana", domain.RoleAthlete)
	plan := seedPlan(t, repos, primitive.NewObjectID(), domain.CategoryEndurance, athlete.ID)
	foreign := seedPlan(t, repos, primitive.NewObjectID(), domain.CategoryStrength)
	svc := NewAthleteService(repos)

	cases := map[string]struct {
		workout domain.Workout
		kind    Kind
	}{
		"missing plan":      {domain.Workout{TotalDuration: 30}, KindValidation},
		"zero duration":     {domain.Workout{TrainingPlanID: plan.ID}, KindValidation},
		"difficulty range":  {domain.Workout{TrainingPlanID: plan.ID, TotalDuration: 30, DifficultyRating: intPtr(11)}, KindValidation},
		"fatigue range":     {domain.Workout{TrainingPlanID: plan.ID, TotalDuration: 30, FatigueLevel: intPtr(0)}, KindValidation},
		"bad mood":          {domain.Workout{TrainingPlanID: plan.ID, TotalDuration: 30, Mood: "meh"}, KindValidation},
		"unknown plan":      {domain.Workout{TrainingPlanID: primitive.NewObjectID(), TotalDuration: 30}, KindNotFound},
		"plan not assigned": {domain.Workout{TrainingPlanID: foreign.ID, TotalDuration: 30}, KindForbidden},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := tc.workout
			_, err := svc.LogWorkout(ctx, athlete.ID, &w)
			assert.Equal(t, tc.kind, AsError(err).Kind)
		})
	}
}

func TestAthleteService_UpdateWorkout(t *testing.T) {
	ctx := context.Background()
	repos := newMemoryRepos()
	athlete := seedUser(t, repos, "ana", domain.RoleAthlete)
	other := seedUser(t, repos, "bo", domain.RoleAthlete)
	plan := seedPlan(t, repos, primitive.NewObjectID(), domain.CategoryEndurance, athlete.ID)
	svc := NewAthleteService(repos)

	logged, err := svc.LogWorkout(ctx, athlete.ID, &domain.Workout{TrainingPlanID: plan.ID, TotalDuration: 30})
	require.NoError(t, err)

	duration := 40.0
	_, err = svc.UpdateWorkout(ctx, athlete.ID, primitive.NewObjectID(), domain.WorkoutUpdate{TotalDuration: &duration})
	assert.Equal(t, KindNotFound, AsError(err).Kind)

	_, err = svc.UpdateWorkout(ctx, other.ID, logged.ID, domain.WorkoutUpdate{TotalDuration: &duration})
	assert.Equal(t, KindForbidden, AsError(err).Kind)

	notes := "felt strong"
	updated, err := svc.UpdateWorkout(ctx, athlete.ID, logged.ID, domain.WorkoutUpdate{TotalDuration: &duration, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, athlete.ID, updated.AthleteID)
	assert.Equal(t, plan.ID, updated.TrainingPlanID)

	stored, err := repos.Workouts.GetByID(ctx, logged.ID)
	require.NoError(t, err)
	assert.Equal(t, 40.0, stored.TotalDuration)
	assert.Equal(t, "felt strong", stored.Notes)
	assert.Equal(t, athlete.ID, stored.AthleteID)

	zero := 0.0
	_, err = svc.UpdateWorkout(ctx, athlete.ID, logged.ID, domain.WorkoutUpdate{TotalDuration: &zero})
	assert.Equal(t, KindValidation, AsError(err).Kind)
}

func TestAthleteService_UpdateWorkoutKeepsUnsentFields(t *testing.T) {
	ctx := context.Background()
	repos := newMemoryRepos()
	athlete := seedUser(t, repos, "ana", domain.RoleAthlete)
	plan := seedPlan(t, repos, primitive.NewObjectID(), domain.CategoryEndurance, athlete.ID)
	svc := NewAthleteService(repos)

	calories, difficulty := 300.0, 7
	logged, err := svc.LogWorkout(ctx, athlete.ID, &domain.Workout{
		TrainingPlanID:   plan.ID,
		TotalDuration:    30,
		CaloriesBurned:   &calories,
		DifficultyRating: &difficulty,
		Completed:        false,
	})
	require.NoError(t, err)

	notes := "felt good"
	_, err = svc.UpdateWorkout(ctx, athlete.ID, logged.ID, domain.WorkoutUpdate{Notes: &notes})
	require.NoError(t, err)

	stored, err := repos.Workouts.GetByID(ctx, logged.ID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, stored.TotalDuration)
	require.NotNil(t, stored.CaloriesBurned)
	assert.Equal(t, 300.0, *stored.CaloriesBurned)
	require.NotNil(t, stored.DifficultyRating)
	assert.Equal(t, 7, *stored.DifficultyRating)
	assert.False(t, stored.Completed)
	assert.Equal(t, "felt good", stored.Notes)
}

func TestAthleteService_ListWorkoutsRange(t *testing.T) {
	ctx := context.Background()
	repos := newMemoryRepos()
	athlete := seedUser(t, repos, "ana", domain.RoleAthlete)
	plan := seedPlan(t, repos, primitive.NewObjectID(), domain.CategoryEndurance, athlete.ID)
	svc := NewAthleteService(repos)

	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := svc.LogWorkout(ctx, athlete.ID, &domain.Workout{TrainingPlanID: plan.ID, TotalDuration: 30, Date: base.AddDate(0, 0, i)})
		require.NoError(t, err)
	}

	from, to := base.AddDate(0, 0, 1), base.AddDate(0, 0, 3)
	workouts, err := svc.ListWorkouts(ctx, athlete.ID, &from, &to)
	require.NoError(t, err)
	require.Len(t, workouts, 3)
	assert.True(t, workouts[0].Date.After(workouts[2].Date), "newest first")

	_, err = svc.ListWorkouts(ctx, athlete.ID, &to, &from)
	assert.Equal(t, KindValidation, AsError(err).Kind)
}

func TestAthleteService_RecordPerformance(t *testing.T) {
	ctx := context.Background()
	repos := newMemoryRepos()
	athlete := seedUser(t, repos, "ana", domain.RoleAthlete)
	coach := seedUser(t, repos, "carl", domain.RoleCoach)
	svc := NewAthleteService(repos)

	t.Run("requires at least one metric", func(t *testing.T) {
		_, err := svc.RecordPerformance(ctx, athlete.ID, &domain.Performance{Notes: "nothing measured"})
		assert.Equal(t, KindValidation, AsError(err).Kind)
	})

	t.Run("custom metric alone is enough", func(t *testing.T) {
		perf, err := svc.RecordPerformance(ctx, athlete.ID, &domain.Performance{
			CustomMetrics: []domain.CustomMetric{{Name: "vertical jump", Value: 61, Unit: "cm"}},
		})
		require.NoError(t, err)
		assert.Equal(t, athlete.ID, perf.AthleteID)
		assert.Equal(t, athlete.ID, perf.RecordedBy)
	})

	t.Run("ranges", func(t *testing.T) {
		cases := []domain.Metrics{
			{Weight: floatPtr(19)},
			{BodyFat: floatPtr(61)},
			{RestingHeartRate: floatPtr(121)},
			{Speed: domain.SpeedMetrics{Sprint100m: floatPtr(7.5)}},
			{Strength: domain.StrengthMetrics{Squat: floatPtr(-1)}},
		}
		for _, m := range cases {
			_, err := svc.RecordPerformance(ctx, athlete.ID, &domain.Performance{Metrics: m})
			assert.Equal(t, KindValidation, AsError(err).Kind)
		}
	})

	t.Run("date in the future", func(t *testing.T) {
		_, err := svc.RecordPerformance(ctx, athlete.ID, &domain.Performance{
			Date:    time.Now().Add(48 * time.Hour),
			Metrics: domain.Metrics{Weight: floatPtr(70)},
		})
		assert.Equal(t, KindValidation, AsError(err).Kind)
	})

	t.Run("caller must be an athlete", func(t *testing.T) {
		_, err := svc.RecordPerformance(ctx, coach.ID, &domain.Performance{Metrics: domain.Metrics{Weight: floatPtr(80)}})
		assert.Equal(t, KindValidation, AsError(err).Kind)
	})
}

func TestAthleteService_FeedbackAndInjuries(t *testing.T) {
	ctx := context.Background()
	repos := newMemoryRepos()
	athlete := seedUser(t, repos, "ana", domain.RoleAthlete)
	coach := seedUser(t, repos, "carl", domain.RoleCoach)
	svc := NewAthleteService(repos)

	_, err := svc.SubmitFeedback(ctx, athlete.ID, &domain.Feedback{CoachID: athlete.ID, Message: "hi"})
	assert.Equal(t, KindNotFound, AsError(err).Kind, "addressee must be a coach")

	_, err = svc.SubmitFeedback(ctx, athlete.ID, &domain.Feedback{CoachID: coach.ID, Message: "hi", Rating: intPtr(6)})
	assert.Equal(t, KindValidation, AsError(err).Kind)

	fb, err := svc.SubmitFeedback(ctx, athlete.ID, &domain.Feedback{
		CoachID: coach.ID,
		Message: "  Knee feels sore after squats ",
		Status:  domain.FeedbackResponded,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.FeedbackPending, fb.Status)
	assert.Equal(t, domain.FeedbackGeneral, fb.Category)
	assert.Equal(t, "Knee feels sore after squats", fb.Message)

	items, err := svc.ListFeedback(ctx, athlete.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = svc.ReportInjury(ctx, athlete.ID, &domain.Injury{BodyPart: "knee", Severity: "bad", Description: "sore"})
	assert.Equal(t, KindValidation, AsError(err).Kind)

	injury, err := svc.ReportInjury(ctx, athlete.ID, &domain.Injury{
		BodyPart:    "knee",
		Severity:    domain.SeverityMinor,
		Description: "sore after squats",
		Status:      domain.InjuryRecovered,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.InjuryActive, injury.Status)

	injuries, err := svc.ListInjuries(ctx, athlete.ID)
	require.NoError(t, err)
	assert.Len(t, injuries, 1)
}
