package memory

import (
	"athleteiq/coaching-api/internal/domain"
	"bytes"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Records cross the store boundary as deep copies so callers never share
// pointers or slices with stored state.

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

func cloneUser(u domain.User) domain.User {
	u.LastLogin = clonePtr(u.LastLogin)
	u.DateOfBirth = clonePtr(u.DateOfBirth)
	return u
}

func cloneWorkout(w domain.Workout) domain.Workout {
	w.Exercises = cloneSlice(w.Exercises)
	w.CaloriesBurned = clonePtr(w.CaloriesBurned)
	w.DifficultyRating = clonePtr(w.DifficultyRating)
	w.FatigueLevel = clonePtr(w.FatigueLevel)
	w.Injuries = cloneSlice(w.Injuries)
	return w
}

func clonePerformance(p domain.Performance) domain.Performance {
	p.TrainingPlanID = clonePtr(p.TrainingPlanID)
	m := &p.Metrics
	m.Weight = clonePtr(m.Weight)
	m.BodyFat = clonePtr(m.BodyFat)
	m.MuscleMass = clonePtr(m.MuscleMass)
	m.VO2Max = clonePtr(m.VO2Max)
	m.RestingHeartRate = clonePtr(m.RestingHeartRate)
	m.Flexibility = clonePtr(m.Flexibility)
	m.Strength.BenchPress = clonePtr(m.Strength.BenchPress)
	m.Strength.Squat = clonePtr(m.Strength.Squat)
	m.Strength.Deadlift = clonePtr(m.Strength.Deadlift)
	m.Endurance.RunTime5k = clonePtr(m.Endurance.RunTime5k)
	m.Endurance.RunTime10k = clonePtr(m.Endurance.RunTime10k)
	m.Endurance.PlankDuration = clonePtr(m.Endurance.PlankDuration)
	m.Speed.Sprint100m = clonePtr(m.Speed.Sprint100m)
	m.Speed.Sprint200m = clonePtr(m.Speed.Sprint200m)
	p.CustomMetrics = cloneSlice(p.CustomMetrics)
	return p
}

func clonePlan(p domain.TrainingPlan) domain.TrainingPlan {
	p.AthleteIDs = cloneSlice(p.AthleteIDs)
	p.EndDate = clonePtr(p.EndDate)
	return p
}

func cloneFeedback(fb domain.Feedback) domain.Feedback {
	fb.TrainingPlanID = clonePtr(fb.TrainingPlanID)
	fb.WorkoutID = clonePtr(fb.WorkoutID)
	fb.Rating = clonePtr(fb.Rating)
	fb.RespondedAt = clonePtr(fb.RespondedAt)
	return fb
}

func cloneInjury(in domain.Injury) domain.Injury {
	in.ExpectedRecoveryDate = clonePtr(in.ExpectedRecoveryDate)
	return in
}

// newerFirst orders by time descending, then by id so equal times sort the same way every call.
func newerFirst(a, b time.Time, aID, bID primitive.ObjectID) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return bytes.Compare(aID[:], bID[:]) > 0
}
