package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mood is the athlete's self-reported mood after a session.
type Mood string

const (
	MoodExcellent Mood = "excellent"
	MoodGood      Mood = "good"
	MoodAverage   Mood = "average"
	MoodPoor      Mood = "poor"
	MoodExhausted Mood = "exhausted"
)

func (m Mood) Valid() bool {
	switch m {
	case MoodExcellent, MoodGood, MoodAverage, MoodPoor, MoodExhausted:
		return true
	}
	return false
}

// Severity grades an injury.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityMinor, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

// ExerciseLog is one exercise performed during a workout.
type ExerciseLog struct {
	Name              string `bson:"name" json:"name"`
	SetsCompleted     int    `bson:"setsCompleted,omitempty" json:"setsCompleted,omitempty"`
	RepsCompleted     string `bson:"repsCompleted,omitempty" json:"repsCompleted,omitempty"`
	DurationCompleted string `bson:"durationCompleted,omitempty" json:"durationCompleted,omitempty"`
	Weight            string `bson:"weight,omitempty" json:"weight,omitempty"`
	Notes             string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// WorkoutInjury is an injury noted while logging a workout.
type WorkoutInjury struct {
	BodyPart    string   `bson:"bodyPart" json:"bodyPart"`
	Severity    Severity `bson:"severity,omitempty" json:"severity,omitempty"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
}

// Workout is one logged training session of an athlete.
// TotalDuration is stored in minutes.
type Workout struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AthleteID        primitive.ObjectID `bson:"athleteId" json:"athleteId"`
	TrainingPlanID   primitive.ObjectID `bson:"trainingPlanId" json:"trainingPlanId"`
	Date             time.Time          `bson:"date" json:"date"`
	Exercises        []ExerciseLog      `bson:"exercises,omitempty" json:"exercises,omitempty"`
	TotalDuration    float64            `bson:"totalDuration" json:"totalDuration"`
	CaloriesBurned   *float64           `bson:"caloriesBurned,omitempty" json:"caloriesBurned,omitempty"`
	DifficultyRating *int               `bson:"difficultyRating,omitempty" json:"difficultyRating,omitempty"`
	FatigueLevel     *int               `bson:"fatigueLevel,omitempty" json:"fatigueLevel,omitempty"`
	Mood             Mood               `bson:"mood,omitempty" json:"mood,omitempty"`
	Notes            string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Injuries         []WorkoutInjury    `bson:"injuries,omitempty" json:"injuries,omitempty"`
	Completed        bool               `bson:"completed" json:"completed"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CategoryCount is the number of workouts logged against plans of one category.
type CategoryCount struct {
	Category PlanCategory `bson:"category" json:"category"`
	Count    int          `bson:"count" json:"count"`
}

// WorkoutUpdate holds the editable workout fields. Nil fields keep their stored value.
type WorkoutUpdate struct {
	Date             *time.Time
	Exercises        *[]ExerciseLog
	TotalDuration    *float64
	CaloriesBurned   *float64
	DifficultyRating *int
	FatigueLevel     *int
	Mood             *Mood
	Notes            *string
	Injuries         *[]WorkoutInjury
	Completed        *bool
}

// Apply merges the set fields of u into w.
func (u WorkoutUpdate) Apply(w *Workout) {
	if u.Date != nil {
		w.Date = *u.Date
	}
	if u.Exercises != nil {
		w.Exercises = append([]ExerciseLog(nil), (*u.Exercises)...)
	}
	if u.TotalDuration != nil {
		w.TotalDuration = *u.TotalDuration
	}
	if u.CaloriesBurned != nil {
		v := *u.CaloriesBurned
		w.CaloriesBurned = &v
	}
	if u.DifficultyRating != nil {
		v := *u.DifficultyRating
		w.DifficultyRating = &v
	}
	if u.FatigueLevel != nil {
		v := *u.FatigueLevel
		w.FatigueLevel = &v
	}
	if u.Mood != nil {
		w.Mood = *u.Mood
	}
	if u.Notes != nil {
		w.Notes = *u.Notes
	}
	if u.Injuries != nil {
		w.Injuries = append([]WorkoutInjury(nil), (*u.Injuries)...)
	}
	if u.Completed != nil {
		w.Completed = *u.Completed
	}
}
