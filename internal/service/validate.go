package service

import (
	"athleteiq/coaching-api/internal/domain"
	"time"
	"unicode/utf8"
)

const (
	maxCustomMetricName = 50
	maxCustomMetricUnit = 20
	maxPerformanceNotes = 1000
)

func validateRating(field string, v *int, lo, hi int) error {
	if v != nil && (*v < lo || *v > hi) {
		return ValidationError("%s must be between %d and %d", field, lo, hi)
	}
	return nil
}

func validateWorkout(w *domain.Workout) error {
	if w.TrainingPlanID.IsZero() {
		return ValidationError("Training plan is required")
	}
	if w.TotalDuration <= 0 {
		return ValidationError("Total duration must be greater than 0")
	}
	if w.CaloriesBurned != nil && *w.CaloriesBurned < 0 {
		return ValidationError("Calories burned cannot be negative")
	}
	if err := validateRating("Difficulty rating", w.DifficultyRating, 1, 10); err != nil {
		return err
	}
	if err := validateRating("Fatigue level", w.FatigueLevel, 1, 10); err != nil {
		return err
	}
	if w.Mood != "" && !w.Mood.Valid() {
		return ValidationError("Invalid mood '%s'", w.Mood)
	}
	for _, ex := range w.Exercises {
		if ex.Name == "" {
			return ValidationError("Exercise name is required")
		}
	}
	for _, in := range w.Injuries {
		if in.BodyPart == "" {
			return ValidationError("Injury body part is required")
		}
		if in.Severity != "" && !in.Severity.Valid() {
			return ValidationError("Invalid injury severity '%s'", in.Severity)
		}
	}
	return nil
}

func validatePerformance(p *domain.Performance, now time.Time) error {
	if !p.HasAnyMetric() {
		return ValidationError("At least one metric must be provided")
	}
	if p.Date.After(now) {
		return ValidationError("Date cannot be in the future")
	}
	for _, f := range p.Metrics.Fields() {
		if f.Value == nil {
			continue
		}
		if *f.Value < f.Min {
			return ValidationError("%s must be at least %g", f.Name, f.Min)
		}
		if f.Max != nil && *f.Value > *f.Max {
			return ValidationError("%s must be at most %g", f.Name, *f.Max)
		}
	}
	for _, m := range p.CustomMetrics {
		if m.Name == "" {
			return ValidationError("Custom metric name is required")
		}
		if utf8.RuneCountInString(m.Name) > maxCustomMetricName {
			return ValidationError("Custom metric name cannot exceed %d characters", maxCustomMetricName)
		}
		if utf8.RuneCountInString(m.Unit) > maxCustomMetricUnit {
			return ValidationError("Custom metric unit cannot exceed %d characters", maxCustomMetricUnit)
		}
	}
	if utf8.RuneCountInString(p.Notes) > maxPerformanceNotes {
		return ValidationError("Notes cannot exceed %d characters", maxPerformanceNotes)
	}
	return nil
}

func validatePlan(p *domain.TrainingPlan) error {
	if p.Title == "" {
		return ValidationError("Title is required")
	}
	if !p.Category.Valid() {
		return ValidationError("Invalid category '%s'", p.Category)
	}
	if p.Status != "" && !p.Status.Valid() {
		return ValidationError("Invalid status '%s'", p.Status)
	}
	if p.Duration.Weeks < 1 || p.Duration.SessionsPerWeek < 1 {
		return ValidationError("Duration weeks and sessions per week must be at least 1")
	}
	if p.StartDate.IsZero() {
		return ValidationError("Start date is required")
	}
	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return ValidationError("End date cannot be before start date")
	}
	return nil
}
