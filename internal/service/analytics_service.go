package service

import (
	"athleteiq/coaching-api/internal/domain"
	"athleteiq/coaching-api/internal/repository"
	"context"
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Window sizes for the analytics report.
const (
	analyticsWorkoutWindow     = 30
	analyticsPerformanceWindow = 10
	analyticsRecentPerformance = 5
	analyticsSeriesLength      = 7
)

type AnalyticsSummary struct {
	TotalWorkouts int64   `json:"totalWorkouts"`
	TotalDuration int64   `json:"totalDuration"` // minutes
	TotalCalories float64 `json:"totalCalories"`
	AvgDifficulty string  `json:"avgDifficulty"`
	AvgFatigue    string  `json:"avgFatigue"`
}

// DayPoint is one entry of the recent-sessions series.
type DayPoint struct {
	Date       string   `json:"date"`
	Duration   float64  `json:"duration"`
	Calories   *float64 `json:"calories"`
	Difficulty *int     `json:"difficulty"`
}

type Analytics struct {
	Summary            AnalyticsSummary       `json:"summary"`
	WorkoutsByCategory []domain.CategoryCount `json:"workoutsByCategory"`
	Last7Days          []DayPoint             `json:"last7Days"`
	RecentPerformance  []domain.Performance   `json:"recentPerformance"`
}

type AnalyticsService interface {
	ForAthlete(ctx context.Context, athleteID primitive.ObjectID) (*Analytics, error)
}

type analyticsService struct {
	workouts    repository.WorkoutRepository
	performance repository.PerformanceRepository
}

func NewAnalyticsService(workouts repository.WorkoutRepository, performance repository.PerformanceRepository) AnalyticsService {
	return &analyticsService{workouts: workouts, performance: performance}
}

// ForAthlete summarizes the athlete's recent training. Any read failure fails
// the whole report.
func (s *analyticsService) ForAthlete(ctx context.Context, athleteID primitive.ObjectID) (*Analytics, error) {
	total, err := s.workouts.CountByAthlete(ctx, athleteID)
	if err != nil {
		return nil, InternalError("Could not load analytics", err)
	}
	workouts, err := s.workouts.ListByAthlete(ctx, athleteID, repository.WorkoutFilter{Limit: analyticsWorkoutWindow})
	if err != nil {
		return nil, InternalError("Could not load analytics", err)
	}
	records, err := s.performance.ListByAthlete(ctx, athleteID, analyticsPerformanceWindow)
	if err != nil {
		return nil, InternalError("Could not load analytics", err)
	}
	byCategory, err := s.workouts.CountByPlanCategory(ctx, athleteID)
	if err != nil {
		return nil, InternalError("Could not load analytics", err)
	}

	return &Analytics{
		Summary:            summarize(total, workouts),
		WorkoutsByCategory: byCategory,
		Last7Days:          lastSessions(workouts, analyticsSeriesLength),
		RecentPerformance:  records[:min(len(records), analyticsRecentPerformance)],
	}, nil
}

// summarize reduces the fetched window. Averages divide by the number of
// fetched workouts, so sessions without a rating count as zero.
func summarize(total int64, workouts []domain.Workout) AnalyticsSummary {
	var duration, calories float64
	var difficulty, fatigue int
	for _, w := range workouts {
		duration += w.TotalDuration
		if w.CaloriesBurned != nil {
			calories += *w.CaloriesBurned
		}
		if w.DifficultyRating != nil {
			difficulty += *w.DifficultyRating
		}
		if w.FatigueLevel != nil {
			fatigue += *w.FatigueLevel
		}
	}
	return AnalyticsSummary{
		TotalWorkouts: total,
		TotalDuration: roundHalfUp(duration),
		TotalCalories: calories,
		AvgDifficulty: averageOneDecimal(difficulty, len(workouts)),
		AvgFatigue:    averageOneDecimal(fatigue, len(workouts)),
	}
}

// lastSessions takes the n most recent of a date-descending slice and
// returns them oldest first.
func lastSessions(workouts []domain.Workout, n int) []DayPoint {
	recent := workouts[:min(len(workouts), n)]
	points := make([]DayPoint, len(recent))
	for i, w := range recent {
		points[len(recent)-1-i] = DayPoint{
			Date:       domain.FormatDate(w.Date),
			Duration:   w.TotalDuration,
			Calories:   w.CaloriesBurned,
			Difficulty: w.DifficultyRating,
		}
	}
	return points
}

func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}

// averageOneDecimal formats sum/count with one decimal, rounding half up.
// Integer arithmetic keeps halves exact. A zero count yields "0.0".
func averageOneDecimal(sum, count int) string {
	if count == 0 {
		return "0.0"
	}
	tenths := (20*sum + count) / (2 * count)
	return fmt.Sprintf("%d.%d", tenths/10, tenths%10)
}
