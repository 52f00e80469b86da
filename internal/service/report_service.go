package service

import (
	"athleteiq/coaching-api/internal/domain"
	"athleteiq/coaching-api/internal/repository"
	"athleteiq/coaching-api/internal/storage"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	reportWorkoutLimit     = 50
	reportPerformanceLimit = 10
	reportURLExpiry        = 15 * time.Minute
)

// Report points at a generated training report in object storage.
type Report struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ReportService interface {
	// Generate renders the athlete's report as CSV, stores it and returns a download link.
	Generate(ctx context.Context, athleteID primitive.ObjectID) (*Report, error)
}

type reportService struct {
	repos   repository.Repositories
	storage storage.FileStorage
	logger  *zap.Logger
	now     func() time.Time
}

// NewReportService wires report generation. A nil store makes Generate fail.
func NewReportService(repos repository.Repositories, store storage.FileStorage, logger *zap.Logger) ReportService {
	return &reportService{
		repos:   repos,
		storage: store,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *reportService) Generate(ctx context.Context, athleteID primitive.ObjectID) (*Report, error) {
	if s.storage == nil {
		return nil, InternalError("Report storage is not configured", errors.New("no file storage"))
	}

	user, err := s.repos.Users.GetByID(ctx, athleteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundError("User")
		}
		return nil, InternalError("Failed to generate report", err)
	}
	workouts, err := s.repos.Workouts.ListByAthlete(ctx, athleteID, repository.WorkoutFilter{Limit: reportWorkoutLimit})
	if err != nil {
		return nil, InternalError("Failed to generate report", err)
	}
	records, err := s.repos.Performance.ListByAthlete(ctx, athleteID, reportPerformanceLimit)
	if err != nil {
		return nil, InternalError("Failed to generate report", err)
	}

	now := s.now()
	body, err := renderReport(user, workouts, records, now)
	if err != nil {
		return nil, InternalError("Failed to generate report", err)
	}

	key := fmt.Sprintf("reports/%s/%s.csv", athleteID.Hex(), uuid.NewString())
	if err := s.storage.PutObject(ctx, key, "text/csv", bytes.NewReader(body)); err != nil {
		return nil, InternalError("Failed to generate report", err)
	}
	url, err := s.storage.GeneratePresignedDownloadURL(ctx, key, reportURLExpiry)
	if err != nil {
		if delErr := s.storage.DeleteObject(ctx, key); delErr != nil {
			s.logger.Warn("orphaned report object", zap.String("key", key), zap.Error(delErr))
		}
		return nil, InternalError("Failed to generate report", err)
	}

	s.logger.Info("training report generated",
		zap.String("athlete_id", athleteID.Hex()),
		zap.String("key", key),
		zap.Int("workouts", len(workouts)))
	return &Report{Key: key, URL: url, ExpiresAt: now.Add(reportURLExpiry)}, nil
}

// renderReport writes three sections separated by blank rows: the athlete,
// their workouts and their performance records.
func renderReport(user *domain.User, workouts []domain.Workout, records []domain.Performance, generated time.Time) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"Training Report"},
		{"Athlete", user.Name},
		{"Email", user.Email},
		{"Sports Category", user.SportsCategory},
		{"Generated", domain.FormatDate(generated)},
		{},
		{"Date", "Duration (min)", "Calories", "Difficulty", "Fatigue", "Mood", "Exercises", "Completed"},
	}
	for _, wo := range workouts {
		rows = append(rows, []string{
			domain.FormatDate(wo.Date),
			formatFloat(wo.TotalDuration),
			optFloat(wo.CaloriesBurned),
			optInt(wo.DifficultyRating),
			optInt(wo.FatigueLevel),
			string(wo.Mood),
			strconv.Itoa(len(wo.Exercises)),
			strconv.FormatBool(wo.Completed),
		})
	}

	rows = append(rows, []string{}, []string{"Date", "Metric", "Value"})
	for _, p := range records {
		date := domain.FormatDate(p.Date)
		for _, f := range p.Metrics.Fields() {
			if f.Value != nil {
				rows = append(rows, []string{date, f.Name, formatFloat(*f.Value)})
			}
		}
		for _, m := range p.CustomMetrics {
			rows = append(rows, []string{date, m.Name, formatFloat(m.Value) + unitSuffix(m.Unit)})
		}
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("write report csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func unitSuffix(unit string) string {
	if unit == "" {
		return ""
	}
	return " " + unit
}
