package api

import (
	"athleteiq/coaching-api/internal/domain"
	"athleteiq/coaching-api/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AthleteHandler struct {
	athleteService   service.AthleteService
	analyticsService service.AnalyticsService
	reportService    service.ReportService
}

func NewAthleteHandler(
	athleteService service.AthleteService,
	analyticsService service.AnalyticsService,
	reportService service.ReportService,
) *AthleteHandler {
	return &AthleteHandler{
		athleteService:   athleteService,
		analyticsService: analyticsService,
		reportService:    reportService,
	}
}

// --- DTOs ---

// WorkoutRequest is the body for logging a workout. An athleteId in
// the payload is ignored.
type WorkoutRequest struct {
	TrainingPlanID   string                 `json:"trainingPlanId"`
	Date             string                 `json:"date"`
	Exercises        []domain.ExerciseLog   `json:"exercises"`
	TotalDuration    float64                `json:"totalDuration"`
	CaloriesBurned   *float64               `json:"caloriesBurned"`
	DifficultyRating *int                   `json:"difficultyRating"`
	FatigueLevel     *int                   `json:"fatigueLevel"`
	Mood             domain.Mood            `json:"mood"`
	Notes            string                 `json:"notes"`
	Injuries         []domain.WorkoutInjury `json:"injuries"`
	Completed        *bool                  `json:"completed"`
}

func (r *WorkoutRequest) toDomain() (*domain.Workout, error) {
	planID, err := parseOptionalObjectID("trainingPlanId", r.TrainingPlanID)
	if err != nil {
		return nil, err
	}
	date, err := parseDate("date", r.Date)
	if err != nil {
		return nil, err
	}
	completed := true
	if r.Completed != nil {
		completed = *r.Completed
	}
	w := &domain.Workout{
		Date:             dateOrZero(date),
		Exercises:        r.Exercises,
		TotalDuration:    r.TotalDuration,
		CaloriesBurned:   r.CaloriesBurned,
		DifficultyRating: r.DifficultyRating,
		FatigueLevel:     r.FatigueLevel,
		Mood:             r.Mood,
		Notes:            r.Notes,
		Injuries:         r.Injuries,
		Completed:        completed,
	}
	if planID != nil {
		w.TrainingPlanID = *planID
	}
	return w, nil
}

// WorkoutUpdateRequest is the body for editing a workout. Only the fields
// present in the payload change.
type WorkoutUpdateRequest struct {
	Date             *string                 `json:"date"`
	Exercises        *[]domain.ExerciseLog   `json:"exercises"`
	TotalDuration    *float64                `json:"totalDuration"`
	CaloriesBurned   *float64                `json:"caloriesBurned"`
	DifficultyRating *int                    `json:"difficultyRating"`
	FatigueLevel     *int                    `json:"fatigueLevel"`
	Mood             *domain.Mood            `json:"mood"`
	Notes            *string                 `json:"notes"`
	Injuries         *[]domain.WorkoutInjury `json:"injuries"`
	Completed        *bool                   `json:"completed"`
}

func (r *WorkoutUpdateRequest) toUpdate() (domain.WorkoutUpdate, error) {
	update := domain.WorkoutUpdate{
		Exercises:        r.Exercises,
		TotalDuration:    r.TotalDuration,
		CaloriesBurned:   r.CaloriesBurned,
		DifficultyRating: r.DifficultyRating,
		FatigueLevel:     r.FatigueLevel,
		Mood:             r.Mood,
		Notes:            r.Notes,
		Injuries:         r.Injuries,
		Completed:        r.Completed,
	}
	if r.Date != nil {
		date, err := parseDate("date", *r.Date)
		if err != nil {
			return update, err
		}
		update.Date = date
	}
	return update, nil
}

type PerformanceRequest struct {
	TrainingPlanID string                `json:"trainingPlanId"`
	Date           string                `json:"date"`
	Metrics        domain.Metrics        `json:"metrics"`
	CustomMetrics  []domain.CustomMetric `json:"customMetrics"`
	Notes          string                `json:"notes"`
}

type FeedbackRequest struct {
	CoachID        string                  `json:"coachId" binding:"required"`
	TrainingPlanID string                  `json:"trainingPlanId"`
	WorkoutID      string                  `json:"workoutId"`
	Category       domain.FeedbackCategory `json:"category"`
	Message        string                  `json:"message" binding:"required"`
	Rating         *int                    `json:"rating"`
}

type InjuryRequest struct {
	BodyPart             string          `json:"bodyPart" binding:"required"`
	Severity             domain.Severity `json:"severity" binding:"required"`
	Description          string          `json:"description" binding:"required"`
	DateOccurred         string          `json:"dateOccurred"`
	ExpectedRecoveryDate string          `json:"expectedRecoveryDate"`
	Treatment            string          `json:"treatment"`
}

// --- Handler Methods ---

// GetActivePlans godoc
// @Summary List the caller's active training plans
// @Tags Athlete
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Router /athlete/plans [get]
func (h *AthleteHandler) GetActivePlans(c *gin.Context) {
	athleteID, ok := currentUserID(c)
	if !ok {
		return
	}
	plans, err := h.athleteService.ActivePlans(c.Request.Context(), athleteID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if plans == nil {
		plans = []domain.TrainingPlan{}
	}
	respondList(c, plans, len(plans))
}

// LogWorkout godoc
// @Summary Log a completed workout
// @Tags Athlete
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body WorkoutRequest true "Workout details"
// @Success 201 {object} Envelope "Workout logged successfully"
// @Failure 400 {object} Envelope "Invalid input"
// @Failure 403 {object} Envelope "Not assigned to the plan"
// @Failure 404 {object} Envelope "Training plan not found"
// @Router /athlete/workouts [post]
func (h *AthleteHandler) LogWorkout(c *gin.Context) {
	athleteID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	workout, err := req.toDomain()
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	created, err := h.athleteService.LogWorkout(c.Request.Context(), athleteID, workout)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Workout logged successfully", created)
}

// GetWorkouts godoc
// @Summary List the caller's workouts
// @Tags Athlete
// @Produce json
// @Security BearerAuth
// @Param startDate query string false "Inclusive lower bound"
// @Param endDate query string false "Inclusive upper bound"
// @Success 200 {object} Envelope
// @Router /athlete/workouts [get]
func (h *AthleteHandler) GetWorkouts(c *gin.Context) {
	athleteID, ok := currentUserID(c)
	if !ok {
		return
	}
	from, err := parseDate("startDate", c.Query("startDate"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	to, err := parseDate("endDate", c.Query("endDate"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	workouts, err := h.athleteService.ListWorkouts(c.Request.Context(), athleteID, from, to)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if workouts == nil {
		workouts = []domain.Workout{}
	}
	respondList(c, workouts, len(workouts))
}

// UpdateWorkout godoc
// @Summary Edit one of the caller's workouts
// @Tags Athlete
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param workout body WorkoutUpdateRequest true "Fields to change"
// @Success 200 {object} Envelope "Workout updated successfully"
// @Failure 403 {object} Envelope "Workout belongs to another athlete"
// @Failure 404 {object} Envelope "Workout not found"
// @Router /athlete/workouts/{id} [put]
func (h *AthleteHandler) UpdateWorkout(c *gin.Context) {
	athleteID, ok := currentUserID(c)
	if !ok {
		return
	}
	workoutID, ok := paramObjectID(c, "id")
	if !ok {
		return
	}
	var req WorkoutUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	update, err := req.toUpdate()
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	updated, err := h.athleteService.UpdateWorkout(c.Request.Context(), athleteID, workoutID, update)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Workout updated successfully", updated)
}

// RecordPerformance godoc
// @Summary Record a performance snapshot
// @Tags Athlete
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param performance body PerformanceRequest true "Metrics"
// @Success 201 {object} Envelope "Performance recorded successfully"
// @Failure 400 {object} Envelope "Out-of-range metric or future date"
// @Router /athlete/performance [post]
func (h *AthleteHandler) RecordPerformance(c *gin.Context) {
	athleteID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req PerformanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	planID, err := parseOptionalObjectID("trainingPlanId", req.TrainingPlanID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	perf := &domain.Performance{
		TrainingPlanID: planID,
		Date:           dateOrZero(date),
		Metrics:        req.Metrics,
		CustomMetrics:  req.CustomMetrics,
		Notes:          req.Notes,
	}
	created, err := h.athleteService.RecordPerformance(c.Request.Context(), athleteID, perf)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Performance recorded successfully", created)
}

func (h *AthleteHandler) GetPerformance(c *gin.Context) {
	athleteID, ok := currentUserID(c)
	if !ok {
		return
	}
	records, err := h.athleteService.ListPerformance(c.Request.Context(), athleteID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if records == nil {
		records = []domain.Performance{}
	}
	respondList(c, records, len(records))
}

// SubmitFeedback godoc
// @Summary Send feedback to a coach
// @Tags Athlete
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param feedback body FeedbackRequest true "Feedback"
// @Success 201 {object} Envelope "Feedback submitted successfully"
// @Failure 404 {object} Envelope "Coach not found"
// @Router /athlete/feedback [post]
func (h *AthleteHandler) SubmitFeedback(c *gin.Context) {
	athleteID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	coachID, err := parseObjectID("coachId", req.CoachID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	planID, err := parseOptionalObjectID("trainingPlanId", req.TrainingPlanID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	workoutID, err := parseOptionalObjectID("workoutId", req.WorkoutID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	fb := &domain.Feedback{
		CoachID:        coachID,
		TrainingPlanID: planID,
		WorkoutID:      workoutID,
		Category:       req.Category,
		Message:        req.Message,
		Rating:         req.Rating,
	}
	created, err := h.athleteService.SubmitFeedback(c.Request.Context(), athleteID, fb)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Feedback submitted successfully", created)
}

func (h *AthleteHandler) GetFeedback(c *gin.Context) {
	athleteID, ok := currentUserID(c)
	if !ok {
		return
	}
	items, err := h.athleteService.ListFeedback(c.Request.Context(), athleteID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if items == nil {
		items = []domain.Feedback{}
	}
	respondList(c, items, len(items))
}

// ReportInjury godoc
// @Summary Report an injury
// @Tags Athlete
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param injury body InjuryRequest true "Injury"
// @Success 201 {object} Envelope "Injury reported successfully"
// @Router /athlete/injuries [post]
func (h *AthleteHandler) ReportInjury(c *gin.Context) {
	athleteID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req InjuryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	occurred, err := parseDate("dateOccurred", req.DateOccurred)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	recovery, err := parseDate("expectedRecoveryDate", req.ExpectedRecoveryDate)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	injury := &domain.Injury{
		BodyPart:             req.BodyPart,
		Severity:             req.Severity,
		Description:          req.Description,
		DateOccurred:         dateOrZero(occurred),
		ExpectedRecoveryDate: recovery,
		Treatment:            req.Treatment,
	}
	created, err := h.athleteService.ReportInjury(c.Request.Context(), athleteID, injury)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Injury reported successfully", created)
}

func (h *AthleteHandler) GetInjuries(c *gin.Context) {
	athleteID, ok := currentUserID(c)
	if !ok {
		return
	}
	injuries, err := h.athleteService.ListInjuries(c.Request.Context(), athleteID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if injuries == nil {
		injuries = []domain.Injury{}
	}
	respondList(c, injuries, len(injuries))
}

// GetAnalytics godoc
// @Summary Summarize the caller's recent training
// @Tags Athlete
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Router /athlete/analytics [get]
func (h *AthleteHandler) GetAnalytics(c *gin.Context) {
	athleteID, ok := currentUserID(c)
	if !ok {
		return
	}
	analytics, err := h.analyticsService.ForAthlete(c.Request.Context(), athleteID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "", analytics)
}

// GetReport godoc
// @Summary Generate a downloadable training report
// @Description Renders the caller's recent workouts and performance as CSV and returns a short-lived download URL.
// @Tags Athlete
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Router /athlete/report [get]
func (h *AthleteHandler) GetReport(c *gin.Context) {
	athleteID, ok := currentUserID(c)
	if !ok {
		return
	}
	report, err := h.reportService.Generate(c.Request.Context(), athleteID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Report generated successfully", report)
}
