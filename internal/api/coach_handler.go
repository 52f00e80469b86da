package api

import (
	"athleteiq/coaching-api/internal/domain"
	"athleteiq/coaching-api/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CoachHandler struct {
	coachService service.CoachService
}

func NewCoachHandler(coachService service.CoachService) *CoachHandler {
	return &CoachHandler{coachService: coachService}
}

// --- DTOs ---

type PlanRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Category    domain.PlanCategory `json:"category"`
	Duration    domain.PlanDuration `json:"duration"`
	StartDate   string              `json:"startDate"`
	EndDate     string              `json:"endDate"`
	Status      domain.PlanStatus   `json:"status"`
	AthleteIDs  []string            `json:"athleteIds"`
}

func (r *PlanRequest) toDomain() (*domain.TrainingPlan, error) {
	start, err := parseDate("startDate", r.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("endDate", r.EndDate)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(r.AthleteIDs))
	for _, raw := range r.AthleteIDs {
		id, err := parseObjectID("athlete id", raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return &domain.TrainingPlan{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Duration:    r.Duration,
		StartDate:   dateOrZero(start),
		EndDate:     end,
		Status:      r.Status,
		AthleteIDs:  ids,
	}, nil
}

type ReminderRequest struct {
	// SessionDate defaults to now.
	SessionDate string `json:"sessionDate"`
}

type RespondFeedbackRequest struct {
	Response string `json:"response"`
}

// --- Handler Methods ---

// CreatePlan godoc
// @Summary Create a training plan and assign athletes to it
// @Description Every assigned athlete is emailed. Delivery failures do not fail the request.
// @Tags Coach
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body PlanRequest true "Plan details"
// @Success 201 {object} Envelope "Training plan created successfully"
// @Failure 400 {object} Envelope "Invalid input or unknown athlete"
// @Router /coach/plans [post]
func (h *CoachHandler) CreatePlan(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	plan, err := req.toDomain()
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	created, err := h.coachService.CreatePlan(c.Request.Context(), coachID, plan)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Training plan created successfully", created)
}

func (h *CoachHandler) GetPlans(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	plans, err := h.coachService.ListPlans(c.Request.Context(), coachID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if plans == nil {
		plans = []domain.TrainingPlan{}
	}
	respondList(c, plans, len(plans))
}

// UpdatePlan godoc
// @Summary Replace a training plan owned by the caller
// @Tags Coach
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Param plan body PlanRequest true "Plan details"
// @Success 200 {object} Envelope "Training plan updated successfully"
// @Failure 404 {object} Envelope "Training plan not found"
// @Router /coach/plans/{id} [put]
func (h *CoachHandler) UpdatePlan(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := paramObjectID(c, "id")
	if !ok {
		return
	}
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	plan, err := req.toDomain()
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	updated, err := h.coachService.UpdatePlan(c.Request.Context(), coachID, planID, plan)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Training plan updated successfully", updated)
}

func (h *CoachHandler) DeletePlan(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := paramObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.coachService.DeletePlan(c.Request.Context(), coachID, planID); err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Training plan deleted successfully", nil)
}

// SendReminder godoc
// @Summary Email a session reminder to every athlete of a plan
// @Tags Coach
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Param reminder body ReminderRequest false "Session date"
// @Success 200 {object} Envelope "Reminders sent"
// @Failure 404 {object} Envelope "Training plan not found"
// @Router /coach/plans/{id}/remind [post]
func (h *CoachHandler) SendReminder(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := paramObjectID(c, "id")
	if !ok {
		return
	}
	var req ReminderRequest
	// The body is optional.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithBindError(c, err)
			return
		}
	}
	session, err := parseDate("sessionDate", req.SessionDate)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	sent, err := h.coachService.SendReminder(c.Request.Context(), coachID, planID, dateOrZero(session))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Reminders sent", gin.H{"sent": sent})
}

// GetAthletes godoc
// @Summary List athletes assigned to any of the caller's plans
// @Tags Coach
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Router /coach/athletes [get]
func (h *CoachHandler) GetAthletes(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	athletes, err := h.coachService.Athletes(c.Request.Context(), coachID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	out := mapUsers(athletes)
	respondList(c, out, len(out))
}

func (h *CoachHandler) GetAthleteWorkouts(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	athleteID, ok := paramObjectID(c, "id")
	if !ok {
		return
	}
	workouts, err := h.coachService.AthleteWorkouts(c.Request.Context(), coachID, athleteID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if workouts == nil {
		workouts = []domain.Workout{}
	}
	respondList(c, workouts, len(workouts))
}

func (h *CoachHandler) GetAthletePerformance(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	athleteID, ok := paramObjectID(c, "id")
	if !ok {
		return
	}
	records, err := h.coachService.AthletePerformance(c.Request.Context(), coachID, athleteID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if records == nil {
		records = []domain.Performance{}
	}
	respondList(c, records, len(records))
}

func (h *CoachHandler) GetAthleteInjuries(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	athleteID, ok := paramObjectID(c, "id")
	if !ok {
		return
	}
	injuries, err := h.coachService.AthleteInjuries(c.Request.Context(), coachID, athleteID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if injuries == nil {
		injuries = []domain.Injury{}
	}
	respondList(c, injuries, len(injuries))
}

func (h *CoachHandler) GetFeedback(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	items, err := h.coachService.ListFeedback(c.Request.Context(), coachID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if items == nil {
		items = []domain.Feedback{}
	}
	respondList(c, items, len(items))
}

// RespondFeedback godoc
// @Summary Answer feedback addressed to the caller
// @Tags Coach
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Feedback ID"
// @Param response body RespondFeedbackRequest true "Response text"
// @Success 200 {object} Envelope "Response sent successfully"
// @Failure 403 {object} Envelope "Feedback addressed to another coach"
// @Failure 404 {object} Envelope "Feedback not found"
// @Router /coach/feedback/{id}/respond [put]
func (h *CoachHandler) RespondFeedback(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	feedbackID, ok := paramObjectID(c, "id")
	if !ok {
		return
	}
	var req RespondFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	fb, err := h.coachService.RespondFeedback(c.Request.Context(), coachID, feedbackID, req.Response)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Response sent successfully", fb)
}
