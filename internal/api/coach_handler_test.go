package api

import (
	"athleteiq/coaching-api/internal/domain"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func planBody(athletes ...*domain.User) gin.H {
	ids := make([]string, 0, len(athletes))
	for _, a := range athletes {
		ids = append(ids, a.ID.Hex())
	}
	return gin.H{
		"title":      "Spring build",
		"category":   "strength",
		"duration":   gin.H{"weeks": 8, "sessionsPerWeek": 3},
		"startDate":  "2024-04-01",
		"athleteIds": ids,
	}
}

func TestCreatePlan_AthleteSeesIt(t *testing.T) {
	env := newTestEnv(t)
	coach, coachToken := env.seedUser(t, "coach", domain.RoleCoach)
	ana, anaToken := env.seedUser(t, "ana", domain.RoleAthlete)

	rec := env.do(t, http.MethodPost, "/api/v1/coach/plans", coachToken, planBody(ana, ana))
	requireStatus(t, rec, http.StatusCreated)
	var plan domain.TrainingPlan
	out := decodeData(t, rec, &plan)
	assert.Equal(t, "Training plan created successfully", out.Message)
	assert.Equal(t, coach.ID, plan.CoachID)
	assert.Equal(t, domain.PlanActive, plan.Status)
	assert.Equal(t, []primitive.ObjectID{ana.ID}, plan.AthleteIDs)

	rec = env.do(t, http.MethodGet, "/api/v1/athlete/plans", anaToken, nil)
	requireStatus(t, rec, http.StatusOK)
	var plans []domain.TrainingPlan
	listed := decodeData(t, rec, &plans)
	assert.Equal(t, 1, *listed.Count)
	assert.Equal(t, plan.ID, plans[0].ID)
}

func TestCreatePlan_RejectsNonAthlete(t *testing.T) {
	env := newTestEnv(t)
	_, coachToken := env.seedUser(t, "coach", domain.RoleCoach)
	otherCoach, _ := env.seedUser(t, "other", domain.RoleCoach)

	rec := env.do(t, http.MethodPost, "/api/v1/coach/plans", coachToken, planBody(otherCoach))
	requireStatus(t, rec, http.StatusBadRequest)

	body := planBody()
	body["athleteIds"] = []string{"bogus"}
	rec = env.do(t, http.MethodPost, "/api/v1/coach/plans", coachToken, body)
	requireStatus(t, rec, http.StatusBadRequest)
}

func TestPlanWrites_OtherCoachSeesNotFound(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.seedUser(t, "owner", domain.RoleCoach)
	_, intruderToken := env.seedUser(t, "intruder", domain.RoleCoach)
	ana, _ := env.seedUser(t, "ana", domain.RoleAthlete)
	plan := env.seedPlan(t, owner, ana)

	rec := env.do(t, http.MethodPut, "/api/v1/coach/plans/"+plan.ID.Hex(), intruderToken, planBody(ana))
	requireStatus(t, rec, http.StatusNotFound)

	rec = env.do(t, http.MethodDelete, "/api/v1/coach/plans/"+plan.ID.Hex(), intruderToken, nil)
	requireStatus(t, rec, http.StatusNotFound)

	rec = env.do(t, http.MethodPost, "/api/v1/coach/plans/"+plan.ID.Hex()+"/remind", intruderToken, nil)
	requireStatus(t, rec, http.StatusNotFound)

	_, err := env.repos.Plans.GetByID(context.Background(), plan.ID)
	assert.NoError(t, err)
}

func TestSendReminder(t *testing.T) {
	env := newTestEnv(t)
	coach, coachToken := env.seedUser(t, "coach", domain.RoleCoach)
	ana, _ := env.seedUser(t, "ana", domain.RoleAthlete)
	bo, _ := env.seedUser(t, "bo", domain.RoleAthlete)
	plan := env.seedPlan(t, coach, ana, bo)

	rec := env.do(t, http.MethodPost, "/api/v1/coach/plans/"+plan.ID.Hex()+"/remind", coachToken, gin.H{"sessionDate": "2024-04-10"})
	requireStatus(t, rec, http.StatusOK)
	var body struct {
		Sent int `json:"sent"`
	}
	decodeData(t, rec, &body)
	assert.Equal(t, 2, body.Sent)

	// No body at all is accepted.
	rec = env.do(t, http.MethodPost, "/api/v1/coach/plans/"+plan.ID.Hex()+"/remind", coachToken, nil)
	requireStatus(t, rec, http.StatusOK)
}

func TestCoachAthleteReads_RequireSharedPlan(t *testing.T) {
	env := newTestEnv(t)
	coach, coachToken := env.seedUser(t, "coach", domain.RoleCoach)
	ana, _ := env.seedUser(t, "ana", domain.RoleAthlete)
	stranger, _ := env.seedUser(t, "stranger", domain.RoleAthlete)
	plan := env.seedPlan(t, coach, ana)
	_, err := env.repos.Workouts.Create(context.Background(), &domain.Workout{
		AthleteID:      ana.ID,
		TrainingPlanID: plan.ID,
		Date:           time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		TotalDuration:  35,
	})
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/api/v1/coach/athletes", coachToken, nil)
	requireStatus(t, rec, http.StatusOK)
	var athletes []UserResponse
	decodeData(t, rec, &athletes)
	require.Len(t, athletes, 1)
	assert.Equal(t, ana.ID.Hex(), athletes[0].ID)

	rec = env.do(t, http.MethodGet, "/api/v1/coach/athletes/"+ana.ID.Hex()+"/workouts", coachToken, nil)
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, 1, *decode(t, rec).Count)

	for _, path := range []string{"workouts", "performance", "injuries"} {
		rec = env.do(t, http.MethodGet, "/api/v1/coach/athletes/"+stranger.ID.Hex()+"/"+path, coachToken, nil)
		requireStatus(t, rec, http.StatusForbidden)
	}
}

func TestRespondFeedback(t *testing.T) {
	env := newTestEnv(t)
	coach, coachToken := env.seedUser(t, "coach", domain.RoleCoach)
	_, otherToken := env.seedUser(t, "other", domain.RoleCoach)
	ana, _ := env.seedUser(t, "ana", domain.RoleAthlete)
	id, err := env.repos.Feedback.Create(context.Background(), &domain.Feedback{
		AthleteID: ana.ID,
		CoachID:   coach.ID,
		Category:  domain.FeedbackTraining,
		Message:   "Too many intervals",
		Status:    domain.FeedbackPending,
	})
	require.NoError(t, err)
	path := "/api/v1/coach/feedback/" + id.Hex() + "/respond"

	rec := env.do(t, http.MethodPut, path, otherToken, gin.H{"response": "No"})
	requireStatus(t, rec, http.StatusForbidden)

	rec = env.do(t, http.MethodPut, path, coachToken, gin.H{"response": "  "})
	requireStatus(t, rec, http.StatusBadRequest)

	rec = env.do(t, http.MethodPut, path, coachToken, gin.H{"response": "Dropping one set next week"})
	requireStatus(t, rec, http.StatusOK)
	var fb domain.Feedback
	decodeData(t, rec, &fb)
	assert.Equal(t, domain.FeedbackResponded, fb.Status)
	assert.NotNil(t, fb.RespondedAt)

	rec = env.do(t, http.MethodGet, "/api/v1/coach/feedback", coachToken, nil)
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, 1, *decode(t, rec).Count)
}
