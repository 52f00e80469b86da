// internal/domain/training_plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanCategory groups training plans for reporting.
type PlanCategory string

const (
	CategoryStrength  PlanCategory = "strength"
	CategoryEndurance PlanCategory = "endurance"
	CategoryAgility   PlanCategory = "agility"
	CategorySpeed     PlanCategory = "speed"
	CategorySkills    PlanCategory = "skills"
	CategoryRecovery  PlanCategory = "recovery"
	CategoryGeneral   PlanCategory = "general"
)

func (c PlanCategory) Valid() bool {
	switch c {
	case CategoryStrength, CategoryEndurance, CategoryAgility, CategorySpeed,
		CategorySkills, CategoryRecovery, CategoryGeneral:
		return true
	}
	return false
}

// PlanStatus tracks the lifecycle of a plan.
type PlanStatus string

const (
	PlanDraft     PlanStatus = "draft"
	PlanActive    PlanStatus = "active"
	PlanCompleted PlanStatus = "completed"
	PlanArchived  PlanStatus = "archived"
)

func (s PlanStatus) Valid() bool {
	switch s {
	case PlanDraft, PlanActive, PlanCompleted, PlanArchived:
		return true
	}
	return false
}

type PlanDuration struct {
	Weeks           int `bson:"weeks" json:"weeks"`
	SessionsPerWeek int `bson:"sessionsPerWeek" json:"sessionsPerWeek"`
}

// TrainingPlan is a coach-authored program assigned to one or more athletes.
type TrainingPlan struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	CoachID     primitive.ObjectID   `bson:"coachId" json:"coachId"`
	AthleteIDs  []primitive.ObjectID `bson:"athleteIds" json:"athleteIds"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Category    PlanCategory         `bson:"category" json:"category"`
	Duration    PlanDuration         `bson:"duration" json:"duration"`
	StartDate   time.Time            `bson:"startDate" json:"startDate"`
	EndDate     *time.Time           `bson:"endDate,omitempty" json:"endDate,omitempty"`
	Status      PlanStatus           `bson:"status" json:"status"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// HasAthlete reports whether the athlete is assigned to the plan.
func (p *TrainingPlan) HasAthlete(athleteID primitive.ObjectID) bool {
	for _, id := range p.AthleteIDs {
		if id == athleteID {
			return true
		}
	}
	return false
}
