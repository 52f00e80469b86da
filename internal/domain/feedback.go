package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FeedbackCategory string

const (
	FeedbackTraining  FeedbackCategory = "training"
	FeedbackTechnique FeedbackCategory = "technique"
	FeedbackInjury    FeedbackCategory = "injury"
	FeedbackGeneral   FeedbackCategory = "general"
)

func (c FeedbackCategory) Valid() bool {
	switch c {
	case FeedbackTraining, FeedbackTechnique, FeedbackInjury, FeedbackGeneral:
		return true
	}
	return false
}

type FeedbackStatus string

const (
	FeedbackPending   FeedbackStatus = "pending"
	FeedbackResponded FeedbackStatus = "responded"
)

// Feedback is a message from an athlete to a coach, optionally answered.
type Feedback struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	AthleteID      primitive.ObjectID  `bson:"athleteId" json:"athleteId"`
	CoachID        primitive.ObjectID  `bson:"coachId" json:"coachId"`
	TrainingPlanID *primitive.ObjectID `bson:"trainingPlanId,omitempty" json:"trainingPlanId,omitempty"`
	WorkoutID      *primitive.ObjectID `bson:"workoutId,omitempty" json:"workoutId,omitempty"`
	Category       FeedbackCategory    `bson:"category" json:"category"`
	Message        string              `bson:"message" json:"message"`
	Rating         *int                `bson:"rating,omitempty" json:"rating,omitempty"`
	Status         FeedbackStatus      `bson:"status" json:"status"`
	Response       string              `bson:"response,omitempty" json:"response,omitempty"`
	RespondedAt    *time.Time          `bson:"respondedAt,omitempty" json:"respondedAt,omitempty"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}
