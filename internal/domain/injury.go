package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InjuryStatus string

const (
	InjuryActive     InjuryStatus = "active"
	InjuryRecovering InjuryStatus = "recovering"
	InjuryRecovered  InjuryStatus = "recovered"
)

// Injury is an injury report filed by an athlete.
type Injury struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AthleteID            primitive.ObjectID `bson:"athleteId" json:"athleteId"`
	BodyPart             string             `bson:"bodyPart" json:"bodyPart"`
	Severity             Severity           `bson:"severity" json:"severity"`
	Description          string             `bson:"description" json:"description"`
	DateOccurred         time.Time          `bson:"dateOccurred" json:"dateOccurred"`
	ExpectedRecoveryDate *time.Time         `bson:"expectedRecoveryDate,omitempty" json:"expectedRecoveryDate,omitempty"`
	Treatment            string             `bson:"treatment,omitempty" json:"treatment,omitempty"`
	Status               InjuryStatus       `bson:"status" json:"status"`
	CoachNotes           string             `bson:"coachNotes,omitempty" json:"coachNotes,omitempty"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}
