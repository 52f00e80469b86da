package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type StrengthMetrics struct {
	BenchPress *float64 `bson:"benchPress,omitempty" json:"benchPress,omitempty"`
	Squat      *float64 `bson:"squat,omitempty" json:"squat,omitempty"`
	Deadlift   *float64 `bson:"deadlift,omitempty" json:"deadlift,omitempty"`
}

type EnduranceMetrics struct {
	RunTime5k     *float64 `bson:"runTime5k,omitempty" json:"runTime5k,omitempty"`   // minutes
	RunTime10k    *float64 `bson:"runTime10k,omitempty" json:"runTime10k,omitempty"` // minutes
	PlankDuration *float64 `bson:"plankDuration,omitempty" json:"plankDuration,omitempty"`
}

type SpeedMetrics struct {
	Sprint100m *float64 `bson:"sprint100m,omitempty" json:"sprint100m,omitempty"` // seconds
	Sprint200m *float64 `bson:"sprint200m,omitempty" json:"sprint200m,omitempty"` // seconds
}

// Metrics is the fixed set of standard measurements. Every field is optional.
type Metrics struct {
	Weight           *float64         `bson:"weight,omitempty" json:"weight,omitempty"`
	BodyFat          *float64         `bson:"bodyFat,omitempty" json:"bodyFat,omitempty"`
	MuscleMass       *float64         `bson:"muscleMass,omitempty" json:"muscleMass,omitempty"`
	VO2Max           *float64         `bson:"vo2Max,omitempty" json:"vo2Max,omitempty"`
	RestingHeartRate *float64         `bson:"restingHeartRate,omitempty" json:"restingHeartRate,omitempty"`
	Flexibility      *float64         `bson:"flexibility,omitempty" json:"flexibility,omitempty"`
	Strength         StrengthMetrics  `bson:"strength,omitempty" json:"strength"`
	Endurance        EnduranceMetrics `bson:"endurance,omitempty" json:"endurance"`
	Speed            SpeedMetrics     `bson:"speed,omitempty" json:"speed"`
}

// MetricField is a named standard metric together with its allowed range.
// A nil Max means the metric has no upper bound.
type MetricField struct {
	Name  string
	Value *float64
	Min   float64
	Max   *float64
}

func bound(v float64) *float64 { return &v }

// Fields lists every standard metric with its range, in a stable order.
func (m *Metrics) Fields() []MetricField {
	return []MetricField{
		{"weight", m.Weight, 20, bound(300)},
		{"bodyFat", m.BodyFat, 3, bound(60)},
		{"muscleMass", m.MuscleMass, 10, bound(200)},
		{"vo2Max", m.VO2Max, 10, bound(100)},
		{"restingHeartRate", m.RestingHeartRate, 30, bound(120)},
		{"flexibility", m.Flexibility, 0, bound(100)},
		{"strength.benchPress", m.Strength.BenchPress, 0, nil},
		{"strength.squat", m.Strength.Squat, 0, nil},
		{"strength.deadlift", m.Strength.Deadlift, 0, nil},
		{"endurance.runTime5k", m.Endurance.RunTime5k, 10, nil},
		{"endurance.runTime10k", m.Endurance.RunTime10k, 20, nil},
		{"endurance.plankDuration", m.Endurance.PlankDuration, 0, nil},
		{"speed.sprint100m", m.Speed.Sprint100m, 8, nil},
		{"speed.sprint200m", m.Speed.Sprint200m, 16, nil},
	}
}

// CustomMetric is a free-form measurement recorded by name.
type CustomMetric struct {
	Name  string  `bson:"name" json:"name"`
	Value float64 `bson:"value" json:"value"`
	Unit  string  `bson:"unit,omitempty" json:"unit,omitempty"`
}

// Performance is a point-in-time snapshot of an athlete's physical metrics.
type Performance struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	AthleteID      primitive.ObjectID  `bson:"athleteId" json:"athleteId"`
	TrainingPlanID *primitive.ObjectID `bson:"trainingPlanId,omitempty" json:"trainingPlanId,omitempty"`
	Date           time.Time           `bson:"date" json:"date"`
	Metrics        Metrics             `bson:"metrics" json:"metrics"`
	CustomMetrics  []CustomMetric      `bson:"customMetrics,omitempty" json:"customMetrics,omitempty"`
	Notes          string              `bson:"notes,omitempty" json:"notes,omitempty"`
	RecordedBy     primitive.ObjectID  `bson:"recordedBy" json:"recordedBy"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// HasAnyMetric reports whether at least one standard or custom metric is set.
func (p *Performance) HasAnyMetric() bool {
	for _, f := range p.Metrics.Fields() {
		if f.Value != nil {
			return true
		}
	}
	return len(p.CustomMetrics) > 0
}
