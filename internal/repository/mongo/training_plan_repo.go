// internal/repository/mongo/training_plan_repo.go
package mongo

import (
	"athleteiq/coaching-api/internal/domain"
	"athleteiq/coaching-api/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const trainingPlanCollectionName = "training_plans"

// mongoTrainingPlanRepository implements repository.TrainingPlanRepository
type mongoTrainingPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoTrainingPlanRepository creates a new TrainingPlan repository.
func NewMongoTrainingPlanRepository(db *mongo.Database) repository.TrainingPlanRepository {
	return &mongoTrainingPlanRepository{
		collection: db.Collection(trainingPlanCollectionName),
	}
}

// Create inserts a new training plan.
func (r *mongoTrainingPlanRepository) Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error) {
	if plan.CoachID == primitive.NilObjectID || plan.Title == "" {
		return primitive.NilObjectID, errors.New("plan requires coachId and title")
	}
	if plan.AthleteIDs == nil {
		plan.AthleteIDs = []primitive.ObjectID{}
	}
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result)
}

// GetByID retrieves a single training plan by its ID.
func (r *mongoTrainingPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error) {
	var plan domain.TrainingPlan
	if err := findOne(ctx, r.collection, bson.M{"_id": id}, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Update writes the editable fields of a plan. CoachID and CreatedAt are never changed.
func (r *mongoTrainingPlanRepository) Update(ctx context.Context, plan *domain.TrainingPlan) error {
	if plan.ID == primitive.NilObjectID {
		return errors.New("training plan ID is required for update")
	}
	plan.UpdatedAt = time.Now().UTC()

	filter := bson.M{"_id": plan.ID, "coachId": plan.CoachID}
	update := bson.M{
		"$set": bson.M{
			"title":       plan.Title,
			"description": plan.Description,
			"category":    plan.Category,
			"athleteIds":  plan.AthleteIDs,
			"duration":    plan.Duration,
			"startDate":   plan.StartDate,
			"endDate":     plan.EndDate,
			"status":      plan.Status,
			"updatedAt":   plan.UpdatedAt,
		},
	}
	return updateOne(ctx, r.collection, filter, update)
}

// Delete removes a plan; the filter requires ownership by coachID.
func (r *mongoTrainingPlanRepository) Delete(ctx context.Context, planID, coachID primitive.ObjectID) error {
	if planID == primitive.NilObjectID || coachID == primitive.NilObjectID {
		return errors.New("plan ID and coach ID are required for deletion")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": planID, "coachId": coachID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListByCoach retrieves all plans authored by a coach, newest first.
func (r *mongoTrainingPlanRepository) ListByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	plans := []domain.TrainingPlan{}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if err := findAll(ctx, r.collection, bson.M{"coachId": coachID}, &plans, opts); err != nil {
		return nil, err
	}
	return plans, nil
}

// ListByAthlete retrieves the plans an athlete is assigned to, optionally by status.
func (r *mongoTrainingPlanRepository) ListByAthlete(ctx context.Context, athleteID primitive.ObjectID, status domain.PlanStatus) ([]domain.TrainingPlan, error) {
	// Matching a scalar against an array field matches any element.
	filter := bson.M{"athleteIds": athleteID}
	if status != "" {
		filter["status"] = status
	}
	plans := []domain.TrainingPlan{}
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}})
	if err := findAll(ctx, r.collection, filter, &plans, opts); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *mongoTrainingPlanRepository) Count(ctx context.Context, status domain.PlanStatus) (int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return r.collection.CountDocuments(ctx, filter)
}

// EnsureTrainingPlanIndexes creates necessary indexes. Call during startup.
func EnsureTrainingPlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			// Multikey index over the assigned athletes.
			Keys:    bson.D{{Key: "athleteIds", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
