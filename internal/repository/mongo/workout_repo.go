// internal/repository/mongo/workout_repo.go
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

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Create inserts a new workout.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.AthleteID == primitive.NilObjectID || workout.TrainingPlanID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("workout requires athleteId and trainingPlanId")
	}
	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, workout)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result)
}

// GetByID retrieves a single workout by its ID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	if err := findOne(ctx, r.collection, bson.M{"_id": id}, &workout); err != nil {
		return nil, err
	}
	return &workout, nil
}

// Update replaces the mutable fields of a workout. Owner and plan stay fixed.
func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == primitive.NilObjectID {
		return errors.New("workout ID is required for update")
	}
	workout.UpdatedAt = time.Now().UTC()

	filter := bson.M{"_id": workout.ID, "athleteId": workout.AthleteID}
	update := bson.M{
		"$set": bson.M{
			"date":             workout.Date,
			"exercises":        workout.Exercises,
			"totalDuration":    workout.TotalDuration,
			"caloriesBurned":   workout.CaloriesBurned,
			"difficultyRating": workout.DifficultyRating,
			"fatigueLevel":     workout.FatigueLevel,
			"mood":             workout.Mood,
			"notes":            workout.Notes,
			"injuries":         workout.Injuries,
			"completed":        workout.Completed,
			"updatedAt":        workout.UpdatedAt,
		},
	}
	return updateOne(ctx, r.collection, filter, update)
}

// ListByAthlete returns the athlete's workouts, newest first, optionally within a date range.
func (r *mongoWorkoutRepository) ListByAthlete(ctx context.Context, athleteID primitive.ObjectID, filter repository.WorkoutFilter) ([]domain.Workout, error) {
	query := bson.M{"athleteId": athleteID}
	if filter.From != nil || filter.To != nil {
		dateRange := bson.M{}
		if filter.From != nil {
			dateRange["$gte"] = *filter.From
		}
		if filter.To != nil {
			dateRange["$lte"] = *filter.To
		}
		query["date"] = dateRange
	}

	workouts := []domain.Workout{}
	if err := findAll(ctx, r.collection, query, &workouts, byDateDesc(filter.Limit)); err != nil {
		return nil, err
	}
	return workouts, nil
}

func (r *mongoWorkoutRepository) CountByAthlete(ctx context.Context, athleteID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"athleteId": athleteID})
}

func (r *mongoWorkoutRepository) CountAll(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// CountByPlanCategory groups the athlete's workouts by the category of their plan.
// $unwind drops workouts whose plan no longer exists.
func (r *mongoWorkoutRepository) CountByPlanCategory(ctx context.Context, athleteID primitive.ObjectID) ([]domain.CategoryCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"athleteId": athleteID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         trainingPlanCollectionName,
			"localField":   "trainingPlanId",
			"foreignField": "_id",
			"as":           "plan",
		}}},
		{{Key: "$unwind", Value: "$plan"}},
		{{Key: "$group", Value: bson.M{"_id": "$plan.category", "count": bson.M{"$sum": 1}}}},
		{{Key: "$project", Value: bson.M{"_id": 0, "category": "$_id", "count": 1}}},
		{{Key: "$sort", Value: bson.D{{Key: "category", Value: 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := []domain.CategoryCount{}
	if err = cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Analytics and history listings: one athlete, newest first.
			Keys:    bson.D{{Key: "athleteId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "trainingPlanId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
