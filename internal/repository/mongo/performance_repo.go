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

const performanceCollectionName = "performances"

type mongoPerformanceRepository struct {
	collection *mongo.Collection
}

func NewMongoPerformanceRepository(db *mongo.Database) repository.PerformanceRepository {
	return &mongoPerformanceRepository{
		collection: db.Collection(performanceCollectionName),
	}
}

func (r *mongoPerformanceRepository) Create(ctx context.Context, perf *domain.Performance) (primitive.ObjectID, error) {
	if perf.AthleteID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("performance requires athleteId")
	}
	perf.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	perf.CreatedAt = now
	perf.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, perf)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result)
}

func (r *mongoPerformanceRepository) ListByAthlete(ctx context.Context, athleteID primitive.ObjectID, limit int64) ([]domain.Performance, error) {
	records := []domain.Performance{}
	if err := findAll(ctx, r.collection, bson.M{"athleteId": athleteID}, &records, byDateDesc(limit)); err != nil {
		return nil, err
	}
	return records, nil
}

func EnsurePerformanceIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "athleteId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "trainingPlanId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
