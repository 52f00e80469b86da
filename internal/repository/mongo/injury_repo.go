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

const injuryCollectionName = "injuries"

type mongoInjuryRepository struct {
	collection *mongo.Collection
}

func NewMongoInjuryRepository(db *mongo.Database) repository.InjuryRepository {
	return &mongoInjuryRepository{
		collection: db.Collection(injuryCollectionName),
	}
}

func (r *mongoInjuryRepository) Create(ctx context.Context, injury *domain.Injury) (primitive.ObjectID, error) {
	if injury.AthleteID == primitive.NilObjectID || injury.BodyPart == "" {
		return primitive.NilObjectID, errors.New("injury requires athleteId and bodyPart")
	}
	injury.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	injury.CreatedAt = now
	injury.UpdatedAt = now
	if injury.Status == "" {
		injury.Status = domain.InjuryActive
	}

	result, err := r.collection.InsertOne(ctx, injury)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result)
}

func (r *mongoInjuryRepository) ListByAthlete(ctx context.Context, athleteID primitive.ObjectID) ([]domain.Injury, error) {
	injuries := []domain.Injury{}
	opts := options.Find().SetSort(bson.D{{Key: "dateOccurred", Value: -1}})
	if err := findAll(ctx, r.collection, bson.M{"athleteId": athleteID}, &injuries, opts); err != nil {
		return nil, err
	}
	return injuries, nil
}

func EnsureInjuryIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "athleteId", Value: 1}, {Key: "dateOccurred", Value: -1}},
	})
	return err
}
