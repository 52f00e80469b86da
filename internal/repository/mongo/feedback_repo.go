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

const feedbackCollectionName = "feedback"

// mongoFeedbackRepository implements repository.FeedbackRepository
type mongoFeedbackRepository struct {
	collection *mongo.Collection
}

func NewMongoFeedbackRepository(db *mongo.Database) repository.FeedbackRepository {
	return &mongoFeedbackRepository{
		collection: db.Collection(feedbackCollectionName),
	}
}

func (r *mongoFeedbackRepository) Create(ctx context.Context, fb *domain.Feedback) (primitive.ObjectID, error) {
	if fb.AthleteID == primitive.NilObjectID || fb.CoachID == primitive.NilObjectID || fb.Message == "" {
		return primitive.NilObjectID, errors.New("feedback requires athleteId, coachId, and message")
	}
	fb.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	fb.CreatedAt = now
	fb.UpdatedAt = now
	if fb.Status == "" {
		fb.Status = domain.FeedbackPending
	}

	result, err := r.collection.InsertOne(ctx, fb)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result)
}

func (r *mongoFeedbackRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Feedback, error) {
	var fb domain.Feedback
	if err := findOne(ctx, r.collection, bson.M{"_id": id}, &fb); err != nil {
		return nil, err
	}
	return &fb, nil
}

func (r *mongoFeedbackRepository) ListByAthlete(ctx context.Context, athleteID primitive.ObjectID) ([]domain.Feedback, error) {
	return r.list(ctx, bson.M{"athleteId": athleteID})
}

func (r *mongoFeedbackRepository) ListByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.Feedback, error) {
	return r.list(ctx, bson.M{"coachId": coachID})
}

func (r *mongoFeedbackRepository) list(ctx context.Context, filter bson.M) ([]domain.Feedback, error) {
	items := []domain.Feedback{}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if err := findAll(ctx, r.collection, filter, &items, opts); err != nil {
		return nil, err
	}
	return items, nil
}

// Respond records the coach's answer. Only the addressed coach matches the filter.
func (r *mongoFeedbackRepository) Respond(ctx context.Context, id, coachID primitive.ObjectID, response string, at time.Time) error {
	filter := bson.M{"_id": id, "coachId": coachID}
	update := bson.M{"$set": bson.M{
		"response":    response,
		"status":      domain.FeedbackResponded,
		"respondedAt": at,
		"updatedAt":   at,
	}}
	return updateOne(ctx, r.collection, filter, update)
}

func EnsureFeedbackIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "athleteId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "coachId", Value: 1}, {Key: "status", Value: 1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
