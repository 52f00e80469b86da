package mongo

import (
	"athleteiq/coaching-api/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
// It returns the mongo.Client which can be used to access databases and collections.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// The initial connect can succeed against an unresponsive server, so ping explicitly.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// NewRepositories wires every Mongo-backed repository against db.
func NewRepositories(db *mongo.Database) repository.Repositories {
	return repository.Repositories{
		Users:       NewMongoUserRepository(db),
		Workouts:    NewMongoWorkoutRepository(db),
		Performance: NewMongoPerformanceRepository(db),
		Plans:       NewMongoTrainingPlanRepository(db),
		Feedback:    NewMongoFeedbackRepository(db),
		Injuries:    NewMongoInjuryRepository(db),
	}
}

// EnsureIndexes creates the indexes of every collection. Call once during startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	return errors.Join(
		EnsureUserIndexes(ctx, db.Collection(userCollectionName)),
		EnsureWorkoutIndexes(ctx, db.Collection(workoutCollectionName)),
		EnsurePerformanceIndexes(ctx, db.Collection(performanceCollectionName)),
		EnsureTrainingPlanIndexes(ctx, db.Collection(trainingPlanCollectionName)),
		EnsureFeedbackIndexes(ctx, db.Collection(feedbackCollectionName)),
		EnsureInjuryIndexes(ctx, db.Collection(injuryCollectionName)),
	)
}

// insertedObjectID asserts the type of an InsertOne result id.
func insertedObjectID(result *mongo.InsertOneResult) (primitive.ObjectID, error) {
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return id, nil
}

// updateOne applies update to the single document matched by filter and
// reports repository.ErrNotFound when nothing matched.
func updateOne(ctx context.Context, coll *mongo.Collection, filter, update bson.M) error {
	result, err := coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// findOne decodes the document matched by filter into out.
func findOne(ctx context.Context, coll *mongo.Collection, filter bson.M, out interface{}) error {
	err := coll.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return err
}

// findAll runs a find and decodes every result into out, which must be a pointer to a slice.
func findAll(ctx context.Context, coll *mongo.Collection, filter bson.M, out interface{}, opts ...*options.FindOptions) error {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, out); err != nil {
		return err
	}
	return cursor.Err()
}

func byDateDesc(limit int64) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return opts
}
