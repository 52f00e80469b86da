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

const userCollectionName = "users"

// mongoUserRepository implements the repository.UserRepository interface using MongoDB.
type mongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new instance of mongoUserRepository.
// It expects a connected *mongo.Database instance.
func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{
		collection: db.Collection(userCollectionName),
	}
}

// Create inserts a new user into the database.
func (r *mongoUserRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.Email == "" || user.PasswordHash == "" || user.Role == "" {
		return primitive.NilObjectID, errors.New("user email, password hash, and role are required")
	}

	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		// The unique index on email turns a concurrent duplicate registration into this error.
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result)
}

// GetByEmail retrieves a user by their email address.
func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := findOne(ctx, r.collection, bson.M{"email": email}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by their MongoDB ObjectID.
func (r *mongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var user domain.User
	if err := findOne(ctx, r.collection, bson.M{"_id": id}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIDs retrieves every user whose id is in ids. Unknown ids are skipped.
func (r *mongoUserRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	users := []domain.User{}
	if len(ids) == 0 {
		return users, nil
	}
	filter := bson.M{"_id": bson.M{"$in": ids}}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if err := findAll(ctx, r.collection, filter, &users, opts); err != nil {
		return nil, err
	}
	return users, nil
}

func userFilterDoc(filter repository.UserFilter) bson.M {
	doc := bson.M{}
	if filter.Role != "" {
		doc["role"] = filter.Role
	}
	return doc
}

// List returns users matching filter, newest first.
func (r *mongoUserRepository) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	users := []domain.User{}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if err := findAll(ctx, r.collection, userFilterDoc(filter), &users, opts); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *mongoUserRepository) Count(ctx context.Context, filter repository.UserFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, userFilterDoc(filter))
}

// UpdateProfile sets the provided profile fields and returns the updated user.
func (r *mongoUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, update domain.ProfileUpdate) (*domain.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}
	if update.DateOfBirth != nil {
		set["dateOfBirth"] = *update.DateOfBirth
	}
	if update.Gender != nil {
		set["gender"] = *update.Gender
	}
	if update.SportsCategory != nil {
		set["sportsCategory"] = *update.SportsCategory
	}
	if update.ProfileImage != nil {
		set["profileImage"] = *update.ProfileImage
	}

	var user domain.User
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *mongoUserRepository) UpdatePasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error {
	return r.set(ctx, id, bson.M{"passwordHash": hash})
}

func (r *mongoUserRepository) UpdateLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	return r.set(ctx, id, bson.M{"lastLogin": at})
}

func (r *mongoUserRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	return r.set(ctx, id, bson.M{"isActive": active})
}

func (r *mongoUserRepository) SetRole(ctx context.Context, id primitive.ObjectID, role domain.Role) error {
	return r.set(ctx, id, bson.M{"role": role})
}

func (r *mongoUserRepository) set(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updatedAt"] = time.Now().UTC()
	return updateOne(ctx, r.collection, bson.M{"_id": id}, bson.M{"$set": fields})
}

// Delete removes a user by id.
func (r *mongoUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureUserIndexes creates necessary indexes for the users collection.
func EnsureUserIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
