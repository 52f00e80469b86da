package mongo

import (
	"athleteiq/coaching-api/internal/domain"
	"athleteiq/coaching-api/internal/repository"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestUserRepository_GetByEmail(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Ana"},
			{Key: "email", Value: "ana@example.com"},
			{Key: "passwordHash", Value: "hash"},
			{Key: "role", Value: "athlete"},
			{Key: "isActive", Value: true},
		}))

		user, err := repo.GetByEmail(context.Background(), "ana@example.com")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, domain.RoleAthlete, user.Role)
		assert.True(t, user.IsActive)
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.users", mtest.FirstBatch))

		_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestUserRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &domain.User{Email: "a@b.c", PasswordHash: "h", Role: domain.RoleAthlete}
		id, err := repo.Create(context.Background(), user)
		require.NoError(t, err)
		assert.Equal(t, user.ID, id)
		assert.False(t, user.CreatedAt.IsZero())
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		_, err := repo.Create(context.Background(), &domain.User{Email: "a@b.c", PasswordHash: "h", Role: domain.RoleAthlete})
		assert.ErrorIs(t, err, repository.ErrDuplicateKey)
	})

	mt.Run("missing fields", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		_, err := repo.Create(context.Background(), &domain.User{Email: "a@b.c"})
		assert.Error(t, err)
	})
}

func TestUserRepository_SetActiveNotFound(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("no match", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.SetActive(context.Background(), primitive.NewObjectID(), false)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestWorkoutRepository_CountByPlanCategory(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes groups", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.workouts", mtest.FirstBatch,
			bson.D{{Key: "category", Value: "endurance"}, {Key: "count", Value: 4}},
			bson.D{{Key: "category", Value: "strength"}, {Key: "count", Value: 2}},
		))

		counts, err := repo.CountByPlanCategory(context.Background(), primitive.NewObjectID())
		require.NoError(t, err)
		assert.Equal(t, []domain.CategoryCount{
			{Category: domain.CategoryEndurance, Count: 4},
			{Category: domain.CategoryStrength, Count: 2},
		}, counts)
	})
}

func TestWorkoutRepository_ListByAthlete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("empty result is an empty slice", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.workouts", mtest.FirstBatch))

		workouts, err := repo.ListByAthlete(context.Background(), primitive.NewObjectID(), repository.WorkoutFilter{Limit: 30})
		require.NoError(t, err)
		assert.NotNil(t, workouts)
		assert.Empty(t, workouts)
	})
}

func TestTrainingPlanRepository_Delete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("not owned", func(mt *mtest.T) {
		repo := NewMongoTrainingPlanRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.Delete(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}
