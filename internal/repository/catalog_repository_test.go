package repository

import (
	"context"
	"testing"

	"marketplace-admin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func updated(n int) bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: n},
		bson.E{Key: "nModified", Value: n},
	)
}

func TestApplyPositions(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("every row in one transaction", func(mt *mtest.T) {
		repo := NewMongoCategoryRepository(mt.DB)
		mt.AddMockResponses(updated(1), updated(1), mtest.CreateSuccessResponse())

		err := repo.UpdatePositions(context.Background(), []PositionUpdate{
			{ID: primitive.NewObjectID().Hex(), Position: 0},
			{ID: primitive.NewObjectID().Hex(), Position: 1},
		})
		assert.NoError(mt, err)
	})

	mt.Run("missing row aborts", func(mt *mtest.T) {
		repo := NewMongoCategoryRepository(mt.DB)
		mt.AddMockResponses(updated(1), updated(0), mtest.CreateSuccessResponse())

		err := repo.UpdatePositions(context.Background(), []PositionUpdate{
			{ID: primitive.NewObjectID().Hex(), Position: 0},
			{ID: primitive.NewObjectID().Hex(), Position: 1},
		})
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewMongoMarketplaceRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := repo.UpdatePositions(context.Background(), []PositionUpdate{{ID: "nope", Position: 2}})
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("nothing to write", func(mt *mtest.T) {
		repo := NewMongoCategoryRepository(mt.DB)
		assert.NoError(mt, repo.UpdatePositions(context.Background(), nil))
	})
}

func TestMongoProductRepositoryDeleteWithModifiers(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("product and groups", func(mt *mtest.T) {
		repo := NewMongoProductRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(),
		)

		err := repo.DeleteWithModifiers(context.Background(), &model.Product{ID: primitive.NewObjectID(), UUID: "prod-uuid"})
		assert.NoError(mt, err)
	})

	mt.Run("without uuid only the product", func(mt *mtest.T) {
		repo := NewMongoProductRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(),
		)

		err := repo.DeleteWithModifiers(context.Background(), &model.Product{ID: primitive.NewObjectID()})
		require.NoError(mt, err)
	})

	mt.Run("product gone", func(mt *mtest.T) {
		repo := NewMongoProductRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
			mtest.CreateSuccessResponse(),
		)

		err := repo.DeleteWithModifiers(context.Background(), &model.Product{ID: primitive.NewObjectID(), UUID: "prod-uuid"})
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}
