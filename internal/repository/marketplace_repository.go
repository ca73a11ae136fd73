package repository

import (
	"context"

	"marketplace-admin/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoMarketplaceRepository struct {
	store[model.MarketplaceCategory]
}

func NewMongoMarketplaceRepository(db *mongo.Database) *MongoMarketplaceRepository {
	return &MongoMarketplaceRepository{store[model.MarketplaceCategory]{col: db.Collection(MarketplaceCollection)}}
}

func (m *MongoMarketplaceRepository) List(ctx context.Context) ([]*model.MarketplaceCategory, error) {
	return m.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
}

func (m *MongoMarketplaceRepository) FindByID(ctx context.Context, id string) (*model.MarketplaceCategory, error) {
	return m.byID(ctx, id)
}

func (m *MongoMarketplaceRepository) Create(ctx context.Context, c *model.MarketplaceCategory) error {
	id, err := m.insert(ctx, c)
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func (m *MongoMarketplaceRepository) Update(ctx context.Context, c *model.MarketplaceCategory) error {
	return m.replace(ctx, c.ID, c)
}

func (m *MongoMarketplaceRepository) Delete(ctx context.Context, c *model.MarketplaceCategory) error {
	return m.delete(ctx, c.ID)
}

func (m *MongoMarketplaceRepository) UpdatePositions(ctx context.Context, updates []PositionUpdate) error {
	return applyPositions(ctx, m.col, "position", updates)
}
