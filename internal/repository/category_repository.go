package repository

import (
	"context"

	"marketplace-admin/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoCategoryRepository struct {
	store[model.Category]
}

func NewMongoCategoryRepository(db *mongo.Database) *MongoCategoryRepository {
	return &MongoCategoryRepository{store[model.Category]{col: db.Collection(CategoriesCollection)}}
}

func (m *MongoCategoryRepository) ListByBusiness(ctx context.Context, uuidEmpresa string) ([]*model.Category, error) {
	return m.find(ctx, bson.M{"uuidEmpresa": uuidEmpresa}, options.Find().SetSort(bson.D{{Key: "posicion", Value: 1}}))
}

func (m *MongoCategoryRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	return m.byID(ctx, id)
}

func (m *MongoCategoryRepository) Create(ctx context.Context, c *model.Category) error {
	id, err := m.insert(ctx, c)
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func (m *MongoCategoryRepository) Update(ctx context.Context, c *model.Category) error {
	return m.replace(ctx, c.ID, c)
}

func (m *MongoCategoryRepository) Delete(ctx context.Context, c *model.Category) error {
	return m.delete(ctx, c.ID)
}

func (m *MongoCategoryRepository) UpdatePositions(ctx context.Context, updates []PositionUpdate) error {
	return applyPositions(ctx, m.col, "posicion", updates)
}
