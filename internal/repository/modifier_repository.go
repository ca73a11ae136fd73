package repository

import (
	"context"

	"marketplace-admin/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoModifierRepository struct {
	store[model.ModifierGroup]
}

func NewMongoModifierRepository(db *mongo.Database) *MongoModifierRepository {
	return &MongoModifierRepository{store[model.ModifierGroup]{col: db.Collection(ModifierGroupsCollection)}}
}

// ListByProduct consulta por productoId y por el campo legado productId y une
// los resultados sin duplicados.
func (m *MongoModifierRepository) ListByProduct(ctx context.Context, productUUID string) ([]*model.ModifierGroup, error) {
	current, err := m.find(ctx, bson.M{"productoId": productUUID})
	if err != nil {
		return nil, err
	}
	legacy, err := m.find(ctx, bson.M{"productId": productUUID})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(current))
	out := make([]*model.ModifierGroup, 0, len(current)+len(legacy))
	for _, g := range append(current, legacy...) {
		key := g.ID.Hex()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, g)
	}
	return out, nil
}

func (m *MongoModifierRepository) FindByID(ctx context.Context, id string) (*model.ModifierGroup, error) {
	return m.byID(ctx, id)
}

func (m *MongoModifierRepository) Create(ctx context.Context, g *model.ModifierGroup) error {
	id, err := m.insert(ctx, g)
	if err != nil {
		return err
	}
	g.ID = id
	return nil
}

func (m *MongoModifierRepository) Update(ctx context.Context, g *model.ModifierGroup) error {
	return m.replace(ctx, g.ID, g)
}

func (m *MongoModifierRepository) Delete(ctx context.Context, g *model.ModifierGroup) error {
	return m.delete(ctx, g.ID)
}
