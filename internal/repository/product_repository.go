package repository

import (
	"context"
	"regexp"

	"marketplace-admin/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoProductRepository struct {
	db        *mongo.Database
	products  store[model.Product]
	modifiers *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{
		db:        db,
		products:  store[model.Product]{col: db.Collection(ProductsCollection)},
		modifiers: db.Collection(ModifierGroupsCollection),
	}
}

// ListByBusiness devuelve los productos del negocio, opcionalmente solo los de una categoría.
func (m *MongoProductRepository) ListByBusiness(ctx context.Context, uuidEmpresa, category string) ([]*model.Product, error) {
	filter := bson.M{"uuidEmpresa": uuidEmpresa}
	if category != "" {
		filter["categorias"] = category
	}
	return m.products.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "posicion", Value: 1}}))
}

func (m *MongoProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	return m.products.byID(ctx, id)
}

func (m *MongoProductRepository) Create(ctx context.Context, p *model.Product) error {
	id, err := m.products.insert(ctx, p)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (m *MongoProductRepository) Update(ctx context.Context, p *model.Product) error {
	return m.products.replace(ctx, p.ID, p)
}

// SetImage actualiza solo la imagen (la subida ocurre después del alta).
func (m *MongoProductRepository) SetImage(ctx context.Context, id primitive.ObjectID, url string) error {
	_, err := m.products.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"Imagen": url}})
	return err
}

// DeleteWithModifiers borra el producto y sus grupos de modificadores en una transacción.
func (m *MongoProductRepository) DeleteWithModifiers(ctx context.Context, p *model.Product) error {
	return withTransaction(ctx, m.db, func(sc mongo.SessionContext) error {
		if p.UUID != "" {
			filter := bson.M{"$or": bson.A{
				bson.M{"productoId": p.UUID},
				bson.M{"productId": p.UUID},
			}}
			if _, err := m.modifiers.DeleteMany(sc, filter); err != nil {
				return err
			}
		}
		return m.products.delete(sc, p.ID)
	})
}

// SearchByNamePrefix busca por prefijo exacto del nombre dentro del negocio.
func (m *MongoProductRepository) SearchByNamePrefix(ctx context.Context, uuidEmpresa, prefix string, limit int64) ([]*model.Product, error) {
	filter := bson.M{
		"uuidEmpresa": uuidEmpresa,
		"name":        primitive.Regex{Pattern: "^" + regexp.QuoteMeta(prefix)},
	}
	return m.products.find(ctx, filter, options.Find().SetLimit(limit))
}

// SearchByKeyword busca por pertenencia al conjunto searchKeywords.
func (m *MongoProductRepository) SearchByKeyword(ctx context.Context, uuidEmpresa, keyword string, limit int64) ([]*model.Product, error) {
	filter := bson.M{
		"uuidEmpresa":    uuidEmpresa,
		"searchKeywords": keyword,
	}
	return m.products.find(ctx, filter, options.Find().SetLimit(limit))
}
