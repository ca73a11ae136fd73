package repository

import (
	"context"
	"errors"

	"marketplace-admin/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoBusinessRepository struct {
	db       *mongo.Database
	biz      store[model.Business]
	shipping store[model.ShippingConfig]
}

func NewMongoBusinessRepository(db *mongo.Database) *MongoBusinessRepository {
	return &MongoBusinessRepository{
		db:       db,
		biz:      store[model.Business]{col: db.Collection(BusinessesCollection)},
		shipping: store[model.ShippingConfig]{col: db.Collection(ShippingConfigCollection)},
	}
}

func (m *MongoBusinessRepository) List(ctx context.Context) ([]*model.Business, error) {
	return m.biz.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "posicion", Value: 1}}))
}

func (m *MongoBusinessRepository) Count(ctx context.Context) (int64, error) {
	return m.biz.col.CountDocuments(ctx, bson.M{})
}

func (m *MongoBusinessRepository) FindByID(ctx context.Context, id string) (*model.Business, error) {
	return m.biz.byID(ctx, id)
}

func (m *MongoBusinessRepository) FindByUUID(ctx context.Context, uuid string) (*model.Business, error) {
	return findOne[model.Business](ctx, m.biz.col, bson.M{"uuidEmpresa": uuid})
}

func (m *MongoBusinessRepository) FindShippingConfig(ctx context.Context, b *model.Business) (*model.ShippingConfig, error) {
	if b.ConfiguracionEnvios == nil {
		return nil, ErrNotFound
	}
	return findOne[model.ShippingConfig](ctx, m.shipping.col, bson.M{"_id": *b.ConfiguracionEnvios})
}

// Create inserta el negocio y su configuración de envíos y los enlaza entre sí.
func (m *MongoBusinessRepository) Create(ctx context.Context, b *model.Business, cfg *model.ShippingConfig) error {
	return withTransaction(ctx, m.db, func(sc mongo.SessionContext) error {
		b.ConfiguracionEnvios = nil
		bid, err := m.biz.insert(sc, b)
		if err != nil {
			return err
		}
		b.ID = bid

		cfg.IDNegocio = bid
		cid, err := m.shipping.insert(sc, cfg)
		if err != nil {
			return err
		}
		cfg.ID = cid

		b.ConfiguracionEnvios = &cid
		_, err = m.biz.col.UpdateOne(sc, bson.M{"_id": bid}, bson.M{"$set": bson.M{"configuracionEnvios": cid}})
		return err
	})
}

// Update reemplaza el negocio y actualiza (o crea si faltaba) su configuración de envíos.
func (m *MongoBusinessRepository) Update(ctx context.Context, b *model.Business, cfg *model.ShippingConfig) error {
	return withTransaction(ctx, m.db, func(sc mongo.SessionContext) error {
		cfg.IDNegocio = b.ID
		if b.ConfiguracionEnvios != nil {
			cfg.ID = *b.ConfiguracionEnvios
			err := m.shipping.replace(sc, cfg.ID, cfg)
			if err == nil {
				return m.biz.replace(sc, b.ID, b)
			}
			if !errors.Is(err, ErrNotFound) {
				return err
			}
		}

		// no tenía configuración (o apuntaba a un documento borrado)
		cfg.ID = primitive.NilObjectID
		cid, err := m.shipping.insert(sc, cfg)
		if err != nil {
			return err
		}
		cfg.ID = cid
		b.ConfiguracionEnvios = &cid
		return m.biz.replace(sc, b.ID, b)
	})
}

// Delete borra el negocio junto con su configuración de envíos.
func (m *MongoBusinessRepository) Delete(ctx context.Context, b *model.Business) error {
	return withTransaction(ctx, m.db, func(sc mongo.SessionContext) error {
		if b.ConfiguracionEnvios != nil {
			if _, err := m.shipping.col.DeleteOne(sc, bson.M{"_id": *b.ConfiguracionEnvios}); err != nil {
				return err
			}
		}
		return m.biz.delete(sc, b.ID)
	})
}

func (m *MongoBusinessRepository) UpdatePositions(ctx context.Context, updates []PositionUpdate) error {
	return applyPositions(ctx, m.biz.col, "posicion", updates)
}

// BusinessChatID devuelve el chat de Telegram registrado para el negocio (0 si no hay).
func (m *MongoBusinessRepository) BusinessChatID(ctx context.Context, uuid string) (int64, error) {
	b, err := m.FindByUUID(ctx, uuid)
	if err != nil {
		return 0, err
	}
	return b.TelegramChatID, nil
}
