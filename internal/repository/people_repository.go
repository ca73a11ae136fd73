package repository

import (
	"context"

	"marketplace-admin/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPeopleRepository cubre ciudades y usuarios (clientes y repartidores).
type MongoPeopleRepository struct {
	cities store[model.City]
	users  store[model.User]
}

func NewMongoPeopleRepository(db *mongo.Database) *MongoPeopleRepository {
	return &MongoPeopleRepository{
		cities: store[model.City]{col: db.Collection(CitiesCollection)},
		users:  store[model.User]{col: db.Collection(UsersCollection)},
	}
}

func (m *MongoPeopleRepository) ListCities(ctx context.Context) ([]*model.City, error) {
	return m.cities.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "nombreCiudad", Value: 1}}))
}

// ListAvailableDrivers devuelve los repartidores activos y disponibles de una ciudad.
func (m *MongoPeopleRepository) ListAvailableDrivers(ctx context.Context, city string) ([]*model.User, error) {
	filter := bson.M{
		"rol":        model.RoleDriver,
		"ciudad":     city,
		"activo":     true,
		"disponible": true,
	}
	return m.users.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "nombre", Value: 1}}))
}

func (m *MongoPeopleRepository) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	return m.users.byID(ctx, id)
}

// UserChatID devuelve el chat de Telegram del usuario con ese uid (0 si no hay).
func (m *MongoPeopleRepository) UserChatID(ctx context.Context, uid string) (int64, error) {
	u, err := findOne[model.User](ctx, m.users.col, bson.M{"uid": uid})
	if err != nil {
		return 0, err
	}
	return u.TelegramChatID, nil
}
