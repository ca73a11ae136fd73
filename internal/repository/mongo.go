package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound        = errors.New("registro no encontrado")
	ErrVersionConflict = errors.New("el registro cambió desde la última lectura")
)

// Nombres de colecciones tal como existen en la base.
const (
	OrdersCollection         = "orders"
	BusinessesCollection     = "NegociosAfiliados"
	ShippingConfigCollection = "configuracionEnvios"
	CategoriesCollection     = "Categorias"
	ProductsCollection       = "productos"
	ModifierGroupsCollection = "modifierGroups"
	MarketplaceCollection    = "marketplace"
	CitiesCollection         = "cities"
	UsersCollection          = "users"
)

// objectID convierte el id de la URL; un id mal formado equivale a no encontrado.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func objectIDs(ids []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := objectID(id)
		if err != nil {
			return nil, err
		}
		out = append(out, oid)
	}
	return out, nil
}

func decodeAll[T any](ctx context.Context, cur *mongo.Cursor) ([]*T, error) {
	defer cur.Close(ctx)

	out := []*T{}
	for cur.Next(ctx) {
		var v T
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, cur.Err()
}

func findOne[T any](ctx context.Context, col *mongo.Collection, filter any) (*T, error) {
	var res T
	err := col.FindOne(ctx, filter).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// withTransaction ejecuta fn en una transacción: todo se aplica o nada.
func withTransaction(ctx context.Context, db *mongo.Database, fn func(sc mongo.SessionContext) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	return err
}

// store agrupa las operaciones CRUD que comparten todas las colecciones del catálogo.
type store[T any] struct {
	col *mongo.Collection
}

func (s store[T]) byID(ctx context.Context, id string) (*T, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return findOne[T](ctx, s.col, bson.M{"_id": oid})
}

func (s store[T]) find(ctx context.Context, filter any, opts ...*options.FindOptions) ([]*T, error) {
	cur, err := s.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](ctx, cur)
}

func (s store[T]) insert(ctx context.Context, doc *T) (primitive.ObjectID, error) {
	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid, nil
}

func (s store[T]) replace(ctx context.Context, id primitive.ObjectID, doc *T) error {
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s store[T]) delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
