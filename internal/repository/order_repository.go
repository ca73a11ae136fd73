package repository

import (
	"context"
	"time"

	"marketplace-admin/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderFilter reproduce los filtros del listado de órdenes. Si viene
// NumeroDeOrden los demás se ignoran.
type OrderFilter struct {
	NumeroDeOrden string
	Estado        string
	Ciudad        string
	From          *time.Time
	To            *time.Time
}

// Mongo implementation
type MongoOrderRepository struct {
	col *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{col: db.Collection(OrdersCollection)}
}

func (m *MongoOrderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return findOne[model.Order](ctx, m.col, bson.M{"_id": oid})
}

func (m *MongoOrderRepository) List(ctx context.Context, f OrderFilter) ([]*model.Order, error) {
	filter := bson.M{}
	if f.NumeroDeOrden != "" {
		filter["numeroDeOrden"] = f.NumeroDeOrden
	} else {
		if f.Estado != "" {
			filter["estadoText"] = f.Estado
		}
		if f.Ciudad != "" {
			filter["nombreCiudad"] = f.Ciudad
		}
		created := bson.M{}
		if f.From != nil {
			created["$gte"] = *f.From
		}
		if f.To != nil {
			created["$lte"] = *f.To
		}
		if len(created) > 0 {
			filter["createdAt"] = created
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.Order](ctx, cur)
}

// UpdateFields aplica set solo si la versión guardada sigue siendo version
// (compare-and-swap) e incrementa el contador.
func (m *MongoOrderRepository) UpdateFields(ctx context.Context, id string, version int64, set bson.M) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": oid, "version": version}
	if version == 0 {
		// órdenes creadas por la app de clientes antes del contador
		filter = bson.M{
			"_id": oid,
			"$or": bson.A{
				bson.M{"version": 0},
				bson.M{"version": bson.M{"$exists": false}},
			},
		}
	}
	update := bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	}

	res, err := m.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		n, err := m.col.CountDocuments(ctx, bson.M{"_id": oid})
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	return nil
}

type orderChange struct {
	OperationType string       `bson:"operationType"`
	FullDocument  *model.Order `bson:"fullDocument"`
}

// Watch emite la orden completa cada vez que cambia. Un nil significa que la
// orden fue borrada. El canal se cierra cuando ctx termina o el stream falla.
func (m *MongoOrderRepository) Watch(ctx context.Context, id string) (<-chan *model.Order, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "documentKey._id", Value: oid}}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	cs, err := m.col.Watch(ctx, pipeline, opts)
	if err != nil {
		return nil, err
	}

	out := make(chan *model.Order)
	go func() {
		defer close(out)
		defer cs.Close(context.Background())

		for cs.Next(ctx) {
			var ev orderChange
			if err := cs.Decode(&ev); err != nil {
				return
			}
			doc := ev.FullDocument
			if ev.OperationType == "delete" {
				doc = nil
			}
			select {
			case out <- doc:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
