package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// PositionUpdate es una fila cuya posición cambió tras reordenar.
type PositionUpdate struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

// applyPositions escribe todas las posiciones en una transacción.
func applyPositions(ctx context.Context, col *mongo.Collection, field string, updates []PositionUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	return withTransaction(ctx, col.Database(), func(sc mongo.SessionContext) error {
		for _, u := range updates {
			oid, err := objectID(u.ID)
			if err != nil {
				return err
			}
			res, err := col.UpdateOne(sc, bson.M{"_id": oid}, bson.M{"$set": bson.M{field: u.Position}})
			if err != nil {
				return err
			}
			if res.MatchedCount == 0 {
				return ErrNotFound
			}
		}
		return nil
	})
}
