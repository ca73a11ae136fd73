package service

import (
	"context"

	"marketplace-admin/internal/repository"
)

// ReorderRequest trae la lista visible en su orden actual. Si From y To vienen,
// se mueve la fila From a la posición To (índices desde 0) antes de numerar.
type ReorderRequest struct {
	IDs  []string
	From *int
	To   *int
}

type positionWriter interface {
	UpdatePositions(ctx context.Context, updates []repository.PositionUpdate) error
}

// MoveRow devuelve una copia de ids con el elemento from movido a to.
func MoveRow(ids []string, from, to int) ([]string, error) {
	if from < 0 || from >= len(ids) || to < 0 || to >= len(ids) {
		return nil, validationError("movimiento fuera de rango: %d -> %d", from, to)
	}
	out := make([]string, 0, len(ids))
	out = append(out, ids[:from]...)
	out = append(out, ids[from+1:]...)
	moved := ids[from]
	out = append(out[:to], append([]string{moved}, out[to:]...)...)
	return out, nil
}

// PlanReorder numera ids desde 1 y devuelve solo las filas cuya posición cambia.
func PlanReorder(ids []string, current map[string]int) ([]repository.PositionUpdate, error) {
	seen := make(map[string]struct{}, len(ids))
	updates := make([]repository.PositionUpdate, 0, len(ids))
	for i, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, validationError("id repetido en el orden: %s", id)
		}
		seen[id] = struct{}{}

		pos, ok := current[id]
		if !ok {
			return nil, validationError("id desconocido en el orden: %s", id)
		}
		if pos != i+1 {
			updates = append(updates, repository.PositionUpdate{ID: id, Position: i + 1})
		}
	}
	return updates, nil
}

func applyReorder(ctx context.Context, w positionWriter, req ReorderRequest, current map[string]int) ([]repository.PositionUpdate, error) {
	ids := req.IDs
	if req.From != nil && req.To != nil {
		moved, err := MoveRow(ids, *req.From, *req.To)
		if err != nil {
			return nil, err
		}
		ids = moved
	}
	updates, err := PlanReorder(ids, current)
	if err != nil {
		return nil, err
	}
	if err := w.UpdatePositions(ctx, updates); err != nil {
		return nil, err
	}
	return updates, nil
}
