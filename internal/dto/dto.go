// dto.go
package dto

import (
	"time"

	"marketplace-admin/internal/model"
)

// Version es opcional en todas las escrituras de órdenes: si viene, se compara
// contra la versión guardada antes de escribir.
type TransitionRequest struct {
	Action  string `json:"action" binding:"required"`
	Version *int64 `json:"version"`
}

type AssignDriverRequest struct {
	DriverID string `json:"driverId" binding:"required"`
	Version  *int64 `json:"version"`
}

type ReplaceItemsRequest struct {
	Items   []model.OrderItem `json:"items" binding:"required"`
	Version *int64            `json:"version"`
}

// PayoutRequest acepta texto libre; si no es número se guarda tal cual.
type PayoutRequest struct {
	Value   string `json:"value"`
	Version *int64 `json:"version"`
}

type OrderListQuery struct {
	NumeroDeOrden string `form:"numero"`
	Estado        string `form:"estado"`
	Ciudad        string `form:"ciudad"`
	From          string `form:"from"`
	To            string `form:"to"`
}

const dayLayout = "2006-01-02"

// Range convierte from/to (YYYY-MM-DD) al rango [from 00:00, to 23:59:59] en loc.
func (q OrderListQuery) Range(loc *time.Location) (from, to *time.Time, err error) {
	if q.From != "" {
		t, err := time.ParseInLocation(dayLayout, q.From, loc)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if q.To != "" {
		t, err := time.ParseInLocation(dayLayout, q.To, loc)
		if err != nil {
			return nil, nil, err
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return from, to, nil
}

type ReorderRequest struct {
	IDs  []string `json:"ids" binding:"required,min=1"`
	From *int     `json:"from"`
	To   *int     `json:"to"`
}

type BusinessListQuery struct {
	Ciudad    string `form:"ciudad"`
	Categoria string `form:"categoria"`
	Status    string `form:"status"`
	Q         string `form:"q"`
}

type ProductListQuery struct {
	UUIDEmpresa string `form:"uuidEmpresa" binding:"required"`
	Categoria   string `form:"categoria"`
	Q           string `form:"q"`
}

// BusinessPayload viaja como JSON o en el campo "payload" de un multipart.
type BusinessPayload struct {
	Business model.Business       `json:"business"`
	Shipping model.ShippingConfig `json:"shipping"`
}
