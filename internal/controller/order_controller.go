package controller

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace-admin/internal/dto"
	"marketplace-admin/internal/model"
	"marketplace-admin/internal/repository"
	"marketplace-admin/internal/service"
)

type OrderService interface {
	Detail(ctx context.Context, id string) (*service.OrderDetail, error)
	List(ctx context.Context, f repository.OrderFilter) ([]*model.Order, error)
	Transition(ctx context.Context, id string, action service.Action, expected *int64) (*service.OrderDetail, error)
	Drivers(ctx context.Context, id string) ([]*model.User, error)
	AssignDriver(ctx context.Context, id, driverID string, expected *int64) (*service.OrderDetail, error)
	ReplaceItems(ctx context.Context, id string, items []model.OrderItem, expected *int64) (*service.OrderDetail, error)
	SetDriverPayout(ctx context.Context, id, raw string, expected *int64) (*service.OrderDetail, error)
	SearchCatalog(ctx context.Context, id, term string) ([]service.SearchHit, error)
	Watch(ctx context.Context, id string) (<-chan *service.OrderDetail, error)
}

const heartbeatEvery = 25 * time.Second

type OrderController struct {
	Service OrderService
	log     *slog.Logger
	loc     *time.Location
}

func NewOrderController(s OrderService, log *slog.Logger) *OrderController {
	return &OrderController{Service: s, log: log.With("component", "order_controller"), loc: time.Local}
}

// GET /admin/orders
func (ctl *OrderController) List(c *gin.Context) {
	var q dto.OrderListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	from, to, err := q.Range(ctl.loc)
	if err != nil {
		badRequest(c, err)
		return
	}

	orders, err := ctl.Service.List(c.Request.Context(), repository.OrderFilter{
		NumeroDeOrden: strings.TrimSpace(q.NumeroDeOrden),
		Estado:        q.Estado,
		Ciudad:        q.Ciudad,
		From:          from,
		To:            to,
	})
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}

	out := make([]gin.H, 0, len(orders))
	for _, o := range orders {
		out = append(out, gin.H{
			"order":   o,
			"state":   service.CurrentState(o),
			"summary": service.Summarize(o),
		})
	}
	c.JSON(http.StatusOK, out)
}

// GET /admin/orders/:id
func (ctl *OrderController) Detail(c *gin.Context) {
	d, err := ctl.Service.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// POST /admin/orders/:id/transitions
func (ctl *OrderController) Transition(c *gin.Context) {
	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	action, ok := service.ParseAction(req.Action)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action " + req.Action})
		return
	}

	d, err := ctl.Service.Transition(c.Request.Context(), c.Param("id"), action, req.Version)
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// GET /admin/orders/:id/drivers
func (ctl *OrderController) Drivers(c *gin.Context) {
	drivers, err := ctl.Service.Drivers(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, drivers)
}

// PUT /admin/orders/:id/driver
func (ctl *OrderController) AssignDriver(c *gin.Context) {
	var req dto.AssignDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	d, err := ctl.Service.AssignDriver(c.Request.Context(), c.Param("id"), req.DriverID, req.Version)
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// PUT /admin/orders/:id/items
func (ctl *OrderController) ReplaceItems(c *gin.Context) {
	var req dto.ReplaceItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	d, err := ctl.Service.ReplaceItems(c.Request.Context(), c.Param("id"), req.Items, req.Version)
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// PUT /admin/orders/:id/payout
func (ctl *OrderController) SetPayout(c *gin.Context) {
	var req dto.PayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	d, err := ctl.Service.SetDriverPayout(c.Request.Context(), c.Param("id"), req.Value, req.Version)
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// GET /admin/orders/:id/catalog?q=
func (ctl *OrderController) SearchCatalog(c *gin.Context) {
	hits, err := ctl.Service.SearchCatalog(c.Request.Context(), c.Param("id"), c.Query("q"))
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, hits)
}

// GET /admin/orders/:id/stream (SSE): detalle completo en cada cambio
func (ctl *OrderController) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	updates, err := ctl.Service.Watch(ctx, id)
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}

	// primer snapshot para no esperar al primer cambio
	if d, err := ctl.Service.Detail(ctx, id); err == nil {
		c.SSEvent("order", d)
		c.Writer.Flush()
	}

	heartbeat := time.NewTicker(heartbeatEvery)
	defer heartbeat.Stop()

	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		case d, ok := <-updates:
			if !ok {
				return false
			}
			if d == nil {
				c.SSEvent("deleted", gin.H{"id": id})
				return false
			}
			c.SSEvent("order", d)
			return true
		}
	})
}
