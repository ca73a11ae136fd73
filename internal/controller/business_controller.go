package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-admin/internal/dto"
	"marketplace-admin/internal/model"
	"marketplace-admin/internal/repository"
	"marketplace-admin/internal/service"
)

type BusinessService interface {
	List(ctx context.Context, f service.BusinessFilter) ([]*model.Business, error)
	Get(ctx context.Context, id string) (*service.BusinessDetail, error)
	Create(ctx context.Context, d service.BusinessDraft) (*service.BusinessDetail, error)
	Update(ctx context.Context, id string, d service.BusinessDraft) (*service.BusinessDetail, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, req service.ReorderRequest) ([]repository.PositionUpdate, error)
}

const (
	imageField  = "image"
	bannerField = "banner"
)

type BusinessController struct {
	Service BusinessService
	log     *slog.Logger
}

func NewBusinessController(s BusinessService, log *slog.Logger) *BusinessController {
	return &BusinessController{Service: s, log: log.With("component", "business_controller")}
}

// GET /admin/businesses
func (ctl *BusinessController) List(c *gin.Context) {
	var q dto.BusinessListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	list, err := ctl.Service.List(c.Request.Context(), service.BusinessFilter{
		Ciudad:    q.Ciudad,
		Categoria: q.Categoria,
		Status:    q.Status,
		Needle:    q.Q,
	})
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /admin/businesses/:id
func (ctl *BusinessController) Get(c *gin.Context) {
	d, err := ctl.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (ctl *BusinessController) draft(c *gin.Context) (service.BusinessDraft, *uploads, bool) {
	var p dto.BusinessPayload
	files, err := bindDraft(c, &p)
	if err != nil {
		badRequest(c, err)
		return service.BusinessDraft{}, nil, false
	}
	return service.BusinessDraft{
		Business: p.Business,
		Shipping: p.Shipping,
		Image:    files.get(imageField),
		Banner:   files.get(bannerField),
	}, files, true
}

// POST /admin/businesses
func (ctl *BusinessController) Create(c *gin.Context) {
	d, files, ok := ctl.draft(c)
	if !ok {
		return
	}
	defer files.Close()

	res, err := ctl.Service.Create(c.Request.Context(), d)
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// PUT /admin/businesses/:id
func (ctl *BusinessController) Update(c *gin.Context) {
	d, files, ok := ctl.draft(c)
	if !ok {
		return
	}
	defer files.Close()

	res, err := ctl.Service.Update(c.Request.Context(), c.Param("id"), d)
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DELETE /admin/businesses/:id
func (ctl *BusinessController) Delete(c *gin.Context) {
	if err := ctl.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /admin/businesses/reorder
func (ctl *BusinessController) Reorder(c *gin.Context) {
	req, ok := bindReorder(c)
	if !ok {
		return
	}
	changed, err := ctl.Service.Reorder(c.Request.Context(), req)
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": changed})
}

func bindReorder(c *gin.Context) (service.ReorderRequest, bool) {
	var req dto.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return service.ReorderRequest{}, false
	}
	return service.ReorderRequest{IDs: req.IDs, From: req.From, To: req.To}, true
}
