package controller

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"marketplace-admin/internal/model"
	"marketplace-admin/internal/repository"
	"marketplace-admin/internal/service"
)

type MarketplaceService interface {
	List(ctx context.Context) ([]*model.MarketplaceCategory, error)
	Cities(ctx context.Context) ([]*model.City, error)
	Create(ctx context.Context, d service.MarketplaceDraft) (*model.MarketplaceCategory, error)
	Update(ctx context.Context, id string, d service.MarketplaceDraft) (*model.MarketplaceCategory, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, req service.ReorderRequest) ([]repository.PositionUpdate, error)
}

// subcategoryField es el prefijo de las imágenes de subcategorías: "subcategory:<índice>".
const subcategoryField = "subcategory"

type MarketplaceController struct {
	Service MarketplaceService
	log     *slog.Logger
}

func NewMarketplaceController(s MarketplaceService, log *slog.Logger) *MarketplaceController {
	return &MarketplaceController{Service: s, log: log.With("component", "marketplace_controller")}
}

// GET /admin/marketplace
func (ctl *MarketplaceController) List(c *gin.Context) {
	list, err := ctl.Service.List(c.Request.Context())
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /admin/cities
func (ctl *MarketplaceController) Cities(c *gin.Context) {
	list, err := ctl.Service.Cities(c.Request.Context())
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (ctl *MarketplaceController) draft(c *gin.Context) (service.MarketplaceDraft, *uploads, bool) {
	var cat model.MarketplaceCategory
	files, err := bindDraft(c, &cat)
	if err != nil {
		badRequest(c, err)
		return service.MarketplaceDraft{}, nil, false
	}

	subs := make(map[int]*service.Upload)
	for key, up := range files.withPrefix(subcategoryField) {
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(cat.Subcategorias) {
			files.Close()
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subcategory image index " + key})
			return service.MarketplaceDraft{}, nil, false
		}
		subs[i] = up
	}
	return service.MarketplaceDraft{Category: cat, Image: files.get(imageField), SubcategoryImages: subs}, files, true
}

// POST /admin/marketplace
func (ctl *MarketplaceController) Create(c *gin.Context) {
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

// PUT /admin/marketplace/:id
func (ctl *MarketplaceController) Update(c *gin.Context) {
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

// DELETE /admin/marketplace/:id
func (ctl *MarketplaceController) Delete(c *gin.Context) {
	if err := ctl.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /admin/marketplace/reorder
func (ctl *MarketplaceController) Reorder(c *gin.Context) {
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
