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

type CategoryService interface {
	List(ctx context.Context, uuidEmpresa, needle string) ([]*model.Category, error)
	Create(ctx context.Context, d service.CategoryDraft) (*model.Category, error)
	Update(ctx context.Context, id string, d service.CategoryDraft) (*model.Category, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, uuidEmpresa string, req service.ReorderRequest) ([]repository.PositionUpdate, error)
}

type ProductService interface {
	List(ctx context.Context, uuidEmpresa, category, term string) ([]*model.Product, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, d service.ProductDraft) (*model.Product, error)
	Update(ctx context.Context, id string, d service.ProductDraft) (*model.Product, error)
	Delete(ctx context.Context, id string) error
}

type ModifierService interface {
	List(ctx context.Context, productUUID string) ([]*model.ModifierGroup, error)
	Create(ctx context.Context, productUUID, uuidEmpresa string, d service.ModifierDraft) (*model.ModifierGroup, error)
	Update(ctx context.Context, id string, d service.ModifierDraft) (*model.ModifierGroup, error)
	Delete(ctx context.Context, id string) error
}

// optionField es el prefijo de las imágenes de opciones: "option:<opcionID>".
const optionField = "option"

type CatalogController struct {
	Categories CategoryService
	Products   ProductService
	Modifiers  ModifierService
	log        *slog.Logger
}

func NewCatalogController(categories CategoryService, products ProductService, modifiers ModifierService, log *slog.Logger) *CatalogController {
	return &CatalogController{
		Categories: categories,
		Products:   products,
		Modifiers:  modifiers,
		log:        log.With("component", "catalog_controller"),
	}
}

func requiredQuery(c *gin.Context, key string) (string, bool) {
	v := c.Query(key)
	if v == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": key + " is required"})
		return "", false
	}
	return v, true
}

// GET /admin/categories?uuidEmpresa=&q=
func (ctl *CatalogController) ListCategories(c *gin.Context) {
	biz, ok := requiredQuery(c, "uuidEmpresa")
	if !ok {
		return
	}
	list, err := ctl.Categories.List(c.Request.Context(), biz, c.Query("q"))
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (ctl *CatalogController) categoryDraft(c *gin.Context) (service.CategoryDraft, *uploads, bool) {
	var cat model.Category
	files, err := bindDraft(c, &cat)
	if err != nil {
		badRequest(c, err)
		return service.CategoryDraft{}, nil, false
	}
	return service.CategoryDraft{Category: cat, Image: files.get(imageField)}, files, true
}

// POST /admin/categories
func (ctl *CatalogController) CreateCategory(c *gin.Context) {
	d, files, ok := ctl.categoryDraft(c)
	if !ok {
		return
	}
	defer files.Close()

	res, err := ctl.Categories.Create(c.Request.Context(), d)
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// PUT /admin/categories/:id
func (ctl *CatalogController) UpdateCategory(c *gin.Context) {
	d, files, ok := ctl.categoryDraft(c)
	if !ok {
		return
	}
	defer files.Close()

	res, err := ctl.Categories.Update(c.Request.Context(), c.Param("id"), d)
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DELETE /admin/categories/:id
func (ctl *CatalogController) DeleteCategory(c *gin.Context) {
	if err := ctl.Categories.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /admin/categories/reorder?uuidEmpresa=
func (ctl *CatalogController) ReorderCategories(c *gin.Context) {
	biz, ok := requiredQuery(c, "uuidEmpresa")
	if !ok {
		return
	}
	req, ok := bindReorder(c)
	if !ok {
		return
	}
	changed, err := ctl.Categories.Reorder(c.Request.Context(), biz, req)
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": changed})
}

// GET /admin/products?uuidEmpresa=&categoria=&q=
func (ctl *CatalogController) ListProducts(c *gin.Context) {
	var q dto.ProductListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	list, err := ctl.Products.List(c.Request.Context(), q.UUIDEmpresa, q.Categoria, q.Q)
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /admin/products/:id
func (ctl *CatalogController) GetProduct(c *gin.Context) {
	p, err := ctl.Products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (ctl *CatalogController) productDraft(c *gin.Context) (service.ProductDraft, *uploads, bool) {
	var p model.Product
	files, err := bindDraft(c, &p)
	if err != nil {
		badRequest(c, err)
		return service.ProductDraft{}, nil, false
	}
	return service.ProductDraft{Product: p, Image: files.get(imageField)}, files, true
}

// POST /admin/products
func (ctl *CatalogController) CreateProduct(c *gin.Context) {
	d, files, ok := ctl.productDraft(c)
	if !ok {
		return
	}
	defer files.Close()

	res, err := ctl.Products.Create(c.Request.Context(), d)
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// PUT /admin/products/:id
func (ctl *CatalogController) UpdateProduct(c *gin.Context) {
	d, files, ok := ctl.productDraft(c)
	if !ok {
		return
	}
	defer files.Close()

	res, err := ctl.Products.Update(c.Request.Context(), c.Param("id"), d)
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DELETE /admin/products/:id (borra también sus grupos de modificadores)
func (ctl *CatalogController) DeleteProduct(c *gin.Context) {
	if err := ctl.Products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /admin/modifiers?productoId=
func (ctl *CatalogController) ListModifiers(c *gin.Context) {
	product, ok := requiredQuery(c, "productoId")
	if !ok {
		return
	}
	list, err := ctl.Modifiers.List(c.Request.Context(), product)
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (ctl *CatalogController) modifierDraft(c *gin.Context) (service.ModifierDraft, *uploads, bool) {
	var g model.ModifierGroup
	files, err := bindDraft(c, &g)
	if err != nil {
		badRequest(c, err)
		return service.ModifierDraft{}, nil, false
	}
	return service.ModifierDraft{Group: g, OptionImages: files.withPrefix(optionField)}, files, true
}

// POST /admin/modifiers?productoId=&uuidEmpresa=
func (ctl *CatalogController) CreateModifier(c *gin.Context) {
	product, ok := requiredQuery(c, "productoId")
	if !ok {
		return
	}
	biz, ok := requiredQuery(c, "uuidEmpresa")
	if !ok {
		return
	}
	d, files, ok := ctl.modifierDraft(c)
	if !ok {
		return
	}
	defer files.Close()

	res, err := ctl.Modifiers.Create(c.Request.Context(), product, biz, d)
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// PUT /admin/modifiers/:id
func (ctl *CatalogController) UpdateModifier(c *gin.Context) {
	d, files, ok := ctl.modifierDraft(c)
	if !ok {
		return
	}
	defer files.Close()

	res, err := ctl.Modifiers.Update(c.Request.Context(), c.Param("id"), d)
	if err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DELETE /admin/modifiers/:id
func (ctl *CatalogController) DeleteModifier(c *gin.Context) {
	if err := ctl.Modifiers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, ctl.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
