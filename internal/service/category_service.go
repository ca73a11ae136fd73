package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-admin/internal/blob"
	"marketplace-admin/internal/model"
	"marketplace-admin/internal/repository"
)

type CategoryRepository interface {
	ListByBusiness(ctx context.Context, uuidEmpresa string) ([]*model.Category, error)
	FindByID(ctx context.Context, id string) (*model.Category, error)
	Create(ctx context.Context, c *model.Category) error
	Update(ctx context.Context, c *model.Category) error
	Delete(ctx context.Context, c *model.Category) error
	UpdatePositions(ctx context.Context, updates []repository.PositionUpdate) error
}

type BusinessLookup interface {
	FindByUUID(ctx context.Context, uuid string) (*model.Business, error)
}

type CategoryDraft struct {
	Category model.Category
	Image    *Upload
}

type CategoryService struct {
	repo       CategoryRepository
	businesses BusinessLookup
	blobs      BlobStore
	log        *slog.Logger
}

func NewCategoryService(repo CategoryRepository, businesses BusinessLookup, blobs BlobStore, log *slog.Logger) *CategoryService {
	return &CategoryService{repo: repo, businesses: businesses, blobs: blobs, log: log.With("component", "category_service")}
}

func (s *CategoryService) List(ctx context.Context, uuidEmpresa, needle string) ([]*model.Category, error) {
	all, err := s.repo.ListByBusiness(ctx, uuidEmpresa)
	if err != nil {
		return nil, err
	}
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return all, nil
	}
	out := make([]*model.Category, 0, len(all))
	for _, c := range all {
		if matchesNeedle(needle, c.Categoria, nil) {
			out = append(out, c)
		}
	}
	return out, nil
}

// normalizeCategory aplica las reglas de tags, destacada y subcategorías.
func normalizeCategory(c *model.Category, super bool) {
	tags := make([]string, 0, len(c.Tags))
	for _, t := range c.Tags {
		if t = strings.TrimSpace(t); t != "" && !slices.Contains(tags, t) {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		tags = []string{model.CategoryTagDefault}
	}
	c.Tags = tags
	c.Destacada = slices.Contains(tags, model.CategoryTagFeatured)

	if !super {
		c.SubCategoriasText = []string{}
		return
	}
	subs := []string{model.SubcategoryAll}
	for _, sc := range c.SubCategoriasText {
		sc = strings.TrimSpace(sc)
		if sc == "" || sc == model.SubcategoryAll {
			continue
		}
		if slices.ContainsFunc(subs, func(v string) bool { return strings.EqualFold(v, sc) }) {
			continue
		}
		subs = append(subs, sc)
	}
	c.SubCategoriasText = subs
}

func (s *CategoryService) Create(ctx context.Context, d CategoryDraft) (*model.Category, error) {
	c := d.Category
	if strings.TrimSpace(c.Categoria) == "" {
		return nil, validationError("el nombre de la categoría es obligatorio")
	}
	biz, err := s.businesses.FindByUUID(ctx, c.UUIDEmpresa)
	if err != nil {
		return nil, err
	}
	if biz.MostrarComoSuper && d.Image == nil {
		return nil, validationError("la imagen es obligatoria para supermercados")
	}

	existing, err := s.repo.ListByBusiness(ctx, c.UUIDEmpresa)
	if err != nil {
		return nil, err
	}
	c.ID = primitive.NilObjectID
	c.UUID = uuid.NewString()
	c.EmpresaTexto = biz.Nombre
	if c.Posicion <= 0 {
		c.Posicion = len(existing) + 1
	}
	normalizeCategory(&c, biz.MostrarComoSuper)

	if d.Image != nil {
		url, err := upload(ctx, s.blobs, blob.CategoryImagePath(c.UUIDEmpresa, c.UUID), d.Image)
		if err != nil {
			return nil, err
		}
		c.Imagen = url
	}
	if err := s.repo.Create(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, d CategoryDraft) (*model.Category, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c := d.Category
	if strings.TrimSpace(c.Categoria) == "" {
		return nil, validationError("el nombre de la categoría es obligatorio")
	}
	biz, err := s.businesses.FindByUUID(ctx, current.UUIDEmpresa)
	if err != nil {
		return nil, err
	}

	c.ID = current.ID
	c.UUID = current.UUID
	c.UUIDEmpresa = current.UUIDEmpresa
	c.EmpresaTexto = biz.Nombre
	c.Imagen = current.Imagen
	normalizeCategory(&c, biz.MostrarComoSuper)

	if d.Image != nil {
		// misma ruta: la subida reemplaza la imagen anterior
		url, err := upload(ctx, s.blobs, blob.CategoryImagePath(c.UUIDEmpresa, c.UUID), d.Image)
		if err != nil {
			return nil, err
		}
		c.Imagen = url
	}
	if err := s.repo.Update(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, c); err != nil {
		return err
	}
	deleteBlobs(ctx, s.blobs, s.log, blob.CategoryImagePath(c.UUIDEmpresa, c.UUID))
	return nil
}

func (s *CategoryService) Reorder(ctx context.Context, uuidEmpresa string, req ReorderRequest) ([]repository.PositionUpdate, error) {
	all, err := s.repo.ListByBusiness(ctx, uuidEmpresa)
	if err != nil {
		return nil, err
	}
	current := make(map[string]int, len(all))
	for _, c := range all {
		current[c.ID.Hex()] = c.Posicion
	}
	return applyReorder(ctx, s.repo, req, current)
}
