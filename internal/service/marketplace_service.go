package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-admin/internal/blob"
	"marketplace-admin/internal/model"
	"marketplace-admin/internal/repository"
)

type MarketplaceRepository interface {
	List(ctx context.Context) ([]*model.MarketplaceCategory, error)
	FindByID(ctx context.Context, id string) (*model.MarketplaceCategory, error)
	Create(ctx context.Context, c *model.MarketplaceCategory) error
	Update(ctx context.Context, c *model.MarketplaceCategory) error
	Delete(ctx context.Context, c *model.MarketplaceCategory) error
	UpdatePositions(ctx context.Context, updates []repository.PositionUpdate) error
}

type CityLister interface {
	ListCities(ctx context.Context) ([]*model.City, error)
}

// MarketplaceDraft trae la categoría y las imágenes nuevas de las subcategorías
// indexadas por su posición en Subcategorias.
type MarketplaceDraft struct {
	Category          model.MarketplaceCategory
	Image             *Upload
	SubcategoryImages map[int]*Upload
}

type MarketplaceService struct {
	repo   MarketplaceRepository
	cities CityLister
	blobs  BlobStore
	log    *slog.Logger
	now    func() time.Time
}

func NewMarketplaceService(repo MarketplaceRepository, cities CityLister, blobs BlobStore, log *slog.Logger) *MarketplaceService {
	return &MarketplaceService{repo: repo, cities: cities, blobs: blobs, log: log.With("component", "marketplace_service"), now: time.Now}
}

func (s *MarketplaceService) List(ctx context.Context) ([]*model.MarketplaceCategory, error) {
	return s.repo.List(ctx)
}

func (s *MarketplaceService) Cities(ctx context.Context) ([]*model.City, error) {
	return s.cities.ListCities(ctx)
}

func (s *MarketplaceService) uploadImages(ctx context.Context, c *model.MarketplaceCategory, d MarketplaceDraft) error {
	now := s.now()
	if d.Image != nil {
		url, err := upload(ctx, s.blobs, blob.MarketplaceImagePath(d.Image.Name, now), d.Image)
		if err != nil {
			return err
		}
		c.Image = url
	}
	for i := range c.Subcategorias {
		up, ok := d.SubcategoryImages[i]
		if !ok || up == nil {
			continue
		}
		url, err := upload(ctx, s.blobs, blob.MarketplaceSubcategoryImagePath(up.Name, now), up)
		if err != nil {
			return err
		}
		c.Subcategorias[i].ImagenURL = url
	}
	return nil
}

func (s *MarketplaceService) Create(ctx context.Context, d MarketplaceDraft) (*model.MarketplaceCategory, error) {
	c := d.Category
	if strings.TrimSpace(c.Nombre) == "" {
		return nil, validationError("el nombre es obligatorio")
	}
	if d.Image == nil {
		return nil, validationError("la imagen es obligatoria")
	}
	c.ID = primitive.NilObjectID
	if c.Position <= 0 {
		all, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		c.Position = len(all) + 1
	}
	if err := s.uploadImages(ctx, &c, d); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *MarketplaceService) Update(ctx context.Context, id string, d MarketplaceDraft) (*model.MarketplaceCategory, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c := d.Category
	if strings.TrimSpace(c.Nombre) == "" {
		return nil, validationError("el nombre es obligatorio")
	}
	c.ID = current.ID
	if c.Image == "" {
		c.Image = current.Image
	}
	if err := s.uploadImages(ctx, &c, d); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete borra la categoría y luego intenta borrar su imagen y las de sus subcategorías.
func (s *MarketplaceService) Delete(ctx context.Context, id string) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, c); err != nil {
		return err
	}
	urls := []string{c.Image}
	for _, sub := range c.Subcategorias {
		urls = append(urls, sub.ImagenURL)
	}
	deleteBlobs(ctx, s.blobs, s.log, urls...)
	return nil
}

func (s *MarketplaceService) Reorder(ctx context.Context, req ReorderRequest) ([]repository.PositionUpdate, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	current := make(map[string]int, len(all))
	for _, c := range all {
		current[c.ID.Hex()] = c.Position
	}
	return applyReorder(ctx, s.repo, req, current)
}
