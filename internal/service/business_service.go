package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-admin/internal/blob"
	"marketplace-admin/internal/keywords"
	"marketplace-admin/internal/model"
	"marketplace-admin/internal/repository"
)

const (
	FilterAllCities     = "Todas"
	FilterAllCategories = "Todas"
	StatusActive        = "activos"
	StatusInactive      = "inactivos"
)

type BusinessRepository interface {
	List(ctx context.Context) ([]*model.Business, error)
	Count(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id string) (*model.Business, error)
	FindShippingConfig(ctx context.Context, b *model.Business) (*model.ShippingConfig, error)
	Create(ctx context.Context, b *model.Business, cfg *model.ShippingConfig) error
	Update(ctx context.Context, b *model.Business, cfg *model.ShippingConfig) error
	Delete(ctx context.Context, b *model.Business) error
	UpdatePositions(ctx context.Context, updates []repository.PositionUpdate) error
}

type BusinessFilter struct {
	Ciudad    string
	Categoria string
	Status    string
	Needle    string
}

// BusinessDraft es lo que envía el formulario de negocio.
type BusinessDraft struct {
	Business model.Business
	Shipping model.ShippingConfig
	Image    *Upload
	Banner   *Upload
}

type BusinessDetail struct {
	Business *model.Business       `json:"business"`
	Shipping *model.ShippingConfig `json:"shipping,omitempty"`
}

type BusinessService struct {
	repo  BusinessRepository
	blobs BlobStore
	log   *slog.Logger
	now   func() time.Time
}

func NewBusinessService(repo BusinessRepository, blobs BlobStore, log *slog.Logger) *BusinessService {
	return &BusinessService{repo: repo, blobs: blobs, log: log.With("component", "business_service"), now: time.Now}
}

// List ordena visibles primero y luego por posición, y aplica los filtros.
func (s *BusinessService) List(ctx context.Context, f BusinessFilter) ([]*model.Business, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Mostrar != all[j].Mostrar {
			return all[i].Mostrar
		}
		return all[i].Posicion < all[j].Posicion
	})

	needle := keywords.Normalize(f.Needle)
	out := make([]*model.Business, 0, len(all))
	for _, b := range all {
		if f.Ciudad != "" && f.Ciudad != FilterAllCities && b.Ciudad != f.Ciudad {
			continue
		}
		if f.Categoria != "" && f.Categoria != FilterAllCategories && b.CategoriaTexto != f.Categoria {
			continue
		}
		if f.Status == StatusActive && !b.Mostrar || f.Status == StatusInactive && b.Mostrar {
			continue
		}
		if !matchesNeedle(needle, b.Nombre, b.SearchKeywords) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *BusinessService) Get(ctx context.Context, id string) (*BusinessDetail, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cfg, err := s.repo.FindShippingConfig(ctx, b)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return &BusinessDetail{Business: b, Shipping: cfg}, nil
}

func validateBusiness(b *model.Business) error {
	if strings.TrimSpace(b.Nombre) == "" {
		return validationError("el nombre del negocio es obligatorio")
	}
	if strings.TrimSpace(b.Ciudad) == "" {
		return validationError("la ciudad es obligatoria")
	}
	for _, h := range b.HorarioTienda {
		if !validClock(h.HoraApertura) || !validClock(h.HoraCierre) {
			return validationError("horario inválido para %s", h.DiaSemana)
		}
	}
	return nil
}

func validClock(v string) bool {
	if v == "" {
		return true
	}
	_, err := time.Parse("15:04", v)
	return err == nil
}

func (s *BusinessService) Create(ctx context.Context, d BusinessDraft) (*BusinessDetail, error) {
	b := d.Business
	if err := validateBusiness(&b); err != nil {
		return nil, err
	}
	b.ID = primitive.NilObjectID
	if b.UUIDEmpresa == "" {
		b.UUIDEmpresa = uuid.NewString()
	}
	if b.Posicion <= 0 {
		n, err := s.repo.Count(ctx)
		if err != nil {
			return nil, err
		}
		b.Posicion = int(n) + 1
	}
	b.SearchKeywords = keywords.Generate(b.Nombre, keywords.BusinessMinPrefix)
	if err := s.uploadImages(ctx, &b, d); err != nil {
		return nil, err
	}

	cfg := d.Shipping
	cfg.UUIDEmpresa = b.UUIDEmpresa
	if err := s.repo.Create(ctx, &b, &cfg); err != nil {
		return nil, err
	}
	s.log.Info("business created", "uuid", b.UUIDEmpresa, "posicion", b.Posicion)
	return &BusinessDetail{Business: &b, Shipping: &cfg}, nil
}

func (s *BusinessService) Update(ctx context.Context, id string, d BusinessDraft) (*BusinessDetail, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b := d.Business
	if err := validateBusiness(&b); err != nil {
		return nil, err
	}
	b.ID = current.ID
	b.UUIDEmpresa = current.UUIDEmpresa
	b.ConfiguracionEnvios = current.ConfiguracionEnvios
	b.TelegramChatID = current.TelegramChatID
	if b.Imagen == "" {
		b.Imagen = current.Imagen
	}
	if b.ImagenBanner == "" {
		b.ImagenBanner = current.ImagenBanner
	}
	b.SearchKeywords = keywords.Generate(b.Nombre, keywords.BusinessMinPrefix)
	if err := s.uploadImages(ctx, &b, d); err != nil {
		return nil, err
	}

	cfg := d.Shipping
	cfg.UUIDEmpresa = b.UUIDEmpresa
	if err := s.repo.Update(ctx, &b, &cfg); err != nil {
		return nil, err
	}

	// las imágenes reemplazadas ya no las referencia nadie
	if d.Image != nil && current.Imagen != b.Imagen {
		deleteBlobs(ctx, s.blobs, s.log, current.Imagen)
	}
	if d.Banner != nil && current.ImagenBanner != b.ImagenBanner {
		deleteBlobs(ctx, s.blobs, s.log, current.ImagenBanner)
	}
	return &BusinessDetail{Business: &b, Shipping: &cfg}, nil
}

func (s *BusinessService) uploadImages(ctx context.Context, b *model.Business, d BusinessDraft) error {
	now := s.now()
	if d.Image != nil {
		url, err := upload(ctx, s.blobs, blob.BusinessImagePath(b.UUIDEmpresa, d.Image.Name, now), d.Image)
		if err != nil {
			return err
		}
		b.Imagen = url
	}
	if d.Banner != nil {
		url, err := upload(ctx, s.blobs, blob.BusinessBannerPath(b.UUIDEmpresa, d.Banner.Name, now), d.Banner)
		if err != nil {
			return err
		}
		b.ImagenBanner = url
	}
	return nil
}

// Delete borra el negocio y su configuración; las imágenes se borran después sin bloquear.
func (s *BusinessService) Delete(ctx context.Context, id string) error {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, b); err != nil {
		return err
	}
	deleteBlobs(ctx, s.blobs, s.log, b.Imagen, b.ImagenBanner)
	s.log.Info("business deleted", "uuid", b.UUIDEmpresa)
	return nil
}

func (s *BusinessService) Reorder(ctx context.Context, req ReorderRequest) ([]repository.PositionUpdate, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	current := make(map[string]int, len(all))
	for _, b := range all {
		current[b.ID.Hex()] = b.Posicion
	}
	return applyReorder(ctx, s.repo, req, current)
}
