package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-admin/internal/blob"
	"marketplace-admin/internal/model"
	"marketplace-admin/internal/pricing"
)

type ModifierRepository interface {
	ListByProduct(ctx context.Context, productUUID string) ([]*model.ModifierGroup, error)
	FindByID(ctx context.Context, id string) (*model.ModifierGroup, error)
	Create(ctx context.Context, g *model.ModifierGroup) error
	Update(ctx context.Context, g *model.ModifierGroup) error
	Delete(ctx context.Context, g *model.ModifierGroup) error
}

// ModifierDraft lleva el grupo y las imágenes pendientes por opcionID.
type ModifierDraft struct {
	Group        model.ModifierGroup
	OptionImages map[string]*Upload
}

type ModifierService struct {
	repo  ModifierRepository
	blobs BlobStore
	log   *slog.Logger
}

func NewModifierService(repo ModifierRepository, blobs BlobStore, log *slog.Logger) *ModifierService {
	return &ModifierService{repo: repo, blobs: blobs, log: log.With("component", "modifier_service")}
}

func (s *ModifierService) List(ctx context.Context, productUUID string) ([]*model.ModifierGroup, error) {
	return s.repo.ListByProduct(ctx, productUUID)
}

// NormalizeModifierGroup completa ids y recalcula totalVariation de cada opción.
func NormalizeModifierGroup(g *model.ModifierGroup) error {
	if strings.TrimSpace(g.Nombre) == "" {
		return validationError("el grupo de modificadores necesita un nombre")
	}
	if g.TipoSeleccion == "" {
		g.TipoSeleccion = model.SelectionSingle
	}
	if g.MinSeleccion < 0 || g.MaxSeleccion < 0 {
		return validationError("mínimo y máximo no pueden ser negativos")
	}
	if g.MinSeleccion > g.MaxSeleccion {
		return validationError("el mínimo (%d) no puede ser mayor que el máximo (%d)", g.MinSeleccion, g.MaxSeleccion)
	}
	for i := range g.Opciones {
		op := &g.Opciones[i]
		if op.OpcionID == "" {
			op.OpcionID = uuid.NewString()
		}
		op.TotalVariation = pricing.PricedTotal(op.AjustePrecioTienda, op.AdicionalApp)
	}
	return nil
}

func (s *ModifierService) uploadOptionImages(ctx context.Context, g *model.ModifierGroup, images map[string]*Upload) error {
	for i := range g.Opciones {
		op := &g.Opciones[i]
		up, ok := images[op.OpcionID]
		if !ok || up == nil {
			continue
		}
		url, err := upload(ctx, s.blobs, blob.ModifierOptionImagePath(g.ProductoID, op.OpcionID), up)
		if err != nil {
			return err
		}
		op.ImageURL = url
	}
	return nil
}

func (s *ModifierService) Create(ctx context.Context, productUUID, uuidEmpresa string, d ModifierDraft) (*model.ModifierGroup, error) {
	g := d.Group
	g.ID = primitive.NilObjectID
	g.IDModificador = uuid.NewString()
	g.ProductoID = productUUID
	g.LegacyProduct = ""
	g.BusinessIDText = uuidEmpresa
	if err := NormalizeModifierGroup(&g); err != nil {
		return nil, err
	}
	if err := s.uploadOptionImages(ctx, &g, d.OptionImages); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Update migra el campo legado productId a productoId al guardar.
func (s *ModifierService) Update(ctx context.Context, id string, d ModifierDraft) (*model.ModifierGroup, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	g := d.Group
	g.ID = current.ID
	g.IDModificador = current.IDModificador
	g.BusinessIDText = current.BusinessIDText
	g.ProductoID = current.ProductoID
	if g.ProductoID == "" {
		g.ProductoID = current.LegacyProduct
	}
	g.LegacyProduct = ""
	if err := NormalizeModifierGroup(&g); err != nil {
		return nil, err
	}
	if err := s.uploadOptionImages(ctx, &g, d.OptionImages); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *ModifierService) Delete(ctx context.Context, id string) error {
	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, g); err != nil {
		return err
	}
	urls := make([]string, 0, len(g.Opciones))
	for _, op := range g.Opciones {
		urls = append(urls, op.ImageURL)
	}
	deleteBlobs(ctx, s.blobs, s.log, urls...)
	return nil
}
