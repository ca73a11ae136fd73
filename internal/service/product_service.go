package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-admin/internal/blob"
	"marketplace-admin/internal/keywords"
	"marketplace-admin/internal/model"
	"marketplace-admin/internal/pricing"
)

const FilterAllProducts = "Todas"

type ProductRepository interface {
	ListByBusiness(ctx context.Context, uuidEmpresa, category string) ([]*model.Product, error)
	FindByID(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p *model.Product) error
	SetImage(ctx context.Context, id primitive.ObjectID, url string) error
	DeleteWithModifiers(ctx context.Context, p *model.Product) error
}

type CategoryLister interface {
	ListByBusiness(ctx context.Context, uuidEmpresa string) ([]*model.Category, error)
}

type ProductDraft struct {
	Product model.Product
	Image   *Upload
}

type ProductService struct {
	repo       ProductRepository
	businesses BusinessLookup
	categories CategoryLister
	blobs      BlobStore
	log        *slog.Logger
	now        func() time.Time
}

func NewProductService(repo ProductRepository, businesses BusinessLookup, categories CategoryLister, blobs BlobStore, log *slog.Logger) *ProductService {
	return &ProductService{
		repo:       repo,
		businesses: businesses,
		categories: categories,
		blobs:      blobs,
		log:        log.With("component", "product_service"),
		now:        time.Now,
	}
}

// SetDefaultVariant deja a la variante i como la única por defecto.
func SetDefaultVariant(vs []model.Variant, i int) {
	for j := range vs {
		vs[j].EsDefault = j == i
	}
}

// RemoveVariant quita la variante i; si era la de defecto, pasa a serlo la primera.
func RemoveVariant(vs []model.Variant, i int) []model.Variant {
	if i < 0 || i >= len(vs) {
		return vs
	}
	out := slices.Delete(slices.Clone(vs), i, i+1)
	if len(out) > 0 && !slices.ContainsFunc(out, func(v model.Variant) bool { return v.EsDefault }) {
		out[0].EsDefault = true
	}
	return out
}

// NormalizeProduct recalcula los precios derivados y valida las categorías.
func NormalizeProduct(p *model.Product, super bool) error {
	if strings.TrimSpace(p.Name) == "" {
		return validationError("el nombre del producto es obligatorio")
	}

	p.SalePrice = pricing.PricedTotal(p.Price, p.AdicionalApp)

	def := -1
	for i := range p.Variantes {
		v := &p.Variantes[i]
		v.PrecioVentaApp = pricing.PricedTotal(v.PrecioTienda, v.AdicionalApp)
		if v.EsDefault && def < 0 {
			def = i
		}
	}
	if len(p.Variantes) > 0 {
		SetDefaultVariant(p.Variantes, max(def, 0))
	}
	p.TieneVariantes = len(p.Variantes) > 0

	for gi := range p.GruposDeExtras {
		g := &p.GruposDeExtras[gi]
		if g.TipoSeleccion == "" {
			g.TipoSeleccion = model.SelectionSingle
		}
		for ii := range g.Items {
			it := &g.Items[ii]
			it.TituloDelGrupo = g.TituloDelGrupo
			it.PrecioVentaApp = pricing.PricedTotal(it.Costo, it.AdicionalApp)
		}
	}

	if super {
		if strings.TrimSpace(p.CategoriaTexto) == "" {
			return validationError("selecciona la categoría principal")
		}
		p.Categorias = []string{p.CategoriaTexto}
		subs := []string{model.SubcategoryAll}
		for _, sc := range p.SubCategoriasText {
			if sc != "" && !slices.Contains(subs, sc) {
				subs = append(subs, sc)
			}
		}
		p.SubCategoriasText = subs
	} else {
		if len(p.Categorias) == 0 {
			return validationError("selecciona al menos una categoría")
		}
		p.CategoriaTexto = strings.Join(p.Categorias, ", ")
		p.SubCategoriasText = []string{}
	}

	p.SearchKeywords = keywords.Generate(p.Name, keywords.ProductMinPrefix)
	return nil
}

// checkCategories verifica que las categorías elegidas existan en el negocio.
func (s *ProductService) checkCategories(ctx context.Context, p *model.Product) error {
	cats, err := s.categories.ListByBusiness(ctx, p.UUIDEmpresa)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Categoria)
	}
	for _, c := range p.Categorias {
		if !slices.Contains(names, c) {
			return validationError("la categoría %q no existe en el negocio", c)
		}
	}
	return nil
}

func (s *ProductService) prepare(ctx context.Context, p *model.Product) error {
	biz, err := s.businesses.FindByUUID(ctx, p.UUIDEmpresa)
	if err != nil {
		return err
	}
	p.Empresa = biz.Nombre
	if err := NormalizeProduct(p, biz.MostrarComoSuper); err != nil {
		return err
	}
	return s.checkCategories(ctx, p)
}

// List filtra por categoría en la base y por término (nombre o sku) en memoria.
func (s *ProductService) List(ctx context.Context, uuidEmpresa, category, term string) ([]*model.Product, error) {
	if category == FilterAllProducts {
		category = ""
	}
	all, err := s.repo.ListByBusiness(ctx, uuidEmpresa, category)
	if err != nil {
		return nil, err
	}
	t := strings.ToLower(strings.TrimSpace(term))
	if t == "" {
		return all, nil
	}
	out := make([]*model.Product, 0, len(all))
	for _, p := range all {
		if matchesNeedle(t, p.Name, nil, p.SKU) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// Create guarda el producto y después sube la imagen a su ruta definitiva.
func (s *ProductService) Create(ctx context.Context, d ProductDraft) (*model.Product, error) {
	p := d.Product
	p.ID = primitive.NilObjectID
	p.UUID = uuid.NewString()
	if err := s.prepare(ctx, &p); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	p.CreatedAt, p.ModifiedAt = now, now

	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	if d.Image != nil {
		url, err := upload(ctx, s.blobs, blob.ProductImagePath(p.UUIDEmpresa, p.UUID), d.Image)
		if err != nil {
			return nil, err
		}
		if err := s.repo.SetImage(ctx, p.ID, url); err != nil {
			return nil, err
		}
		p.Imagen = url
	}
	s.log.Info("product created", "uuid", p.UUID, "business", p.UUIDEmpresa)
	return &p, nil
}

func (s *ProductService) Update(ctx context.Context, id string, d ProductDraft) (*model.Product, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := d.Product
	p.ID = current.ID
	p.UUID = current.UUID
	if p.UUID == "" {
		p.UUID = current.ID.Hex()
	}
	p.UUIDEmpresa = current.UUIDEmpresa
	p.CreatedAt = current.CreatedAt
	if p.Imagen == "" {
		p.Imagen = current.Imagen
	}
	if err := s.prepare(ctx, &p); err != nil {
		return nil, err
	}

	if d.Image != nil {
		url, err := upload(ctx, s.blobs, blob.ProductImagePath(p.UUIDEmpresa, p.UUID), d.Image)
		if err != nil {
			return nil, err
		}
		p.Imagen = url
	}
	p.ModifiedAt = s.now().UTC()
	if err := s.repo.Update(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete borra producto y modificadores en un lote; la imagen se intenta borrar después.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteWithModifiers(ctx, p); err != nil {
		return err
	}
	if p.UUID != "" {
		deleteBlobs(ctx, s.blobs, s.log, blob.ProductImagePath(p.UUIDEmpresa, p.UUID))
	}
	s.log.Info("product deleted", "uuid", p.UUID, "business", p.UUIDEmpresa)
	return nil
}
