package service

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-admin/internal/model"
	"marketplace-admin/internal/repository"
)

type MockBusinessRepository struct {
	mock.Mock
}

func (m *MockBusinessRepository) List(ctx context.Context) ([]*model.Business, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*model.Business), args.Error(1)
}

func (m *MockBusinessRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBusinessRepository) FindByID(ctx context.Context, id string) (*model.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Business), args.Error(1)
}

func (m *MockBusinessRepository) FindByUUID(ctx context.Context, uuid string) (*model.Business, error) {
	args := m.Called(ctx, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Business), args.Error(1)
}

func (m *MockBusinessRepository) FindShippingConfig(ctx context.Context, b *model.Business) (*model.ShippingConfig, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShippingConfig), args.Error(1)
}

func (m *MockBusinessRepository) Create(ctx context.Context, b *model.Business, cfg *model.ShippingConfig) error {
	return m.Called(ctx, b, cfg).Error(0)
}

func (m *MockBusinessRepository) Update(ctx context.Context, b *model.Business, cfg *model.ShippingConfig) error {
	return m.Called(ctx, b, cfg).Error(0)
}

func (m *MockBusinessRepository) Delete(ctx context.Context, b *model.Business) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBusinessRepository) UpdatePositions(ctx context.Context, updates []repository.PositionUpdate) error {
	return m.Called(ctx, updates).Error(0)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) ListByBusiness(ctx context.Context, uuidEmpresa string) ([]*model.Category, error) {
	args := m.Called(ctx, uuidEmpresa)
	return args.Get(0).([]*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, c *model.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, c *model.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, c *model.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCategoryRepository) UpdatePositions(ctx context.Context, updates []repository.PositionUpdate) error {
	return m.Called(ctx, updates).Error(0)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) ListByBusiness(ctx context.Context, uuidEmpresa, category string) ([]*model.Product, error) {
	args := m.Called(ctx, uuidEmpresa, category)
	return args.Get(0).([]*model.Product), args.Error(1)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, p *model.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, p *model.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) SetImage(ctx context.Context, id primitive.ObjectID, url string) error {
	return m.Called(ctx, id, url).Error(0)
}

func (m *MockProductRepository) DeleteWithModifiers(ctx context.Context, p *model.Product) error {
	return m.Called(ctx, p).Error(0)
}

type MockModifierRepository struct {
	mock.Mock
}

func (m *MockModifierRepository) ListByProduct(ctx context.Context, productUUID string) ([]*model.ModifierGroup, error) {
	args := m.Called(ctx, productUUID)
	return args.Get(0).([]*model.ModifierGroup), args.Error(1)
}

func (m *MockModifierRepository) FindByID(ctx context.Context, id string) (*model.ModifierGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ModifierGroup), args.Error(1)
}

func (m *MockModifierRepository) Create(ctx context.Context, g *model.ModifierGroup) error {
	return m.Called(ctx, g).Error(0)
}

func (m *MockModifierRepository) Update(ctx context.Context, g *model.ModifierGroup) error {
	return m.Called(ctx, g).Error(0)
}

func (m *MockModifierRepository) Delete(ctx context.Context, g *model.ModifierGroup) error {
	return m.Called(ctx, g).Error(0)
}

type MockMarketplaceRepository struct {
	mock.Mock
}

func (m *MockMarketplaceRepository) List(ctx context.Context) ([]*model.MarketplaceCategory, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*model.MarketplaceCategory), args.Error(1)
}

func (m *MockMarketplaceRepository) FindByID(ctx context.Context, id string) (*model.MarketplaceCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MarketplaceCategory), args.Error(1)
}

func (m *MockMarketplaceRepository) Create(ctx context.Context, c *model.MarketplaceCategory) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockMarketplaceRepository) Update(ctx context.Context, c *model.MarketplaceCategory) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockMarketplaceRepository) Delete(ctx context.Context, c *model.MarketplaceCategory) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockMarketplaceRepository) UpdatePositions(ctx context.Context, updates []repository.PositionUpdate) error {
	return m.Called(ctx, updates).Error(0)
}
