package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"marketplace-admin/internal/model"
	"marketplace-admin/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, f repository.OrderFilter) ([]*model.Order, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateFields(ctx context.Context, id string, version int64, set bson.M) error {
	args := m.Called(ctx, id, version, set)
	return args.Error(0)
}

func (m *MockOrderRepository) Watch(ctx context.Context, id string) (<-chan *model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan *model.Order), args.Error(1)
}

type MockDriverDirectory struct {
	mock.Mock
}

func (m *MockDriverDirectory) ListAvailableDrivers(ctx context.Context, city string) ([]*model.User, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

type MockProductSearcher struct {
	mock.Mock
}

func (m *MockProductSearcher) SearchByNamePrefix(ctx context.Context, uuidEmpresa, prefix string, limit int64) ([]*model.Product, error) {
	args := m.Called(ctx, uuidEmpresa, prefix, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Product), args.Error(1)
}

func (m *MockProductSearcher) SearchByKeyword(ctx context.Context, uuidEmpresa, keyword string, limit int64) ([]*model.Product, error) {
	args := m.Called(ctx, uuidEmpresa, keyword, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Product), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Enqueue(ctx context.Context, n model.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Upload(ctx context.Context, path, contentType string, r io.Reader) (string, error) {
	args := m.Called(ctx, path, contentType, r)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) Delete(ctx context.Context, pathOrURL string) error {
	args := m.Called(ctx, pathOrURL)
	return args.Error(0)
}
