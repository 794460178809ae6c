package mocks

import (
	"context"
	"time"

	"saharaessence/internal/app/storefront/entity"

	"github.com/stretchr/testify/mock"
)

// MockPerfumeRepository мок для PerfumeRepository
type MockPerfumeRepository struct {
	mock.Mock
}

func (m *MockPerfumeRepository) GetByID(ctx context.Context, id int) (*entity.Perfume, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Perfume), args.Error(1)
}

func (m *MockPerfumeRepository) List(ctx context.Context, filter entity.CatalogFilter) ([]entity.Perfume, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Perfume), args.Error(1)
}

func (m *MockPerfumeRepository) ListIDs(ctx context.Context) ([]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockPerfumeRepository) ListMissingEmbedding(ctx context.Context) ([]entity.Perfume, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Perfume), args.Error(1)
}

func (m *MockPerfumeRepository) Facets(ctx context.Context) (*entity.FacetsResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FacetsResponse), args.Error(1)
}

func (m *MockPerfumeRepository) Insert(ctx context.Context, perfume *entity.Perfume) error {
	args := m.Called(ctx, perfume)
	return args.Error(0)
}

func (m *MockPerfumeRepository) Update(ctx context.Context, perfume *entity.Perfume) error {
	args := m.Called(ctx, perfume)
	return args.Error(0)
}

func (m *MockPerfumeRepository) UpdateEmbedding(ctx context.Context, id int, embedding entity.Vector) error {
	args := m.Called(ctx, id, embedding)
	return args.Error(0)
}

func (m *MockPerfumeRepository) DeleteByIDs(ctx context.Context, ids []int) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockPerfumeRepository) SearchSimilar(ctx context.Context, query entity.Vector, prefs entity.Preferences, limit int) ([]entity.RecommendedPerfume, error) {
	args := m.Called(ctx, query, prefs, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RecommendedPerfume), args.Error(1)
}

// MockTextGenerator мок для util.TextGenerator
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockTextEmbedder мок для util.TextEmbedder
type MockTextEmbedder struct {
	mock.Mock
}

func (m *MockTextEmbedder) EmbedText(ctx context.Context, text string) (entity.Vector, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.Vector), args.Error(1)
}

// MockSheetSource мок для util.SheetSource
type MockSheetSource struct {
	mock.Mock
}

func (m *MockSheetSource) ReadGrid(ctx context.Context) ([][]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]string), args.Error(1)
}

// MockPerfumeCache мок для util.PerfumeCache
type MockPerfumeCache struct {
	mock.Mock
}

func (m *MockPerfumeCache) GetPerfumeList(ctx context.Context) ([]entity.Perfume, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Perfume), args.Error(1)
}

func (m *MockPerfumeCache) SetPerfumeList(ctx context.Context, perfumes []entity.Perfume, ttl time.Duration) error {
	args := m.Called(ctx, perfumes, ttl)
	return args.Error(0)
}

func (m *MockPerfumeCache) InvalidatePerfumeList(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockCartStore мок для util.CartStore
type MockCartStore struct {
	mock.Mock
}

func (m *MockCartStore) GetCart(ctx context.Context, sessionID string) (*entity.Cart, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Cart), args.Error(1)
}

func (m *MockCartStore) SaveCart(ctx context.Context, sessionID string, cart *entity.Cart) error {
	args := m.Called(ctx, sessionID, cart)
	return args.Error(0)
}

func (m *MockCartStore) DeleteCart(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// MockMessagePublisher мок для util.MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockSyncService мок для service.SyncServiceInterface
type MockSyncService struct {
	mock.Mock
}

func (m *MockSyncService) Run(ctx context.Context) (*entity.SyncStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SyncStats), args.Error(1)
}

func (m *MockSyncService) BackfillEmbeddings(ctx context.Context) (*entity.BackfillStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BackfillStats), args.Error(1)
}
