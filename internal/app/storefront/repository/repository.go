package repository

import (
	"context"
	"errors"

	"saharaessence/internal/app/storefront/entity"
)

var (
	ErrPerfumeNotFound = errors.New("perfume not found")
)

// PerfumeRepository отвечает за работу с таблицей perfumes в PostgreSQL,
// включая семантический поиск по vector-колонке embedding
type PerfumeRepository interface {
	GetByID(ctx context.Context, id int) (*entity.Perfume, error)
	List(ctx context.Context, filter entity.CatalogFilter) ([]entity.Perfume, error)
	ListIDs(ctx context.Context) ([]int, error)
	ListMissingEmbedding(ctx context.Context) ([]entity.Perfume, error)
	Facets(ctx context.Context) (*entity.FacetsResponse, error)

	Insert(ctx context.Context, perfume *entity.Perfume) error
	Update(ctx context.Context, perfume *entity.Perfume) error
	UpdateEmbedding(ctx context.Context, id int, embedding entity.Vector) error
	DeleteByIDs(ctx context.Context, ids []int) error

	// SearchSimilar ранжирует каталог по близости embedding к запросу
	// Ненулевые предпочтения применяются как жесткие фильтры внутри того же запроса
	SearchSimilar(ctx context.Context, query entity.Vector, prefs entity.Preferences, limit int) ([]entity.RecommendedPerfume, error)
}
