package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"saharaessence/internal/app/storefront/entity"
	"saharaessence/internal/app/storefront/repository"
	"saharaessence/internal/app/storefront/util"
	"saharaessence/pkg/logger"
	"saharaessence/pkg/metrics"
)

var (
	ErrPerfumeNotFound = errors.New("perfume not found")
)

// Кеш полного списка живет недолго: синхронизация инвалидирует его явно,
// TTL прикрывает только прямые правки базы мимо синка
const perfumeListCacheTTL = 10 * time.Minute

// CatalogService - чтение каталога с кешированием полного списка в Redis
type CatalogService struct {
	perfumeRepo  repository.PerfumeRepository
	cache        util.PerfumeCache
	imageBaseURL string
}

func NewCatalogService(perfumeRepo repository.PerfumeRepository, cache util.PerfumeCache, imageBaseURL string) *CatalogService {
	return &CatalogService{
		perfumeRepo:  perfumeRepo,
		cache:        cache,
		imageBaseURL: imageBaseURL,
	}
}

// ListPerfumes возвращает каталог с опциональными фильтрами
// Кешируется только нефильтрованный полный список - это запрос витрины,
// фильтрованные выборки дешевы и идут мимо кеша
func (s *CatalogService) ListPerfumes(ctx context.Context, filter entity.CatalogFilter) ([]entity.Perfume, error) {
	filter = normalizeFilter(filter)

	if isUnfiltered(filter) {
		cached, err := s.cache.GetPerfumeList(ctx)
		if err != nil {
			metrics.RecordRedisError(serviceName, "get")
			logger.Warn().Err(err).Msg("perfume cache read failed, falling back to database")
		} else if cached != nil {
			metrics.RecordCacheHit(serviceName, "perfumes")
			return cached, nil
		} else {
			metrics.RecordCacheMiss(serviceName, "perfumes")
		}
	}

	perfumes, err := s.perfumeRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list perfumes: %w", err)
	}

	for i := range perfumes {
		perfumes[i].Image = entity.ResolveImageURL(perfumes[i].Image, s.imageBaseURL)
	}

	if isUnfiltered(filter) {
		if err := s.cache.SetPerfumeList(ctx, perfumes, perfumeListCacheTTL); err != nil {
			metrics.RecordRedisError(serviceName, "set")
			logger.Warn().Err(err).Msg("perfume cache write failed")
		}
	}

	return perfumes, nil
}

// GetPerfume возвращает один товар каталога
func (s *CatalogService) GetPerfume(ctx context.Context, id int) (*entity.Perfume, error) {
	perfume, err := s.perfumeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPerfumeNotFound) {
			return nil, ErrPerfumeNotFound
		}
		return nil, fmt.Errorf("failed to get perfume: %w", err)
	}

	perfume.Image = entity.ResolveImageURL(perfume.Image, s.imageBaseURL)
	return perfume, nil
}

// GetFacets возвращает уникальные значения фильтров каталога
func (s *CatalogService) GetFacets(ctx context.Context) (*entity.FacetsResponse, error) {
	facets, err := s.perfumeRepo.Facets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get facets: %w", err)
	}
	return facets, nil
}

// normalizeFilter срезает сентинелы "Todos"/"Todas" UI каталога
func normalizeFilter(filter entity.CatalogFilter) entity.CatalogFilter {
	if filter.Gender == "Todos" {
		filter.Gender = ""
	}
	if filter.Family == "Todas" {
		filter.Family = ""
	}
	if filter.Occasion == "Todas" {
		filter.Occasion = ""
	}
	if filter.Brand == "Todas" {
		filter.Brand = ""
	}
	return filter
}

func isUnfiltered(filter entity.CatalogFilter) bool {
	return filter.Gender == "" && filter.Family == "" && filter.Occasion == "" && filter.Brand == "" && filter.Limit == 0
}
