package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"saharaessence/internal/app/storefront/entity"
	"saharaessence/pkg/metrics"

	"gorm.io/gorm"
)

const (
	serviceName   = "storefront"
	perfumesTable = "perfumes"
)

type perfumeRepository struct {
	db *gorm.DB
}

// NewPerfumeRepository создает новый репозиторий каталога
func NewPerfumeRepository(db *gorm.DB) PerfumeRepository {
	return &perfumeRepository{db: db}
}

// GetByID получает парфюм по ID
func (r *perfumeRepository) GetByID(ctx context.Context, id int) (*entity.Perfume, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, perfumesTable)
	defer timer.ObserveDuration()

	var perfume entity.Perfume
	result := r.db.WithContext(ctx).First(&perfume, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPerfumeNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, result.Error
	}

	return &perfume, nil
}

// List получает каталог с опциональными фильтрами, сортировка по имени
// occasion - единственный containment-фильтр: значение ищется внутри jsonb массива
func (r *perfumeRepository) List(ctx context.Context, filter entity.CatalogFilter) ([]entity.Perfume, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, perfumesTable)
	defer timer.ObserveDuration()

	query := r.db.WithContext(ctx).Model(&entity.Perfume{})

	if filter.Gender != "" {
		query = query.Where("gender = ?", filter.Gender)
	}
	if filter.Family != "" {
		query = query.Where("family = ?", filter.Family)
	}
	if filter.Brand != "" {
		query = query.Where("brand = ?", filter.Brand)
	}
	if filter.Occasion != "" {
		query = query.Where("occasion @> ?", jsonArray(filter.Occasion))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var perfumes []entity.Perfume
	result := query.Order("name ASC").Find(&perfumes)
	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, result.Error
	}

	return perfumes, nil
}

// ListIDs получает множество идентификаторов каталога для реконсиляции
func (r *perfumeRepository) ListIDs(ctx context.Context) ([]int, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, perfumesTable)
	defer timer.ObserveDuration()

	var ids []int
	result := r.db.WithContext(ctx).Model(&entity.Perfume{}).Order("id ASC").Pluck("id", &ids)
	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, result.Error
	}
	return ids, nil
}

// ListMissingEmbedding получает парфюмы без эмбеддинга для фонового дозаполнения
func (r *perfumeRepository) ListMissingEmbedding(ctx context.Context) ([]entity.Perfume, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, perfumesTable)
	defer timer.ObserveDuration()

	var perfumes []entity.Perfume
	result := r.db.WithContext(ctx).Where("embedding IS NULL").Order("id ASC").Find(&perfumes)
	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, result.Error
	}
	return perfumes, nil
}

// Facets получает уникальные значения фильтров каталога
func (r *perfumeRepository) Facets(ctx context.Context) (*entity.FacetsResponse, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, perfumesTable)
	defer timer.ObserveDuration()

	facets := &entity.FacetsResponse{
		Brands:    []string{},
		Families:  []string{},
		Occasions: []string{},
	}

	if err := r.db.WithContext(ctx).Model(&entity.Perfume{}).
		Distinct("brand").Where("brand <> ''").Order("brand ASC").
		Pluck("brand", &facets.Brands).Error; err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, err
	}

	if err := r.db.WithContext(ctx).Model(&entity.Perfume{}).
		Distinct("family").Where("family <> ''").Order("family ASC").
		Pluck("family", &facets.Families).Error; err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, err
	}

	// occasion - jsonb массив, значения разворачиваются перед дедупликацией
	if err := r.db.WithContext(ctx).
		Raw("SELECT DISTINCT jsonb_array_elements_text(occasion) AS occasion FROM perfumes WHERE jsonb_typeof(occasion) = 'array' ORDER BY occasion ASC").
		Pluck("occasion", &facets.Occasions).Error; err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, err
	}

	return facets, nil
}

// Insert создает новую запись каталога
func (r *perfumeRepository) Insert(ctx context.Context, perfume *entity.Perfume) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, perfumesTable)
	defer timer.ObserveDuration()

	if err := r.db.WithContext(ctx).Create(perfume).Error; err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return err
	}
	return nil
}

// Update перезаписывает публичные поля записи безусловно
// embedding сознательно не трогается: вектор живет своим фоновым циклом
func (r *perfumeRepository) Update(ctx context.Context, perfume *entity.Perfume) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, perfumesTable)
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Model(&entity.Perfume{}).Where("id = ?", perfume.ID).Updates(map[string]interface{}{
		"name":          perfume.Name,
		"brand":         perfume.Brand,
		"gender":        perfume.Gender,
		"family":        perfume.Family,
		"concentration": perfume.Concentration,
		"longevity":     perfume.Longevity,
		"sillage":       perfume.Sillage,
		"notes":         perfume.Notes,
		"season":        perfume.Season,
		"occasion":      perfume.Occasion,
		"size":          perfume.Size,
		"price":         perfume.Price,
		"image":         perfume.Image,
		"description":   perfume.Description,
		"story":         perfume.Story,
	})

	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrPerfumeNotFound
	}

	return nil
}

// UpdateEmbedding сохраняет сгенерированный вектор
func (r *perfumeRepository) UpdateEmbedding(ctx context.Context, id int, embedding entity.Vector) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, perfumesTable)
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Model(&entity.Perfume{}).Where("id = ?", id).Update("embedding", embedding)

	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrPerfumeNotFound
	}

	return nil
}

// DeleteByIDs удаляет записи одним батчем по вычисленному множеству id
func (r *perfumeRepository) DeleteByIDs(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, perfumesTable)
	defer timer.ObserveDuration()

	if err := r.db.WithContext(ctx).Delete(&entity.Perfume{}, "id IN ?", ids).Error; err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpDelete)
		return err
	}
	return nil
}

// SearchSimilar выполняет векторный поиск с фильтрами одним SQL запросом
// Порядок выдачи определяет только оператор <=> (cosine distance),
// на стороне приложения пересортировки нет
func (r *perfumeRepository) SearchSimilar(ctx context.Context, query entity.Vector, prefs entity.Preferences, limit int) ([]entity.RecommendedPerfume, error) {
	if len(query) == 0 {
		return nil, fmt.Errorf("empty query vector")
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, perfumesTable)
	defer timer.ObserveDuration()

	var sb strings.Builder
	args := []interface{}{query.String()}

	sb.WriteString("SELECT *, 1 - (embedding <=> ?::vector) AS similarity FROM perfumes WHERE embedding IS NOT NULL")

	if prefs.Gender != nil {
		sb.WriteString(" AND LOWER(gender) = LOWER(?)")
		args = append(args, *prefs.Gender)
	}
	if prefs.Family != nil {
		sb.WriteString(" AND LOWER(family) = LOWER(?)")
		args = append(args, *prefs.Family)
	}
	if prefs.Concentration != nil {
		sb.WriteString(" AND LOWER(concentration) = LOWER(?)")
		args = append(args, *prefs.Concentration)
	}
	if prefs.Occasion != nil {
		sb.WriteString(" AND occasion @> ?")
		args = append(args, jsonArray(*prefs.Occasion))
	}
	if prefs.Season != nil {
		sb.WriteString(" AND season @> ?")
		args = append(args, jsonArray(*prefs.Season))
	}

	sb.WriteString(" ORDER BY embedding <=> ?::vector LIMIT ?")
	args = append(args, query.String(), limit)

	var matches []entity.RecommendedPerfume
	result := r.db.WithContext(ctx).Raw(sb.String(), args...).Scan(&matches)
	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, result.Error
	}

	return matches, nil
}

// jsonArray упаковывает одно значение в jsonb массив для containment-фильтра
func jsonArray(value string) string {
	data, _ := json.Marshal([]string{value})
	return string(data)
}
