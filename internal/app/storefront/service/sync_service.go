package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"saharaessence/internal/app/storefront/entity"
	"saharaessence/internal/app/storefront/repository"
	"saharaessence/internal/app/storefront/util"
	"saharaessence/pkg/logger"
	"saharaessence/pkg/metrics"
)

// Пауза между вызовами эмбеддингов при backfill, защита от rate limit
const embeddingBackfillPause = 500 * time.Millisecond

// SyncService приводит таблицу perfumes в состояние таблицы-источника:
// вставляет новые строки, безусловно обновляет существующие и удаляет
// отсутствующие. Источник всегда прав
type SyncService struct {
	perfumeRepo repository.PerfumeRepository
	source      util.SheetSource
	embedder    util.TextEmbedder
	publisher   util.MessagePublisher
	cache       util.PerfumeCache
	kafkaTopic  string
}

func NewSyncService(
	perfumeRepo repository.PerfumeRepository,
	source util.SheetSource,
	embedder util.TextEmbedder,
	publisher util.MessagePublisher,
	cache util.PerfumeCache,
	kafkaTopic string,
) *SyncService {
	return &SyncService{
		perfumeRepo: perfumeRepo,
		source:      source,
		embedder:    embedder,
		publisher:   publisher,
		cache:       cache,
		kafkaTopic:  kafkaTopic,
	}
}

// Run выполняет полный прогон синхронизации: чтение источника и сверка с базой
func (s *SyncService) Run(ctx context.Context) (*entity.SyncStats, error) {
	start := time.Now()

	rows, err := s.ReadSource(ctx)
	if err != nil {
		metrics.RecordSyncRun(serviceName, "error", time.Since(start))
		return nil, err
	}

	stats, err := s.Reconcile(ctx, rows)
	if err != nil {
		metrics.RecordSyncRun(serviceName, "error", time.Since(start))
		return nil, err
	}

	metrics.RecordSyncRun(serviceName, "success", time.Since(start))
	logger.Info().
		Int("inserted", stats.Inserted).
		Int("updated", stats.Updated).
		Int("deleted", stats.Deleted).
		Int("total", stats.Total).
		Msg("catalog sync completed")

	return stats, nil
}

// columnSetter применяет значение одной ячейки к записи
// Пустая ячейка проходит через setter как есть: умолчания setter ставит сам
type columnSetter func(row *entity.SheetRow, value string)

// Явная карта колонок источника; заголовки сверяются без учета регистра
// Неизвестные колонки молча игнорируются
var sheetColumns = map[string]columnSetter{
	"id":   func(r *entity.SheetRow, v string) { r.ID = parseIntCell(v) },
	"name": func(r *entity.SheetRow, v string) { r.Name = v },
	"brand": func(r *entity.SheetRow, v string) {
		r.Brand = v
	},
	"gender": func(r *entity.SheetRow, v string) {
		r.Gender = stringOr(v, "Unisex")
	},
	"family": func(r *entity.SheetRow, v string) {
		r.Family = stringOr(v, "Sin clasificar")
	},
	"notes": func(r *entity.SheetRow, v string) {
		r.Notes = entity.ParseNotesText(v)
	},
	"size": func(r *entity.SheetRow, v string) {
		r.Size = stringOr(v, "100ml")
	},
	"price": func(r *entity.SheetRow, v string) { r.Price = parseFloatCell(v) },
	"image": func(r *entity.SheetRow, v string) {
		r.Image = stringOr(v, "/placeholder.jpg")
	},
	"description":   func(r *entity.SheetRow, v string) { r.Description = v },
	"story":         func(r *entity.SheetRow, v string) { r.Story = v },
	"concentration": func(r *entity.SheetRow, v string) { r.Concentration = v },
	"longevity":     func(r *entity.SheetRow, v string) { r.Longevity = v },
	"sillage":       func(r *entity.SheetRow, v string) { r.Sillage = v },
	"season": func(r *entity.SheetRow, v string) {
		r.Season = entity.ParseTagSet(v)
	},
	"occasion": func(r *entity.SheetRow, v string) {
		r.Occasion = entity.ParseTagSet(v)
	},

	// Внутренние денежные колонки: читаются, но в каталог не попадают
	"precio_costo":       func(r *entity.SheetRow, v string) { r.PrecioCosto = parseFloatCell(v) },
	"precio_pagina":      func(r *entity.SheetRow, v string) { r.PrecioPagina = parseFloatCell(v) },
	"envio":              func(r *entity.SheetRow, v string) { r.Envio = parseFloatCell(v) },
	"empaque":            func(r *entity.SheetRow, v string) { r.Empaque = parseFloatCell(v) },
	"costo_total_real":   func(r *entity.SheetRow, v string) { r.CostoTotalReal = parseFloatCell(v) },
	"ganancia_marca":     func(r *entity.SheetRow, v string) { r.GananciaMarca = parseFloatCell(v) },
	"comision_vendedor":  func(r *entity.SheetRow, v string) { r.ComisionVendedor = parseFloatCell(v) },
	"marketing":          func(r *entity.SheetRow, v string) { r.Marketing = parseFloatCell(v) },
	"precio_recomendado": func(r *entity.SheetRow, v string) { r.PrecioRecomendado = parseFloatCell(v) },
}

// ReadSource читает таблицу-источник и превращает строки грида в записи
// Строки без id или name отбрасываются молча: это черновики оператора
func (s *SyncService) ReadSource(ctx context.Context) ([]entity.SheetRow, error) {
	grid, err := s.source.ReadGrid(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	if len(grid) == 0 {
		logger.Warn().Msg("sheet is empty")
		return []entity.SheetRow{}, nil
	}

	headers := grid[0]
	rows := make([]entity.SheetRow, 0, len(grid)-1)

	for _, cells := range grid[1:] {
		var row entity.SheetRow
		for i, header := range headers {
			setter, ok := sheetColumns[strings.ToLower(header)]
			if !ok {
				continue
			}
			value := ""
			if i < len(cells) {
				value = strings.TrimSpace(cells[i])
			}
			setter(&row, value)
		}

		if row.ID == 0 || row.Name == "" {
			continue
		}
		rows = append(rows, row)
	}

	logger.Info().Int("rows", len(rows)).Msg("sheet source read")
	return rows, nil
}

// Reconcile сверяет записи источника с таблицей perfumes
// Ошибка одной строки логируется и не прерывает прогон; фатальны только
// чтение списка id и сама выдача источника
func (s *SyncService) Reconcile(ctx context.Context, rows []entity.SheetRow) (*entity.SyncStats, error) {
	existingIDs, err := s.perfumeRepo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing perfumes: %w", err)
	}

	existing := make(map[int]bool, len(existingIDs))
	for _, id := range existingIDs {
		existing[id] = true
	}
	inSheet := make(map[int]bool, len(rows))

	stats := &entity.SyncStats{Total: len(rows)}

	for _, row := range rows {
		inSheet[row.ID] = true
		perfume := row.ToPerfume()

		if existing[row.ID] {
			// Существующие обновляются безусловно: сравнение с базой дороже записи
			if err := s.perfumeRepo.Update(ctx, &perfume); err != nil {
				metrics.RecordSyncRecord(serviceName, "failed")
				logger.Error().Err(err).Int("perfume_id", row.ID).Msg("failed to update perfume")
				continue
			}
			stats.Updated++
			metrics.RecordSyncRecord(serviceName, "updated")
			s.publishEvent(ctx, "PERFUME_UPDATED", perfume.ID, perfume.Name)
		} else {
			if err := s.perfumeRepo.Insert(ctx, &perfume); err != nil {
				metrics.RecordSyncRecord(serviceName, "failed")
				logger.Error().Err(err).Int("perfume_id", row.ID).Msg("failed to insert perfume")
				continue
			}
			stats.Inserted++
			metrics.RecordSyncRecord(serviceName, "inserted")
			s.publishEvent(ctx, "PERFUME_INSERTED", perfume.ID, perfume.Name)
		}
	}

	var toDelete []int
	for _, id := range existingIDs {
		if !inSheet[id] {
			toDelete = append(toDelete, id)
		}
	}

	if len(toDelete) > 0 {
		if err := s.perfumeRepo.DeleteByIDs(ctx, toDelete); err != nil {
			logger.Error().Err(err).Ints("ids", toDelete).Msg("failed to delete stale perfumes")
		} else {
			stats.Deleted = len(toDelete)
			for _, id := range toDelete {
				metrics.RecordSyncRecord(serviceName, "deleted")
				s.publishEvent(ctx, "PERFUME_DELETED", id, "")
			}
		}
	}

	if err := s.cache.InvalidatePerfumeList(ctx); err != nil {
		metrics.RecordRedisError(serviceName, "del")
		logger.Warn().Err(err).Msg("failed to invalidate perfume cache")
	}

	return stats, nil
}

// BackfillEmbeddings генерирует эмбеддинги для строк, где их еще нет
// Сбой одной строки не прерывает прогон; повторов нет, строка
// попадет в следующий прогон
func (s *SyncService) BackfillEmbeddings(ctx context.Context) (*entity.BackfillStats, error) {
	perfumes, err := s.perfumeRepo.ListMissingEmbedding(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list perfumes without embedding: %w", err)
	}

	stats := &entity.BackfillStats{Processed: len(perfumes)}

	for i, perfume := range perfumes {
		vector, err := s.embedder.EmbedText(ctx, embeddingText(perfume))
		if err != nil {
			metrics.RecordGeminiError(serviceName, "embed")
			logger.Error().Err(err).Int("perfume_id", perfume.ID).Msg("failed to embed perfume")
			stats.Failed++
			continue
		}

		if err := s.perfumeRepo.UpdateEmbedding(ctx, perfume.ID, vector); err != nil {
			logger.Error().Err(err).Int("perfume_id", perfume.ID).Msg("failed to store embedding")
			stats.Failed++
			continue
		}
		stats.Updated++

		if i < len(perfumes)-1 {
			select {
			case <-time.After(embeddingBackfillPause):
			case <-ctx.Done():
				return stats, ctx.Err()
			}
		}
	}

	logger.Info().
		Int("processed", stats.Processed).
		Int("updated", stats.Updated).
		Int("failed", stats.Failed).
		Msg("embedding backfill completed")

	return stats, nil
}

// publishEvent отправляет событие каталога best-effort: сбой очереди
// не должен ломать синхронизацию
func (s *SyncService) publishEvent(ctx context.Context, eventType string, perfumeID int, name string) {
	if s.publisher == nil {
		return
	}

	event := entity.CatalogEvent{
		EventType: eventType,
		PerfumeID: perfumeID,
		Name:      name,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("failed to marshal catalog event")
		return
	}

	if err := s.publisher.PublishMessage(ctx, strconv.Itoa(perfumeID), data); err != nil {
		metrics.RecordKafkaError(serviceName, s.kafkaTopic, "write")
		logger.Error().Err(err).Int("perfume_id", perfumeID).Msg("failed to publish catalog event")
		return
	}

	metrics.RecordKafkaMessageProduced(serviceName, s.kafkaTopic)
}

func parseIntCell(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return n
}

func parseFloatCell(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}

func stringOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
