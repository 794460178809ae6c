package processor

import (
	"context"

	"saharaessence/internal/app/storefront/service"
	"saharaessence/pkg/logger"

	"github.com/robfig/cron/v3"
)

// CronScheduler запускает синхронизацию каталога по расписанию
// После каждого прогона синхронизации идет backfill эмбеддингов:
// новые строки попадают в векторный поиск без ручного триггера
type CronScheduler struct {
	cron    *cron.Cron
	syncSvc service.SyncServiceInterface
}

func NewCronScheduler(syncSvc service.SyncServiceInterface) *CronScheduler {
	return &CronScheduler{
		cron:    cron.New(),
		syncSvc: syncSvc,
	}
}

// Start регистрирует задачу и запускает планировщик
// Ошибка прогона логируется, следующий запуск идет по расписанию
func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("starting sync scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info().Msg("sync scheduler started")

	return nil
}

// runOnce выполняет один прогон: синхронизация, затем backfill
// Сбой синхронизации не отменяет backfill: эмбеддинги могли
// отсутствовать и у строк прошлых прогонов
func (s *CronScheduler) runOnce(ctx context.Context) {
	logger.Info().Msg("scheduled catalog sync triggered")

	if _, err := s.syncSvc.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("scheduled catalog sync failed")
	}

	if _, err := s.syncSvc.BackfillEmbeddings(ctx); err != nil {
		logger.Error().Err(err).Msg("scheduled embedding backfill failed")
	}
}

// Stop останавливает планировщик и дожидается завершения текущей задачи
func (s *CronScheduler) Stop() {
	logger.Info().Msg("stopping sync scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("sync scheduler stopped")
}

// GetEntries возвращает зарегистрированные задачи планировщика
func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
