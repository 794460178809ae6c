package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"saharaessence/internal/app/storefront/config"
	"saharaessence/internal/app/storefront/handler"
	"saharaessence/internal/app/storefront/processor"
	"saharaessence/internal/app/storefront/repository"
	"saharaessence/internal/app/storefront/service"
	"saharaessence/internal/app/storefront/util"
	"saharaessence/pkg/logger"
)

func main() {
	// .env нужен только в локальной разработке, в проде переменные приходят из окружения
	_ = godotenv.Load()

	// === ИНИЦИАЛИЗАЦИЯ КОНФИГУРАЦИИ ===
	cfg, err := config.Load()
	if err != nil {
		logger.Init("storefront", "info")
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Init("storefront", cfg.LogLevel)

	// === ПОДКЛЮЧЕНИЕ К POSTGRESQL ===
	// В таблице perfumes живет каталог вместе с pgvector-колонкой embedding
	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().Msg("Successfully connected to PostgreSQL")

	// === ПОДКЛЮЧЕНИЕ К REDIS ===
	// Redis держит кеш списка каталога и сессионные корзины
	redisClient, err := util.NewRedisClient(
		cfg.Redis.Address(),
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Msg("Successfully connected to Redis")

	// === ИНИЦИАЛИЗАЦИЯ KAFKA PRODUCER ===
	// События PERFUME_INSERTED/UPDATED/DELETED уходят в топик catalog_events
	kafkaProducer := util.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().Msg("Successfully initialized Kafka producer")

	// === ВНЕШНИЕ КЛИЕНТЫ ===
	geminiClient, err := util.NewGeminiClient(
		cfg.Gemini.APIKey,
		cfg.Gemini.BaseURL,
		cfg.Gemini.GenerativeModel,
		cfg.Gemini.EmbeddingModel,
		cfg.Gemini.TimeoutSec,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize Gemini client")
	}

	sheetsClient, err := util.NewSheetsClient(
		context.Background(),
		cfg.Sheets.SpreadsheetID,
		cfg.Sheets.CredentialsJSON,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize Google Sheets client")
	}

	// === ИНИЦИАЛИЗАЦИЯ СЛОЯ РЕПОЗИТОРИЕВ ===
	perfumeRepo := repository.NewPerfumeRepository(db)

	// === ИНИЦИАЛИЗАЦИЯ БИЗНЕС-ЛОГИКИ ===
	recommendationService := service.NewRecommendationService(
		perfumeRepo,
		geminiClient,
		geminiClient,
		cfg.Storage.ImageBaseURL,
	)
	catalogService := service.NewCatalogService(perfumeRepo, redisClient, cfg.Storage.ImageBaseURL)
	cartService := service.NewCartService(perfumeRepo, redisClient, cfg.Checkout.WhatsAppNumber, cfg.Storage.ImageBaseURL)
	syncService := service.NewSyncService(
		perfumeRepo,
		sheetsClient,
		geminiClient,
		kafkaProducer,
		redisClient,
		cfg.Kafka.Topic,
	)

	// === ИНИЦИАЛИЗАЦИЯ HTTP HANDLERS ===
	chatHandler := handler.NewChatHandler(recommendationService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	cartHandler := handler.NewCartHandler(cartService)
	syncHandler := handler.NewSyncHandler(syncService)
	syncAuth := handler.NewSyncAuthMiddleware(cfg.Sync.Secret)

	// === НАСТРОЙКА МАРШРУТОВ ===
	router := handler.SetupRoutes(chatHandler, catalogHandler, cartHandler, syncHandler, syncAuth)

	// === CRON ПЛАНИРОВЩИК СИНХРОНИЗАЦИИ ===
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	defer schedulerCancel()

	scheduler := processor.NewCronScheduler(syncService)
	if cfg.Sync.Enabled {
		if err := scheduler.Start(schedulerCtx, cfg.Sync.Schedule); err != nil {
			logger.Fatal().Err(err).Msg("Failed to start sync scheduler")
		}
	} else {
		logger.Info().Msg("Sync scheduler disabled by config")
	}

	// === НАСТРОЙКА HTTP СЕРВЕРА ===
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		// Чат-пайплайн делает до пяти вызовов модели за ход,
		// поэтому запас на запись больше обычного
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// === ЗАПУСК HTTP СЕРВЕРА ===
	go func() {
		logger.Info().Str("address", cfg.Server.Address()).Msg("Starting Storefront Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// === GRACEFUL SHUTDOWN ===
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Storefront Service...")

	if cfg.Sync.Enabled {
		scheduler.Stop()
	}
	schedulerCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Storefront Service stopped gracefully")
}

// connectDB открывает GORM-соединение с PostgreSQL
// Повторные попытки нужны при запуске в Docker, когда база стартует дольше сервиса
func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err == nil {
			return db, nil
		}
		logger.Warn().Err(err).Int("attempt", i+1).Msg("Database not ready, retrying")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}
