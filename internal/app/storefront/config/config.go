package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config содержит все настройки приложения Storefront Service
// Включает конфигурацию для HTTP сервера, PostgreSQL, Redis, Kafka,
// Gemini API, Google Sheets и фоновой синхронизации каталога
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Gemini   GeminiConfig
	Sheets   SheetsConfig
	Sync     SyncConfig
	Storage  StorageConfig
	Checkout CheckoutConfig
	LogLevel string
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 8080)
}

// DatabaseConfig - настройки подключения к PostgreSQL
// В таблице perfumes хранится каталог вместе с vector-колонкой embedding
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string // Режим SSL (disable/require/verify-full)
}

// RedisConfig - настройки подключения к Redis
// Используется для кеширования списка парфюмов и хранения сессионных корзин
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int // Номер БД Redis (0-15)
}

// KafkaConfig - настройки Kafka для отправки событий каталога
// События отправляются при insert/update/delete во время синхронизации
type KafkaConfig struct {
	Brokers []string // Список брокеров Kafka (формат: host:port)
	Topic   string   // Топик для событий PERFUME_INSERTED, PERFUME_UPDATED, PERFUME_DELETED
}

// GeminiConfig - настройки клиента Generative Language API
// Один ключ обслуживает и генерацию текста, и эмбеддинги
type GeminiConfig struct {
	APIKey          string // Обязателен: без ключа чат-запросы завершаются 500
	BaseURL         string
	GenerativeModel string // Модель генерации текста (gemini-2.5-flash)
	EmbeddingModel  string // Модель эмбеддингов (text-embedding-004)
	TimeoutSec      int    // Таймаут HTTP клиента в секундах
}

// SheetsConfig - настройки источника каталога (Google Sheets)
type SheetsConfig struct {
	SpreadsheetID   string // ID таблицы-источника
	CredentialsJSON string // Содержимое service account JSON целиком в env переменной
}

// SyncConfig - настройки фоновой синхронизации каталога
type SyncConfig struct {
	Schedule string // Cron расписание (по умолчанию раз в сутки ночью)
	Secret   string // Bearer secret для ручного триггера; пустой = guard отключен
	Enabled  bool   // Выключатель cron-планировщика (для локальной разработки)
}

// StorageConfig - база публичного бакета с изображениями парфюмов
// Значение image в каталоге может быть абсолютным URL или ключом в бакете
type StorageConfig struct {
	ImageBaseURL string
}

// CheckoutConfig - передача заказа в WhatsApp deep link
type CheckoutConfig struct {
	WhatsAppNumber string
}

// Load загружает конфигурацию из переменных окружения
// Возвращает ошибку, если не удалось распарсить значения
func Load() (*Config, error) {
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
	}

	geminiTimeout, err := strconv.Atoi(getEnv("GEMINI_TIMEOUT_SEC", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid GEMINI_TIMEOUT_SEC value: %w", err)
	}

	syncEnabled, err := strconv.ParseBool(getEnv("SYNC_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_ENABLED value: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "sahara_essence"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:   getEnv("KAFKA_TOPIC", "catalog_events"),
		},
		Gemini: GeminiConfig{
			APIKey:          getEnv("GOOGLE_GENERATIVE_AI_API_KEY", ""),
			BaseURL:         getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			GenerativeModel: getEnv("GEMINI_GENERATIVE_MODEL", "gemini-2.5-flash"),
			EmbeddingModel:  getEnv("GEMINI_EMBEDDING_MODEL", "text-embedding-004"),
			TimeoutSec:      geminiTimeout,
		},
		Sheets: SheetsConfig{
			SpreadsheetID:   getEnv("GOOGLE_SHEETS_SPREADSHEET_ID", ""),
			CredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),
		},
		Sync: SyncConfig{
			Schedule: getEnv("SYNC_SCHEDULE", "0 3 * * *"),
			Secret:   getEnv("CRON_SECRET", ""),
			Enabled:  syncEnabled,
		},
		Storage: StorageConfig{
			ImageBaseURL: getEnv("STORAGE_IMAGE_BASE_URL", "https://kwtkwtvnskytohiyixmw.supabase.co/storage/v1/object/public/perfume_images"),
		},
		Checkout: CheckoutConfig{
			WhatsAppNumber: getEnv("WHATSAPP_NUMBER", "573216974038"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}, nil
}

// DSN возвращает строку подключения к PostgreSQL в формате libpq
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Address возвращает адрес сервера в формате host:port для HTTP сервера
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Address возвращает адрес Redis в формате host:port для подключения
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
