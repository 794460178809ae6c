package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP Метрики
// =============================================================================

// HttpRequestsTotal - счётчик всех HTTP запросов
// Labels: service, method, path, status
// Пример запроса PromQL: rate(http_requests_total{service="storefront"}[5m])
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

// HttpRequestDuration - гистограмма времени ответа
// Пример: histogram_quantile(0.95, rate(http_request_duration_seconds_bucket[5m]))
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "http_request_duration_seconds",
		Help: "Duration of HTTP requests in seconds",
		// Чат ходит в Gemini, поэтому хвост бакетов длиннее обычного: до 30s
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	},
	[]string{"service", "method", "path"},
)

// HttpRequestsInFlight - текущее количество обрабатываемых запросов
var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// Метрики чат-пайплайна
// =============================================================================

// ChatStageDuration - время выполнения стадий пайплайна рекомендаций
// stage: extract, embed, search, explain, compose, fallback
var ChatStageDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "chat_stage_duration_seconds",
		Help:    "Duration of recommendation pipeline stages in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	},
	[]string{"service", "stage"},
)

// ChatTurnsTotal - исходы чат-запросов
// outcome: recommended, zero_results, fatal
var ChatTurnsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "chat_turns_total",
		Help: "Total number of chat turns by outcome",
	},
	[]string{"service", "outcome"},
)

// GeminiErrors - ошибки вызовов Generative Language API
// operation: generate, embed
var GeminiErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gemini_errors_total",
		Help: "Total number of Gemini API call errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Метрики синхронизации каталога
// =============================================================================

// SyncRunsTotal - запуски синхронизации по результату (success/failure)
var SyncRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_sync_runs_total",
		Help: "Total number of catalog sync runs",
	},
	[]string{"service", "result"},
)

// SyncRecordsTotal - обработанные записи по исходу (inserted/updated/deleted/failed)
var SyncRecordsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_sync_records_total",
		Help: "Total number of catalog records processed by outcome",
	},
	[]string{"service", "outcome"},
)

// SyncDuration - длительность полного прогона синхронизации
var SyncDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "catalog_sync_duration_seconds",
		Help:    "Duration of a full catalog sync run in seconds",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
	},
	[]string{"service"},
)

// =============================================================================
// Database Метрики
// =============================================================================

// DbQueryDuration - время выполнения SQL запросов
var DbQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"service", "operation", "table"},
)

// DbErrors - счётчик ошибок базы данных
var DbErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_errors_total",
		Help: "Total number of database errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Redis Метрики
// =============================================================================

// RedisCacheHits - попадания в кеш
var RedisCacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_hits_total",
		Help: "Total number of Redis cache hits",
	},
	[]string{"service", "key_prefix"},
)

// RedisCacheMisses - промахи кеша
var RedisCacheMisses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_misses_total",
		Help: "Total number of Redis cache misses",
	},
	[]string{"service", "key_prefix"},
)

// RedisErrors - ошибки Redis
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Kafka Метрики
// =============================================================================

// KafkaMessagesProduced - отправленные сообщения
var KafkaMessagesProduced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_produced_total",
		Help: "Total number of Kafka messages produced",
	},
	[]string{"service", "topic"},
)

// KafkaErrors - ошибки отправки в Kafka
var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"service", "topic", "operation"},
)
