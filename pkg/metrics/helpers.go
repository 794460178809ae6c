package metrics

import (
	"time"
)

type DbOperation string

const (
	DbOpSelect DbOperation = "select"
	DbOpInsert DbOperation = "insert"
	DbOpUpdate DbOperation = "update"
	DbOpDelete DbOperation = "delete"
)

type DbTimer struct {
	service   string
	operation DbOperation
	table     string
	start     time.Time
}

func NewDbTimer(service string, op DbOperation, table string) *DbTimer {
	return &DbTimer{
		service:   service,
		operation: op,
		table:     table,
		start:     time.Now(),
	}
}

func (dt *DbTimer) ObserveDuration() {
	duration := time.Since(dt.start).Seconds()
	DbQueryDuration.WithLabelValues(dt.service, string(dt.operation), dt.table).Observe(duration)
}

func RecordDbError(service string, op DbOperation) {
	DbErrors.WithLabelValues(service, string(op)).Inc()
}

func RecordCacheHit(service, keyPrefix string) {
	RedisCacheHits.WithLabelValues(service, keyPrefix).Inc()
}

func RecordCacheMiss(service, keyPrefix string) {
	RedisCacheMisses.WithLabelValues(service, keyPrefix).Inc()
}

func RecordRedisError(service, operation string) {
	RedisErrors.WithLabelValues(service, operation).Inc()
}

func RecordKafkaMessageProduced(service, topic string) {
	KafkaMessagesProduced.WithLabelValues(service, topic).Inc()
}

func RecordKafkaError(service, topic, operation string) {
	KafkaErrors.WithLabelValues(service, topic, operation).Inc()
}

// StageTimer замеряет длительность одной стадии чат-пайплайна
type StageTimer struct {
	service string
	stage   string
	start   time.Time
}

func NewStageTimer(service, stage string) *StageTimer {
	return &StageTimer{service: service, stage: stage, start: time.Now()}
}

func (st *StageTimer) ObserveDuration() {
	ChatStageDuration.WithLabelValues(st.service, st.stage).Observe(time.Since(st.start).Seconds())
}

func RecordChatTurn(service, outcome string) {
	ChatTurnsTotal.WithLabelValues(service, outcome).Inc()
}

func RecordGeminiError(service, operation string) {
	GeminiErrors.WithLabelValues(service, operation).Inc()
}

func RecordSyncRun(service, result string, duration time.Duration) {
	SyncRunsTotal.WithLabelValues(service, result).Inc()
	SyncDuration.WithLabelValues(service).Observe(duration.Seconds())
}

func RecordSyncRecord(service, outcome string) {
	SyncRecordsTotal.WithLabelValues(service, outcome).Inc()
}
