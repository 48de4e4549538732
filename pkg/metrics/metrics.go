// Package metrics 定义进程内Prometheus指标
//
// 指标通过promauto注册到默认Registry，由/metrics端点（promhttp）暴露。
// 命名遵循Prometheus规范：计数器以_total结尾，耗时以_seconds结尾。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "libraryhub"

var (
	// HTTP请求

	// HTTPRequestsTotal HTTP请求总数，标签：method、path、status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP请求耗时（秒）",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_progress",
			Help:      "正在处理的HTTP请求数",
		},
	)

	// 借还

	// CirculationTotal 借还操作计数，标签：action（checkout/return）、result（success/skipped）
	CirculationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circulation_instances_total",
			Help:      "借出/归还的馆藏副本数",
		},
		[]string{"action", "result"},
	)

	// 批量导入

	// ImportIsbnsTotal 导入处理的ISBN数，标签：result（success/failed）
	ImportIsbnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_isbns_total",
			Help:      "批量导入处理的ISBN数",
		},
		[]string{"result"},
	)

	// ImportChunkDuration 单个分片处理耗时
	ImportChunkDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "import_chunk_duration_seconds",
			Help:      "导入分片处理耗时（秒）",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// ImportsFinishedTotal 结束的导入任务数，标签：status（completed/failed）
	ImportsFinishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_finished_total",
			Help:      "结束的导入任务数",
		},
		[]string{"status"},
	)

	// ImportsInProgress 正在处理的导入任务数
	ImportsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "imports_in_progress",
			Help:      "正在处理的导入任务数",
		},
	)

	// 熔断器

	// CircuitBreakerState 熔断器状态：0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	// CircuitBreakerRequests 经过熔断器的请求数，标签：name、result（success/failure/rejected）
	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_requests_total",
			Help:      "经过熔断器的请求数",
		},
		[]string{"name", "result"},
	)

	// Saga

	// SagaExecutionsTotal Saga执行次数，标签：name、result（success/compensated）
	SagaExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saga_executions_total",
			Help:      "Saga执行次数",
		},
		[]string{"name", "result"},
	)

	// SagaCompensationsTotal 补偿步骤执行次数
	SagaCompensationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saga_compensations_total",
			Help:      "Saga补偿步骤执行次数",
		},
	)

	// 消息

	// MessagesPublishedTotal 发布的消息数，标签：routing_key、status
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_published_total",
			Help:      "发布到RabbitMQ的消息数",
		},
		[]string{"routing_key", "status"},
	)

	// MessagesConsumedTotal 消费的消息数，标签：queue、status
	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      "从RabbitMQ消费的消息数",
		},
		[]string{"queue", "status"},
	)

	// MessageProcessingDuration 消息处理耗时
	MessageProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "message_processing_duration_seconds",
			Help:      "消息处理耗时（秒）",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// QueueJobsTotal Redis Stream任务数，标签：stream、status（queued/done/retry/failed）
	QueueJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_jobs_total",
			Help:      "Redis Stream任务处理数",
		},
		[]string{"stream", "status"},
	)
)
