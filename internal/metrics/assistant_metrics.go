package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AssistantMetrics содержит метрики ассистента заказов.
type AssistantMetrics struct {
	// Счётчики операций
	instructions  *prometheus.CounterVec
	mutations     *prometheus.CounterVec
	mutationFails *prometheus.CounterVec
	storageErrors prometheus.Counter
	llmFallbacks  prometheus.Counter

	// Гистограммы времени выполнения
	mutationDuration *prometheus.HistogramVec
	llmDuration      prometheus.Histogram

	// Gauge для запросов в обработке
	activeRequests prometheus.Gauge
}

// NewAssistantMetrics создаёт новый экземпляр метрик ассистента.
func NewAssistantMetrics() *AssistantMetrics {
	return newAssistantMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newAssistantMetricsWithRegisterer(registerer prometheus.Registerer) *AssistantMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &AssistantMetrics{
		instructions: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "signal_instructions_total",
			Help: "Total number of parsed instructions by kind",
		}, []string{"kind"}),
		mutations: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "signal_order_mutations_total",
			Help: "Total number of successful order mutations by operation",
		}, []string{"operation"}),
		mutationFails: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "signal_order_mutation_failures_total",
			Help: "Total number of failed order mutations by operation",
		}, []string{"operation"}),
		storageErrors: registerCounter(registerer, prometheus.CounterOpts{
			Name: "signal_storage_errors_total",
			Help: "Total number of order storage failures",
		}),
		llmFallbacks: registerCounter(registerer, prometheus.CounterOpts{
			Name: "signal_llm_fallbacks_total",
			Help: "Total number of instructions delegated to the language model",
		}),
		mutationDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "signal_order_mutation_duration_seconds",
			Help:    "Duration of order mutations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"operation"}),
		llmDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "signal_llm_request_duration_seconds",
			Help:    "Duration of language model requests in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		activeRequests: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "signal_active_requests",
			Help: "Number of assistant requests currently in flight",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordInstruction увеличивает счётчик распознанных инструкций.
func (m *AssistantMetrics) RecordInstruction(kind string) {
	m.instructions.WithLabelValues(kind).Inc()
}

// RecordMutation увеличивает счётчик успешных мутаций.
func (m *AssistantMetrics) RecordMutation(operation string) {
	m.mutations.WithLabelValues(operation).Inc()
}

// RecordMutationFailure увеличивает счётчик неудачных мутаций.
func (m *AssistantMetrics) RecordMutationFailure(operation string) {
	m.mutationFails.WithLabelValues(operation).Inc()
}

// RecordStorageError увеличивает счётчик сбоев хранилища.
func (m *AssistantMetrics) RecordStorageError() {
	m.storageErrors.Inc()
}

// RecordLLMFallback увеличивает счётчик обращений к модели.
func (m *AssistantMetrics) RecordLLMFallback() {
	m.llmFallbacks.Inc()
}

// RecordMutationDuration записывает время выполнения мутации.
func (m *AssistantMetrics) RecordMutationDuration(operation string, duration time.Duration) {
	m.mutationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordLLMDuration записывает время запроса к модели.
func (m *AssistantMetrics) RecordLLMDuration(duration time.Duration) {
	m.llmDuration.Observe(duration.Seconds())
}

// RecordRequestStarted увеличивает количество запросов в обработке.
func (m *AssistantMetrics) RecordRequestStarted() {
	m.activeRequests.Inc()
}

// RecordRequestFinished уменьшает количество запросов в обработке.
func (m *AssistantMetrics) RecordRequestFinished() {
	m.activeRequests.Dec()
}
