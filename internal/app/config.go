package app

import "os"

// Поддерживаемые бэкенды хранилища.
const (
	StorageMemory     = "memory"
	StorageFile       = "file"
	StorageEdgeConfig = "edgeconfig"
	StoragePostgres   = "postgres"
)

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	// Storage выбирает бэкенд: memory, file, edgeconfig или postgres.
	Storage       string
	DataFile      string
	EdgeConfigURL string
	PostgresDSN   string

	// KafkaBrokers — список брокеров через запятую; пусто — без Kafka.
	KafkaBrokers string
}

// DefaultConfig возвращает базовые настройки приложения.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:    ":8080",
		MetricsAddr: ":9090",
		Storage:     StorageFile,
		DataFile:    "data/orders.json",
	}
}

// ReadConfig формирует конфигурацию, позволяя переопределить настройки
// через переменные окружения.
func ReadConfig() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("SIGNAL_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("SIGNAL_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("SIGNAL_STORAGE"); v != "" {
		cfg.Storage = v
	}
	if v := os.Getenv("SIGNAL_DATA_FILE"); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv("SIGNAL_EDGE_CONFIG_URL"); v != "" {
		cfg.EdgeConfigURL = v
	}
	if v := os.Getenv("SIGNAL_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = v
	}
	return cfg
}
