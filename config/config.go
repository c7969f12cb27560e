package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DefaultPrefix - префикс переменных окружения сервиса.
const DefaultPrefix = "ADRENDERER"

type HTTP struct {
	Addr              string        `default:":8080" envconfig:"ADDR"`
	GinMode           string        `default:"debug" envconfig:"GIN_MODE"`
	ReadTimeout       time.Duration `default:"10s" envconfig:"READ_TIMEOUT"`
	WriteTimeout      time.Duration `default:"10s" envconfig:"WRITE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `default:"5s" envconfig:"READ_HEADER_TIMEOUT"`
	IdleTimeout       time.Duration `default:"60s" envconfig:"IDLE_TIMEOUT"`
	HandlerTimeout    time.Duration `default:"3s" envconfig:"HANDLER_TIMEOUT"`
	GracefulTimeout   time.Duration `default:"5s" envconfig:"GRACEFUL_TIMEOUT"`
}

// Gateway - исходящий клиент платформы (метаданные и свойства креативов).
type Gateway struct {
	BaseURL      string        `default:"http://localhost:8123" envconfig:"BASE_URL"`
	WorkerID     string        `envconfig:"WORKER_ID"`
	AuthToken    string        `envconfig:"AUTH_TOKEN"`
	Timeout      time.Duration `default:"5s" envconfig:"TIMEOUT"`
	MaxRetries   int           `default:"2" envconfig:"MAX_RETRIES"`
	RetryInitial time.Duration `default:"100ms" envconfig:"RETRY_INITIAL"`
	RetryMax     time.Duration `default:"2s" envconfig:"RETRY_MAX"`
}

// Cache - кэш контекстов инстансов. SweepInterval=0 выключает фоновую чистку.
type Cache struct {
	TTL           time.Duration `default:"10m" envconfig:"TTL"`
	SweepInterval time.Duration `default:"1m" envconfig:"SWEEP_INTERVAL"`
}

type Tracing struct {
	Enabled     bool    `default:"false" envconfig:"OTEL_ENABLED"`
	ServiceName string  `default:"ad-renderer" envconfig:"OTEL_SERVICE_NAME"`
	Endpoint    string  `default:"jaeger:4318" envconfig:"OTEL_ENDPOINT"`
	SampleRatio float64 `default:"1" envconfig:"OTEL_SAMPLE_RATIO"`
}

type Logger struct {
	IsProd bool `default:"false" envconfig:"IS_PROD"`
}

// Render - штатный рендерер; пустой Template - встроенный шаблон.
// Watch перечитывает файл шаблона при изменении.
type Render struct {
	Template string `envconfig:"TEMPLATE"`
	Watch    bool   `default:"true" envconfig:"WATCH"`
}

type Config struct {
	HTTP    HTTP
	Gateway Gateway
	Cache   Cache
	Tracing Tracing
	Logger  Logger
	Render  Render
}

// Load - конфиг из окружения с префиксом ADRENDERER_.
func Load() (Config, error) {
	return LoadWithPrefix(DefaultPrefix)
}

// LoadWithPrefix - то же с произвольным префиксом (удобно в тестах).
func LoadWithPrefix(prefix string) (Config, error) {
	var c Config

	if err := envconfig.Process(prefix, &c); err != nil {
		return Config{}, err
	}

	return c, nil
}
