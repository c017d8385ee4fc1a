// Package llm содержит клиентов языковых моделей. Модель используется как
// запасной канал понимания: детерминированный разбор инструкции всегда
// пробуется первым, и только нераспознанные сообщения уходят в модель.
package llm

import (
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

// Provider генерирует ответ модели на текст пользователя.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Name возвращает имя провайдера для логов и /api/chat.
	Name() string
}

// Имена поддерживаемых провайдеров.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderLocal     = "local"
	ProviderMock      = "mock"
)

// systemPrompt — системная инструкция для всех провайдеров.
const systemPrompt = `You are an AI assistant for a supply chain management system called Signal.
You help users manage orders through natural language commands. You can:
- Retrieve order details
- Modify order quantities
- Remove items from orders
- Provide helpful information about the system

Always be helpful, concise, and professional. If you don't understand a command, ask for clarification.`

// Config описывает настройки провайдера.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// DefaultConfig возвращает настройки по умолчанию для провайдера.
func DefaultConfig(provider string) Config {
	cfg := Config{
		Provider:    provider,
		MaxTokens:   1000,
		Temperature: 0.7,
		Timeout:     30 * time.Second,
	}

	switch provider {
	case ProviderOpenAI:
		cfg.Model = "gpt-4"
		cfg.BaseURL = "https://api.openai.com/v1"
	case ProviderAnthropic:
		cfg.Model = "claude-3-sonnet-20240229"
		cfg.BaseURL = "https://api.anthropic.com"
	case ProviderLocal:
		cfg.Model = "local-model"
		cfg.BaseURL = "http://localhost:8000"
	}

	return cfg
}

// New создаёт провайдера по конфигурации. Провайдер без API-ключа
// заменяется на mock, чтобы система оставалась работоспособной в
// разработке.
func New(cfg Config) (Provider, error) {
	logger := log.WithField("component", "llm")

	switch cfg.Provider {
	case ProviderOpenAI, ProviderLocal:
		if cfg.Provider == ProviderOpenAI && cfg.APIKey == "" {
			logger.Warn("no API key configured, falling back to mock provider")
			return NewMock(), nil
		}
		return newOpenAI(cfg), nil
	case ProviderAnthropic:
		if cfg.APIKey == "" {
			logger.Warn("no API key configured, falling back to mock provider")
			return NewMock(), nil
		}
		return newAnthropic(cfg), nil
	case ProviderMock, "":
		return NewMock(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}

// FromEnv собирает провайдера из переменных окружения. Провайдер выбирается
// по SIGNAL_LLM_PROVIDER, иначе по наличию ключа; без ключей — mock.
func FromEnv() (Provider, error) {
	provider := os.Getenv("SIGNAL_LLM_PROVIDER")
	if provider == "" {
		switch {
		case os.Getenv("ANTHROPIC_API_KEY") != "":
			provider = ProviderAnthropic
		case os.Getenv("OPENAI_API_KEY") != "":
			provider = ProviderOpenAI
		default:
			provider = ProviderMock
		}
	}

	cfg := DefaultConfig(provider)

	switch provider {
	case ProviderAnthropic:
		cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case ProviderOpenAI:
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if key := os.Getenv("SIGNAL_LLM_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if model := os.Getenv("SIGNAL_LLM_MODEL"); model != "" {
		cfg.Model = model
	}
	if baseURL := os.Getenv("SIGNAL_LLM_BASE_URL"); baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return New(cfg)
}
