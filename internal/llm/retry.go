package llm

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
)

// RetryConfig конфигурация для retry логики.
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig возвращает конфигурацию по умолчанию.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
	}
}

// RetryableProvider оборачивает провайдера retry логикой.
type RetryableProvider struct {
	provider Provider
	config   RetryConfig
	logger   *log.Entry
}

// NewRetryableProvider создаёт провайдера с повторными попытками.
func NewRetryableProvider(provider Provider, config RetryConfig) *RetryableProvider {
	return &RetryableProvider{
		provider: provider,
		config:   config,
		logger:   log.WithField("component", "retryable-llm"),
	}
}

func (rp *RetryableProvider) Name() string {
	return rp.provider.Name()
}

// Generate выполняет запрос с повторными попытками и экспоненциальной
// задержкой. Отмена контекста прерывает попытки немедленно.
func (rp *RetryableProvider) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	delay := rp.config.InitialDelay

	for attempt := 1; attempt <= rp.config.MaxAttempts; attempt++ {
		response, err := rp.provider.Generate(ctx, prompt)
		if err == nil {
			if attempt > 1 {
				rp.logger.WithField("attempt", attempt).Info("model request succeeded after retry")
			}
			return response, nil
		}

		lastErr = err

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}

		if attempt < rp.config.MaxAttempts {
			rp.logger.WithFields(log.Fields{
				"attempt": attempt,
				"delay":   delay,
				"error":   err,
			}).Warn("model request failed, retrying")

			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}

			delay = time.Duration(float64(delay) * rp.config.BackoffFactor)
			if delay > rp.config.MaxDelay {
				delay = rp.config.MaxDelay
			}
		}
	}

	rp.logger.WithFields(log.Fields{
		"max_attempts": rp.config.MaxAttempts,
		"error":        lastErr,
	}).Error("model request failed after all retry attempts")
	return "", lastErr
}
