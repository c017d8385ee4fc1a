// Package edgeconfig реализует хранилище коллекции заказов поверх
// удалённого key-value конфигурационного сервиса: GET возвращает документ
// {"orders": [...]}, POST перезаписывает его целиком.
package edgeconfig

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/signal-orders/internal/domain"
)

const defaultTimeout = 10 * time.Second

type document struct {
	Orders *[]domain.Order `json:"orders"`
}

// Store обращается к edge-config сервису по HTTP.
type Store struct {
	url    string
	client *http.Client
	logger *log.Entry
}

// NewStore возвращает хранилище для указанного URL.
func NewStore(url string, logger *log.Entry) *Store {
	if logger == nil {
		logger = log.New().WithField("component", "edge-config-store")
	}
	return &Store{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
		logger: logger,
	}
}

// Load выполняет GET и валидирует документ.
func (s *Store) Load(ctx context.Context) ([]domain.Order, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %v: %w", err, domain.ErrStorageUnavailable)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.WithError(err).Error("edge config request failed")
		return nil, fmt.Errorf("edge config: %v: %w", err, domain.ErrStorageUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.WithField("status", resp.StatusCode).Error("edge config returned non-OK status")
		return nil, fmt.Errorf("edge config status %d: %w", resp.StatusCode, domain.ErrStorageUnavailable)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read edge config body: %v: %w", err, domain.ErrStorageUnavailable)
	}

	var doc document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse edge config document: %v: %w", err, domain.ErrStorageUnavailable)
	}
	if doc.Orders == nil {
		return nil, fmt.Errorf("edge config document is missing the orders array: %w", domain.ErrStorageUnavailable)
	}

	return *doc.Orders, nil
}

// Save выполняет POST с полным документом. Любой не-2xx ответ — ошибка
// записи: сообщать об успехе после неудачного сохранения нельзя.
func (s *Store) Save(ctx context.Context, orders []domain.Order) error {
	if orders == nil {
		orders = []domain.Order{}
	}
	raw, err := json.Marshal(document{Orders: &orders})
	if err != nil {
		return fmt.Errorf("marshal orders: %v: %w", err, domain.ErrStorageWriteFailed)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build request: %v: %w", err, domain.ErrStorageWriteFailed)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.WithError(err).Error("edge config update failed")
		return fmt.Errorf("edge config: %v: %w", err, domain.ErrStorageWriteFailed)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.WithField("status", resp.StatusCode).Error("edge config update returned non-2xx status")
		return fmt.Errorf("edge config status %d: %w", resp.StatusCode, domain.ErrStorageWriteFailed)
	}

	s.logger.WithField("orders", len(orders)).Debug("orders saved to edge config")
	return nil
}

var _ domain.Storage = (*Store)(nil)
