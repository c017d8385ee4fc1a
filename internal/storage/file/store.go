// Package file реализует хранилище коллекции заказов в одном JSON-документе
// на диске: {"orders": [...]}. Документ перезаписывается целиком через
// временный файл и rename, чтобы читатель не увидел частичную запись.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/signal-orders/internal/domain"
)

// document — форма документа на диске. Поле orders обязательно и обязано
// быть массивом; его отсутствие — ошибка загрузки, а не пустая коллекция.
type document struct {
	Orders *[]domain.Order `json:"orders"`
}

// Store хранит коллекцию заказов в JSON-файле.
type Store struct {
	path   string
	logger *log.Entry
}

// NewStore возвращает файловое хранилище для указанного пути.
func NewStore(path string, logger *log.Entry) *Store {
	if logger == nil {
		logger = log.New().WithField("component", "file-store")
	}
	return &Store{path: path, logger: logger}
}

// Path возвращает путь к файлу с данными.
func (s *Store) Path() string { return s.path }

// Load читает и валидирует документ с заказами.
func (s *Store) Load(_ context.Context) ([]domain.Order, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.WithError(err).WithField("path", s.path).Error("failed to read orders file")
		return nil, fmt.Errorf("read %s: %v: %w", s.path, err, domain.ErrStorageUnavailable)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.logger.WithError(err).WithField("path", s.path).Error("orders file is not valid JSON")
		return nil, fmt.Errorf("parse %s: %v: %w", s.path, err, domain.ErrStorageUnavailable)
	}
	if doc.Orders == nil {
		s.logger.WithField("path", s.path).Error("orders file has no orders array")
		return nil, fmt.Errorf("document %s is missing the orders array: %w", s.path, domain.ErrStorageUnavailable)
	}

	return *doc.Orders, nil
}

// Save атомарно перезаписывает документ: запись во временный файл в том же
// каталоге и rename поверх целевого.
func (s *Store) Save(_ context.Context, orders []domain.Order) error {
	if orders == nil {
		orders = []domain.Order{}
	}
	doc := document{Orders: &orders}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal orders: %v: %w", err, domain.ErrStorageWriteFailed)
	}
	raw = append(raw, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.logger.WithError(err).WithField("dir", dir).Error("failed to create data directory")
		return fmt.Errorf("mkdir %s: %v: %w", dir, err, domain.ErrStorageWriteFailed)
	}

	tmp, err := os.CreateTemp(dir, ".orders-*.json")
	if err != nil {
		s.logger.WithError(err).Error("failed to create temp file")
		return fmt.Errorf("create temp file: %v: %w", err, domain.ErrStorageWriteFailed)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		s.logger.WithError(err).Error("failed to write temp file")
		return fmt.Errorf("write temp file: %v: %w", err, domain.ErrStorageWriteFailed)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %v: %w", err, domain.ErrStorageWriteFailed)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		s.logger.WithError(err).WithField("path", s.path).Error("failed to replace orders file")
		return fmt.Errorf("rename into %s: %v: %w", s.path, err, domain.ErrStorageWriteFailed)
	}

	s.logger.WithFields(log.Fields{"path": s.path, "orders": len(orders)}).Debug("orders saved")
	return nil
}

var _ domain.Storage = (*Store)(nil)
