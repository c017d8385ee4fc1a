// Package postgres хранит коллекцию заказов как единый JSONB-документ в
// одной строке. Контракт совпадает с файловым хранилищем: load и save
// работают с коллекцией целиком.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/vladislavdragonenkov/signal-orders/internal/domain"
)

const (
	defaultConnTimeout     = 5 * time.Second
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 10
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 5 * time.Minute

	// Документ всегда живёт в строке с id=1.
	documentRowID = 1
)

// Store оборачивает SQL-подключение к PostgreSQL.
type Store struct {
	db *sql.DB
}

// Open открывает подключение, проверяет доступность базы и создаёт схему.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}
	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)
	db.SetConnMaxIdleTime(defaultConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS signal_orders_document (
    id         INT PRIMARY KEY CHECK (id = 1),
    doc        JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Ping проверяет доступность подключения.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("postgres store is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	return s.db.PingContext(pingCtx)
}

// Close закрывает подключение к БД.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type document struct {
	Orders *[]domain.Order `json:"orders"`
}

// Load читает документ. Отсутствие строки означает, что хранилище ещё не
// инициализировано (cmd/seed), и трактуется как недоступность данных.
func (s *Store) Load(ctx context.Context) ([]domain.Order, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM signal_orders_document WHERE id = $1`, documentRowID,
	).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("orders document is not seeded: %w", domain.ErrStorageUnavailable)
	case err != nil:
		return nil, fmt.Errorf("select orders document: %v: %w", err, domain.ErrStorageUnavailable)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse orders document: %v: %w", err, domain.ErrStorageUnavailable)
	}
	if doc.Orders == nil {
		return nil, fmt.Errorf("orders document is missing the orders array: %w", domain.ErrStorageUnavailable)
	}

	return *doc.Orders, nil
}

// Save перезаписывает документ одним upsert-ом: читатель видит либо старую,
// либо новую коллекцию, но не промежуточное состояние.
func (s *Store) Save(ctx context.Context, orders []domain.Order) error {
	if orders == nil {
		orders = []domain.Order{}
	}
	raw, err := json.Marshal(document{Orders: &orders})
	if err != nil {
		return fmt.Errorf("marshal orders: %v: %w", err, domain.ErrStorageWriteFailed)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO signal_orders_document (id, doc, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		documentRowID, raw)
	if err != nil {
		return fmt.Errorf("upsert orders document: %v: %w", err, domain.ErrStorageWriteFailed)
	}
	return nil
}

var _ domain.Storage = (*Store)(nil)
