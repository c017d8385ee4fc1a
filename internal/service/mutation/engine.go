// Package mutation реализует движок изменения заказов. Каждая мутация —
// это транзакция над всем хранилищем: load → find → mutate → save.
// Сохранение перезаписывает коллекцию целиком, поэтому последовательные
// мутации складываются: каждая видит результат предыдущей.
package mutation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/signal-orders/internal/domain"
	"github.com/vladislavdragonenkov/signal-orders/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/signal-orders/internal/metrics"
	"github.com/vladislavdragonenkov/signal-orders/internal/resolver"
)

// Operation — вид мутации заказа.
type Operation string

const (
	OpUpdateQuantity Operation = "updateQuantity"
	OpRemoveItem     Operation = "removeItem"
)

// ModifyRequest описывает одну мутацию. Reference — произвольная ссылка на
// позицию (id, SKU или название), разрешается внутри транзакции, чтобы
// результат не зависел от способа ссылки.
type ModifyRequest struct {
	OrderID   string
	Reference string
	Op        Operation
	Quantity  int
	// Additive — прибавить Quantity к текущему количеству вместо замены.
	Additive bool
}

// Result — итог успешной мутации.
type Result struct {
	Order domain.Order
	// Item — изменённая позиция; для removeItem — снимок удалённой.
	Item        domain.LineItem
	OldQuantity int
	Op          Operation
}

// Engine выполняет мутации заказов поверх хранилища.
type Engine struct {
	store     domain.Storage
	resolver  *resolver.Resolver
	publisher domain.EventPublisher
	metrics   *metrics.AssistantMetrics
	logger    *log.Entry
	now       func() time.Time
}

// Option настраивает Engine.
type Option func(*Engine)

// WithPublisher подключает публикацию событий об успешных мутациях.
func WithPublisher(p domain.EventPublisher) Option {
	return func(e *Engine) { e.publisher = p }
}

// WithMetrics подключает метрики мутаций.
func WithMetrics(m *metrics.AssistantMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine создаёт движок мутаций.
func NewEngine(store domain.Storage, res *resolver.Resolver, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		resolver: res,
		logger:   log.WithField("component", "mutation-engine"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// List возвращает все заказы.
func (e *Engine) List(ctx context.Context) ([]domain.Order, error) {
	orders, err := e.store.Load(ctx)
	if err != nil {
		e.recordStorageError()
		return nil, err
	}
	return orders, nil
}

// Get возвращает заказ по идентификатору.
func (e *Engine) Get(ctx context.Context, orderID string) (domain.Order, error) {
	orders, err := e.store.Load(ctx)
	if err != nil {
		e.recordStorageError()
		return domain.Order{}, err
	}

	for _, o := range orders {
		if o.ID == orderID {
			return o, nil
		}
	}
	return domain.Order{}, notFound(orderID, orders)
}

// Replace перезаписывает всю коллекцию заказов. Каждый заказ проверяется
// на инварианты до записи: невалидная коллекция не должна попасть в
// хранилище.
func (e *Engine) Replace(ctx context.Context, orders []domain.Order) error {
	for _, o := range orders {
		if errs := o.ValidateInvariants(); len(errs) > 0 {
			return fmt.Errorf("order %s is invalid: %w", o.ID, errs[0])
		}
	}

	if err := e.store.Save(ctx, orders); err != nil {
		e.recordStorageError()
		return err
	}

	e.logger.WithField("orders", len(orders)).Info("order collection replaced")
	return nil
}

// Modify выполняет одну мутацию заказа. Порядок проверок фиксирован:
// заказ → модифицируемость → позиция → количество. Хранилище не
// перезаписывается, если любая из проверок не прошла.
func (e *Engine) Modify(ctx context.Context, req ModifyRequest) (Result, error) {
	started := e.now()

	result, err := e.modify(ctx, req)
	if err != nil {
		if e.metrics != nil && !domain.IsUserInput(err) {
			e.metrics.RecordMutationFailure(string(req.Op))
		}
		return Result{}, err
	}

	if e.metrics != nil {
		e.metrics.RecordMutation(string(req.Op))
		e.metrics.RecordMutationDuration(string(req.Op), e.now().Sub(started))
	}

	e.logger.WithFields(log.Fields{
		"order_id":  result.Order.ID,
		"item_id":   result.Item.ID,
		"operation": req.Op,
	}).Info("order mutated")

	e.publish(result)
	return result, nil
}

func (e *Engine) modify(ctx context.Context, req ModifyRequest) (Result, error) {
	orders, err := e.store.Load(ctx)
	if err != nil {
		e.recordStorageError()
		return Result{}, err
	}

	idx := -1
	for i := range orders {
		if orders[i].ID == req.OrderID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Result{}, notFound(req.OrderID, orders)
	}

	order := &orders[idx]
	if !order.Modifiable {
		return Result{}, fmt.Errorf("order %s has status %s, only DRAFT orders can be modified: %w",
			order.ID, order.Status, domain.ErrOrderNotModifiable)
	}

	item, err := e.resolver.Resolve(order.LineItems, req.Reference)
	if err != nil {
		return Result{}, err
	}

	var result Result
	switch req.Op {
	case OpUpdateQuantity:
		result, err = e.updateQuantity(order, item.ID, req)
	case OpRemoveItem:
		result, err = e.removeItem(order, item.ID)
	default:
		err = fmt.Errorf("unknown operation %q: %w", req.Op, domain.ErrUnrecognizedInstruction)
	}
	if err != nil {
		return Result{}, err
	}

	if err := e.store.Save(ctx, orders); err != nil {
		e.recordStorageError()
		return Result{}, err
	}

	result.Order = order.Clone()
	result.Op = req.Op
	return result, nil
}

// updateQuantity заменяет (или прибавляет) количество позиции. Итог заказа
// корректируется на разницу итогов позиции, а не пересчитывается с нуля.
func (e *Engine) updateQuantity(order *domain.Order, itemID string, req ModifyRequest) (Result, error) {
	if req.Quantity <= 0 {
		return Result{}, fmt.Errorf("quantity must be a positive integer, got %d: %w",
			req.Quantity, domain.ErrInvalidQuantity)
	}

	var item *domain.LineItem
	for i := range order.LineItems {
		if order.LineItems[i].ID == itemID {
			item = &order.LineItems[i]
			break
		}
	}
	if item == nil {
		return Result{}, fmt.Errorf("line item %s not found in order %s: %w",
			itemID, order.ID, domain.ErrItemNotFound)
	}

	newQuantity := req.Quantity
	if req.Additive {
		newQuantity = item.Quantity + req.Quantity
	}

	// Количество уже целевое: заказ не трогаем, повторная мутация
	// оставляет сохранённое состояние без изменений.
	if newQuantity == item.Quantity {
		return Result{Item: *item, OldQuantity: item.Quantity}, nil
	}

	oldQuantity := item.Quantity
	oldTotal := item.TotalPrice

	item.Quantity = newQuantity
	item.TotalPrice = float64(newQuantity) * item.UnitPrice
	order.TotalAmount = order.TotalAmount - oldTotal + item.TotalPrice
	order.Modified = true

	// Заметки хранят только последнее изменение, предыдущие перезаписываются.
	stamp := e.now().UTC().Format(time.RFC3339)
	item.Notes = fmt.Sprintf("Quantity changed from %d to %d on %s", oldQuantity, newQuantity, stamp)
	order.Notes = fmt.Sprintf("Updated %s quantity from %d to %d units on %s",
		item.ProductName, oldQuantity, newQuantity, stamp)

	return Result{Item: *item, OldQuantity: oldQuantity}, nil
}

// removeItem удаляет позицию и вычитает её итог из суммы заказа.
func (e *Engine) removeItem(order *domain.Order, itemID string) (Result, error) {
	idx := -1
	for i := range order.LineItems {
		if order.LineItems[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Result{}, fmt.Errorf("line item %s not found in order %s: %w",
			itemID, order.ID, domain.ErrItemNotFound)
	}

	removed := order.LineItems[idx]
	order.LineItems = append(order.LineItems[:idx], order.LineItems[idx+1:]...)
	order.TotalAmount -= removed.TotalPrice
	order.Modified = true

	stamp := e.now().UTC().Format(time.RFC3339)
	order.Notes = fmt.Sprintf("Removed %s (%d units) on %s", removed.ProductName, removed.Quantity, stamp)

	return Result{Item: removed, OldQuantity: removed.Quantity}, nil
}

// publish отправляет событие о мутации. Ошибка публикации логируется, но
// не влияет на результат: заказ уже сохранён.
func (e *Engine) publish(result Result) {
	if e.publisher == nil {
		return
	}

	eventType := kafka.EventTypeQuantityUpdated
	metadata := map[string]interface{}{
		"old_quantity": result.OldQuantity,
		"new_quantity": result.Item.Quantity,
	}
	if result.Op == OpRemoveItem {
		eventType = kafka.EventTypeItemRemoved
		metadata = map[string]interface{}{
			"removed_quantity": result.OldQuantity,
		}
	}

	event := kafka.NewOrderEvent(eventType, result.Order.ID, result.Item.ID, metadata)
	if err := e.publisher.Publish(kafka.TopicOrderEvents, result.Order.ID, event); err != nil {
		e.logger.WithError(err).WithField("order_id", result.Order.ID).
			Warn("failed to publish order event")
	}
}

func (e *Engine) recordStorageError() {
	if e.metrics != nil {
		e.metrics.RecordStorageError()
	}
}

func notFound(orderID string, orders []domain.Order) error {
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	sort.Strings(ids)
	return fmt.Errorf("order %s does not exist, available orders: %s: %w",
		orderID, strings.Join(ids, ", "), domain.ErrOrderNotFound)
}
