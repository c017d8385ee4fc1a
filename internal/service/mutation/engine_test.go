package mutation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/signal-orders/internal/domain"
	"github.com/vladislavdragonenkov/signal-orders/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/signal-orders/internal/resolver"
	"github.com/vladislavdragonenkov/signal-orders/internal/seed"
	"github.com/vladislavdragonenkov/signal-orders/internal/storage/memory"
)

var fixedTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(opts ...Option) *Engine {
	store := memory.NewStoreWith(seed.Orders())
	opts = append([]Option{WithClock(func() time.Time { return fixedTime })}, opts...)
	return NewEngine(store, resolver.New(), opts...)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

func requireInvariants(t *testing.T, o domain.Order) {
	t.Helper()
	if errs := o.ValidateInvariants(); len(errs) > 0 {
		t.Fatalf("order %s violates invariants: %v", o.ID, errs)
	}
}

func TestModify_UpdateQuantity(t *testing.T) {
	engine := newTestEngine()

	result, err := engine.Modify(context.Background(), ModifyRequest{
		OrderID:   "15053222",
		Reference: "item-001",
		Op:        OpUpdateQuantity,
		Quantity:  29,
	})
	require.NoError(t, err)

	require.Equal(t, 29, result.Item.Quantity)
	require.Equal(t, 28, result.OldQuantity)
	require.True(t, almostEqual(result.Item.TotalPrice, 9280.00))
	require.True(t, almostEqual(result.Order.TotalAmount, 9504.72))
	require.True(t, result.Order.Modified)
	require.Contains(t, result.Order.Notes,
		"Updated Frozen Chicken Nuggets quantity from 28 to 29 units on 2025-06-01T12:00:00Z")
	require.Contains(t, result.Item.Notes, "Quantity changed from 28 to 29 on 2025-06-01T12:00:00Z")
	requireInvariants(t, result.Order)

	// Изменение должно быть сохранено, а не жить только в результате.
	saved, err := engine.Get(context.Background(), "15053222")
	require.NoError(t, err)
	item, ok := saved.LineItemByID("item-001")
	require.True(t, ok)
	require.Equal(t, 29, item.Quantity)
	require.True(t, almostEqual(saved.TotalAmount, 9504.72))
}

func TestModify_UpdateQuantityAdditive(t *testing.T) {
	engine := newTestEngine()

	result, err := engine.Modify(context.Background(), ModifyRequest{
		OrderID:   "15053222",
		Reference: "item-001",
		Op:        OpUpdateQuantity,
		Quantity:  1,
		Additive:  true,
	})
	require.NoError(t, err)

	require.Equal(t, 29, result.Item.Quantity)
	require.True(t, almostEqual(result.Order.TotalAmount, 9504.72))
	requireInvariants(t, result.Order)
}

func TestModify_UpdateToSameQuantity(t *testing.T) {
	engine := newTestEngine()

	result, err := engine.Modify(context.Background(), ModifyRequest{
		OrderID:   "15053222",
		Reference: "item-001",
		Op:        OpUpdateQuantity,
		Quantity:  28,
	})
	require.NoError(t, err)

	require.Equal(t, 28, result.Item.Quantity)
	require.True(t, almostEqual(result.Order.TotalAmount, 9184.72))
	requireInvariants(t, result.Order)
}

func TestModify_NotesKeepOnlyLastChange(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	for _, qty := range []int{29, 30} {
		_, err := engine.Modify(ctx, ModifyRequest{
			OrderID:   "15053222",
			Reference: "item-001",
			Op:        OpUpdateQuantity,
			Quantity:  qty,
		})
		require.NoError(t, err)
	}

	saved, err := engine.Get(ctx, "15053222")
	require.NoError(t, err)

	// Заметка перезаписывается каждой мутацией, история не накапливается.
	require.Equal(t,
		"Updated Frozen Chicken Nuggets quantity from 29 to 30 units on 2025-06-01T12:00:00Z",
		saved.Notes)
	item, ok := saved.LineItemByID("item-001")
	require.True(t, ok)
	require.Equal(t, "Quantity changed from 29 to 30 on 2025-06-01T12:00:00Z", item.Notes)
}

func TestModify_RepeatedUpdateIsIdempotent(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	req := ModifyRequest{
		OrderID:   "15053222",
		Reference: "item-001",
		Op:        OpUpdateQuantity,
		Quantity:  30,
	}

	_, err := engine.Modify(ctx, req)
	require.NoError(t, err)
	first, err := engine.Get(ctx, "15053222")
	require.NoError(t, err)

	_, err = engine.Modify(ctx, req)
	require.NoError(t, err)
	second, err := engine.Get(ctx, "15053222")
	require.NoError(t, err)

	// Повторное применение той же мутации не меняет сохранённое состояние,
	// включая заметки: они описывают только последнее реальное изменение.
	require.Equal(t, first, second)
	require.Equal(t,
		"Updated Frozen Chicken Nuggets quantity from 28 to 30 units on 2025-06-01T12:00:00Z",
		second.Notes)
	item, ok := second.LineItemByID("item-001")
	require.True(t, ok)
	require.Equal(t, "Quantity changed from 28 to 30 on 2025-06-01T12:00:00Z", item.Notes)
	requireInvariants(t, second)
}

func TestModify_RemoveItem(t *testing.T) {
	engine := newTestEngine()

	result, err := engine.Modify(context.Background(), ModifyRequest{
		OrderID:   "15053222",
		Reference: "french fries",
		Op:        OpRemoveItem,
	})
	require.NoError(t, err)

	require.Equal(t, "item-002", result.Item.ID)
	require.Equal(t, 8, result.OldQuantity)
	require.True(t, almostEqual(result.Order.TotalAmount, 8960.00))
	require.Len(t, result.Order.LineItems, 1)
	require.Contains(t, result.Order.Notes, "Removed French Fries (8 units) on 2025-06-01T12:00:00Z")
	requireInvariants(t, result.Order)
}

func TestModify_Composition(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	_, err := engine.Modify(ctx, ModifyRequest{
		OrderID:   "15053222",
		Reference: "nuggets",
		Op:        OpUpdateQuantity,
		Quantity:  29,
	})
	require.NoError(t, err)

	result, err := engine.Modify(ctx, ModifyRequest{
		OrderID:   "15053222",
		Reference: "item-002",
		Op:        OpRemoveItem,
	})
	require.NoError(t, err)

	// 9184.72 + 320.00 - 224.72 = 9280.00
	require.True(t, almostEqual(result.Order.TotalAmount, 9280.00))
	require.Len(t, result.Order.LineItems, 1)
	requireInvariants(t, result.Order)
}

func TestModify_ReferenceMethodAgnostic(t *testing.T) {
	references := []string{"item-001", "CHK-NUGGETS-20LB", "frozen chicken nuggets", "nuggets"}

	for _, ref := range references {
		engine := newTestEngine()

		result, err := engine.Modify(context.Background(), ModifyRequest{
			OrderID:   "15053222",
			Reference: ref,
			Op:        OpUpdateQuantity,
			Quantity:  30,
		})
		require.NoError(t, err, "reference %q", ref)
		require.Equal(t, "item-001", result.Item.ID, "reference %q", ref)
		require.Equal(t, 30, result.Item.Quantity, "reference %q", ref)
	}
}

func TestModify_OrderNotFound(t *testing.T) {
	engine := newTestEngine()

	_, err := engine.Modify(context.Background(), ModifyRequest{
		OrderID:   "99999999",
		Reference: "item-001",
		Op:        OpUpdateQuantity,
		Quantity:  5,
	})
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
	require.Contains(t, err.Error(), "15053222")
	require.Contains(t, err.Error(), "51475010")
}

func TestModify_NotModifiable(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	before, err := engine.Get(ctx, "15058364")
	require.NoError(t, err)

	_, err = engine.Modify(ctx, ModifyRequest{
		OrderID:   "15058364",
		Reference: "item-001",
		Op:        OpUpdateQuantity,
		Quantity:  5,
	})
	require.ErrorIs(t, err, domain.ErrOrderNotModifiable)
	require.Contains(t, err.Error(), "ACKNOWLEDGED")

	after, err := engine.Get(ctx, "15058364")
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestModify_ItemGoneAfterRemove(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	_, err := engine.Modify(ctx, ModifyRequest{
		OrderID:   "15053222",
		Reference: "item-002",
		Op:        OpRemoveItem,
	})
	require.NoError(t, err)

	_, err = engine.Modify(ctx, ModifyRequest{
		OrderID:   "15053222",
		Reference: "fries",
		Op:        OpUpdateQuantity,
		Quantity:  10,
	})
	require.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestModify_InvalidQuantity(t *testing.T) {
	for _, quantity := range []int{0, -5} {
		engine := newTestEngine()
		ctx := context.Background()

		before, err := engine.Get(ctx, "15053222")
		require.NoError(t, err)

		_, err = engine.Modify(ctx, ModifyRequest{
			OrderID:   "15053222",
			Reference: "item-001",
			Op:        OpUpdateQuantity,
			Quantity:  quantity,
		})
		require.ErrorIs(t, err, domain.ErrInvalidQuantity, "quantity %d", quantity)

		after, err := engine.Get(ctx, "15053222")
		require.NoError(t, err)
		require.Equal(t, before, after)
	}
}

// failingStore всегда отказывает в записи.
type failingStore struct {
	domain.Storage
}

func (s *failingStore) Save(ctx context.Context, orders []domain.Order) error {
	return fmt.Errorf("disk full: %w", domain.ErrStorageWriteFailed)
}

func TestModify_SaveFailureSurfaces(t *testing.T) {
	store := &failingStore{Storage: memory.NewStoreWith(seed.Orders())}
	engine := NewEngine(store, resolver.New())

	_, err := engine.Modify(context.Background(), ModifyRequest{
		OrderID:   "15053222",
		Reference: "item-001",
		Op:        OpUpdateQuantity,
		Quantity:  29,
	})
	require.ErrorIs(t, err, domain.ErrStorageWriteFailed)
}

func TestModify_LoadFailureSurfaces(t *testing.T) {
	engine := NewEngine(memory.NewStore(), resolver.New())

	_, err := engine.Modify(context.Background(), ModifyRequest{
		OrderID:   "15053222",
		Reference: "item-001",
		Op:        OpUpdateQuantity,
		Quantity:  29,
	})
	require.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

// capturingPublisher запоминает опубликованные события.
type capturingPublisher struct {
	topics []string
	keys   []string
	events []any
	err    error
}

func (p *capturingPublisher) Publish(topic, key string, event any) error {
	p.topics = append(p.topics, topic)
	p.keys = append(p.keys, key)
	p.events = append(p.events, event)
	return p.err
}

func TestModify_PublishesEvent(t *testing.T) {
	publisher := &capturingPublisher{}
	engine := newTestEngine(WithPublisher(publisher))

	_, err := engine.Modify(context.Background(), ModifyRequest{
		OrderID:   "15053222",
		Reference: "item-001",
		Op:        OpUpdateQuantity,
		Quantity:  29,
	})
	require.NoError(t, err)

	require.Len(t, publisher.events, 1)
	require.Equal(t, kafka.TopicOrderEvents, publisher.topics[0])
	require.Equal(t, "15053222", publisher.keys[0])

	event, ok := publisher.events[0].(*kafka.OrderEvent)
	require.True(t, ok)
	require.Equal(t, kafka.EventTypeQuantityUpdated, event.EventType)
	require.Equal(t, "item-001", event.LineItemID)
}

func TestModify_PublishFailureDoesNotFailMutation(t *testing.T) {
	publisher := &capturingPublisher{err: errors.New("broker down")}
	engine := newTestEngine(WithPublisher(publisher))

	result, err := engine.Modify(context.Background(), ModifyRequest{
		OrderID:   "15053222",
		Reference: "item-002",
		Op:        OpRemoveItem,
	})
	require.NoError(t, err)
	require.True(t, almostEqual(result.Order.TotalAmount, 8960.00))
}

func TestReplace(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	orders := seed.Orders()[:2]
	require.NoError(t, engine.Replace(ctx, orders))

	saved, err := engine.List(ctx)
	require.NoError(t, err)
	require.Len(t, saved, 2)
}

func TestReplace_RejectsInvalidCollection(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	broken := seed.Orders()
	broken[0].TotalAmount = 1.00

	err := engine.Replace(ctx, broken)
	require.Error(t, err)
	require.Contains(t, err.Error(), broken[0].ID)

	// Хранилище не должно быть затронуто.
	saved, err := engine.List(ctx)
	require.NoError(t, err)
	require.Len(t, saved, 4)
	require.True(t, almostEqual(saved[0].TotalAmount, 9184.72))
}

func TestGet_NotFoundListsAvailable(t *testing.T) {
	engine := newTestEngine()

	_, err := engine.Get(context.Background(), "00000000")
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
	for _, id := range []string{"15053222", "15058364", "15058365", "51475010"} {
		require.True(t, strings.Contains(err.Error(), id), "missing %s in %v", id, err)
	}
}

func TestList(t *testing.T) {
	engine := newTestEngine()

	orders, err := engine.List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 4)
}
