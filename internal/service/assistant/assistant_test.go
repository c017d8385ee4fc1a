package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/signal-orders/internal/llm"
	"github.com/vladislavdragonenkov/signal-orders/internal/resolver"
	"github.com/vladislavdragonenkov/signal-orders/internal/seed"
	"github.com/vladislavdragonenkov/signal-orders/internal/service/mutation"
	"github.com/vladislavdragonenkov/signal-orders/internal/storage/memory"
)

// scriptedProvider возвращает заранее заданный ответ модели.
type scriptedProvider struct {
	response string
	err      error
	prompts  []string
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Generate(ctx context.Context, prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	return p.response, p.err
}

func newTestAssistant(provider llm.Provider) *Assistant {
	store := memory.NewStoreWith(seed.Orders())
	engine := mutation.NewEngine(store, resolver.New())
	if provider == nil {
		provider = llm.NewMock()
	}
	return New(engine, provider)
}

func TestHandle_UpdateQuantity(t *testing.T) {
	assistant := newTestAssistant(nil)

	reply := assistant.Handle(context.Background(), "change nuggets to 29 units in order 15053222")

	require.Equal(t, SourceParser, reply.Source)
	require.Contains(t, reply.Text, "Successfully updated")
	require.Contains(t, reply.Text, "$9280.00")
}

func TestHandle_RemoveItem(t *testing.T) {
	assistant := newTestAssistant(nil)

	reply := assistant.Handle(context.Background(), "remove french fries from order 15053222")

	require.Contains(t, reply.Text, "Successfully removed French Fries (8 units)")
	require.Contains(t, reply.Text, "$8960.00")
}

func TestHandle_MutationsCompose(t *testing.T) {
	assistant := newTestAssistant(nil)
	ctx := context.Background()

	reply := assistant.Handle(ctx, "change item-001 to 29 units in order 15053222")
	require.Contains(t, reply.Text, "Successfully updated")

	reply = assistant.Handle(ctx, "remove item-002 from order 15053222")
	require.Contains(t, reply.Text, "New order total: $9280.00")
}

func TestHandle_GetOrder(t *testing.T) {
	assistant := newTestAssistant(nil)

	reply := assistant.Handle(context.Background(), "get order 15053222")

	require.Contains(t, reply.Text, "Order Details for 15053222")
	require.Contains(t, reply.Text, "Golden Gate Restaurant Group")
}

func TestHandle_ListOrders(t *testing.T) {
	assistant := newTestAssistant(nil)

	reply := assistant.Handle(context.Background(), "show me all orders")

	require.Contains(t, reply.Text, "Found 4 orders:")
	require.Contains(t, reply.Text, "51475010")
}

func TestHandle_Help(t *testing.T) {
	assistant := newTestAssistant(nil)

	reply := assistant.Handle(context.Background(), "help")

	require.Contains(t, reply.Text, "Available orders:")
	require.Contains(t, reply.Text, "15053222")
}

func TestHandle_NotModifiable(t *testing.T) {
	assistant := newTestAssistant(nil)

	reply := assistant.Handle(context.Background(), "change item-001 to 30 units in order 15058364")

	require.Contains(t, reply.Text, "ACKNOWLEDGED")
	require.Contains(t, reply.Text, "Only DRAFT orders can be modified")
}

func TestHandle_OrderNotFound(t *testing.T) {
	assistant := newTestAssistant(nil)

	reply := assistant.Handle(context.Background(), "change item-001 to 30 units in order 99999999")

	require.Contains(t, reply.Text, "Order Not Found")
	require.Contains(t, reply.Text, "15053222")
}

func TestHandle_MissingQuantityAsksForClarification(t *testing.T) {
	assistant := newTestAssistant(nil)

	reply := assistant.Handle(context.Background(), "change nuggets in order 15053222")

	require.Equal(t, SourceParser, reply.Source)
	require.Contains(t, strings.ToLower(reply.Text), "quantity")
}

func TestHandle_DelegatesToModel(t *testing.T) {
	provider := &scriptedProvider{response: "I'm not sure what you mean, could you rephrase?"}
	assistant := newTestAssistant(provider)

	reply := assistant.Handle(context.Background(), "do the needful with my stuff")

	require.Equal(t, SourceModel, reply.Source)
	require.Equal(t, provider.response, reply.Text)
	require.Len(t, provider.prompts, 1)
	require.Contains(t, provider.prompts[0], "Available order IDs: 15053222")
}

func TestHandle_ExecutesModelRecoveredInstruction(t *testing.T) {
	provider := &scriptedProvider{response: "update item-001 to 30 units in order 15053222"}
	assistant := newTestAssistant(provider)

	reply := assistant.Handle(context.Background(), "gimme more of the first thing please")

	require.Equal(t, SourceModel, reply.Source)
	require.Contains(t, reply.Text, "Successfully updated")
	require.Contains(t, reply.Text, "to 30 units")
}

func TestHandle_ModelFailureFallsBackToHint(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("model unavailable")}
	assistant := newTestAssistant(provider)

	reply := assistant.Handle(context.Background(), "do the needful with my stuff")

	require.Equal(t, SourceParser, reply.Source)
	require.Contains(t, reply.Text, "could not understand")
}

func TestHandle_StorageUnavailable(t *testing.T) {
	engine := mutation.NewEngine(memory.NewStore(), resolver.New())
	assistant := New(engine, llm.NewMock())

	reply := assistant.Handle(context.Background(), "get order 15053222")

	require.Contains(t, reply.Text, "storage is currently unavailable")
}
