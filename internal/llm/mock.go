package llm

import (
	"context"
	"fmt"
	"strings"
)

// Mock — детерминированный провайдер для разработки и тестов. Отвечает
// по простым правилам, без сети и задержек.
type Mock struct{}

// NewMock создаёт mock-провайдера.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Name() string {
	return ProviderMock
}

func (m *Mock) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	lower := strings.ToLower(prompt)

	switch {
	case strings.Contains(lower, "help") || strings.Contains(lower, "what can you do"):
		return `I can help you manage orders:

Get Order Details
- "Get order 15058365"
- "Show order details for 15058364"

Modify Orders
- "Change steel pipes to 75 units in order 15058365"
- "Update hydraulic valves quantity to 30 in order 15058364"
- "Remove aluminum sheets from order 15058365"

Note: this is a mock response. In production I would connect to a real AI service.`, nil

	case strings.Contains(lower, "get order") || strings.Contains(lower, "show order"):
		return "[Mock Response] I would retrieve the order details for you.", nil

	case strings.Contains(lower, "modify") || strings.Contains(lower, "change") ||
		strings.Contains(lower, "update"):
		return "[Mock Response] I would modify the order for you.", nil
	}

	return fmt.Sprintf("[Mock Response] I understand you said: %q. "+
		"Try rephrasing with an 8-digit order id, an item and a quantity.", prompt), nil
}
