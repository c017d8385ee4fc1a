package instruction_test

import (
	"strings"
	"testing"

	"github.com/vladislavdragonenkov/signal-orders/internal/instruction"
)

func TestParse_Classification(t *testing.T) {
	cases := []struct {
		name string
		text string
		want instruction.Request
	}{
		{
			name: "additive case to explicit item",
			text: "add 1 case to item-001 in order 15053222",
			want: instruction.Request{Kind: instruction.KindModify, OrderID: "15053222", Op: instruction.OpUpdateQuantity, Quantity: 1, Additive: true},
		},
		{
			name: "remove by product name",
			text: "remove French Fries from order 15053222",
			want: instruction.Request{Kind: instruction.KindModify, OrderID: "15053222", Op: instruction.OpRemoveItem},
		},
		{
			name: "delete keyword",
			text: "please delete item-002 from 15053222",
			want: instruction.Request{Kind: instruction.KindModify, OrderID: "15053222", Op: instruction.OpRemoveItem},
		},
		{
			name: "set quantity with unit word",
			text: "change steel pipes to 75 units in order 15058365",
			want: instruction.Request{Kind: instruction.KindModify, OrderID: "15058365", Op: instruction.OpUpdateQuantity, Quantity: 75},
		},
		{
			name: "reduce to target",
			text: "reduce nuggets to 12 in order 15053222",
			want: instruction.Request{Kind: instruction.KindModify, OrderID: "15053222", Op: instruction.OpUpdateQuantity, Quantity: 12},
		},
		{
			name: "from-to keeps only the target",
			text: "update item-001 from 29 to 12 in order 15053222",
			want: instruction.Request{Kind: instruction.KindModify, OrderID: "15053222", Op: instruction.OpUpdateQuantity, Quantity: 12},
		},
		{
			name: "bare order id is a get request",
			text: "show me 15053222",
			want: instruction.Request{Kind: instruction.KindGetOrder, OrderID: "15053222"},
		},
		{
			name: "get order phrasing",
			text: "get order 15058365 please",
			want: instruction.Request{Kind: instruction.KindGetOrder, OrderID: "15058365"},
		},
		{
			name: "list orders",
			text: "show me all orders",
			want: instruction.Request{Kind: instruction.KindListOrders},
		},
		{
			name: "help",
			text: "help, what can you do?",
			want: instruction.Request{Kind: instruction.KindHelp},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := instruction.Parse(tc.text)
			if got.Kind != tc.want.Kind {
				t.Fatalf("kind: expected %s, got %s", tc.want.Kind, got.Kind)
			}
			if got.OrderID != tc.want.OrderID {
				t.Fatalf("order id: expected %q, got %q", tc.want.OrderID, got.OrderID)
			}
			if got.Op != tc.want.Op {
				t.Fatalf("op: expected %q, got %q", tc.want.Op, got.Op)
			}
			if got.Quantity != tc.want.Quantity {
				t.Fatalf("quantity: expected %d, got %d", tc.want.Quantity, got.Quantity)
			}
			if got.Additive != tc.want.Additive {
				t.Fatalf("additive: expected %v, got %v", tc.want.Additive, got.Additive)
			}
			if got.Reference == "" && tc.text != "" {
				t.Fatal("reference text must be preserved")
			}
		})
	}
}

func TestParse_UnrecognizedAsksForOrderID(t *testing.T) {
	cases := []string{
		"remove the fries",
		"change quantity to 5",
		"show me the order",
	}
	for _, text := range cases {
		req := instruction.Parse(text)
		if req.Kind != instruction.KindUnrecognized {
			t.Fatalf("%q: expected unrecognized, got %s", text, req.Kind)
		}
		if !strings.Contains(req.Clarification, "order id") {
			t.Fatalf("%q: clarification should ask for an order id, got %q", text, req.Clarification)
		}
	}
}

func TestParse_UpdateWithoutQuantityAsksForIt(t *testing.T) {
	req := instruction.Parse("update the nuggets in order 15053222")
	if req.Kind != instruction.KindUnrecognized {
		t.Fatalf("expected unrecognized, got %s", req.Kind)
	}
	if !strings.Contains(strings.ToLower(req.Clarification), "quantity") {
		t.Fatalf("clarification should ask for a quantity, got %q", req.Clarification)
	}
}

func TestParse_OrderIDNotMistakenForQuantity(t *testing.T) {
	req := instruction.Parse("change nuggets to 15053222")
	if req.Kind == instruction.KindModify {
		t.Fatalf("the order id must not be read as a quantity: %+v", req)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	req := instruction.Parse("   ")
	if req.Kind != instruction.KindUnrecognized {
		t.Fatalf("expected unrecognized, got %s", req.Kind)
	}
	if req.Clarification == "" {
		t.Fatal("expected a clarifying question")
	}
}

func TestParse_SevenDigitNumberIsNotAnOrderID(t *testing.T) {
	req := instruction.Parse("get order 5147501")
	if req.OrderID != "" {
		t.Fatalf("7-digit number must not be taken as an order id, got %q", req.OrderID)
	}
	if req.Kind != instruction.KindUnrecognized {
		t.Fatalf("expected unrecognized, got %s", req.Kind)
	}
}
