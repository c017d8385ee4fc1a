// Package seed содержит шаблонную коллекцию заказов, из которой
// инициализируются новые инсталляции (cmd/seed) и тестовые сценарии.
package seed

import "github.com/vladislavdragonenkov/signal-orders/internal/domain"

// Orders возвращает свежую копию шаблонной коллекции.
func Orders() []domain.Order {
	return domain.CloneOrders(template)
}

var template = []domain.Order{
	{
		ID:           "15053222",
		Status:       domain.OrderStatusDraft,
		Customer:     "Golden Gate Restaurant Group",
		OrderDate:    "2025-01-15",
		DeliveryDate: "2025-01-22",
		TotalAmount:  9184.72,
		Modifiable:   true,
		LineItems: []domain.LineItem{
			{
				ID:          "item-001",
				ProductName: "Frozen Chicken Nuggets",
				SKU:         "CHK-NUGGETS-20LB",
				Quantity:    28,
				UnitPrice:   320.00,
				TotalPrice:  8960.00,
			},
			{
				ID:          "item-002",
				ProductName: "French Fries",
				SKU:         "FRY-CRINKLE-5LB",
				Quantity:    8,
				UnitPrice:   28.09,
				TotalPrice:  224.72,
			},
		},
	},
	{
		ID:           "15058365",
		Status:       domain.OrderStatusDraft,
		Customer:     "Bayview Construction Supply",
		OrderDate:    "2025-01-18",
		DeliveryDate: "2025-01-28",
		TotalAmount:  4040.00,
		Modifiable:   true,
		LineItems: []domain.LineItem{
			{
				ID:          "item-001",
				ProductName: "Steel Pipes",
				SKU:         "STL-PIPE-10FT",
				Quantity:    50,
				UnitPrice:   45.00,
				TotalPrice:  2250.00,
			},
			{
				ID:          "item-002",
				ProductName: "Aluminum Sheets",
				SKU:         "ALM-SHEET-4X8",
				Quantity:    20,
				UnitPrice:   89.50,
				TotalPrice:  1790.00,
			},
		},
	},
	{
		ID:           "15058364",
		Status:       domain.OrderStatusAcknowledged,
		Customer:     "Pacific Hydraulics Inc",
		OrderDate:    "2025-01-10",
		DeliveryDate: "2025-01-20",
		TotalAmount:  3918.75,
		Modifiable:   false,
		LineItems: []domain.LineItem{
			{
				ID:          "item-001",
				ProductName: "Hydraulic Valves",
				SKU:         "HYD-VALVE-2IN",
				Quantity:    25,
				UnitPrice:   156.75,
				TotalPrice:  3918.75,
			},
		},
	},
	{
		ID:           "51475010",
		Status:       domain.OrderStatusShipped,
		Customer:     "Cascade Food Services",
		OrderDate:    "2024-12-28",
		DeliveryDate: "2025-01-08",
		TotalAmount:  1246.00,
		Modifiable:   false,
		LineItems: []domain.LineItem{
			{
				ID:          "item-001",
				ProductName: "Paper Napkins",
				SKU:         "PPR-NAPKIN-CS",
				Quantity:    70,
				UnitPrice:   17.80,
				TotalPrice:  1246.00,
			},
		},
	},
}
