// Package render превращает заказы и результаты мутаций в структурированный
// текст для пользователя и для инструментов модели. Набор меток и порядок
// полей — контракт: хвостовые подсказки («can be modified» / «cannot be
// modified, status is X») и фразы подтверждений проверяются сценарными
// тестами и не должны меняться незаметно.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vladislavdragonenkov/signal-orders/internal/domain"
)

// Money форматирует денежную сумму: $9280.00.
func Money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// Order рендерит полную карточку заказа.
func Order(o domain.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Order Details for %s\n\n", o.ID)
	fmt.Fprintf(&b, "Customer: %s\n", o.Customer)
	if o.Modifiable {
		fmt.Fprintf(&b, "Status: %s (can be modified)\n", o.Status)
	} else {
		fmt.Fprintf(&b, "Status: %s (cannot be modified, status is %s)\n", o.Status, o.Status)
	}
	fmt.Fprintf(&b, "Order Date: %s\n", o.OrderDate)
	fmt.Fprintf(&b, "Delivery Date: %s\n", o.DeliveryDate)
	fmt.Fprintf(&b, "Total Amount: %s\n", Money(o.TotalAmount))
	if o.Modified {
		b.WriteString("Modified: Yes\n")
	}
	if o.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", o.Notes)
	}

	b.WriteString("\nLine Items:\n")
	for _, item := range o.LineItems {
		fmt.Fprintf(&b, "\n- %s (SKU: %s, ID: %s)\n", item.ProductName, item.SKU, item.ID)
		fmt.Fprintf(&b, "  Quantity: %d | Unit Price: %s | Total: %s\n",
			item.Quantity, Money(item.UnitPrice), Money(item.TotalPrice))
		if item.Notes != "" {
			fmt.Fprintf(&b, "  Notes: %s\n", item.Notes)
		}
	}

	if o.Modifiable {
		b.WriteString("\nThis order can be modified. Use modifyOrder to change quantities or remove items.")
	} else {
		fmt.Fprintf(&b, "\nThis order cannot be modified, status is %s. Only DRAFT orders can be modified.", o.Status)
	}

	return b.String()
}

// OrderList рендерит краткий список всех заказов.
func OrderList(orders []domain.Order) string {
	if len(orders) == 0 {
		return "No orders found."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d orders:\n", len(orders))
	for _, o := range orders {
		fmt.Fprintf(&b, "\n- %s | %s | %s | %s", o.ID, o.Customer, o.Status, Money(o.TotalAmount))
		if o.Modifiable {
			b.WriteString(" | can be modified")
		}
	}
	return b.String()
}

// UpdateSuccess подтверждает изменение количества. Включает и новый итог
// позиции, и новый итог заказа.
func UpdateSuccess(o domain.Order, item domain.LineItem, oldQuantity int) string {
	return fmt.Sprintf(
		"Successfully updated quantity of %s from %d to %d units in order %s.\n\nItem total: %s\nNew order total: %s",
		item.ProductName, oldQuantity, item.Quantity, o.ID,
		Money(item.TotalPrice), Money(o.TotalAmount))
}

// RemoveSuccess подтверждает удаление позиции.
func RemoveSuccess(o domain.Order, removed domain.LineItem) string {
	return fmt.Sprintf(
		"Successfully removed %s (%d units) from order %s.\n\nNew order total: %s",
		removed.ProductName, removed.Quantity, o.ID, Money(o.TotalAmount))
}

// Help описывает возможности ассистента и перечисляет доступные заказы.
func Help(orderIDs []string) string {
	var b strings.Builder
	b.WriteString("I help you manage purchase orders with plain-text commands.\n\n")
	b.WriteString("Get order details:\n")
	b.WriteString("- \"get order 15053222\"\n")
	b.WriteString("- \"show me all orders\"\n\n")
	b.WriteString("Modify orders (DRAFT only):\n")
	b.WriteString("- \"add 1 case to item-001 in order 15053222\"\n")
	b.WriteString("- \"change steel pipes to 75 units in order 15058365\"\n")
	b.WriteString("- \"remove french fries from order 15053222\"\n")
	if len(orderIDs) > 0 {
		fmt.Fprintf(&b, "\nAvailable orders: %s", strings.Join(orderIDs, ", "))
	}
	return b.String()
}

// Failure превращает доменную ошибку в понятное пользователю сообщение.
// Наружу никогда не уходит «сырая» ошибка.
func Failure(err error) string {
	switch {
	case errors.Is(err, domain.ErrStorageUnavailable):
		return "Error: the order storage is currently unavailable, so I cannot read your orders. Please try again later."
	case errors.Is(err, domain.ErrStorageWriteFailed):
		return "Error: the change could not be saved. The order was NOT modified. Please try again."
	case errors.Is(err, domain.ErrOrderNotFound):
		return fmt.Sprintf("Order Not Found: %s.", detail(err, domain.ErrOrderNotFound))
	case errors.Is(err, domain.ErrItemNotFound):
		return fmt.Sprintf("Line Item Not Found: %s.", detail(err, domain.ErrItemNotFound))
	case errors.Is(err, domain.ErrItemAmbiguous):
		return fmt.Sprintf("Ambiguous Reference: %s. Please refer to the item by its id or SKU.", detail(err, domain.ErrItemAmbiguous))
	case errors.Is(err, domain.ErrOrderNotModifiable):
		return fmt.Sprintf("Order Cannot Be Modified: %s. Only DRAFT orders can be modified.", detail(err, domain.ErrOrderNotModifiable))
	case errors.Is(err, domain.ErrInvalidQuantity):
		return fmt.Sprintf("Invalid Quantity: %s.", detail(err, domain.ErrInvalidQuantity))
	default:
		return "Error: the request could not be completed."
	}
}

// detail возвращает содержательную часть обёрнутой ошибки без текста
// сентинеля в хвосте.
func detail(err error, sentinel error) string {
	msg := err.Error()
	suffix := ": " + sentinel.Error()
	msg = strings.TrimSuffix(msg, suffix)
	return msg
}
