package domain

import "strings"

// OrderStatus описывает жизненный цикл заказа в системе Signal.
type OrderStatus string

const (
	// OrderStatusDraft — черновик; единственный статус, допускающий изменения.
	OrderStatusDraft OrderStatus = "DRAFT"
	// OrderStatusAcknowledged — заказ подтверждён поставщиком.
	OrderStatusAcknowledged OrderStatus = "ACKNOWLEDGED"
	// OrderStatusShipped — заказ отгружен.
	OrderStatusShipped OrderStatus = "SHIPPED"
	// OrderStatusDelivered — заказ доставлен получателю.
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

// LineItem представляет одну позицию заказа.
type LineItem struct {
	// ID позиции стабилен между мутациями (например, item-001).
	ID string `json:"id"`
	// ProductName — отображаемое имя товара; уникальность не гарантируется.
	ProductName string `json:"productName"`
	// SKU — внешний артикул, уникальный в пределах заказа.
	SKU string `json:"sku"`
	// Quantity — количество единиц, всегда положительное.
	Quantity int `json:"quantity"`
	// UnitPrice — цена за единицу.
	UnitPrice float64 `json:"unitPrice"`
	// TotalPrice — инвариант: Quantity * UnitPrice, пересчитывается при каждой мутации.
	TotalPrice float64 `json:"totalPrice"`
	// Notes — след последнего изменения позиции.
	Notes string `json:"notes,omitempty"`
}

// Order агрегирует состояние заказа и его позиции.
type Order struct {
	ID           string      `json:"id"`
	Status       OrderStatus `json:"status"`
	Customer     string      `json:"customer"`
	OrderDate    string      `json:"orderDate"`
	DeliveryDate string      `json:"deliveryDate"`
	TotalAmount  float64     `json:"totalAmount"`
	// Modifiable — инвариант: true тогда и только тогда, когда Status == DRAFT.
	Modifiable bool `json:"modifiable"`
	// Modified выставляется после первой применённой мутации.
	Modified bool `json:"modified"`
	// Notes — след последнего изменения заказа.
	Notes     string     `json:"notes,omitempty"`
	LineItems []LineItem `json:"lineItems"`
}

// LineItemByID возвращает позицию по идентификатору.
func (o *Order) LineItemByID(id string) (LineItem, bool) {
	for _, item := range o.LineItems {
		if item.ID == id {
			return item, true
		}
	}
	return LineItem{}, false
}

// Clone возвращает глубокую копию заказа. Хранилища отдают копии,
// чтобы вызывающий код не мутировал их внутреннее состояние.
func (o Order) Clone() Order {
	cp := o
	cp.LineItems = make([]LineItem, len(o.LineItems))
	copy(cp.LineItems, o.LineItems)
	return cp
}

// CloneOrders возвращает глубокую копию коллекции заказов.
func CloneOrders(orders []Order) []Order {
	out := make([]Order, len(orders))
	for i, o := range orders {
		out[i] = o.Clone()
	}
	return out
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if strings.TrimSpace(o.ID) == "" {
		errs = append(errs, ErrOrderIDRequired)
	}
	if o.Modifiable != (o.Status == OrderStatusDraft) {
		errs = append(errs, ErrModifiableMismatch)
	}

	// Сверяем сумму заказа с суммой позиций: quantity * unitPrice.
	var calc float64
	seen := make(map[string]struct{}, len(o.LineItems))
	for _, item := range o.LineItems {
		if item.Quantity <= 0 {
			errs = append(errs, ErrItemQuantityInvalid)
		}
		if item.UnitPrice < 0 {
			errs = append(errs, ErrItemPriceInvalid)
		}
		if !almostEqual(item.TotalPrice, float64(item.Quantity)*item.UnitPrice) {
			errs = append(errs, ErrItemTotalMismatch)
		}
		if _, dup := seen[item.ID]; dup {
			errs = append(errs, ErrItemIDDuplicate)
		}
		seen[item.ID] = struct{}{}
		calc += item.TotalPrice
	}
	if !almostEqual(calc, o.TotalAmount) {
		errs = append(errs, ErrAmountMismatch)
	}

	return errs
}

// almostEqual сравнивает денежные суммы с допуском на накопленную
// погрешность float64 (доли цента).
func almostEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 0.005
}
