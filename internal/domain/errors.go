package domain

import "errors"

var (
	// ErrStorageUnavailable — хранилище недоступно или вернуло
	// некорректный документ; мутацию продолжать нельзя.
	ErrStorageUnavailable = errors.New("order storage unavailable")
	// ErrStorageWriteFailed — запись коллекции не удалась; успех
	// пользователю сообщать нельзя.
	ErrStorageWriteFailed = errors.New("order storage write failed")
	// ErrOrderNotFound возвращается, если заказ не найден в коллекции.
	ErrOrderNotFound = errors.New("order not found")
	// ErrItemNotFound — ссылка не сопоставилась ни с одной позицией.
	ErrItemNotFound = errors.New("line item not found")
	// ErrItemAmbiguous — ссылка подходит сразу к нескольким позициям;
	// резолвер никогда не угадывает.
	ErrItemAmbiguous = errors.New("line item reference is ambiguous")
	// ErrOrderNotModifiable — мутация запрошена для заказа вне статуса DRAFT.
	ErrOrderNotModifiable = errors.New("order is not modifiable")
	// ErrInvalidQuantity — целевое количество не является положительным целым.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	// ErrUnrecognizedInstruction — инструкцию не удалось классифицировать.
	ErrUnrecognizedInstruction = errors.New("instruction not recognized")

	// Ошибки инвариантов заказа.
	ErrOrderIDRequired     = errors.New("order id is required")
	ErrModifiableMismatch  = errors.New("modifiable flag does not match status")
	ErrItemQuantityInvalid = errors.New("item quantity must be greater than zero")
	ErrItemPriceInvalid    = errors.New("item unit price must be non-negative")
	ErrItemTotalMismatch   = errors.New("item total does not equal quantity * unit price")
	ErrItemIDDuplicate     = errors.New("duplicate line item id")
	ErrAmountMismatch      = errors.New("order total does not match items sum")
)

// IsUserInput сообщает, является ли ошибка ожидаемым пользовательским
// условием. Такие ошибки не логируются как системные сбои.
func IsUserInput(err error) bool {
	switch {
	case errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrItemNotFound),
		errors.Is(err, ErrItemAmbiguous),
		errors.Is(err, ErrOrderNotModifiable),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrUnrecognizedInstruction):
		return true
	}
	return false
}
