// Package instruction классифицирует свободный текст инструкции в
// структурированный запрос: показать заказ, перечислить заказы, изменить
// позицию или «не распознано». Разбор построен как упорядоченный список
// именованных правил; побеждает первое сработавшее. Парсер никогда не
// достраивает недостающие поля сам — вместо догадки возвращается
// уточняющий вопрос.
package instruction

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind — класс распознанной инструкции.
type Kind string

const (
	KindHelp         Kind = "help"
	KindListOrders   Kind = "listOrders"
	KindGetOrder     Kind = "getOrder"
	KindModify       Kind = "modify"
	KindUnrecognized Kind = "unrecognized"
)

// Operation — вид мутации.
type Operation string

const (
	OpUpdateQuantity Operation = "updateQuantity"
	OpRemoveItem     Operation = "removeItem"
)

// Request — структурированный результат разбора.
type Request struct {
	Kind    Kind
	OrderID string
	// Reference — исходный текст инструкции; резолвер ищет в нём
	// идентификатор позиции, SKU или имя товара.
	Reference string
	Op        Operation
	Quantity  int
	// Additive — количество нужно прибавить к текущему («add 2 cases»),
	// а не установить.
	Additive bool
	// Clarification — уточняющий вопрос для KindUnrecognized.
	Clarification string
}

var (
	// Идентификатор заказа — 8-значное число в любом месте текста.
	orderIDPattern = regexp.MustCompile(`\b\d{8}\b`)

	removeKeywords = regexp.MustCompile(`\b(remove|delete)\b`)
	updateKeywords = regexp.MustCompile(`\b(add|modify|change|update|reduce)\b`)
	addKeyword     = regexp.MustCompile(`\badd\b`)

	helpPattern = regexp.MustCompile(`\bhelp\b|what can you do`)
	listPattern = regexp.MustCompile(`\b(list|show|available|all)\b[^.]*\borders\b`)

	orderWordPattern = regexp.MustCompile(`\border\b`)
)

// quantityRule — одно правило каскада извлечения количества.
type quantityRule struct {
	name    string
	pattern *regexp.Regexp
	// group — номер capture-группы с целевым количеством.
	group int
}

// Каскад количеств, в порядке приоритета: число с единицей измерения,
// число после «to», второе число в «from X to Y».
var quantityRules = []quantityRule{
	{name: "unit-word", pattern: regexp.MustCompile(`\b(\d+)\s*(?:units?|quantity|qty|cases?)\b`), group: 1},
	{name: "to-number", pattern: regexp.MustCompile(`\bto\s+(\d+)\b`), group: 1},
	{name: "from-to", pattern: regexp.MustCompile(`\bfrom\s+\d+\s+to\s+(\d+)\b`), group: 1},
}

// Parse классифицирует инструкцию. Текст сохраняется в Reference как есть,
// чтобы резолвер мог работать с оригинальными токенами (SKU чувствительны
// к регистру).
func Parse(text string) Request {
	req := Request{Reference: strings.TrimSpace(text)}
	lower := strings.ToLower(req.Reference)

	if req.Reference == "" {
		req.Kind = KindUnrecognized
		req.Clarification = "Please tell me what you would like to do, for example: \"add 2 cases to item-001 in order 15053222\"."
		return req
	}

	req.OrderID = orderIDPattern.FindString(lower)

	if helpPattern.MatchString(lower) {
		req.Kind = KindHelp
		return req
	}

	switch {
	case removeKeywords.MatchString(lower):
		if req.OrderID == "" {
			return unrecognized(req, "Which order should I remove the item from? Please include the 8-digit order id.")
		}
		req.Kind = KindModify
		req.Op = OpRemoveItem
		return req

	case updateKeywords.MatchString(lower):
		qty, ok := extractQuantity(lower, req.OrderID)
		if !ok {
			return unrecognized(req, "What quantity should I set? Please include a number, for example \"change fries to 12 units\".")
		}
		if req.OrderID == "" {
			return unrecognized(req, "Which order should I update? Please include the 8-digit order id.")
		}
		req.Kind = KindModify
		req.Op = OpUpdateQuantity
		req.Quantity = qty
		req.Additive = addKeyword.MatchString(lower)
		return req
	}

	if req.OrderID != "" {
		// Идентификатор без глагола и количества — запрос «покажи заказ».
		req.Kind = KindGetOrder
		return req
	}

	if listPattern.MatchString(lower) {
		req.Kind = KindListOrders
		return req
	}

	if orderWordPattern.MatchString(lower) {
		return unrecognized(req, "Which order do you mean? Please include the 8-digit order id.")
	}

	// Полностью нераспознанный текст: уточняющего вопроса нет, решение
	// о дальнейшей обработке принимает вызывающая сторона.
	req.Kind = KindUnrecognized
	return req
}

func unrecognized(req Request, clarification string) Request {
	req.Kind = KindUnrecognized
	req.Clarification = clarification
	return req
}

// extractQuantity прогоняет каскад правил и возвращает первое найденное
// количество. Числа, совпадающие с идентификатором заказа, пропускаются.
func extractQuantity(lower, orderID string) (int, bool) {
	for _, rule := range quantityRules {
		for _, match := range rule.pattern.FindAllStringSubmatch(lower, -1) {
			token := match[rule.group]
			if token == orderID {
				continue
			}
			qty, err := strconv.Atoi(token)
			if err != nil {
				continue
			}
			return qty, true
		}
	}
	return 0, false
}
