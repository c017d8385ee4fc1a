// Package resolver сопоставляет свободную текстовую ссылку ("item-001",
// "CHK-NUGGETS-20LB", "fries") ровно с одной позицией заказа. Правила
// применяются по убыванию приоритета, побеждает первое сработавшее;
// между равноправными кандидатами резолвер никогда не выбирает сам.
package resolver

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/vladislavdragonenkov/signal-orders/internal/domain"
)

var (
	// Идентификатор позиции: item- и цифры.
	itemIDPattern = regexp.MustCompile(`\bitem-\d+\b`)
	// SKU: группы из заглавных букв/цифр, соединённые дефисами.
	skuPattern = regexp.MustCompile(`\b[A-Z0-9]+(?:-[A-Z0-9]+)+\b`)
)

// rule — одно именованное правило сопоставления. Возвращает всех
// кандидатов; интерпретация количества кандидатов лежит на Resolve.
type rule struct {
	name  string
	match func(items []domain.LineItem, ref string) []domain.LineItem
}

// Resolver держит упорядоченный список правил и таблицу синонимов
// товарных имён.
type Resolver struct {
	rules    []rule
	synonyms map[string][]string
}

// Option настраивает Resolver.
type Option func(*Resolver)

// WithSynonyms добавляет синонимы для товарного имени (ключ — имя товара,
// регистр не важен).
func WithSynonyms(productName string, synonyms ...string) Option {
	return func(r *Resolver) {
		key := strings.ToLower(productName)
		r.synonyms[key] = append(r.synonyms[key], synonyms...)
	}
}

// defaultSynonyms — разговорные сокращения, встречающиеся в инструкциях.
var defaultSynonyms = map[string][]string{
	"frozen chicken nuggets": {"chicken nuggets", "nuggets"},
	"french fries":           {"fries"},
	"steel pipes":            {"pipes"},
	"aluminum sheets":        {"sheets"},
	"hydraulic valves":       {"valves"},
}

// New возвращает резолвер со стандартным каскадом правил:
// item-id → SKU → имя товара/синоним.
func New(opts ...Option) *Resolver {
	r := &Resolver{synonyms: make(map[string][]string)}
	for name, syns := range defaultSynonyms {
		r.synonyms[name] = append(r.synonyms[name], syns...)
	}
	for _, opt := range opts {
		opt(r)
	}
	r.rules = []rule{
		{name: "item-id", match: matchByItemID},
		{name: "sku", match: matchBySKU},
		{name: "product-name", match: r.matchByProductName},
	}
	return r
}

// Resolve возвращает единственную позицию или ErrItemNotFound /
// ErrItemAmbiguous. Результат не зависит от того, каким из идентификаторов
// (id, SKU, имя) была названа позиция.
func (r *Resolver) Resolve(items []domain.LineItem, ref string) (domain.LineItem, error) {
	for _, rl := range r.rules {
		candidates := rl.match(items, ref)
		switch len(candidates) {
		case 0:
			continue
		case 1:
			return candidates[0], nil
		default:
			ids := make([]string, len(candidates))
			for i, c := range candidates {
				ids[i] = c.ID
			}
			sort.Strings(ids)
			return domain.LineItem{}, fmt.Errorf(
				"reference %q matches several items (%s), rule %s: %w",
				ref, strings.Join(ids, ", "), rl.name, domain.ErrItemAmbiguous)
		}
	}
	return domain.LineItem{}, fmt.Errorf("no line item matches reference %q: %w", ref, domain.ErrItemNotFound)
}

// matchByItemID ищет в ссылке явные идентификаторы позиций.
func matchByItemID(items []domain.LineItem, ref string) []domain.LineItem {
	tokens := itemIDPattern.FindAllString(strings.ToLower(ref), -1)
	if len(tokens) == 0 {
		return nil
	}
	var out []domain.LineItem
	for _, item := range items {
		for _, tok := range tokens {
			if item.ID == tok {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// matchBySKU сопоставляет SKU-токены из ссылки с артикулами позиций.
func matchBySKU(items []domain.LineItem, ref string) []domain.LineItem {
	tokens := skuPattern.FindAllString(ref, -1)
	if len(tokens) == 0 {
		return nil
	}
	var out []domain.LineItem
	for _, item := range items {
		for _, tok := range tokens {
			if item.SKU == tok {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// matchByProductName проверяет, содержит ли ссылка имя товара либо один из
// его объявленных синонимов (без учёта регистра).
func (r *Resolver) matchByProductName(items []domain.LineItem, ref string) []domain.LineItem {
	lref := strings.ToLower(ref)
	var out []domain.LineItem
	for _, item := range items {
		name := strings.ToLower(item.ProductName)
		if name != "" && strings.Contains(lref, name) {
			out = append(out, item)
			continue
		}
		for _, syn := range r.synonyms[name] {
			if strings.Contains(lref, strings.ToLower(syn)) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}
