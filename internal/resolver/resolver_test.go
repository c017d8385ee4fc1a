package resolver_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/vladislavdragonenkov/signal-orders/internal/domain"
	"github.com/vladislavdragonenkov/signal-orders/internal/resolver"
)

func kitchenItems() []domain.LineItem {
	return []domain.LineItem{
		{ID: "item-001", ProductName: "Frozen Chicken Nuggets", SKU: "CHK-NUGGETS-20LB", Quantity: 28, UnitPrice: 320, TotalPrice: 8960},
		{ID: "item-002", ProductName: "French Fries", SKU: "FRY-CRINKLE-5LB", Quantity: 8, UnitPrice: 28.09, TotalPrice: 224.72},
	}
}

func TestResolve_Cascade(t *testing.T) {
	r := resolver.New()
	items := kitchenItems()

	cases := []struct {
		name string
		ref  string
		want string
	}{
		{"explicit item id", "add 1 case to item-001", "item-001"},
		{"item id wins over product name", "set item-002 for the chicken nuggets order", "item-002"},
		{"sku token", "change CHK-NUGGETS-20LB to 30 units", "item-001"},
		{"product name substring", "remove the French Fries from the order", "item-002"},
		{"product name is case-insensitive", "remove french fries", "item-002"},
		{"declared synonym", "remove fries", "item-002"},
		{"synonym for nuggets", "update nuggets quantity to 30", "item-001"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item, err := r.Resolve(items, tc.ref)
			if err != nil {
				t.Fatalf("resolve failed: %v", err)
			}
			if item.ID != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, item.ID)
			}
		})
	}
}

// Ссылки на одну и ту же позицию через id, SKU и имя обязаны давать один
// и тот же результат.
func TestResolve_ReferenceMethodAgnostic(t *testing.T) {
	r := resolver.New()
	items := kitchenItems()

	refs := []string{"item-001", "CHK-NUGGETS-20LB", "frozen chicken nuggets"}
	for _, ref := range refs {
		item, err := r.Resolve(items, ref)
		if err != nil {
			t.Fatalf("resolve %q failed: %v", ref, err)
		}
		if item.ID != "item-001" {
			t.Fatalf("reference %q resolved to %s, expected item-001", ref, item.ID)
		}
	}
}

func TestResolve_NotFound(t *testing.T) {
	r := resolver.New()

	_, err := r.Resolve(kitchenItems(), "remove the onion rings")
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestResolve_SharedSynonymIsAmbiguous(t *testing.T) {
	items := []domain.LineItem{
		{ID: "item-001", ProductName: "Chicken Breasts", SKU: "CHK-BRST-10LB"},
		{ID: "item-002", ProductName: "Turkey Breasts", SKU: "TRK-BRST-10LB"},
	}
	r := resolver.New(
		resolver.WithSynonyms("Chicken Breasts", "breasts"),
		resolver.WithSynonyms("Turkey Breasts", "breasts"),
	)

	_, err := r.Resolve(items, "remove 2 breasts")
	if !errors.Is(err, domain.ErrItemAmbiguous) {
		t.Fatalf("expected ErrItemAmbiguous, got %v", err)
	}
	if !strings.Contains(err.Error(), "item-001") || !strings.Contains(err.Error(), "item-002") {
		t.Fatalf("ambiguity error should name both candidates, got %q", err)
	}
}

func TestResolve_DuplicateProductNameIsAmbiguous(t *testing.T) {
	items := []domain.LineItem{
		{ID: "item-001", ProductName: "French Fries", SKU: "FRY-CRINKLE-5LB"},
		{ID: "item-002", ProductName: "French Fries", SKU: "FRY-SHOESTRING-5LB"},
	}
	r := resolver.New()

	_, err := r.Resolve(items, "remove french fries")
	if !errors.Is(err, domain.ErrItemAmbiguous) {
		t.Fatalf("expected ErrItemAmbiguous, got %v", err)
	}

	// SKU остаётся однозначным даже при совпадающих именах.
	item, err := r.Resolve(items, "remove FRY-SHOESTRING-5LB")
	if err != nil {
		t.Fatalf("resolve by sku failed: %v", err)
	}
	if item.ID != "item-002" {
		t.Fatalf("expected item-002, got %s", item.ID)
	}
}

func TestResolve_RemovedItemNoStaleMatch(t *testing.T) {
	r := resolver.New()
	items := kitchenItems()[:1] // French Fries уже удалены

	_, err := r.Resolve(items, "remove french fries")
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound after removal, got %v", err)
	}
}
