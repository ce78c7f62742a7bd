package combo

import (
	"errors"
	"testing"

	"github.com/restokit/pos-core/internal/catalog"
)

func product(id, name string) catalog.Product {
	return catalog.Product{ProductID: id, Name: name, Price: 500, CategoryID: "cat", Available: true}
}

// lunchSet: one main (exactly one), up to two sides (at least one), one drink.
func lunchSet() catalog.ComboDefinition {
	return catalog.ComboDefinition{
		ComboID:    "lunch-set",
		Name:       "Lunch Set",
		TotalPrice: 22000,
		Type:       catalog.ComboSelectable,
		Groups: []catalog.SelectionGroup{
			{GroupID: "main", Name: "Main", CategoryID: "mains", MinSelections: 1, MaxSelections: 1},
			{GroupID: "side", Name: "Side", CategoryID: "sides", MinSelections: 1, MaxSelections: 2},
			{GroupID: "drink", Name: "Drink", CategoryID: "drinks", MinSelections: 1, MaxSelections: 1},
		},
	}
}

func TestToggle_AddAndRemove(t *testing.T) {
	def := lunchSet()
	fries := product("p-fries", "Fries")

	sel, err := Toggle(def, Selection{}, "side", fries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sel["side"]) != 1 || sel["side"][0].ProductID != "p-fries" {
		t.Fatalf("expected fries selected, got %+v", sel["side"])
	}

	// toggling again removes
	sel, err = Toggle(def, sel, "side", fries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sel["side"]) != 0 {
		t.Fatalf("expected empty side group after second toggle, got %+v", sel["side"])
	}
}

func TestToggle_SingleSelectReplaces(t *testing.T) {
	def := lunchSet()
	burger := product("p-burger", "Burger")
	pasta := product("p-pasta", "Pasta")

	sel, _ := Toggle(def, Selection{}, "main", burger)
	sel, err := Toggle(def, sel, "main", pasta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	picked := sel["main"]
	if len(picked) != 1 {
		t.Fatalf("single-select group must hold exactly one product, got %d", len(picked))
	}
	if picked[0].ProductID != "p-pasta" {
		t.Fatalf("expected newest product to win, got %s", picked[0].ProductID)
	}
}

func TestToggle_AtCapacityIsNoop(t *testing.T) {
	def := lunchSet()
	sel := Selection{
		"side": {product("p-fries", "Fries"), product("p-salad", "Salad")},
	}

	ok, err := CanToggle(def, sel, "side", product("p-soup", "Soup"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected CanToggle false at group capacity")
	}

	out, err := Toggle(def, sel, "side", product("p-soup", "Soup"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out["side"]) != 2 {
		t.Fatalf("expected selection unchanged at capacity, got %+v", out["side"])
	}
}

func TestToggle_DoesNotMutateInput(t *testing.T) {
	def := lunchSet()
	orig := Selection{"side": {product("p-fries", "Fries")}}

	_, err := Toggle(def, orig, "side", product("p-salad", "Salad"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orig["side"]) != 1 {
		t.Fatalf("input selection was mutated: %+v", orig["side"])
	}
}

func TestCanToggle_RemovalAlwaysAllowed(t *testing.T) {
	def := lunchSet()
	fries := product("p-fries", "Fries")
	sel := Selection{"side": {fries, product("p-salad", "Salad")}}

	ok, err := CanToggle(def, sel, "side", fries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("removal of a picked product must always be allowed")
	}
}

func TestIsComplete_Bounds(t *testing.T) {
	def := lunchSet()
	burger := product("p-burger", "Burger")
	fries := product("p-fries", "Fries")
	cola := product("p-cola", "Cola")

	cases := []struct {
		name string
		sel  Selection
		want bool
	}{
		{"empty", Selection{}, false},
		{"missing drink", Selection{"main": {burger}, "side": {fries}}, false},
		{"all satisfied", Selection{"main": {burger}, "side": {fries}, "drink": {cola}}, true},
		{"side over max", Selection{
			"main":  {burger},
			"side":  {fries, fries, fries},
			"drink": {cola},
		}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsComplete(def, tc.sel); got != tc.want {
				t.Fatalf("IsComplete = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsComplete_FixedComboVacuouslyTrue(t *testing.T) {
	def := catalog.ComboDefinition{ComboID: "family-box", Type: catalog.ComboFixed, TotalPrice: 45000}
	if !IsComplete(def, Selection{}) {
		t.Fatalf("fixed combo must be vacuously complete")
	}
}

func TestPriceOf_FlatPrice(t *testing.T) {
	def := lunchSet()
	sel := Selection{
		"main":  {product("p-burger", "Burger")},
		"side":  {product("p-fries", "Fries"), product("p-salad", "Salad")},
		"drink": {product("p-cola", "Cola")},
	}
	if got := PriceOf(def, sel); got != def.TotalPrice {
		t.Fatalf("combo price must be flat: got %d, want %d", got, def.TotalPrice)
	}
	if got := PriceOf(def, Selection{}); got != def.TotalPrice {
		t.Fatalf("combo price must not depend on the selection: got %d", got)
	}
}

func TestUnknownGroupIsAnError(t *testing.T) {
	def := lunchSet()

	if _, err := CanToggle(def, Selection{}, "dessert", product("p-cake", "Cake")); !errors.Is(err, ErrInvalidGroup) {
		t.Fatalf("expected ErrInvalidGroup, got %v", err)
	}
	if _, err := Toggle(def, Selection{}, "dessert", product("p-cake", "Cake")); !errors.Is(err, ErrInvalidGroup) {
		t.Fatalf("expected ErrInvalidGroup, got %v", err)
	}
}
