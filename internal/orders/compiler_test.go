package orders

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/restokit/pos-core/internal/cart"
	"github.com/restokit/pos-core/internal/catalog"
	"github.com/restokit/pos-core/internal/combo"
)

func testCompiler() *Compiler {
	c := NewCompiler()
	c.nowFunc = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }
	n := 0
	c.newID = func() string {
		n++
		return fmt.Sprintf("order-%d", n)
	}
	c.numberFunc = func(time.Time) string { return "POS-TEST-001" }
	return c
}

func TestCompile_TaxAndTotals(t *testing.T) {
	lines := []cart.Line{
		{InstanceID: "l1", Name: "Burger", Kind: cart.KindProduct, UnitPrice: 120, Quantity: 1},
		{InstanceID: "l2", Name: "Cola", Kind: cart.KindProduct, UnitPrice: 60, Quantity: 1},
	}

	order, err := testCompiler().Compile(lines, "table-1", 0.1, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.Subtotal != 180 {
		t.Fatalf("subtotal = %d, want 180", order.Subtotal)
	}
	if order.TaxAmount != 18 {
		t.Fatalf("tax = %d, want 18", order.TaxAmount)
	}
	if order.TotalAmount != 198 {
		t.Fatalf("total = %d, want 198", order.TotalAmount)
	}
	if order.Status != StatusPending {
		t.Fatalf("status = %s, want %s", order.Status, StatusPending)
	}
}

func TestCompile_AggregateRounding(t *testing.T) {
	// 3 * 35 = 105; 105 * 0.07 = 7.35 -> rounds half-up once to 7.
	// Per-line rounding (3 * round(35*0.07) = 3*2 = 6) would drift.
	lines := []cart.Line{
		{InstanceID: "l1", Name: "Soup", UnitPrice: 35, Quantity: 3, Kind: cart.KindProduct},
	}

	order, err := testCompiler().Compile(lines, "table-2", 0.07, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.TaxAmount != 7 {
		t.Fatalf("tax = %d, want 7 (single aggregate rounding)", order.TaxAmount)
	}
}

func TestCompile_EmptyCart(t *testing.T) {
	_, err := testCompiler().Compile(nil, "table-1", 0.1, "")
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCompile_MissingDestination(t *testing.T) {
	lines := []cart.Line{{InstanceID: "l1", Name: "Burger", UnitPrice: 120, Quantity: 1, Kind: cart.KindProduct}}
	_, err := testCompiler().Compile(lines, "", 0.1, "")
	if !errors.Is(err, ErrMissingDestination) {
		t.Fatalf("expected ErrMissingDestination, got %v", err)
	}
}

func TestCompile_RendersComboSelection(t *testing.T) {
	lines := []cart.Line{
		{
			InstanceID: "l1",
			Name:       "Lunch Set",
			Kind:       cart.KindConfiguredCombo,
			UnitPrice:  22000,
			Quantity:   1,
			Selection: []cart.ChosenGroup{
				{GroupID: "main", Label: "Main", ProductNames: []string{"Burger"}},
				{GroupID: "side", Label: "Side", ProductNames: []string{"Fries", "Salad"}},
			},
		},
	}

	order, err := testCompiler().Compile(lines, "table-3", 0.1, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := order.Lines[0].SpecialInstructions
	if !strings.Contains(got, "Main: Burger") {
		t.Fatalf("instructions missing main group: %q", got)
	}
	if !strings.Contains(got, "Side: Fries, Salad") {
		t.Fatalf("instructions missing side group: %q", got)
	}
}

func TestCompile_LineNotePassedThrough(t *testing.T) {
	lines := []cart.Line{
		{InstanceID: "l1", Name: "Cola", Kind: cart.KindProduct, UnitPrice: 60, Quantity: 1, Note: "no ice"},
	}
	order, err := testCompiler().Compile(lines, "table-1", 0.1, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Lines[0].SpecialInstructions != "no ice" {
		t.Fatalf("note lost: %q", order.Lines[0].SpecialInstructions)
	}
}

// Full flow: fixed combo + plain product through a real cart into Compile.
func TestCompile_EndToEnd(t *testing.T) {
	session := cart.New()
	session.AddFixedCombo(catalog.ComboDefinition{
		ComboID: "family-box", Name: "Family Box", TotalPrice: 220, Type: catalog.ComboFixed,
	}, 1)
	session.AddProduct(catalog.Product{
		ProductID: "p-cola", Name: "Cola", Price: 60, CategoryID: "drinks", Available: true,
	}, 2, "")

	if session.Subtotal() != 340 {
		t.Fatalf("cart subtotal = %d, want 340", session.Subtotal())
	}

	order, err := testCompiler().Compile(session.Lines(), "table-5", 0.1, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.TotalAmount != 374 {
		t.Fatalf("total = %d, want 374", order.TotalAmount)
	}
	if len(order.Lines) != 2 {
		t.Fatalf("expected 2 order lines, got %d", len(order.Lines))
	}
	if order.Status != StatusPending {
		t.Fatalf("status = %s, want %s", order.Status, StatusPending)
	}
	if order.Destination != "table-5" {
		t.Fatalf("destination = %s, want table-5", order.Destination)
	}
}

// Order lines must be a snapshot: clearing the cart afterwards changes nothing.
func TestCompile_SnapshotIndependentOfCart(t *testing.T) {
	session := cart.New()
	def := catalog.ComboDefinition{
		ComboID: "lunch-set", Name: "Lunch Set", TotalPrice: 22000, Type: catalog.ComboSelectable,
		Groups: []catalog.SelectionGroup{
			{GroupID: "main", Name: "Main", CategoryID: "mains", MinSelections: 1, MaxSelections: 1},
		},
	}
	if _, err := session.AddConfiguredCombo(def, combo.Selection{
		"main": {catalog.Product{ProductID: "p-burger", Name: "Burger"}},
	}, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order, err := testCompiler().Compile(session.Lines(), "table-1", 0.1, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	session.Clear()

	if len(order.Lines) != 1 || order.Lines[0].ProductName != "Lunch Set" {
		t.Fatalf("order lines must survive cart clear: %+v", order.Lines)
	}
}
