package orders

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/restokit/pos-core/internal/cart"
)

// Validation errors surfaced to the end user. Both leave the cart intact so
// the operator can correct and retry.
var (
	ErrEmptyCart          = errors.New("cannot compile an order from an empty cart")
	ErrMissingDestination = errors.New("order destination is required")
)

// Compiler turns a non-empty cart plus a destination into an immutable
// Order payload. It has no side effects; persistence and cart clearing are
// the caller's sequencing.
type Compiler struct {
	nowFunc    func() time.Time
	newID      func() string
	numberFunc func(time.Time) string
}

func NewCompiler() *Compiler {
	return &Compiler{
		nowFunc:    time.Now,
		newID:      uuid.NewString,
		numberFunc: defaultOrderNumber,
	}
}

// Compile builds the order. Tax is rounded half-up to the smallest currency
// unit once on the aggregate, not per line, so rounding never drifts.
func (c *Compiler) Compile(lines []cart.Line, destination string, taxRate float64, notes string) (Order, error) {
	if len(lines) == 0 {
		return Order{}, ErrEmptyCart
	}
	if destination == "" {
		return Order{}, ErrMissingDestination
	}

	now := c.nowFunc().UTC()
	orderLines := make([]OrderLine, 0, len(lines))
	var subtotal int64
	for _, l := range lines {
		total := l.UnitPrice * int64(l.Quantity)
		subtotal += total
		orderLines = append(orderLines, OrderLine{
			ProductName:         l.Name,
			Quantity:            l.Quantity,
			UnitPrice:           l.UnitPrice,
			TotalPrice:          total,
			SpecialInstructions: renderInstructions(l),
		})
	}

	tax := roundHalfUp(subtotal, taxRate)

	return Order{
		OrderID:     c.newID(),
		OrderNumber: c.numberFunc(now),
		Destination: destination,
		Lines:       orderLines,
		Subtotal:    subtotal,
		TaxAmount:   tax,
		TotalAmount: subtotal + tax,
		Status:      StatusPending,
		Notes:       notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// renderInstructions flattens a configured combo's selection into one
// kitchen-readable string, one segment per selection group. Plain product
// lines pass their note through.
func renderInstructions(l cart.Line) string {
	if len(l.Selection) == 0 {
		return l.Note
	}
	parts := make([]string, 0, len(l.Selection))
	for _, g := range l.Selection {
		label := g.Label
		if label == "" {
			label = g.GroupID
		}
		parts = append(parts, fmt.Sprintf("%s: %s", label, strings.Join(g.ProductNames, ", ")))
	}
	if l.Note != "" {
		parts = append(parts, l.Note)
	}
	return strings.Join(parts, " | ")
}

func roundHalfUp(amount int64, rate float64) int64 {
	return int64(math.Floor(float64(amount)*rate + 0.5))
}

// orderSeq disambiguates same-second submissions from one process. The
// display number is advisory; OrderID is the real identity and uniqueness
// across terminals belongs to the persistence layer.
var orderSeq atomic.Uint64

func defaultOrderNumber(now time.Time) string {
	n := orderSeq.Add(1)
	return fmt.Sprintf("POS-%s-%03d", now.Format("20060102150405"), n%1000)
}
