package cart

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/restokit/pos-core/internal/catalog"
	"github.com/restokit/pos-core/internal/combo"
)

// Line kinds
const (
	KindProduct         = "product"
	KindFixedCombo      = "fixed_combo"
	KindConfiguredCombo = "configured_combo"
)

// ErrIncompleteSelection is returned when a configured combo is added with
// a selection that does not satisfy every group's bounds. Callers are
// expected to gate on combo.IsComplete first; this is the defensive check.
var ErrIncompleteSelection = errors.New("combo selection incomplete")

// ChosenGroup is the frozen record of what was picked in one selection
// group, in the combo definition's group order.
type ChosenGroup struct {
	GroupID      string   `json:"group_id"`
	Label        string   `json:"label,omitempty"`
	ProductNames []string `json:"product_names"`
}

// Line is one entry in the cart. UnitPrice is captured when the line is
// added and never recomputed, even if catalog prices change afterwards.
type Line struct {
	InstanceID string        `json:"instance_id"`
	SourceID   string        `json:"source_id"`
	Name       string        `json:"name"`
	Kind       string        `json:"kind"`
	UnitPrice  int64         `json:"unit_price"`
	Quantity   int           `json:"quantity"`
	Selection  []ChosenGroup `json:"selection,omitempty"`
	Note       string        `json:"note,omitempty"`
}

// Cart holds the line items for one register session. All methods are safe
// for concurrent use: gin serves requests on separate goroutines, and two
// in-flight requests can carry the same register id.
type Cart struct {
	mu    sync.Mutex
	newID func() string
	lines []Line
}

// New returns an empty cart with uuid instance ids.
func New() *Cart {
	return NewWithIDGenerator(uuid.NewString)
}

// NewWithIDGenerator lets callers inject the instance id source.
func NewWithIDGenerator(newID func() string) *Cart {
	return &Cart{newID: newID}
}

// AddProduct appends a new product line. Each call creates a distinct line;
// identical adds are never merged. Quantities below one default to one.
func (c *Cart) AddProduct(p catalog.Product, quantity int, note string) string {
	line := Line{
		InstanceID: c.newID(),
		SourceID:   p.ProductID,
		Name:       p.Name,
		Kind:       KindProduct,
		UnitPrice:  p.Price,
		Quantity:   normalizeQuantity(quantity),
		Note:       note,
	}
	c.mu.Lock()
	c.lines = append(c.lines, line)
	c.mu.Unlock()
	return line.InstanceID
}

// AddFixedCombo appends a fixed combo line at the combo's flat price.
func (c *Cart) AddFixedCombo(def catalog.ComboDefinition, quantity int) string {
	line := Line{
		InstanceID: c.newID(),
		SourceID:   def.ComboID,
		Name:       def.Name,
		Kind:       KindFixedCombo,
		UnitPrice:  def.TotalPrice,
		Quantity:   normalizeQuantity(quantity),
	}
	c.mu.Lock()
	c.lines = append(c.lines, line)
	c.mu.Unlock()
	return line.InstanceID
}

// AddConfiguredCombo appends a selectable combo line with its selection
// snapshotted in definition group order. The cart is left untouched if the
// selection is incomplete.
func (c *Cart) AddConfiguredCombo(def catalog.ComboDefinition, sel combo.Selection, quantity int) (string, error) {
	if !combo.IsComplete(def, sel) {
		return "", ErrIncompleteSelection
	}

	chosen := make([]ChosenGroup, 0, len(def.Groups))
	for _, g := range def.Groups {
		picked := sel[g.GroupID]
		if len(picked) == 0 {
			continue
		}
		names := make([]string, 0, len(picked))
		for _, p := range picked {
			names = append(names, p.Name)
		}
		chosen = append(chosen, ChosenGroup{
			GroupID:      g.GroupID,
			Label:        g.Name,
			ProductNames: names,
		})
	}

	line := Line{
		InstanceID: c.newID(),
		SourceID:   def.ComboID,
		Name:       def.Name,
		Kind:       KindConfiguredCombo,
		UnitPrice:  combo.PriceOf(def, sel),
		Quantity:   normalizeQuantity(quantity),
		Selection:  chosen,
	}
	c.mu.Lock()
	c.lines = append(c.lines, line)
	c.mu.Unlock()
	return line.InstanceID, nil
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes the line entirely; decrementing to zero deletes the item.
func (c *Cart) UpdateQuantity(instanceID string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if quantity <= 0 {
		c.removeLine(instanceID)
		return
	}
	for i := range c.lines {
		if c.lines[i].InstanceID == instanceID {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// RemoveLine deletes a line. Removing an absent id is a no-op.
func (c *Cart) RemoveLine(instanceID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLine(instanceID)
}

func (c *Cart) removeLine(instanceID string) {
	for i := range c.lines {
		if c.lines[i].InstanceID == instanceID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Lines returns a copy of the current line items.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// LineCount returns the number of distinct lines.
func (c *Cart) LineCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// TotalQuantity sums line quantities.
func (c *Cart) TotalQuantity() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// Subtotal is always recomputed from current line state; nothing is cached.
func (c *Cart) Subtotal() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total int64
	for _, l := range c.lines {
		total += l.UnitPrice * int64(l.Quantity)
	}
	return total
}

func normalizeQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

// Registry hands out the cart for a register id, creating it on first use.
// Lookups are safe for concurrent use, as are the carts it returns.
type Registry struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewRegistry() *Registry {
	return &Registry{carts: map[string]*Cart{}}
}

func (r *Registry) Cart(registerID string) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[registerID]
	if !ok {
		c = New()
		r.carts[registerID] = c
	}
	return c
}
