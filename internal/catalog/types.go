package catalog

// Combo types
const (
	ComboFixed      = "FIXED"
	ComboSelectable = "SELECTABLE"
)

// Product is a sellable unit from the menu. Prices are minor currency
// units (cents). Products are read-only for the duration of a cart session.
type Product struct {
	ProductID  string `dynamodbav:"product_id" json:"product_id"` // PK
	Name       string `dynamodbav:"name" json:"name"`
	Price      int64  `dynamodbav:"price" json:"price"`
	CategoryID string `dynamodbav:"category_id" json:"category_id"`
	Available  bool   `dynamodbav:"available" json:"available"`
}

// Category groups products for display and for combo candidate resolution.
type Category struct {
	CategoryID string `dynamodbav:"category_id" json:"category_id"` // PK
	Name       string `dynamodbav:"name" json:"name"`
}

// SelectionGroup is one choice slot inside a selectable combo.
// Candidates are resolved at menu load time (available products of the
// group's category) and are not persisted with the combo record.
type SelectionGroup struct {
	GroupID       string    `dynamodbav:"group_id" json:"group_id"`
	Name          string    `dynamodbav:"name,omitempty" json:"name,omitempty"`
	CategoryID    string    `dynamodbav:"category_id" json:"category_id"`
	MinSelections int       `dynamodbav:"min_selections" json:"min_selections"`
	MaxSelections int       `dynamodbav:"max_selections" json:"max_selections"`
	Candidates    []Product `dynamodbav:"-" json:"candidates,omitempty"`
}

// ComboDefinition describes a combo meal: FIXED combos have no groups,
// SELECTABLE combos carry an ordered list of selection groups. Combo price
// is flat regardless of which candidates are picked.
type ComboDefinition struct {
	ComboID    string           `dynamodbav:"combo_id" json:"combo_id"` // PK
	Name       string           `dynamodbav:"name" json:"name"`
	TotalPrice int64            `dynamodbav:"total_price" json:"total_price"`
	Type       string           `dynamodbav:"combo_type" json:"combo_type"` // FIXED | SELECTABLE
	Groups     []SelectionGroup `dynamodbav:"groups,omitempty" json:"groups,omitempty"`
}

// DiningTable is a destination supplied by the table collaborator.
type DiningTable struct {
	TableID   string `dynamodbav:"table_id" json:"table_id"` // PK
	Name      string `dynamodbav:"name" json:"name"`
	Available bool   `dynamodbav:"available" json:"available"`
}

// Menu is the assembled, candidate-resolved catalog served to registers.
type Menu struct {
	Products []Product         `json:"products"`
	Combos   []ComboDefinition `json:"combos"`
}

// Product looks up a product by id.
func (m *Menu) Product(id string) (Product, bool) {
	for _, p := range m.Products {
		if p.ProductID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Combo looks up a combo definition by id.
func (m *Menu) Combo(id string) (ComboDefinition, bool) {
	for _, c := range m.Combos {
		if c.ComboID == id {
			return c, true
		}
	}
	return ComboDefinition{}, false
}
