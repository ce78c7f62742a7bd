package validation

// SelectionEntry is one group's picks inside an add-configured-combo
// request. Product ids may repeat when the group allows multiple picks.
type SelectionEntry struct {
	GroupID    string   `json:"group_id" validate:"required"`
	ProductIDs []string `json:"product_ids" validate:"required,min=1"`
}

// AddItemRequest is the payload for POST /cart/items. Kind decides which
// fields matter: configured combos must carry selections, plain products
// and fixed combos must not.
type AddItemRequest struct {
	Kind       string           `json:"kind" validate:"required,oneof=product fixed_combo configured_combo"`
	SourceID   string           `json:"source_id" validate:"required"` // product or combo id
	Quantity   int              `json:"quantity" validate:"omitempty,min=1"`
	Note       string           `json:"note,omitempty"`
	Selections []SelectionEntry `json:"selections,omitempty" validate:"omitempty,dive"`
}

// UpdateQuantityRequest is the payload for PATCH /cart/items/:id.
// Zero is valid and deletes the line.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=0"`
}

// SubmitOrderRequest is the payload for POST /orders.
type SubmitOrderRequest struct {
	Destination string `json:"destination" validate:"required"` // table id or "takeaway"
	Notes       string `json:"notes,omitempty"`
}
