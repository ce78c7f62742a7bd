package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/restokit/pos-core/internal/cart"
)

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// cross-field rules on AddItemRequest that tag syntax can't express
	v.RegisterStructValidation(addItemStructValidation, AddItemRequest{})

	return v
}

// addItemStructValidation ensures selections are present exactly when the
// kind calls for them: configured combos need at least one group, other
// kinds must not smuggle selections in.
func addItemStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(AddItemRequest)

	switch req.Kind {
	case cart.KindConfiguredCombo:
		if len(req.Selections) == 0 {
			sl.ReportError(req.Selections, "selections", "Selections", "selections_required", "configured combo needs selections")
		}
	default:
		if len(req.Selections) > 0 {
			sl.ReportError(req.Selections, "selections", "Selections", "selections_forbidden", "only configured combos take selections")
		}
	}
}
