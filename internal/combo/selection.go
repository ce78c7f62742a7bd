// Package combo validates per-group selections against a combo definition.
// All functions are pure: they never mutate the definition or the incoming
// selection.
package combo

import (
	"errors"
	"fmt"

	"github.com/restokit/pos-core/internal/catalog"
)

// Selection maps a selection group id to the ordered products picked in
// that group. A product picked twice (only possible when the group allows
// more than one pick) appears as repeated entries, not a count.
type Selection map[string][]catalog.Product

// ErrInvalidGroup signals a group id that the combo does not define.
// This is a caller defect, not a runtime validation failure.
var ErrInvalidGroup = errors.New("selection group not defined by combo")

func groupByID(def catalog.ComboDefinition, groupID string) (catalog.SelectionGroup, error) {
	for _, g := range def.Groups {
		if g.GroupID == groupID {
			return g, nil
		}
	}
	return catalog.SelectionGroup{}, fmt.Errorf("%w: %s in combo %s", ErrInvalidGroup, groupID, def.ComboID)
}

func indexOf(picked []catalog.Product, productID string) int {
	for i, p := range picked {
		if p.ProductID == productID {
			return i
		}
	}
	return -1
}

// CanToggle reports whether tapping product in groupID is currently
// permitted. Removal of an already-picked product is always allowed.
// Single-select groups always accept a tap: a new product replaces the
// current one rather than being rejected.
func CanToggle(def catalog.ComboDefinition, sel Selection, groupID string, product catalog.Product) (bool, error) {
	g, err := groupByID(def, groupID)
	if err != nil {
		return false, err
	}
	picked := sel[groupID]
	if indexOf(picked, product.ProductID) >= 0 {
		return true, nil
	}
	if g.MaxSelections == 1 {
		// replace-on-single-select
		return true, nil
	}
	return len(picked) < g.MaxSelections, nil
}

// Toggle applies a tap on product in groupID and returns the resulting
// selection: remove if picked, replace if the group is single-select,
// otherwise add while below the group maximum. A tap that is not permitted
// returns the selection unchanged.
func Toggle(def catalog.ComboDefinition, sel Selection, groupID string, product catalog.Product) (Selection, error) {
	g, err := groupByID(def, groupID)
	if err != nil {
		return sel, err
	}

	out := clone(sel)
	picked := out[groupID]

	if i := indexOf(picked, product.ProductID); i >= 0 {
		picked = append(picked[:i], picked[i+1:]...)
		if len(picked) == 0 {
			delete(out, groupID)
		} else {
			out[groupID] = picked
		}
		return out, nil
	}

	if g.MaxSelections == 1 {
		out[groupID] = []catalog.Product{product}
		return out, nil
	}

	if len(picked) >= g.MaxSelections {
		return out, nil
	}
	out[groupID] = append(picked, product)
	return out, nil
}

// IsComplete reports whether every group's pick count is within its
// [min, max] bound. Fixed combos have no groups and are vacuously complete.
func IsComplete(def catalog.ComboDefinition, sel Selection) bool {
	for _, g := range def.Groups {
		n := len(sel[g.GroupID])
		if n < g.MinSelections || n > g.MaxSelections {
			return false
		}
	}
	return true
}

// PriceOf returns the price of the configured combo. Combo pricing is flat:
// the selection decides what is prepared, not what it costs.
func PriceOf(def catalog.ComboDefinition, _ Selection) int64 {
	return def.TotalPrice
}

func clone(sel Selection) Selection {
	out := make(Selection, len(sel))
	for k, v := range sel {
		picked := make([]catalog.Product, len(v))
		copy(picked, v)
		out[k] = picked
	}
	return out
}
