package domain

import "math"

// ActionType enumerates cart state transitions
type ActionType string

const (
	ActionAddItem           ActionType = "ADD_ITEM"
	ActionRemoveItem        ActionType = "REMOVE_ITEM"
	ActionUpdateQuantity    ActionType = "UPDATE_QUANTITY"
	ActionClearCart         ActionType = "CLEAR_CART"
	ActionToggleSelectItem  ActionType = "TOGGLE_SELECT_ITEM"
	ActionRemoveSelected    ActionType = "REMOVE_SELECTED_ITEMS"
	ActionSelectAll         ActionType = "SELECT_ALL_ITEMS"
	ActionUnselectAll       ActionType = "UNSELECT_ALL_ITEMS"
	ActionApplyDiscount     ActionType = "APPLY_DISCOUNT"
	ActionRecalculateTotals ActionType = "RECALCULATE_TOTALS"
)

// Action is the input to Reduce. Only the fields relevant to the
// action type are read.
type Action struct {
	Type      ActionType
	Item      CartItem // ADD_ITEM
	ProductID int      // REMOVE_ITEM, UPDATE_QUANTITY, TOGGLE_SELECT_ITEM
	Quantity  int      // UPDATE_QUANTITY
	Discount  float64  // APPLY_DISCOUNT
	Shipping  float64  // APPLY_DISCOUNT
}

// Reduce is the pure cart state machine: it returns the next state
// without mutating its input. It never derives totals except on
// RECALCULATE_TOTALS, which the store dispatches after every mutation.
func Reduce(state CartState, action Action) CartState {
	switch action.Type {
	case ActionAddItem:
		next := cloneState(state)
		if existing := next.FindItem(action.Item.ProductID); existing != nil {
			// Merge into the existing line; the cap is enforced by
			// UPDATE_QUANTITY, not here
			existing.Quantity += action.Item.Quantity
			return next
		}
		next.Items = append(next.Items, action.Item)
		return next

	case ActionRemoveItem:
		next := cloneState(state)
		items := next.Items[:0]
		for _, item := range next.Items {
			if item.ProductID != action.ProductID {
				items = append(items, item)
			}
		}
		next.Items = items
		return next

	case ActionUpdateQuantity:
		next := cloneState(state)
		if item := next.FindItem(action.ProductID); item != nil {
			item.Quantity = clamp(action.Quantity, 1, item.QuantityCap())
		}
		return next

	case ActionClearCart:
		return InitialState()

	case ActionToggleSelectItem:
		next := cloneState(state)
		if item := next.FindItem(action.ProductID); item != nil {
			item.Selected = !item.Selected
		}
		return next

	case ActionRemoveSelected:
		next := cloneState(state)
		items := next.Items[:0]
		for _, item := range next.Items {
			if !item.Selected {
				items = append(items, item)
			}
		}
		next.Items = items
		return next

	case ActionSelectAll:
		next := cloneState(state)
		for i := range next.Items {
			next.Items[i].Selected = true
		}
		return next

	case ActionUnselectAll:
		next := cloneState(state)
		for i := range next.Items {
			next.Items[i].Selected = false
		}
		return next

	case ActionApplyDiscount:
		next := cloneState(state)
		next.Discount = action.Discount
		next.Shipping = action.Shipping
		return next

	case ActionRecalculateTotals:
		next := cloneState(state)

		// An empty cart carries no totals, shipping, or discount
		if len(next.Items) == 0 {
			return InitialState()
		}

		totalItems := 0
		for _, item := range next.Items {
			totalItems += item.Quantity
		}
		subtotal := next.Subtotal()

		// Shipping is sticky at an explicit override; the threshold rule
		// only applies while the stored value is zero
		shipping := next.Shipping
		if shipping == 0 {
			if subtotal >= FreeShippingThreshold {
				shipping = 0
			} else {
				shipping = FlatShippingFee
			}
		}

		tax := subtotal * TaxRate
		discount := math.Min(next.Discount, subtotal)

		next.TotalItems = totalItems
		next.Shipping = shipping
		next.Tax = tax
		next.TotalPrice = math.Max(0, subtotal+shipping+tax-discount)
		return next

	default:
		return state
	}
}

func cloneState(state CartState) CartState {
	next := state
	next.Items = make([]CartItem, len(state.Items))
	copy(next.Items, state.Items)
	return next
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
