package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shopnow/storefront/internal/cart/domain"
)

func item(productID int, price float64, quantity int) domain.CartItem {
	return domain.CartItem{
		ProductID: productID,
		Title:     "Test Product",
		Price:     price,
		Quantity:  quantity,
	}
}

func recalc(state domain.CartState) domain.CartState {
	return domain.Reduce(state, domain.Action{Type: domain.ActionRecalculateTotals})
}

func TestReduce_AddItem_NewLine(t *testing.T) {
	state := domain.InitialState()

	next := domain.Reduce(state, domain.Action{Type: domain.ActionAddItem, Item: item(1, 9.99, 2)})

	require.Len(t, next.Items, 1)
	require.Equal(t, 2, next.Items[0].Quantity)
}

func TestReduce_AddItem_MergesByProductID(t *testing.T) {
	state := domain.InitialState()
	state = domain.Reduce(state, domain.Action{Type: domain.ActionAddItem, Item: item(1, 9.99, 2)})
	state = domain.Reduce(state, domain.Action{Type: domain.ActionAddItem, Item: item(1, 9.99, 3)})

	require.Len(t, state.Items, 1)
	require.Equal(t, 5, state.Items[0].Quantity)
}

func TestReduce_AddItem_DistinctProductsKeepSeparateLines(t *testing.T) {
	state := domain.InitialState()
	state = domain.Reduce(state, domain.Action{Type: domain.ActionAddItem, Item: item(1, 9.99, 1)})
	state = domain.Reduce(state, domain.Action{Type: domain.ActionAddItem, Item: item(2, 19.99, 1)})

	require.Len(t, state.Items, 2)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	state := domain.InitialState()
	state = domain.Reduce(state, domain.Action{Type: domain.ActionAddItem, Item: item(1, 9.99, 1)})

	_ = domain.Reduce(state, domain.Action{Type: domain.ActionUpdateQuantity, ProductID: 1, Quantity: 7})

	require.Equal(t, 1, state.Items[0].Quantity)
}

func TestReduce_UpdateQuantity_ClampsLowerBound(t *testing.T) {
	state := domain.InitialState()
	state = domain.Reduce(state, domain.Action{Type: domain.ActionAddItem, Item: item(1, 9.99, 5)})

	state = domain.Reduce(state, domain.Action{Type: domain.ActionUpdateQuantity, ProductID: 1, Quantity: 0})

	require.Equal(t, 1, state.Items[0].Quantity)
}

func TestReduce_UpdateQuantity_ClampsToMaxQuantity(t *testing.T) {
	line := item(1, 9.99, 5)
	line.MaxQuantity = 10

	state := domain.InitialState()
	state = domain.Reduce(state, domain.Action{Type: domain.ActionAddItem, Item: line})

	state = domain.Reduce(state, domain.Action{Type: domain.ActionUpdateQuantity, ProductID: 1, Quantity: 500})

	require.Equal(t, 10, state.Items[0].Quantity)
}

func TestReduce_UpdateQuantity_DefaultCap(t *testing.T) {
	state := domain.InitialState()
	state = domain.Reduce(state, domain.Action{Type: domain.ActionAddItem, Item: item(1, 9.99, 5)})

	state = domain.Reduce(state, domain.Action{Type: domain.ActionUpdateQuantity, ProductID: 1, Quantity: 500})

	require.Equal(t, domain.DefaultMaxQuantity, state.Items[0].Quantity)
}

func TestReduce_UpdateQuantity_UnknownProductIsNoop(t *testing.T) {
	state := domain.InitialState()
	state = domain.Reduce(state, domain.Action{Type: domain.ActionAddItem, Item: item(1, 9.99, 5)})

	next := domain.Reduce(state, domain.Action{Type: domain.ActionUpdateQuantity, ProductID: 42, Quantity: 3})

	require.Equal(t, state.Items, next.Items)
}

func TestReduce_RemoveItem(t *testing.T) {
	state := domain.InitialState()
	state = domain.Reduce(state, domain.Action{Type: domain.ActionAddItem, Item: item(1, 9.99, 1)})
	state = domain.Reduce(state, domain.Action{Type: domain.ActionAddItem, Item: item(2, 19.99, 1)})

	state = domain.Reduce(state, domain.Action{Type: domain.ActionRemoveItem, ProductID: 1})

	require.Len(t, state.Items, 1)
	require.Equal(t, 2, state.Items[0].ProductID)
}

func TestReduce_ClearCart_RestoresInitialState(t *testing.T) {
	state := domain.InitialState()
	state = domain.Reduce(state, domain.Action{Type: domain.ActionAddItem, Item: item(1, 100, 2)})
	state = recalc(state)
	state = domain.Reduce(state, domain.Action{Type: domain.ActionApplyDiscount, Discount: 10, Shipping: 0})

	state = domain.Reduce(state, domain.Action{Type: domain.ActionClearCart})

	require.Equal(t, domain.InitialState(), state)
}

func TestReduce_Selection(t *testing.T) {
	state := domain.InitialState()
	state = domain.Reduce(state, domain.Action{Type: domain.ActionAddItem, Item: item(1, 9.99, 1)})
	state = domain.Reduce(state, domain.Action{Type: domain.ActionAddItem, Item: item(2, 19.99, 1)})

	state = domain.Reduce(state, domain.Action{Type: domain.ActionToggleSelectItem, ProductID: 1})
	require.True(t, state.Items[0].Selected)
	require.False(t, state.Items[1].Selected)

	state = domain.Reduce(state, domain.Action{Type: domain.ActionSelectAll})
	for _, it := range state.Items {
		require.True(t, it.Selected)
	}

	state = domain.Reduce(state, domain.Action{Type: domain.ActionUnselectAll})
	for _, it := range state.Items {
		require.False(t, it.Selected)
	}
}

func TestReduce_RemoveSelected(t *testing.T) {
	state := domain.InitialState()
	state = domain.Reduce(state, domain.Action{Type: domain.ActionAddItem, Item: item(1, 9.99, 1)})
	state = domain.Reduce(state, domain.Action{Type: domain.ActionAddItem, Item: item(2, 19.99, 1)})
	state = domain.Reduce(state, domain.Action{Type: domain.ActionToggleSelectItem, ProductID: 1})

	state = domain.Reduce(state, domain.Action{Type: domain.ActionRemoveSelected})

	require.Len(t, state.Items, 1)
	require.Equal(t, 2, state.Items[0].ProductID)
}

func TestReduce_Recalculate_FlatShippingBelowThreshold(t *testing.T) {
	state := domain.InitialState()
	state = domain.Reduce(state, domain.Action{Type: domain.ActionAddItem, Item: item(1, 20, 2)})

	state = recalc(state)

	require.Equal(t, 2, state.TotalItems)
	require.InDelta(t, domain.FlatShippingFee, state.Shipping, 1e-9)
	require.InDelta(t, 4.0, state.Tax, 1e-9)
	require.InDelta(t, 40+5.99+4.0, state.TotalPrice, 1e-9)
}

func TestReduce_Recalculate_FreeShippingAtThreshold(t *testing.T) {
	state := domain.InitialState()
	state = domain.Reduce(state, domain.Action{Type: domain.ActionAddItem, Item: item(1, 25, 2)})

	state = recalc(state)

	require.Zero(t, state.Shipping)
	require.InDelta(t, 50+5.0, state.TotalPrice, 1e-9)
}

func TestReduce_Recalculate_ShippingOverrideIsSticky(t *testing.T) {
	state := domain.InitialState()
	state = domain.Reduce(state, domain.Action{Type: domain.ActionAddItem, Item: item(1, 20, 1)})
	state.Shipping = 3.50

	state = recalc(state)

	require.InDelta(t, 3.50, state.Shipping, 1e-9)
}

func TestReduce_Recalculate_DiscountCappedBySubtotal(t *testing.T) {
	state := domain.InitialState()
	state = domain.Reduce(state, domain.Action{Type: domain.ActionAddItem, Item: item(1, 5, 1)})
	state = domain.Reduce(state, domain.Action{Type: domain.ActionApplyDiscount, Discount: 100, Shipping: 0})

	state = recalc(state)

	require.GreaterOrEqual(t, state.TotalPrice, 0.0)
}

func TestReduce_Recalculate_EmptyCartHasNoTotals(t *testing.T) {
	state := domain.InitialState()
	state = domain.Reduce(state, domain.Action{Type: domain.ActionAddItem, Item: item(1, 20, 1)})
	state = recalc(state)
	state = domain.Reduce(state, domain.Action{Type: domain.ActionRemoveItem, ProductID: 1})

	state = recalc(state)

	require.Equal(t, domain.InitialState(), state)
}

func TestReduce_Recalculate_Idempotent(t *testing.T) {
	state := domain.InitialState()
	state = domain.Reduce(state, domain.Action{Type: domain.ActionAddItem, Item: item(1, 33.33, 3)})

	once := recalc(state)
	twice := recalc(once)

	require.Equal(t, once, twice)
}
