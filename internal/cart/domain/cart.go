package domain

import (
	"context"
	"errors"
)

// Pricing constants
const (
	Currency              = "USD"
	DefaultMaxQuantity    = 99
	FreeShippingThreshold = 50.0
	FlatShippingFee       = 5.99
	TaxRate               = 0.10
)

// ErrCartNotFound is returned when no snapshot exists for a session
var ErrCartNotFound = errors.New("cart not found")

// CartItem is one line in the cart. Lines are identified by ProductID:
// adding the same product twice merges into a single line.
type CartItem struct {
	ProductID   int     `json:"product_id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	MaxQuantity int     `json:"max_quantity,omitempty"`
	Selected    bool    `json:"selected"`
}

// QuantityCap returns the effective per-line quantity limit
func (i CartItem) QuantityCap() int {
	if i.MaxQuantity > 0 {
		return i.MaxQuantity
	}
	return DefaultMaxQuantity
}

// CartState holds the cart lines plus derived totals. Totals are only
// ever written by the recalculate transition.
type CartState struct {
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"total_items"`
	TotalPrice float64    `json:"total_price"`
	Shipping   float64    `json:"shipping"`
	Discount   float64    `json:"discount"`
	Tax        float64    `json:"tax"`
	Currency   string     `json:"currency"`
}

// InitialState returns the empty cart
func InitialState() CartState {
	return CartState{
		Items:    []CartItem{},
		Currency: Currency,
	}
}

// Subtotal sums price*quantity over all lines, selected or not
func (s CartState) Subtotal() float64 {
	var subtotal float64
	for _, item := range s.Items {
		subtotal += item.Price * float64(item.Quantity)
	}
	return subtotal
}

// FindItem returns the line for a product, or nil
func (s CartState) FindItem(productID int) *CartItem {
	for i := range s.Items {
		if s.Items[i].ProductID == productID {
			return &s.Items[i]
		}
	}
	return nil
}

// CartRepository persists cart snapshots keyed by session
type CartRepository interface {
	Load(ctx context.Context, sessionID string) (*CartState, error)
	Save(ctx context.Context, sessionID string, state CartState) error
	Delete(ctx context.Context, sessionID string) error
}

// RuleRepository provides the active discount rule set
type RuleRepository interface {
	FindAll(ctx context.Context) ([]DiscountRule, error)
}
