package events

import "time"

// CheckedOutItem is one cart line inside a checkout event
type CheckedOutItem struct {
	ProductID int     `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// CartCheckedOutEvent is emitted when a session checks out its cart
type CartCheckedOutEvent struct {
	EventID    string           `json:"event_id"`
	EventType  string           `json:"event_type"`
	SessionID  string           `json:"session_id"`
	Items      []CheckedOutItem `json:"items"`
	TotalItems int              `json:"total_items"`
	TotalPrice float64          `json:"total_price"`
	Discount   float64          `json:"discount"`
	Shipping   float64          `json:"shipping"`
	Tax        float64          `json:"tax"`
	Currency   string           `json:"currency"`
	Timestamp  time.Time        `json:"timestamp"`
}

// Event types
const (
	EventTypeCartCheckedOut = "cart.checked_out"
)

// Kafka topics
const (
	TopicCartCheckedOut = "cart-checked-out"
)
