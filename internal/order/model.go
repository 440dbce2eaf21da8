package order

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
)

// statusRank orders the lifecycle; transitions are forward-only.
var statusRank = map[Status]int{
	StatusPending:    0,
	StatusProcessing: 1,
	StatusShipped:    2,
	StatusDelivered:  3,
}

func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransitionTo reports whether moving to next is a legal forward step.
// Skipping ahead is allowed; going backward or standing still is not.
func (s Status) CanTransitionTo(next Status) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// Line is an immutable snapshot of a cart line taken at order-creation time.
// It copies product id, name, price and quantity; it never references the
// live product, so later catalog updates or deletions leave it unchanged.
type Line struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// ShippingInfo carries the optional contact block. Absent fields are stored
// as empty strings.
type ShippingInfo struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

type Order struct {
	ID             string       `json:"id"`
	Shopper        string       `json:"shopper"`
	Items          []Line       `json:"items"`
	Total          float64      `json:"total"`
	Status         Status       `json:"status"`
	Shipping       ShippingInfo `json:"shipping"`
	IdempotencyKey string       `json:"-"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// UpdateOrderInput is the administrative patch surface: status and shipping
// fields only. Line items and total are append-only and never change.
type UpdateOrderInput struct {
	Status         *Status
	ShippingName   *string
	ShippingEmail  *string
	ShippingPhone  *string
	ShippingStreet *string
	ShippingCity   *string
	ShippingState  *string
	ShippingZip    *string
}

// OutboxEvent is a pending order event written in the same transaction as
// the order it describes.
type OutboxEvent struct {
	ID          int64
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}
