package domain

import (
	"strings"
	"time"
)

// Order statuses are free-form text: the checkout flow assigns the two
// constants below, admins may overwrite the field with anything.
const (
	StatusAwaitingPayment     = "Awaiting Payment"
	StatusPaymentApprovedTest = "Payment Approved (Test)"
	StatusPending             = "Pending"
)

// CartItem is a snapshot of one cart line at the time the order was placed.
type CartItem struct {
	ProductID  int64  `json:"product_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type Order struct {
	ID              string     `json:"id"`
	CustomerName    string     `json:"customer_name"`
	CustomerEmail   string     `json:"customer_email"`
	ShippingAddress string     `json:"shipping_address"`
	TotalCents      int64      `json:"total_cents"`
	Items           []CartItem `json:"items"`
	UserID          string     `json:"user_id,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
}

// IsPendingStatus reports whether a free-form order status counts as a
// pending order on the dashboard.
func IsPendingStatus(status string) bool {
	return strings.Contains(status, "Awaiting") || status == StatusPending
}
