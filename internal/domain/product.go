package domain

type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	PriceCents  int64  `json:"price_cents"`
	Stock       int    `json:"stock"`
	Image       string `json:"image"`
	Description string `json:"description"`
	IsHighlight bool   `json:"is_highlight"`
}

// LowStockThreshold is the stock level below which a product counts as
// low stock on the admin dashboard.
const LowStockThreshold = 5
