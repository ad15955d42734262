package dashboard

import (
	"context"
	"database/sql"

	"github.com/mvcoutinho/storefront-api/internal/domain"
)

// Summary is the admin dashboard payload. Everything is recomputed from
// current rows on every call; nothing is stored or cached.
type Summary struct {
	TotalRevenue  int64 `json:"totalRevenue"`
	TotalOrders   int   `json:"totalOrders"`
	PendingOrders int   `json:"pendingOrders"`
	LowStock      int   `json:"lowStock"`
}

// OrderRow is the slice of an order the dashboard needs.
type OrderRow struct {
	TotalCents int64
	Status     string
}

// Summarize folds order totals and product stocks into the dashboard
// numbers. Zero rows yield a zero summary.
func Summarize(orders []OrderRow, stocks []int) Summary {
	var s Summary
	s.TotalOrders = len(orders)
	for _, o := range orders {
		s.TotalRevenue += o.TotalCents
		if domain.IsPendingStatus(o.Status) {
			s.PendingOrders++
		}
	}
	for _, stock := range stocks {
		if stock < domain.LowStockThreshold {
			s.LowStock++
		}
	}
	return s
}

type StatsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) OrderRows(ctx context.Context) ([]OrderRow, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT total_cents, status FROM orders`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []OrderRow
	for rows.Next() {
		var row OrderRow
		if err := rows.Scan(&row.TotalCents, &row.Status); err != nil {
			return nil, err
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *StatsRepository) ProductStocks(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT stock FROM products`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []int
	for rows.Next() {
		var stock int
		if err := rows.Scan(&stock); err != nil {
			return nil, err
		}
		out = append(out, stock)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
