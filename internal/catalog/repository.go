package catalog

import (
	"context"
	"database/sql"

	"github.com/mvcoutinho/storefront-api/internal/domain"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, price_cents, stock, image, description, is_highlight
		FROM products
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceCents, &p.Stock, &p.Image, &p.Description, &p.IsHighlight); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO products (name, price_cents, stock, image, description, is_highlight)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, p.Name, p.PriceCents, p.Stock, p.Image, p.Description, p.IsHighlight).Scan(&p.ID)
}

// UpdateDetails overwrites exactly the three admin-editable fields.
func (r *ProductRepository) UpdateDetails(ctx context.Context, id int64, stock int, image, description string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET stock = $2, image = $3, description = $4
		WHERE id = $1
	`, id, stock, image, description)
	return err
}

func (r *ProductRepository) SetHighlight(ctx context.Context, id int64, highlight bool) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE products SET is_highlight = $2 WHERE id = $1
	`, id, highlight)
	return err
}

// Delete removes the product when it exists. There is deliberately no
// existence check: deleting an unknown id succeeds.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}

// Stock returns the current stock for a product, with found = false when the
// product does not exist.
func (r *ProductRepository) Stock(ctx context.Context, id int64) (int, bool, error) {
	var stock int
	err := r.db.QueryRowContext(ctx, `SELECT stock FROM products WHERE id = $1`, id).Scan(&stock)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, err
	}
	return stock, true, nil
}
