package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

const productColumns = `id, name, description, price, stock, category, image_url`

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (domain.Product, error) {
	var p domain.Product
	err := s.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.ImageURL)
	return p, err
}

func (r *Repository) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return products, nil
}

func (r *Repository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return r.queryProducts(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, ErrNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to query product: %w", err)
	}
	return p, nil
}

// SearchProductsByName matches a case-insensitive substring of the name.
func (r *Repository) SearchProductsByName(ctx context.Context, text string) ([]domain.Product, error) {
	pattern := "%" + escapeLike(strings.ToLower(text)) + "%"
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE lower(name) LIKE ? ESCAPE '\' ORDER BY id`, pattern)
}

func (r *Repository) SearchProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE category = ? ORDER BY id`, category)
}

func (r *Repository) CreateProduct(ctx context.Context, in domain.ProductInput) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO products (name, description, price, stock, category, image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.Name, in.Description, in.Price, in.Stock, in.Category, in.ImageURL, r.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to insert product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read product id: %w", err)
	}
	return id, nil
}

func (r *Repository) UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = ?, description = ?, price = ?, stock = ?, category = ?, image_url = ?
		WHERE id = ?`,
		in.Name, in.Description, in.Price, in.Stock, in.Category, in.ImageURL, id)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return affectedOne(res)
}

// DeleteProduct removes the product. Cart lines pointing at it are left in
// place; orders keep their own copy of it.
func (r *Repository) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return affectedOne(res)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
