package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

// GetCart returns the lines of user in the order they were first added.
func (r *Repository) GetCart(ctx context.Context, userID string) ([]domain.CartLine, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, quantity FROM cart_items WHERE user_id = ? ORDER BY rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	defer rows.Close()

	lines := []domain.CartLine{}
	for rows.Next() {
		var l domain.CartLine
		if err := rows.Scan(&l.ProductID, &l.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return lines, nil
}

func stockOf(ctx context.Context, tx *sql.Tx, productID int64) (int64, error) {
	var stock int64
	err := tx.QueryRowContext(ctx, `SELECT stock FROM products WHERE id = ?`, productID).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query stock: %w", err)
	}
	return stock, nil
}

// AddToCart adds quantity to the existing line for the product or creates
// one. The resulting quantity may not exceed the stock.
func (r *Repository) AddToCart(ctx context.Context, userID string, productID, quantity int64) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	return r.withTx(ctx, func(tx *sql.Tx) error {
		stock, err := stockOf(ctx, tx, productID)
		if err != nil {
			return err
		}

		var current int64
		err = tx.QueryRowContext(ctx,
			`SELECT quantity FROM cart_items WHERE user_id = ? AND product_id = ?`, userID, productID).Scan(&current)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to query cart line: %w", err)
		}
		if current+quantity > stock {
			return ErrInsufficientStock
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO cart_items (user_id, product_id, quantity) VALUES (?, ?, ?)
			ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = quantity + excluded.quantity`,
			userID, productID, quantity)
		if err != nil {
			return fmt.Errorf("failed to add cart line: %w", err)
		}
		return nil
	})
}

func (r *Repository) UpdateCartItem(ctx context.Context, userID string, productID, quantity int64) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	return r.withTx(ctx, func(tx *sql.Tx) error {
		stock, err := stockOf(ctx, tx, productID)
		if err != nil {
			return err
		}
		if quantity > stock {
			return ErrInsufficientStock
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE cart_items SET quantity = ? WHERE user_id = ? AND product_id = ?`, quantity, userID, productID)
		if err != nil {
			return fmt.Errorf("failed to update cart line: %w", err)
		}
		return affectedOne(res)
	})
}

// RemoveFromCart is idempotent.
func (r *Repository) RemoveFromCart(ctx context.Context, userID string, productID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = ? AND product_id = ?`, userID, productID)
	if err != nil {
		return fmt.Errorf("failed to remove cart line: %w", err)
	}
	return nil
}
