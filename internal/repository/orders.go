package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

// CreateOrder turns the cart of user into an order in one transaction: the
// products are copied into the order, stock is decremented and the cart is
// emptied. Lines whose product no longer exists are dropped.
func (r *Repository) CreateOrder(ctx context.Context, userID string, method domain.PaymentMethod) (int64, error) {
	var orderID int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT p.id, p.name, p.description, p.price, p.stock, p.category, p.image_url, c.quantity
			FROM cart_items c
			JOIN products p ON p.id = c.product_id
			WHERE c.user_id = ?
			ORDER BY c.rowid`, userID)
		if err != nil {
			return fmt.Errorf("failed to query cart: %w", err)
		}

		var items []domain.OrderItem
		for rows.Next() {
			var it domain.OrderItem
			p := &it.Product
			if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.ImageURL, &it.Quantity); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan cart line: %w", err)
			}
			items = append(items, it)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("row iteration error: %w", err)
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		var total int64
		for _, it := range items {
			if it.Quantity > it.Product.Stock {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, it.Product.Name)
			}
			total += it.Product.Price * it.Quantity
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO orders (user_id, status, payment_method, total, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			userID, domain.OrderStatusPending, method, total, r.now().UnixNano())
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}
		if orderID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read order id: %w", err)
		}

		for i, it := range items {
			p := it.Product
			_, err := tx.ExecContext(ctx, `
				INSERT INTO order_items (order_id, position, product_id, name, description, price, category, image_url, quantity)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				orderID, i, p.ID, p.Name, p.Description, p.Price, p.Category, p.ImageURL, it.Quantity)
			if err != nil {
				return fmt.Errorf("failed to insert order item: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE products SET stock = stock - ? WHERE id = ?`, it.Quantity, p.ID); err != nil {
				return fmt.Errorf("failed to decrement stock: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return orderID, nil
}

// GetOrders returns the orders of userID, or every order when userID is
// empty, oldest first.
func (r *Repository) GetOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	query := `SELECT id, user_id, status, payment_method, total, created_at FROM orders`
	var args []any
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		orders = append(orders, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for i := range orders {
		if orders[i].Items, err = r.orderItems(ctx, orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *Repository) GetOrder(ctx context.Context, id int64) (domain.Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, status, payment_method, total, created_at FROM orders WHERE id = ?`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	if o.Items, err = r.orderItems(ctx, id); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func scanOrder(s scanner) (domain.Order, error) {
	var (
		o         domain.Order
		status    string
		method    string
		createdAt int64
	)
	if err := s.Scan(&o.ID, &o.User, &status, &method, &o.Total, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return o, err
		}
		return o, fmt.Errorf("failed to scan order: %w", err)
	}
	o.Status = domain.OrderStatus(status)
	o.PaymentMethod = domain.PaymentMethod(method)
	o.CreatedAt = time.Unix(0, createdAt).UTC()
	return o, nil
}

func (r *Repository) orderItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, name, description, price, category, image_url, quantity
		FROM order_items WHERE order_id = ? ORDER BY position`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		p := &it.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.ImageURL, &it.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

func (r *Repository) UpdateOrderStatus(ctx context.Context, id int64, st domain.OrderStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, st, id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return affectedOne(res)
}

func (r *Repository) DeleteOrder(ctx context.Context, id int64) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		if err := affectedOne(res); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
		return nil
	})
}
