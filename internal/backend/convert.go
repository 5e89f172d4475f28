package backend

import (
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/pkg/api"
)

func convertProduct(p *api.Product) domain.Product {
	if p == nil {
		return domain.Product{}
	}
	return domain.Product{
		ID:          p.Id,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		ImageURL:    p.ImageUrl,
	}
}

func convertProducts(in []*api.Product) []domain.Product {
	products := make([]domain.Product, 0, len(in))
	for _, p := range in {
		products = append(products, convertProduct(p))
	}
	return products
}

func convertCart(in []*api.CartItem) []domain.CartLine {
	lines := make([]domain.CartLine, 0, len(in))
	for _, item := range in {
		lines = append(lines, domain.CartLine{
			ProductID: item.ProductId,
			Quantity:  item.Quantity,
		})
	}
	return lines
}

func convertOrder(o *api.Order) domain.Order {
	order := domain.Order{
		ID:            o.Id,
		Total:         o.Total,
		Status:        domain.OrderStatus(o.Status),
		PaymentMethod: domain.PaymentMethod(o.PaymentMethod),
		User:          o.User,
		CreatedAt:     time.Unix(0, o.Timestamp).UTC(),
		Items:         make([]domain.OrderItem, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		order.Items = append(order.Items, domain.OrderItem{
			Product:  convertProduct(item.Product),
			Quantity: item.Quantity,
		})
	}
	return order
}

func convertOrders(in []*api.Order) []domain.Order {
	orders := make([]domain.Order, 0, len(in))
	for _, o := range in {
		orders = append(orders, convertOrder(o))
	}
	return orders
}
