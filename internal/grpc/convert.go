package grpc

import (
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/pkg/api"
)

func convertProduct(p domain.Product) *api.Product {
	return &api.Product{
		Id:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		ImageUrl:    p.ImageURL,
	}
}

func convertProducts(products []domain.Product) []*api.Product {
	out := make([]*api.Product, len(products))
	for i, p := range products {
		out[i] = convertProduct(p)
	}
	return out
}

func convertOrder(o domain.Order) *api.Order {
	order := &api.Order{
		Id:            o.ID,
		Status:        string(o.Status),
		Total:         o.Total,
		PaymentMethod: string(o.PaymentMethod),
		User:          o.User,
		Timestamp:     o.CreatedAt.UnixNano(),
		Items:         make([]*api.OrderItem, len(o.Items)),
	}
	for i, item := range o.Items {
		order.Items[i] = &api.OrderItem{
			Product:  convertProduct(item.Product),
			Quantity: item.Quantity,
		}
	}
	return order
}

func productInput(name, description string, price int64, imageURL string, stock int64, category string) domain.ProductInput {
	return domain.ProductInput{
		Name:        name,
		Description: description,
		Price:       price,
		ImageURL:    imageURL,
		Stock:       stock,
		Category:    category,
	}
}
