package http

import (
	"time"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/fjod/go_cart/storefront/internal/storefront"
)

type ProductDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Stock       int64  `json:"stock"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
	InStock     bool   `json:"in_stock"`
}

type ProductInputDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Stock       int64  `json:"stock"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
}

func (in ProductInputDTO) toDomain() domain.ProductInput {
	return domain.ProductInput{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Stock:       in.Stock,
		Category:    in.Category,
	}
}

type CartItemDTO struct {
	Product   ProductDTO `json:"product"`
	Quantity  int64      `json:"quantity"`
	LineTotal int64      `json:"line_total"`
}

type CartDTO struct {
	Items     []CartItemDTO `json:"items"`
	ItemCount int           `json:"item_count"`
	Subtotal  int64         `json:"subtotal"`
	IsLoading bool          `json:"is_loading"`
}

type OrderItemDTO struct {
	Product  ProductDTO `json:"product"`
	Quantity int64      `json:"quantity"`
}

type OrderDTO struct {
	ID            int64          `json:"id"`
	Items         []OrderItemDTO `json:"items"`
	Total         int64          `json:"total"`
	Status        string         `json:"status"`
	PaymentMethod string         `json:"payment_method"`
	User          string         `json:"user"`
	CreatedAt     string         `json:"created_at"`
}

type ReceiptDTO struct {
	Order             OrderDTO `json:"order"`
	PaymentLabel      string   `json:"payment_label"`
	NeedsPaymentProof bool     `json:"needs_payment_proof"`
	ContactLink       string   `json:"contact_link"`
}

type PaymentMethodDTO struct {
	ID                string `json:"id"`
	Label             string `json:"label"`
	NeedsPaymentProof bool   `json:"needs_payment_proof"`
}

type SessionDTO struct {
	State         string `json:"state"`
	LoginStatus   string `json:"login_status"`
	Principal     string `json:"principal"`
	Authenticated bool   `json:"authenticated"`
	Error         string `json:"error,omitempty"`
}

func convertProduct(p domain.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		InStock:     p.InStock(),
	}
}

func convertProducts(products []domain.Product) []ProductDTO {
	dtos := make([]ProductDTO, len(products))
	for i, p := range products {
		dtos[i] = convertProduct(p)
	}
	return dtos
}

func convertCart(v cart.View) CartDTO {
	dto := CartDTO{
		Items:     make([]CartItemDTO, len(v.Items)),
		ItemCount: v.ItemCount,
		Subtotal:  v.Subtotal,
		IsLoading: v.IsLoading,
	}
	for i, item := range v.Items {
		dto.Items[i] = CartItemDTO{
			Product:   convertProduct(item.Product),
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal(),
		}
	}
	return dto
}

func convertOrder(o domain.Order) OrderDTO {
	dto := OrderDTO{
		ID:            o.ID,
		Items:         make([]OrderItemDTO, len(o.Items)),
		Total:         o.Total,
		Status:        o.Status.String(),
		PaymentMethod: string(o.PaymentMethod),
		User:          o.User,
		CreatedAt:     o.CreatedAt.UTC().Format(time.RFC3339),
	}
	for i, item := range o.Items {
		dto.Items[i] = OrderItemDTO{Product: convertProduct(item.Product), Quantity: item.Quantity}
	}
	return dto
}

func convertOrders(orders []domain.Order) []OrderDTO {
	dtos := make([]OrderDTO, len(orders))
	for i, o := range orders {
		dtos[i] = convertOrder(o)
	}
	return dtos
}

func convertReceipt(r storefront.Receipt) ReceiptDTO {
	return ReceiptDTO{
		Order:             convertOrder(r.Order),
		PaymentLabel:      r.PaymentLabel,
		NeedsPaymentProof: r.NeedsPaymentProof,
		ContactLink:       r.ContactLink,
	}
}

func convertPaymentMethods(methods []domain.PaymentMethod) []PaymentMethodDTO {
	dtos := make([]PaymentMethodDTO, len(methods))
	for i, m := range methods {
		dtos[i] = PaymentMethodDTO{ID: string(m), Label: m.Label(), NeedsPaymentProof: m.NeedsPaymentProof()}
	}
	return dtos
}

func convertSession(m *session.Manager) SessionDTO {
	dto := SessionDTO{
		State:         string(m.State()),
		LoginStatus:   string(m.Status()),
		Principal:     m.Identity().Principal,
		Authenticated: m.Authenticated(),
	}
	if err := m.Err(); err != nil {
		dto.Error = err.Error()
	}
	return dto
}
