package domain

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) String() string {
	return string(s)
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

type PaymentMethod string

const (
	PaymentCash      PaymentMethod = "cash"
	PaymentEasypaisa PaymentMethod = "easypaisa"
	PaymentJazzCash  PaymentMethod = "jazzcash"
)

var PaymentMethods = []PaymentMethod{PaymentCash, PaymentEasypaisa, PaymentJazzCash}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	for _, m := range PaymentMethods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCash:
		return "Cash on Delivery"
	case PaymentEasypaisa:
		return "EasyPaisa"
	case PaymentJazzCash:
		return "JazzCash"
	default:
		return string(m)
	}
}

// NeedsPaymentProof reports whether the customer has to send a payment
// screenshot after placing the order. Only mobile wallets need one.
func (m PaymentMethod) NeedsPaymentProof() bool {
	return m == PaymentEasypaisa || m == PaymentJazzCash
}

// OrderItem holds the product as it was when the order was created.
type OrderItem struct {
	Product  Product
	Quantity int64
}

type Order struct {
	ID            int64
	Items         []OrderItem
	Total         int64
	Status        OrderStatus
	PaymentMethod PaymentMethod
	User          string
	CreatedAt     time.Time
}

func (o Order) ItemsTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Product.Price * item.Quantity
	}
	return total
}
