package storefront

import "errors"

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidQuantity      = errors.New("quantity must be between 1 and the available stock")
	ErrNotInCart            = errors.New("product is not in the cart")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrCustomerInfoRequired = errors.New("name, phone and address are required")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidOrderStatus   = errors.New("invalid order status")
	ErrSessionStore         = errors.New("session store unavailable")
)
