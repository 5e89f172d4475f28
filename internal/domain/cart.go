package domain

// CartLine is a (product, quantity) pair scoped to the authenticated principal.
type CartLine struct {
	ProductID int64
	Quantity  int64
}

// EnrichedCartItem is a cart line joined with its product. It is derived on the
// client and never persisted.
type EnrichedCartItem struct {
	Product  Product
	Quantity int64
}

func (i EnrichedCartItem) LineTotal() int64 {
	return i.Product.Price * i.Quantity
}
