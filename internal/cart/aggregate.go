package cart

import "github.com/fjod/go_cart/storefront/internal/domain"

// View is the cart as the pages show it.
type View struct {
	Items     []domain.EnrichedCartItem
	ItemCount int
	Subtotal  int64
	// IsLoading is set while the cart or the catalog is being fetched.
	IsLoading bool
}

func (v View) Empty() bool {
	return len(v.Items) == 0
}

// Item returns the enriched line for productID.
func (v View) Item(productID int64) (domain.EnrichedCartItem, bool) {
	for _, it := range v.Items {
		if it.Product.ID == productID {
			return it, true
		}
	}
	return domain.EnrichedCartItem{}, false
}

// Aggregate joins cart lines with the catalog. Lines whose product is not in
// the catalog are dropped and count toward neither total. Items keep the order
// of the cart lines.
func Aggregate(lines []domain.CartLine, products []domain.Product) View {
	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	v := View{Items: make([]domain.EnrichedCartItem, 0, len(lines))}
	for _, line := range lines {
		p, ok := byID[line.ProductID]
		if !ok {
			continue
		}
		item := domain.EnrichedCartItem{Product: p, Quantity: line.Quantity}
		v.Items = append(v.Items, item)
		v.ItemCount += int(line.Quantity)
		v.Subtotal += item.LineTotal()
	}
	return v
}
