package storefront

import (
	"context"
	"strings"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/query"
)

// Categories offered by the catalog filter.
var Categories = []string{"Abayas", "Hijabs", "Bags", "Perfumes", "Accessories"}

const (
	// AllCategories disables the category filter.
	AllCategories = "all"
	FeaturedCount = 6
)

// Filter narrows the catalog locally. Search is a case-insensitive substring
// match over name, description and category; Category is an exact match.
// Both must hold.
type Filter struct {
	Search   string
	Category string
}

func (f Filter) Match(p domain.Product) bool {
	if c := f.Category; c != "" && c != AllCategories && p.Category != c {
		return false
	}
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(p.Category), needle)
}

func FilterProducts(products []domain.Product, f Filter) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

type Catalog struct {
	q *query.Layer
}

func NewCatalog(q *query.Layer) *Catalog {
	return &Catalog{q: q}
}

// Browse filters the cached product list.
func (c *Catalog) Browse(ctx context.Context, f Filter) ([]domain.Product, error) {
	products, err := c.q.Products(ctx)
	if err != nil {
		return nil, err
	}
	return FilterProducts(products, f), nil
}

// Featured returns the first products of the catalog for the home page.
func (c *Catalog) Featured(ctx context.Context) ([]domain.Product, error) {
	products, err := c.q.Products(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) > FeaturedCount {
		products = products[:FeaturedCount]
	}
	return products, nil
}

func (c *Catalog) Categories() []string {
	return append([]string(nil), Categories...)
}

// SearchByName asks the backend rather than filtering locally.
func (c *Catalog) SearchByName(ctx context.Context, text string) ([]domain.Product, error) {
	return c.q.SearchByName(ctx, text)
}

func (c *Catalog) SearchByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return c.q.SearchByCategory(ctx, category)
}
