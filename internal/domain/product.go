package domain

import (
	"errors"
	"strings"
)

var (
	ErrProductNameRequired     = errors.New("product name is required")
	ErrProductCategoryRequired = errors.New("product category is required")
	ErrNegativePrice           = errors.New("price must not be negative")
	ErrNegativeStock           = errors.New("stock must not be negative")
)

// Product prices are whole currency units (Rs.), there are no sub-units.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       int64
	Stock       int64
	Category    string
	ImageURL    string
}

func (p Product) InStock() bool {
	return p.Stock > 0
}

// ProductInput is the admin payload for creating or updating a product.
type ProductInput struct {
	Name        string
	Description string
	Price       int64
	ImageURL    string
	Stock       int64
	Category    string
}

func (in ProductInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrProductNameRequired
	}
	if strings.TrimSpace(in.Category) == "" {
		return ErrProductCategoryRequired
	}
	if in.Price < 0 {
		return ErrNegativePrice
	}
	if in.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}
