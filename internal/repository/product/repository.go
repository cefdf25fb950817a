package product

import (
	"context"

	"waves-backend/internal/domain"
)

// ShopQuery describes a public catalog search: free-form equality filters,
// an optional inclusive price range, sort and pagination.
type ShopQuery struct {
	Filters  map[string]interface{}
	PriceMin *float64
	PriceMax *float64
	SortBy   string
	Order    string
	Skip     int64
	Limit    int64
}

// ListOptions controls the simple articles listing.
type ListOptions struct {
	SortBy string
	Order  string
	Limit  int64
}

type Repository interface {
	// SearchPublished runs a shop query with publish == true forced
	// server-side regardless of the supplied filters.
	SearchPublished(ctx context.Context, q ShopQuery) ([]domain.Product, error)
	// List returns products without the publish restriction. Admin and
	// simple listing paths use this.
	List(ctx context.Context, opts ListOptions) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	// IncrementSold atomically adds quantity to the product's sold counter.
	IncrementSold(ctx context.Context, id string, quantity int) error
}
