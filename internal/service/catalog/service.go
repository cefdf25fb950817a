package catalog

import (
	"context"
	"fmt"
	"strings"

	"waves-backend/internal/domain"
	productrepo "waves-backend/internal/repository/product"
)

type productRepo interface {
	SearchPublished(ctx context.Context, q productrepo.ShopQuery) ([]domain.Product, error)
	List(ctx context.Context, opts productrepo.ListOptions) ([]domain.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type userRepo interface {
	PullFromAllCarts(ctx context.Context, productID string) error
}

type Service struct {
	products productRepo
	users    userRepo
}

func New(products productRepo, users userRepo) *Service {
	return &Service{products: products, users: users}
}

// ShopInput is the raw shop request body: each filter key maps to a list of
// values; the reserved key "price" carries a [min,max] inclusive range.
type ShopInput struct {
	Filters map[string][]interface{}
	SortBy  string
	Order   string
	Skip    int64
	Limit   int64
}

// Shop runs a published-only catalog search. Empty filter lists are
// ignored; "price" becomes an inclusive range, other keys set membership.
func (s *Service) Shop(ctx context.Context, in ShopInput) ([]domain.Product, error) {
	q := productrepo.ShopQuery{
		Filters: map[string]interface{}{},
		SortBy:  in.SortBy,
		Order:   in.Order,
		Skip:    in.Skip,
		Limit:   in.Limit,
	}

	for key, values := range in.Filters {
		if len(values) == 0 {
			continue
		}
		// Filter keys and values land in the query document verbatim, so
		// operator-shaped input is rejected up front.
		if strings.HasPrefix(key, "$") || strings.Contains(key, ".") {
			return nil, fmt.Errorf("%w: invalid filter key %q", domain.ErrValidation, key)
		}
		if key == "price" {
			min, max, err := priceRange(values)
			if err != nil {
				return nil, err
			}
			q.PriceMin = &min
			q.PriceMax = &max
			continue
		}
		for _, v := range values {
			if !scalarFilterValue(v) {
				return nil, fmt.Errorf("%w: filter %q values must be scalars", domain.ErrValidation, key)
			}
		}
		if len(values) == 1 {
			q.Filters[key] = values[0]
		} else {
			q.Filters[key] = map[string]interface{}{"$in": values}
		}
	}

	return s.products.SearchPublished(ctx, q)
}

// Articles is the simple catalog listing, unfiltered by publish state.
func (s *Service) Articles(ctx context.Context, sortBy, order string, limit int64) ([]domain.Product, error) {
	return s.products.List(ctx, productrepo.ListOptions{SortBy: sortBy, Order: order, Limit: limit})
}

// ByIDs resolves a single id or a comma-separated id list.
func (s *Service) ByIDs(ctx context.Context, idParam string) ([]domain.Product, error) {
	if strings.TrimSpace(idParam) == "" {
		return nil, fmt.Errorf("%w: id is required", domain.ErrValidation)
	}
	var ids []string
	for _, id := range strings.Split(idParam, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return s.products.GetByIDs(ctx, ids)
}

// Create validates and persists a new product. Admin only; the handler
// enforces the capability.
func (s *Service) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	name := strings.TrimSpace(p.Name)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	case len(name) > 50:
		return nil, fmt.Errorf("%w: name exceeds 50 characters", domain.ErrValidation)
	case strings.TrimSpace(p.Description) == "":
		return nil, fmt.Errorf("%w: description is required", domain.ErrValidation)
	case len(p.Description) > 500:
		return nil, fmt.Errorf("%w: description exceeds 500 characters", domain.ErrValidation)
	case p.Price < 0:
		return nil, fmt.Errorf("%w: price must be non-negative", domain.ErrValidation)
	}
	p.Name = name
	return s.products.Create(ctx, p)
}

// Delete removes the product and purges it from every user's cart first,
// so no cart keeps a dangling reference.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.users.PullFromAllCarts(ctx, id); err != nil {
		return err
	}
	return s.products.Delete(ctx, id)
}

func priceRange(values []interface{}) (float64, float64, error) {
	if len(values) != 2 {
		return 0, 0, fmt.Errorf("%w: price filter must be [min,max]", domain.ErrValidation)
	}
	min, okMin := toFloat(values[0])
	max, okMax := toFloat(values[1])
	if !okMin || !okMax {
		return 0, 0, fmt.Errorf("%w: price bounds must be numbers", domain.ErrValidation)
	}
	return min, max, nil
}

func scalarFilterValue(v interface{}) bool {
	switch v.(type) {
	case string, bool, float64, int, int64:
		return true
	}
	return false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
