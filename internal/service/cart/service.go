package cart

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"waves-backend/internal/cache"
	"waves-backend/internal/domain"
)

type userRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	PushCartLine(ctx context.Context, id string, line domain.CartLine) (*domain.User, error)
	IncrementCartQuantity(ctx context.Context, id, productID string, delta int) (*domain.User, error)
	PullCartLine(ctx context.Context, id, productID string) (*domain.User, error)
}

type productRepo interface {
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
}

// Service mutates the cart embedded in a user document. All operations are
// scoped to one user document; concurrent requests for the same user may
// interleave and the embedded cart is eventually consistent.
type Service struct {
	users    userRepo
	products productRepo
	cache    cache.CartCache
	sfg      singleflight.Group
	logger   *log.Logger
}

func New(users userRepo, products productRepo, cartCache cache.CartCache, logger *log.Logger) *Service {
	if cartCache == nil {
		cartCache = cache.Noop{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{users: users, products: products, cache: cartCache, logger: logger}
}

// AddItem merges the product into the user's cart: an existing line gets
// quantity+1, otherwise a new line with quantity 1 is appended.
func (s *Service) AddItem(ctx context.Context, userID, productID string) ([]domain.CartLine, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var updated *domain.User
	if hasLine(u.Cart, productID) {
		updated, err = s.users.IncrementCartQuantity(ctx, userID, productID, 1)
	} else {
		updated, err = s.users.PushCartLine(ctx, userID, domain.CartLine{
			ProductID: productID,
			Quantity:  1,
			AddedAt:   time.Now().UTC(),
		})
	}
	if err != nil {
		return nil, err
	}

	s.invalidate(userID)
	return updated.Cart, nil
}

// RemoveOneItem decrements the line's quantity by 1, but only when the
// current quantity is above 1. A quantity-1 line is left untouched; it can
// only be dropped through RemoveItem.
func (s *Service) RemoveOneItem(ctx context.Context, userID, productID string) ([]domain.CartLine, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, line := range u.Cart {
		if line.ProductID == productID && line.Quantity > 1 {
			updated, err := s.users.IncrementCartQuantity(ctx, userID, productID, -1)
			if err != nil {
				return nil, err
			}
			s.invalidate(userID)
			return updated.Cart, nil
		}
	}

	// Line missing or already at quantity 1: silent no-op.
	return u.Cart, nil
}

// RemoveItem deletes the line for productID regardless of quantity and
// returns the remaining cart together with the resolved product details,
// so the caller can render totals without a second round trip.
func (s *Service) RemoveItem(ctx context.Context, userID, productID string) ([]domain.CartLine, []domain.Product, error) {
	updated, err := s.users.PullCartLine(ctx, userID, productID)
	if err != nil {
		return nil, nil, err
	}
	s.invalidate(userID)

	ids := make([]string, 0, len(updated.Cart))
	for _, line := range updated.Cart {
		ids = append(ids, line.ProductID)
	}

	detail := []domain.Product{}
	if len(ids) > 0 {
		detail, err = s.products.GetByIDs(ctx, ids)
		if err != nil {
			return nil, nil, err
		}
	}
	return updated.Cart, detail, nil
}

// GetCart returns the cart as stored, without a product join. Reads go
// through the cache; singleflight collapses concurrent misses per user.
func (s *Service) GetCart(ctx context.Context, userID string) ([]domain.CartLine, error) {
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Printf("cart service: cache get user=%s error=%v", userID, err)
		}

		u, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}

		// The fill is not ordered against concurrent invalidations: a
		// mutation landing between this read and the Set can leave the
		// pre-mutation cart cached until the TTL expires.
		go func() {
			setCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := s.cache.Set(setCtx, userID, u.Cart); err != nil {
				s.logger.Printf("cart service: cache set user=%s error=%v", userID, err)
			}
		}()

		return u.Cart, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.CartLine), nil
}

func (s *Service) invalidate(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.logger.Printf("cart service: cache invalidate user=%s error=%v", userID, err)
	}
}

func hasLine(cart []domain.CartLine, productID string) bool {
	for _, line := range cart {
		if line.ProductID == productID {
			return true
		}
	}
	return false
}
