package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"waves-backend/internal/cache"
	"waves-backend/internal/domain"
)

type stubUserRepo struct {
	user        *domain.User
	getErr      error
	pushErr     error
	incErr      error
	pullErr     error
	lastIncID   string
	lastIncProd string
	lastDelta   int
}

func (s *stubUserRepo) GetByID(_ context.Context, _ string) (*domain.User, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.user, nil
}

func (s *stubUserRepo) PushCartLine(_ context.Context, _ string, line domain.CartLine) (*domain.User, error) {
	if s.pushErr != nil {
		return nil, s.pushErr
	}
	s.user.Cart = append(s.user.Cart, line)
	return s.user, nil
}

func (s *stubUserRepo) IncrementCartQuantity(_ context.Context, id, productID string, delta int) (*domain.User, error) {
	s.lastIncID = id
	s.lastIncProd = productID
	s.lastDelta = delta
	if s.incErr != nil {
		return nil, s.incErr
	}
	for i := range s.user.Cart {
		if s.user.Cart[i].ProductID == productID {
			s.user.Cart[i].Quantity += delta
			return s.user, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubUserRepo) PullCartLine(_ context.Context, _, productID string) (*domain.User, error) {
	if s.pullErr != nil {
		return nil, s.pullErr
	}
	kept := s.user.Cart[:0]
	for _, line := range s.user.Cart {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	s.user.Cart = kept
	return s.user, nil
}

type stubProductRepo struct {
	products []domain.Product
	err      error
	lastIDs  []string
}

func (s *stubProductRepo) GetByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	s.lastIDs = ids
	return s.products, s.err
}

// stubCache records cache traffic. The async fill goroutine touches it
// concurrently, so access is locked.
type stubCache struct {
	mu      sync.Mutex
	stored  map[string][]domain.CartLine
	sets    []string
	deletes []string
}

func (c *stubCache) Get(_ context.Context, userID string) ([]domain.CartLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cart, ok := c.stored[userID]; ok {
		return cart, nil
	}
	return nil, cache.ErrCacheMiss
}

func (c *stubCache) Set(_ context.Context, userID string, cart []domain.CartLine) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets = append(c.sets, userID)
	return nil
}

func (c *stubCache) Delete(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes = append(c.deletes, userID)
	return nil
}

func (c *stubCache) deleteCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.deletes)
}

func (c *stubCache) setCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sets)
}

func newTestService(users *stubUserRepo, products *stubProductRepo) *Service {
	return New(users, products, nil, nil)
}

func userWithCart(lines ...domain.CartLine) *domain.User {
	return &domain.User{ID: "u1", Cart: lines}
}

func TestAddItemMergesDuplicate(t *testing.T) {
	users := &stubUserRepo{user: userWithCart()}
	svc := newTestService(users, &stubProductRepo{})

	cart, err := svc.AddItem(context.Background(), "u1", "P1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart) != 1 || cart[0].Quantity != 1 {
		t.Fatalf("expected one line with quantity 1, got %+v", cart)
	}

	cart, err = svc.AddItem(context.Background(), "u1", "P1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart) != 1 {
		t.Fatalf("expected a single merged line, got %d lines", len(cart))
	}
	if cart[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", cart[0].Quantity)
	}
	if users.lastDelta != 1 {
		t.Fatalf("expected increment of 1, got %d", users.lastDelta)
	}
}

func TestAddItemUserNotFound(t *testing.T) {
	users := &stubUserRepo{getErr: domain.ErrNotFound}
	svc := newTestService(users, &stubProductRepo{})

	_, err := svc.AddItem(context.Background(), "missing", "P1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveOneItemDecrements(t *testing.T) {
	users := &stubUserRepo{user: userWithCart(domain.CartLine{ProductID: "P1", Quantity: 3, AddedAt: time.Now()})}
	svc := newTestService(users, &stubProductRepo{})

	cart, err := svc.RemoveOneItem(context.Background(), "u1", "P1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", cart[0].Quantity)
	}
	if users.lastDelta != -1 {
		t.Fatalf("expected decrement of 1, got %d", users.lastDelta)
	}
}

func TestRemoveOneItemQuantityOneIsNoop(t *testing.T) {
	users := &stubUserRepo{user: userWithCart(domain.CartLine{ProductID: "P1", Quantity: 1})}
	svc := newTestService(users, &stubProductRepo{})

	cart, err := svc.RemoveOneItem(context.Background(), "u1", "P1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart) != 1 || cart[0].Quantity != 1 {
		t.Fatalf("expected unchanged cart, got %+v", cart)
	}
	if users.lastIncProd != "" {
		t.Fatalf("expected no increment call, got one for %s", users.lastIncProd)
	}
}

func TestRemoveOneItemMissingLineIsNoop(t *testing.T) {
	users := &stubUserRepo{user: userWithCart(domain.CartLine{ProductID: "P1", Quantity: 2})}
	svc := newTestService(users, &stubProductRepo{})

	cart, err := svc.RemoveOneItem(context.Background(), "u1", "P9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart) != 1 || cart[0].Quantity != 2 {
		t.Fatalf("expected unchanged cart, got %+v", cart)
	}
}

func TestRemoveItemDeletesRegardlessOfQuantity(t *testing.T) {
	users := &stubUserRepo{user: userWithCart(
		domain.CartLine{ProductID: "P1", Quantity: 5},
		domain.CartLine{ProductID: "P2", Quantity: 1},
	)}
	products := &stubProductRepo{products: []domain.Product{{ID: "P2", Name: "Mug"}}}
	svc := newTestService(users, products)

	cart, detail, err := svc.RemoveItem(context.Background(), "u1", "P1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart) != 1 || cart[0].ProductID != "P2" {
		t.Fatalf("expected only P2 to remain, got %+v", cart)
	}
	if len(detail) != 1 || detail[0].ID != "P2" {
		t.Fatalf("expected joined detail for P2, got %+v", detail)
	}
	if len(products.lastIDs) != 1 || products.lastIDs[0] != "P2" {
		t.Fatalf("expected join lookup for [P2], got %v", products.lastIDs)
	}
}

func TestRemoveItemEmptyCartSkipsJoin(t *testing.T) {
	users := &stubUserRepo{user: userWithCart(domain.CartLine{ProductID: "P1", Quantity: 1})}
	products := &stubProductRepo{}
	svc := newTestService(users, products)

	cart, detail, err := svc.RemoveItem(context.Background(), "u1", "P1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart) != 0 {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
	if len(detail) != 0 {
		t.Fatalf("expected empty detail, got %+v", detail)
	}
	if products.lastIDs != nil {
		t.Fatalf("expected no product lookup for empty cart, got %v", products.lastIDs)
	}
}

func TestGetCartReturnsStoredCart(t *testing.T) {
	users := &stubUserRepo{user: userWithCart(domain.CartLine{ProductID: "P1", Quantity: 2})}
	svc := newTestService(users, &stubProductRepo{})

	cart, err := svc.GetCart(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart) != 1 || cart[0].ProductID != "P1" {
		t.Fatalf("expected stored cart, got %+v", cart)
	}
}

func TestGetCartUserNotFound(t *testing.T) {
	users := &stubUserRepo{getErr: domain.ErrNotFound}
	svc := newTestService(users, &stubProductRepo{})

	_, err := svc.GetCart(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMutationsInvalidateCache(t *testing.T) {
	users := &stubUserRepo{user: userWithCart(
		domain.CartLine{ProductID: "P1", Quantity: 3},
		domain.CartLine{ProductID: "P2", Quantity: 1},
	)}
	cartCache := &stubCache{}
	svc := New(users, &stubProductRepo{}, cartCache, nil)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "u1", "P1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cartCache.deleteCount() != 1 {
		t.Fatalf("expected 1 invalidation after AddItem, got %d", cartCache.deleteCount())
	}

	if _, err := svc.RemoveOneItem(ctx, "u1", "P1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cartCache.deleteCount() != 2 {
		t.Fatalf("expected 2 invalidations after RemoveOneItem, got %d", cartCache.deleteCount())
	}

	if _, _, err := svc.RemoveItem(ctx, "u1", "P2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cartCache.deleteCount() != 3 {
		t.Fatalf("expected 3 invalidations after RemoveItem, got %d", cartCache.deleteCount())
	}
}

func TestRemoveOneItemNoopSkipsInvalidation(t *testing.T) {
	users := &stubUserRepo{user: userWithCart(domain.CartLine{ProductID: "P1", Quantity: 1})}
	cartCache := &stubCache{}
	svc := New(users, &stubProductRepo{}, cartCache, nil)

	if _, err := svc.RemoveOneItem(context.Background(), "u1", "P1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cartCache.deleteCount() != 0 {
		t.Fatalf("expected no invalidation for a no-op, got %d", cartCache.deleteCount())
	}
}

func TestGetCartHitSkipsRepo(t *testing.T) {
	// Repo errors on any access, so a successful read proves the hit path.
	users := &stubUserRepo{getErr: errors.New("repo must not be touched")}
	cartCache := &stubCache{stored: map[string][]domain.CartLine{
		"u1": {{ProductID: "P1", Quantity: 2}},
	}}
	svc := New(users, &stubProductRepo{}, cartCache, nil)

	cart, err := svc.GetCart(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart) != 1 || cart[0].ProductID != "P1" {
		t.Fatalf("expected cached cart, got %+v", cart)
	}
}

func TestGetCartMissFillsCacheAsync(t *testing.T) {
	users := &stubUserRepo{user: userWithCart(domain.CartLine{ProductID: "P1", Quantity: 2})}
	cartCache := &stubCache{}
	svc := New(users, &stubProductRepo{}, cartCache, nil)

	cart, err := svc.GetCart(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart) != 1 {
		t.Fatalf("expected stored cart, got %+v", cart)
	}

	// The fill runs in a goroutine after the read returns.
	deadline := time.Now().Add(2 * time.Second)
	for cartCache.setCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("cache was never filled after a miss")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
