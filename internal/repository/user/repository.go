package user

import (
	"context"
	"time"

	"waves-backend/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByToken(ctx context.Context, token string) (*domain.User, error)
	GetByResetToken(ctx context.Context, token string, notBefore time.Time) (*domain.User, error)

	SetToken(ctx context.Context, id, token string) error
	SetResetToken(ctx context.Context, id, token string, exp time.Time) error
	// ResetPassword swaps the password hash and consumes the reset token.
	ResetPassword(ctx context.Context, id, passwordHash string) error
	// UpdateProfile applies the given fields as a partial patch.
	UpdateProfile(ctx context.Context, id string, fields map[string]interface{}) error

	// PushCartLine appends a new cart line for a product not yet in the cart.
	PushCartLine(ctx context.Context, id string, line domain.CartLine) (*domain.User, error)
	// IncrementCartQuantity adds delta to the quantity of an existing line.
	IncrementCartQuantity(ctx context.Context, id, productID string, delta int) (*domain.User, error)
	// PullCartLine removes the line for productID regardless of quantity.
	PullCartLine(ctx context.Context, id, productID string) (*domain.User, error)
	// PullFromAllCarts removes the product from every user's cart.
	PullFromAllCarts(ctx context.Context, productID string) error

	// AppendHistoryAndClearCart pushes the history entries and empties the
	// cart in one document update, so the two cannot diverge.
	AppendHistoryAndClearCart(ctx context.Context, id string, entries []domain.HistoryEntry) (*domain.User, error)
}
