package payment

import (
	"context"

	"waves-backend/internal/domain"
)

type Repository interface {
	// Create appends one ledger record. Payments are never updated.
	Create(ctx context.Context, p domain.Payment) (*domain.Payment, error)
	List(ctx context.Context, limit int64) ([]domain.Payment, error)

	// Checkout intent bookkeeping. The intent is written before any other
	// checkout mutation and updated as steps commit.
	CreateIntent(ctx context.Context, intent domain.CheckoutIntent) error
	UpdateIntentStatus(ctx context.Context, id, status, failedStep string) error
	GetIntent(ctx context.Context, id string) (*domain.CheckoutIntent, error)
}
