package shipping

import (
	"context"

	"waves-backend/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, s domain.Shipping) (*domain.Shipping, error)
	List(ctx context.Context) ([]domain.Shipping, error)
}
