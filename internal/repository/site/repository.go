package site

import (
	"context"

	"waves-backend/internal/domain"
)

type Repository interface {
	Get(ctx context.Context) (*domain.Site, error)
	// SetInfo replaces the siteInfo blob, creating the singleton document
	// if it does not exist yet.
	SetInfo(ctx context.Context, info map[string]interface{}) (*domain.Site, error)
}
