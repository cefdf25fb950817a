package main

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	paymentrepo "waves-backend/internal/repository/payment"
	productrepo "waves-backend/internal/repository/product"
	shippingrepo "waves-backend/internal/repository/shipping"
	userrepo "waves-backend/internal/repository/user"
)

func ensureIndexes(ctx context.Context, database *mongo.Database) error {
	for _, ensure := range []func(context.Context, *mongo.Database) error{
		productrepo.EnsureIndexes,
		userrepo.EnsureIndexes,
		paymentrepo.EnsureIndexes,
		shippingrepo.EnsureIndexes,
	} {
		if err := ensure(ctx, database); err != nil {
			return err
		}
	}
	return nil
}
