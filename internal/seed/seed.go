package seed

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"waves-backend/internal/domain"
)

type productSeed struct {
	Name        string
	Description string
	Price       float64
	Images      []string
}

// Apply inserts basic seed data for manual testing. It is idempotent via
// upsert on the unique product name.
func Apply(ctx context.Context, database *mongo.Database) error {
	products := []productSeed{
		{
			Name:        "Fender Stratocaster",
			Description: "Classic double-cutaway electric guitar",
			Price:       749,
			Images:      []string{"https://images.example/strat.jpg"},
		},
		{
			Name:        "Gibson Les Paul",
			Description: "Single-cutaway electric guitar with humbuckers",
			Price:       1299,
			Images:      []string{"https://images.example/lespaul.jpg"},
		},
		{
			Name:        "Ibanez RG550",
			Description: "Fast-neck superstrat for high-gain playing",
			Price:       999,
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, database, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}

	if err := ensureSite(ctx, database); err != nil {
		return fmt.Errorf("ensure site: %w", err)
	}

	shippings := []domain.Shipping{
		{Name: "Standard", Price: 5},
		{Name: "Express", Price: 15},
	}
	for _, s := range shippings {
		if err := upsertShipping(ctx, database, s); err != nil {
			return fmt.Errorf("upsert shipping %s: %w", s.Name, err)
		}
	}

	return nil
}

func upsertProduct(ctx context.Context, database *mongo.Database, p productSeed) error {
	now := time.Now().UTC()
	images := p.Images
	if images == nil {
		images = []string{}
	}
	_, err := database.Collection("products").UpdateOne(ctx,
		bson.M{"name": p.Name},
		bson.M{
			"$set": bson.M{
				"description": p.Description,
				"price":       p.Price,
				"publish":     true,
				"images":      images,
				"updated_at":  now,
			},
			"$setOnInsert": bson.M{
				"_id":        primitive.NewObjectID().Hex(),
				"sold":       0,
				"created_at": now,
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func ensureSite(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection("sites").UpdateOne(ctx,
		bson.M{"name": "Site"},
		bson.M{
			"$setOnInsert": bson.M{
				"_id": primitive.NewObjectID().Hex(),
				"site_info": bson.M{
					"siteTitle": "Waves",
					"featured":  []string{},
				},
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func upsertShipping(ctx context.Context, database *mongo.Database, s domain.Shipping) error {
	_, err := database.Collection("shippings").UpdateOne(ctx,
		bson.M{"name": s.Name},
		bson.M{
			"$set":         bson.M{"price": s.Price},
			"$setOnInsert": bson.M{"_id": primitive.NewObjectID().Hex()},
		},
		options.Update().SetUpsert(true),
	)
	return err
}
