package shipping

import (
	"context"
	"fmt"
	"io"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"waves-backend/internal/domain"
)

type mongoRepo struct {
	collection *mongo.Collection
	logger     *log.Logger
}

func NewMongo(db *mongo.Database, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &mongoRepo{collection: db.Collection("shippings"), logger: logger}
}

func (r *mongoRepo) Create(ctx context.Context, s domain.Shipping) (*domain.Shipping, error) {
	if s.ID == "" {
		s.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.collection.InsertOne(ctx, s); err != nil {
		r.logger.Printf("shipping repo: create name=%q error=%v", s.Name, err)
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: shipping name already exists", domain.ErrValidation)
		}
		return nil, fmt.Errorf("create shipping: %w", err)
	}
	return &s, nil
}

func (r *mongoRepo) List(ctx context.Context) ([]domain.Shipping, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list shippings: %w", err)
	}
	defer cursor.Close(ctx)

	var result []domain.Shipping
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode shippings: %w", err)
	}
	return result, nil
}

// EnsureIndexes creates the shipping indexes. Called once at startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("shippings").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create shipping indexes: %w", err)
	}
	return nil
}
