package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

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
	return &mongoRepo{collection: db.Collection("products"), logger: logger}
}

func sortDirection(order string) int {
	if order == "asc" {
		return 1
	}
	return -1
}

func (r *mongoRepo) SearchPublished(ctx context.Context, q ShopQuery) ([]domain.Product, error) {
	filter := bson.M{}
	for key, value := range q.Filters {
		filter[key] = value
	}
	if q.PriceMin != nil || q.PriceMax != nil {
		rangeFilter := bson.M{}
		if q.PriceMin != nil {
			rangeFilter["$gte"] = *q.PriceMin
		}
		if q.PriceMax != nil {
			rangeFilter["$lte"] = *q.PriceMax
		}
		filter["price"] = rangeFilter
	}
	// Public reads never see unpublished products, whatever the client sent.
	filter["publish"] = true

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "_id"
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: sortDirection(q.Order)}}).
		SetSkip(q.Skip).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Printf("product repo: search error=%v", err)
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer cursor.Close(ctx)

	var result []domain.Product
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	r.logger.Printf("product repo: search count=%d", len(result))
	return result, nil
}

func (r *mongoRepo) List(ctx context.Context, listOpts ListOptions) ([]domain.Product, error) {
	sortBy := listOpts.SortBy
	if sortBy == "" {
		sortBy = "_id"
	}
	limit := listOpts.Limit
	if limit <= 0 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: sortDirection(listOpts.Order)}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	var result []domain.Product
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return result, nil
}

func (r *mongoRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Printf("product repo: get id=%s not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (r *mongoRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		r.logger.Printf("product repo: get by ids error=%v", err)
		return nil, fmt.Errorf("get products by ids: %w", err)
	}
	defer cursor.Close(ctx)

	var result []domain.Product
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return result, nil
}

func (r *mongoRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = primitive.NewObjectID().Hex()
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	p.Sold = 0
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, p); err != nil {
		r.logger.Printf("product repo: create name=%q error=%v", p.Name, err)
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: product name already exists", domain.ErrValidation)
		}
		return nil, fmt.Errorf("create product: %w", err)
	}
	r.logger.Printf("product repo: created id=%s name=%q", p.ID, p.Name)
	return &p, nil
}

func (r *mongoRepo) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Printf("product repo: delete id=%s error=%v", id, err)
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("product repo: deleted id=%s", id)
	return nil
}

func (r *mongoRepo) IncrementSold(ctx context.Context, id string, quantity int) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"sold": quantity},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		r.logger.Printf("product repo: increment sold id=%s error=%v", id, err)
		return fmt.Errorf("increment sold: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// EnsureIndexes creates the product indexes. Called once at startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("products").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "publish", Value: 1}, {Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "sold", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create product indexes: %w", err)
	}
	return nil
}
