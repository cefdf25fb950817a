package payment

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
	payments *mongo.Collection
	intents  *mongo.Collection
	logger   *log.Logger
}

func NewMongo(db *mongo.Database, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &mongoRepo{
		payments: db.Collection("payments"),
		intents:  db.Collection("checkout_intents"),
		logger:   logger,
	}
}

func (r *mongoRepo) Create(ctx context.Context, p domain.Payment) (*domain.Payment, error) {
	if p.ID == "" {
		p.ID = primitive.NewObjectID().Hex()
	}
	p.CreatedAt = time.Now().UTC()

	if _, err := r.payments.InsertOne(ctx, p); err != nil {
		r.logger.Printf("payment repo: create user=%s error=%v", p.User.ID, err)
		return nil, fmt.Errorf("create payment: %w", err)
	}
	r.logger.Printf("payment repo: created id=%s user=%s lines=%d", p.ID, p.User.ID, len(p.Product))
	return &p, nil
}

func (r *mongoRepo) List(ctx context.Context, limit int64) ([]domain.Payment, error) {
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.payments.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer cursor.Close(ctx)

	var result []domain.Payment
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode payments: %w", err)
	}
	return result, nil
}

func (r *mongoRepo) CreateIntent(ctx context.Context, intent domain.CheckoutIntent) error {
	now := time.Now().UTC()
	intent.CreatedAt = now
	intent.UpdatedAt = now
	if _, err := r.intents.InsertOne(ctx, intent); err != nil {
		r.logger.Printf("payment repo: create intent id=%s error=%v", intent.ID, err)
		return fmt.Errorf("create checkout intent: %w", err)
	}
	return nil
}

func (r *mongoRepo) UpdateIntentStatus(ctx context.Context, id, status, failedStep string) error {
	set := bson.M{"status": status, "updated_at": time.Now().UTC()}
	if failedStep != "" {
		set["failed_step"] = failedStep
	}
	res, err := r.intents.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		r.logger.Printf("payment repo: update intent id=%s status=%s error=%v", id, status, err)
		return fmt.Errorf("update checkout intent: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *mongoRepo) GetIntent(ctx context.Context, id string) (*domain.CheckoutIntent, error) {
	var intent domain.CheckoutIntent
	err := r.intents.FindOne(ctx, bson.M{"_id": id}).Decode(&intent)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get checkout intent: %w", err)
	}
	return &intent, nil
}

// EnsureIndexes creates the ledger indexes. Called once at startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("payments").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user.id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create payment indexes: %w", err)
	}
	_, err = db.Collection("checkout_intents").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "updated_at", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create intent indexes: %w", err)
	}
	return nil
}
