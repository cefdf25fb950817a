package user

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
	return &mongoRepo{collection: db.Collection("users"), logger: logger}
}

func (r *mongoRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	now := time.Now().UTC()
	if u.ID == "" {
		u.ID = primitive.NewObjectID().Hex()
	}
	if u.Cart == nil {
		u.Cart = []domain.CartLine{}
	}
	if u.History == nil {
		u.History = []domain.HistoryEntry{}
	}
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, u); err != nil {
		r.logger.Printf("user repo: create email=%s error=%v", u.Email, err)
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: email already registered", domain.ErrValidation)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	r.logger.Printf("user repo: created id=%s email=%s", u.ID, u.Email)
	return &u, nil
}

func (r *mongoRepo) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var u domain.User
	err := r.collection.FindOne(ctx, filter).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (r *mongoRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoRepo) GetByToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"token": token})
}

func (r *mongoRepo) GetByResetToken(ctx context.Context, token string, notBefore time.Time) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrNotFound
	}
	return r.findOne(ctx, bson.M{
		"reset_token":     token,
		"reset_token_exp": bson.M{"$gte": notBefore},
	})
}

func (r *mongoRepo) update(ctx context.Context, id string, update bson.M) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		r.logger.Printf("user repo: update id=%s error=%v", id, err)
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *mongoRepo) SetToken(ctx context.Context, id, token string) error {
	return r.update(ctx, id, bson.M{
		"$set": bson.M{"token": token, "updated_at": time.Now().UTC()},
	})
}

func (r *mongoRepo) SetResetToken(ctx context.Context, id, token string, exp time.Time) error {
	return r.update(ctx, id, bson.M{
		"$set": bson.M{"reset_token": token, "reset_token_exp": exp, "updated_at": time.Now().UTC()},
	})
}

func (r *mongoRepo) ResetPassword(ctx context.Context, id, passwordHash string) error {
	return r.update(ctx, id, bson.M{
		"$set":   bson.M{"password": passwordHash, "updated_at": time.Now().UTC()},
		"$unset": bson.M{"reset_token": "", "reset_token_exp": ""},
	})
}

func (r *mongoRepo) UpdateProfile(ctx context.Context, id string, fields map[string]interface{}) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}
	return r.update(ctx, id, bson.M{"$set": set})
}

func (r *mongoRepo) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*domain.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u domain.User
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &u, nil
}

func (r *mongoRepo) PushCartLine(ctx context.Context, id string, line domain.CartLine) (*domain.User, error) {
	return r.findOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"cart": line},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
}

func (r *mongoRepo) IncrementCartQuantity(ctx context.Context, id, productID string, delta int) (*domain.User, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"elem.product_id": productID}},
		})
	var u domain.User
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "cart.product_id": productID},
		bson.M{
			"$inc": bson.M{"cart.$[elem].quantity": delta},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
		opts,
	).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("increment cart quantity: %w", err)
	}
	return &u, nil
}

func (r *mongoRepo) PullCartLine(ctx context.Context, id, productID string) (*domain.User, error) {
	return r.findOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$pull": bson.M{"cart": bson.M{"product_id": productID}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
}

func (r *mongoRepo) PullFromAllCarts(ctx context.Context, productID string) error {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"cart.product_id": productID},
		bson.M{
			"$pull": bson.M{"cart": bson.M{"product_id": productID}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		r.logger.Printf("user repo: pull product=%s from carts error=%v", productID, err)
		return fmt.Errorf("pull product from carts: %w", err)
	}
	r.logger.Printf("user repo: pulled product=%s from %d carts", productID, res.ModifiedCount)
	return nil
}

func (r *mongoRepo) AppendHistoryAndClearCart(ctx context.Context, id string, entries []domain.HistoryEntry) (*domain.User, error) {
	return r.findOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"history": bson.M{"$each": entries}},
			"$set":  bson.M{"cart": []domain.CartLine{}, "updated_at": time.Now().UTC()},
		},
	)
}

// EnsureIndexes creates the user indexes. Called once at startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "reset_token", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}
