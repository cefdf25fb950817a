package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"waves-backend/internal/domain"
)

const siteName = "Site"

type mongoRepo struct {
	collection *mongo.Collection
	logger     *log.Logger
}

func NewMongo(db *mongo.Database, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &mongoRepo{collection: db.Collection("sites"), logger: logger}
}

func (r *mongoRepo) Get(ctx context.Context) (*domain.Site, error) {
	var s domain.Site
	err := r.collection.FindOne(ctx, bson.M{"name": siteName}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get site: %w", err)
	}
	return &s, nil
}

func (r *mongoRepo) SetInfo(ctx context.Context, info map[string]interface{}) (*domain.Site, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var s domain.Site
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"name": siteName},
		bson.M{
			"$set":         bson.M{"site_info": info},
			"$setOnInsert": bson.M{"_id": primitive.NewObjectID().Hex()},
		},
		opts,
	).Decode(&s)
	if err != nil {
		r.logger.Printf("site repo: set info error=%v", err)
		return nil, fmt.Errorf("set site info: %w", err)
	}
	return &s, nil
}
