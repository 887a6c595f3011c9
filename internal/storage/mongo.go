package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/types"
)

// MongoStore keeps product records in a MongoDB collection with a unique
// index on the ASIN field.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewMongoStore connects to MongoDB and ensures the ASIN index exists.
func NewMongoStore(uri, database, collection string, logger *slog.Logger) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("connect: %w", err)}
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("ping: %w", err)}
	}

	coll := client.Database(database).Collection(collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "asin", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("create index: %w", err)}
	}

	return &MongoStore{
		client:     client,
		collection: coll,
		logger:     logger.With("component", "mongo_store"),
	}, nil
}

func (s *MongoStore) Name() string { return "mongodb" }

func (s *MongoStore) Upsert(ctx context.Context, record *types.ProductRecord) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"asin": record.ASIN}, record, opts)
	if err != nil {
		return &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("upsert: %w", err)}
	}
	s.logger.Debug("record upserted", "asin", record.ASIN, "slug", record.Slug)
	return nil
}

func (s *MongoStore) FindByASIN(ctx context.Context, asin string) (*types.ProductRecord, error) {
	return s.findOne(ctx, bson.M{"asin": asin})
}

func (s *MongoStore) FindBySlug(ctx context.Context, slug string) (*types.ProductRecord, error) {
	return s.findOne(ctx, bson.M{"slug": slug})
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (*types.ProductRecord, error) {
	var record types.ProductRecord
	err := s.collection.FindOne(ctx, filter).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("find: %w", err)}
	}
	return &record, nil
}

func (s *MongoStore) List(ctx context.Context) ([]*types.ProductRecord, error) {
	cursor, err := s.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("list: %w", err)}
	}
	defer cursor.Close(ctx)

	var records []*types.ProductRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("decode: %w", err)}
	}
	return records, nil
}

func (s *MongoStore) Update(ctx context.Context, asin string, upd *types.RecordUpdate) error {
	set := bson.M{}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.ImageURL != nil {
		set["image_url"] = *upd.ImageURL
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Slug != nil {
		set["slug"] = *upd.Slug
	}
	if len(set) == 0 {
		return nil
	}

	res, err := s.collection.UpdateOne(ctx, bson.M{"asin": asin}, bson.M{"$set": set})
	if err != nil {
		return &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("update: %w", err)}
	}
	if res.MatchedCount == 0 {
		return &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("update: no record for asin %s", asin)}
	}
	return nil
}

func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	n, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("count: %w", err)}
	}
	return n, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
