package leads

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration // per-operation timeout, 5s if zero
}

// MongoStore archives leads in a MongoDB collection, one document per lead
// keyed by lead ID.
type MongoStore struct {
	client  *mongo.Client
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "wallie"
	}
	if cfg.Collection == "" {
		cfg.Collection = "leads"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetTimeout(cfg.Timeout))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	if _, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "receivedAt", Value: -1}},
	}); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &MongoStore{client: client, coll: coll, timeout: cfg.Timeout}, nil
}

func (s *MongoStore) Save(ctx context.Context, lead *Lead) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if _, err := s.coll.InsertOne(ctx, lead); err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Lead, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var lead Lead
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&lead)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find lead: %w", err)
	}
	return &lead, nil
}

func (s *MongoStore) MarkRelayed(ctx context.Context, id string, at time.Time, relayErr error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"relayedAt": at.UTC()}, "$unset": bson.M{"relayError": ""}}
	if relayErr != nil {
		update = bson.M{"$set": bson.M{"relayError": relayErr.Error()}}
	}
	if _, err := s.coll.UpdateByID(ctx, id, update); err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}
