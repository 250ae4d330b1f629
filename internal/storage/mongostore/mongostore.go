// Package mongostore provides a MongoDB-backed implementation of the storage.Store
// interface. Each entity type lives in its own collection; tasks are embedded
// in their project document.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/mmynk/shopboard/internal/storage"
)

// Ensure MongoStore implements storage.Store
var _ storage.Store = (*MongoStore)(nil)

const (
	usersCollection    = "users"
	productsCollection = "products"
	ordersCollection   = "orders"
	projectsCollection = "projects"
)

// MongoStore implements storage.Store using MongoDB.
type MongoStore struct {
	client   *mongo.Client
	products *mongo.Collection
	users    *mongo.Collection
	orders   *mongo.Collection
	projects *mongo.Collection
}

// New connects to the MongoDB deployment at uri, verifies the connection and
// ensures the indexes the store relies on exist.
func New(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(database)
	s := &MongoStore{
		client:   client,
		products: db.Collection(productsCollection),
		users:    db.Collection(usersCollection),
		orders:   db.Collection(ordersCollection),
		projects: db.Collection(projectsCollection),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}

	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users email index: %w", err)
	}

	creationOrder := mongo.IndexModel{Keys: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}}
	for _, coll := range []*mongo.Collection{s.products, s.projects} {
		if _, err := coll.Indexes().CreateOne(ctx, creationOrder); err != nil {
			return fmt.Errorf("failed to create %s creation-order index: %w", coll.Name(), err)
		}
	}
	return nil
}

// Ping checks the deployment is reachable.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// findOptions converts a page into a creation-ordered find.
func findOptions(page storage.Page) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	if page.Offset > 0 {
		opts.SetSkip(int64(page.Offset))
	}
	if page.Limit > 0 {
		opts.SetLimit(int64(page.Limit))
	}
	return opts
}

// now returns the current time at the millisecond precision BSON stores.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
