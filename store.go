package mongolog

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/writeconcern"
)

// namespaceExistsCode is returned by createCollection when another
// process bootstrapped the collection first.
const namespaceExistsCode = 48

// mongoStore is the production Store over a capped collection.
type mongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// DialStore connects to the configured deployment and ensures the capped
// collection exists. The returned store is safe for concurrent use; the
// driver pools connections internally.
func DialStore(ctx context.Context, cfg *Config) (Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("dial store: %s", errMsgNilConfig)
	}

	opts := options.Client().
		ApplyURI(cfg.uri()).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)

	if cfg.Username != emptyString {
		opts.SetAuth(options.Credential{
			AuthSource: cfg.Database,
			Username:   cfg.Username,
			Password:   cfg.Password,
		})
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.uri(), err)
	}

	db := client.Database(cfg.Database)
	if err := ensureCapped(ctx, db, cfg.Collection, cfg.CapSizeBytes); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	wc := writeconcern.Unacknowledged()
	if cfg.SafeInsert {
		wc = writeconcern.Majority()
	}
	coll := db.Collection(cfg.Collection, options.Collection().SetWriteConcern(wc))

	return &mongoStore{client: client, coll: coll}, nil
}

func (s *mongoStore) Insert(ctx context.Context, doc bson.M) error {
	_, err := s.coll.InsertOne(ctx, doc)
	return err
}

// Drop removes the capped collection. Used by operational tooling to
// re-bootstrap with a different cap size.
func (s *mongoStore) Drop(ctx context.Context) error {
	return s.coll.Drop(ctx)
}

func (s *mongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// ensureCapped creates the capped collection when it does not exist yet.
// A concurrent creation by another worker is not an error.
func ensureCapped(ctx context.Context, db *mongo.Database, name string, sizeBytes int64) error {
	names, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	if len(names) > 0 {
		return nil
	}

	createOpts := options.CreateCollection().
		SetCapped(true).
		SetSizeInBytes(sizeBytes)

	if err := db.CreateCollection(ctx, name, createOpts); err != nil {
		var cmdErr mongo.CommandError
		if errors.As(err, &cmdErr) && cmdErr.Code == namespaceExistsCode {
			return nil
		}
		return fmt.Errorf("create capped collection %s: %w", name, err)
	}
	return nil
}

// uri builds the connection string, preferring an explicit URI over the
// host/port pair.
func (c *Config) uri() string {
	if c.URI != emptyString {
		return c.URI
	}
	return fmt.Sprintf("mongodb://%s:%d", c.Host, c.Port)
}
