package source

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/netscope/pkg/errors"
	"github.com/matzehuels/netscope/pkg/graph"
)

// Default MongoDB locations.
const (
	DefaultMongoDatabase   = "netscope"
	DefaultMongoCollection = "networks"
)

// MongoConfig configures a MongoSource.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration // connect and query timeout, default 10s
}

// MongoSource reads documents from a MongoDB collection, one network per
// BSON document keyed by its name field.
type MongoSource struct {
	client     *mongo.Client
	collection *mongo.Collection
	timeout    time.Duration
}

// NewMongoSource connects to MongoDB and verifies the connection.
func NewMongoSource(ctx context.Context, cfg MongoConfig) (*MongoSource, error) {
	if cfg.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidSource, "mongo uri is empty")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = httpTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongo")
	}

	s := NewMongoSourceFromCollection(client.Database(cfg.Database).Collection(cfg.Collection))
	s.client = client
	s.timeout = cfg.Timeout
	return s, nil
}

// NewMongoSourceFromCollection reads from an existing collection. Close
// does not disconnect the collection's client.
func NewMongoSourceFromCollection(coll *mongo.Collection) *MongoSource {
	return &MongoSource{collection: coll, timeout: httpTimeout}
}

// Kind implements Source.
func (s *MongoSource) Kind() string { return "mongo" }

// Open implements Source.
func (s *MongoSource) Open(ctx context.Context, name string) (graph.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var doc graph.Document
	err := s.collection.FindOne(ctx, bson.M{"name": name}).Decode(&doc)
	switch {
	case stderrors.Is(err, mongo.ErrNoDocuments):
		return graph.Document{}, errors.New(errors.ErrCodeNetworkNotFound, "no network %q in mongo", name)
	case err != nil:
		return graph.Document{}, errors.Wrap(errors.ErrCodeLoad, err, "read network %q", name)
	}
	return doc, nil
}

// Save upserts doc under its name.
func (s *MongoSource) Save(ctx context.Context, doc graph.Document) error {
	if doc.Name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "document has no name")
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.collection.ReplaceOne(ctx, bson.M{"name": doc.Name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save network %q", doc.Name)
	}
	return nil
}

// Names lists the stored network names in ascending order.
func (s *MongoSource) Names(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"name": 1}).SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoad, err, "list networks")
	}
	defer cur.Close(ctx)

	var names []string
	for cur.Next(ctx) {
		var row struct {
			Name string `bson:"name"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, errors.Wrap(errors.ErrCodeLoad, err, "decode network name")
		}
		names = append(names, row.Name)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoad, err, "list networks")
	}
	return names, nil
}

// Close disconnects the client if the source created it.
func (s *MongoSource) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
