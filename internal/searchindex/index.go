package searchindex

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/goliatone/go-page-composer/internal/logging"
	"github.com/goliatone/go-page-composer/pkg/interfaces"
)

var ErrTypeNameRequired = errors.New("searchindex: type name is required")

// Config locates the index database.
type Config struct {
	URI      string
	Database string
}

// MongoIndex serves batch sections from MongoDB. Each index type is a collection.
type MongoIndex struct {
	client *mongo.Client
	db     *mongo.Database
	logger interfaces.Logger
}

var _ interfaces.SearchIndex = (*MongoIndex)(nil)

// Connect opens the client and verifies the primary is reachable.
func Connect(ctx context.Context, cfg Config, logger interfaces.Logger) (*MongoIndex, error) {
	if logger == nil {
		logger = logging.NoOp()
	}
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("searchindex: connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("searchindex: ping: %w", err)
	}
	logger.Info("searchindex.connected", "database", cfg.Database)
	return &MongoIndex{
		client: client,
		db:     client.Database(cfg.Database),
		logger: logger,
	}, nil
}

// Search counts the matching documents and returns up to Limit of them.
func (m *MongoIndex) Search(ctx context.Context, query interfaces.IndexQuery) (*interfaces.IndexResult, error) {
	if query.TypeName == "" {
		return nil, ErrTypeNameRequired
	}
	filter, err := BuildFilter(query)
	if err != nil {
		return nil, err
	}
	collection := m.db.Collection(query.TypeName)

	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("searchindex: count %s: %w", query.TypeName, err)
	}

	findOpts := options.Find()
	if query.Limit > 0 {
		findOpts.SetLimit(int64(query.Limit))
	}
	if sortDoc := BuildSort(query.SortBy); len(sortDoc) > 0 {
		findOpts.SetSort(sortDoc)
	}
	cursor, err := collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("searchindex: find %s: %w", query.TypeName, err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("searchindex: decode %s: %w", query.TypeName, err)
	}
	content := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		content = append(content, plainDocument(doc))
	}
	return &interfaces.IndexResult{Count: count, Content: content}, nil
}

// Close disconnects the client.
func (m *MongoIndex) Close(ctx context.Context) error {
	if m == nil || m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}
