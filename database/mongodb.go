package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoHealth adapts the driver client to the single-argument ping the
// health endpoint expects.
type MongoHealth struct {
	Client *mongo.Client
}

func (m MongoHealth) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, nil)
}

// NewMongoClient connects to the document store holding sample papers and
// extraction tasks. ObjectIDs decode as hex strings so the rest of the code
// only ever sees string ids.
func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().
		ApplyURI(uri).
		SetBSONOptions(
			&options.BSONOptions{
				ObjectIDAsHexString: true,
			},
		))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}
