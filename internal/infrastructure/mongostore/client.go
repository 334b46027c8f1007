package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names
const (
	ColUsers = "users"
	ColAds   = "ads"
)

// Connect opens a client and verifies it with a ping bounded by timeout.
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect failed: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping failed: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the indexes both repositories rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	type idx struct {
		col     string
		keys    bson.D
		unique  bool
		partial bson.D
	}

	indexes := []idx{
		{col: ColUsers, keys: bson.D{{Key: "email", Value: 1}}, unique: true},
		// order numbers are unique across all users; users without orders
		// are excluded so the missing value is not indexed as null
		{
			col:     ColUsers,
			keys:    bson.D{{Key: "orders.orderNumber", Value: 1}},
			unique:  true,
			partial: bson.D{{Key: "orders.orderNumber", Value: bson.D{{Key: "$exists", Value: true}}}},
		},

		{col: ColAds, keys: bson.D{{Key: "advertiserId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{col: ColAds, keys: bson.D{{Key: "adType", Value: 1}, {Key: "createdAt", Value: -1}}},
		{col: ColAds, keys: bson.D{{Key: "tags", Value: 1}}},
	}

	for _, i := range indexes {
		model := mongo.IndexModel{Keys: i.keys}
		opts := options.Index()
		if i.unique {
			opts.SetUnique(true)
		}
		if i.partial != nil {
			opts.SetPartialFilterExpression(i.partial)
		}
		model.Options = opts
		if _, err := db.Collection(i.col).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", i.col, err)
		}
	}
	return nil
}
