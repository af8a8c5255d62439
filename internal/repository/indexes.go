package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"employercheck/internal/logging"
)

func createIndex(ctx context.Context, coll *mongo.Collection, keys bson.D, unique bool) {
	opts := options.Index().SetUnique(unique)
	if unique {
		opts.SetPartialFilterExpression(partialFor(keys))
	}
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys, Options: opts})
	if err != nil {
		logging.New("repository").Warn("failed to create index", "collection", coll.Name(), "error", err)
	}
}

// partialFor limits a unique index to documents that have every key as a
// non-empty string, so sessions without an idempotency key don't collide
func partialFor(keys bson.D) bson.M {
	filter := bson.M{}
	for _, k := range keys {
		filter[k.Key] = bson.M{"$type": "string", "$gt": ""}
	}
	return filter
}
