package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the repositories query on
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		MedicinesCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		DispensingRecordsCollection: {
			{Keys: bson.D{{Key: "dispensedDate", Value: -1}, {Key: "_id", Value: -1}}},
			{Keys: bson.D{{Key: "billNumber", Value: 1}, {Key: "lineNo", Value: 1}}},
		},
		IdempotencyCollection: {
			{Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "key", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
		},
	}
	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, wrapStoreErr("create indexes", err))
		}
	}
	return nil
}
