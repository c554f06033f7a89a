package mongostore

import (
	"context"
	"errors"

	"github.com/sangkips/pharmacy-api/pkg/apperror"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func wrapStoreErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) ||
		errors.Is(err, context.DeadlineExceeded) {
		return apperror.NewStoreUnavailableError(op, err)
	}
	return err
}

// objectID parses a hex id. ok is false for ids this store could never have issued.
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}
