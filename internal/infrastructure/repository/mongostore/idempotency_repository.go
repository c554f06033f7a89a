package mongostore

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/pharmacy-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pharmacy-api/internal/domain/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type idempotencyRepository struct {
	coll *mongo.Collection
}

// NewIdempotencyRepository creates a MongoDB-backed idempotency store
func NewIdempotencyRepository(db *mongo.Database) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{coll: db.Collection(IdempotencyCollection)}
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key, clientID string) (*entity.IdempotencyKey, error) {
	var doc idempotencyDocument
	err := r.coll.FindOne(ctx, bson.M{"key": key, "clientId": clientID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapStoreErr("get idempotency key", err)
	}
	return &entity.IdempotencyKey{
		ID:           doc.ID.Hex(),
		Key:          doc.Key,
		ClientID:     doc.ClientID,
		Endpoint:     doc.Endpoint,
		RequestHash:  doc.RequestHash,
		ResponseCode: doc.ResponseCode,
		ResponseBody: doc.ResponseBody,
		CreatedAt:    doc.CreatedAt,
		ExpiresAt:    doc.ExpiresAt,
	}, nil
}

func (r *idempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	doc := idempotencyDocument{
		ID:           primitive.NewObjectID(),
		Key:          ikey.Key,
		ClientID:     ikey.ClientID,
		Endpoint:     ikey.Endpoint,
		RequestHash:  ikey.RequestHash,
		ResponseCode: ikey.ResponseCode,
		ResponseBody: ikey.ResponseBody,
		CreatedAt:    ikey.CreatedAt,
		ExpiresAt:    ikey.ExpiresAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return wrapStoreErr("create idempotency key", err)
	}
	ikey.ID = doc.ID.Hex()
	return nil
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"expiresAt": bson.M{"$lt": now}})
	return wrapStoreErr("delete expired idempotency keys", err)
}
