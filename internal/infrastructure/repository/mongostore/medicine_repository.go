package mongostore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/sangkips/pharmacy-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pharmacy-api/internal/domain/repository"
	"github.com/sangkips/pharmacy-api/pkg/apperror"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type medicineRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMedicineRepository creates a MongoDB-backed medicine repository
func NewMedicineRepository(db *mongo.Database) domainRepo.MedicineRepository {
	return &medicineRepository{coll: db.Collection(MedicinesCollection), now: time.Now}
}

func (r *medicineRepository) Create(ctx context.Context, medicine *entity.Medicine) (string, error) {
	now := r.now().UTC()
	medicine.CreatedAt, medicine.UpdatedAt = now, now

	doc := newMedicineDocument(medicine)
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return "", wrapStoreErr("create medicine", err)
	}
	medicine.ID = doc.ID.Hex()
	return medicine.ID, nil
}

func (r *medicineRepository) GetByID(ctx context.Context, id string) (*entity.Medicine, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, nil
	}
	var doc medicineDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapStoreErr("get medicine", err)
	}
	m := doc.entity()
	return &m, nil
}

func (r *medicineRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Medicine, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, ok := objectID(id); ok {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []entity.Medicine{}, nil
	}
	return r.find(ctx, "get medicines", bson.M{"_id": bson.M{"$in": oids}}, nil)
}

func (r *medicineRepository) Update(ctx context.Context, id string, update entity.MedicineUpdate) error {
	oid, ok := objectID(id)
	if !ok {
		return apperror.NewNotFoundError("Medicine")
	}
	set := bson.M{}
	for col, v := range update.Columns() {
		set[medicineFields[col]] = v
	}
	if len(set) == 0 {
		return nil
	}
	set["updatedAt"] = r.now().UTC()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return wrapStoreErr("update medicine", err)
	}
	if res.MatchedCount == 0 {
		return apperror.NewNotFoundError("Medicine")
	}
	return nil
}

func (r *medicineRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return apperror.NewNotFoundError("Medicine")
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return wrapStoreErr("delete medicine", err)
	}
	if res.DeletedCount == 0 {
		return apperror.NewNotFoundError("Medicine")
	}
	return nil
}

func (r *medicineRepository) List(ctx context.Context, params *domainRepo.MedicineFilterParams) ([]entity.Medicine, error) {
	filter := bson.M{}
	if params != nil {
		if params.Status != nil {
			filter["status"] = string(*params.Status)
		}
		if search := strings.TrimSpace(params.Search); search != "" {
			pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
			filter["$or"] = bson.A{
				bson.M{"name": pattern},
				bson.M{"batchNumber": pattern},
			}
		}
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	return r.find(ctx, "list medicines", filter, opts)
}

func (r *medicineRepository) find(ctx context.Context, op string, filter interface{}, opts *options.FindOptions) ([]entity.Medicine, error) {
	var findOpts []*options.FindOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}
	cur, err := r.coll.Find(ctx, filter, findOpts...)
	if err != nil {
		return nil, wrapStoreErr(op, err)
	}
	var docs []medicineDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, wrapStoreErr(op, err)
	}
	medicines := make([]entity.Medicine, 0, len(docs))
	for _, d := range docs {
		medicines = append(medicines, d.entity())
	}
	return medicines, nil
}
