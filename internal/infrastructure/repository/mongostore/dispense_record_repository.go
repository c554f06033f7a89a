package mongostore

import (
	"context"
	"time"

	"github.com/sangkips/pharmacy-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pharmacy-api/internal/domain/repository"
	"github.com/sangkips/pharmacy-api/pkg/apperror"
	"github.com/sangkips/pharmacy-api/pkg/pagination"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type dispenseRecordRepository struct {
	coll *mongo.Collection
}

// NewDispenseRecordRepository creates a MongoDB-backed dispensing history
func NewDispenseRecordRepository(db *mongo.Database) domainRepo.DispenseRecordRepository {
	return &dispenseRecordRepository{coll: db.Collection(DispensingRecordsCollection)}
}

func (r *dispenseRecordRepository) Create(ctx context.Context, record *entity.DispenseRecord) error {
	doc := newDispenseRecordDocument(record)
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return wrapStoreErr("create dispense record", err)
	}
	record.ID = doc.ID.Hex()
	return nil
}

func (r *dispenseRecordRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]entity.DispenseRecord, error) {
	filter := bson.M{"dispensedDate": bson.M{"$gte": start, "$lte": end}}
	opts := options.Find().SetSort(bson.D{{Key: "dispensedDate", Value: 1}, {Key: "lineNo", Value: 1}})
	return r.find(ctx, "list dispense records by date", filter, opts)
}

func (r *dispenseRecordRepository) ListWithCursor(ctx context.Context, params *pagination.CursorParams) ([]entity.DispenseRecord, error) {
	params.Validate()
	cursor, err := params.DecodeCursor()
	if err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}

	filter := bson.M{}
	if cursor != nil {
		oid, ok := objectID(cursor.ID)
		if !ok {
			return nil, apperror.NewBadRequestError("invalid cursor data: unknown id")
		}
		filter["$or"] = bson.A{
			bson.M{"dispensedDate": bson.M{"$lt": cursor.At}},
			bson.M{"dispensedDate": cursor.At, "_id": bson.M{"$lt": oid}},
		}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "dispensedDate", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(params.Limit + 1))
	return r.find(ctx, "list dispense records", filter, opts)
}

func (r *dispenseRecordRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	return n, wrapStoreErr("count dispense records", err)
}

func (r *dispenseRecordRepository) ListByBillNumber(ctx context.Context, billNumber string) ([]entity.DispenseRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "dispensedDate", Value: 1}, {Key: "lineNo", Value: 1}})
	return r.find(ctx, "list bill lines", bson.M{"billNumber": billNumber}, opts)
}

func (r *dispenseRecordRepository) find(ctx context.Context, op string, filter interface{}, opts *options.FindOptions) ([]entity.DispenseRecord, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrapStoreErr(op, err)
	}
	var docs []dispenseRecordDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, wrapStoreErr(op, err)
	}
	records := make([]entity.DispenseRecord, 0, len(docs))
	for _, d := range docs {
		records = append(records, d.entity())
	}
	return records, nil
}
