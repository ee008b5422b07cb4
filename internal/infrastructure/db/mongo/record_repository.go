package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rof/invgen/internal/core/domain"
)

type RecordRepository struct {
	col *mongo.Collection
}

func NewRecordRepository(db *mongo.Database) *RecordRepository {
	return &RecordRepository{col: db.Collection(collectionRecords)}
}

type mongoRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UnitNo      string             `bson:"unitNo"`
	Name        string             `bson:"name"`
	EmailID     string             `bson:"emailId"`
	ContactNo   string             `bson:"contactNo"`
	BookingDate *time.Time         `bson:"bookingDate,omitempty"`
	UnitType    string             `bson:"unitType"`
	AreaSqYrd   float64            `bson:"areaSqYrd"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func toMongoRecord(r *domain.Record) mongoRecord {
	return mongoRecord{
		UnitNo:      r.UnitNo,
		Name:        r.Name,
		EmailID:     r.EmailID,
		ContactNo:   r.ContactNo,
		BookingDate: r.BookingDate,
		UnitType:    r.UnitType,
		AreaSqYrd:   r.AreaSqYrd,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (mr *mongoRecord) toDomain() *domain.Record {
	r := &domain.Record{
		ID:        mr.ID.Hex(),
		UnitNo:    mr.UnitNo,
		Name:      mr.Name,
		EmailID:   mr.EmailID,
		ContactNo: mr.ContactNo,
		UnitType:  mr.UnitType,
		AreaSqYrd: mr.AreaSqYrd,
		CreatedAt: mr.CreatedAt.UTC(),
		UpdatedAt: mr.UpdatedAt.UTC(),
	}
	if mr.BookingDate != nil {
		t := mr.BookingDate.UTC()
		r.BookingDate = &t
	}
	return r
}

// recordSort orders records by booking date, then creation time, newest first.
var recordSort = bson.D{{Key: "bookingDate", Value: -1}, {Key: "createdAt", Value: -1}}

func (r *RecordRepository) Create(ctx context.Context, rec *domain.Record) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toMongoRecord(rec))
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rec.ID = oid.Hex()
	}
	return nil
}

func (r *RecordRepository) Update(ctx context.Context, id string, rec *domain.Record) (*domain.Record, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"unitNo":    rec.UnitNo,
		"name":      rec.Name,
		"emailId":   rec.EmailID,
		"contactNo": rec.ContactNo,
		"unitType":  rec.UnitType,
		"areaSqYrd": rec.AreaSqYrd,
		"updatedAt": rec.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if rec.BookingDate != nil {
		set["bookingDate"] = *rec.BookingDate
	} else {
		update["$unset"] = bson.M{"bookingDate": ""}
	}

	var mr mongoRecord
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&mr)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("update record: %w", err)
	}
	return mr.toDomain(), nil
}

func (r *RecordRepository) FindByID(ctx context.Context, id string) (*domain.Record, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mr mongoRecord
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("find record: %w", err)
	}
	return mr.toDomain(), nil
}

func (r *RecordRepository) List(ctx context.Context) ([]*domain.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(recordSort))
	if err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoRecord
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	records := make([]*domain.Record, 0, len(docs))
	for i := range docs {
		records = append(records, docs[i].toDomain())
	}
	return records, nil
}

// Delete removes one record. A missing record is reported as not found.
func (r *RecordRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrRecordNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

type mongoRecordPayments struct {
	mongoRecord `bson:",inline"`
	Payments    []mongoPayment `bson:"payments"`
}

// ListWithPayments joins each record with its payments in one aggregation.
func (r *RecordRepository) ListWithPayments(ctx context.Context) ([]*domain.RecordPayments, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: recordSort}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionPayments},
			{Key: "let", Value: bson.D{{Key: "recordId", Value: "$_id"}}},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{
					{Key: "$eq", Value: bson.A{"$invGenRecord", "$$recordId"}},
				}}}}},
				bson.D{{Key: "$sort", Value: bson.D{{Key: "paymentDate", Value: 1}}}},
			}},
			{Key: "as", Value: "payments"},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate records: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoRecordPayments
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode grouped payments: %w", err)
	}
	out := make([]*domain.RecordPayments, 0, len(docs))
	for i := range docs {
		group := &domain.RecordPayments{
			Record:   *docs[i].mongoRecord.toDomain(),
			Payments: make([]*domain.Payment, 0, len(docs[i].Payments)),
		}
		for j := range docs[i].Payments {
			group.Payments = append(group.Payments, docs[i].Payments[j].toDomain())
		}
		out = append(out, group)
	}
	return out, nil
}
