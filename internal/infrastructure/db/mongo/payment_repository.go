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
	"github.com/rof/invgen/internal/core/ports"
)

type PaymentRepository struct {
	col *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{col: db.Collection(collectionPayments)}
}

type mongoPayment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	RecordID  primitive.ObjectID `bson:"invGenRecord"`
	Type      string             `bson:"paymentType"`
	Amount    float64            `bson:"paymentAmount"`
	Date      time.Time          `bson:"paymentDate"`
	Notes     string             `bson:"notes,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (mp *mongoPayment) toDomain() *domain.Payment {
	return &domain.Payment{
		ID:        mp.ID.Hex(),
		RecordID:  mp.RecordID.Hex(),
		Type:      domain.PaymentType(mp.Type),
		Amount:    mp.Amount,
		Date:      mp.Date.UTC(),
		Notes:     mp.Notes,
		CreatedAt: mp.CreatedAt.UTC(),
		UpdatedAt: mp.UpdatedAt.UTC(),
	}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	recordID, ok := objectID(p.RecordID)
	if !ok {
		return domain.ErrInvalidRecordRef
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, mongoPayment{
		RecordID:  recordID,
		Type:      string(p.Type),
		Amount:    p.Amount,
		Date:      p.Date,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid.Hex()
	}
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoPayment
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return mp.toDomain(), nil
}

// Update applies the non-nil fields of patch and returns the updated payment.
func (r *PaymentRepository) Update(ctx context.Context, id string, patch ports.PaymentPatch) (*domain.Payment, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Type != nil {
		set["paymentType"] = string(*patch.Type)
	}
	if patch.Amount != nil {
		set["paymentAmount"] = *patch.Amount
	}
	if patch.Date != nil {
		set["paymentDate"] = *patch.Date
	}
	if patch.Notes != nil {
		set["notes"] = *patch.Notes
	}

	var mp mongoPayment
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&mp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("update payment: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id string) (*domain.Payment, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoPayment
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("delete payment: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *PaymentRepository) ListByRecord(ctx context.Context, recordID string) ([]*domain.Payment, error) {
	oid, ok := objectID(recordID)
	if !ok {
		return []*domain.Payment{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"invGenRecord": oid}, options.Find().SetSort(bson.D{{Key: "paymentDate", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find payments: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoPayment
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode payments: %w", err)
	}
	payments := make([]*domain.Payment, 0, len(docs))
	for i := range docs {
		payments = append(payments, docs[i].toDomain())
	}
	return payments, nil
}

// DeleteByRecord removes every payment of a record; repeating it is harmless.
func (r *PaymentRepository) DeleteByRecord(ctx context.Context, recordID string) (int64, error) {
	oid, ok := objectID(recordID)
	if !ok {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"invGenRecord": oid})
	if err != nil {
		return 0, fmt.Errorf("delete payments of record: %w", err)
	}
	return res.DeletedCount, nil
}
