package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rof/invgen/internal/core/domain"
	"github.com/rof/invgen/internal/core/ports"
)

type EntryRepository struct {
	col *mongo.Collection
}

func NewEntryRepository(db *mongo.Database) *EntryRepository {
	return &EntryRepository{col: db.Collection(collectionEntries)}
}

// mongoEntry flattens broker details into top-level fields, as stored by
// the existing dashboard.
type mongoEntry struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"name"`
	Phone           string             `bson:"phone,omitempty"`
	Type            string             `bson:"type"`
	Image           string             `bson:"image"`
	Project         string             `bson:"project"`
	Remarks         string             `bson:"remarks,omitempty"`
	BrokerName      string             `bson:"brokerName,omitempty"`
	FirmName        string             `bson:"firmName,omitempty"`
	BrokerContactNo string             `bson:"brokerContactNo,omitempty"`
	CreatedBy       primitive.ObjectID `bson:"createdBy,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

func toMongoEntry(e *domain.Entry) mongoEntry {
	doc := mongoEntry{
		Name:      e.Name,
		Phone:     e.Phone,
		Type:      string(e.Type),
		Image:     e.Image,
		Project:   string(e.Project),
		Remarks:   e.Remarks,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	if e.Broker != nil {
		doc.BrokerName = e.Broker.Name
		doc.FirmName = e.Broker.FirmName
		doc.BrokerContactNo = e.Broker.ContactNo
	}
	if oid, ok := objectID(e.CreatedBy); ok {
		doc.CreatedBy = oid
	}
	return doc
}

func (me *mongoEntry) toDomain() *domain.Entry {
	e := &domain.Entry{
		ID:        me.ID.Hex(),
		Name:      me.Name,
		Phone:     me.Phone,
		Type:      domain.EntryType(me.Type),
		Image:     me.Image,
		Project:   domain.Project(me.Project),
		Remarks:   me.Remarks,
		CreatedAt: me.CreatedAt.UTC(),
		UpdatedAt: me.UpdatedAt.UTC(),
	}
	if !me.CreatedBy.IsZero() {
		e.CreatedBy = me.CreatedBy.Hex()
	}
	if e.Type == domain.EntryBroker {
		e.Broker = &domain.BrokerDetails{Name: me.BrokerName, FirmName: me.FirmName, ContactNo: me.BrokerContactNo}
	}
	return e
}

// Create inserts a new entry document and sets its ID.
func (r *EntryRepository) Create(ctx context.Context, e *domain.Entry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toMongoEntry(e))
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		e.ID = oid.Hex()
	}
	return nil
}

// List applies the project and creation-range restrictions, newest first.
func (r *EntryRepository) List(ctx context.Context, f ports.EntryFilter) ([]*domain.Entry, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Project != "" {
		filter["project"] = string(f.Project)
	}
	if f.Created != nil {
		filter["createdAt"] = bson.M{"$gte": f.Created.Start, "$lt": f.Created.End}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if f.Skip > 0 {
		opts.SetSkip(int64(f.Skip))
	}
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find entries: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoEntry
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode entries: %w", err)
	}
	entries := make([]*domain.Entry, 0, len(docs))
	for i := range docs {
		entries = append(entries, docs[i].toDomain())
	}
	return entries, total, nil
}
