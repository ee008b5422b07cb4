package mongo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rof/invgen/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Collection names shared with the existing database.
const (
	collectionUsers    = "invgenusers"
	collectionEntries  = "invgenentries"
	collectionRecords  = "invgenrecords"
	collectionPayments = "invgenpayments"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// objectID parses a hex id. Malformed ids are reported as not found by the
// callers, so the bool is all they need.
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// codeIllegalOperation is returned by standalone servers for transaction commands.
const codeIllegalOperation = 20

// Transactor runs functions inside multi-document transactions when the
// deployment is a replica set or sharded cluster.
type Transactor struct {
	client *mongo.Client

	mu        sync.Mutex
	supported *bool
}

func NewTransactor(client *mongo.Client) *Transactor {
	return &Transactor{client: client}
}

// WithTransaction returns ports.ErrTransactionsUnsupported without calling
// fn when the server cannot run transactions.
func (t *Transactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	ok, err := t.supportsTransactions(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ports.ErrTransactionsUnsupported
	}

	sess, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == codeIllegalOperation {
		t.remember(false)
		return ports.ErrTransactionsUnsupported
	}
	return err
}

func (t *Transactor) supportsTransactions(ctx context.Context) (bool, error) {
	t.mu.Lock()
	cached := t.supported
	t.mu.Unlock()
	if cached != nil {
		return *cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var hello struct {
		SetName string `bson:"setName"`
		Msg     string `bson:"msg"`
	}
	if err := t.client.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello); err != nil {
		return false, fmt.Errorf("hello: %w", err)
	}
	ok := hello.SetName != "" || hello.Msg == "isdbgrid"
	t.remember(ok)
	return ok, nil
}

func (t *Transactor) remember(ok bool) {
	t.mu.Lock()
	t.supported = &ok
	t.mu.Unlock()
}

// EnsureIndexes creates the indexes every collection relies on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		collectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "project", Value: 1}}},
		},
		collectionEntries: {
			{Keys: bson.D{{Key: "project", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		collectionRecords: {
			{Keys: bson.D{{Key: "bookingDate", Value: -1}, {Key: "createdAt", Value: -1}}},
		},
		collectionPayments: {
			{Keys: bson.D{{Key: "invGenRecord", Value: 1}, {Key: "paymentDate", Value: 1}}},
		},
	}
	for _, name := range []string{collectionUsers, collectionEntries, collectionRecords, collectionPayments} {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes[name]); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
