package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/rof/invgen/internal/core/domain"
	"github.com/rof/invgen/internal/core/ports"
	"github.com/rof/invgen/internal/core/scope"
)

func ns(coll string) string { return "invgen." + coll }

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create sets id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewUserRepository(mt.DB)

		u, err := repo.Create(context.Background(), &domain.User{Name: "Asha", Email: "asha@x.io", PasswordHash: "h", Role: domain.RoleAdmin})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := primitive.ObjectIDFromHex(u.ID); err != nil {
			t.Fatalf("expected object id, got %q", u.ID)
		}
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key error"}))
		repo := NewUserRepository(mt.DB)

		if _, err := repo.Create(context.Background(), &domain.User{Email: "asha@x.io"}); err != domain.ErrUserExists {
			t.Fatalf("expected ErrUserExists, got %v", err)
		}
	})

	mt.Run("find by email", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(collectionUsers), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Neha"},
			{Key: "email", Value: "neha@x.io"},
			{Key: "password", Value: "hash"},
			{Key: "role", Value: "User"},
			{Key: "project", Value: "Normanton"},
		}))
		repo := NewUserRepository(mt.DB)

		u, err := repo.FindByEmail(context.Background(), "neha@x.io")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if u.ID != id.Hex() || u.PasswordHash != "hash" || u.Project != domain.ProjectNormanton {
			t.Fatalf("unexpected user: %+v", u)
		}
	})

	mt.Run("find missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(collectionUsers), mtest.FirstBatch))
		repo := NewUserRepository(mt.DB)

		if _, err := repo.FindByEmail(context.Background(), "ghost@x.io"); err != domain.ErrUserNotFound {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)

		if _, err := repo.FindByID(context.Background(), "not-an-id"); err != domain.ErrUserNotFound {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
		users, err := repo.FindByIDs(context.Background(), []string{"nope"})
		if err != nil || len(users) != 0 {
			t.Fatalf("expected no users, got %v %v", users, err)
		}
	})

	mt.Run("update returns new document", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: bson.D{
				{Key: "_id", Value: id},
				{Key: "name", Value: "Jay"},
				{Key: "email", Value: "j@x.io"},
				{Key: "role", Value: "Admin"},
			}},
		})
		repo := NewUserRepository(mt.DB)

		u, err := repo.Update(context.Background(), id.Hex(), &domain.User{Name: "Jay", Email: "j@x.io", Role: domain.RoleAdmin})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if u.Name != "Jay" || u.Project != "" {
			t.Fatalf("unexpected user: %+v", u)
		}
	})
}

func TestEntryRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create flattens broker", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewEntryRepository(mt.DB)

		e := &domain.Entry{
			Name: "Ravi", Type: domain.EntryBroker, Project: domain.ProjectBlank,
			Broker:    &domain.BrokerDetails{Name: "Ravi", FirmName: "Ravi & Co", ContactNo: "99"},
			CreatedBy: primitive.NewObjectID().Hex(),
		}
		if err := repo.Create(context.Background(), e); err != nil {
			t.Fatalf("create: %v", err)
		}
		if e.ID == "" {
			t.Fatalf("expected id to be set")
		}

		started := mt.GetStartedEvent()
		if started == nil || started.CommandName != "insert" {
			t.Fatalf("expected insert command, got %+v", started)
		}
		doc := started.Command.Lookup("documents").Array().Index(0).Value().Document()
		if doc.Lookup("firmName").StringValue() != "Ravi & Co" {
			t.Fatalf("broker fields not flattened: %v", doc)
		}
	})

	mt.Run("list counts and pages", func(mt *mtest.T) {
		creator := primitive.NewObjectID()
		now := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(collectionEntries), mtest.FirstBatch, bson.D{{Key: "n", Value: int32(11)}}),
			mtest.CreateCursorResponse(0, ns(collectionEntries), mtest.FirstBatch,
				bson.D{
					{Key: "_id", Value: primitive.NewObjectID()},
					{Key: "name", Value: "Meera"},
					{Key: "type", Value: "Customer"},
					{Key: "project", Value: "Normanton"},
					{Key: "createdBy", Value: creator},
					{Key: "createdAt", Value: now},
				},
				bson.D{
					{Key: "_id", Value: primitive.NewObjectID()},
					{Key: "name", Value: "Ravi"},
					{Key: "type", Value: "Broker"},
					{Key: "project", Value: "Normanton"},
					{Key: "brokerName", Value: "Ravi"},
					{Key: "firmName", Value: "Ravi & Co"},
					{Key: "brokerContactNo", Value: "99"},
					{Key: "createdAt", Value: now},
				},
			),
		)
		repo := NewEntryRepository(mt.DB)

		entries, total, err := repo.List(context.Background(), ports.EntryFilter{
			Project: domain.ProjectNormanton,
			Created: &scope.Range{Start: now.Add(-time.Hour), End: now.Add(time.Hour)},
			Skip:    8,
			Limit:   8,
		})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if total != 11 || len(entries) != 2 {
			t.Fatalf("unexpected result: total=%d len=%d", total, len(entries))
		}
		if entries[0].CreatedBy != creator.Hex() || entries[0].Broker != nil {
			t.Fatalf("unexpected customer: %+v", entries[0])
		}
		if entries[1].Broker == nil || entries[1].Broker.FirmName != "Ravi & Co" {
			t.Fatalf("broker details missing: %+v", entries[1])
		}
	})
}

func TestRecordRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("delete missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		repo := NewRecordRepository(mt.DB)

		if err := repo.Delete(context.Background(), primitive.NewObjectID().Hex()); err != domain.ErrRecordNotFound {
			t.Fatalf("expected ErrRecordNotFound, got %v", err)
		}
	})

	mt.Run("malformed id is not found", func(mt *mtest.T) {
		repo := NewRecordRepository(mt.DB)

		if _, err := repo.FindByID(context.Background(), "xyz"); err != domain.ErrRecordNotFound {
			t.Fatalf("expected ErrRecordNotFound, got %v", err)
		}
	})

	mt.Run("list with payments", func(mt *mtest.T) {
		recID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(collectionRecords), mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: recID},
				{Key: "unitNo", Value: "A1"},
				{Key: "name", Value: "Asha"},
				{Key: "areaSqYrd", Value: 100.0},
				{Key: "payments", Value: bson.A{
					bson.D{
						{Key: "_id", Value: primitive.NewObjectID()},
						{Key: "invGenRecord", Value: recID},
						{Key: "paymentType", Value: "Security"},
						{Key: "paymentAmount", Value: 5000.0},
					},
				}},
			},
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "unitNo", Value: "B2"},
				{Key: "payments", Value: bson.A{}},
			},
		))
		repo := NewRecordRepository(mt.DB)

		groups, err := repo.ListWithPayments(context.Background())
		if err != nil {
			t.Fatalf("aggregate: %v", err)
		}
		if len(groups) != 2 {
			t.Fatalf("expected 2 groups, got %d", len(groups))
		}
		if groups[0].UnitNo != "A1" || len(groups[0].Payments) != 1 || groups[0].Payments[0].RecordID != recID.Hex() {
			t.Fatalf("unexpected first group: %+v", groups[0])
		}
		if groups[1].Payments == nil || len(groups[1].Payments) != 0 {
			t.Fatalf("empty group should carry an empty payment list")
		}
	})
}

func TestPaymentRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("delete by record", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}))
		repo := NewPaymentRepository(mt.DB)

		n, err := repo.DeleteByRecord(context.Background(), primitive.NewObjectID().Hex())
		if err != nil || n != 3 {
			t.Fatalf("expected 3 deleted, got %d (%v)", n, err)
		}
	})

	mt.Run("update missing", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})
		repo := NewPaymentRepository(mt.DB)

		amount := 10.0
		if _, err := repo.Update(context.Background(), primitive.NewObjectID().Hex(), ports.PaymentPatch{Amount: &amount}); err != domain.ErrPaymentNotFound {
			t.Fatalf("expected ErrPaymentNotFound, got %v", err)
		}
	})

	mt.Run("create rejects malformed record id", func(mt *mtest.T) {
		repo := NewPaymentRepository(mt.DB)

		if err := repo.Create(context.Background(), &domain.Payment{RecordID: "bad"}); err != domain.ErrInvalidRecordRef {
			t.Fatalf("expected ErrInvalidRecordRef, got %v", err)
		}
	})
}

func TestTransactor_StandaloneIsUnsupported(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("standalone", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "isWritablePrimary", Value: true}))
		tx := NewTransactor(mt.Client)

		called := false
		err := tx.WithTransaction(context.Background(), func(context.Context) error {
			called = true
			return nil
		})
		if !errors.Is(err, ports.ErrTransactionsUnsupported) {
			t.Fatalf("expected ErrTransactionsUnsupported, got %v", err)
		}
		if called {
			t.Fatalf("fn must not run without a transaction")
		}

		// The answer is cached; no further hello round trip is needed.
		if err := tx.WithTransaction(context.Background(), func(context.Context) error { return nil }); !errors.Is(err, ports.ErrTransactionsUnsupported) {
			t.Fatalf("expected cached ErrTransactionsUnsupported, got %v", err)
		}
	})
}
