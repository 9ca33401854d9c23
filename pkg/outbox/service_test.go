package outbox

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/andresfontal/voltio-backend/pkg/db/models"
	"github.com/andresfontal/voltio-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.OutboxEvent{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestEmitStoresEnvelope(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	svc := NewService(repo, nil)

	aggregateID := uuid.New()
	err := svc.Emit(context.Background(), db, DomainEvent{
		EventType:     enums.EventSaleCompleted,
		AggregateType: enums.AggregateSaleRecord,
		AggregateID:   aggregateID,
		Data:          map[string]any{"quantity": 3},
		Version:       1,
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}

	rows, err := repo.FetchUnpublished(10, 0)
	if err != nil {
		t.Fatalf("fetch unpublished: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 pending event, got %d", len(rows))
	}
	if rows[0].AggregateID != aggregateID {
		t.Fatalf("aggregate id mismatch: %s", rows[0].AggregateID)
	}
	if rows[0].EventType != enums.EventSaleCompleted {
		t.Fatalf("unexpected event type %s", rows[0].EventType)
	}
}

func TestEmitRequiresTransaction(t *testing.T) {
	svc := NewService(NewRepository(newTestDB(t)), nil)
	if err := svc.Emit(context.Background(), nil, DomainEvent{}); err == nil {
		t.Fatal("expected error when tx is nil")
	}
}

func TestMarkPublishedAndFailed(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	svc := NewService(repo, nil)

	for i := 0; i < 2; i++ {
		if err := svc.Emit(context.Background(), db, DomainEvent{
			EventType:     enums.EventSaleCompleted,
			AggregateType: enums.AggregateSaleRecord,
			AggregateID:   uuid.New(),
			Data:          map[string]any{},
		}); err != nil {
			t.Fatalf("emit %d: %v", i, err)
		}
	}

	rows, err := repo.FetchUnpublished(10, 0)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(rows))
	}

	if err := repo.MarkPublished(rows[0].ID); err != nil {
		t.Fatalf("mark published: %v", err)
	}
	if err := repo.MarkFailed(rows[1].ID, errors.New("topic unavailable")); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	remaining, err := repo.FetchUnpublished(10, 0)
	if err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("expected 1 pending after publish, got %d", len(remaining))
	}
	if remaining[0].AttemptCount != 1 {
		t.Fatalf("expected attempt count 1, got %d", remaining[0].AttemptCount)
	}

	// Exhausted rows drop out once attempts reach the cap.
	if rows, err := repo.FetchUnpublished(10, 1); err != nil {
		t.Fatalf("fetch with cap: %v", err)
	} else if len(rows) != 0 {
		t.Fatalf("expected exhausted row filtered, got %d", len(rows))
	}
}
