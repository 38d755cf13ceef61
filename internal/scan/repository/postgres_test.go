package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/yassirh/stocktake-service/internal/model"
	"github.com/yassirh/stocktake-service/internal/scan"

	_ "github.com/jackc/pgx/stdlib"
)

// openTestDB connects to the database named by STOCKTAKE_TEST_DSN and skips
// the test when it is unreachable. Schema must already be applied
// (schema.sql at the repository root).
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("STOCKTAKE_TEST_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=postgres password=postgres dbname=stocktake_test sslmode=disable"
	}

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		t.Skipf("PostgreSQL not available: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedSession(t *testing.T, db *sqlx.DB) int64 {
	t.Helper()
	var id int64
	err := db.Get(&id, `INSERT INTO inventory_sessions (created_at) VALUES (now()) RETURNING id`)
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}
	t.Cleanup(func() {
		db.Exec(`DELETE FROM scan_events WHERE session_id = $1`, id)
		db.Exec(`DELETE FROM inventory_sessions WHERE id = $1`, id)
	})
	return id
}

func newEvent(sessionID int64, barcode string) *model.ScanEvent {
	return &model.ScanEvent{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Barcode:   barcode,
		Depot:     "A",
		ScannedAt: time.Now().UTC(),
	}
}

func TestPGRepository_InsertAndExists(t *testing.T) {
	db := openTestDB(t)
	repo := NewPGRepository(db)
	ctx := context.Background()
	sid := seedSession(t, db)

	exists, err := repo.Exists(ctx, sid, "11112222")
	if err != nil {
		t.Fatalf("exists pre-check failed: %v", err)
	}
	if exists {
		t.Fatal("barcode should not exist yet")
	}

	if err := repo.Insert(ctx, newEvent(sid, "11112222")); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	exists, err = repo.Exists(ctx, sid, "11112222")
	if err != nil {
		t.Fatalf("exists post-check failed: %v", err)
	}
	if !exists {
		t.Error("inserted barcode not visible")
	}
}

func TestPGRepository_UniqueConstraintMapsToDuplicate(t *testing.T) {
	db := openTestDB(t)
	repo := NewPGRepository(db)
	ctx := context.Background()
	sid := seedSession(t, db)

	if err := repo.Insert(ctx, newEvent(sid, "33334444")); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	err := repo.Insert(ctx, newEvent(sid, "33334444"))
	if !errors.Is(err, scan.ErrDuplicateScan) {
		t.Errorf("expected ErrDuplicateScan from the constraint, got %v", err)
	}
}

func TestPGRepository_SameBarcodeAcrossSessions(t *testing.T) {
	db := openTestDB(t)
	repo := NewPGRepository(db)
	ctx := context.Background()
	first := seedSession(t, db)
	second := seedSession(t, db)

	if err := repo.Insert(ctx, newEvent(first, "55556666")); err != nil {
		t.Fatalf("insert into first session failed: %v", err)
	}
	if err := repo.Insert(ctx, newEvent(second, "55556666")); err != nil {
		t.Errorf("the constraint is per session; second session insert failed: %v", err)
	}
}

func TestPGRepository_DeleteBySession(t *testing.T) {
	db := openTestDB(t)
	repo := NewPGRepository(db)
	ctx := context.Background()
	sid := seedSession(t, db)

	for _, bc := range []string{"77770001", "77770002", "77770003"} {
		if err := repo.Insert(ctx, newEvent(sid, bc)); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	deleted, err := repo.DeleteBySession(ctx, sid)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if deleted != 3 {
		t.Errorf("expected 3 deleted, got %d", deleted)
	}

	events, err := repo.ListBySession(ctx, sid)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("session still has %d events after reset", len(events))
	}
}

func TestPGRepository_ListBySessionOrdersByScanTime(t *testing.T) {
	db := openTestDB(t)
	repo := NewPGRepository(db)
	ctx := context.Background()
	sid := seedSession(t, db)

	base := time.Now().UTC().Truncate(time.Second)
	for i, bc := range []string{"88880001", "88880002", "88880003"} {
		e := newEvent(sid, bc)
		e.ScannedAt = base.Add(time.Duration(i) * time.Second)
		if err := repo.Insert(ctx, e); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	events, err := repo.ListBySession(ctx, sid)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].ScannedAt.Before(events[i-1].ScannedAt) {
			t.Errorf("events not in scan order at index %d", i)
		}
	}
}
