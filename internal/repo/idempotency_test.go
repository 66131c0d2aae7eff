package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/go-portfolio-backend/internal/domain"
)

func TestGetIdempotency_EmptyKey(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	if _, err := GetIdempotency(context.Background(), db, "ip", "contact", "  ", time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateAndGetIdempotency(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()

	rec, err := CreateIdempotency(ctx, db, "203.0.113.7", "contact", "k-1", "res-1", 201, time.Hour)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if rec.ExpiresAt.Sub(rec.CreatedAt) != time.Hour {
		t.Fatalf("unexpected ttl: %v", rec.ExpiresAt.Sub(rec.CreatedAt))
	}

	got, err := GetIdempotency(ctx, db, "203.0.113.7", "contact", "k-1", time.Now().UTC())
	if err != nil {
		t.Fatalf("GetIdempotency: %v", err)
	}
	if got.ResourceID != "res-1" || got.Status != 201 {
		t.Fatalf("unexpected record: %+v", got)
	}

	if _, err := CreateIdempotency(ctx, db, "203.0.113.7", "contact", "k-1", "res-2", 201, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// Past expiry the record is invisible.
	if _, err := GetIdempotency(ctx, db, "203.0.113.7", "contact", "k-1", time.Now().UTC().Add(2*time.Hour)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestCreateIdempotency_ReplacesExpired(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "c", "contact", "k", "old", 201, -time.Minute); err != nil {
		t.Fatalf("seed expired: %v", err)
	}
	rec, err := CreateIdempotency(ctx, db, "c", "contact", "k", "new", 201, time.Hour)
	if err != nil {
		t.Fatalf("expected expired record to be replaced, got %v", err)
	}
	if rec.ResourceID != "new" {
		t.Fatalf("unexpected resource: %q", rec.ResourceID)
	}
}

func TestPurgeExpiredIdempotency(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()

	_, _ = CreateIdempotency(ctx, db, "c", "contact", "a", "r1", 201, -time.Minute)
	_, _ = CreateIdempotency(ctx, db, "c", "contact", "b", "r2", 201, time.Hour)

	n, err := PurgeExpiredIdempotency(ctx, db, time.Now().UTC())
	if err != nil || n != 1 {
		t.Fatalf("purged %d err=%v; want 1", n, err)
	}
}
