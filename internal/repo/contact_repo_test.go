package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/go-portfolio-backend/internal/domain"
)

func TestCreateContact_FillsDefaults(t *testing.T) {
	db := newTestDB(t, &domain.Contact{})
	ctx := context.Background()

	c := &domain.Contact{Name: "Ada Lovelace", Email: "ada@example.com", Subject: "Hello there", Message: "Subject: Hello there\n\nhi"}
	if err := CreateContact(ctx, db, c); err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	if c.ID == "" || c.Status != domain.ContactStatusNew || c.SubmittedAt.IsZero() {
		t.Fatalf("defaults not applied: %+v", c)
	}

	got, err := GetContact(ctx, db, c.ID)
	if err != nil {
		t.Fatalf("GetContact: %v", err)
	}
	if got.Email != "ada@example.com" || got.Message != c.Message {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestCreateContact_SchemaError(t *testing.T) {
	db := newTestDB(t, &domain.Contact{})

	c := &domain.Contact{Name: "", Email: "nope", Subject: "Hi", Message: "m", Status: "bogus"}
	err := CreateContact(context.Background(), db, c)
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SchemaError, got %T %v", err, err)
	}
	fields := map[string]bool{}
	for _, v := range se.Violations {
		fields[v.Field] = true
	}
	for _, f := range []string{"name", "email", "status"} {
		if !fields[f] {
			t.Fatalf("expected violation on %q, got %+v", f, se.Violations)
		}
	}
}

func TestGetContact_InvalidID_And_NotFound(t *testing.T) {
	db := newTestDB(t, &domain.Contact{})
	ctx := context.Background()

	_, err := GetContact(ctx, db, "not-a-uuid")
	var ie *InvalidIDError
	if !errors.As(err, &ie) || ie.Param != "id" || ie.Value != "not-a-uuid" {
		t.Fatalf("expected InvalidIDError, got %v", err)
	}

	_, err = GetContact(ctx, db, "6f1c3a52-8f59-4c8e-9b0f-3f5e0a3c1d11")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListContactsPage_NewestFirst_AndFilter(t *testing.T) {
	db := newTestDB(t, &domain.Contact{})
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	ids := []string{
		"00000000-0000-0000-0000-000000000001",
		"00000000-0000-0000-0000-000000000002",
		"00000000-0000-0000-0000-000000000003",
	}
	seedContact(t, db, ids[0], domain.ContactStatusNew, base)
	seedContact(t, db, ids[1], domain.ContactStatusRead, base.Add(time.Hour))
	seedContact(t, db, ids[2], domain.ContactStatusNew, base.Add(2*time.Hour))

	page, err := ListContactsPage(ctx, db, ContactFilter{}, 0, 2)
	if err != nil {
		t.Fatalf("ListContactsPage: %v", err)
	}
	if len(page) != 2 || page[0].ID != ids[2] || page[1].ID != ids[1] {
		t.Fatalf("unexpected order: %+v", page)
	}

	next, err := ListContactsPage(ctx, db, ContactFilter{}, 2, 2)
	if err != nil || len(next) != 1 || next[0].ID != ids[0] {
		t.Fatalf("second page: %+v err=%v", next, err)
	}

	onlyNew, err := ListContactsPage(ctx, db, ContactFilter{Status: domain.ContactStatusNew}, 0, 10)
	if err != nil || len(onlyNew) != 2 {
		t.Fatalf("filtered: %+v err=%v", onlyNew, err)
	}
	n, err := CountContacts(ctx, db, ContactFilter{Status: domain.ContactStatusRead})
	if err != nil || n != 1 {
		t.Fatalf("CountContacts = %d err=%v", n, err)
	}
}

func TestUpdateContactStatus(t *testing.T) {
	db := newTestDB(t, &domain.Contact{})
	ctx := context.Background()
	id := "00000000-0000-0000-0000-000000000009"
	seedContact(t, db, id, domain.ContactStatusNew, time.Now().UTC())

	if err := UpdateContactStatus(ctx, db, id, domain.ContactStatusReplied); err != nil {
		t.Fatalf("UpdateContactStatus: %v", err)
	}
	got, _ := GetContact(ctx, db, id)
	if got.Status != domain.ContactStatusReplied {
		t.Fatalf("status = %q", got.Status)
	}

	var se *SchemaError
	if err := UpdateContactStatus(ctx, db, id, "gone"); !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if err := UpdateContactStatus(ctx, db, "6f1c3a52-8f59-4c8e-9b0f-3f5e0a3c1d11", domain.ContactStatusRead); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
