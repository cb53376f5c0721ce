package hr

import (
	"context"
	"testing"
	"time"
)

func TestDirectory_CachesLookups(t *testing.T) {
	store := newTestStore(t)
	dir := NewDirectory(store)

	now := time.Now()
	dir.now = func() time.Time { return now }

	ctx := context.Background()

	ok, err := dir.IsDirectReport(ctx, 200, 201)
	if err != nil {
		t.Fatalf("IsDirectReport error: %v", err)
	}
	if !ok {
		t.Fatal("expected 201 to report to 200")
	}

	// The cached answer survives the underlying row disappearing.
	if _, err := store.db.Exec(`UPDATE employee SET manager_id = NULL WHERE employee_id = 201`); err != nil {
		t.Fatalf("update: %v", err)
	}
	ok, err = dir.IsDirectReport(ctx, 200, 201)
	if err != nil {
		t.Fatalf("IsDirectReport error: %v", err)
	}
	if !ok {
		t.Fatal("expected cached positive answer within TTL")
	}

	// Past the TTL the store is consulted again.
	now = now.Add(directoryCacheTTL + time.Second)
	ok, err = dir.IsDirectReport(ctx, 200, 201)
	if err != nil {
		t.Fatalf("IsDirectReport error: %v", err)
	}
	if ok {
		t.Fatal("expected fresh lookup after TTL expiry")
	}
}

func TestDirectory_CostCenterAccess(t *testing.T) {
	store := newTestStore(t)
	dir := NewDirectory(store)
	ctx := context.Background()

	ok, err := dir.HasCostCenterAccess(ctx, "lin.zhao@acmecorp.com", 202)
	if err != nil {
		t.Fatalf("HasCostCenterAccess error: %v", err)
	}
	if !ok {
		t.Fatal("expected finance access to engineering employee")
	}

	ok, err = dir.HasCostCenterAccess(ctx, "ana.petrov@acmecorp.com", 202)
	if err != nil {
		t.Fatalf("HasCostCenterAccess error: %v", err)
	}
	if ok {
		t.Fatal("expected no access for non-finance email")
	}
}
