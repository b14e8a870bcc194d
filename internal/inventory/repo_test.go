//go:build db
// +build db

package inventory

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/atelierhq/atelier-backend/pkg/db/models"
	"github.com/atelierhq/atelier-backend/pkg/pagination"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("ATELIER_DB_DSN")
	if dsn == "" {
		t.Skip("ATELIER_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func TestRepositoryAdjustQuantityGuard(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	item, err := repo.Create(ctx, &models.InventoryItem{Name: "Test Screen", Quantity: 2})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	applied, err := repo.AdjustQuantity(ctx, item.ID, -2)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if !applied {
		t.Fatal("expected decrement to apply")
	}

	applied, err = repo.AdjustQuantity(ctx, item.ID, -1)
	if err != nil {
		t.Fatalf("adjust below zero: %v", err)
	}
	if applied {
		t.Fatal("expected guard to reject decrement below zero")
	}

	reloaded, err := repo.Find(ctx, item.ID)
	if err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if reloaded.Quantity != 0 {
		t.Fatalf("expected quantity 0, got %d", reloaded.Quantity)
	}

	applied, err = repo.AdjustQuantity(ctx, uuid.New(), 1)
	if err != nil {
		t.Fatalf("adjust unknown: %v", err)
	}
	if applied {
		t.Fatal("expected adjust of unknown item to report no rows")
	}
}

func TestRepositoryListFiltersAndPaginates(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	names := []string{"LCD iPhone 12", "LCD iPhone 13", "Battery Galaxy S21"}
	for _, name := range names {
		if _, err := repo.Create(ctx, &models.InventoryItem{Name: name, Quantity: 1}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	list, err := repo.List(ctx, pagination.Params{Limit: 10}, Filters{Query: "lcd"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Items) != 2 {
		t.Fatalf("expected 2 LCD items, got %d", len(list.Items))
	}

	page, err := repo.List(ctx, pagination.Params{Limit: 1}, Filters{})
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page.Items) != 1 || page.NextCursor == "" {
		t.Fatalf("expected one item and a cursor, got %d items", len(page.Items))
	}

	rest, err := repo.List(ctx, pagination.Params{Limit: 10, Cursor: page.NextCursor}, Filters{})
	if err != nil {
		t.Fatalf("list rest: %v", err)
	}
	for _, item := range rest.Items {
		if item.ID == page.Items[0].ID {
			t.Fatal("cursor page repeated the first item")
		}
	}
}
