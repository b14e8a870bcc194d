//go:build db
// +build db

package repairs

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/atelierhq/atelier-backend/pkg/db/models"
	"github.com/atelierhq/atelier-backend/pkg/enums"
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

func seedRepair(t *testing.T, tx *gorm.DB, repo Repository) *models.Repair {
	t.Helper()
	ctx := context.Background()

	customer, err := repo.CreateCustomer(ctx, &models.Customer{
		FirstName: "Test",
		LastName:  "Client",
		Phone:     fmt.Sprintf("06%s", uuid.NewString()[:8]),
	})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	device, err := repo.CreateDevice(ctx, &models.Device{
		CustomerID: customer.ID,
		Brand:      "Apple",
		Model:      "iPhone 12",
	})
	if err != nil {
		t.Fatalf("create device: %v", err)
	}
	repair, err := repo.CreateRepair(ctx, &models.Repair{
		DeviceID:    device.ID,
		Status:      enums.RepairStatusPending,
		Description: "vitre arrière",
	})
	if err != nil {
		t.Fatalf("create repair: %v", err)
	}
	return repair
}

func TestRepositoryRepairTree(t *testing.T) {
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
	repair := seedRepair(t, tx, repo)

	item := models.InventoryItem{Name: "Vitre test", Quantity: 5}
	if err := tx.Create(&item).Error; err != nil {
		t.Fatalf("create item: %v", err)
	}
	part, err := repo.CreatePart(ctx, &models.RepairPart{
		RepairID:        repair.ID,
		InventoryItemID: item.ID,
		Quantity:        2,
	})
	if err != nil {
		t.Fatalf("create part: %v", err)
	}

	loaded, err := repo.FindRepair(ctx, repair.ID)
	if err != nil {
		t.Fatalf("find repair: %v", err)
	}
	if loaded.Device == nil || loaded.Device.Customer == nil {
		t.Fatal("device/customer not preloaded")
	}
	if len(loaded.Parts) != 1 || loaded.Parts[0].ID != part.ID {
		t.Fatalf("parts not preloaded: %+v", loaded.Parts)
	}

	parts, err := repo.ListParts(ctx, repair.ID)
	if err != nil {
		t.Fatalf("list parts: %v", err)
	}
	if len(parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(parts))
	}

	if err := repo.DeletePartsByRepair(ctx, repair.ID); err != nil {
		t.Fatalf("delete parts: %v", err)
	}
	if err := repo.DeleteRepair(ctx, repair.ID); err != nil {
		t.Fatalf("delete repair: %v", err)
	}
	if _, err := repo.FindRepair(ctx, repair.ID); err == nil {
		t.Fatal("expected repair to be gone")
	}
}

func TestRepositoryListSplitsArchived(t *testing.T) {
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

	active := seedRepair(t, tx, repo)
	archived := seedRepair(t, tx, repo)
	err := repo.UpdateRepair(ctx, archived.ID, map[string]any{"status": enums.RepairStatusArchived})
	if err != nil {
		t.Fatalf("archive repair: %v", err)
	}

	activeList, err := repo.ListRepairs(ctx, pagination.Params{Limit: 50}, Filters{})
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	for _, repair := range activeList.Repairs {
		if repair.ID == archived.ID {
			t.Fatal("archived repair leaked into active list")
		}
	}

	archivedList, err := repo.ListRepairs(ctx, pagination.Params{Limit: 50}, Filters{Archived: true})
	if err != nil {
		t.Fatalf("list archived: %v", err)
	}
	found := false
	for _, repair := range archivedList.Repairs {
		if repair.ID == archived.ID {
			found = true
		}
		if repair.ID == active.ID {
			t.Fatal("active repair leaked into archived list")
		}
	}
	if !found {
		t.Fatal("archived repair missing from archived list")
	}
}

func TestRepositoryStatsQueries(t *testing.T) {
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

	repair := seedRepair(t, tx, repo)
	err := repo.UpdateRepair(ctx, repair.ID, map[string]any{
		"status":         enums.RepairStatusDelivered,
		"estimated_cost": decimal.NewFromInt(120),
	})
	if err != nil {
		t.Fatalf("deliver repair: %v", err)
	}

	counts, err := repo.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("count by status: %v", err)
	}
	if counts[enums.RepairStatusDelivered] < 1 {
		t.Fatalf("expected delivered count >= 1, got %d", counts[enums.RepairStatusDelivered])
	}

	revenue, err := repo.SumDeliveredRevenue(ctx)
	if err != nil {
		t.Fatalf("sum revenue: %v", err)
	}
	if revenue.LessThan(decimal.NewFromInt(120)) {
		t.Fatalf("expected revenue >= 120, got %s", revenue)
	}
}
