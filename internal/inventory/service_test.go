package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/atelierhq/atelier-backend/pkg/db/models"
	"github.com/atelierhq/atelier-backend/pkg/enums"
	pkgerrors "github.com/atelierhq/atelier-backend/pkg/errors"
	"github.com/atelierhq/atelier-backend/pkg/outbox"
	"github.com/atelierhq/atelier-backend/pkg/pagination"
)

type stubInventoryRepo struct {
	items       map[uuid.UUID]*models.InventoryItem
	adjustCalls []int
	failAdjust  bool
}

func newStubInventoryRepo() *stubInventoryRepo {
	return &stubInventoryRepo{items: make(map[uuid.UUID]*models.InventoryItem)}
}

func (s *stubInventoryRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubInventoryRepo) Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.items[item.ID] = item
	return item, nil
}

func (s *stubInventoryRepo) Find(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *item
	return &copied, nil
}

func (s *stubInventoryRepo) List(ctx context.Context, params pagination.Params, filters Filters) (*ItemList, error) {
	list := &ItemList{}
	for _, item := range s.items {
		list.Items = append(list.Items, *item)
	}
	return list, nil
}

func (s *stubInventoryRepo) ListLowStock(ctx context.Context, threshold int) ([]models.InventoryItem, error) {
	var out []models.InventoryItem
	for _, item := range s.items {
		if item.Quantity <= threshold {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *stubInventoryRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	item, ok := s.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		item.Name = name
	}
	return nil
}

func (s *stubInventoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.items, id)
	return nil
}

func (s *stubInventoryRepo) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (bool, error) {
	if s.failAdjust {
		return false, gorm.ErrInvalidDB
	}
	s.adjustCalls = append(s.adjustCalls, delta)
	item, ok := s.items[id]
	if !ok {
		return false, nil
	}
	if item.Quantity+delta < 0 {
		return false, nil
	}
	item.Quantity += delta
	return true, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubOutbox struct {
	events []outbox.DomainEvent
	err    error
}

func (s *stubOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func newTestService(t *testing.T, repo Repository, ob *stubOutbox) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, ob, 3)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc
}

func TestCreateItemValidation(t *testing.T) {
	svc := newTestService(t, newStubInventoryRepo(), &stubOutbox{})

	if _, err := svc.CreateItem(context.Background(), CreateItemInput{}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	negative := decimal.NewFromInt(-2)
	_, err := svc.CreateItem(context.Background(), CreateItemInput{Name: "Screen", Price: &negative})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAdjustHappyPath(t *testing.T) {
	repo := newStubInventoryRepo()
	ob := &stubOutbox{}
	svc := newTestService(t, repo, ob)

	item, err := svc.CreateItem(context.Background(), CreateItemInput{Name: "Battery", Quantity: 5})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	updated, err := svc.Adjust(context.Background(), item.ID, -2)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if updated.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", updated.Quantity)
	}
	if len(ob.events) != 1 || ob.events[0].EventType != enums.EventStockChanged {
		t.Fatalf("expected one stock changed event, got %+v", ob.events)
	}
}

func TestAdjustBelowZeroIsInsufficientStock(t *testing.T) {
	repo := newStubInventoryRepo()
	svc := newTestService(t, repo, &stubOutbox{})

	item, err := svc.CreateItem(context.Background(), CreateItemInput{Name: "Battery", Quantity: 1})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	_, err = svc.Adjust(context.Background(), item.ID, -4)
	if !pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if repo.items[item.ID].Quantity != 1 {
		t.Fatalf("quantity changed despite guard: %d", repo.items[item.ID].Quantity)
	}
}

func TestReserveUnknownItemIsNotFound(t *testing.T) {
	svc := newTestService(t, newStubInventoryRepo(), &stubOutbox{})

	err := svc.Reserve(context.Background(), nil, uuid.New(), 1)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReserveAndReleaseEmitEvents(t *testing.T) {
	repo := newStubInventoryRepo()
	ob := &stubOutbox{}
	svc := newTestService(t, repo, ob)

	item, err := svc.CreateItem(context.Background(), CreateItemInput{Name: "Screen", Quantity: 4})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	if err := svc.Reserve(context.Background(), nil, item.ID, 3); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := svc.Release(context.Background(), nil, item.ID, 3); err != nil {
		t.Fatalf("release: %v", err)
	}
	if repo.items[item.ID].Quantity != 4 {
		t.Fatalf("expected quantity restored to 4, got %d", repo.items[item.ID].Quantity)
	}
	if len(ob.events) != 2 {
		t.Fatalf("expected two events, got %d", len(ob.events))
	}
}

func TestReserveRejectsNonPositiveQuantity(t *testing.T) {
	svc := newTestService(t, newStubInventoryRepo(), &stubOutbox{})

	if err := svc.Reserve(context.Background(), nil, uuid.New(), 0); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListLowStockUsesThreshold(t *testing.T) {
	repo := newStubInventoryRepo()
	svc := newTestService(t, repo, &stubOutbox{})

	if _, err := svc.CreateItem(context.Background(), CreateItemInput{Name: "Scarce", Quantity: 2}); err != nil {
		t.Fatalf("create item: %v", err)
	}
	if _, err := svc.CreateItem(context.Background(), CreateItemInput{Name: "Plenty", Quantity: 50}); err != nil {
		t.Fatalf("create item: %v", err)
	}

	low, err := svc.ListLowStock(context.Background())
	if err != nil {
		t.Fatalf("list low stock: %v", err)
	}
	if len(low) != 1 || low[0].Name != "Scarce" {
		t.Fatalf("unexpected low stock list: %+v", low)
	}
}
