package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierhq/atelier-backend/pkg/db"
	"github.com/atelierhq/atelier-backend/pkg/db/models"
	"github.com/atelierhq/atelier-backend/pkg/enums"
	pkgerrors "github.com/atelierhq/atelier-backend/pkg/errors"
	"github.com/atelierhq/atelier-backend/pkg/outbox"
	"github.com/atelierhq/atelier-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines inventory operations. Reserve and Release run inside the
// caller's transaction so stock moves commit together with the part rows
// that caused them.
type Service interface {
	CreateItem(ctx context.Context, input CreateItemInput) (*models.InventoryItem, error)
	GetItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	ListItems(ctx context.Context, params pagination.Params, filters Filters) (*ItemList, error)
	ListLowStock(ctx context.Context) ([]models.InventoryItem, error)
	UpdateItem(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*models.InventoryItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	Adjust(ctx context.Context, id uuid.UUID, delta int) (*models.InventoryItem, error)
	Reserve(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int) error
	Release(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int) error
}

type service struct {
	repo              Repository
	tx                txRunner
	outbox            outboxPublisher
	lowStockThreshold int
}

// NewService builds an inventory service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, lowStockThreshold int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:              repo,
		tx:                tx,
		outbox:            outboxSvc,
		lowStockThreshold: lowStockThreshold,
	}, nil
}

func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (*models.InventoryItem, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if input.Price != nil && input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	item := &models.InventoryItem{
		Name:      input.Name,
		Reference: input.Reference,
		Quantity:  input.Quantity,
		Price:     input.Price,
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inventory item")
	}
	return created, nil
}

func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	item, err := s.repo.Find(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
	}
	return item, nil
}

func (s *service) ListItems(ctx context.Context, params pagination.Params, filters Filters) (*ItemList, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory items")
	}
	return list, nil
}

func (s *service) ListLowStock(ctx context.Context) ([]models.InventoryItem, error) {
	items, err := s.repo.ListLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock items")
	}
	return items, nil
}

func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*models.InventoryItem, error) {
	updates := map[string]any{}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
		}
		updates["name"] = *input.Name
	}
	if input.Reference != nil {
		updates["reference"] = *input.Reference
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		updates["price"] = *input.Price
	}

	if _, err := s.GetItem(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inventory item")
	}
	return s.GetItem(ctx, id)
}

func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetItem(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete inventory item")
	}
	return nil
}

// Adjust moves an item's quantity by delta in its own transaction.
func (s *service) Adjust(ctx context.Context, id uuid.UUID, delta int) (*models.InventoryItem, error) {
	if delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta cannot be zero")
	}

	var item *models.InventoryItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := s.applyDelta(ctx, repo, tx, id, delta, stockReasonAdjusted); err != nil {
			return err
		}
		updated, err := repo.Find(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload inventory item")
		}
		item = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Reserve decrements stock for a part reservation inside the caller's
// transaction. Zero rows affected means the guard rejected the decrement.
func (s *service) Reserve(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	return s.applyDelta(ctx, s.repo.WithTx(tx), tx, itemID, -qty, stockReasonReserved)
}

// Release returns previously reserved stock inside the caller's transaction.
func (s *service) Release(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	return s.applyDelta(ctx, s.repo.WithTx(tx), tx, itemID, qty, stockReasonReleased)
}

func (s *service) applyDelta(ctx context.Context, repo Repository, tx *gorm.DB, itemID uuid.UUID, delta int, reason string) error {
	applied, err := repo.AdjustQuantity(ctx, itemID, delta)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust item quantity")
	}
	if !applied {
		if _, err := repo.Find(ctx, itemID); err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
		}
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock for item").
			WithDetails(map[string]any{"item_id": itemID.String(), "requested": -delta})
	}

	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventStockChanged,
		AggregateType: enums.AggregateInventoryItem,
		AggregateID:   itemID,
		Data: StockChangedEvent{
			ItemID: itemID,
			Delta:  delta,
			Reason: reason,
		},
	})
}
