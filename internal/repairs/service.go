package repairs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/atelierhq/atelier-backend/pkg/db"
	"github.com/atelierhq/atelier-backend/pkg/db/models"
	"github.com/atelierhq/atelier-backend/pkg/enums"
	pkgerrors "github.com/atelierhq/atelier-backend/pkg/errors"
	"github.com/atelierhq/atelier-backend/pkg/outbox"
	"github.com/atelierhq/atelier-backend/pkg/pagination"
)

// cancelPrefix is prepended to the description so the ticket history keeps
// the cancellation reason visible at a glance.
const cancelPrefix = "ANNULÉ"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// StockAdjuster moves inventory quantities inside the caller's transaction.
type StockAdjuster interface {
	Reserve(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int) error
	Release(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int) error
}

// Service defines repair ticket operations.
type Service interface {
	Create(ctx context.Context, input CreateRepairInput) (*models.Repair, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Repair, error)
	List(ctx context.Context, params pagination.Params, filters Filters) (*RepairList, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.RepairStatus) (*models.Repair, error)
	Advance(ctx context.Context, id uuid.UUID) (*models.Repair, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string) (*models.Repair, error)
	Archive(ctx context.Context, id uuid.UUID) (*models.Repair, error)
	Unarchive(ctx context.Context, id uuid.UUID) (*models.Repair, error)
	UpdateDescription(ctx context.Context, id uuid.UUID, description string) (*models.Repair, error)
	UpdateCost(ctx context.Context, id uuid.UUID, cost decimal.Decimal) (*models.Repair, error)
	AttachDiagnostic(ctx context.Context, id uuid.UUID, payload json.RawMessage) (*models.Diagnostic, error)
	AddPart(ctx context.Context, repairID, inventoryItemID uuid.UUID, qty int) (*models.RepairPart, error)
	RemovePart(ctx context.Context, repairID, partID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddMedia(ctx context.Context, repairID uuid.UUID, url string, kind enums.MediaKind) (*models.RepairMedia, error)
	DeleteMedia(ctx context.Context, repairID, mediaID uuid.UUID) error
	SendMessage(ctx context.Context, repairID uuid.UUID, sender enums.MessageSender, content string) (*models.RepairMessage, error)
	Stats(ctx context.Context) (*DashboardStats, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	stock  StockAdjuster
}

// NewService builds a repairs service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, stock StockAdjuster) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("repairs repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock adjuster required")
	}
	return &service{
		repo:   repo,
		tx:     tx,
		outbox: outboxSvc,
		stock:  stock,
	}, nil
}

// Create opens a ticket. Customer lookup is by phone so returning
// customers are not duplicated; the device is always a fresh row since the
// shop tracks each drop-off separately.
func (s *service) Create(ctx context.Context, input CreateRepairInput) (*models.Repair, error) {
	if input.Customer.Phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer phone required")
	}
	if input.Customer.FirstName == "" || input.Customer.LastName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}
	if input.Device.Brand == "" || input.Device.Model == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "device brand and model required")
	}
	if input.Description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description required")
	}
	if input.EstimatedCost != nil && input.EstimatedCost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "estimated cost cannot be negative")
	}

	var created *models.Repair
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		customer, err := repo.FindCustomerByPhone(ctx, input.Customer.Phone)
		if err != nil {
			if !db.IsNotFound(err) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup customer")
			}
			customer, err = repo.CreateCustomer(ctx, &models.Customer{
				FirstName: input.Customer.FirstName,
				LastName:  input.Customer.LastName,
				Phone:     input.Customer.Phone,
				Email:     input.Customer.Email,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
			}
		}

		device, err := repo.CreateDevice(ctx, &models.Device{
			CustomerID:   customer.ID,
			Brand:        input.Device.Brand,
			Model:        input.Device.Model,
			SerialNumber: input.Device.SerialNumber,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create device")
		}

		repair := &models.Repair{
			DeviceID:    device.ID,
			Status:      enums.RepairStatusPending,
			Description: input.Description,
		}
		if input.EstimatedCost != nil {
			repair.EstimatedCost = *input.EstimatedCost
		}
		repair, err = repo.CreateRepair(ctx, repair)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create repair")
		}

		if len(input.Diagnostic) > 0 {
			if _, err := repo.UpsertDiagnostic(ctx, repair.ID, input.Diagnostic); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach diagnostic")
			}
		}

		created = repair
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventRepairCreated,
			AggregateType: enums.AggregateRepair,
			AggregateID:   repair.ID,
			Data: RepairCreatedEvent{
				RepairID:   repair.ID,
				DeviceID:   device.ID,
				CustomerID: customer.ID,
				Status:     repair.Status,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, created.ID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Repair, error) {
	repair, err := s.repo.FindRepair(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "repair not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load repair")
	}
	return repair, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters Filters) (*RepairList, error) {
	list, err := s.repo.ListRepairs(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list repairs")
	}
	return list, nil
}

// SetStatus applies any valid target status. The workshop moves tickets
// around freely (a delivered device can come back), so there is no
// transition table; only the side effects key off the target.
func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status enums.RepairStatus) (*models.Repair, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid repair status")
	}
	return s.transition(ctx, id, status, nil)
}

// Advance moves the ticket one step along the normal progression. The
// board's quick action uses this so the front desk never has to pick a
// status by hand.
func (s *service) Advance(ctx context.Context, id uuid.UUID) (*models.Repair, error) {
	repair, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if repair.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("repair is %s and cannot advance", repair.Status))
	}
	next, ok := repair.Status.Next()
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("repair is %s and cannot advance", repair.Status))
	}
	return s.transition(ctx, id, next, nil)
}

// Cancel marks the ticket cancelled and keeps the reason on the ticket
// itself, prefixed into the description.
func (s *service) Cancel(ctx context.Context, id uuid.UUID, reason string) (*models.Repair, error) {
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cancel reason required")
	}
	return s.transition(ctx, id, enums.RepairStatusCancelled, func(repair *models.Repair, updates map[string]any) {
		updates["cancel_reason"] = reason
		updates["description"] = fmt.Sprintf("%s - %s\n\n%s", cancelPrefix, reason, repair.Description)
	})
}

func (s *service) Archive(ctx context.Context, id uuid.UUID) (*models.Repair, error) {
	return s.transition(ctx, id, enums.RepairStatusArchived, nil)
}

// Unarchive reopens the ticket as pending. This is the only place an
// already-set timestamp is cleared.
func (s *service) Unarchive(ctx context.Context, id uuid.UUID) (*models.Repair, error) {
	return s.transition(ctx, id, enums.RepairStatusPending, func(repair *models.Repair, updates map[string]any) {
		updates["archived_at"] = nil
	})
}

// transition runs a status change plus extra column updates in one
// transaction and emits the status event.
func (s *service) transition(ctx context.Context, id uuid.UUID, status enums.RepairStatus, mutate func(*models.Repair, map[string]any)) (*models.Repair, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		repair, err := repo.FindRepair(ctx, id)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "repair not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load repair")
		}

		updates := map[string]any{"status": status}
		now := time.Now()
		switch status {
		case enums.RepairStatusCompleted:
			updates["completed_at"] = now
		case enums.RepairStatusDelivered, enums.RepairStatusArchived:
			updates["archived_at"] = now
		}
		if mutate != nil {
			mutate(repair, updates)
		}

		if err := repo.UpdateRepair(ctx, id, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update repair status")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventRepairStatusChanged,
			AggregateType: enums.AggregateRepair,
			AggregateID:   id,
			Data: RepairStatusChangedEvent{
				RepairID: id,
				From:     repair.Status,
				To:       status,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *service) UpdateDescription(ctx context.Context, id uuid.UUID, description string) (*models.Repair, error) {
	if description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description required")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRepair(ctx, id, map[string]any{"description": description}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update description")
	}
	return s.Get(ctx, id)
}

func (s *service) UpdateCost(ctx context.Context, id uuid.UUID, cost decimal.Decimal) (*models.Repair, error) {
	if cost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost cannot be negative")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRepair(ctx, id, map[string]any{"estimated_cost": cost}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cost")
	}
	return s.Get(ctx, id)
}

func (s *service) AttachDiagnostic(ctx context.Context, id uuid.UUID, payload json.RawMessage) (*models.Diagnostic, error) {
	if len(payload) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "diagnostic payload required")
	}
	if !json.Valid(payload) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "diagnostic payload must be valid json")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	diagnostic, err := s.repo.UpsertDiagnostic(ctx, id, payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach diagnostic")
	}
	return diagnostic, nil
}

// AddPart reserves stock and records the part in one transaction. The
// conditional decrement inside Reserve is what keeps two concurrent
// reservations of the last unit from both succeeding.
func (s *service) AddPart(ctx context.Context, repairID, inventoryItemID uuid.UUID, qty int) (*models.RepairPart, error) {
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var created *models.RepairPart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindRepair(ctx, repairID); err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "repair not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load repair")
		}

		if err := s.stock.Reserve(ctx, tx, inventoryItemID, qty); err != nil {
			return err
		}

		part, err := repo.CreatePart(ctx, &models.RepairPart{
			RepairID:        repairID,
			InventoryItemID: inventoryItemID,
			Quantity:        qty,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create repair part")
		}
		created = part
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// RemovePart returns the reserved quantity to stock and deletes the part
// in one transaction.
func (s *service) RemovePart(ctx context.Context, repairID, partID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		part, err := repo.FindPart(ctx, partID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "repair part not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load repair part")
		}
		if part.RepairID != repairID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "repair part not found")
		}

		if err := s.stock.Release(ctx, tx, part.InventoryItemID, part.Quantity); err != nil {
			return err
		}
		if err := repo.DeletePart(ctx, partID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete repair part")
		}
		return nil
	})
}

// Delete removes the ticket after handing every reserved part back to
// stock, all in one transaction. Release failures are collected so the
// rollback error names every item that could not be restored.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindRepair(ctx, id); err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "repair not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load repair")
		}

		parts, err := repo.ListParts(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list repair parts")
		}

		restored := make(map[uuid.UUID]int, len(parts))
		var releaseErr error
		for _, part := range parts {
			if err := s.stock.Release(ctx, tx, part.InventoryItemID, part.Quantity); err != nil {
				releaseErr = multierr.Append(releaseErr, err)
				continue
			}
			restored[part.InventoryItemID] += part.Quantity
		}
		if releaseErr != nil {
			return releaseErr
		}

		if err := repo.DeletePartsByRepair(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete repair parts")
		}
		if err := repo.DeleteRepair(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete repair")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventRepairDeleted,
			AggregateType: enums.AggregateRepair,
			AggregateID:   id,
			Data: RepairDeletedEvent{
				RepairID:      id,
				RestoredStock: restored,
			},
		})
	})
}

func (s *service) AddMedia(ctx context.Context, repairID uuid.UUID, url string, kind enums.MediaKind) (*models.RepairMedia, error) {
	if url == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "media url required")
	}
	if !kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid media kind")
	}
	if _, err := s.Get(ctx, repairID); err != nil {
		return nil, err
	}
	media, err := s.repo.CreateMedia(ctx, &models.RepairMedia{
		RepairID: repairID,
		URL:      url,
		Kind:     kind,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create repair media")
	}
	return media, nil
}

func (s *service) DeleteMedia(ctx context.Context, repairID, mediaID uuid.UUID) error {
	media, err := s.repo.FindMedia(ctx, mediaID)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "repair media not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load repair media")
	}
	if media.RepairID != repairID {
		return pkgerrors.New(pkgerrors.CodeNotFound, "repair media not found")
	}
	if err := s.repo.DeleteMedia(ctx, mediaID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete repair media")
	}
	return nil
}

func (s *service) SendMessage(ctx context.Context, repairID uuid.UUID, sender enums.MessageSender, content string) (*models.RepairMessage, error) {
	if !sender.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid message sender")
	}
	if content == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message content required")
	}
	if _, err := s.Get(ctx, repairID); err != nil {
		return nil, err
	}
	message, err := s.repo.CreateMessage(ctx, &models.RepairMessage{
		RepairID: repairID,
		Sender:   sender,
		Content:  content,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create repair message")
	}
	return message, nil
}

func (s *service) Stats(ctx context.Context) (*DashboardStats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count repairs")
	}
	revenue, err := s.repo.SumDeliveredRevenue(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum revenue")
	}

	stats := &DashboardStats{
		CountsByStatus: counts,
		Revenue:        revenue,
	}
	for _, total := range counts {
		stats.TotalRepairs += total
	}
	return stats, nil
}
