package repairs

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/atelierhq/atelier-backend/pkg/db/models"
	"github.com/atelierhq/atelier-backend/pkg/enums"
	"github.com/atelierhq/atelier-backend/pkg/pagination"
)

// Repository defines persistence operations for repair tickets and the
// rows hanging off them. Intake also touches customers and devices so a
// walk-in can be registered in the same transaction as their repair.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	FindCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error)
	CreateDevice(ctx context.Context, device *models.Device) (*models.Device, error)

	CreateRepair(ctx context.Context, repair *models.Repair) (*models.Repair, error)
	FindRepair(ctx context.Context, id uuid.UUID) (*models.Repair, error)
	ListRepairs(ctx context.Context, params pagination.Params, filters Filters) (*RepairList, error)
	UpdateRepair(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteRepair(ctx context.Context, id uuid.UUID) error

	CreatePart(ctx context.Context, part *models.RepairPart) (*models.RepairPart, error)
	FindPart(ctx context.Context, id uuid.UUID) (*models.RepairPart, error)
	ListParts(ctx context.Context, repairID uuid.UUID) ([]models.RepairPart, error)
	DeletePart(ctx context.Context, id uuid.UUID) error
	DeletePartsByRepair(ctx context.Context, repairID uuid.UUID) error

	CreateMedia(ctx context.Context, media *models.RepairMedia) (*models.RepairMedia, error)
	FindMedia(ctx context.Context, id uuid.UUID) (*models.RepairMedia, error)
	DeleteMedia(ctx context.Context, id uuid.UUID) error

	CreateMessage(ctx context.Context, message *models.RepairMessage) (*models.RepairMessage, error)
	ListMessages(ctx context.Context, repairID uuid.UUID) ([]models.RepairMessage, error)

	UpsertDiagnostic(ctx context.Context, repairID uuid.UUID, payload json.RawMessage) (*models.Diagnostic, error)

	CountByStatus(ctx context.Context) (map[enums.RepairStatus]int64, error)
	SumDeliveredRevenue(ctx context.Context) (decimal.Decimal, error)
}
