package customers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierhq/atelier-backend/pkg/db/models"
	"github.com/atelierhq/atelier-backend/pkg/pagination"
)

// Repository defines persistence operations for customers and their devices.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	Find(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	FindByPhone(ctx context.Context, phone string) (*models.Customer, error)
	List(ctx context.Context, params pagination.Params, filters Filters) (*CustomerList, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	CreateDevice(ctx context.Context, device *models.Device) (*models.Device, error)
	FindDevice(ctx context.Context, id uuid.UUID) (*models.Device, error)
	DeleteDevice(ctx context.Context, id uuid.UUID) error
}
