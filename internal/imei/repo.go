package imei

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierhq/atelier-backend/pkg/db/models"
	"github.com/atelierhq/atelier-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an IMEI check repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, check *models.ImeiCheck) (*models.ImeiCheck, error) {
	if err := r.db.WithContext(ctx).Create(check).Error; err != nil {
		return nil, err
	}
	return check, nil
}

func (r *repository) Find(ctx context.Context, id uuid.UUID) (*models.ImeiCheck, error) {
	var check models.ImeiCheck
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&check).Error
	if err != nil {
		return nil, err
	}
	return &check, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params) (*CheckList, error) {
	query := r.db.WithContext(ctx).Model(&models.ImeiCheck{})

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	limit := pagination.NormalizeLimit(params.Limit)
	var checks []models.ImeiCheck
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&checks).Error
	if err != nil {
		return nil, err
	}

	list := &CheckList{Checks: checks}
	if len(checks) > limit {
		list.Checks = checks[:limit]
		last := list.Checks[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return list, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.ImeiCheck{}).
		Where("id = ?", id).
		Updates(updates).Error
}
