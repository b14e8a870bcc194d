package repairs

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/atelierhq/atelier-backend/pkg/db/models"
	"github.com/atelierhq/atelier-backend/pkg/enums"
	"github.com/atelierhq/atelier-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a repairs repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

func (r *repository) FindCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) CreateDevice(ctx context.Context, device *models.Device) (*models.Device, error) {
	if err := r.db.WithContext(ctx).Create(device).Error; err != nil {
		return nil, err
	}
	return device, nil
}

func (r *repository) CreateRepair(ctx context.Context, repair *models.Repair) (*models.Repair, error) {
	if err := r.db.WithContext(ctx).Create(repair).Error; err != nil {
		return nil, err
	}
	return repair, nil
}

func (r *repository) FindRepair(ctx context.Context, id uuid.UUID) (*models.Repair, error) {
	var repair models.Repair
	err := r.db.WithContext(ctx).
		Preload("Device.Customer").
		Preload("Parts.InventoryItem").
		Preload("Media").
		Preload("Messages").
		Preload("Diagnostic").
		Where("id = ?", id).
		First(&repair).Error
	if err != nil {
		return nil, err
	}
	return &repair, nil
}

func (r *repository) ListRepairs(ctx context.Context, params pagination.Params, filters Filters) (*RepairList, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Repair{}).
		Preload("Device.Customer")

	if filters.Archived {
		query = query.Where("status = ?", enums.RepairStatusArchived)
	} else {
		query = query.Where("status <> ?", enums.RepairStatusArchived)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	limit := pagination.NormalizeLimit(params.Limit)
	var repairs []models.Repair
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&repairs).Error
	if err != nil {
		return nil, err
	}

	list := &RepairList{Repairs: repairs}
	if len(repairs) > limit {
		list.Repairs = repairs[:limit]
		last := list.Repairs[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return list, nil
}

func (r *repository) UpdateRepair(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Repair{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeleteRepair(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Repair{}).Error
}

func (r *repository) CreatePart(ctx context.Context, part *models.RepairPart) (*models.RepairPart, error) {
	if err := r.db.WithContext(ctx).Create(part).Error; err != nil {
		return nil, err
	}
	return part, nil
}

func (r *repository) FindPart(ctx context.Context, id uuid.UUID) (*models.RepairPart, error) {
	var part models.RepairPart
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&part).Error
	if err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *repository) ListParts(ctx context.Context, repairID uuid.UUID) ([]models.RepairPart, error) {
	var parts []models.RepairPart
	err := r.db.WithContext(ctx).
		Where("repair_id = ?", repairID).
		Order("created_at ASC").
		Find(&parts).Error
	if err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *repository) DeletePart(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.RepairPart{}).Error
}

func (r *repository) DeletePartsByRepair(ctx context.Context, repairID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("repair_id = ?", repairID).
		Delete(&models.RepairPart{}).Error
}

func (r *repository) CreateMedia(ctx context.Context, media *models.RepairMedia) (*models.RepairMedia, error) {
	if err := r.db.WithContext(ctx).Create(media).Error; err != nil {
		return nil, err
	}
	return media, nil
}

func (r *repository) FindMedia(ctx context.Context, id uuid.UUID) (*models.RepairMedia, error) {
	var media models.RepairMedia
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&media).Error
	if err != nil {
		return nil, err
	}
	return &media, nil
}

func (r *repository) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.RepairMedia{}).Error
}

func (r *repository) CreateMessage(ctx context.Context, message *models.RepairMessage) (*models.RepairMessage, error) {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

func (r *repository) ListMessages(ctx context.Context, repairID uuid.UUID) ([]models.RepairMessage, error) {
	var messages []models.RepairMessage
	err := r.db.WithContext(ctx).
		Where("repair_id = ?", repairID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *repository) UpsertDiagnostic(ctx context.Context, repairID uuid.UUID, payload json.RawMessage) (*models.Diagnostic, error) {
	diagnostic := &models.Diagnostic{
		RepairID: repairID,
		Payload:  payload,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "repair_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(diagnostic).Error
	if err != nil {
		return nil, err
	}
	return diagnostic, nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[enums.RepairStatus]int64, error) {
	type statusCount struct {
		Status enums.RepairStatus
		Total  int64
	}
	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.Repair{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[enums.RepairStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func (r *repository) SumDeliveredRevenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.Repair{}).
		Select("COALESCE(SUM(estimated_cost), 0)").
		Where("status = ?", enums.RepairStatusDelivered).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
