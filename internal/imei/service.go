// Package imei records device identity lookups. The actual registry query
// is performed by an external collaborator; this package validates the
// identifiers, keeps the lookup history and stores whatever result payload
// the collaborator reports back.
package imei

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierhq/atelier-backend/pkg/db"
	"github.com/atelierhq/atelier-backend/pkg/db/models"
	"github.com/atelierhq/atelier-backend/pkg/enums"
	pkgerrors "github.com/atelierhq/atelier-backend/pkg/errors"
	"github.com/atelierhq/atelier-backend/pkg/pagination"
)

// CheckInput opens a lookup for an IMEI or a serial number.
type CheckInput struct {
	Imei         *string
	SerialNumber *string
}

// ResultInput records the collaborator's answer for a pending lookup.
type ResultInput struct {
	Status enums.ImeiCheckStatus
	Result json.RawMessage
}

// CheckList wraps a page of lookups plus the next page cursor.
type CheckList struct {
	Checks     []models.ImeiCheck `json:"checks"`
	NextCursor string             `json:"next_cursor,omitempty"`
}

// Repository defines persistence operations for the imei_checks table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, check *models.ImeiCheck) (*models.ImeiCheck, error)
	Find(ctx context.Context, id uuid.UUID) (*models.ImeiCheck, error)
	List(ctx context.Context, params pagination.Params) (*CheckList, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

// Service defines IMEI lookup operations.
type Service interface {
	OpenCheck(ctx context.Context, input CheckInput) (*models.ImeiCheck, error)
	RecordResult(ctx context.Context, id uuid.UUID, input ResultInput) (*models.ImeiCheck, error)
	GetCheck(ctx context.Context, id uuid.UUID) (*models.ImeiCheck, error)
	ListChecks(ctx context.Context, params pagination.Params) (*CheckList, error)
}

type service struct {
	repo Repository
}

// NewService builds an IMEI check service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("imei repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) OpenCheck(ctx context.Context, input CheckInput) (*models.ImeiCheck, error) {
	hasImei := input.Imei != nil && *input.Imei != ""
	hasSerial := input.SerialNumber != nil && *input.SerialNumber != ""
	if !hasImei && !hasSerial {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "imei or serial number required")
	}
	if hasImei {
		if err := ValidateIMEI(*input.Imei); err != nil {
			return nil, err
		}
	}

	check := &models.ImeiCheck{
		Imei:         input.Imei,
		SerialNumber: input.SerialNumber,
		Status:       enums.ImeiCheckStatusPending,
	}
	created, err := s.repo.Create(ctx, check)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create imei check")
	}
	return created, nil
}

func (s *service) RecordResult(ctx context.Context, id uuid.UUID, input ResultInput) (*models.ImeiCheck, error) {
	if !input.Status.IsValid() || input.Status == enums.ImeiCheckStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid result status")
	}
	if _, err := s.GetCheck(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]any{"status": input.Status}
	if len(input.Result) > 0 {
		updates["result"] = input.Result
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update imei check")
	}
	return s.GetCheck(ctx, id)
}

func (s *service) GetCheck(ctx context.Context, id uuid.UUID) (*models.ImeiCheck, error) {
	check, err := s.repo.Find(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "imei check not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load imei check")
	}
	return check, nil
}

func (s *service) ListChecks(ctx context.Context, params pagination.Params) (*CheckList, error) {
	list, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list imei checks")
	}
	return list, nil
}
