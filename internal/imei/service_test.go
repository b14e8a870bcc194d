package imei

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierhq/atelier-backend/pkg/db/models"
	"github.com/atelierhq/atelier-backend/pkg/enums"
	pkgerrors "github.com/atelierhq/atelier-backend/pkg/errors"
	"github.com/atelierhq/atelier-backend/pkg/pagination"
)

type stubImeiRepo struct {
	checks map[uuid.UUID]*models.ImeiCheck
}

func newStubImeiRepo() *stubImeiRepo {
	return &stubImeiRepo{checks: make(map[uuid.UUID]*models.ImeiCheck)}
}

func (s *stubImeiRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubImeiRepo) Create(ctx context.Context, check *models.ImeiCheck) (*models.ImeiCheck, error) {
	if check.ID == uuid.Nil {
		check.ID = uuid.New()
	}
	s.checks[check.ID] = check
	return check, nil
}

func (s *stubImeiRepo) Find(ctx context.Context, id uuid.UUID) (*models.ImeiCheck, error) {
	check, ok := s.checks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return check, nil
}

func (s *stubImeiRepo) List(ctx context.Context, params pagination.Params) (*CheckList, error) {
	list := &CheckList{}
	for _, check := range s.checks {
		list.Checks = append(list.Checks, *check)
	}
	return list, nil
}

func (s *stubImeiRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	check, ok := s.checks[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if status, ok := updates["status"].(enums.ImeiCheckStatus); ok {
		check.Status = status
	}
	if result, ok := updates["result"].(json.RawMessage); ok {
		check.Result = result
	}
	return nil
}

func newImeiService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc
}

func strPtr(s string) *string { return &s }

func TestOpenCheckRequiresIdentifier(t *testing.T) {
	svc := newImeiService(t, newStubImeiRepo())

	_, err := svc.OpenCheck(context.Background(), CheckInput{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOpenCheckRejectsBadImei(t *testing.T) {
	svc := newImeiService(t, newStubImeiRepo())

	_, err := svc.OpenCheck(context.Background(), CheckInput{Imei: strPtr("490154203237519")})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOpenCheckStartsPending(t *testing.T) {
	svc := newImeiService(t, newStubImeiRepo())

	check, err := svc.OpenCheck(context.Background(), CheckInput{Imei: strPtr("490154203237518")})
	if err != nil {
		t.Fatalf("open check: %v", err)
	}
	if check.Status != enums.ImeiCheckStatusPending {
		t.Fatalf("expected pending status, got %s", check.Status)
	}
}

func TestOpenCheckAcceptsSerialOnly(t *testing.T) {
	svc := newImeiService(t, newStubImeiRepo())

	check, err := svc.OpenCheck(context.Background(), CheckInput{SerialNumber: strPtr("C02XJ0AAJG5H")})
	if err != nil {
		t.Fatalf("open check: %v", err)
	}
	if check.Imei != nil {
		t.Fatal("imei should be empty for serial lookups")
	}
}

func TestRecordResult(t *testing.T) {
	repo := newStubImeiRepo()
	svc := newImeiService(t, repo)

	check, err := svc.OpenCheck(context.Background(), CheckInput{Imei: strPtr("490154203237518")})
	if err != nil {
		t.Fatalf("open check: %v", err)
	}

	_, err = svc.RecordResult(context.Background(), check.ID, ResultInput{Status: enums.ImeiCheckStatusPending})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for pending result, got %v", err)
	}

	payload := json.RawMessage(`{"blacklisted":false}`)
	updated, err := svc.RecordResult(context.Background(), check.ID, ResultInput{
		Status: enums.ImeiCheckStatusSuccess,
		Result: payload,
	})
	if err != nil {
		t.Fatalf("record result: %v", err)
	}
	if updated.Status != enums.ImeiCheckStatusSuccess {
		t.Fatalf("expected success status, got %s", updated.Status)
	}
	if string(updated.Result) != string(payload) {
		t.Fatalf("unexpected result payload %s", updated.Result)
	}
}

func TestRecordResultUnknownCheck(t *testing.T) {
	svc := newImeiService(t, newStubImeiRepo())

	_, err := svc.RecordResult(context.Background(), uuid.New(), ResultInput{Status: enums.ImeiCheckStatusFailed})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
