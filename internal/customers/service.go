package customers

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier-backend/pkg/db"
	"github.com/atelierhq/atelier-backend/pkg/db/models"
	pkgerrors "github.com/atelierhq/atelier-backend/pkg/errors"
	"github.com/atelierhq/atelier-backend/pkg/pagination"
)

// uniquePhoneIndex matches the unique index on customers.phone from the
// migrations; duplicate-phone writes surface it in the Postgres error.
const uniquePhoneIndex = "idx_customers_phone"

// Service defines customer and device operations.
type Service interface {
	CreateCustomer(ctx context.Context, input CreateCustomerInput) (*models.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	ListCustomers(ctx context.Context, params pagination.Params, filters Filters) (*CustomerList, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
	AddDevice(ctx context.Context, customerID uuid.UUID, input AddDeviceInput) (*models.Device, error)
	DeleteDevice(ctx context.Context, customerID, deviceID uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds a customers service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*models.Customer, error) {
	if input.FirstName == "" || input.LastName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first and last name required")
	}
	if input.Phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone required")
	}

	customer := &models.Customer{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Email:     input.Email,
	}
	created, err := s.repo.Create(ctx, customer)
	if err != nil {
		if db.IsUniqueViolation(err, uniquePhoneIndex) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}
	return created, nil
}

func (s *service) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.Find(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

func (s *service) ListCustomers(ctx context.Context, params pagination.Params, filters Filters) (*CustomerList, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	return list, nil
}

func (s *service) UpdateCustomer(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*models.Customer, error) {
	updates := map[string]any{}
	if input.FirstName != nil {
		if *input.FirstName == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "first name cannot be empty")
		}
		updates["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		if *input.LastName == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "last name cannot be empty")
		}
		updates["last_name"] = *input.LastName
	}
	if input.Phone != nil {
		if *input.Phone == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone cannot be empty")
		}
		updates["phone"] = *input.Phone
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}

	if _, err := s.GetCustomer(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		if db.IsUniqueViolation(err, uniquePhoneIndex) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
	}
	return s.GetCustomer(ctx, id)
}

func (s *service) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete customer")
	}
	return nil
}

func (s *service) AddDevice(ctx context.Context, customerID uuid.UUID, input AddDeviceInput) (*models.Device, error) {
	if input.Brand == "" || input.Model == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "device brand and model required")
	}
	if _, err := s.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	device := &models.Device{
		CustomerID:   customerID,
		Brand:        input.Brand,
		Model:        input.Model,
		SerialNumber: input.SerialNumber,
	}
	created, err := s.repo.CreateDevice(ctx, device)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create device")
	}
	return created, nil
}

func (s *service) DeleteDevice(ctx context.Context, customerID, deviceID uuid.UUID) error {
	device, err := s.repo.FindDevice(ctx, deviceID)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "device not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load device")
	}
	if device.CustomerID != customerID {
		return pkgerrors.New(pkgerrors.CodeNotFound, "device not found")
	}
	if err := s.repo.DeleteDevice(ctx, deviceID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete device")
	}
	return nil
}
