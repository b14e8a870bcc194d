package customers

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierhq/atelier-backend/pkg/db/models"
	pkgerrors "github.com/atelierhq/atelier-backend/pkg/errors"
	"github.com/atelierhq/atelier-backend/pkg/pagination"
)

type stubCustomersRepo struct {
	customers map[uuid.UUID]*models.Customer
	devices   map[uuid.UUID]*models.Device
	createErr error
	updateErr error
}

func newStubCustomersRepo() *stubCustomersRepo {
	return &stubCustomersRepo{
		customers: make(map[uuid.UUID]*models.Customer),
		devices:   make(map[uuid.UUID]*models.Device),
	}
}

func (s *stubCustomersRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubCustomersRepo) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	s.customers[customer.ID] = customer
	return customer, nil
}

func (s *stubCustomersRepo) Find(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, ok := s.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return customer, nil
}

func (s *stubCustomersRepo) FindByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	for _, customer := range s.customers {
		if customer.Phone == phone {
			return customer, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCustomersRepo) List(ctx context.Context, params pagination.Params, filters Filters) (*CustomerList, error) {
	list := &CustomerList{}
	for _, customer := range s.customers {
		list.Customers = append(list.Customers, *customer)
	}
	return list, nil
}

func (s *stubCustomersRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	customer, ok := s.customers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if phone, ok := updates["phone"].(string); ok {
		customer.Phone = phone
	}
	if first, ok := updates["first_name"].(string); ok {
		customer.FirstName = first
	}
	return nil
}

func (s *stubCustomersRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.customers, id)
	return nil
}

func (s *stubCustomersRepo) CreateDevice(ctx context.Context, device *models.Device) (*models.Device, error) {
	if device.ID == uuid.Nil {
		device.ID = uuid.New()
	}
	s.devices[device.ID] = device
	return device, nil
}

func (s *stubCustomersRepo) FindDevice(ctx context.Context, id uuid.UUID) (*models.Device, error) {
	device, ok := s.devices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return device, nil
}

func (s *stubCustomersRepo) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	delete(s.devices, id)
	return nil
}

func newCustomersService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc
}

func TestCreateCustomerValidation(t *testing.T) {
	svc := newCustomersService(t, newStubCustomersRepo())

	tests := []struct {
		name  string
		input CreateCustomerInput
	}{
		{"missing names", CreateCustomerInput{Phone: "0601020304"}},
		{"missing phone", CreateCustomerInput{FirstName: "Jean", LastName: "Dupont"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateCustomer(context.Background(), tc.input)
			if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateCustomerHappyPath(t *testing.T) {
	repo := newStubCustomersRepo()
	svc := newCustomersService(t, repo)

	customer, err := svc.CreateCustomer(context.Background(), CreateCustomerInput{
		FirstName: "Jean",
		LastName:  "Dupont",
		Phone:     "0601020304",
	})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	if customer.ID == uuid.Nil {
		t.Fatal("expected customer id to be set")
	}
	if len(repo.customers) != 1 {
		t.Fatalf("expected one stored customer, got %d", len(repo.customers))
	}
}

func TestCreateCustomerDuplicatePhoneConflicts(t *testing.T) {
	repo := newStubCustomersRepo()
	repo.createErr = errors.New(`ERROR: duplicate key value violates unique constraint "idx_customers_phone" (SQLSTATE 23505)`)
	svc := newCustomersService(t, repo)

	_, err := svc.CreateCustomer(context.Background(), CreateCustomerInput{
		FirstName: "Jean",
		LastName:  "Dupont",
		Phone:     "0601020304",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(repo.customers) != 0 {
		t.Fatal("no customer should be stored on conflict")
	}
}

func TestUpdateCustomerDuplicatePhoneConflicts(t *testing.T) {
	repo := newStubCustomersRepo()
	svc := newCustomersService(t, repo)

	customer, err := svc.CreateCustomer(context.Background(), CreateCustomerInput{
		FirstName: "Jean",
		LastName:  "Dupont",
		Phone:     "0601020304",
	})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}

	repo.updateErr = errors.New(`ERROR: duplicate key value violates unique constraint "idx_customers_phone" (SQLSTATE 23505)`)
	phone := "0605060708"
	if _, err := svc.UpdateCustomer(context.Background(), customer.ID, UpdateCustomerInput{Phone: &phone}); !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestGetCustomerNotFound(t *testing.T) {
	svc := newCustomersService(t, newStubCustomersRepo())

	_, err := svc.GetCustomer(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddDeviceValidation(t *testing.T) {
	repo := newStubCustomersRepo()
	svc := newCustomersService(t, repo)

	customer, err := svc.CreateCustomer(context.Background(), CreateCustomerInput{
		FirstName: "Jean",
		LastName:  "Dupont",
		Phone:     "0601020304",
	})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}

	if _, err := svc.AddDevice(context.Background(), customer.ID, AddDeviceInput{Brand: "Apple"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	device, err := svc.AddDevice(context.Background(), customer.ID, AddDeviceInput{Brand: "Apple", Model: "iPhone 13"})
	if err != nil {
		t.Fatalf("add device: %v", err)
	}
	if device.CustomerID != customer.ID {
		t.Fatal("device not linked to customer")
	}
}

func TestDeleteDeviceChecksOwnership(t *testing.T) {
	repo := newStubCustomersRepo()
	svc := newCustomersService(t, repo)

	customer, err := svc.CreateCustomer(context.Background(), CreateCustomerInput{
		FirstName: "Jean",
		LastName:  "Dupont",
		Phone:     "0601020304",
	})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	device, err := svc.AddDevice(context.Background(), customer.ID, AddDeviceInput{Brand: "Apple", Model: "iPhone 13"})
	if err != nil {
		t.Fatalf("add device: %v", err)
	}

	if err := svc.DeleteDevice(context.Background(), uuid.New(), device.ID); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for foreign customer, got %v", err)
	}
	if err := svc.DeleteDevice(context.Background(), customer.ID, device.ID); err != nil {
		t.Fatalf("delete device: %v", err)
	}
	if len(repo.devices) != 0 {
		t.Fatal("device not removed")
	}
}
