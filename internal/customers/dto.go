package customers

import (
	"github.com/atelierhq/atelier-backend/pkg/db/models"
)

// CreateCustomerInput carries the fields accepted when registering a customer.
type CreateCustomerInput struct {
	FirstName string
	LastName  string
	Phone     string
	Email     *string
}

// UpdateCustomerInput updates customer contact details.
type UpdateCustomerInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Email     *string
}

// AddDeviceInput registers a device under a customer.
type AddDeviceInput struct {
	Brand        string
	Model        string
	SerialNumber *string
}

// Filters describe the inputs supported by the customer list.
type Filters struct {
	Query string
}

// CustomerList wraps a page of customers plus the next page cursor.
type CustomerList struct {
	Customers  []models.Customer `json:"customers"`
	NextCursor string            `json:"next_cursor,omitempty"`
}
