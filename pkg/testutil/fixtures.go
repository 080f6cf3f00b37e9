package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductFixture represents test product data
type ProductFixture struct {
	ID              string
	SKU             string
	Name            string
	DosageForm      string
	QuantityInStock int
	ExpiryDate      *time.Time
	Price           decimal.Decimal
	CategoryID      *string
}

// CategoryFixture represents test category data
type CategoryFixture struct {
	ID   string
	Name string
}

// SupplierFixture represents test supplier data
type SupplierFixture struct {
	ID    string
	Name  string
	Email string
}

// StaffUserFixture represents test staff user data
type StaffUserFixture struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	IsStaff   bool
	IsActive  bool
}

// FixtureFactory creates test fixtures with sensible defaults
type FixtureFactory struct {
	sequence int
}

// NewFixtureFactory creates a new fixture factory
func NewFixtureFactory() *FixtureFactory {
	return &FixtureFactory{sequence: 0}
}

func (f *FixtureFactory) next() int {
	f.sequence++
	return f.sequence
}

// Product creates a product fixture with a generated SKU and full stock
func (f *FixtureFactory) Product() *ProductFixture {
	n := f.next()
	id := uuid.New().String()
	return &ProductFixture{
		ID:              id,
		SKU:             fmt.Sprintf("PRD-TEST%04d", n),
		Name:            fmt.Sprintf("Test Product %d", n),
		DosageForm:      "tablet",
		QuantityInStock: 500,
		Price:           decimal.NewFromFloat(9.99),
	}
}

// ExpiringProduct creates a product fixture that expires in the given days.
// Negative days produce an already expired product.
func (f *FixtureFactory) ExpiringProduct(days int) *ProductFixture {
	p := f.Product()
	expiry := time.Now().AddDate(0, 0, days)
	p.ExpiryDate = &expiry
	return p
}

// Category creates a category fixture
func (f *FixtureFactory) Category() *CategoryFixture {
	n := f.next()
	return &CategoryFixture{
		ID:   uuid.New().String(),
		Name: fmt.Sprintf("Test Category %d", n),
	}
}

// Supplier creates a supplier fixture
func (f *FixtureFactory) Supplier() *SupplierFixture {
	n := f.next()
	return &SupplierFixture{
		ID:    uuid.New().String(),
		Name:  fmt.Sprintf("Test Supplier %d", n),
		Email: fmt.Sprintf("supplier%d@example.com", n),
	}
}

// StaffUser creates an active staff user fixture
func (f *FixtureFactory) StaffUser() *StaffUserFixture {
	n := f.next()
	return &StaffUserFixture{
		ID:        uuid.New().String(),
		Email:     fmt.Sprintf("staff%d@example.com", n),
		FirstName: "Staff",
		LastName:  fmt.Sprintf("User%d", n),
		IsStaff:   true,
		IsActive:  true,
	}
}
