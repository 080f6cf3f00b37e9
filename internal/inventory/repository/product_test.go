package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stocker/stocker-backend/pkg/database"
	apperrors "github.com/stocker/stocker-backend/pkg/errors"
	"github.com/stocker/stocker-backend/pkg/logger"
	"github.com/stocker/stocker-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductRepo(t *testing.T) (*ProductRepository, *testutil.MockDB) {
	mockDB := testutil.NewMockDB(t)
	db := database.FromSqlx(mockDB.DB, logger.New("test", "test"))
	return NewProductRepository(db), mockDB
}

func TestGenerateSKU(t *testing.T) {
	sku := GenerateSKU("7c9e6679-7425-40de-944b-e07fc1f90ae7")
	assert.Equal(t, "PRD-7C9E6679", sku)

	// Same identity always yields the same code.
	assert.Equal(t, sku, GenerateSKU("7c9e6679-7425-40de-944b-e07fc1f90ae7"))
}

func TestGenerateSKU_ShortInput(t *testing.T) {
	assert.Equal(t, "PRD-AB12", GenerateSKU("ab-12"))
	assert.Equal(t, "PRD-", GenerateSKU(""))
}

func TestValidDosageForm(t *testing.T) {
	for _, f := range DosageForms {
		assert.True(t, ValidDosageForm(f), f)
	}
	assert.False(t, ValidDosageForm("pill"))
	assert.False(t, ValidDosageForm("Tablet"))
	assert.False(t, ValidDosageForm(""))
}

func TestCreateProduct_AssignsIdentityAndSKU(t *testing.T) {
	repo, mockDB := newProductRepo(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("INSERT INTO products").
		WillReturnRows(testutil.MockRows("created_at", "updated_at").
			AddRow(time.Now(), time.Now()))

	product := &Product{
		Name:       "Paracetamol 500mg",
		DosageForm: "tablet",
	}
	err := repo.Create(context.Background(), product)
	require.NoError(t, err)

	assert.NotEmpty(t, product.ID)
	assert.Equal(t, GenerateSKU(product.ID), product.SKU)
	assert.False(t, product.CreatedAt.IsZero())

	mockDB.ExpectationsWereMet(t)
}

func TestGetProductByID_NotFound(t *testing.T) {
	repo, mockDB := newProductRepo(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("SELECT").
		WillReturnRows(testutil.MockRows("id"))

	_, err := repo.GetByID(context.Background(), "7c9e6679-7425-40de-944b-e07fc1f90ae7")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestBuildProductWhere(t *testing.T) {
	today := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("empty filter", func(t *testing.T) {
		where, args := buildProductWhere(ProductFilter{})
		assert.Empty(t, where)
		assert.Empty(t, args)
	})

	t.Run("out of stock takes no args", func(t *testing.T) {
		where, args := buildProductWhere(ProductFilter{Status: "out_of_stock"})
		assert.Contains(t, where, "p.quantity_in_stock = 0")
		assert.Empty(t, args)
	})

	t.Run("low stock binds threshold", func(t *testing.T) {
		where, args := buildProductWhere(ProductFilter{Status: "low_stock", LowStockThreshold: 100})
		assert.Contains(t, where, "p.quantity_in_stock > 0")
		assert.Contains(t, where, "p.quantity_in_stock < $1")
		assert.Equal(t, []interface{}{100}, args)
	})

	t.Run("near expiry binds window bounds", func(t *testing.T) {
		where, args := buildProductWhere(ProductFilter{
			Status:         "near_expiry",
			NearExpiryDays: 30,
			Today:          today,
		})
		assert.Contains(t, where, "p.expiry_date >= $1")
		assert.Contains(t, where, "p.expiry_date <= $2")
		require.Len(t, args, 2)
		assert.Equal(t, today, args[0])
		assert.Equal(t, today.AddDate(0, 0, 30), args[1])
	})

	t.Run("search matches name and sku", func(t *testing.T) {
		where, args := buildProductWhere(ProductFilter{Search: "para"})
		assert.Contains(t, where, "p.name ILIKE $1")
		assert.Contains(t, where, "p.sku ILIKE $2")
		assert.Equal(t, []interface{}{"%para%", "%para%"}, args)
	})

	t.Run("category and status combine", func(t *testing.T) {
		where, args := buildProductWhere(ProductFilter{
			CategoryID:        "cat-1",
			Status:            "low_stock",
			LowStockThreshold: 50,
		})
		assert.Contains(t, where, "p.category_id = $1")
		assert.Contains(t, where, " AND ")
		assert.Equal(t, []interface{}{"cat-1", 50}, args)
	})
}
