package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stocker/stocker-backend/pkg/database"
	apperrors "github.com/stocker/stocker-backend/pkg/errors"
	"github.com/stocker/stocker-backend/pkg/logger"
	"github.com/stocker/stocker-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMovementRepo(t *testing.T) (*MovementRepository, *testutil.MockDB) {
	mockDB := testutil.NewMockDB(t)
	db := database.FromSqlx(mockDB.DB, logger.New("test", "test"))
	return NewMovementRepository(db), mockDB
}

func TestValidMovementType(t *testing.T) {
	for _, m := range []string{"restock", "sale", "adjustment", "return"} {
		assert.True(t, ValidMovementType(m), m)
	}
	assert.False(t, ValidMovementType("theft"))
	assert.False(t, ValidMovementType(""))
	assert.False(t, ValidMovementType("Restock"))
}

func TestRecord_ComputesDelta(t *testing.T) {
	repo, mockDB := newMovementRepo(t)
	defer mockDB.Close()

	productID := "7c9e6679-7425-40de-944b-e07fc1f90ae7"

	mockDB.ExpectBegin()
	mockDB.ExpectQuery("SELECT quantity_in_stock FROM products WHERE id = $1 FOR UPDATE").
		WithArgs(productID).
		WillReturnRows(testutil.MockRows("quantity_in_stock").AddRow(50))
	mockDB.ExpectExec("UPDATE products SET quantity_in_stock = $2, updated_at = NOW() WHERE id = $1").
		WithArgs(productID, 120).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectQuery("INSERT INTO stock_movements").
		WillReturnRows(testutil.MockRows("created_at").AddRow(time.Now()))
	mockDB.ExpectCommit()

	mv := &StockMovement{
		ProductID:    productID,
		MovementType: MovementRestock,
		NewQuantity:  120,
	}
	err := repo.Record(context.Background(), mv)
	require.NoError(t, err)

	assert.Equal(t, 50, mv.PreviousQuantity)
	assert.Equal(t, 70, mv.Delta)
	assert.NotEmpty(t, mv.ID)

	mockDB.ExpectationsWereMet(t)
}

func TestRecord_NegativeDeltaOnSale(t *testing.T) {
	repo, mockDB := newMovementRepo(t)
	defer mockDB.Close()

	productID := "7c9e6679-7425-40de-944b-e07fc1f90ae7"

	mockDB.ExpectBegin()
	mockDB.ExpectQuery("SELECT quantity_in_stock FROM products WHERE id = $1 FOR UPDATE").
		WithArgs(productID).
		WillReturnRows(testutil.MockRows("quantity_in_stock").AddRow(200))
	mockDB.ExpectExec("UPDATE products SET quantity_in_stock = $2, updated_at = NOW() WHERE id = $1").
		WithArgs(productID, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectQuery("INSERT INTO stock_movements").
		WillReturnRows(testutil.MockRows("created_at").AddRow(time.Now()))
	mockDB.ExpectCommit()

	mv := &StockMovement{
		ProductID:    productID,
		MovementType: MovementSale,
		NewQuantity:  0,
	}
	require.NoError(t, repo.Record(context.Background(), mv))

	assert.Equal(t, -200, mv.Delta)

	mockDB.ExpectationsWereMet(t)
}

func TestRecord_ProductNotFound(t *testing.T) {
	repo, mockDB := newMovementRepo(t)
	defer mockDB.Close()

	mockDB.ExpectBegin()
	mockDB.ExpectQuery("SELECT quantity_in_stock FROM products WHERE id = $1 FOR UPDATE").
		WillReturnRows(testutil.MockRows("quantity_in_stock"))
	mockDB.ExpectRollback()

	mv := &StockMovement{
		ProductID:    "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		MovementType: MovementAdjustment,
		NewQuantity:  10,
	}
	err := repo.Record(context.Background(), mv)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	mockDB.ExpectationsWereMet(t)
}

func TestRecord_RollsBackWhenInsertFails(t *testing.T) {
	repo, mockDB := newMovementRepo(t)
	defer mockDB.Close()

	productID := "7c9e6679-7425-40de-944b-e07fc1f90ae7"

	mockDB.ExpectBegin()
	mockDB.ExpectQuery("SELECT quantity_in_stock FROM products WHERE id = $1 FOR UPDATE").
		WithArgs(productID).
		WillReturnRows(testutil.MockRows("quantity_in_stock").AddRow(50))
	mockDB.ExpectExec("UPDATE products SET quantity_in_stock = $2, updated_at = NOW() WHERE id = $1").
		WithArgs(productID, 80).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectQuery("INSERT INTO stock_movements").
		WillReturnError(errors.New("disk full"))
	mockDB.ExpectRollback()

	mv := &StockMovement{
		ProductID:    productID,
		MovementType: MovementReturn,
		NewQuantity:  80,
	}
	err := repo.Record(context.Background(), mv)
	require.Error(t, err)

	mockDB.ExpectationsWereMet(t)
}

func TestList_FiltersByMovementType(t *testing.T) {
	repo, mockDB := newMovementRepo(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("SELECT COUNT(*) FROM stock_movements WHERE movement_type = $1").
		WithArgs("sale").
		WillReturnRows(testutil.MockRows("count").AddRow(1))
	mockDB.Mock.ExpectQuery("SELECT m.id").
		WillReturnRows(testutil.MockRows(
			"id", "product_id", "movement_type", "previous_quantity",
			"new_quantity", "delta", "reason", "performed_by",
			"performed_by_name", "created_at", "product_name",
		).AddRow(
			"m1", "p1", "sale", 100, 80, -20, nil, nil, nil, time.Now(), "Aspirin",
		))

	movements, total, err := repo.List(context.Background(), "sale", 1, 20)
	require.NoError(t, err)

	assert.Equal(t, int64(1), total)
	require.Len(t, movements, 1)
	assert.Equal(t, "sale", movements[0].MovementType)
	assert.Equal(t, -20, movements[0].Delta)

	mockDB.ExpectationsWereMet(t)
}
