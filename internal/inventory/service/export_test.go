package service

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stocker/stocker-backend/internal/inventory/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInventoryReport() *InventoryReport {
	expiry := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	category := "Analgesics"

	return &InventoryReport{
		GeneratedAt:       time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		LowStockThreshold: 100,
		NearExpiryDays:    30,
		TotalProducts:     2,
		InStockCount:      1,
		OutOfStockCount:   1,
		Products: []*ProductWithStatus{
			{
				Product: &repository.Product{
					SKU:             "PRD-AAAA0001",
					Name:            "Paracetamol 500mg",
					CategoryName:    &category,
					QuantityInStock: 500,
					ExpiryDate:      &expiry,
					Price:           decimal.NewFromFloat(9.99),
				},
				StockStatus:  StockIn,
				ExpiryStatus: ExpiryOK,
			},
			{
				Product: &repository.Product{
					SKU:   "PRD-BBBB0002",
					Name:  "Aspirin 100mg",
					Price: decimal.NewFromFloat(4.5),
				},
				StockStatus:  StockOutOfStock,
				ExpiryStatus: ExpiryNone,
			},
		},
	}
}

func TestRenderInventoryCSV(t *testing.T) {
	data, err := RenderInventoryCSV(sampleInventoryReport())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"sku", "name", "category", "quantity_in_stock",
		"stock_status", "expiry_date", "expiry_status", "price",
	}, records[0])

	assert.Equal(t, []string{
		"PRD-AAAA0001", "Paracetamol 500mg", "Analgesics", "500",
		StockIn, "2024-06-30", ExpiryOK, "9.99",
	}, records[1])

	// Missing category, expiry and expiry status render as empty cells.
	assert.Equal(t, []string{
		"PRD-BBBB0002", "Aspirin 100mg", "", "0",
		StockOutOfStock, "", "", "4.50",
	}, records[2])
}

func TestRenderInventoryPDF(t *testing.T) {
	data, err := RenderInventoryPDF(sampleInventoryReport())
	require.NoError(t, err)

	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRenderSupplierCSV(t *testing.T) {
	productName := "Paracetamol 500mg"
	productSKU := "PRD-AAAA0001"

	report := &SupplierReport{
		GeneratedAt:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		TotalSuppliers: 1,
		TotalLinks:     1,
		Suppliers: []*SupplierReportEntry{
			{
				SupplierWithLinks: &SupplierWithLinks{
					Supplier: &repository.Supplier{ID: "s1", Name: "Acme Pharma"},
					Products: []*repository.SupplierProduct{
						{
							SupplierID:      "s1",
							ProductID:       "p1",
							ProductName:     &productName,
							ProductSKU:      &productSKU,
							UnitCost:        decimal.NewFromFloat(1.8),
							LeadTimeDays:    7,
							MinimumOrderQty: 50,
							IsActive:        true,
						},
					},
				},
				ProductCount: 1,
			},
		},
	}

	data, err := RenderSupplierCSV(report)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{
		"supplier", "product", "sku", "unit_cost",
		"lead_time_days", "minimum_order_qty", "is_active",
	}, records[0])
	assert.Equal(t, []string{
		"Acme Pharma", "Paracetamol 500mg", "PRD-AAAA0001",
		"1.80", "7", "50", "true",
	}, records[1])
}

func TestRenderSupplierPDF(t *testing.T) {
	report := &SupplierReport{
		GeneratedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Suppliers: []*SupplierReportEntry{
			{
				SupplierWithLinks: &SupplierWithLinks{
					Supplier: &repository.Supplier{ID: "s1", Name: "Acme Pharma"},
				},
				ProductCount:    2,
				OutOfStockCount: 1,
				NearExpiryCount: 1,
			},
		},
		UncoveredProducts: []*repository.Product{
			{SKU: "PRD-CCCC0003", Name: "Cetirizine 10mg"},
		},
	}

	data, err := RenderSupplierPDF(report)
	require.NoError(t, err)

	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
