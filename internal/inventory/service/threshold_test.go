package service

import (
	"testing"
	"time"

	"github.com/stocker/stocker-backend/internal/inventory/repository"
	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	t := date(s)
	return &t
}

func TestClassifyStock(t *testing.T) {
	th := Thresholds{LowStock: 100, NearExpiryDays: 30}

	tests := []struct {
		name     string
		quantity int
		want     string
	}{
		{"zero is out of stock", 0, StockOutOfStock},
		{"one is low stock", 1, StockLow},
		{"just below threshold", 99, StockLow},
		{"exactly at threshold", 100, StockIn},
		{"above threshold", 250, StockIn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, th.ClassifyStock(tt.quantity))
		})
	}
}

func TestClassifyStock_ThresholdOne(t *testing.T) {
	// With threshold 1 nothing can be low stock: zero is out of stock and
	// anything positive is in stock.
	th := Thresholds{LowStock: 1}

	assert.Equal(t, StockOutOfStock, th.ClassifyStock(0))
	assert.Equal(t, StockIn, th.ClassifyStock(1))
}

func TestClassifyExpiry(t *testing.T) {
	th := Thresholds{LowStock: 100, NearExpiryDays: 30}
	today := date("2024-01-01")

	tests := []struct {
		name   string
		expiry *time.Time
		want   string
	}{
		{"no expiry date", nil, ExpiryNone},
		{"yesterday is expired", datePtr("2023-12-31"), ExpiryExpired},
		{"long past is expired", datePtr("2022-06-15"), ExpiryExpired},
		{"today is near expiry", datePtr("2024-01-01"), ExpiryNear},
		{"inside window", datePtr("2024-01-15"), ExpiryNear},
		{"window end is inclusive", datePtr("2024-01-31"), ExpiryNear},
		{"day after window", datePtr("2024-02-01"), ExpiryOK},
		{"far future", datePtr("2025-01-01"), ExpiryOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, th.ClassifyExpiry(tt.expiry, today))
		})
	}
}

func TestClassifyExpiry_IgnoresTimeOfDay(t *testing.T) {
	th := Thresholds{NearExpiryDays: 30}

	// An expiry late on the last window day still counts as near expiry even
	// when evaluated earlier in the day.
	today := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)
	expiry := time.Date(2024, 1, 31, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, ExpiryNear, th.ClassifyExpiry(&expiry, today))
}

func TestEvaluateStock(t *testing.T) {
	th := Thresholds{LowStock: 100, NearExpiryDays: 30}
	today := date("2024-01-01")

	products := []*repository.Product{
		{ID: "a", Name: "A", QuantityInStock: 0},
		{ID: "b", Name: "B", QuantityInStock: 50, ExpiryDate: datePtr("2023-12-31")},
		{ID: "c", Name: "C", QuantityInStock: 100, ExpiryDate: datePtr("2024-01-31")},
		{ID: "d", Name: "D", QuantityInStock: 150, ExpiryDate: datePtr("2024-06-01")},
	}

	stats := th.EvaluateStock(products, today)

	assert.Equal(t, 4, stats.TotalProducts)
	assert.Equal(t, 1, stats.OutOfStockCount)
	assert.Equal(t, 1, stats.LowStockCount)
	assert.Equal(t, 2, stats.InStockCount)
	assert.Equal(t, 1, stats.ExpiredCount)
	assert.Equal(t, 1, stats.NearExpiryCount)

	// Stock statuses partition the set
	assert.Equal(t, stats.TotalProducts,
		stats.OutOfStockCount+stats.LowStockCount+stats.InStockCount)

	// Counts match member slices
	assert.Len(t, stats.OutOfStock, stats.OutOfStockCount)
	assert.Len(t, stats.LowStock, stats.LowStockCount)
	assert.Len(t, stats.Expired, stats.ExpiredCount)
	assert.Len(t, stats.NearExpiry, stats.NearExpiryCount)

	assert.Equal(t, "a", stats.OutOfStock[0].ID)
	assert.Equal(t, "b", stats.LowStock[0].ID)
	assert.Equal(t, "b", stats.Expired[0].ID)
	assert.Equal(t, "c", stats.NearExpiry[0].ID)
}

func TestEvaluateStock_Empty(t *testing.T) {
	th := Thresholds{LowStock: 100, NearExpiryDays: 30}

	stats := th.EvaluateStock(nil, date("2024-01-01"))

	assert.Equal(t, 0, stats.TotalProducts)
	assert.Empty(t, stats.OutOfStock)
	assert.Empty(t, stats.LowStock)
	assert.Empty(t, stats.Expired)
	assert.Empty(t, stats.NearExpiry)
}

func TestClassifyExpiry_WindowMonotonicity(t *testing.T) {
	// Widening the window never removes a product from the near-expiry set:
	// everything near expiry under a 10-day window is still near expiry under
	// a 30-day window.
	narrow := Thresholds{NearExpiryDays: 10}
	wide := Thresholds{NearExpiryDays: 30}
	today := date("2024-01-01")

	expiries := []string{
		"2024-01-01", "2024-01-05", "2024-01-11", "2024-01-15",
		"2024-01-31", "2024-02-15",
	}

	for _, s := range expiries {
		if narrow.ClassifyExpiry(datePtr(s), today) == ExpiryNear {
			assert.Equal(t, ExpiryNear, wide.ClassifyExpiry(datePtr(s), today),
				"expiry %s near under 10 days but not under 30", s)
		}
	}
}

func TestEvaluateStock_WindowMonotonicity(t *testing.T) {
	narrow := Thresholds{LowStock: 100, NearExpiryDays: 10}
	wide := Thresholds{LowStock: 100, NearExpiryDays: 30}
	today := date("2024-01-01")

	products := []*repository.Product{
		{ID: "a", QuantityInStock: 10, ExpiryDate: datePtr("2024-01-05")},
		{ID: "b", QuantityInStock: 10, ExpiryDate: datePtr("2024-01-20")},
		{ID: "c", QuantityInStock: 10, ExpiryDate: datePtr("2024-03-01")},
		{ID: "d", QuantityInStock: 10},
	}

	small := narrow.EvaluateStock(products, today)
	large := wide.EvaluateStock(products, today)

	wideIDs := make(map[string]bool)
	for _, p := range large.NearExpiry {
		wideIDs[p.ID] = true
	}
	for _, p := range small.NearExpiry {
		assert.True(t, wideIDs[p.ID], "product %s near expiry under the narrow window only", p.ID)
	}
	assert.GreaterOrEqual(t, large.NearExpiryCount, small.NearExpiryCount)
}

func TestEvaluateStock_BothAxes(t *testing.T) {
	// A product can be low on stock and expired at the same time; the axes
	// are independent.
	th := Thresholds{LowStock: 100, NearExpiryDays: 30}
	today := date("2024-01-01")

	products := []*repository.Product{
		{ID: "x", QuantityInStock: 10, ExpiryDate: datePtr("2023-11-01")},
	}

	stats := th.EvaluateStock(products, today)

	assert.Equal(t, 1, stats.LowStockCount)
	assert.Equal(t, 1, stats.ExpiredCount)
}
