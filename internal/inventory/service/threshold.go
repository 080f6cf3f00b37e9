package service

import (
	"time"

	"github.com/stocker/stocker-backend/internal/inventory/repository"
)

// Stock statuses
const (
	StockOutOfStock = "out_of_stock"
	StockLow        = "low_stock"
	StockIn         = "in_stock"
)

// Expiry statuses
const (
	ExpiryExpired = "expired"
	ExpiryNear    = "near_expiry"
	ExpiryOK      = "ok"
	ExpiryNone    = "none"
)

// Thresholds holds the alerting limits. Values come from configuration, not
// from the database, so one deployment applies one policy uniformly.
type Thresholds struct {
	LowStock       int
	NearExpiryDays int
}

// ClassifyStock assigns exactly one stock status to a quantity. A quantity of
// zero is out of stock, never low stock.
func (t Thresholds) ClassifyStock(quantity int) string {
	switch {
	case quantity == 0:
		return StockOutOfStock
	case quantity < t.LowStock:
		return StockLow
	default:
		return StockIn
	}
}

// ClassifyExpiry assigns an expiry status relative to today. The near-expiry
// window includes both today and the day exactly NearExpiryDays out. Dates
// are compared at day granularity.
func (t Thresholds) ClassifyExpiry(expiryDate *time.Time, today time.Time) string {
	if expiryDate == nil {
		return ExpiryNone
	}

	day := truncateDay(today)
	expiry := truncateDay(*expiryDate)

	if expiry.Before(day) {
		return ExpiryExpired
	}
	windowEnd := day.AddDate(0, 0, t.NearExpiryDays)
	if !expiry.After(windowEnd) {
		return ExpiryNear
	}
	return ExpiryOK
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StockStats is the result of evaluating a product set against the
// thresholds. Counts always match the lengths of the member slices.
type StockStats struct {
	TotalProducts   int `json:"total_products"`
	OutOfStockCount int `json:"out_of_stock_count"`
	LowStockCount   int `json:"low_stock_count"`
	InStockCount    int `json:"in_stock_count"`
	ExpiredCount    int `json:"expired_count"`
	NearExpiryCount int `json:"near_expiry_count"`

	OutOfStock []*repository.Product `json:"out_of_stock"`
	LowStock   []*repository.Product `json:"low_stock"`
	Expired    []*repository.Product `json:"expired"`
	NearExpiry []*repository.Product `json:"near_expiry"`
}

// EvaluateStock classifies every product on both axes. The stock statuses
// partition the set; the expiry statuses apply only to products carrying an
// expiry date.
func (t Thresholds) EvaluateStock(products []*repository.Product, today time.Time) *StockStats {
	stats := &StockStats{TotalProducts: len(products)}

	for _, p := range products {
		switch t.ClassifyStock(p.QuantityInStock) {
		case StockOutOfStock:
			stats.OutOfStockCount++
			stats.OutOfStock = append(stats.OutOfStock, p)
		case StockLow:
			stats.LowStockCount++
			stats.LowStock = append(stats.LowStock, p)
		default:
			stats.InStockCount++
		}

		switch t.ClassifyExpiry(p.ExpiryDate, today) {
		case ExpiryExpired:
			stats.ExpiredCount++
			stats.Expired = append(stats.Expired, p)
		case ExpiryNear:
			stats.NearExpiryCount++
			stats.NearExpiry = append(stats.NearExpiry, p)
		}
	}

	return stats
}
