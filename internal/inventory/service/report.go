package service

import (
	"context"
	"strings"
	"time"

	"github.com/stocker/stocker-backend/internal/inventory/repository"
	"github.com/stocker/stocker-backend/pkg/logger"
)

// SupplierCatalog loads the supplier set the supplier report aggregates
type SupplierCatalog interface {
	GetAll(ctx context.Context) ([]*repository.Supplier, error)
	GetAllLinks(ctx context.Context) ([]*repository.SupplierProduct, error)
}

// ReportService assembles inventory and supplier reports
type ReportService struct {
	products   ProductLister
	suppliers  SupplierCatalog
	thresholds Thresholds
	logger     *logger.Logger
	now        func() time.Time
}

// NewReportService creates a new report service
func NewReportService(
	products ProductLister,
	suppliers SupplierCatalog,
	thresholds Thresholds,
	log *logger.Logger,
) *ReportService {
	return &ReportService{
		products:   products,
		suppliers:  suppliers,
		thresholds: thresholds,
		logger:     log,
		now:        time.Now,
	}
}

// InventoryReport is a point-in-time snapshot of the catalog. The aggregate
// counts describe the products the report includes, so a filtered report
// counts only the filtered set.
type InventoryReport struct {
	GeneratedAt       time.Time            `json:"generated_at"`
	LowStockThreshold int                  `json:"low_stock_threshold"`
	NearExpiryDays    int                  `json:"near_expiry_days"`
	TotalProducts     int                  `json:"total_products"`
	OutOfStockCount   int                  `json:"out_of_stock_count"`
	LowStockCount     int                  `json:"low_stock_count"`
	InStockCount      int                  `json:"in_stock_count"`
	ExpiredCount      int                  `json:"expired_count"`
	NearExpiryCount   int                  `json:"near_expiry_count"`
	Products          []*ProductWithStatus `json:"products"`
}

// InventoryReportFilter narrows the report to a category, a status or a
// free-text name/SKU search
type InventoryReportFilter struct {
	CategoryID string
	Status     string
	Search     string
}

func (f InventoryReportFilter) matches(p *repository.Product) bool {
	if f.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != f.CategoryID) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.SKU), needle) {
			return false
		}
	}
	return true
}

// BuildInventoryReport assembles an inventory report, optionally filtered
func (s *ReportService) BuildInventoryReport(ctx context.Context, filter InventoryReportFilter) (*InventoryReport, error) {
	now := s.now()

	products, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &InventoryReport{
		GeneratedAt:       now,
		LowStockThreshold: s.thresholds.LowStock,
		NearExpiryDays:    s.thresholds.NearExpiryDays,
	}

	for _, p := range products {
		if !filter.matches(p) {
			continue
		}

		stockStatus := s.thresholds.ClassifyStock(p.QuantityInStock)
		expiryStatus := s.thresholds.ClassifyExpiry(p.ExpiryDate, now)

		if filter.Status != "" && filter.Status != stockStatus && filter.Status != expiryStatus {
			continue
		}

		report.TotalProducts++
		switch stockStatus {
		case StockOutOfStock:
			report.OutOfStockCount++
		case StockLow:
			report.LowStockCount++
		default:
			report.InStockCount++
		}
		switch expiryStatus {
		case ExpiryExpired:
			report.ExpiredCount++
		case ExpiryNear:
			report.NearExpiryCount++
		}

		report.Products = append(report.Products, &ProductWithStatus{
			Product:      p,
			StockStatus:  stockStatus,
			ExpiryStatus: expiryStatus,
		})
	}

	return report, nil
}

// SupplierReport lists suppliers with their product links plus the products
// no active supplier covers
type SupplierReport struct {
	GeneratedAt       time.Time              `json:"generated_at"`
	TotalSuppliers    int                    `json:"total_suppliers"`
	TotalLinks        int                    `json:"total_links"`
	Suppliers         []*SupplierReportEntry `json:"suppliers"`
	UncoveredProducts []*repository.Product  `json:"uncovered_products"`
}

// SupplierReportEntry pairs a supplier's links with the stock standing of the
// products those links cover
type SupplierReportEntry struct {
	*SupplierWithLinks
	ProductCount    int `json:"product_count"`
	OutOfStockCount int `json:"out_of_stock_count"`
	LowStockCount   int `json:"low_stock_count"`
	ExpiredCount    int `json:"expired_count"`
	NearExpiryCount int `json:"near_expiry_count"`
}

// BuildSupplierReport assembles a supplier coverage report
func (s *ReportService) BuildSupplierReport(ctx context.Context) (*SupplierReport, error) {
	now := s.now()

	suppliers, err := s.suppliers.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	links, err := s.suppliers.GetAllLinks(ctx)
	if err != nil {
		return nil, err
	}

	products, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[string]*repository.Product, len(products))
	for _, p := range products {
		byProduct[p.ID] = p
	}

	bySupplier := make(map[string][]*repository.SupplierProduct)
	covered := make(map[string]bool)
	for _, link := range links {
		bySupplier[link.SupplierID] = append(bySupplier[link.SupplierID], link)
		if link.IsActive {
			covered[link.ProductID] = true
		}
	}

	report := &SupplierReport{
		GeneratedAt:    now,
		TotalSuppliers: len(suppliers),
		TotalLinks:     len(links),
	}

	for _, supplier := range suppliers {
		entry := &SupplierReportEntry{
			SupplierWithLinks: &SupplierWithLinks{
				Supplier: supplier,
				Products: bySupplier[supplier.ID],
			},
		}

		for _, link := range entry.Products {
			p, ok := byProduct[link.ProductID]
			if !ok {
				continue
			}
			entry.ProductCount++

			switch s.thresholds.ClassifyStock(p.QuantityInStock) {
			case StockOutOfStock:
				entry.OutOfStockCount++
			case StockLow:
				entry.LowStockCount++
			}
			switch s.thresholds.ClassifyExpiry(p.ExpiryDate, now) {
			case ExpiryExpired:
				entry.ExpiredCount++
			case ExpiryNear:
				entry.NearExpiryCount++
			}
		}

		report.Suppliers = append(report.Suppliers, entry)
	}

	for _, p := range products {
		if !covered[p.ID] {
			report.UncoveredProducts = append(report.UncoveredProducts, p)
		}
	}

	return report, nil
}
