package service

import (
	"context"
	"testing"
	"time"

	"github.com/stocker/stocker-backend/internal/inventory/repository"
	"github.com/stocker/stocker-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSupplierCatalog struct {
	suppliers []*repository.Supplier
	links     []*repository.SupplierProduct
}

func (f *fakeSupplierCatalog) GetAll(ctx context.Context) ([]*repository.Supplier, error) {
	return f.suppliers, nil
}

func (f *fakeSupplierCatalog) GetAllLinks(ctx context.Context) ([]*repository.SupplierProduct, error) {
	return f.links, nil
}

func newTestReportService(products *fakeProducts, suppliers *fakeSupplierCatalog) *ReportService {
	s := NewReportService(
		products, suppliers,
		Thresholds{LowStock: 100, NearExpiryDays: 30},
		logger.New("test", "test"),
	)
	s.now = func() time.Time { return date("2024-01-01") }
	return s
}

func reportCatalog() *fakeProducts {
	analgesics := "cat-1"
	antibiotics := "cat-2"
	return &fakeProducts{products: []*repository.Product{
		{ID: "p1", Name: "Aspirin", SKU: "PRD-AAAA0001", CategoryID: &analgesics, QuantityInStock: 20},
		{ID: "p2", Name: "Ibuprofen", SKU: "PRD-BBBB0002", CategoryID: &analgesics, QuantityInStock: 500},
		{ID: "p3", Name: "Amoxicillin", SKU: "PRD-CCCC0003", CategoryID: &antibiotics, QuantityInStock: 0},
	}}
}

func TestBuildInventoryReport_SearchFilter(t *testing.T) {
	s := newTestReportService(reportCatalog(), &fakeSupplierCatalog{})

	report, err := s.BuildInventoryReport(context.Background(), InventoryReportFilter{Search: "asp"})
	require.NoError(t, err)

	require.Len(t, report.Products, 1)
	assert.Equal(t, "Aspirin", report.Products[0].Name)
}

func TestBuildInventoryReport_SearchMatchesSKU(t *testing.T) {
	s := newTestReportService(reportCatalog(), &fakeSupplierCatalog{})

	report, err := s.BuildInventoryReport(context.Background(), InventoryReportFilter{Search: "cccc"})
	require.NoError(t, err)

	require.Len(t, report.Products, 1)
	assert.Equal(t, "Amoxicillin", report.Products[0].Name)
}

func TestBuildInventoryReport_CountsFollowFilter(t *testing.T) {
	s := newTestReportService(reportCatalog(), &fakeSupplierCatalog{})

	report, err := s.BuildInventoryReport(context.Background(), InventoryReportFilter{CategoryID: "cat-1"})
	require.NoError(t, err)

	// The aggregate counts describe the filtered set, not the whole catalog.
	assert.Equal(t, 2, report.TotalProducts)
	assert.Equal(t, 1, report.LowStockCount)
	assert.Equal(t, 1, report.InStockCount)
	assert.Equal(t, 0, report.OutOfStockCount)
	assert.Len(t, report.Products, report.TotalProducts)
}

func TestBuildInventoryReport_Unfiltered(t *testing.T) {
	s := newTestReportService(reportCatalog(), &fakeSupplierCatalog{})

	report, err := s.BuildInventoryReport(context.Background(), InventoryReportFilter{})
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalProducts)
	assert.Equal(t, 1, report.OutOfStockCount)
	assert.Equal(t, 1, report.LowStockCount)
	assert.Equal(t, 1, report.InStockCount)
}

func TestBuildSupplierReport_CoverageCounts(t *testing.T) {
	products := reportCatalog()
	suppliers := &fakeSupplierCatalog{
		suppliers: []*repository.Supplier{{ID: "s1", Name: "Acme Pharma"}},
		links: []*repository.SupplierProduct{
			{ID: "l1", SupplierID: "s1", ProductID: "p1", IsActive: true},
			{ID: "l2", SupplierID: "s1", ProductID: "p3", IsActive: true},
		},
	}

	s := newTestReportService(products, suppliers)

	report, err := s.BuildSupplierReport(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Suppliers, 1)
	entry := report.Suppliers[0]
	assert.Equal(t, 2, entry.ProductCount)
	assert.Equal(t, 1, entry.LowStockCount)
	assert.Equal(t, 1, entry.OutOfStockCount)

	// p2 has no active link
	require.Len(t, report.UncoveredProducts, 1)
	assert.Equal(t, "p2", report.UncoveredProducts[0].ID)
}
