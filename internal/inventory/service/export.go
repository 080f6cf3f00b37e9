package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"
)

// Fixed filenames for report downloads
const (
	InventoryReportPDFName = "inventory_report.pdf"
	InventoryReportCSVName = "inventory_report.csv"
	SupplierReportPDFName  = "supplier_report.pdf"
	SupplierReportCSVName  = "supplier_report.csv"
)

// RenderInventoryPDF renders an inventory report as a PDF document
func RenderInventoryPDF(report *InventoryReport) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Inventory Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Inventory Report")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s", report.GeneratedAt.Format("2006-01-02 15:04")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf(
		"Products: %d   In stock: %d   Low stock: %d   Out of stock: %d   Near expiry: %d   Expired: %d",
		report.TotalProducts, report.InStockCount, report.LowStockCount,
		report.OutOfStockCount, report.NearExpiryCount, report.ExpiredCount))
	pdf.Ln(10)

	headers := []string{"SKU", "Name", "Category", "Qty", "Stock status", "Expiry", "Expiry status", "Price"}
	widths := []float64{28, 62, 38, 16, 28, 24, 28, 22}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, p := range report.Products {
		category := ""
		if p.CategoryName != nil {
			category = *p.CategoryName
		}
		expiry := ""
		if p.ExpiryDate != nil {
			expiry = p.ExpiryDate.Format("2006-01-02")
		}
		expiryStatus := p.ExpiryStatus
		if expiryStatus == ExpiryNone {
			expiryStatus = ""
		}

		row := []string{
			p.SKU, p.Name, category,
			strconv.Itoa(p.QuantityInStock), p.StockStatus,
			expiry, expiryStatus, p.Price.StringFixed(2),
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderInventoryCSV renders an inventory report as CSV
func RenderInventoryCSV(report *InventoryReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"sku", "name", "category", "quantity_in_stock", "stock_status", "expiry_date", "expiry_status", "price"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, p := range report.Products {
		category := ""
		if p.CategoryName != nil {
			category = *p.CategoryName
		}
		expiry := ""
		if p.ExpiryDate != nil {
			expiry = p.ExpiryDate.Format("2006-01-02")
		}
		expiryStatus := p.ExpiryStatus
		if expiryStatus == ExpiryNone {
			expiryStatus = ""
		}

		record := []string{
			p.SKU, p.Name, category,
			strconv.Itoa(p.QuantityInStock), p.StockStatus,
			expiry, expiryStatus, p.Price.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderSupplierPDF renders a supplier report as a PDF document
func RenderSupplierPDF(report *SupplierReport) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Supplier Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Supplier Report")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s", report.GeneratedAt.Format("2006-01-02 15:04")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Suppliers: %d   Product links: %d   Uncovered products: %d",
		report.TotalSuppliers, report.TotalLinks, len(report.UncoveredProducts)))
	pdf.Ln(10)

	widths := []float64{58, 28, 24, 20, 18, 18}
	headers := []string{"Product", "SKU", "Unit cost", "Lead time", "Min qty", "Active"}

	for _, supplier := range report.Suppliers {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 8, supplier.Name)
		pdf.Ln(7)

		pdf.SetFont("Helvetica", "", 8)
		pdf.Cell(0, 5, fmt.Sprintf(
			"Covers %d products   Out of stock: %d   Low stock: %d   Expired: %d   Near expiry: %d",
			supplier.ProductCount, supplier.OutOfStockCount, supplier.LowStockCount,
			supplier.ExpiredCount, supplier.NearExpiryCount))
		pdf.Ln(6)

		if len(supplier.Products) == 0 {
			pdf.SetFont("Helvetica", "I", 8)
			pdf.Cell(0, 6, "No linked products")
			pdf.Ln(8)
			continue
		}

		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 6, h, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 8)
		for _, link := range supplier.Products {
			name, sku := "", ""
			if link.ProductName != nil {
				name = *link.ProductName
			}
			if link.ProductSKU != nil {
				sku = *link.ProductSKU
			}
			active := "no"
			if link.IsActive {
				active = "yes"
			}

			row := []string{
				name, sku, link.UnitCost.StringFixed(2),
				fmt.Sprintf("%d d", link.LeadTimeDays),
				strconv.Itoa(link.MinimumOrderQty), active,
			}
			for i, cell := range row {
				pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}

	if len(report.UncoveredProducts) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 8, "Products without an active supplier")
		pdf.Ln(7)

		pdf.SetFont("Helvetica", "", 8)
		for _, p := range report.UncoveredProducts {
			pdf.Cell(0, 5, fmt.Sprintf("- %s (%s)", p.Name, p.SKU))
			pdf.Ln(5)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderSupplierCSV renders a supplier report as CSV, one row per link
func RenderSupplierCSV(report *SupplierReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"supplier", "product", "sku", "unit_cost", "lead_time_days", "minimum_order_qty", "is_active"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, supplier := range report.Suppliers {
		for _, link := range supplier.Products {
			name, sku := "", ""
			if link.ProductName != nil {
				name = *link.ProductName
			}
			if link.ProductSKU != nil {
				sku = *link.ProductSKU
			}

			record := []string{
				supplier.Name, name, sku,
				link.UnitCost.StringFixed(2),
				strconv.Itoa(link.LeadTimeDays),
				strconv.Itoa(link.MinimumOrderQty),
				strconv.FormatBool(link.IsActive),
			}
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
