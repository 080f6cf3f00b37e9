package handler

import (
	"fmt"
	"net/http"

	"github.com/stocker/stocker-backend/internal/inventory/service"
	"github.com/stocker/stocker-backend/pkg/httputil"
	"github.com/stocker/stocker-backend/pkg/logger"
)

// ReportHandler handles report and export endpoints
type ReportHandler struct {
	service *service.ReportService
	logger  *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(svc *service.ReportService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		service: svc,
		logger:  log,
	}
}

// Inventory returns the inventory report as JSON
func (h *ReportHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.BuildInventoryReport(r.Context(), reportFilter(r))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, report)
}

// Suppliers returns the supplier report as JSON
func (h *ReportHandler) Suppliers(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.BuildSupplierReport(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, report)
}

// InventoryPDF streams the inventory report as a PDF download
func (h *ReportHandler) InventoryPDF(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.BuildInventoryReport(r.Context(), reportFilter(r))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	data, err := service.RenderInventoryPDF(report)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to render inventory PDF")
		httputil.Error(w, err)
		return
	}

	download(w, service.InventoryReportPDFName, "application/pdf", data)
}

// InventoryCSV streams the inventory report as a CSV download
func (h *ReportHandler) InventoryCSV(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.BuildInventoryReport(r.Context(), reportFilter(r))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	data, err := service.RenderInventoryCSV(report)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to render inventory CSV")
		httputil.Error(w, err)
		return
	}

	download(w, service.InventoryReportCSVName, "text/csv", data)
}

// SuppliersPDF streams the supplier report as a PDF download
func (h *ReportHandler) SuppliersPDF(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.BuildSupplierReport(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	data, err := service.RenderSupplierPDF(report)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to render supplier PDF")
		httputil.Error(w, err)
		return
	}

	download(w, service.SupplierReportPDFName, "application/pdf", data)
}

// SuppliersCSV streams the supplier report as a CSV download
func (h *ReportHandler) SuppliersCSV(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.BuildSupplierReport(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	data, err := service.RenderSupplierCSV(report)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to render supplier CSV")
		httputil.Error(w, err)
		return
	}

	download(w, service.SupplierReportCSVName, "text/csv", data)
}

func reportFilter(r *http.Request) service.InventoryReportFilter {
	return service.InventoryReportFilter{
		CategoryID: r.URL.Query().Get("category_id"),
		Status:     r.URL.Query().Get("status"),
		Search:     r.URL.Query().Get("search"),
	}
}

func download(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
