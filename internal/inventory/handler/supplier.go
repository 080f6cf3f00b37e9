package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stocker/stocker-backend/internal/inventory/repository"
	"github.com/stocker/stocker-backend/internal/inventory/service"
	"github.com/stocker/stocker-backend/pkg/httputil"
	"github.com/stocker/stocker-backend/pkg/logger"
)

// SupplierHandler handles supplier and supplier-product link endpoints
type SupplierHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewSupplierHandler creates a new supplier handler
func NewSupplierHandler(svc *service.InventoryService, log *logger.Logger) *SupplierHandler {
	return &SupplierHandler{
		service: svc,
		logger:  log,
	}
}

// SupplierRequest is the create/update payload for a supplier
type SupplierRequest struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Website *string `json:"website,omitempty" validate:"omitempty,url"`
	LogoURL *string `json:"logo_url,omitempty" validate:"omitempty,url"`
}

// LinkRequest is the create/update payload for a supplier-product link
type LinkRequest struct {
	ProductID       string          `json:"product_id" validate:"required,uuid"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	LeadTimeDays    int             `json:"lead_time_days" validate:"gte=0"`
	LastSuppliedAt  *string         `json:"last_supplied_at,omitempty" validate:"omitempty,datetime=2006-01-02"`
	IsActive        *bool           `json:"is_active,omitempty"`
	MinimumOrderQty int             `json:"minimum_order_qty" validate:"gte=0"`
}

// LinkUpdateRequest is the update payload for a link's terms
type LinkUpdateRequest struct {
	UnitCost        decimal.Decimal `json:"unit_cost"`
	LeadTimeDays    int             `json:"lead_time_days" validate:"gte=0"`
	LastSuppliedAt  *string         `json:"last_supplied_at,omitempty" validate:"omitempty,datetime=2006-01-02"`
	IsActive        *bool           `json:"is_active,omitempty"`
	MinimumOrderQty int             `json:"minimum_order_qty" validate:"gte=0"`
}

// List lists suppliers
func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	search := r.URL.Query().Get("search")

	suppliers, total, err := h.service.ListSuppliers(r.Context(), search, page, perPage)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, suppliers, httputil.NewMeta(page, perPage, total))
}

// Get gets a supplier with its product links
func (h *SupplierHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	supplier, err := h.service.GetSupplier(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, supplier)
}

// Create creates a new supplier
func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SupplierRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	supplier := &repository.Supplier{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Website: req.Website,
		LogoURL: req.LogoURL,
	}
	if err := h.service.CreateSupplier(r.Context(), supplier); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, supplier)
}

// Update updates a supplier
func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req SupplierRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	supplier := &repository.Supplier{
		ID:      id,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Website: req.Website,
		LogoURL: req.LogoURL,
	}
	if err := h.service.UpdateSupplier(r.Context(), supplier); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, supplier)
}

// Delete deletes a supplier and its product links
func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteSupplier(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

// LinkProduct links a product to a supplier
func (h *SupplierHandler) LinkProduct(w http.ResponseWriter, r *http.Request) {
	supplierID := chi.URLParam(r, "id")

	var req LinkRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	link := &repository.SupplierProduct{
		SupplierID:      supplierID,
		ProductID:       req.ProductID,
		UnitCost:        req.UnitCost,
		LeadTimeDays:    req.LeadTimeDays,
		IsActive:        true,
		MinimumOrderQty: req.MinimumOrderQty,
	}
	if req.IsActive != nil {
		link.IsActive = *req.IsActive
	}
	if req.LastSuppliedAt != nil {
		if t, err := time.Parse("2006-01-02", *req.LastSuppliedAt); err == nil {
			link.LastSuppliedAt = &t
		}
	}

	created, err := h.service.LinkSupplierProduct(r.Context(), link)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, created)
}

// GetLink gets a supplier-product link by ID
func (h *SupplierHandler) GetLink(w http.ResponseWriter, r *http.Request) {
	linkID := chi.URLParam(r, "linkID")

	link, err := h.service.GetSupplierProductLink(r.Context(), linkID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, link)
}

// UpdateLink updates a supplier-product link's terms
func (h *SupplierHandler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	linkID := chi.URLParam(r, "linkID")

	var req LinkUpdateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	link := &repository.SupplierProduct{
		ID:              linkID,
		UnitCost:        req.UnitCost,
		LeadTimeDays:    req.LeadTimeDays,
		MinimumOrderQty: req.MinimumOrderQty,
	}
	if req.IsActive != nil {
		link.IsActive = *req.IsActive
	}
	if req.LastSuppliedAt != nil {
		if t, err := time.Parse("2006-01-02", *req.LastSuppliedAt); err == nil {
			link.LastSuppliedAt = &t
		}
	}

	updated, err := h.service.UpdateSupplierProductLink(r.Context(), link)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, updated)
}

// ToggleLink flips a link's active flag
func (h *SupplierHandler) ToggleLink(w http.ResponseWriter, r *http.Request) {
	linkID := chi.URLParam(r, "linkID")

	active, err := h.service.ToggleSupplierProductLink(r.Context(), linkID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]bool{"is_active": active})
}

// UnlinkProduct removes a supplier-product link
func (h *SupplierHandler) UnlinkProduct(w http.ResponseWriter, r *http.Request) {
	linkID := chi.URLParam(r, "linkID")

	if err := h.service.UnlinkSupplierProduct(r.Context(), linkID); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
