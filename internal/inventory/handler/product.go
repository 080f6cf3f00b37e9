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

// ProductHandler handles product endpoints
type ProductHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(svc *service.InventoryService, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  log,
	}
}

// ProductRequest is the create/update payload for a product
type ProductRequest struct {
	Name            string          `json:"name" validate:"required,max=200"`
	Description     *string         `json:"description,omitempty"`
	ImageURL        *string         `json:"image_url,omitempty" validate:"omitempty,url"`
	CategoryID      *string         `json:"category_id,omitempty" validate:"omitempty,uuid"`
	QuantityInStock int             `json:"quantity_in_stock" validate:"gte=0"`
	ExpiryDate      *string         `json:"expiry_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	BatchNumber     *string         `json:"batch_number,omitempty" validate:"omitempty,max=100"`
	DosageForm      string          `json:"dosage_form" validate:"required"`
	Strength        *string         `json:"strength,omitempty" validate:"omitempty,max=100"`
	Price           decimal.Decimal `json:"price"`
}

func (req *ProductRequest) toProduct() *repository.Product {
	p := &repository.Product{
		Name:            req.Name,
		Description:     req.Description,
		ImageURL:        req.ImageURL,
		CategoryID:      req.CategoryID,
		QuantityInStock: req.QuantityInStock,
		BatchNumber:     req.BatchNumber,
		DosageForm:      req.DosageForm,
		Strength:        req.Strength,
		Price:           req.Price,
	}
	if req.ExpiryDate != nil {
		if t, err := time.Parse("2006-01-02", *req.ExpiryDate); err == nil {
			p.ExpiryDate = &t
		}
	}
	return p
}

// List lists products with filtering
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	filter := repository.ProductFilter{
		CategoryID: r.URL.Query().Get("category_id"),
		Status:     r.URL.Query().Get("status"),
		Search:     r.URL.Query().Get("search"),
		Page:       page,
		PerPage:    perPage,
	}

	products, total, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, products, httputil.NewMeta(page, perPage, total))
}

// Get gets a product with its recent movements and supplier links
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.service.GetProductDetail(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, product)
}

// GetBySKU gets a product by SKU
func (h *ProductHandler) GetBySKU(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")

	product, err := h.service.GetProductBySKU(r.Context(), sku)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, product)
}

// Create creates a new product
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), req.toProduct())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, product)
}

// Update updates a product's descriptive fields
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ProductRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	product := req.toProduct()
	product.ID = id

	updated, err := h.service.UpdateProduct(r.Context(), product)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, updated)
}

// Delete deletes a product
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

// ListSuppliers lists the suppliers linked to a product
func (h *ProductHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	links, err := h.service.ListProductSuppliers(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, links)
}
