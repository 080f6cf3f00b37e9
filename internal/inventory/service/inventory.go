package service

import (
	"context"
	"time"

	"github.com/stocker/stocker-backend/internal/inventory/events"
	"github.com/stocker/stocker-backend/internal/inventory/repository"
	"github.com/stocker/stocker-backend/pkg/actor"
	"github.com/stocker/stocker-backend/pkg/errors"
	"github.com/stocker/stocker-backend/pkg/logger"
)

// InventoryService handles inventory business logic
type InventoryService struct {
	productRepo  *repository.ProductRepository
	categoryRepo *repository.CategoryRepository
	supplierRepo *repository.SupplierRepository
	movementRepo *repository.MovementRepository
	publisher    *events.InventoryEventPublisher
	dispatcher   *AlertDispatcher
	thresholds   Thresholds
	logger       *logger.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	productRepo *repository.ProductRepository,
	categoryRepo *repository.CategoryRepository,
	supplierRepo *repository.SupplierRepository,
	movementRepo *repository.MovementRepository,
	publisher *events.InventoryEventPublisher,
	dispatcher *AlertDispatcher,
	thresholds Thresholds,
	log *logger.Logger,
) *InventoryService {
	return &InventoryService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		movementRepo: movementRepo,
		publisher:    publisher,
		dispatcher:   dispatcher,
		thresholds:   thresholds,
		logger:       log,
	}
}

// ProductWithStatus is a product annotated with its stock and expiry status
type ProductWithStatus struct {
	*repository.Product
	StockStatus  string `json:"stock_status"`
	ExpiryStatus string `json:"expiry_status"`
}

func (s *InventoryService) enrichProduct(p *repository.Product) *ProductWithStatus {
	return &ProductWithStatus{
		Product:      p,
		StockStatus:  s.thresholds.ClassifyStock(p.QuantityInStock),
		ExpiryStatus: s.thresholds.ClassifyExpiry(p.ExpiryDate, time.Now()),
	}
}

// Product operations

// CreateProduct creates a product and re-evaluates alerts, since a product
// can enter the catalog already below the threshold or past its expiry date.
func (s *InventoryService) CreateProduct(ctx context.Context, product *repository.Product) (*ProductWithStatus, error) {
	if !repository.ValidDosageForm(product.DosageForm) {
		return nil, errors.BadRequest("invalid dosage form")
	}
	if product.QuantityInStock < 0 {
		return nil, errors.BadRequest("quantity cannot be negative")
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.publisher.PublishProductCreated(ctx, product)
	s.dispatcher.Dispatch(ctx)

	return s.enrichProduct(product), nil
}

// GetProduct gets a product by ID
func (s *InventoryService) GetProduct(ctx context.Context, id string) (*ProductWithStatus, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.enrichProduct(product), nil
}

// ProductDetail is a product with its recent ledger entries and supplier links
type ProductDetail struct {
	*ProductWithStatus
	RecentMovements []*repository.StockMovement   `json:"recent_movements"`
	SupplierLinks   []*repository.SupplierProduct `json:"supplier_links"`
}

// GetProductDetail gets a product with its ten most recent ledger entries and
// its supplier links
func (s *InventoryService) GetProductDetail(ctx context.Context, id string) (*ProductDetail, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	movements, _, err := s.movementRepo.ListByProduct(ctx, id, 1, 10)
	if err != nil {
		return nil, err
	}

	links, err := s.supplierRepo.ListLinksByProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ProductDetail{
		ProductWithStatus: product,
		RecentMovements:   movements,
		SupplierLinks:     links,
	}, nil
}

// GetProductBySKU gets a product by its SKU
func (s *InventoryService) GetProductBySKU(ctx context.Context, sku string) (*ProductWithStatus, error) {
	product, err := s.productRepo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	return s.enrichProduct(product), nil
}

// ListProducts lists products with filtering and pagination
func (s *InventoryService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]*ProductWithStatus, int64, error) {
	filter.LowStockThreshold = s.thresholds.LowStock
	filter.NearExpiryDays = s.thresholds.NearExpiryDays
	filter.Today = time.Now()

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*ProductWithStatus, len(products))
	for i, p := range products {
		result[i] = s.enrichProduct(p)
	}
	return result, total, nil
}

// UpdateProduct updates a product's descriptive fields. The SKU and the
// stock quantity are not touched here; quantity changes go through
// UpdateStock so the ledger stays complete.
func (s *InventoryService) UpdateProduct(ctx context.Context, product *repository.Product) (*ProductWithStatus, error) {
	if !repository.ValidDosageForm(product.DosageForm) {
		return nil, errors.BadRequest("invalid dosage form")
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	updated, err := s.productRepo.GetByID(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	return s.enrichProduct(updated), nil
}

// DeleteProduct deletes a product and its dependent rows
func (s *InventoryService) DeleteProduct(ctx context.Context, id string) error {
	return s.productRepo.Delete(ctx, id)
}

// Stock operations

// UpdateStockInput carries a stock transition request
type UpdateStockInput struct {
	MovementType string  `json:"movement_type" validate:"required,oneof=restock sale adjustment return"`
	NewQuantity  int     `json:"new_quantity" validate:"gte=0"`
	Reason       *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// UpdateStock records a stock transition through the ledger and re-evaluates
// alerts. Validation happens before any write.
func (s *InventoryService) UpdateStock(ctx context.Context, productID string, input UpdateStockInput) (*repository.StockMovement, error) {
	if !repository.ValidMovementType(input.MovementType) {
		return nil, errors.BadRequest("invalid movement type")
	}
	if input.NewQuantity < 0 {
		return nil, errors.BadRequest("quantity cannot be negative")
	}

	mv := &repository.StockMovement{
		ProductID:    productID,
		MovementType: input.MovementType,
		NewQuantity:  input.NewQuantity,
		Reason:       input.Reason,
	}
	if act := actor.FromContext(ctx); act != nil {
		mv.PerformedBy = &act.ID
		if act.Name != "" {
			name := act.Name
			mv.PerformedByName = &name
		}
	}

	if err := s.movementRepo.Record(ctx, mv); err != nil {
		return nil, err
	}

	s.publisher.PublishStockRecorded(ctx, mv)
	s.dispatcher.Dispatch(ctx)

	return mv, nil
}

// ListMovements lists ledger entries across all products
func (s *InventoryService) ListMovements(ctx context.Context, movementType string, page, perPage int) ([]*repository.StockMovement, int64, error) {
	if movementType != "" && !repository.ValidMovementType(movementType) {
		return nil, 0, errors.BadRequest("invalid movement type")
	}
	return s.movementRepo.List(ctx, movementType, page, perPage)
}

// ListMovementsByProduct lists a product's ledger entries
func (s *InventoryService) ListMovementsByProduct(ctx context.Context, productID string, page, perPage int) ([]*repository.StockMovement, int64, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, 0, err
	}
	return s.movementRepo.ListByProduct(ctx, productID, page, perPage)
}

// StockStatus evaluates the whole catalog against the thresholds
func (s *InventoryService) StockStatus(ctx context.Context) (*StockStats, error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.thresholds.EvaluateStock(products, time.Now()), nil
}

// Category operations

// CreateCategory creates a category
func (s *InventoryService) CreateCategory(ctx context.Context, category *repository.Category) error {
	return s.categoryRepo.Create(ctx, category)
}

// GetCategory gets a category by ID
func (s *InventoryService) GetCategory(ctx context.Context, id string) (*repository.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

// ListCategories lists all categories with product counts
func (s *InventoryService) ListCategories(ctx context.Context) ([]*repository.Category, error) {
	return s.categoryRepo.List(ctx)
}

// UpdateCategory updates a category
func (s *InventoryService) UpdateCategory(ctx context.Context, category *repository.Category) error {
	return s.categoryRepo.Update(ctx, category)
}

// DeleteCategory deletes a category. Products keep existing with their
// category cleared.
func (s *InventoryService) DeleteCategory(ctx context.Context, id string) error {
	return s.categoryRepo.Delete(ctx, id)
}

// Supplier operations

// CreateSupplier creates a supplier
func (s *InventoryService) CreateSupplier(ctx context.Context, supplier *repository.Supplier) error {
	return s.supplierRepo.Create(ctx, supplier)
}

// GetSupplier gets a supplier with its product links
func (s *InventoryService) GetSupplier(ctx context.Context, id string) (*SupplierWithLinks, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	links, err := s.supplierRepo.ListLinksBySupplier(ctx, id)
	if err != nil {
		return nil, err
	}

	return &SupplierWithLinks{Supplier: supplier, Products: links}, nil
}

// SupplierWithLinks is a supplier together with its product links
type SupplierWithLinks struct {
	*repository.Supplier
	Products []*repository.SupplierProduct `json:"products"`
}

// ListSuppliers lists suppliers with pagination
func (s *InventoryService) ListSuppliers(ctx context.Context, search string, page, perPage int) ([]*repository.Supplier, int64, error) {
	return s.supplierRepo.List(ctx, search, page, perPage)
}

// UpdateSupplier updates a supplier
func (s *InventoryService) UpdateSupplier(ctx context.Context, supplier *repository.Supplier) error {
	return s.supplierRepo.Update(ctx, supplier)
}

// DeleteSupplier deletes a supplier. Its product links go with it; the
// products themselves stay.
func (s *InventoryService) DeleteSupplier(ctx context.Context, id string) error {
	return s.supplierRepo.Delete(ctx, id)
}

// Supplier-product link operations

// LinkSupplierProduct creates a supplier-product link
func (s *InventoryService) LinkSupplierProduct(ctx context.Context, link *repository.SupplierProduct) (*repository.SupplierProduct, error) {
	if link.LeadTimeDays < 0 {
		return nil, errors.BadRequest("lead time cannot be negative")
	}
	if link.MinimumOrderQty < 0 {
		return nil, errors.BadRequest("minimum order quantity cannot be negative")
	}

	if err := s.supplierRepo.LinkProduct(ctx, link); err != nil {
		return nil, err
	}
	return s.supplierRepo.GetLink(ctx, link.ID)
}

// GetSupplierProductLink gets a link by ID
func (s *InventoryService) GetSupplierProductLink(ctx context.Context, id string) (*repository.SupplierProduct, error) {
	return s.supplierRepo.GetLink(ctx, id)
}

// UpdateSupplierProductLink updates a link's terms
func (s *InventoryService) UpdateSupplierProductLink(ctx context.Context, link *repository.SupplierProduct) (*repository.SupplierProduct, error) {
	if link.LeadTimeDays < 0 {
		return nil, errors.BadRequest("lead time cannot be negative")
	}
	if link.MinimumOrderQty < 0 {
		return nil, errors.BadRequest("minimum order quantity cannot be negative")
	}

	if err := s.supplierRepo.UpdateLink(ctx, link); err != nil {
		return nil, err
	}
	return s.supplierRepo.GetLink(ctx, link.ID)
}

// ToggleSupplierProductLink flips a link's active flag and returns the new state
func (s *InventoryService) ToggleSupplierProductLink(ctx context.Context, id string) (bool, error) {
	return s.supplierRepo.ToggleLink(ctx, id)
}

// UnlinkSupplierProduct removes a supplier-product link
func (s *InventoryService) UnlinkSupplierProduct(ctx context.Context, id string) error {
	return s.supplierRepo.UnlinkProduct(ctx, id)
}

// ListProductSuppliers lists the suppliers linked to a product
func (s *InventoryService) ListProductSuppliers(ctx context.Context, productID string) ([]*repository.SupplierProduct, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.supplierRepo.ListLinksByProduct(ctx, productID)
}
