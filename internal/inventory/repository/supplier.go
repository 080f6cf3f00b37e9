package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stocker/stocker-backend/pkg/database"
	"github.com/stocker/stocker-backend/pkg/errors"
)

// Supplier represents a product supplier
type Supplier struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Website   *string   `db:"website" json:"website,omitempty"`
	LogoURL   *string   `db:"logo_url" json:"logo_url,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SupplierProduct links a supplier to a product with supply terms
type SupplierProduct struct {
	ID              string          `db:"id" json:"id"`
	SupplierID      string          `db:"supplier_id" json:"supplier_id"`
	ProductID       string          `db:"product_id" json:"product_id"`
	UnitCost        decimal.Decimal `db:"unit_cost" json:"unit_cost"`
	LeadTimeDays    int             `db:"lead_time_days" json:"lead_time_days"`
	LastSuppliedAt  *time.Time      `db:"last_supplied_at" json:"last_supplied_at,omitempty"`
	IsActive        bool            `db:"is_active" json:"is_active"`
	MinimumOrderQty int             `db:"minimum_order_qty" json:"minimum_order_qty"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`

	// Joined in by read queries
	ProductName  *string `db:"product_name" json:"product_name,omitempty"`
	ProductSKU   *string `db:"product_sku" json:"product_sku,omitempty"`
	SupplierName *string `db:"supplier_name" json:"supplier_name,omitempty"`
}

// SupplierRepository handles supplier and supplier-product persistence
type SupplierRepository struct {
	db *database.DB
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db *database.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

// Create creates a new supplier
func (r *SupplierRepository) Create(ctx context.Context, supplier *Supplier) error {
	if supplier.ID == "" {
		supplier.ID = uuid.New().String()
	}

	query := `
		INSERT INTO suppliers (id, name, email, phone, website, logo_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		supplier.ID, supplier.Name, supplier.Email, supplier.Phone,
		supplier.Website, supplier.LogoURL,
	).Scan(&supplier.CreatedAt, &supplier.UpdatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	return nil
}

// GetByID gets a supplier by ID
func (r *SupplierRepository) GetByID(ctx context.Context, id string) (*Supplier, error) {
	var supplier Supplier

	query := `
		SELECT id, name, email, phone, website, logo_url, created_at, updated_at
		FROM suppliers WHERE id = $1
	`

	err := r.db.GetContext(ctx, &supplier, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("supplier")
	}
	if err != nil {
		return nil, err
	}

	return &supplier, nil
}

// List lists suppliers with optional name search and pagination
func (r *SupplierRepository) List(ctx context.Context, search string, page, perPage int) ([]*Supplier, int64, error) {
	var total int64
	var suppliers []*Supplier

	countQuery := `SELECT COUNT(*) FROM suppliers`
	query := `
		SELECT id, name, email, phone, website, logo_url, created_at, updated_at
		FROM suppliers
	`
	args := []interface{}{}

	if search != "" {
		countQuery += ` WHERE name ILIKE $1`
		query += ` WHERE name ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	query += ` ORDER BY name`
	if search != "" {
		query += ` LIMIT $2 OFFSET $3`
	} else {
		query += ` LIMIT $1 OFFSET $2`
	}
	args = append(args, perPage, offset)

	if err := r.db.SelectContext(ctx, &suppliers, query, args...); err != nil {
		return nil, 0, err
	}

	return suppliers, total, nil
}

// GetAll returns every supplier, for report aggregation
func (r *SupplierRepository) GetAll(ctx context.Context) ([]*Supplier, error) {
	var suppliers []*Supplier

	query := `
		SELECT id, name, email, phone, website, logo_url, created_at, updated_at
		FROM suppliers ORDER BY name
	`

	if err := r.db.SelectContext(ctx, &suppliers, query); err != nil {
		return nil, err
	}

	return suppliers, nil
}

// Update updates a supplier
func (r *SupplierRepository) Update(ctx context.Context, supplier *Supplier) error {
	query := `
		UPDATE suppliers SET
			name = $2, email = $3, phone = $4, website = $5, logo_url = $6,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		supplier.ID, supplier.Name, supplier.Email, supplier.Phone,
		supplier.Website, supplier.LogoURL,
	)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("supplier")
	}

	return nil
}

// Delete removes a supplier. Its supplier-product links are removed by
// cascade; linked products themselves are left intact.
func (r *SupplierRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("supplier")
	}

	return nil
}

// Supplier-product links

// LinkProduct creates a supplier-product link. The (supplier, product) pair
// is unique.
func (r *SupplierRepository) LinkProduct(ctx context.Context, link *SupplierProduct) error {
	if link.ID == "" {
		link.ID = uuid.New().String()
	}

	query := `
		INSERT INTO supplier_products (
			id, supplier_id, product_id, unit_cost, lead_time_days,
			last_supplied_at, is_active, minimum_order_qty
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		link.ID, link.SupplierID, link.ProductID, link.UnitCost,
		link.LeadTimeDays, link.LastSuppliedAt, link.IsActive,
		link.MinimumOrderQty,
	).Scan(&link.CreatedAt, &link.UpdatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	return nil
}

// GetLink gets a supplier-product link by ID
func (r *SupplierRepository) GetLink(ctx context.Context, id string) (*SupplierProduct, error) {
	var link SupplierProduct

	query := `
		SELECT sp.id, sp.supplier_id, sp.product_id, sp.unit_cost,
		       sp.lead_time_days, sp.last_supplied_at, sp.is_active,
		       sp.minimum_order_qty, sp.created_at, sp.updated_at,
		       p.name AS product_name, p.sku AS product_sku,
		       s.name AS supplier_name
		FROM supplier_products sp
		JOIN products p ON p.id = sp.product_id
		JOIN suppliers s ON s.id = sp.supplier_id
		WHERE sp.id = $1
	`

	err := r.db.GetContext(ctx, &link, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("supplier product link")
	}
	if err != nil {
		return nil, err
	}

	return &link, nil
}

// UpdateLink updates the supply terms of a link
func (r *SupplierRepository) UpdateLink(ctx context.Context, link *SupplierProduct) error {
	query := `
		UPDATE supplier_products SET
			unit_cost = $2, lead_time_days = $3, last_supplied_at = $4,
			is_active = $5, minimum_order_qty = $6, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		link.ID, link.UnitCost, link.LeadTimeDays, link.LastSuppliedAt,
		link.IsActive, link.MinimumOrderQty,
	)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("supplier product link")
	}

	return nil
}

// ToggleLink flips the active flag of a link and returns the new state
func (r *SupplierRepository) ToggleLink(ctx context.Context, id string) (bool, error) {
	var isActive bool

	query := `
		UPDATE supplier_products SET is_active = NOT is_active, updated_at = NOW()
		WHERE id = $1
		RETURNING is_active
	`

	err := r.db.QueryRowxContext(ctx, query, id).Scan(&isActive)
	if err == sql.ErrNoRows {
		return false, errors.NotFound("supplier product link")
	}
	if err != nil {
		return false, err
	}

	return isActive, nil
}

// UnlinkProduct removes a supplier-product link
func (r *SupplierRepository) UnlinkProduct(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM supplier_products WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("supplier product link")
	}

	return nil
}

// ListLinksBySupplier lists a supplier's product links with product details
func (r *SupplierRepository) ListLinksBySupplier(ctx context.Context, supplierID string) ([]*SupplierProduct, error) {
	var links []*SupplierProduct

	query := `
		SELECT sp.id, sp.supplier_id, sp.product_id, sp.unit_cost,
		       sp.lead_time_days, sp.last_supplied_at, sp.is_active,
		       sp.minimum_order_qty, sp.created_at, sp.updated_at,
		       p.name AS product_name, p.sku AS product_sku
		FROM supplier_products sp
		JOIN products p ON p.id = sp.product_id
		WHERE sp.supplier_id = $1
		ORDER BY p.name
	`

	if err := r.db.SelectContext(ctx, &links, query, supplierID); err != nil {
		return nil, err
	}

	return links, nil
}

// ListLinksByProduct lists the suppliers linked to a product
func (r *SupplierRepository) ListLinksByProduct(ctx context.Context, productID string) ([]*SupplierProduct, error) {
	var links []*SupplierProduct

	query := `
		SELECT sp.id, sp.supplier_id, sp.product_id, sp.unit_cost,
		       sp.lead_time_days, sp.last_supplied_at, sp.is_active,
		       sp.minimum_order_qty, sp.created_at, sp.updated_at,
		       s.name AS supplier_name
		FROM supplier_products sp
		JOIN suppliers s ON s.id = sp.supplier_id
		WHERE sp.product_id = $1
		ORDER BY s.name
	`

	if err := r.db.SelectContext(ctx, &links, query, productID); err != nil {
		return nil, err
	}

	return links, nil
}

// GetAllLinks returns every supplier-product link, for report aggregation
func (r *SupplierRepository) GetAllLinks(ctx context.Context) ([]*SupplierProduct, error) {
	var links []*SupplierProduct

	query := `
		SELECT sp.id, sp.supplier_id, sp.product_id, sp.unit_cost,
		       sp.lead_time_days, sp.last_supplied_at, sp.is_active,
		       sp.minimum_order_qty, sp.created_at, sp.updated_at,
		       p.name AS product_name, p.sku AS product_sku
		FROM supplier_products sp
		JOIN products p ON p.id = sp.product_id
	`

	if err := r.db.SelectContext(ctx, &links, query); err != nil {
		return nil, err
	}

	return links, nil
}
