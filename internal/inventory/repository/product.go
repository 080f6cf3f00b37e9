package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stocker/stocker-backend/pkg/database"
	"github.com/stocker/stocker-backend/pkg/errors"
)

// Dosage forms accepted for products
var DosageForms = []string{
	"tablet", "capsule", "syrup", "injection", "ointment",
	"cream", "drops", "inhaler", "suppository", "other",
}

// ValidDosageForm reports whether the given dosage form is recognized.
func ValidDosageForm(form string) bool {
	for _, f := range DosageForms {
		if f == form {
			return true
		}
	}
	return false
}

// GenerateSKU derives the immutable stock-keeping code from a product's
// identity. Assigned once on first creation, never regenerated.
func GenerateSKU(productID string) string {
	compact := strings.ReplaceAll(productID, "-", "")
	if len(compact) > 8 {
		compact = compact[:8]
	}
	return "PRD-" + strings.ToUpper(compact)
}

// Product represents a catalog product
type Product struct {
	ID              string          `db:"id" json:"id"`
	SKU             string          `db:"sku" json:"sku"`
	Name            string          `db:"name" json:"name"`
	Description     *string         `db:"description" json:"description,omitempty"`
	ImageURL        *string         `db:"image_url" json:"image_url,omitempty"`
	CategoryID      *string         `db:"category_id" json:"category_id,omitempty"`
	QuantityInStock int             `db:"quantity_in_stock" json:"quantity_in_stock"`
	ExpiryDate      *time.Time      `db:"expiry_date" json:"expiry_date,omitempty"`
	BatchNumber     *string         `db:"batch_number" json:"batch_number,omitempty"`
	DosageForm      string          `db:"dosage_form" json:"dosage_form"`
	Strength        *string         `db:"strength" json:"strength,omitempty"`
	Price           decimal.Decimal `db:"price" json:"price"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`

	// CategoryName is joined in by read queries
	CategoryName *string `db:"category_name" json:"category_name,omitempty"`
}

// ProductFilter narrows product list queries.
type ProductFilter struct {
	CategoryID string
	// Status is one of: in_stock, low_stock, out_of_stock, expired, near_expiry
	Status string
	Search string

	// Thresholds used by status filtering; set by the caller from configuration.
	LowStockThreshold int
	NearExpiryDays    int
	Today             time.Time

	Page    int
	PerPage int
}

// ProductRepository handles product persistence
type ProductRepository struct {
	db *database.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *database.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `
	p.id, p.sku, p.name, p.description, p.image_url, p.category_id,
	p.quantity_in_stock, p.expiry_date, p.batch_number, p.dosage_form,
	p.strength, p.price, p.created_at, p.updated_at,
	c.name AS category_name
`

// Create creates a new product. The stock-keeping code is derived from the
// generated identity exactly once and never changes afterwards.
func (r *ProductRepository) Create(ctx context.Context, product *Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	product.SKU = GenerateSKU(product.ID)

	query := `
		INSERT INTO products (
			id, sku, name, description, image_url, category_id,
			quantity_in_stock, expiry_date, batch_number, dosage_form,
			strength, price
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		product.ID, product.SKU, product.Name, product.Description,
		product.ImageURL, product.CategoryID, product.QuantityInStock,
		product.ExpiryDate, product.BatchNumber, product.DosageForm,
		product.Strength, product.Price,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	return nil
}

// GetByID gets a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	var product Product

	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`

	err := r.db.GetContext(ctx, &product, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("product")
	}
	if err != nil {
		return nil, err
	}

	return &product, nil
}

// GetBySKU gets a product by its stock-keeping code
func (r *ProductRepository) GetBySKU(ctx context.Context, sku string) (*Product, error) {
	var product Product

	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.sku = $1
	`

	err := r.db.GetContext(ctx, &product, query, sku)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("product")
	}
	if err != nil {
		return nil, err
	}

	return &product, nil
}

// List lists products matching the filter with pagination
func (r *ProductRepository) List(ctx context.Context, filter ProductFilter) ([]*Product, int64, error) {
	where, args := buildProductWhere(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM products p` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PerPage
	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id` + where +
		fmt.Sprintf(` ORDER BY p.name LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, filter.PerPage, offset)

	var products []*Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// buildProductWhere translates a filter into a WHERE clause. Status
// conditions mirror the threshold evaluator's classification rules.
func buildProductWhere(filter ProductFilter) (string, []interface{}) {
	conds := []string{}
	args := []interface{}{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.CategoryID != "" {
		conds = append(conds, "p.category_id = "+arg(filter.CategoryID))
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		conds = append(conds, "(p.name ILIKE "+arg(pattern)+" OR p.sku ILIKE "+arg(pattern)+")")
	}

	switch filter.Status {
	case "out_of_stock":
		conds = append(conds, "p.quantity_in_stock = 0")
	case "low_stock":
		conds = append(conds, "p.quantity_in_stock > 0 AND p.quantity_in_stock < "+arg(filter.LowStockThreshold))
	case "in_stock":
		conds = append(conds, "p.quantity_in_stock >= "+arg(filter.LowStockThreshold))
	case "expired":
		conds = append(conds, "p.expiry_date IS NOT NULL AND p.expiry_date < "+arg(filter.Today))
	case "near_expiry":
		today := arg(filter.Today)
		limit := arg(filter.Today.AddDate(0, 0, filter.NearExpiryDays))
		conds = append(conds, "p.expiry_date IS NOT NULL AND p.expiry_date >= "+today+" AND p.expiry_date <= "+limit)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// GetAll returns every product in the catalog, for snapshot evaluation
func (r *ProductRepository) GetAll(ctx context.Context) ([]*Product, error) {
	var products []*Product

	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		ORDER BY p.name
	`

	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, err
	}

	return products, nil
}

// Update updates a product's catalog fields. The stock-keeping code is
// immutable and quantity changes go through the stock ledger only.
func (r *ProductRepository) Update(ctx context.Context, product *Product) error {
	query := `
		UPDATE products SET
			name = $2, description = $3, image_url = $4, category_id = $5,
			expiry_date = $6, batch_number = $7, dosage_form = $8,
			strength = $9, price = $10, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		product.ID, product.Name, product.Description, product.ImageURL,
		product.CategoryID, product.ExpiryDate, product.BatchNumber,
		product.DosageForm, product.Strength, product.Price,
	)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("product")
	}

	return nil
}

// Delete removes a product. Its ledger entries and supplier links are
// removed by cascade.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("product")
	}

	return nil
}
