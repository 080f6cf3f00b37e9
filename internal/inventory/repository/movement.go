package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stocker/stocker-backend/pkg/database"
	"github.com/stocker/stocker-backend/pkg/errors"
)

// Movement types accepted by the stock ledger
const (
	MovementRestock    = "restock"
	MovementSale       = "sale"
	MovementAdjustment = "adjustment"
	MovementReturn     = "return"
)

// MovementTypes lists the accepted movement types
var MovementTypes = []string{
	MovementRestock, MovementSale, MovementAdjustment, MovementReturn,
}

// ValidMovementType reports whether the given movement type is recognized.
func ValidMovementType(t string) bool {
	for _, m := range MovementTypes {
		if m == t {
			return true
		}
	}
	return false
}

// StockMovement is one immutable ledger entry recording a quantity
// transition. Entries are never edited or deleted once written.
type StockMovement struct {
	ID               string    `db:"id" json:"id"`
	ProductID        string    `db:"product_id" json:"product_id"`
	MovementType     string    `db:"movement_type" json:"movement_type"`
	PreviousQuantity int       `db:"previous_quantity" json:"previous_quantity"`
	NewQuantity      int       `db:"new_quantity" json:"new_quantity"`
	Delta            int       `db:"delta" json:"delta"`
	Reason           *string   `db:"reason" json:"reason,omitempty"`
	PerformedBy      *string   `db:"performed_by" json:"performed_by,omitempty"`
	PerformedByName  *string   `db:"performed_by_name" json:"performed_by_name,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`

	// ProductName is joined in by list queries
	ProductName *string `db:"product_name" json:"product_name,omitempty"`
}

// MovementRepository handles the append-only stock ledger. It exposes no
// update or delete operations.
type MovementRepository struct {
	db *database.DB
}

// NewMovementRepository creates a new movement repository
func NewMovementRepository(db *database.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

// Record writes a stock transition: the product's quantity is updated and a
// ledger entry is appended in the same transaction, so both succeed or
// neither does. The movement's PreviousQuantity and Delta are computed from
// the row state at write time under a row lock.
//
// The caller validates that NewQuantity is non-negative and MovementType is
// recognized before calling.
func (r *MovementRepository) Record(ctx context.Context, mv *StockMovement) error {
	if mv.ID == "" {
		mv.ID = uuid.New().String()
	}

	return r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		var previous int
		err := tx.QueryRowxContext(ctx,
			`SELECT quantity_in_stock FROM products WHERE id = $1 FOR UPDATE`,
			mv.ProductID,
		).Scan(&previous)
		if err == sql.ErrNoRows {
			return errors.NotFound("product")
		}
		if err != nil {
			return err
		}

		mv.PreviousQuantity = previous
		mv.Delta = mv.NewQuantity - previous

		if _, err := tx.ExecContext(ctx,
			`UPDATE products SET quantity_in_stock = $2, updated_at = NOW() WHERE id = $1`,
			mv.ProductID, mv.NewQuantity,
		); err != nil {
			return err
		}

		return tx.QueryRowxContext(ctx, `
			INSERT INTO stock_movements (
				id, product_id, movement_type, previous_quantity,
				new_quantity, delta, reason, performed_by, performed_by_name
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING created_at
		`,
			mv.ID, mv.ProductID, mv.MovementType, mv.PreviousQuantity,
			mv.NewQuantity, mv.Delta, mv.Reason, mv.PerformedBy,
			mv.PerformedByName,
		).Scan(&mv.CreatedAt)
	})
}

// List lists ledger entries newest-first, optionally filtered by movement type
func (r *MovementRepository) List(ctx context.Context, movementType string, page, perPage int) ([]*StockMovement, int64, error) {
	var total int64
	var movements []*StockMovement

	countQuery := `SELECT COUNT(*) FROM stock_movements`
	query := `
		SELECT m.id, m.product_id, m.movement_type, m.previous_quantity,
		       m.new_quantity, m.delta, m.reason, m.performed_by,
		       m.performed_by_name, m.created_at,
		       p.name AS product_name
		FROM stock_movements m
		JOIN products p ON p.id = m.product_id
	`
	args := []interface{}{}

	if movementType != "" {
		countQuery += ` WHERE movement_type = $1`
		query += ` WHERE m.movement_type = $1`
		args = append(args, movementType)
	}

	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	query += ` ORDER BY m.created_at DESC`
	if movementType != "" {
		query += ` LIMIT $2 OFFSET $3`
	} else {
		query += ` LIMIT $1 OFFSET $2`
	}
	args = append(args, perPage, offset)

	if err := r.db.SelectContext(ctx, &movements, query, args...); err != nil {
		return nil, 0, err
	}

	return movements, total, nil
}

// ListByProduct lists a product's ledger entries newest-first
func (r *MovementRepository) ListByProduct(ctx context.Context, productID string, page, perPage int) ([]*StockMovement, int64, error) {
	var total int64
	var movements []*StockMovement

	countQuery := `SELECT COUNT(*) FROM stock_movements WHERE product_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, productID); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	query := `
		SELECT m.id, m.product_id, m.movement_type, m.previous_quantity,
		       m.new_quantity, m.delta, m.reason, m.performed_by,
		       m.performed_by_name, m.created_at,
		       p.name AS product_name
		FROM stock_movements m
		JOIN products p ON p.id = m.product_id
		WHERE m.product_id = $1
		ORDER BY m.created_at DESC
		LIMIT $2 OFFSET $3
	`

	if err := r.db.SelectContext(ctx, &movements, query, productID, perPage, offset); err != nil {
		return nil, 0, err
	}

	return movements, total, nil
}
