package database

import (
	"strings"

	"github.com/lib/pq"
	"github.com/stocker/stocker-backend/pkg/errors"
)

// MapError returns the mapped AppError when err is a recognized PostgreSQL
// error, or err unchanged otherwise.
func MapError(err error) error {
	if appErr := MapPQError(err); appErr != nil {
		return appErr
	}
	return err
}

// MapPQError converts a PostgreSQL error to an AppError with meaningful messages.
// Returns nil if the error is not a pq.Error.
func MapPQError(err error) *errors.AppError {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return nil
	}

	switch pqErr.Code {
	// Check constraint violation (23514)
	case "23514":
		return mapCheckConstraint(pqErr)

	// Unique constraint violation (23505)
	case "23505":
		return errors.Conflict(formatConstraintMessage(pqErr))

	// Foreign key violation (23503)
	case "23503":
		return errors.BadRequest("referenced record does not exist")

	// Not null violation (23502)
	case "23502":
		col := pqErr.Column
		if col == "" {
			col = "required field"
		}
		return errors.Validation(map[string]string{
			col: "must not be empty",
		})

	default:
		return nil
	}
}

// mapCheckConstraint maps specific CHECK constraint names to user-friendly messages.
func mapCheckConstraint(pqErr *pq.Error) *errors.AppError {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "quantity_non_negative"):
		return errors.Validation(map[string]string{
			"quantity_in_stock": "must not be negative",
		})

	case strings.Contains(constraint, "movement_type_valid"):
		return errors.Validation(map[string]string{
			"movement_type": "must be one of: restock, sale, adjustment, return",
		})

	case strings.Contains(constraint, "dosage_form_valid"):
		return errors.Validation(map[string]string{
			"dosage_form": "is not a recognized dosage form",
		})

	default:
		return errors.BadRequest("data validation failed: " + constraint)
	}
}

// formatConstraintMessage creates a user-friendly message for unique constraint violations.
func formatConstraintMessage(pqErr *pq.Error) string {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "categories_name"):
		return "a category with this name already exists"
	case strings.Contains(constraint, "products_sku"):
		return "a product with this stock-keeping code already exists"
	case strings.Contains(constraint, "supplier_products_supplier_id_product_id"):
		return "this supplier is already linked to this product"
	default:
		return "a record with these values already exists"
	}
}
