package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"suppliers-be/internal/database"
	"suppliers-be/internal/entities"
)

// SupplierRepository defines the interface for supplier database operations
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entities.Supplier) (*entities.Supplier, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Supplier, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.Supplier, error)
	FindConflicting(ctx context.Context, email, phone string, excludeID uuid.UUID) (*entities.Supplier, error)
	List(ctx context.Context, offset, limit int) ([]*entities.Supplier, error)
	Update(ctx context.Context, supplier *entities.Supplier) (*entities.Supplier, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type supplierRepository struct {
	db database.DBTX
}

// NewSupplierRepository creates a supplier repository bound to a pool or a transaction
func NewSupplierRepository(db database.DBTX) SupplierRepository {
	return &supplierRepository{db: db}
}

const supplierColumns = `id, name, email, phone, address, created_at, updated_at`

func scanSupplier(row interface{ Scan(dest ...any) error }) (*entities.Supplier, error) {
	var supplier entities.Supplier
	err := row.Scan(
		&supplier.ID,
		&supplier.Name,
		&supplier.Email,
		&supplier.Phone,
		&supplier.Address,
		&supplier.CreatedAt,
		&supplier.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

// Create inserts a new supplier and returns the persisted row
func (r *supplierRepository) Create(ctx context.Context, supplier *entities.Supplier) (*entities.Supplier, error) {
	if supplier.ID == uuid.Nil {
		supplier.ID = uuid.New()
	}

	query := `
		INSERT INTO suppliers (id, name, email, phone, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + supplierColumns

	created, err := scanSupplier(r.db.QueryRowContext(ctx, query,
		supplier.ID, supplier.Name, supplier.Email, supplier.Phone, supplier.Address))
	if err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", translateError(err))
	}

	return created, nil
}

// FindByID finds a supplier by ID
func (r *supplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Supplier, error) {
	return r.findByID(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id)
}

// FindByIDForUpdate finds a supplier by ID and locks the row until the
// surrounding transaction ends
func (r *supplierRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.Supplier, error) {
	return r.findByID(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1 FOR UPDATE`, id)
}

func (r *supplierRepository) findByID(ctx context.Context, query string, id uuid.UUID) (*entities.Supplier, error) {
	supplier, err := scanSupplier(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find supplier: %w", err)
	}

	return supplier, nil
}

// FindConflicting returns a supplier other than excludeID that already uses
// email or phone. Pass uuid.Nil to check against every supplier.
func (r *supplierRepository) FindConflicting(ctx context.Context, email, phone string, excludeID uuid.UUID) (*entities.Supplier, error) {
	query := `
		SELECT ` + supplierColumns + `
		FROM suppliers
		WHERE (email = $1 OR phone = $2) AND id <> $3
		LIMIT 1`

	supplier, err := scanSupplier(r.db.QueryRowContext(ctx, query, email, phone, excludeID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check supplier uniqueness: %w", err)
	}

	return supplier, nil
}

// List returns a window of suppliers ordered by id
func (r *supplierRepository) List(ctx context.Context, offset, limit int) ([]*entities.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers ORDER BY id OFFSET $1 LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	defer rows.Close()

	suppliers := make([]*entities.Supplier, 0)
	for rows.Next() {
		supplier, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, supplier)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suppliers: %w", err)
	}

	return suppliers, nil
}

// Update writes every mutable column of supplier and returns the re-read row
func (r *supplierRepository) Update(ctx context.Context, supplier *entities.Supplier) (*entities.Supplier, error) {
	query := `
		UPDATE suppliers
		SET name = $2, email = $3, phone = $4, address = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + supplierColumns

	updated, err := scanSupplier(r.db.QueryRowContext(ctx, query,
		supplier.ID, supplier.Name, supplier.Email, supplier.Phone, supplier.Address))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update supplier: %w", translateError(err))
	}

	return updated, nil
}

// Delete permanently removes a supplier
func (r *supplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
