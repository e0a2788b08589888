package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"suppliers-be/internal/cache"
	"suppliers-be/internal/database"
	"suppliers-be/internal/entities"
	"suppliers-be/internal/logging"
	"suppliers-be/internal/models"
	"suppliers-be/internal/repository"
)

// SupplierService defines the interface for supplier business logic
type SupplierService interface {
	GetSupplier(ctx context.Context, id uuid.UUID) (*models.SupplierResponse, error)
	ListSuppliers(ctx context.Context, page models.Pagination) ([]*models.SupplierResponse, error)
	CreateSupplier(ctx context.Context, req *models.CreateSupplierRequest) (*models.SupplierResponse, error)
	UpdateSupplier(ctx context.Context, id uuid.UUID, req *models.UpdateSupplierRequest) (*models.SupplierResponse, error)
	DeleteSupplier(ctx context.Context, id uuid.UUID) error
}

type supplierService struct {
	db       *sql.DB
	cache    cache.Cache
	cacheTTL time.Duration
	log      logging.Logger
}

// NewSupplierService creates a new supplier service. cache may be nil, in
// which case every read goes to the database.
func NewSupplierService(db *sql.DB, c cache.Cache, cacheTTL time.Duration, log logging.Logger) SupplierService {
	return &supplierService{
		db:       db,
		cache:    c,
		cacheTTL: cacheTTL,
		log:      log.With("component", "supplier_service"),
	}
}

// GetSupplier reads through the cache when one is configured
func (s *supplierService) GetSupplier(ctx context.Context, id uuid.UUID) (*models.SupplierResponse, error) {
	key := cache.SupplierKey(id.String())

	if s.cache != nil {
		var cached models.SupplierResponse
		err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn(ctx, "supplier cache read failed", "key", key, "error", err)
		}
	}

	supplier, err := repository.NewSupplierRepository(s.db).FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Entity: entitySupplier, Field: "id", Value: id.String()}
	}
	if err != nil {
		return nil, storeError(ctx, s.log, "get_supplier", entitySupplier, err, nil)
	}

	resp := models.NewSupplierResponse(supplier)
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, resp, s.cacheTTL); err != nil {
			s.log.Warn(ctx, "supplier cache write failed", "key", key, "error", err)
		}
	}

	return resp, nil
}

func (s *supplierService) ListSuppliers(ctx context.Context, page models.Pagination) ([]*models.SupplierResponse, error) {
	suppliers, err := repository.NewSupplierRepository(s.db).List(ctx, page.Skip, page.Limit)
	if err != nil {
		return nil, storeError(ctx, s.log, "list_suppliers", entitySupplier, err, nil)
	}
	return models.NewSupplierResponses(suppliers), nil
}

// CreateSupplier stores a new supplier. Email and phone must not be used by
// any existing supplier.
func (s *supplierService) CreateSupplier(ctx context.Context, req *models.CreateSupplierRequest) (*models.SupplierResponse, error) {
	var created *entities.Supplier
	err := database.WithTx(ctx, s.db, func(ctx context.Context, tx database.DBTX) error {
		repo := repository.NewSupplierRepository(tx)

		if err := ensureContactFree(ctx, repo, req.Email, req.Phone, uuid.Nil); err != nil {
			return err
		}

		var err error
		created, err = repo.Create(ctx, &entities.Supplier{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Address: req.Address,
		})
		return err
	})
	if err != nil {
		return nil, storeError(ctx, s.log, "create_supplier", entitySupplier, err,
			map[string]string{"email": req.Email, "phone": req.Phone})
	}

	s.log.Info(ctx, "supplier created", "supplier_id", created.ID)
	return models.NewSupplierResponse(created), nil
}

// UpdateSupplier applies the non-nil fields of req. The row is locked for the
// duration of the uniqueness check and the write. The cache entry is dropped
// before and after the write so a read racing the transaction can only
// repopulate it with the committed row or expire within the cache TTL.
func (s *supplierService) UpdateSupplier(ctx context.Context, id uuid.UUID, req *models.UpdateSupplierRequest) (*models.SupplierResponse, error) {
	s.invalidate(ctx, id)

	var updated *entities.Supplier
	err := database.WithTx(ctx, s.db, func(ctx context.Context, tx database.DBTX) error {
		repo := repository.NewSupplierRepository(tx)

		supplier, err := repo.FindByIDForUpdate(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: entitySupplier, Field: "id", Value: id.String()}
		}
		if err != nil {
			return err
		}

		changed := applySupplierUpdate(supplier, req)
		if !changed {
			updated = supplier
			return nil
		}

		if err := ensureContactFree(ctx, repo, supplier.Email, supplier.Phone, supplier.ID); err != nil {
			return err
		}

		updated, err = repo.Update(ctx, supplier)
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: entitySupplier, Field: "id", Value: id.String()}
		}
		return err
	})
	if err != nil {
		values := map[string]string{}
		if req.Email != nil {
			values["email"] = *req.Email
		}
		if req.Phone != nil {
			values["phone"] = *req.Phone
		}
		return nil, storeError(ctx, s.log, "update_supplier", entitySupplier, err, values)
	}

	s.invalidate(ctx, id)
	return models.NewSupplierResponse(updated), nil
}

func (s *supplierService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	s.invalidate(ctx, id)

	err := database.WithTx(ctx, s.db, func(ctx context.Context, tx database.DBTX) error {
		err := repository.NewSupplierRepository(tx).Delete(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: entitySupplier, Field: "id", Value: id.String()}
		}
		return err
	})
	if err != nil {
		return storeError(ctx, s.log, "delete_supplier", entitySupplier, err, nil)
	}

	s.invalidate(ctx, id)
	s.log.Info(ctx, "supplier deleted", "supplier_id", id)
	return nil
}

func (s *supplierService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	key := cache.SupplierKey(id.String())
	if err := s.cache.Delete(ctx, key); err != nil {
		s.log.Warn(ctx, "supplier cache invalidation failed", "key", key, "error", err)
	}
}

// applySupplierUpdate copies the non-nil fields of req onto supplier and
// reports whether anything changed.
func applySupplierUpdate(supplier *entities.Supplier, req *models.UpdateSupplierRequest) bool {
	changed := false
	set := func(dst *string, src *string) {
		if src != nil && *src != *dst {
			*dst = *src
			changed = true
		}
	}
	set(&supplier.Name, req.Name)
	set(&supplier.Email, req.Email)
	set(&supplier.Phone, req.Phone)
	set(&supplier.Address, req.Address)
	return changed
}

// ensureContactFree fails with an AlreadyExistsError when another supplier
// uses email or phone. Email is reported first when both collide.
func ensureContactFree(ctx context.Context, repo repository.SupplierRepository, email, phone string, self uuid.UUID) error {
	existing, err := repo.FindConflicting(ctx, email, phone, self)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.Email == email {
		return &AlreadyExistsError{Entity: entitySupplier, Field: "email", Value: email}
	}
	return &AlreadyExistsError{Entity: entitySupplier, Field: "phone", Value: phone}
}
