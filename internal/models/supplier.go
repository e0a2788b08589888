package models

import (
	"github.com/google/uuid"

	"suppliers-be/internal/entities"
)

// CreateSupplierRequest represents the request body for creating a supplier
type CreateSupplierRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address" binding:"required"`
}

// UpdateSupplierRequest is a partial update: only non-nil fields are applied.
type UpdateSupplierRequest struct {
	Name    *string `json:"name,omitempty" binding:"omitempty,min=1"`
	Email   *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" binding:"omitempty,min=1"`
	Address *string `json:"address,omitempty"`
}

// Pagination is the fixed offset/limit window used by list endpoints
type Pagination struct {
	Skip  int `form:"skip,default=0" binding:"min=0"`
	Limit int `form:"limit,default=100" binding:"min=1,max=1000"`
}

const DefaultPageLimit = 100

func DefaultPagination() Pagination {
	return Pagination{Skip: 0, Limit: DefaultPageLimit}
}

// SupplierResponse is the public view of a supplier
type SupplierResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Phone   string    `json:"phone"`
	Address string    `json:"address"`
}

func NewSupplierResponse(s *entities.Supplier) *SupplierResponse {
	return &SupplierResponse{
		ID:      s.ID,
		Name:    s.Name,
		Email:   s.Email,
		Phone:   s.Phone,
		Address: s.Address,
	}
}

func NewSupplierResponses(suppliers []*entities.Supplier) []*SupplierResponse {
	responses := make([]*SupplierResponse, len(suppliers))
	for i, s := range suppliers {
		responses[i] = NewSupplierResponse(s)
	}
	return responses
}

// QRCodeQuery selects the edge length in pixels of a contact QR code
type QRCodeQuery struct {
	Size int `form:"size,default=256" binding:"min=64,max=1024"`
}
