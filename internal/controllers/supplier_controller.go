package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"suppliers-be/internal/models"
	"suppliers-be/internal/service"
)

type SupplierController struct {
	supplierService service.SupplierService
}

func NewSupplierController(supplierService service.SupplierService) *SupplierController {
	return &SupplierController{
		supplierService: supplierService,
	}
}

// ListSuppliers handles GET /api/suppliers/?skip=&limit=
func (sc *SupplierController) ListSuppliers(c *gin.Context) {
	page := models.DefaultPagination()
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid pagination parameters",
			Details: err.Error(),
		})
		return
	}

	suppliers, err := sc.supplierService.ListSuppliers(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, suppliers)
}

// GetSupplier handles GET /api/suppliers/:id
func (sc *SupplierController) GetSupplier(c *gin.Context) {
	id, ok := supplierID(c)
	if !ok {
		return
	}

	supplier, err := sc.supplierService.GetSupplier(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, supplier)
}

// CreateSupplier handles POST /api/suppliers/
func (sc *SupplierController) CreateSupplier(c *gin.Context) {
	var req models.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	supplier, err := sc.supplierService.CreateSupplier(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, supplier)
}

// UpdateSupplier handles PUT /api/suppliers/:id. Only supplied fields change.
func (sc *SupplierController) UpdateSupplier(c *gin.Context) {
	id, ok := supplierID(c)
	if !ok {
		return
	}

	var req models.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	supplier, err := sc.supplierService.UpdateSupplier(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, supplier)
}

// DeleteSupplier handles DELETE /api/suppliers/:id
func (sc *SupplierController) DeleteSupplier(c *gin.Context) {
	id, ok := supplierID(c)
	if !ok {
		return
	}

	if err := sc.supplierService.DeleteSupplier(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// supplierID parses the :id path parameter, writing a 400 when it is not a UUID
func supplierID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Invalid supplier id",
		})
		return uuid.Nil, false
	}
	return id, true
}
