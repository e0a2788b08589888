package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"suppliers-be/internal/models"
	"suppliers-be/internal/service"
)

// QRCodeController renders a supplier's contact card as a QR code
type QRCodeController struct {
	supplierService service.SupplierService
	frontendURL     string
}

func NewQRCodeController(supplierService service.SupplierService, frontendURL string) *QRCodeController {
	return &QRCodeController{
		supplierService: supplierService,
		frontendURL:     strings.TrimRight(frontendURL, "/"),
	}
}

// GenerateQRCode handles GET /api/suppliers/:id/qrcode?size=
func (qc *QRCodeController) GenerateQRCode(c *gin.Context) {
	id, ok := supplierID(c)
	if !ok {
		return
	}

	query := models.QRCodeQuery{Size: 256}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid QR code size",
			Details: err.Error(),
		})
		return
	}

	supplier, err := qc.supplierService.GetSupplier(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	qrCode, err := qrcode.New(qc.vCard(supplier), qrcode.Medium)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to generate QR code",
		})
		return
	}

	pngData, err := qrCode.PNG(query.Size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to generate QR code image",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=supplier-%s.png", supplier.ID))
	c.Data(http.StatusOK, "image/png", pngData)
}

// vCard builds a vCard 3.0 payload for supplier
func (qc *QRCodeController) vCard(supplier *models.SupplierResponse) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCARD\r\nVERSION:3.0\r\n")
	fmt.Fprintf(&b, "FN:%s\r\n", vCardEscape(supplier.Name))
	fmt.Fprintf(&b, "ORG:%s\r\n", vCardEscape(supplier.Name))
	fmt.Fprintf(&b, "EMAIL:%s\r\n", vCardEscape(supplier.Email))
	fmt.Fprintf(&b, "TEL:%s\r\n", vCardEscape(supplier.Phone))
	fmt.Fprintf(&b, "ADR:;;%s;;;;\r\n", vCardEscape(supplier.Address))
	if qc.frontendURL != "" {
		fmt.Fprintf(&b, "URL:%s/suppliers/%s\r\n", qc.frontendURL, supplier.ID)
	}
	b.WriteString("END:VCARD\r\n")
	return b.String()
}

var vCardReplacer = strings.NewReplacer(
	`\`, `\\`,
	"\r\n", `\n`,
	"\n", `\n`,
	",", `\,`,
	";", `\;`,
)

func vCardEscape(s string) string {
	return vCardReplacer.Replace(s)
}
