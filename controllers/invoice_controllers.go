package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	"github.com/yeremiapane/sepatu-storefront/models"
	"github.com/yeremiapane/sepatu-storefront/status"
	"github.com/yeremiapane/sepatu-storefront/utils"
	"gorm.io/gorm"
)

type InvoiceController struct {
	DB        *gorm.DB
	StoreName string
}

func NewInvoiceController(db *gorm.DB) *InvoiceController {
	return &InvoiceController{DB: db, StoreName: "Sepatu Storefront"}
}

// InvoiceNumber -> INV/20240501/000042
func InvoiceNumber(order models.Order) string {
	return fmt.Sprintf("INV/%s/%06d", order.CreatedAt.Format("20060102"), order.ID)
}

// GetInvoice -> PDF invoice untuk order yang sudah dibayar
func (ic *InvoiceController) GetInvoice(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	orderID, ok := parseUintParam(c, "order_id")
	if !ok {
		return
	}

	order, err := findUserOrder(ic.DB, userID, orderID, "OrderItems.Produk")
	if err != nil {
		respondLookupError(c, err)
		return
	}

	display, err := orderDisplay(ic.DB, order)
	if err != nil {
		respondLookupError(c, err)
		return
	}
	if display != status.Dibayar {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("pembayaran belum selesai"))
		return
	}

	var buf bytes.Buffer
	if err := ic.render(&buf, order, display); err != nil {
		utils.ErrorLogger.Errorf("render invoice %d: %v", order.ID, err)
		utils.RespondError(c, http.StatusInternalServerError, fmt.Errorf("gagal membuat invoice"))
		return
	}

	filename := "invoice-" + strconv.FormatUint(uint64(order.ID), 10) + ".pdf"
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// shippingAddressLines membaca shipping_address_json; format yang tidak dikenal diabaikan.
func shippingAddressLines(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var addr map[string]any
	if err := json.Unmarshal([]byte(raw), &addr); err != nil {
		return nil
	}

	var lines []string
	for _, key := range []string{"nama", "name", "telepon", "phone", "alamat", "address", "kota", "city", "kode_pos", "postal_code"} {
		if v, ok := addr[key].(string); ok && strings.TrimSpace(v) != "" {
			lines = append(lines, v)
		}
	}
	return lines
}

func (ic *InvoiceController) render(buf *bytes.Buffer, order *models.Order, display status.Display) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, ic.StoreName)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "INVOICE")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(90, 7, "No: "+InvoiceNumber(*order))
	pdf.Cell(90, 7, "Tanggal: "+order.CreatedAt.Format("02-01-2006 15:04"))
	pdf.Ln(7)
	pdf.Cell(90, 7, "Pembayaran: "+order.PaymentMethod)
	pdf.Cell(90, 7, "Status: "+string(display))
	pdf.Ln(7)
	if order.ShippingMethod != "" {
		pdf.Cell(90, 7, "Pengiriman: "+order.ShippingMethod)
		pdf.Cell(90, 7, "Resi: "+order.ShippingResi)
		pdf.Ln(7)
	}

	if lines := shippingAddressLines(order.ShippingAddressJSON); len(lines) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(100, 7, "Dikirim ke:")
		pdf.Ln(7)
		pdf.SetFont("Arial", "", 11)
		for _, l := range lines {
			pdf.Cell(180, 6, l)
			pdf.Ln(6)
		}
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(80, 8, "Produk", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 8, "Ukuran", "1", 0, "C", false, 0, "")
	pdf.CellFormat(15, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 8, "Harga", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 8, "Subtotal", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	var itemsTotal float64
	for _, item := range order.OrderItems {
		itemsTotal += item.Subtotal()
		pdf.CellFormat(80, 8, item.Produk.NamaProduk, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, item.Size, "1", 0, "C", false, 0, "")
		pdf.CellFormat(15, 8, strconv.Itoa(item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 8, utils.FormatCurrencyIDR(item.HargaSatuan), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, utils.FormatCurrencyIDR(item.Subtotal()), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(150, 8, "Subtotal produk:", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, utils.FormatCurrencyIDR(itemsTotal), "", 1, "R", false, 0, "")
	// ongkir dan diskon dihitung backend; selisihnya ditampilkan sebagai penyesuaian
	if adj := order.TotalAmount - itemsTotal; adj != 0 {
		pdf.CellFormat(150, 8, "Ongkir / diskon:", "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, utils.FormatCurrencyIDR(adj), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(150, 10, "Total:", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 10, utils.FormatCurrencyIDR(order.TotalAmount), "", 1, "R", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 11)
	pdf.Cell(0, 10, "Terima kasih telah berbelanja di "+ic.StoreName+"!")

	return pdf.Output(buf)
}
